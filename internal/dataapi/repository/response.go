package repository

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
)

var paginationPattern = regexp.MustCompile(`(page=\d+[&]?)`)

// paginationLinks rebuilds the navigation links from the original request URL,
// with any existing page-number query parameter stripped and replaced.
func paginationLinks(requestURL *url.URL, pageNumber int, totalCount int, pageSize int) *model.Pagination {
	totalPages := (totalCount + pageSize - 1) / pageSize

	rawQuery := paginationPattern.ReplaceAllString(requestURL.RawQuery, "")
	base := strings.TrimRight("/v1/data?"+rawQuery, "&")

	links := &model.Pagination{
		Current: fmt.Sprintf("%s&page=%d", base, pageNumber),
		First:   fmt.Sprintf("%s&page=%d", base, 1),
		Last:    fmt.Sprintf("%s&page=%d", base, totalPages),
	}
	if pageNumber < totalPages {
		next := fmt.Sprintf("%s&page=%d", base, pageNumber+1)
		links.Next = &next
	}
	if pageNumber-1 > 0 {
		previous := fmt.Sprintf("%s&page=%d", base, pageNumber-1)
		links.Previous = &previous
	}
	return links
}

// renderCSV flattens rows into tabular text. Positional rows (plain sequences)
// are written without a header; record rows get a header of field names, sorted
// for a deterministic column order. No row-number column is emitted.
func renderCSV(rows []interface{}) (string, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	switch first := rows[0].(type) {
	case []interface{}:
		for _, row := range rows {
			values, ok := row.([]interface{})
			if !ok {
				return "", errors.WithMessage(model.ErrNotAvailable, "mixed row shapes in result set")
			}
			record := make([]string, len(values))
			for i, value := range values {
				record[i] = formatValue(value)
			}
			if err := writer.Write(record); err != nil {
				return "", err
			}
		}

	case map[string]interface{}:
		headers := make([]string, 0, len(first))
		for field := range first {
			headers = append(headers, field)
		}
		sort.Strings(headers)
		if err := writer.Write(headers); err != nil {
			return "", err
		}
		for _, row := range rows {
			record, ok := row.(map[string]interface{})
			if !ok {
				return "", errors.WithMessage(model.ErrNotAvailable, "mixed row shapes in result set")
			}
			values := make([]string, len(headers))
			for i, field := range headers {
				values[i] = formatValue(record[field])
			}
			if err := writer.Write(values); err != nil {
				return "", err
			}
		}

	default:
		return "", errors.WithMessage(model.ErrNotAvailable, "rows cannot be rendered as CSV")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

// formatValue renders one cell. Floats are capped at 20 significant digits.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.20g", v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
