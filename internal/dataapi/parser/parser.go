package parser

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/query"
)

// DefaultStructure is the projection used when a request supplies no structure
// token.
const DefaultStructure = `{'date': c.date, 'areaType': c.areaType, 'areaCode': c.areaCode, 'areaName': c.areaName}`

// DefaultOrdering is applied to every data and existence query.
var DefaultOrdering = query.Static(
	query.OrderBy{Field: "areaType", Direction: query.Asc},
	query.OrderBy{Field: "areaCode", Direction: query.Asc},
	query.OrderBy{Field: "date", Direction: query.Desc},
)

// Parser builds engine requests from querystrings whose tokens already arrive in
// structured form: "filters" as semicolon-separated name=value pairs, "structure"
// as the raw projection template, plus "latestBy", "format" and "page". The full
// token grammar of the public API lives with an upstream collaborator; this is
// the minimal adapter the service binary needs.
type Parser struct {
	seriesDate func() string
}

func New(seriesDate func() string) *Parser {
	return &Parser{seriesDate: seriesDate}
}

func (p *Parser) Parse(r *http.Request) (*model.Request, error) {
	values, err := queryValues(r.URL.RawQuery)
	if err != nil {
		return nil, err
	}

	filter, err := parseFilters(values["filters"])
	if err != nil {
		return nil, err
	}

	format := values["format"]
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		return nil, errors.Errorf("invalid format %q", format)
	}

	var page *int
	if token := values["page"]; token != "" {
		number, err := strconv.Atoi(token)
		if err != nil || number < 1 {
			return nil, errors.Errorf("invalid page number %q", token)
		}
		page = &number
	}

	structure := values["structure"]
	if structure == "" {
		structure = DefaultStructure
	}

	return &model.Request{
		Method:     r.Method,
		URL:        r.URL,
		Filter:     filter,
		Ordering:   DefaultOrdering,
		Structure:  structure,
		Format:     format,
		Page:       page,
		LatestBy:   values["latestBy"],
		SeriesDate: p.seriesDate(),
	}, nil
}

// queryValues splits the raw querystring on "&" only. Semicolons separate
// clauses inside the filters token, so url.ParseQuery (which rejects them)
// cannot be used here.
func queryValues(rawQuery string) (map[string]string, error) {
	values := map[string]string{}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		key, err := url.QueryUnescape(parts[0])
		if err != nil {
			return nil, errors.Wrapf(err, "malformed query token %q", pair)
		}
		value := ""
		if len(parts) == 2 {
			value, err = url.QueryUnescape(parts[1])
			if err != nil {
				return nil, errors.Wrapf(err, "malformed query token %q", pair)
			}
		}
		values[key] = value
	}
	return values, nil
}

// parseFilters converts "areaType=nation;areaName=england" into an AND-joined
// clause with one bound parameter per pair. The series-date clause is always
// present; its parameter is bound later by the engine.
func parseFilters(token string) (model.Filter, error) {
	clause := "c.seriesDate = @seriesDate"
	arguments := model.Parameters{}

	if token == "" {
		return model.Filter{Clause: clause, Arguments: arguments}, nil
	}

	for _, pair := range strings.Split(token, ";") {
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return model.Filter{}, errors.Errorf("malformed filter %q", pair)
		}
		name := "@" + parts[0]
		if arguments.Contains(name) {
			return model.Filter{}, errors.Errorf("duplicate filter %q", parts[0])
		}
		clause += fmt.Sprintf(" AND c.%s = %s", parts[0], name)
		arguments = append(arguments, model.Parameter{Name: name, Value: parts[1]})
	}

	return model.Filter{Clause: clause, Arguments: arguments}, nil
}
