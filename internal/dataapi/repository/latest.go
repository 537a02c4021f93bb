package repository

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/query"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/store"
)

// DateParamName is the document field holding the series date, and the stem of
// the parameter name injected by latest-value refiltering.
const DateParamName = "date"

// latestValue finds the most recent date for which latestBy is defined among the
// documents matching the filter. The store has no "latest match, then filter by
// it" operator, so the result is folded back into the main query as an extra
// equality clause by injectLatestClause.
func latestValue(
	ctx context.Context,
	client store.Client,
	filter model.Filter,
	latestBy string,
	mode store.ExecutionMode,
	pageSize int,
) (string, error) {
	orderingText, err := query.Format(ctx, query.DefaultLatestOrdering)
	if err != nil {
		return "", err
	}

	text := query.Render(query.LatestDate, query.Substitutions{
		Clause:   filter.Clause,
		LatestBy: latestBy,
		Ordering: orderingText,
	})

	logger := store.NewLogger(text, filter.Arguments)
	cursor := store.WithLogging(client.Query(text, filter.Arguments, mode, pageSize, ""), logger)

	page, err := cursor.NextPage(ctx)
	if err != nil {
		return "", pageError(err, "latest date lookup failed")
	}
	if len(page.Items) == 0 {
		return "", errors.WithMessagef(model.ErrNotAvailable, "no latest date for %q", latestBy)
	}

	document, ok := page.Items[0].(map[string]interface{})
	if !ok {
		return "", errors.WithMessage(model.ErrNotAvailable, "malformed latest date row")
	}
	value, ok := document[DateParamName].(string)
	if !ok {
		return "", errors.WithMessagef(model.ErrNotAvailable, "latest date row is missing %q", DateParamName)
	}
	return value, nil
}

// injectLatestClause appends an equality clause pinning the filter to the
// resolved date. The parameter name carries a hash-derived suffix so it cannot
// collide with any name the caller already bound.
func injectLatestClause(filter model.Filter, value string) model.Filter {
	name := latestParamName()
	arguments := filter.Arguments.Clone()
	arguments = append(arguments, model.Parameter{Name: name, Value: value})
	return model.Filter{
		Clause:    fmt.Sprintf("%s AND c.%s = %s", filter.Clause, DateParamName, name),
		Arguments: arguments,
	}
}

func latestParamName() string {
	hash, _ := blake2b.New(6, nil)
	hash.Write([]byte(DateParamName))
	return fmt.Sprintf("@%s%s", DateParamName, hex.EncodeToString(hash.Sum(nil)))
}
