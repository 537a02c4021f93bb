package repository

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/query"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/store"
)

// SeriesDateParamName is bound to the request's series date on every query.
const SeriesDateParamName = "@seriesDate"

const FormatCSV = "csv"

// Result is the outcome of one data request: a JSON envelope or rendered CSV
// text. HEAD requests produce neither; their success signal is the nil error.
type Result struct {
	Envelope *model.Response
	CSV      string
}

// Engine executes data requests against the store: it renders the query
// templates, resolves the execution mode, memoizes counts, and pages through
// results with a content-seeded cursor.
type Engine struct {
	store       store.Client
	counts      *CountCache
	environment string
	maxItems    int
}

func NewEngine(client store.Client, counts *CountCache, environment string, maxItemsPerResponse int) *Engine {
	return &Engine{
		store:       client,
		counts:      counts,
		environment: environment,
		maxItems:    maxItemsPerResponse,
	}
}

// GetData retrieves the data for one request. The latest-value lookup, when
// requested, must complete before the dependent main query is issued.
func (e *Engine) GetData(ctx context.Context, request *model.Request) (*Result, error) {
	mode := store.SelectExecutionMode(e.environment, request.SeriesDate)
	maxItems := e.maxItems

	filter := model.Filter{
		Clause: request.Filter.Clause,
		Arguments: append(
			request.Filter.Arguments.Clone(),
			model.Parameter{Name: SeriesDateParamName, Value: request.SeriesDate},
		),
	}

	if request.LatestBy != "" {
		value, err := latestValue(ctx, e.store, filter, request.LatestBy, mode, maxItems)
		if err != nil {
			return nil, err
		}
		filter = injectLatestClause(filter, value)
		maxItems = 1
	}

	switch request.Method {
	case http.MethodHead:
		return &Result{}, e.processHead(ctx, filter, request.Ordering, mode)
	case http.MethodGet:
		return e.processGet(ctx, request, filter, mode, maxItems)
	default:
		return nil, errors.Errorf("unsupported method %q", request.Method)
	}
}

// processHead runs the existence-check query variant. No rows are returned to
// the caller; zero matches fail with ErrNotAvailable.
func (e *Engine) processHead(ctx context.Context, filter model.Filter, ordering query.Ordering, mode store.ExecutionMode) error {
	orderingText, err := query.Format(ctx, ordering)
	if err != nil {
		return err
	}

	text := query.Render(query.Exists, query.Substitutions{
		Clause:   filter.Clause,
		Ordering: orderingText,
	})

	logger := store.NewLogger(text, filter.Arguments)
	cursor := store.WithLogging(e.store.Query(text, filter.Arguments, mode, e.maxItems, ""), logger)

	total := 0
	for cursor.More() {
		page, err := cursor.NextPage(ctx)
		if err != nil {
			return pageError(err, "existence check failed")
		}
		total += len(page.Items)
	}
	if total == 0 {
		return errors.WithMessage(model.ErrNotAvailable, "no matching documents")
	}
	return nil
}

func (e *Engine) processGet(
	ctx context.Context,
	request *model.Request,
	filter model.Filter,
	mode store.ExecutionMode,
	maxItems int,
) (*Result, error) {
	orderingText, err := query.Format(ctx, request.Ordering)
	if err != nil {
		return nil, err
	}

	subs := query.Substitutions{
		Template: request.Structure,
		Clause:   filter.Clause,
		Ordering: orderingText,
	}
	text := query.Render(query.Data, subs)
	countText := query.Render(query.Count, subs)

	// Count execution always uses the full page size; the latest-by drop to a
	// single item applies only to the data query.
	count, err := e.counts.GetCount(ctx, e.store, countText, request.SeriesDate, filter.Arguments, mode, e.maxItems)
	if err != nil {
		return nil, err
	}

	logger := store.NewLogger(text, filter.Arguments)
	cursor := store.WithLogging(
		e.store.Query(text, filter.Arguments, mode, maxItems, continuationSeed(text)),
		logger,
	)

	rows, err := fetchPage(ctx, cursor, request.Page)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		// Empty result sets still serialise as "data": [].
		rows = []interface{}{}
	}

	if request.Format != FormatCSV {
		response := &model.Response{
			Length:       len(rows),
			MaxPageLimit: maxItems,
			Data:         rows,
		}
		if request.Page != nil {
			response.Pagination = paginationLinks(request.URL, *request.Page, count, e.maxItems)
		}
		return &Result{Envelope: response}, nil
	}

	if len(rows) == 0 {
		return nil, errors.WithMessage(model.ErrNotAvailable, "no rows to render as CSV")
	}
	rendered, err := renderCSV(rows)
	if err != nil {
		return nil, err
	}
	return &Result{CSV: rendered}, nil
}
