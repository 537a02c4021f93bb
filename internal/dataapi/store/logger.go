package store

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/metrics"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
)

// Logger emits one structured audit record per page fetched for a logical query.
// It holds its own round counter, so construct a fresh one per query.
type Logger struct {
	query  string
	params model.Parameters
	round  int
}

// NewLogger prepares an audit logger for one logical query. Bound values are
// substituted into the query text for readability.
func NewLogger(query string, params model.Parameters) *Logger {
	substituted := query
	for _, param := range params {
		substituted = strings.ReplaceAll(substituted, param.Name, param.Value)
	}
	return &Logger{query: substituted, params: params}
}

func (l *Logger) LogResponse(metadata Metadata) {
	log.WithFields(log.Fields{
		"charge":        metadata.RequestCharge,
		"query":         l.query,
		"parameters":    l.params,
		"responseCount": metadata.ItemCount,
		"path":          metadata.ContentPath,
		"requestRound":  l.round,
	}).Info("DB QUERY")

	metrics.StoreQueriesTotalCounter.Inc()
	metrics.StoreRequestChargeHistogram.Observe(metadata.RequestCharge)

	l.round++
}

type loggedCursor struct {
	cursor Cursor
	logger *Logger
}

// WithLogging wraps a cursor so that every fetched page is reported to the audit
// logger. Logging is fire-and-forget: it never affects the page or the error.
func WithLogging(cursor Cursor, logger *Logger) Cursor {
	return &loggedCursor{cursor: cursor, logger: logger}
}

func (c *loggedCursor) More() bool {
	return c.cursor.More()
}

func (c *loggedCursor) NextPage(ctx context.Context) (Page, error) {
	page, err := c.cursor.NextPage(ctx)
	if err != nil {
		return page, err
	}
	c.logger.LogResponse(page.Metadata)
	return page, nil
}
