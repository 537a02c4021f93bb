package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
)

// ErrMalformedResponse marks pages whose items could not be unpacked. Callers
// convert it to their uniform not-available kind; transport and service errors
// are never marked with it and propagate as what they are. Check for it with
// errors.Is.
var ErrMalformedResponse = errors.New("malformed store response")

// Metadata is the per-call observability data exposed by the store.
type Metadata struct {
	RequestCharge float64
	ItemCount     int
	ContentPath   string
}

// Page is one page of query results, at most the requested max item count.
type Page struct {
	Items    []interface{}
	Metadata Metadata
}

// Cursor pages through the results of one query. Callers must check More before
// each NextPage call; cursors are request-scoped and not persisted between
// requests.
type Cursor interface {
	More() bool
	NextPage(ctx context.Context) (Page, error)
}

// Client issues read queries against the document store. The continuation token
// seeds the cursor's starting position; pass empty to start wherever the store
// chooses. Store calls are potentially high-latency network operations.
type Client interface {
	Query(text string, params model.Parameters, mode ExecutionMode, maxItemsPerPage int, continuation string) Cursor
}
