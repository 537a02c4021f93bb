package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
)

// QueryFunc evaluates a query against in-memory data, returning the full result
// set before paging.
type QueryFunc func(text string, params model.Parameters, mode ExecutionMode) ([]interface{}, error)

// RecordedQuery captures one Query call for assertions.
type RecordedQuery struct {
	Text         string
	Params       model.Parameters
	Mode         ExecutionMode
	MaxItems     int
	Continuation string
}

// InMemoryStore pages deterministically through results produced by a
// user-supplied evaluation func. It's mainly intended for test purposes.
type InMemoryStore struct {
	Evaluate QueryFunc

	mu      sync.Mutex
	queries []RecordedQuery
}

func (s *InMemoryStore) Query(
	text string,
	params model.Parameters,
	mode ExecutionMode,
	maxItemsPerPage int,
	continuation string,
) Cursor {
	s.mu.Lock()
	s.queries = append(s.queries, RecordedQuery{
		Text:         text,
		Params:       params,
		Mode:         mode,
		MaxItems:     maxItemsPerPage,
		Continuation: continuation,
	})
	s.mu.Unlock()

	return &memoryCursor{
		store:    s,
		text:     text,
		params:   params,
		mode:     mode,
		pageSize: maxItemsPerPage,
	}
}

// Queries returns every recorded Query call so far.
func (s *InMemoryStore) Queries() []RecordedQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	recorded := make([]RecordedQuery, len(s.queries))
	copy(recorded, s.queries)
	return recorded
}

type memoryCursor struct {
	store    *InMemoryStore
	text     string
	params   model.Parameters
	mode     ExecutionMode
	pageSize int

	evaluated bool
	items     []interface{}
	offset    int
}

func (c *memoryCursor) More() bool {
	// The first fetch is always allowed: an empty result set still yields one
	// empty page, matching the store's pager behaviour.
	if !c.evaluated {
		return true
	}
	return c.offset < len(c.items)
}

func (c *memoryCursor) NextPage(ctx context.Context) (Page, error) {
	if !c.evaluated {
		items, err := c.store.Evaluate(c.text, c.params, c.mode)
		if err != nil {
			return Page{}, err
		}
		c.items = items
		c.evaluated = true
	} else if c.offset >= len(c.items) {
		return Page{}, errors.New("cursor exhausted")
	}

	end := c.offset + c.pageSize
	if c.pageSize <= 0 || end > len(c.items) {
		end = len(c.items)
	}
	items := c.items[c.offset:end]
	c.offset = end

	return Page{
		Items: items,
		Metadata: Metadata{
			ItemCount:   len(items),
			ContentPath: "dbs/local/colls/local",
		},
	}, nil
}
