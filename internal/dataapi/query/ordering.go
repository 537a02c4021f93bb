package query

import (
	"context"
	"fmt"
	"strings"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type OrderBy struct {
	Field     string
	Direction Direction
}

// Ordering yields the (field, direction) pairs for a query. Resolution may
// require external metadata lookup, hence the context.
type Ordering interface {
	Resolve(ctx context.Context) ([]OrderBy, error)
}

type staticOrdering []OrderBy

func (o staticOrdering) Resolve(ctx context.Context) ([]OrderBy, error) {
	return o, nil
}

// Static returns an Ordering that resolves to a fixed sequence.
func Static(orderings ...OrderBy) Ordering {
	return staticOrdering(orderings)
}

// DefaultLatestOrdering is the fixed most-recent-first ordering used by
// latest-date lookups.
var DefaultLatestOrdering = Static(
	OrderBy{Field: "releaseTimestamp", Direction: Desc},
	OrderBy{Field: "date", Direction: Desc},
)

// Format resolves an ordering and renders it as an ORDER BY fragment. An empty
// ordering renders as empty text.
func Format(ctx context.Context, ordering Ordering) (string, error) {
	orderings, err := ordering.Resolve(ctx)
	if err != nil {
		return "", err
	}
	if len(orderings) == 0 {
		return "", nil
	}

	fields := make([]string, len(orderings))
	for i, orderBy := range orderings {
		fields[i] = fmt.Sprintf("c.%s %s", orderBy.Field, orderBy.Direction)
	}
	return "ORDER BY " + strings.Join(fields, ", "), nil
}
