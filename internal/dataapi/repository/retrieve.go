package repository

import (
	"context"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/store"
)

// pageError classifies a cursor fetch failure. Malformed store responses are
// converted to the uniform not-available kind; transport and service errors
// propagate as what they are, so outages are never reported as missing data.
func pageError(err error, message string) error {
	if errors.Is(err, store.ErrMalformedResponse) {
		return errors.WithMessage(model.ErrNotAvailable, message)
	}
	return errors.WithMessage(err, message)
}

// continuationSeed derives the cursor's starting token from the query text alone
// (bound values excluded), so repeated identical requests resume paging from the
// same position rather than a server-assigned start point.
func continuationSeed(queryText string) string {
	sum := blake2b.Sum256([]byte(queryText))
	return hex.EncodeToString(sum[:])
}

// fetchPage returns the requested page of results. With no page number only the
// first page is fetched. Seeking page n advances the cursor n-1 times, discarding
// intermediate pages; the cursor model offers no random access, so deep pages
// cost O(n) fetches.
func fetchPage(ctx context.Context, cursor store.Cursor, pageNumber *int) ([]interface{}, error) {
	if pageNumber == nil {
		if !cursor.More() {
			return nil, errors.WithMessage(model.ErrNotAvailable, "cursor exhausted")
		}
		page, err := cursor.NextPage(ctx)
		if err != nil {
			return nil, pageError(err, "page fetch failed")
		}
		return page.Items, nil
	}

	var page store.Page
	for fetched := 0; fetched < *pageNumber; fetched++ {
		if !cursor.More() {
			return nil, errors.WithMessagef(model.ErrNotAvailable, "page %d is out of range", *pageNumber)
		}
		var err error
		page, err = cursor.NextPage(ctx)
		if err != nil {
			return nil, pageError(err, "page fetch failed")
		}
	}
	return page.Items, nil
}
