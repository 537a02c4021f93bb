package model

import "github.com/pkg/errors"

// ErrNotAvailable is returned whenever a request cannot be satisfied from the
// store: an existence check matches nothing, a count or latest-date lookup comes
// back empty or malformed, a requested page lies beyond the cursor, or a CSV
// rendering is asked for an empty result set. Callers map it to a not-found
// style response. Check for it with errors.Is.
var ErrNotAvailable = errors.New("no data are available for the requested parameters")
