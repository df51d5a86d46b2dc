package registry

import "errors"

// ErrListFailed wraps any non-success response or unparseable body from
// the tree-listing endpoint. It is fatal for the whole request.
var ErrListFailed = errors.New("registry: list failed")

// ErrFetchFailed wraps any non-success response or missing body from the
// blob-fetch endpoint for a single file. The pipeline treats this as
// non-fatal: the file is skipped and the archive continues.
var ErrFetchFailed = errors.New("registry: fetch failed")
