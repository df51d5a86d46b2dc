// Package multipartsink buffers an outgoing byte stream and emits it as
// ordered, bounded-size parts to an S3-compatible object store, finishing
// with a completed multipart upload or, on failure, an aborted one.
package multipartsink

import "context"

// Deployment constants for the backing object store, grounded on the
// limits kk-code-lab-seglake's S3-compatible server enforces: a 5 MiB
// minimum part size (S3's own floor, aside from the final part), a 5 GiB
// maximum part size, and a 10000-part ceiling per upload.
const (
	DefaultMinPartSize int64 = 5 << 20
	DefaultMaxPartSize int64 = 5 << 30
	MaxPartNumber      int   = 10000
)

// PartReceipt records the outcome of uploading one part.
type PartReceipt struct {
	PartNumber int
	ETag       string
}

// UploadHandle is a single in-progress multipart upload.
type UploadHandle interface {
	// UploadPart uploads data as the given 1-based part number. Part
	// numbers must be submitted in increasing order; the backend is not
	// required to accept out-of-order numbers.
	UploadPart(ctx context.Context, partNumber int, data []byte) (PartReceipt, error)
	// Complete commits the upload given the ordered list of part receipts.
	Complete(ctx context.Context, parts []PartReceipt) error
	// Abort cancels the upload. It must tolerate being called more than
	// once and after Complete has already failed.
	Abort(ctx context.Context) error
}

// ObjectStore creates multipart uploads against an S3-compatible backend.
type ObjectStore interface {
	Create(ctx context.Context, key, contentType string) (UploadHandle, error)
}
