package multipartsink

import (
	"context"
	"fmt"
)

// Sink buffers an outgoing byte stream and emits bounded-size, ordered
// parts to an ObjectStore-backed multipart upload. It implements spec §4.5:
// Append slices off min-size parts as the pending buffer fills, and
// FlushAndSeal uploads whatever remains (which may be smaller than the
// minimum) as the final part before completing the upload.
type Sink struct {
	store       ObjectStore
	upload      UploadHandle
	minPartSize int64
	maxPartSize int64

	pending        []byte
	nextPartNumber int
	receipts       []PartReceipt
	totalWritten   int64
	sealed         bool
	aborted        bool
}

// NewSink creates a multipart upload under key and returns a Sink ready
// for Append. minPartSize/maxPartSize of 0 select the grounded defaults.
func NewSink(ctx context.Context, store ObjectStore, key, contentType string, minPartSize, maxPartSize int64) (*Sink, error) {
	if minPartSize <= 0 {
		minPartSize = DefaultMinPartSize
	}
	if maxPartSize <= 0 {
		maxPartSize = DefaultMaxPartSize
	}
	upload, err := store.Create(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("multipartsink: create %q: %w", key, err)
	}
	return &Sink{
		store:          store,
		upload:         upload,
		minPartSize:    minPartSize,
		maxPartSize:    maxPartSize,
		nextPartNumber: 1,
	}, nil
}

// TotalWritten returns the number of bytes accepted by Append so far
// (including tail bytes once FlushAndSeal has run). This is an
// independent tally kept for logging/assertions; the pipeline's own A
// accumulator remains the single source of truth for archive offsets.
func (s *Sink) TotalWritten() int64 {
	return s.totalWritten
}

// Append enqueues b. Once append returns without error, b is committed to
// the archive stream: a transient failure aborts the upload and is
// propagated, with no in-place retry.
func (s *Sink) Append(ctx context.Context, b []byte) error {
	if s.sealed {
		return fmt.Errorf("multipartsink: append after seal")
	}
	s.pending = append(s.pending, b...)
	s.totalWritten += int64(len(b))
	for int64(len(s.pending)) >= s.minPartSize {
		if err := s.uploadPart(ctx, s.pending[:s.minPartSize]); err != nil {
			return err
		}
		s.pending = s.pending[s.minPartSize:]
	}
	return nil
}

func (s *Sink) uploadPart(ctx context.Context, data []byte) error {
	if int64(len(data)) > s.maxPartSize {
		_ = s.Abort(ctx)
		return fmt.Errorf("multipartsink: part %d would be %d bytes, exceeds max %d", s.nextPartNumber, len(data), s.maxPartSize)
	}
	receipt, err := s.upload.UploadPart(ctx, s.nextPartNumber, data)
	if err != nil {
		_ = s.Abort(ctx)
		return fmt.Errorf("multipartsink: upload part %d: %w", s.nextPartNumber, err)
	}
	s.receipts = append(s.receipts, receipt)
	s.nextPartNumber++
	return nil
}

// FlushAndSeal appends tail, uploads any remaining pending buffer as the
// final (possibly short) part, and completes the multipart upload.
func (s *Sink) FlushAndSeal(ctx context.Context, tail []byte) error {
	if s.sealed {
		return fmt.Errorf("multipartsink: double seal")
	}
	s.pending = append(s.pending, tail...)
	s.totalWritten += int64(len(tail))
	for int64(len(s.pending)) >= s.minPartSize {
		if err := s.uploadPart(ctx, s.pending[:s.minPartSize]); err != nil {
			return err
		}
		s.pending = s.pending[s.minPartSize:]
	}
	if len(s.pending) > 0 {
		if err := s.uploadPart(ctx, s.pending); err != nil {
			return err
		}
		s.pending = nil
	}
	if err := s.upload.Complete(ctx, s.receipts); err != nil {
		_ = s.Abort(ctx)
		return fmt.Errorf("multipartsink: complete: %w", err)
	}
	s.sealed = true
	return nil
}

// Abort cancels the multipart upload. It tolerates being called more than
// once and after FlushAndSeal has already failed.
func (s *Sink) Abort(ctx context.Context) error {
	if s.aborted {
		return nil
	}
	s.aborted = true
	return s.upload.Abort(ctx)
}

// Parts returns the receipts uploaded so far, in order.
func (s *Sink) Parts() []PartReceipt {
	return s.receipts
}
