package multipartsink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinkSinglePartBelowMinimum(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	store.MinPartSize = 16
	store.MaxPartSize = 64

	sink, err := NewSink(ctx, store, "a/b.zip", "application/zip", 16, 64)
	require.NoError(t, err)

	require.NoError(t, sink.Append(ctx, []byte("hello")))
	require.NoError(t, sink.FlushAndSeal(ctx, []byte(" world")))

	parts := sink.Parts()
	require.Len(t, parts, 1)
	require.Equal(t, 1, parts[0].PartNumber)

	obj, ok := store.Object("a/b.zip")
	require.True(t, ok)
	require.Equal(t, "hello world", string(obj))
	require.Equal(t, int64(len("hello world")), sink.TotalWritten())
}

func TestSinkMultiplePartsContiguousNumbering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	store.MinPartSize = 4
	store.MaxPartSize = 4

	sink, err := NewSink(ctx, store, "k", "application/zip", 4, 4)
	require.NoError(t, err)

	require.NoError(t, sink.Append(ctx, []byte("AAAABBBBCCCC")))
	require.NoError(t, sink.FlushAndSeal(ctx, []byte("DD")))

	parts := sink.Parts()
	require.Len(t, parts, 4)
	for i, p := range parts {
		require.Equal(t, i+1, p.PartNumber)
	}

	obj, ok := store.Object("k")
	require.True(t, ok)
	require.Equal(t, "AAAABBBBCCCCDD", string(obj))
}

func TestSinkExactlyAlignedNoPendingAtFlush(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	store.MinPartSize = 4
	store.MaxPartSize = 4

	sink, err := NewSink(ctx, store, "k", "application/zip", 4, 4)
	require.NoError(t, err)

	require.NoError(t, sink.Append(ctx, []byte("AAAABBBB")))
	// Flush with no tail: the pending buffer is already empty, so the
	// final "part" upload is skipped and Complete sees exactly 2 parts.
	require.NoError(t, sink.FlushAndSeal(ctx, nil))

	require.Len(t, sink.Parts(), 2)
}

func TestSinkAbortIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	sink, err := NewSink(ctx, store, "k", "application/zip", 0, 0)
	require.NoError(t, err)

	require.NoError(t, sink.Abort(ctx))
	require.NoError(t, sink.Abort(ctx))
}

func TestSinkPartExceedingMaxIsRejectedAndAborts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	store.MinPartSize = 4
	store.MaxPartSize = 4

	sink, err := NewSink(ctx, store, "k", "application/zip", 4, 2)
	require.NoError(t, err)

	err = sink.Append(ctx, []byte("AAAA"))
	require.Error(t, err)
	require.True(t, sink.aborted)
}

func TestSinkAppendAfterSealFails(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	sink, err := NewSink(ctx, store, "k", "application/zip", 4, 64)
	require.NoError(t, err)

	require.NoError(t, sink.FlushAndSeal(ctx, []byte("xy")))
	require.Error(t, sink.Append(ctx, []byte("z")))
}

func TestMemoryStoreRejectsUndersizedNonFinalPart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	upload, err := store.Create(ctx, "k", "application/zip")
	require.NoError(t, err)

	r1, err := upload.UploadPart(ctx, 1, make([]byte, 3))
	require.NoError(t, err)
	r2, err := upload.UploadPart(ctx, 2, make([]byte, 3))
	require.NoError(t, err)

	store.MinPartSize = 5
	err = upload.Complete(ctx, []PartReceipt{r1, r2})
	require.ErrorIs(t, err, ErrPartTooSmall)
}
