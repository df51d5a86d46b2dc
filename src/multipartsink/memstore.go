package multipartsink

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrPartTooSmall is returned when a non-final part is smaller than the
// store's configured minimum part size.
var ErrPartTooSmall = errors.New("multipartsink: part below minimum size")

// ErrPartTooLarge is returned when a part exceeds the store's configured
// maximum part size.
var ErrPartTooLarge = errors.New("multipartsink: part exceeds maximum size")

// ErrTooManyParts is returned once an upload would exceed MaxPartNumber.
var ErrTooManyParts = errors.New("multipartsink: too many parts")

// ErrAborted is returned by operations attempted on an aborted upload.
var ErrAborted = errors.New("multipartsink: upload aborted")

// ErrNotCompleted describes an upload that never completed. No function
// in this package returns it; Object reports a missing upload with ok=false.
var ErrNotCompleted = errors.New("multipartsink: upload not completed")

// MemoryObjectStore is an in-memory ObjectStore used by pipeline and sink
// tests in place of a real S3-compatible backend. It enforces the same
// min/max part size and max part count invariants a production backend
// would (spec §3 I4, §9 Open Question 4).
type MemoryObjectStore struct {
	MinPartSize int64
	MaxPartSize int64

	mu      sync.Mutex
	objects map[string][]byte // key -> committed bytes, once completed
}

// NewMemoryObjectStore returns a store using the grounded default part
// size bounds. Call with explicit bounds to exercise boundary scenarios.
func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{
		MinPartSize: DefaultMinPartSize,
		MaxPartSize: DefaultMaxPartSize,
		objects:     make(map[string][]byte),
	}
}

func (o *MemoryObjectStore) Create(ctx context.Context, key, contentType string) (UploadHandle, error) {
	return &memUpload{
		store:    o,
		key:      key,
		uploadID: uuid.NewString(),
	}, nil
}

// Object returns the bytes committed under key and whether a completed
// upload produced them.
func (o *MemoryObjectStore) Object(key string) ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.objects[key]
	return b, ok
}

type memUpload struct {
	store    *MemoryObjectStore
	key      string
	uploadID string

	mu        sync.Mutex
	parts     map[int][]byte
	nextWant  int
	aborted   bool
	completed bool
}

func (u *memUpload) UploadPart(ctx context.Context, partNumber int, data []byte) (PartReceipt, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.aborted {
		return PartReceipt{}, ErrAborted
	}
	if partNumber > MaxPartNumber {
		return PartReceipt{}, fmt.Errorf("%w: part %d", ErrTooManyParts, partNumber)
	}
	size := int64(len(data))
	if size > u.store.MaxPartSize {
		return PartReceipt{}, fmt.Errorf("%w: part %d is %d bytes", ErrPartTooLarge, partNumber, size)
	}
	if u.parts == nil {
		u.parts = make(map[int][]byte)
	}
	u.parts[partNumber] = append([]byte(nil), data...)
	etag := fmt.Sprintf("%x", fnv32(data))
	return PartReceipt{PartNumber: partNumber, ETag: etag}, nil
}

func (u *memUpload) Complete(ctx context.Context, parts []PartReceipt) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.aborted {
		return ErrAborted
	}
	var out []byte
	for i, p := range parts {
		data, ok := u.parts[p.PartNumber]
		if !ok {
			return fmt.Errorf("multipartsink: complete references unknown part %d", p.PartNumber)
		}
		if i < len(parts)-1 && int64(len(data)) < u.store.MinPartSize {
			return fmt.Errorf("%w: part %d is %d bytes", ErrPartTooSmall, p.PartNumber, len(data))
		}
		out = append(out, data...)
	}
	u.store.mu.Lock()
	u.store.objects[u.key] = out
	u.store.mu.Unlock()
	u.completed = true
	return nil
}

func (u *memUpload) Abort(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.aborted = true
	return nil
}

// fnv32 is a tiny deterministic content fingerprint for synthetic ETags;
// it is not used for any correctness property, only to give tests a
// stable per-part value to compare.
func fnv32(data []byte) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for _, b := range data {
		h ^= uint32(b)
		h *= prime32
	}
	return h
}
