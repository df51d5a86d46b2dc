package pipeline

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/repocask/archiveforge/src/registry"
)

// RegistryClient is the subset of registry.Client the pipeline depends
// on; tests supply a fake.
type RegistryClient interface {
	List(ctx context.Context, repo, rev string) ([]registry.Entry, error)
	Open(ctx context.Context, repo, rev, path string) (io.ReadCloser, int64, error)
}

// Config holds the per-deployment knobs spec §9 Open Questions 3 and 4
// call out as configuration rather than hardcoded constants.
type Config struct {
	PieceLength int    // bytes per torrent piece; recommended power of two
	MinPartSize int64  // 0 selects multipartsink.DefaultMinPartSize
	MaxPartSize int64  // 0 selects multipartsink.DefaultMaxPartSize
	Announce    string // tracker URL written into the torrent, never dialed
	CreatedBy   string // "created by" field
	WebSeedBase string // public base URL the archive object is served from

	// Now supplies the creation-date timestamp; defaults to time.Now if nil,
	// overridden by tests for deterministic output (spec §8 P8).
	Now func() time.Time

	Logger *log.Logger
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

const DefaultPieceLength = 1 << 20 // 1 MiB, per spec §4.3's recommendation
