// Package pipeline drives the single-pass streaming archive+torrent
// pipeline: list files, tee each file's bytes to both the multipart sink
// and the piece hasher while tracking CRC-32 and the archive offset, then
// assemble and store a central directory, EOCD, and finally a torrent
// describing the whole thing.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"path"

	"github.com/dustin/go-humanize"

	"github.com/repocask/archiveforge/src/crc32stream"
	"github.com/repocask/archiveforge/src/multipartsink"
	"github.com/repocask/archiveforge/src/objectstore"
	"github.com/repocask/archiveforge/src/piecehash"
	"github.com/repocask/archiveforge/src/registry"
	"github.com/repocask/archiveforge/src/torrentfile"
	"github.com/repocask/archiveforge/src/zipstream"
)

const readChunkSize = 32 * 1024

// Pipeline is the per-request orchestrator of spec §4.6. A Pipeline value
// holds no per-request state itself; Run constructs fresh state for every
// call, so a single Pipeline can serve concurrent requests as long as
// Registry and Store are themselves concurrency-safe (spec §5).
type Pipeline struct {
	Registry RegistryClient
	Store    multipartsink.ObjectStore
	Config   Config
}

// Result summarizes a successful run for logging and the HTTP response.
type Result struct {
	Owner       string
	Name        string
	ArchiveKey  string
	TorrentKey  string
	ArchiveSize int64
	FileCount   int
	PieceCount  int
}

// Run executes the full state machine: LIST -> (HEADER -> BODY ->
// DESCRIPTOR)* -> TAIL -> TORRENT -> DONE, aborting the multipart upload
// before returning any fatal error (spec §7).
func (p *Pipeline) Run(ctx context.Context, repo, rev string) (Result, error) {
	owner, name, err := registry.SplitRepo(repo)
	if err != nil {
		return Result{}, badRequest("%s", err)
	}
	rev = registry.Revision(rev)

	entries, err := p.Registry.List(ctx, repo, rev)
	if err != nil {
		return Result{}, registryListFailure("listing %s@%s: %s", repo, rev, err)
	}
	if len(entries) == 0 {
		return Result{}, emptyRepository(repo)
	}

	archiveKey := objectstore.ArchiveKey(owner, name)
	torrentKey := objectstore.TorrentKey(owner, name)

	sink, err := multipartsink.NewSink(ctx, p.Store, archiveKey, objectstore.ArchiveContentType, p.Config.MinPartSize, p.Config.MaxPartSize)
	if err != nil {
		return Result{}, sinkFailure("creating upload for %s: %s", archiveKey, err)
	}

	pieceLength := p.Config.PieceLength
	if pieceLength <= 0 {
		pieceLength = DefaultPieceLength
	}
	hasher := piecehash.NewHasher(pieceLength)

	var archiveOffset int64 // A: the single tee accumulator, per spec's counter discipline
	var directory []zipstream.Entry
	usedNames := make(map[string]int)
	includedCount := 0

	emit := func(b []byte) error {
		hasher.Feed(b)
		if err := sink.Append(ctx, b); err != nil {
			return err
		}
		archiveOffset += int64(len(b))
		return nil
	}

	for _, e := range entries {
		body, _, openErr := p.Registry.Open(ctx, repo, rev, e.Path)
		if openErr != nil {
			// spec §9 Open Question 1, fixed: the header is only emitted
			// once the body is confirmed available, so a fetch failure
			// here leaves the archive completely untouched for this file.
			p.Config.logger().Printf("WARN: skip %s: fetch failed: %s", e.Path, openErr)
			continue
		}

		name := flattenName(e.Path, usedNames)
		if archiveOffset > math.MaxUint32 {
			_ = body.Close()
			return Result{}, p.abort(ctx, sink, internalError("archive offset %d exceeds the 32-bit limit this revision supports (no ZIP64)", archiveOffset))
		}
		localHeaderOffset := archiveOffset

		if err := emit(zipstream.LocalHeader(name)); err != nil {
			_ = body.Close()
			return Result{}, p.abort(ctx, sink, sinkFailure("writing local header for %s: %s", name, err))
		}

		var crc crc32stream.State
		var size int64
		buf := make([]byte, readChunkSize)
		readErr := readAll(body, buf, func(chunk []byte) error {
			crc = crc.Update(chunk)
			size += int64(len(chunk))
			return emit(chunk)
		})
		_ = body.Close()
		if readErr != nil {
			return Result{}, p.abort(ctx, sink, internalError("streaming body for %s: %s", name, readErr))
		}
		if size > math.MaxUint32 {
			return Result{}, p.abort(ctx, sink, internalError("file %s is %d bytes, exceeds the 32-bit limit this revision supports (no ZIP64)", name, size))
		}

		if err := emit(zipstream.DataDescriptor(crc.Sum32(), uint32(size))); err != nil {
			return Result{}, p.abort(ctx, sink, sinkFailure("writing data descriptor for %s: %s", name, err))
		}

		directory = append(directory, zipstream.Entry{
			Name:              name,
			CRC32:             crc.Sum32(),
			Size:              uint32(size),
			LocalHeaderOffset: uint32(localHeaderOffset),
		})
		includedCount++
	}

	cdOffset := archiveOffset
	var cdBytes []byte
	for _, e := range directory {
		cdBytes = append(cdBytes, zipstream.CentralDirectoryEntry(e)...)
	}
	if cdOffset > math.MaxUint32 || int64(len(cdBytes)) > math.MaxUint32 {
		return Result{}, p.abort(ctx, sink, internalError("central directory offset/size exceeds the 32-bit limit this revision supports (no ZIP64)"))
	}
	eocd := zipstream.EndOfCentralDirectory(uint16(len(directory)), uint32(len(cdBytes)), uint32(cdOffset), "")
	tail := append(cdBytes, eocd...)

	hasher.Feed(tail)
	if err := sink.FlushAndSeal(ctx, tail); err != nil {
		// Sink already aborted itself internally on this failure path; the
		// explicit call here is defensive and, per spec §7, idempotent.
		return Result{}, p.abort(ctx, sink, sinkFailure("completing upload for %s: %s", archiveKey, err))
	}
	archiveOffset += int64(len(tail))

	pieces, pieceCount := hasher.Finalize()

	mi, err := torrentfile.Build(torrentfile.BuildParams{
		Announce:     p.Config.Announce,
		CreatedBy:    p.Config.CreatedBy,
		CreationDate: p.Config.now().Unix(),
		ArchiveName:  name + ".zip",
		ArchiveLen:   archiveOffset,
		PieceLength:  pieceLength,
		Pieces:       pieces,
		WebSeedURL:   objectstore.WebSeedURL(p.Config.WebSeedBase, owner, name),
	})
	if err != nil {
		// The archive upload already completed successfully by this point;
		// Abort on an already-completed upload is a harmless no-op on most
		// S3-compatible backends, and spec §7's propagation rule still
		// requires attempting it.
		return Result{}, p.abort(ctx, sink, invariantViolation("%s", err))
	}

	var torrentBuf bytes.Buffer
	if err := torrentfile.Encode(&torrentBuf, mi); err != nil {
		return Result{}, p.abort(ctx, sink, internalError("encoding torrent: %s", err))
	}
	if err := multipartsink.Put(ctx, p.Store, torrentKey, objectstore.TorrentContentType, torrentBuf.Bytes()); err != nil {
		return Result{}, p.abort(ctx, sink, sinkFailure("storing torrent %s: %s", torrentKey, err))
	}

	p.Config.logger().Printf("archived %s@%s: %d files, %s, %d pieces -> %s, %s",
		repo, rev, includedCount, humanize.Bytes(uint64(archiveOffset)), pieceCount, archiveKey, torrentKey)

	return Result{
		Owner:       owner,
		Name:        name,
		ArchiveKey:  archiveKey,
		TorrentKey:  torrentKey,
		ArchiveSize: archiveOffset,
		FileCount:   includedCount,
		PieceCount:  pieceCount,
	}, nil
}

// abort attempts to cancel the multipart upload before returning base,
// per spec §7's propagation rule: abort errors are logged, never rethrown.
func (p *Pipeline) abort(ctx context.Context, sink *multipartsink.Sink, base *Error) *Error {
	if err := sink.Abort(ctx); err != nil {
		p.Config.logger().Printf("WARN: abort failed: %s", err)
	}
	return base
}

// readAll drains r through buf, calling feed for each non-empty read of
// at most len(buf) bytes. Chunk boundaries follow what each Read returns;
// the CRC, sink and hasher produce the same result however r chunks.
func readAll(r io.Reader, buf []byte, feed func([]byte) error) error {
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if feedErr := feed(buf[:n]); feedErr != nil {
				return feedErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
	}
}

// flattenName reduces path to its final segment (directory structure is
// discarded, per spec §9's name-flattening note) and disambiguates
// collisions with a numeric suffix rather than silently overwriting a
// previous entry's directory record.
func flattenName(p string, used map[string]int) string {
	base := path.Base(p)
	if base == "." || base == "/" || base == "" {
		base = "_"
	}
	count := used[base]
	used[base] = count + 1
	if count == 0 {
		return base
	}
	for n := count + 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if used[candidate] == 0 {
			used[candidate] = 1
			return candidate
		}
	}
}
