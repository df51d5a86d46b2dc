// Package torrentfile builds and bencode-encodes the BitTorrent metainfo
// dictionary describing a stored ZIP archive, with a single web-seed URL
// pointing back at the uploaded object (BEP-19).
package torrentfile

import (
	"fmt"
	"io"
	"strings"

	bencode "github.com/jackpal/bencode-go"
)

// Info is the torrent "info" sub-dictionary. Field order matches spec §6
// and is alphabetical, which is also bencode's canonical dictionary-key
// order, so no custom key-ordering is required of the encoder.
type Info struct {
	Length      int64  `bencode:"length"`
	Name        string `bencode:"name"`
	PieceLength int    `bencode:"piece length"`
	Pieces      string `bencode:"pieces"`
}

// MetaInfo is the top-level torrent dictionary. Field order again matches
// spec §6 (announce, created by, creation date, info, url-list).
type MetaInfo struct {
	Announce     string   `bencode:"announce"`
	CreatedBy    string   `bencode:"created by"`
	CreationDate int64    `bencode:"creation date"`
	Info         Info     `bencode:"info"`
	URLList      []string `bencode:"url-list"`
}

// BuildParams carries everything Build needs to assemble a MetaInfo.
type BuildParams struct {
	Announce     string
	CreatedBy    string
	CreationDate int64 // Unix seconds
	ArchiveName  string
	ArchiveLen   int64
	PieceLength  int
	Pieces       []byte // concatenated 20-byte SHA-1 digests, piece order
	WebSeedURL   string // must end with ArchiveName
}

// Build assembles a MetaInfo and checks the three invariants spec §6
// requires before emission: piece_count matches ⌈length/piece_length⌉,
// len(pieces) matches 20*piece_count, and the web-seed URL ends with the
// info name. Any violation is an InvariantViolation, not a panic.
func Build(p BuildParams) (*MetaInfo, error) {
	if p.PieceLength <= 0 {
		return nil, fmt.Errorf("torrentfile: invalid piece length %d: %w", p.PieceLength, ErrInvariantViolation)
	}
	wantCount := int((p.ArchiveLen + int64(p.PieceLength) - 1) / int64(p.PieceLength))
	if p.ArchiveLen == 0 {
		wantCount = 0
	}
	gotCount := len(p.Pieces) / 20
	if gotCount != wantCount {
		return nil, fmt.Errorf("torrentfile: piece count %d, want %d: %w", gotCount, wantCount, ErrInvariantViolation)
	}
	if len(p.Pieces)%20 != 0 {
		return nil, fmt.Errorf("torrentfile: pieces length %d not a multiple of 20: %w", len(p.Pieces), ErrInvariantViolation)
	}
	if p.WebSeedURL == "" || !strings.HasSuffix(p.WebSeedURL, p.ArchiveName) {
		return nil, fmt.Errorf("torrentfile: url-list[0] must end with %q: %w", p.ArchiveName, ErrInvariantViolation)
	}
	return &MetaInfo{
		Announce:     p.Announce,
		CreatedBy:    p.CreatedBy,
		CreationDate: p.CreationDate,
		Info: Info{
			Length:      p.ArchiveLen,
			Name:        p.ArchiveName,
			PieceLength: p.PieceLength,
			Pieces:      string(p.Pieces),
		},
		URLList: []string{p.WebSeedURL},
	}, nil
}

// Encode bencode-serializes mi to w.
func Encode(w io.Writer, mi *MetaInfo) error {
	return bencode.Marshal(w, *mi)
}
