// Package registry talks to a Hugging Face Hub–style model registry: it
// lists the files in a repository revision and opens a file's body as a
// byte stream. It has no knowledge of ZIP, torrents, or object storage —
// it is the pipeline's sole network-facing collaborator on the download
// side.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Entry describes one node in a repository tree listing.
type Entry struct {
	Path string
	Type string // "file", "directory", or other registry-defined kinds
	Size int64  // advisory; the pipeline re-derives the real size while streaming
}

// IsFile reports whether e is a regular file entry.
func (e Entry) IsFile() bool {
	return e.Type == "file"
}

// DefaultRevision is used when a caller supplies an empty revision.
const DefaultRevision = "main"

// ErrBadRepo is returned when a repo identifier does not look like
// "<owner>/<name>".
var ErrBadRepo = errors.New("registry: repo must be \"<owner>/<name>\"")

// SplitRepo validates and splits a repo identifier into owner and name.
// It requires exactly one "/" separating two non-empty segments.
func SplitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadRepo, repo)
	}
	return parts[0], parts[1], nil
}

// Revision returns rev, or DefaultRevision if rev is empty.
func Revision(rev string) string {
	if rev == "" {
		return DefaultRevision
	}
	return rev
}
