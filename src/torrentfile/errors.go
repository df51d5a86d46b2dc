package torrentfile

import "errors"

// ErrInvariantViolation is returned by Build when one of spec §6's
// pre-emission checks fails (piece count, pieces length, or url-list
// shape). It is fatal: callers must abort the in-progress upload rather
// than write a partial torrent object.
var ErrInvariantViolation = errors.New("torrentfile: invariant violation")
