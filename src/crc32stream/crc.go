// Package crc32stream computes an incremental IEEE CRC-32 over a byte
// stream without ever holding the whole stream in memory.
package crc32stream

import "hash/crc32"

// State is an incremental CRC-32 accumulator. The zero value is the
// initial state (an empty input). State is a plain value: copying it
// checkpoints the running CRC, and Update never mutates its receiver.
type State struct {
	crc uint32
}

// Update folds b into the running CRC and returns the new state. It
// produces the same result regardless of how the input is chunked across
// calls.
func (s State) Update(b []byte) State {
	return State{crc: crc32.Update(s.crc, crc32.IEEETable, b)}
}

// Sum32 returns the CRC-32 of everything fed so far.
func (s State) Sum32() uint32 {
	return s.crc
}
