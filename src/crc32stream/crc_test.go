package crc32stream

import (
	"hash/crc32"
	"testing"
)

func TestEmpty(t *testing.T) {
	var s State
	if s.Sum32() != 0 {
		t.Errorf("empty state: got %x, want 0", s.Sum32())
	}
}

func TestMatchesStdlibWholeInput(t *testing.T) {
	data := []byte("hi")
	var s State
	s = s.Update(data)
	want := crc32.ChecksumIEEE(data)
	if s.Sum32() != want {
		t.Errorf("got %08x, want %08x", s.Sum32(), want)
	}
}

func TestChunkingIndependence(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	want := crc32.ChecksumIEEE(data)

	var whole State
	whole = whole.Update(data)
	if whole.Sum32() != want {
		t.Fatalf("whole: got %08x, want %08x", whole.Sum32(), want)
	}

	var chunked State
	for i := 0; i < len(data); i++ {
		chunked = chunked.Update(data[i : i+1])
	}
	if chunked.Sum32() != want {
		t.Errorf("byte-at-a-time: got %08x, want %08x", chunked.Sum32(), want)
	}

	var split State
	split = split.Update(data[:10])
	split = split.Update(data[10:])
	if split.Sum32() != want {
		t.Errorf("two-chunk: got %08x, want %08x", split.Sum32(), want)
	}
}

func TestValueSemanticsDoNotShare(t *testing.T) {
	var base State
	base = base.Update([]byte("abc"))

	branchA := base.Update([]byte("def"))
	branchB := base.Update([]byte("xyz"))

	if branchA.Sum32() == branchB.Sum32() {
		t.Errorf("branches should diverge after checkpoint")
	}
	if base.Sum32() != crc32.ChecksumIEEE([]byte("abc")) {
		t.Errorf("checkpoint state should be unaffected by later branches")
	}
}
