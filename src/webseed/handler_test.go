package webseed

import "testing"

func TestParseRangeWholeRange(t *testing.T) {
	start, end, ok := parseRange("bytes=100-199")
	if !ok || start != 100 || end != 200 {
		t.Fatalf("got start=%d end=%d ok=%v", start, end, ok)
	}
}

func TestParseRangeOpenEnded(t *testing.T) {
	start, end, ok := parseRange("bytes=500-")
	if !ok || start != 500 || end != 0 {
		t.Fatalf("got start=%d end=%d ok=%v", start, end, ok)
	}
}

func TestParseRangeEmptyHeader(t *testing.T) {
	_, _, ok := parseRange("")
	if ok {
		t.Fatal("expected ok=false for empty header")
	}
}

func TestParseRangeMalformed(t *testing.T) {
	_, _, ok := parseRange("bytes=nope")
	if ok {
		t.Fatal("expected ok=false for malformed header")
	}
}
