package objectstore

import "testing"

func TestArchiveKey(t *testing.T) {
	if got := ArchiveKey("TheBloke", "Llama-2-7B-GGUF"); got != "TheBloke/Llama-2-7B-GGUF.zip" {
		t.Errorf("got %q", got)
	}
}

func TestTorrentKey(t *testing.T) {
	if got := TorrentKey("TheBloke", "Llama-2-7B-GGUF"); got != "TheBloke/Llama-2-7B-GGUF.torrent" {
		t.Errorf("got %q", got)
	}
}

func TestWebSeedURLEndsWithArchiveName(t *testing.T) {
	got := WebSeedURL("https://cdn.example.com", "TheBloke", "Llama-2-7B-GGUF")
	want := "https://cdn.example.com/TheBloke/Llama-2-7B-GGUF.zip"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
