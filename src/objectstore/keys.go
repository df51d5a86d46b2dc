// Package objectstore names the two objects an archive request produces:
// the archive itself and its sibling torrent, plus the web-seed URL the
// torrent points back at.
package objectstore

import "fmt"

// ArchiveKey returns the object key for the stored ZIP archive.
func ArchiveKey(owner, name string) string {
	return fmt.Sprintf("%s/%s.zip", owner, name)
}

// TorrentKey returns the object key for the stored torrent metainfo,
// sibling to ArchiveKey.
func TorrentKey(owner, name string) string {
	return fmt.Sprintf("%s/%s.torrent", owner, name)
}

// WebSeedURL builds the public URL of the archive object under base (a
// bucket's public endpoint, no trailing slash), so that it ends with the
// torrent info name as spec §6 requires.
func WebSeedURL(base, owner, name string) string {
	return fmt.Sprintf("%s/%s", base, ArchiveKey(owner, name))
}

// ArchiveContentType and TorrentContentType are the content types stored
// alongside each object.
const (
	ArchiveContentType  = "application/zip"
	TorrentContentType  = "application/x-bittorrent"
)
