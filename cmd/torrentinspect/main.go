// torrentinspect verifies a torrent metainfo file against the archive it
// describes: the info.length matches the archive's actual size, the
// piece count matches ceil(length/piece_length), and every piece hash
// matches SHA-1 over the corresponding window of the archive bytes.
package main

import (
	"crypto/sha1"
	"fmt"
	"io"
	"os"
	"path"

	bencode "github.com/jackpal/bencode-go"
)

type metaInfo struct {
	Announce string `bencode:"announce"`
	Info     struct {
		Length      int64  `bencode:"length"`
		Name        string `bencode:"name"`
		PieceLength int    `bencode:"piece length"`
		Pieces      string `bencode:"pieces"`
	} `bencode:"info"`
	URLList []string `bencode:"url-list"`
}

func main() {
	if len(os.Args) != 3 {
		_, _ = fmt.Fprintf(os.Stderr, "%s <archive.torrent> <archive.zip>\n", path.Base(os.Args[0]))
		os.Exit(1)
	}
	if err := inspect(os.Args[1], os.Args[2]); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s ERROR: %s\n", path.Base(os.Args[0]), err)
		os.Exit(1)
	}
	os.Exit(0)
}

func inspect(torrentPath, archivePath string) error {
	tf, err := os.Open(torrentPath)
	if err != nil {
		return err
	}
	defer tf.Close()

	var mi metaInfo
	if err := bencode.Unmarshal(tf, &mi); err != nil {
		return fmt.Errorf("decode torrent: %w", err)
	}

	af, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer af.Close()
	stat, err := af.Stat()
	if err != nil {
		return err
	}

	if stat.Size() != mi.Info.Length {
		return fmt.Errorf("length mismatch: torrent says %d, archive is %d bytes", mi.Info.Length, stat.Size())
	}
	if len(mi.Info.Pieces)%sha1.Size != 0 {
		return fmt.Errorf("pieces field length %d is not a multiple of %d", len(mi.Info.Pieces), sha1.Size)
	}
	wantCount := (mi.Info.Length + int64(mi.Info.PieceLength) - 1) / int64(mi.Info.PieceLength)
	gotCount := int64(len(mi.Info.Pieces) / sha1.Size)
	if gotCount != wantCount {
		return fmt.Errorf("piece count mismatch: expected ceil(%d/%d)=%d, torrent has %d", mi.Info.Length, mi.Info.PieceLength, wantCount, gotCount)
	}
	if len(mi.URLList) == 0 {
		return fmt.Errorf("url-list is empty")
	}

	buf := make([]byte, mi.Info.PieceLength)
	for i := int64(0); i < gotCount; i++ {
		n, err := io.ReadFull(af, buf)
		if err != nil && err != io.ErrUnexpectedEOF {
			return fmt.Errorf("piece %d: read: %w", i, err)
		}
		h := sha1.Sum(buf[:n])
		want := mi.Info.Pieces[i*sha1.Size : i*sha1.Size+sha1.Size]
		if string(h[:]) != want {
			return fmt.Errorf("piece %d: hash mismatch", i)
		}
	}
	fmt.Printf("%d pieces verified, %d bytes, web seed %s\n", gotCount, mi.Info.Length, mi.URLList[0])
	return nil
}
