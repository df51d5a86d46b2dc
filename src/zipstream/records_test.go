package zipstream

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalHeaderSize(t *testing.T) {
	h := LocalHeader("a.txt")
	require.Len(t, h, 30+5)
	require.Equal(t, uint32(0x04034b50), binary.LittleEndian.Uint32(h[0:4]))
	require.Equal(t, uint16(0x0008), binary.LittleEndian.Uint16(h[6:8]))
	require.Equal(t, "a.txt", string(h[30:]))
}

func TestDataDescriptorSize(t *testing.T) {
	d := DataDescriptor(0xD8932AAC, 2)
	require.Len(t, d, 12)
	require.Equal(t, uint32(0xD8932AAC), binary.LittleEndian.Uint32(d[0:4]))
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(d[4:8]))
	require.Equal(t, uint32(2), binary.LittleEndian.Uint32(d[8:12]))
}

func TestCentralDirectoryEntrySize(t *testing.T) {
	e := Entry{Name: "b.bin", CRC32: 0x12345678, Size: 3, LocalHeaderOffset: 49}
	buf := CentralDirectoryEntry(e)
	require.Len(t, buf, 46+5)
	require.Equal(t, uint32(0x02014b50), binary.LittleEndian.Uint32(buf[0:4]))
	require.Equal(t, uint32(49), binary.LittleEndian.Uint32(buf[42:46]))
	require.Equal(t, "b.bin", string(buf[46:]))
}

func TestEndOfCentralDirectorySize(t *testing.T) {
	eocd := EndOfCentralDirectory(2, 102, 99, "")
	require.Len(t, eocd, 22)
	require.Equal(t, uint32(0x06054b50), binary.LittleEndian.Uint32(eocd[0:4]))
	require.Equal(t, uint16(2), binary.LittleEndian.Uint16(eocd[8:10]))
	require.Equal(t, uint32(102), binary.LittleEndian.Uint32(eocd[12:16]))
	require.Equal(t, uint32(99), binary.LittleEndian.Uint32(eocd[16:20]))
}

// TestSpecExampleLayout reproduces spec.md's concrete end-to-end scenario
// byte-for-byte: two files, a.txt ("hi") and b.bin (0x00 0x01 0x02).
func TestSpecExampleLayout(t *testing.T) {
	var buf bytes.Buffer

	aCRC := crc32.ChecksumIEEE([]byte("hi"))
	require.Equal(t, uint32(0xD8932AAC), aCRC)

	hdrA := LocalHeader("a.txt")
	require.Len(t, hdrA, 35)
	offsetA := int64(buf.Len())
	require.Equal(t, int64(0), offsetA)
	buf.Write(hdrA)
	buf.WriteString("hi")
	buf.Write(DataDescriptor(aCRC, 2))
	require.Equal(t, int64(49), int64(buf.Len()))

	bBody := []byte{0x00, 0x01, 0x02}
	bCRC := crc32.ChecksumIEEE(bBody)
	offsetB := int64(buf.Len())
	require.Equal(t, int64(49), offsetB)
	buf.Write(LocalHeader("b.bin"))
	buf.Write(bBody)
	buf.Write(DataDescriptor(bCRC, 3))
	require.Equal(t, int64(99), int64(buf.Len()))

	cdOffset := uint32(buf.Len())
	require.Equal(t, uint32(99), cdOffset)
	cdA := CentralDirectoryEntry(Entry{Name: "a.txt", CRC32: aCRC, Size: 2, LocalHeaderOffset: uint32(offsetA)})
	cdB := CentralDirectoryEntry(Entry{Name: "b.bin", CRC32: bCRC, Size: 3, LocalHeaderOffset: uint32(offsetB)})
	require.Len(t, cdA, 51)
	require.Len(t, cdB, 51)
	buf.Write(cdA)
	buf.Write(cdB)
	cdSize := uint32(buf.Len()) - cdOffset
	require.Equal(t, uint32(102), cdSize)

	buf.Write(EndOfCentralDirectory(2, cdSize, cdOffset, ""))
	require.Equal(t, 223, buf.Len())

	// P1/P2/P3/P4: the archive must parse with a conformant reader.
	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, r.File, 2)

	f0, err := r.File[0].Open()
	require.NoError(t, err)
	content0, err := io.ReadAll(f0)
	require.NoError(t, err)
	require.Equal(t, "hi", string(content0))
	require.Equal(t, "a.txt", r.File[0].Name)

	f1, err := r.File[1].Open()
	require.NoError(t, err)
	content1, err := io.ReadAll(f1)
	require.NoError(t, err)
	require.Equal(t, bBody, content1)
	require.Equal(t, "b.bin", r.File[1].Name)
}
