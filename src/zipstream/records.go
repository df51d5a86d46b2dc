package zipstream

import "encoding/binary"

// LocalHeader encodes the 30+len(name) byte local file header that
// precedes a file's body. CRC-32 and size fields are left zero; the
// trailing DataDescriptor carries the real values once the body is known.
func LocalHeader(name string) []byte {
	nameBytes := []byte(name)
	buf := make([]byte, LocalHeaderFixedSize+len(nameBytes))
	binary.LittleEndian.PutUint32(buf[0:4], localHeaderSignature)
	binary.LittleEndian.PutUint16(buf[4:6], versionNeededToExtract)
	binary.LittleEndian.PutUint16(buf[6:8], generalPurposeBitFlag)
	binary.LittleEndian.PutUint16(buf[8:10], compressionMethodStore)
	binary.LittleEndian.PutUint16(buf[10:12], 0) // mod time
	binary.LittleEndian.PutUint16(buf[12:14], 0) // mod date
	binary.LittleEndian.PutUint32(buf[14:18], 0) // crc32 placeholder
	binary.LittleEndian.PutUint32(buf[18:22], 0) // compressed size placeholder
	binary.LittleEndian.PutUint32(buf[22:26], 0) // uncompressed size placeholder
	binary.LittleEndian.PutUint16(buf[26:28], uint16(len(nameBytes)))
	binary.LittleEndian.PutUint16(buf[28:30], 0) // extra field length
	copy(buf[30:], nameBytes)
	return buf
}

// DataDescriptor encodes the 12-byte trailer that follows a file's body,
// carrying the CRC-32 and size values the local header could not.
func DataDescriptor(crc32 uint32, size uint32) []byte {
	buf := make([]byte, DataDescriptorSize)
	binary.LittleEndian.PutUint32(buf[0:4], crc32)
	binary.LittleEndian.PutUint32(buf[4:8], size)  // compressed size
	binary.LittleEndian.PutUint32(buf[8:12], size) // uncompressed size
	return buf
}

// CentralDirectoryEntry encodes the 46+len(name) byte central directory
// record for e.
func CentralDirectoryEntry(e Entry) []byte {
	nameBytes := []byte(e.Name)
	buf := make([]byte, CentralDirEntryFixedSize+len(nameBytes))
	binary.LittleEndian.PutUint32(buf[0:4], centralDirSignature)
	binary.LittleEndian.PutUint16(buf[4:6], versionMadeBy)
	binary.LittleEndian.PutUint16(buf[6:8], versionNeededToExtract)
	binary.LittleEndian.PutUint16(buf[8:10], generalPurposeBitFlag)
	binary.LittleEndian.PutUint16(buf[10:12], compressionMethodStore)
	binary.LittleEndian.PutUint16(buf[12:14], 0) // mod time
	binary.LittleEndian.PutUint16(buf[14:16], 0) // mod date
	binary.LittleEndian.PutUint32(buf[16:20], e.CRC32)
	binary.LittleEndian.PutUint32(buf[20:24], e.Size) // compressed size
	binary.LittleEndian.PutUint32(buf[24:28], e.Size) // uncompressed size
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(nameBytes)))
	binary.LittleEndian.PutUint16(buf[30:32], 0) // extra field length
	binary.LittleEndian.PutUint16(buf[32:34], 0) // comment length
	binary.LittleEndian.PutUint16(buf[34:36], 0) // disk number start
	binary.LittleEndian.PutUint16(buf[36:38], 0) // internal file attributes
	binary.LittleEndian.PutUint32(buf[38:42], 0) // external file attributes
	binary.LittleEndian.PutUint32(buf[42:46], e.LocalHeaderOffset)
	copy(buf[46:], nameBytes)
	return buf
}

// EndOfCentralDirectory encodes the 22+len(comment) byte EOCD record.
func EndOfCentralDirectory(entryCount uint16, centralDirSize, centralDirOffset uint32, comment string) []byte {
	commentBytes := []byte(comment)
	buf := make([]byte, EndOfCentralDirFixedSize+len(commentBytes))
	binary.LittleEndian.PutUint32(buf[0:4], endOfCentralDirSig)
	binary.LittleEndian.PutUint16(buf[4:6], 0) // disk number
	binary.LittleEndian.PutUint16(buf[6:8], 0) // disk with start of CD
	binary.LittleEndian.PutUint16(buf[8:10], entryCount)
	binary.LittleEndian.PutUint16(buf[10:12], entryCount)
	binary.LittleEndian.PutUint32(buf[12:16], centralDirSize)
	binary.LittleEndian.PutUint32(buf[16:20], centralDirOffset)
	binary.LittleEndian.PutUint16(buf[20:22], uint16(len(commentBytes)))
	copy(buf[22:], commentBytes)
	return buf
}
