package badger

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// Key prefixes for different data types
const (
	entryPrefix     = "cliprec"
	entryDatePrefix = "cliprecd"
)

// makeEntryKey generates a key for an entry by ID.
func makeEntryKey(id uuid.UUID) []byte {
	prefix := entryPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	copy(buf[offset:], id[:])
	return buf
}

// makeEntryDateKey generates a composite key for the last-copied index.
// Format: prefix:timestamp:id
func makeEntryDateKey(timestamp time.Time, id uuid.UUID) []byte {
	prefix := entryDatePrefix + ":"
	buf := make([]byte, len(prefix)+8+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], id[:])
	return buf
}

// makePartialEntryDateKey generates a partial key for ordered scans.
// Format: prefix:timestamp
func makePartialEntryDateKey(timestamp time.Time) []byte {
	prefix := entryDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}
