// Package img reads the sector-addressed resource archives that ship chunk
// stream files. Two layouts exist: v1 keeps the directory in a separate
// .dir file next to the .img payload, v2 embeds it behind a VER2 magic at
// the head of a single file. Both address payloads in 2048-byte sectors.
package img

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// SectorSize is the addressing unit of the archive: directory offsets and
// sizes count sectors, not bytes.
const SectorSize = 2048

const (
	nameLen      = 24
	dirEntrySize = 4 + 4 + nameLen // v1: offset, size, name
	v2EntrySize  = 4 + 2 + 2 + nameLen
	v2HeaderSize = 8
)

var v2Magic = [4]byte{'V', 'E', 'R', '2'}

var (
	// ErrBadDirectory reports a directory table that cannot be read.
	ErrBadDirectory = errors.New("img: bad directory")
	// ErrNotFound reports a lookup for a name absent from the archive.
	ErrNotFound = errors.New("img: entry not found")
)

// Entry is one directory record. Offset and Size are in sectors.
type Entry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// ByteOffset returns the entry's position in the payload in bytes.
func (e Entry) ByteOffset() int64 { return int64(e.Offset) * SectorSize }

// ByteSize returns the entry's length in bytes.
func (e Entry) ByteSize() int64 { return int64(e.Size) * SectorSize }

// Archive provides name-addressed access to one resource archive. Lookups
// are case-insensitive, matching the archives in the wild, which mix cases
// freely.
type Archive struct {
	data    io.ReaderAt
	order   []Entry
	entries map[string]Entry
}

// Open reads a v2 single-file archive: VER2 magic, an entry count and the
// inline directory table. size is the archive's total length in bytes and
// bounds the table read; the entry count is untrusted. A missing magic
// fails with ErrBadDirectory; v1 archives keep their directory in a
// separate stream, see OpenV1.
func Open(data io.ReaderAt, size int64) (*Archive, error) {
	if size < v2HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a header", ErrBadDirectory, size)
	}
	var head [v2HeaderSize]byte
	if _, err := data.ReadAt(head[:], 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDirectory, err)
	}
	if [4]byte(head[:4]) != v2Magic {
		return nil, fmt.Errorf("%w: missing VER2 magic (v1 archives need a directory stream)", ErrBadDirectory)
	}
	count := binary.LittleEndian.Uint32(head[4:8])
	if int64(count) > (size-v2HeaderSize)/v2EntrySize {
		return nil, fmt.Errorf("%w: %d entries do not fit in %d bytes", ErrBadDirectory, count, size)
	}
	table := make([]byte, int(count)*v2EntrySize)
	if _, err := data.ReadAt(table, v2HeaderSize); err != nil {
		return nil, fmt.Errorf("%w: directory table: %v", ErrBadDirectory, err)
	}
	a := newArchive(data)
	for i := 0; i < int(count); i++ {
		rec := table[i*v2EntrySize:]
		e := Entry{
			Offset: binary.LittleEndian.Uint32(rec[0:4]),
			Name:   trimName(rec[8 : 8+nameLen]),
		}
		// The streaming size supersedes the archived size when present.
		e.Size = uint32(binary.LittleEndian.Uint16(rec[4:6]))
		if e.Size == 0 {
			e.Size = uint32(binary.LittleEndian.Uint16(rec[6:8]))
		}
		a.add(e)
	}
	return a, nil
}

// OpenV1 reads a v1 archive: the directory table comes from dir, a sequence
// of fixed 32-byte records running to EOF, and payload reads go to data.
func OpenV1(data io.ReaderAt, dir io.Reader) (*Archive, error) {
	a := newArchive(data)
	var rec [dirEntrySize]byte
	for {
		_, err := io.ReadFull(dir, rec[:])
		if errors.Is(err, io.EOF) {
			return a, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: directory record %d: %v", ErrBadDirectory, len(a.order), err)
		}
		a.add(Entry{
			Offset: binary.LittleEndian.Uint32(rec[0:4]),
			Size:   binary.LittleEndian.Uint32(rec[4:8]),
			Name:   trimName(rec[8 : 8+nameLen]),
		})
	}
}

func newArchive(data io.ReaderAt) *Archive {
	return &Archive{data: data, entries: make(map[string]Entry)}
}

func (a *Archive) add(e Entry) {
	a.order = append(a.order, e)
	a.entries[strings.ToLower(e.Name)] = e
}

// Entries returns the directory in file order.
func (a *Archive) Entries() []Entry { return a.order }

// Entry looks up a directory record by name, case-insensitively.
func (a *Archive) Entry(name string) (Entry, bool) {
	e, ok := a.entries[strings.ToLower(name)]
	return e, ok
}

// ReadFile extracts one entry's payload. The result is always a whole
// number of sectors; trailing padding inside the last sector is the
// consumer's concern, exactly as stored.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	e, ok := a.Entry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	buf := make([]byte, e.ByteSize())
	if _, err := a.data.ReadAt(buf, e.ByteOffset()); err != nil {
		return nil, fmt.Errorf("img: read %q: %w", name, err)
	}
	return buf, nil
}

// trimName cuts a NUL-padded fixed-width name at the first NUL.
func trimName(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
