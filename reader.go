package rwbs

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader is a bounded little-endian cursor over an in-memory byte slice.
// base is the absolute offset of data[0] in the original buffer, so errors
// report positions in the file rather than in the current sub-slice.
type reader struct {
	data []byte
	pos  int
	base int
}

func newReader(data []byte, base int) *reader {
	return &reader{data: data, base: base}
}

func (r *reader) offset() int { return r.base + r.pos }

func (r *reader) remaining() int { return len(r.data) - r.pos }

func (r *reader) need(n int) error {
	if r.remaining() < n {
		return fmt.Errorf("%w: need %d bytes, have %d at offset %d", ErrTruncated, n, r.remaining(), r.offset())
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) f32() (float32, error) {
	v, err := r.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// take returns the next n bytes without copying.
func (r *reader) take(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// rest consumes and returns everything left in the slice.
func (r *reader) rest() []byte {
	b := r.data[r.pos:]
	r.pos = len(r.data)
	return b
}
