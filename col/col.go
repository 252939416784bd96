// Package col reads v1 collision mesh files: a flat sequence of fixed-layout
// records (bounds, spheres, boxes, vertices, faces) with none of the chunk
// framing the stream format uses. Collision archives concatenate models back
// to back; ParseAll walks the whole sequence.
package col

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var fourCC = [4]byte{'C', 'O', 'L', 'L'}

var (
	// ErrFormat reports a structurally invalid collision file.
	ErrFormat = errors.New("col: malformed collision file")
	// ErrTruncated reports fewer bytes than a record requires.
	ErrTruncated = errors.New("col: truncated input")
)

// Surface is the per-shape material descriptor shared by spheres, boxes and
// faces.
type Surface struct {
	Material   uint8
	Flag       uint8
	Brightness uint8
	Light      uint8
}

// Bounds is the model's bounding volume: a sphere and an axis-aligned box.
type Bounds struct {
	Radius float32
	Center mgl32.Vec3
	Min    mgl32.Vec3
	Max    mgl32.Vec3
}

// Sphere is one collision sphere.
type Sphere struct {
	Radius  float32
	Center  mgl32.Vec3
	Surface Surface
}

// Box is one axis-aligned collision box.
type Box struct {
	Min     mgl32.Vec3
	Max     mgl32.Vec3
	Surface Surface
}

// Face indexes three vertices of the collision mesh.
type Face struct {
	A, B, C uint32
	Surface Surface
}

// Model is one decoded collision model.
type Model struct {
	Name     string
	ModelID  uint16
	Bounds   Bounds
	Spheres  []Sphere
	Boxes    []Box
	Vertices []mgl32.Vec3
	Faces    []Face
}

// Parse decodes the first collision model at the head of data.
func Parse(data []byte) (*Model, error) {
	m, _, err := parseModel(data)
	return m, err
}

// ParseAll decodes a whole collision archive: models concatenated back to
// back, each advancing by its declared file size.
func ParseAll(data []byte) ([]*Model, error) {
	var models []*Model
	for len(data) > 0 {
		m, consumed, err := parseModel(data)
		if err != nil {
			return nil, fmt.Errorf("col: model %d: %w", len(models), err)
		}
		models = append(models, m)
		data = data[consumed:]
	}
	return models, nil
}

func parseModel(data []byte) (*Model, int, error) {
	c := cursor{data: data}
	magic, err := c.take(4)
	if err != nil {
		return nil, 0, err
	}
	if [4]byte(magic) != fourCC {
		return nil, 0, fmt.Errorf("%w: bad fourcc %q", ErrFormat, magic)
	}
	// Declared size covers everything after the 8-byte fourcc+size header.
	fileSize, err := c.u32()
	if err != nil {
		return nil, 0, err
	}
	total := 8 + int(fileSize)
	if total > len(data) {
		return nil, 0, fmt.Errorf("%w: declared size %d exceeds %d remaining bytes", ErrTruncated, fileSize, len(data)-8)
	}

	m := &Model{}
	name, err := c.take(22)
	if err != nil {
		return nil, 0, err
	}
	m.Name = trimName(name)
	if m.ModelID, err = c.u16(); err != nil {
		return nil, 0, err
	}
	if m.Bounds, err = readBounds(&c); err != nil {
		return nil, 0, err
	}

	numSpheres, err := c.u32()
	if err != nil {
		return nil, 0, err
	}
	// Array capacities come from untrusted count fields; verify the bytes
	// exist before reserving.
	if err := c.need(int(numSpheres) * 20); err != nil {
		return nil, 0, err
	}
	m.Spheres = make([]Sphere, 0, numSpheres)
	for i := uint32(0); i < numSpheres; i++ {
		s, err := readSphere(&c)
		if err != nil {
			return nil, 0, err
		}
		m.Spheres = append(m.Spheres, s)
	}

	// A reserved count sits between the sphere and box arrays; nothing in
	// the wild sets it.
	unknown, err := c.u32()
	if err != nil {
		return nil, 0, err
	}
	if unknown != 0 {
		return nil, 0, fmt.Errorf("%w: reserved count %d must be 0", ErrFormat, unknown)
	}

	numBoxes, err := c.u32()
	if err != nil {
		return nil, 0, err
	}
	if err := c.need(int(numBoxes) * 28); err != nil {
		return nil, 0, err
	}
	m.Boxes = make([]Box, 0, numBoxes)
	for i := uint32(0); i < numBoxes; i++ {
		b, err := readBox(&c)
		if err != nil {
			return nil, 0, err
		}
		m.Boxes = append(m.Boxes, b)
	}

	numVertices, err := c.u32()
	if err != nil {
		return nil, 0, err
	}
	if err := c.need(int(numVertices) * 12); err != nil {
		return nil, 0, err
	}
	m.Vertices = make([]mgl32.Vec3, 0, numVertices)
	for i := uint32(0); i < numVertices; i++ {
		v, err := readVec3(&c)
		if err != nil {
			return nil, 0, err
		}
		m.Vertices = append(m.Vertices, v)
	}

	numFaces, err := c.u32()
	if err != nil {
		return nil, 0, err
	}
	if err := c.need(int(numFaces) * 16); err != nil {
		return nil, 0, err
	}
	m.Faces = make([]Face, 0, numFaces)
	for i := uint32(0); i < numFaces; i++ {
		f, err := readFace(&c)
		if err != nil {
			return nil, 0, err
		}
		m.Faces = append(m.Faces, f)
	}

	return m, total, nil
}

func readBounds(c *cursor) (Bounds, error) {
	var b Bounds
	var err error
	if b.Radius, err = c.f32(); err != nil {
		return b, err
	}
	if b.Center, err = readVec3(c); err != nil {
		return b, err
	}
	if b.Min, err = readVec3(c); err != nil {
		return b, err
	}
	b.Max, err = readVec3(c)
	return b, err
}

func readSphere(c *cursor) (Sphere, error) {
	var s Sphere
	var err error
	if s.Radius, err = c.f32(); err != nil {
		return s, err
	}
	if s.Center, err = readVec3(c); err != nil {
		return s, err
	}
	s.Surface, err = readSurface(c)
	return s, err
}

func readBox(c *cursor) (Box, error) {
	var b Box
	var err error
	if b.Min, err = readVec3(c); err != nil {
		return b, err
	}
	if b.Max, err = readVec3(c); err != nil {
		return b, err
	}
	b.Surface, err = readSurface(c)
	return b, err
}

func readFace(c *cursor) (Face, error) {
	var f Face
	var err error
	if f.A, err = c.u32(); err != nil {
		return f, err
	}
	if f.B, err = c.u32(); err != nil {
		return f, err
	}
	if f.C, err = c.u32(); err != nil {
		return f, err
	}
	f.Surface, err = readSurface(c)
	return f, err
}

func readSurface(c *cursor) (Surface, error) {
	b, err := c.take(4)
	if err != nil {
		return Surface{}, err
	}
	return Surface{Material: b[0], Flag: b[1], Brightness: b[2], Light: b[3]}, nil
}

func readVec3(c *cursor) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	var err error
	for i := range v {
		if v[i], err = c.f32(); err != nil {
			return v, err
		}
	}
	return v, nil
}

func trimName(b []byte) string {
	for i, ch := range b {
		if ch == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// cursor is a minimal bounded little-endian reader over the input slice.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) need(n int) error {
	if len(c.data)-c.pos < n {
		return fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncated, n, c.pos)
	}
	return nil
}

func (c *cursor) take(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) f32() (float32, error) {
	v, err := c.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}
