package rwbs

import "github.com/go-gl/mathgl/mgl32"

// Geometry format bitmask flags. The byte at bits 16-23 holds an explicit
// texture-channel count; when zero the Textured/Textured2 bits select 1 or 2
// channels.
const (
	FormatTristrip  uint32 = 0x00000001
	FormatTextured  uint32 = 0x00000004
	FormatPrelit    uint32 = 0x00000008
	FormatTextured2 uint32 = 0x00000080
	FormatNative    uint32 = 0x01000000
)

// RGBA is a per-vertex prelight color or a material base color.
type RGBA struct {
	R, G, B, A uint8
}

// SurfaceProperties is the ambient/specular/diffuse lighting triple carried
// by old-format geometry and by post-3.4 materials.
type SurfaceProperties struct {
	Ambient  float32
	Specular float32
	Diffuse  float32
}

// Sphere is a geometry's bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Triangle keeps the wire storage order of its fields: the second vertex
// index is stored first and the material id sits between the remaining two.
// Use Indices for the reassembled vertex order.
type Triangle struct {
	V2         uint16
	V1         uint16
	MaterialID uint16
	V3         uint16
}

// Indices returns the triangle's vertex indices in draw order.
func (t Triangle) Indices() [3]uint16 { return [3]uint16{t.V1, t.V2, t.V3} }

// Geometry is the decoded struct payload of a geometry chunk.
//
// When the Native format bit is set the prelit, texture-coordinate and
// triangle sections belong to a platform-specific blob and are left empty;
// the bounding sphere and the flag-gated vertex and normal arrays decode
// regardless.
type Geometry struct {
	Format           uint32
	TriangleCount    uint32
	VertexCount      uint32
	MorphTargetCount uint32

	// SurfaceProps is only present for streams older than 3.4; later
	// versions moved the triple onto the material.
	SurfaceProps *SurfaceProperties

	Prelit         []RGBA
	TexCoords      [][]mgl32.Vec2 // one array of VertexCount entries per active channel
	Triangles      []Triangle
	BoundingSphere Sphere
	Vertices       []mgl32.Vec3
	Normals        []mgl32.Vec3
}

// Tristrip reports whether the triangle list describes a strip rather than
// independent triangles.
func (g *Geometry) Tristrip() bool { return g.Format&FormatTristrip != 0 }

// TexChannelCount derives the number of active texture-coordinate channels
// from the format bitmask.
func (g *Geometry) TexChannelCount() int { return texChannelCount(g.Format) }

func texChannelCount(format uint32) int {
	if n := int(format >> 16 & 0xFF); n != 0 {
		return n
	}
	if format&FormatTextured2 != 0 {
		return 2
	}
	if format&FormatTextured != 0 {
		return 1
	}
	return 0
}

const legacySurfacePropsBefore = 0x34000

func decodeGeometry(r *reader, version uint32) (*Geometry, error) {
	g := &Geometry{}
	var err error
	if g.Format, err = r.u32(); err != nil {
		return nil, err
	}
	if g.TriangleCount, err = r.u32(); err != nil {
		return nil, err
	}
	if g.VertexCount, err = r.u32(); err != nil {
		return nil, err
	}
	if g.MorphTargetCount, err = r.u32(); err != nil {
		return nil, err
	}

	if version < legacySurfacePropsBefore {
		sp, err := readSurfaceProps(r)
		if err != nil {
			return nil, err
		}
		g.SurfaceProps = &sp
	}

	if g.Format&FormatNative == 0 {
		// Counted sections are sized from untrusted fields; verify the
		// bytes exist before allocating.
		if g.Format&FormatPrelit != 0 {
			if err := r.need(int(g.VertexCount) * 4); err != nil {
				return nil, err
			}
			g.Prelit = make([]RGBA, g.VertexCount)
			for i := range g.Prelit {
				if g.Prelit[i], err = readRGBA(r); err != nil {
					return nil, err
				}
			}
		}
		channels := texChannelCount(g.Format)
		if err := r.need(channels * int(g.VertexCount) * 8); err != nil {
			return nil, err
		}
		g.TexCoords = make([][]mgl32.Vec2, channels)
		for ch := range g.TexCoords {
			set := make([]mgl32.Vec2, g.VertexCount)
			for i := range set {
				if set[i], err = readVec2(r); err != nil {
					return nil, err
				}
			}
			g.TexCoords[ch] = set
		}
		if err := r.need(int(g.TriangleCount) * 8); err != nil {
			return nil, err
		}
		g.Triangles = make([]Triangle, g.TriangleCount)
		for i := range g.Triangles {
			if g.Triangles[i], err = readTriangle(r); err != nil {
				return nil, err
			}
		}
	}

	// One morph-target record: bounding sphere plus presence flags for the
	// vertex and normal arrays.
	if g.BoundingSphere, err = readSphere(r); err != nil {
		return nil, err
	}
	hasVertices, err := r.u32()
	if err != nil {
		return nil, err
	}
	hasNormals, err := r.u32()
	if err != nil {
		return nil, err
	}
	if hasVertices != 0 {
		if err := r.need(int(g.VertexCount) * 12); err != nil {
			return nil, err
		}
		g.Vertices = make([]mgl32.Vec3, g.VertexCount)
		for i := range g.Vertices {
			if g.Vertices[i], err = readVec3(r); err != nil {
				return nil, err
			}
		}
	}
	if hasNormals != 0 {
		if err := r.need(int(g.VertexCount) * 12); err != nil {
			return nil, err
		}
		g.Normals = make([]mgl32.Vec3, g.VertexCount)
		for i := range g.Normals {
			if g.Normals[i], err = readVec3(r); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func readRGBA(r *reader) (RGBA, error) {
	b, err := r.take(4)
	if err != nil {
		return RGBA{}, err
	}
	return RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

func readSurfaceProps(r *reader) (SurfaceProperties, error) {
	var sp SurfaceProperties
	var err error
	if sp.Ambient, err = r.f32(); err != nil {
		return sp, err
	}
	if sp.Specular, err = r.f32(); err != nil {
		return sp, err
	}
	sp.Diffuse, err = r.f32()
	return sp, err
}

func readVec2(r *reader) (mgl32.Vec2, error) {
	var v mgl32.Vec2
	var err error
	for i := range v {
		if v[i], err = r.f32(); err != nil {
			return v, err
		}
	}
	return v, nil
}

func readVec3(r *reader) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	var err error
	for i := range v {
		if v[i], err = r.f32(); err != nil {
			return v, err
		}
	}
	return v, nil
}

func readSphere(r *reader) (Sphere, error) {
	var s Sphere
	var err error
	if s.Center, err = readVec3(r); err != nil {
		return s, err
	}
	s.Radius, err = r.f32()
	return s, err
}

func readTriangle(r *reader) (Triangle, error) {
	var t Triangle
	var err error
	if t.V2, err = r.u16(); err != nil {
		return t, err
	}
	if t.V1, err = r.u16(); err != nil {
		return t, err
	}
	if t.MaterialID, err = r.u16(); err != nil {
		return t, err
	}
	t.V3, err = r.u16()
	return t, err
}
