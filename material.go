package rwbs

// materialSurfacePropsAfter is the version threshold past which materials
// carry their own surface-properties block.
const materialSurfacePropsAfter = 0x30400

// Material is the decoded struct payload of a material chunk.
type Material struct {
	Color RGBA

	// SurfaceProps is present only for versions after 3.4; earlier streams
	// keep the triple on the geometry instead.
	SurfaceProps *SurfaceProperties
}

func decodeMaterial(r *reader, version uint32) (*Material, error) {
	if _, err := r.u32(); err != nil { // flags, unused
		return nil, err
	}
	color, err := readRGBA(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.u32(); err != nil { // reserved
		return nil, err
	}
	if _, err := r.u32(); err != nil { // is-textured, redundant with children
		return nil, err
	}
	m := &Material{Color: color}
	if version > materialSurfacePropsAfter {
		sp, err := readSurfaceProps(r)
		if err != nil {
			return nil, err
		}
		m.SurfaceProps = &sp
	}
	return m, nil
}
