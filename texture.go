package rwbs

import "fmt"

// FilterMode selects how a texture is sampled.
type FilterMode uint8

const (
	FilterNone             FilterMode = iota // filtering disabled
	FilterNearest                            // point sampled
	FilterLinear                             // bilinear
	FilterMipNearest                         // point sampled per mip level
	FilterMipLinear                          // bilinear per mip level
	FilterLinearMipNearest                   // point sampled, interpolated mips
	FilterLinearMipLinear                    // trilinear

	filterModeCount
)

func (m FilterMode) String() string {
	names := [...]string{
		"none", "nearest", "linear", "mip-nearest", "mip-linear",
		"linear-mip-nearest", "linear-mip-linear",
	}
	if int(m) < len(names) {
		return names[m]
	}
	return fmt.Sprintf("filter(%d)", uint8(m))
}

// AddressMode selects texture tiling along one axis.
type AddressMode uint8

const (
	AddressNone   AddressMode = iota // no tiling
	AddressWrap                      // tile
	AddressMirror                    // mirror
	AddressClamp
	AddressBorder

	addressModeCount
)

func (m AddressMode) String() string {
	names := [...]string{"none", "wrap", "mirror", "clamp", "border"}
	if int(m) < len(names) {
		return names[m]
	}
	return fmt.Sprintf("address(%d)", uint8(m))
}

// Texture is the decoded struct payload of a texture chunk: sampling state
// for one texture reference. The texture's names live in sibling string
// chunks.
type Texture struct {
	Filtering  FilterMode
	Addressing [2]AddressMode // U axis, V axis
	HasMip     bool
}

// splitAddressing unpacks the two 4-bit addressing enumerators from one
// byte: high nibble is the first (U) axis, low nibble the second (V).
func splitAddressing(b uint8) [2]AddressMode {
	return [2]AddressMode{AddressMode(b >> 4 & 0x0F), AddressMode(b & 0x0F)}
}

func checkFilterMode(m FilterMode, cfg decodeConfig, off int) error {
	if m >= filterModeCount && !cfg.looseEnums {
		return fmt.Errorf("%w: filtering mode %d at offset %d", ErrInvalidEnum, uint8(m), off)
	}
	return nil
}

func checkAddressModes(a [2]AddressMode, cfg decodeConfig, off int) error {
	if cfg.looseEnums {
		return nil
	}
	for _, m := range a {
		if m >= addressModeCount {
			return fmt.Errorf("%w: addressing mode %d at offset %d", ErrInvalidEnum, uint8(m), off)
		}
	}
	return nil
}

func decodeTexture(r *reader, cfg decodeConfig) (*Texture, error) {
	off := r.offset()
	filter, err := r.u8()
	if err != nil {
		return nil, err
	}
	t := &Texture{Filtering: FilterMode(filter)}
	if err := checkFilterMode(t.Filtering, cfg, off); err != nil {
		return nil, err
	}
	off = r.offset()
	addr, err := r.u8()
	if err != nil {
		return nil, err
	}
	t.Addressing = splitAddressing(addr)
	if err := checkAddressModes(t.Addressing, cfg, off); err != nil {
		return nil, err
	}
	mip, err := r.u16()
	if err != nil {
		return nil, err
	}
	t.HasMip = mip != 0
	return t, nil
}
