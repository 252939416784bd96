package rwbs

import "bytes"

// rasterModernVersion is the threshold at which the raster header switched
// its secondary format word and flag byte to the modern meanings.
const rasterModernVersion = 0x36003

// Modern raster flag byte, one flag per high bit.
const (
	rasterFlagHasAlpha   uint8 = 1 << 7
	rasterFlagCube       uint8 = 1 << 6
	rasterFlagAutoMips   uint8 = 1 << 5
	rasterFlagCompressed uint8 = 1 << 4
)

// Packed sampling word: filter mode in the top byte, the two addressing
// nibbles in the byte below it.
const (
	rasterFilterShift  = 24
	rasterAddressShift = 16
)

// Raster is the decoded struct payload of a texture-native chunk: a platform
// bitmap header followed by the raw pixel payload. Pixel data is not
// interpreted; its layout is platform- and format-specific.
type Raster struct {
	Platform   uint32
	Filtering  FilterMode
	Addressing [2]AddressMode
	Name       string
	MaskName   string

	RasterFormat uint32
	// D3DFormat is the modern secondary format word; zero below the 3.6
	// threshold, where the same word encoded HasAlpha instead.
	D3DFormat uint32

	Width      uint16
	Height     uint16
	Depth      uint8
	MipLevels  uint8
	RasterType uint8

	// Compression carries the raw trailing byte of pre-3.6 headers. From
	// 3.6 on the byte packs the four flags below and Compression stays 0.
	Compression uint8
	HasAlpha    bool
	Cube        bool
	AutoMips    bool
	Compressed  bool

	Pixels []byte
}

func decodeRaster(r *reader, version uint32, cfg decodeConfig) (*Raster, error) {
	ra := &Raster{}
	var err error
	if ra.Platform, err = r.u32(); err != nil {
		return nil, err
	}

	off := r.offset()
	sampling, err := r.u32()
	if err != nil {
		return nil, err
	}
	ra.Filtering = FilterMode(sampling >> rasterFilterShift & 0xFF)
	if err := checkFilterMode(ra.Filtering, cfg, off); err != nil {
		return nil, err
	}
	ra.Addressing = splitAddressing(uint8(sampling >> rasterAddressShift & 0xFF))
	if err := checkAddressModes(ra.Addressing, cfg, off); err != nil {
		return nil, err
	}

	if ra.Name, err = readPaddedName(r); err != nil {
		return nil, err
	}
	if ra.MaskName, err = readPaddedName(r); err != nil {
		return nil, err
	}
	if ra.RasterFormat, err = r.u32(); err != nil {
		return nil, err
	}

	secondary, err := r.u32()
	if err != nil {
		return nil, err
	}
	if version < rasterModernVersion {
		ra.HasAlpha = secondary != 0
	} else {
		ra.D3DFormat = secondary
	}

	if ra.Width, err = r.u16(); err != nil {
		return nil, err
	}
	if ra.Height, err = r.u16(); err != nil {
		return nil, err
	}
	if ra.Depth, err = r.u8(); err != nil {
		return nil, err
	}
	if ra.MipLevels, err = r.u8(); err != nil {
		return nil, err
	}
	if ra.RasterType, err = r.u8(); err != nil {
		return nil, err
	}

	flags, err := r.u8()
	if err != nil {
		return nil, err
	}
	if version < rasterModernVersion {
		ra.Compression = flags
	} else {
		ra.HasAlpha = flags&rasterFlagHasAlpha != 0
		ra.Cube = flags&rasterFlagCube != 0
		ra.AutoMips = flags&rasterFlagAutoMips != 0
		ra.Compressed = flags&rasterFlagCompressed != 0
	}

	ra.Pixels = r.rest()
	return ra, nil
}

// readPaddedName reads one fixed 32-byte name field and strips the trailing
// NUL padding.
func readPaddedName(r *reader) (string, error) {
	b, err := r.take(32)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}
