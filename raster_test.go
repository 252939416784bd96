package rwbs

import (
	"bytes"
	"errors"
	"testing"
)

func paddedName(s string) []byte {
	b := make([]byte, 32)
	copy(b, s)
	return b
}

func rasterStructPayload(filter, addr uint8, secondary uint32, flags uint8, pixels []byte) []byte {
	p := appendU32(nil, 8) // platform
	p = appendU32(p, uint32(filter)<<rasterFilterShift|uint32(addr)<<rasterAddressShift)
	p = append(p, paddedName("wall_256")...)
	p = append(p, paddedName("wall_256_mask")...)
	p = appendU32(p, 0x0500) // raster format
	p = appendU32(p, secondary)
	p = appendU16(p, 256, 128) // width, height
	p = append(p, 32, 5, 4)    // depth, mip levels, raster type
	p = append(p, flags)
	return append(p, pixels...)
}

func rasterChunk(libID uint32, payload []byte) []byte {
	return chunkBytes(TagTextureNative, libID, chunkBytes(TagStruct, libID, payload))
}

func decodeRasterChunk(t *testing.T, libID uint32, payload []byte) *Raster {
	t.Helper()
	c, err := Decode(rasterChunk(libID, payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ra, ok := c.Content.(*Raster)
	if !ok {
		t.Fatalf("content = %T, want *Raster", c.Content)
	}
	return ra
}

func TestRaster_Modern(t *testing.T) {
	pixels := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	flags := rasterFlagHasAlpha | rasterFlagAutoMips | rasterFlagCompressed
	ra := decodeRasterChunk(t, libIDModern, rasterStructPayload(
		uint8(FilterMipLinear), 0x21, 0x31545844, flags, pixels))

	if ra.Platform != 8 {
		t.Fatalf("platform = %d", ra.Platform)
	}
	if ra.Filtering != FilterMipLinear {
		t.Fatalf("filtering = %v", ra.Filtering)
	}
	if ra.Addressing != ([2]AddressMode{AddressMirror, AddressWrap}) {
		t.Fatalf("addressing = %v", ra.Addressing)
	}
	if ra.Name != "wall_256" || ra.MaskName != "wall_256_mask" {
		t.Fatalf("names = %q / %q", ra.Name, ra.MaskName)
	}
	if ra.D3DFormat != 0x31545844 {
		t.Fatalf("d3d format = 0x%X, want stored verbatim", ra.D3DFormat)
	}
	if ra.Width != 256 || ra.Height != 128 || ra.Depth != 32 || ra.MipLevels != 5 || ra.RasterType != 4 {
		t.Fatalf("dims = %dx%dx%d mips %d type %d", ra.Width, ra.Height, ra.Depth, ra.MipLevels, ra.RasterType)
	}
	if !ra.HasAlpha || ra.Cube || !ra.AutoMips || !ra.Compressed {
		t.Fatalf("flags = alpha %v cube %v automip %v compressed %v", ra.HasAlpha, ra.Cube, ra.AutoMips, ra.Compressed)
	}
	if ra.Compression != 0 {
		t.Fatalf("modern header must not set raw compression, got %d", ra.Compression)
	}
	if !bytes.Equal(ra.Pixels, pixels) {
		t.Fatalf("pixels = %v", ra.Pixels)
	}
}

func TestRaster_LegacyAlphaWord(t *testing.T) {
	ra := decodeRasterChunk(t, libIDLegacy, rasterStructPayload(
		uint8(FilterLinear), 0x11, 1, 0x07, nil))
	if !ra.HasAlpha {
		t.Fatal("legacy nonzero alpha word must set HasAlpha")
	}
	if ra.D3DFormat != 0 {
		t.Fatalf("legacy header must leave D3DFormat unset, got 0x%X", ra.D3DFormat)
	}
	// Below the threshold the trailing byte is a raw compression value.
	if ra.Compression != 0x07 {
		t.Fatalf("compression = %d, want 7", ra.Compression)
	}
	if ra.Cube || ra.AutoMips || ra.Compressed {
		t.Fatal("legacy header must not decode modern flag bits")
	}
}

func TestRaster_LegacyNoAlpha(t *testing.T) {
	ra := decodeRasterChunk(t, libIDLegacy, rasterStructPayload(
		uint8(FilterLinear), 0x11, 0, 0, nil))
	if ra.HasAlpha {
		t.Fatal("legacy zero alpha word must leave HasAlpha false")
	}
	if len(ra.Pixels) != 0 {
		t.Fatalf("pixels = %v, want empty", ra.Pixels)
	}
}

func TestRaster_ModernAlphaOverride(t *testing.T) {
	// Modern headers ignore the secondary word for alpha: the flag byte
	// decides, even when the word is nonzero.
	ra := decodeRasterChunk(t, libIDModern, rasterStructPayload(
		uint8(FilterLinear), 0x11, 0x15, rasterFlagCube, nil))
	if ra.HasAlpha {
		t.Fatal("alpha bit clear: HasAlpha must be false despite nonzero format word")
	}
	if !ra.Cube {
		t.Fatal("cube bit set but Cube false")
	}
}

func TestRaster_InvalidFilter(t *testing.T) {
	_, err := Decode(rasterChunk(libIDModern, rasterStructPayload(0x55, 0x11, 0, 0, nil)))
	if !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}
}

func TestRaster_Truncated(t *testing.T) {
	p := rasterStructPayload(uint8(FilterLinear), 0x11, 0, 0, nil)
	_, err := Decode(rasterChunk(libIDModern, p[:40]))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}
