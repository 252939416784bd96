package rwbs

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// TagID identifies the type of a chunk. The code space is open-ended:
// values outside the constants below are legal and decode to Opaque content.
type TagID uint32

const (
	TagStruct             TagID = 0x00000001
	TagString             TagID = 0x00000002
	TagExtension          TagID = 0x00000003
	TagCamera             TagID = 0x00000005
	TagTexture            TagID = 0x00000006
	TagMaterial           TagID = 0x00000007
	TagMaterialList       TagID = 0x00000008
	TagFrameList          TagID = 0x0000000E
	TagGeometry           TagID = 0x0000000F
	TagClump              TagID = 0x00000010
	TagAtomic             TagID = 0x00000014
	TagTextureNative      TagID = 0x00000015
	TagTextureDictionary  TagID = 0x00000016
	TagGeometryList       TagID = 0x0000001A
	TagMorphPLG           TagID = 0x00000105
	TagParticlesPLG       TagID = 0x00000118
	TagMaterialEffectsPLG TagID = 0x00000120
	TagBinMeshPLG         TagID = 0x0000050E
	TagFrame              TagID = 0x0253F2FE
)

var tagNames = map[TagID]string{
	TagStruct:             "Struct",
	TagString:             "String",
	TagExtension:          "Extension",
	TagCamera:             "Camera",
	TagTexture:            "Texture",
	TagMaterial:           "Material",
	TagMaterialList:       "MaterialList",
	TagFrameList:          "FrameList",
	TagGeometry:           "Geometry",
	TagClump:              "Clump",
	TagAtomic:             "Atomic",
	TagTextureNative:      "TextureNative",
	TagTextureDictionary:  "TextureDictionary",
	TagGeometryList:       "GeometryList",
	TagMorphPLG:           "MorphPLG",
	TagParticlesPLG:       "ParticlesPLG",
	TagMaterialEffectsPLG: "MaterialEffectsPLG",
	TagBinMeshPLG:         "BinMeshPLG",
	TagFrame:              "Frame",
}

func (t TagID) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tag(0x%08X)", uint32(t))
}

// HasChildren reports whether the tag's payload is a sequence of child
// chunks. The leaf-only set is closed; unknown tags are leaves, never
// containers, so a future tag degrades to Opaque content instead of a
// misparse.
func (t TagID) HasChildren() bool {
	switch t {
	case TagStruct, TagString, TagFrame,
		TagBinMeshPLG, TagMorphPLG, TagParticlesPLG, TagMaterialEffectsPLG:
		return false
	case TagExtension, TagCamera, TagTexture, TagMaterial, TagMaterialList,
		TagFrameList, TagGeometry, TagClump, TagAtomic, TagTextureNative,
		TagTextureDictionary, TagGeometryList:
		return true
	}
	return false
}

// Content is the tagged union of decoded chunk payloads. Exactly one
// variant is active per chunk.
type Content interface {
	isContent()
}

// Marker is the content of a recognized container tag whose payload is fully
// described by its children.
type Marker struct {
	Tag TagID
}

// Opaque carries the raw payload of an unrecognized or intentionally
// unparsed chunk unchanged.
type Opaque struct {
	Tag  TagID
	Data []byte
}

// StructData carries the raw bytes of a container's leading struct child
// when the container's own tag has no dedicated grammar.
type StructData struct {
	Data []byte
}

// Text is a null-trimmed, best-effort-decoded string chunk.
type Text struct {
	Value string
}

func (Marker) isContent()     {}
func (Opaque) isContent()     {}
func (StructData) isContent() {}
func (Text) isContent()       {}
func (*Geometry) isContent()  {}
func (*Material) isContent()  {}
func (*Texture) isContent()   {}
func (*Raster) isContent()    {}

// decodeLeafContent maps a leaf chunk's payload to its content. Unknown and
// grammarless tags fall back to Opaque and never fail the parse.
func decodeLeafContent(tag TagID, version uint32, payload []byte, base int, cfg decodeConfig) (Content, error) {
	switch tag {
	case TagString:
		return Text{Value: decodeText(payload)}, nil
	default:
		return Opaque{Tag: tag, Data: payload}, nil
	}
}

// decodeStructContent maps a container's leading struct payload to typed
// content, dispatched on the container's own tag and resolved version.
// Containers without a dedicated grammar keep the raw struct bytes.
func decodeStructContent(tag TagID, version uint32, payload []byte, base int, cfg decodeConfig) (Content, error) {
	switch tag {
	case TagGeometry:
		return decodeGeometry(newReader(payload, base), version)
	case TagMaterial:
		return decodeMaterial(newReader(payload, base), version)
	case TagTexture:
		return decodeTexture(newReader(payload, base), cfg)
	case TagTextureNative:
		return decodeRaster(newReader(payload, base), version, cfg)
	default:
		return StructData{Data: payload}, nil
	}
}

// decodeText trims the value at the first NUL byte. Invalid UTF-8 degrades
// silently to the empty string rather than failing the parse.
func decodeText(payload []byte) string {
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	if !utf8.Valid(payload) {
		return ""
	}
	return string(payload)
}
