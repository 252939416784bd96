package rwbs

import (
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"
)

// chunkBytes frames payload as one chunk.
func chunkBytes(tag TagID, libID uint32, payload []byte) []byte {
	b := make([]byte, 0, HeaderSize+len(payload))
	b = binary.LittleEndian.AppendUint32(b, uint32(tag))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(payload)))
	b = binary.LittleEndian.AppendUint32(b, libID)
	return append(b, payload...)
}

func appendU32(b []byte, vs ...uint32) []byte {
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

func appendU16(b []byte, vs ...uint16) []byte {
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint16(b, v)
	}
	return b
}

func appendF32(b []byte, vs ...float32) []byte {
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func TestDecode_TextChunk(t *testing.T) {
	data := chunkBytes(TagString, 0, []byte("abc\x00\x00"))
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got, want := c.Content, (Text{Value: "abc"}); got != want {
		t.Fatalf("content = %#v, want %#v", got, want)
	}
	if len(c.Children) != 0 {
		t.Fatalf("children = %d, want 0", len(c.Children))
	}
	if c.ConsumedSize() != 17 {
		t.Fatalf("consumed = %d, want 17", c.ConsumedSize())
	}
}

func TestDecode_TextInvalidUTF8(t *testing.T) {
	data := chunkBytes(TagString, 0, []byte{0xFF, 0xFE, 'x'})
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Content.(Text).Value != "" {
		t.Fatalf("invalid encoding should degrade to empty string, got %q", c.Content.(Text).Value)
	}
}

func TestDecode_UnknownTagOpaque(t *testing.T) {
	unknown := chunkBytes(TagID(0xDEADBEEF), 0, []byte{1, 2, 3})
	text := chunkBytes(TagString, 0, []byte("ok\x00"))
	data := chunkBytes(TagExtension, 0, append(append([]byte{}, unknown...), text...))

	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(c.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(c.Children))
	}
	op, ok := c.Children[0].Content.(Opaque)
	if !ok {
		t.Fatalf("first child content = %T, want Opaque", c.Children[0].Content)
	}
	if op.Tag != 0xDEADBEEF || !reflect.DeepEqual(op.Data, []byte{1, 2, 3}) {
		t.Fatalf("opaque = %#v", op)
	}
	if got := c.Children[1].Content.(Text).Value; got != "ok" {
		t.Fatalf("sibling after unknown tag = %q, want %q", got, "ok")
	}
}

func TestDecode_SiblingsConsumeParentPayload(t *testing.T) {
	a := chunkBytes(TagString, 0, []byte("a\x00"))
	b := chunkBytes(TagString, 0, []byte("bb\x00"))
	data := chunkBytes(TagExtension, 0, append(append([]byte{}, a...), b...))

	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sum := 0
	for _, ch := range c.Children {
		sum += ch.ConsumedSize()
	}
	if sum != int(c.Header.Size) {
		t.Fatalf("children consumed %d, parent payload %d", sum, c.Header.Size)
	}
}

func TestDecode_ContainerLeftoverFails(t *testing.T) {
	a := chunkBytes(TagString, 0, []byte("a\x00"))
	// Three stray bytes after the last sibling cannot frame another header.
	payload := append(append([]byte{}, a...), 1, 2, 3)
	_, err := Decode(chunkBytes(TagExtension, 0, payload))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecode_TruncatedHeader(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecode_BoundsError(t *testing.T) {
	data := chunkBytes(TagString, 0, []byte("abc"))
	// Declare more payload than the buffer holds.
	binary.LittleEndian.PutUint32(data[4:8], 100)
	_, err := Decode(data)
	if !errors.Is(err, ErrBounds) {
		t.Fatalf("expected ErrBounds, got %v", err)
	}
}

func TestDecode_NestedBoundsError(t *testing.T) {
	child := chunkBytes(TagString, 0, []byte("abc"))
	binary.LittleEndian.PutUint32(child[4:8], 1000)
	_, err := Decode(chunkBytes(TagClump, 0, child))
	if !errors.Is(err, ErrBounds) {
		t.Fatalf("expected ErrBounds, got %v", err)
	}
}

func TestDecode_StructChildData(t *testing.T) {
	structChild := chunkBytes(TagStruct, 0, []byte{9, 8, 7, 6})
	data := chunkBytes(TagClump, 0, structChild)

	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sd, ok := c.Content.(StructData)
	if !ok {
		t.Fatalf("content = %T, want StructData", c.Content)
	}
	if !reflect.DeepEqual(sd.Data, []byte{9, 8, 7, 6}) {
		t.Fatalf("struct data = %v", sd.Data)
	}
	if len(c.Children) != 1 || c.Children[0].Header.Tag != TagStruct {
		t.Fatalf("children = %#v", c.Children)
	}
}

func TestDecode_ContainerWithoutStructIsMarker(t *testing.T) {
	text := chunkBytes(TagString, 0, []byte("hi\x00"))
	c, err := Decode(chunkBytes(TagFrameList, 0, text))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got, want := c.Content, (Marker{Tag: TagFrameList}); got != want {
		t.Fatalf("content = %#v, want %#v", got, want)
	}
}

func TestDecode_EmptyContainer(t *testing.T) {
	c, err := Decode(chunkBytes(TagClump, 0, nil))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(c.Children) != 0 {
		t.Fatalf("children = %d, want 0", len(c.Children))
	}
}

func TestDecode_DepthLimit(t *testing.T) {
	data := chunkBytes(TagString, 0, []byte("x\x00"))
	for i := 0; i < 6; i++ {
		data = chunkBytes(TagExtension, 0, data)
	}
	if _, err := Decode(data); err != nil {
		t.Fatalf("default depth should accept: %v", err)
	}
	_, err := Decode(data, WithMaxDepth(4))
	if !errors.Is(err, ErrDepth) {
		t.Fatalf("expected ErrDepth, got %v", err)
	}
}

func TestDecode_TrailingBytesAfterRootIgnored(t *testing.T) {
	data := chunkBytes(TagString, 0, []byte("abc\x00"))
	data = append(data, 0xAA, 0xBB)
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Content.(Text).Value != "abc" {
		t.Fatalf("content = %#v", c.Content)
	}
}

func TestFindChild(t *testing.T) {
	a := chunkBytes(TagString, 0, []byte("a\x00"))
	f := chunkBytes(TagFrame, 0, []byte{1})
	c, err := Decode(chunkBytes(TagExtension, 0, append(append([]byte{}, a...), f...)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := c.FindChild(TagFrame); got == nil || got.Header.Tag != TagFrame {
		t.Fatalf("FindChild(TagFrame) = %v", got)
	}
	if got := c.FindChild(TagCamera); got != nil {
		t.Fatalf("FindChild(TagCamera) = %v, want nil", got)
	}
}

func TestTagString(t *testing.T) {
	if TagClump.String() != "Clump" {
		t.Fatalf("TagClump.String() = %q", TagClump.String())
	}
	if got := TagID(0xDEADBEEF).String(); got != "Tag(0xDEADBEEF)" {
		t.Fatalf("unknown tag string = %q", got)
	}
}
