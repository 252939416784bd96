package rwbs

import "fmt"

// Chunk is one framed node of the stream tree: its header, decoded content
// and ordered children. Children is empty for leaf tags. The tree is a pure
// value: no shared ownership, no back-references, determined solely by
// nesting in the byte stream.
type Chunk struct {
	Header   Header
	Content  Content
	Children []*Chunk
}

// ConsumedSize returns the number of bytes the chunk occupied in the stream,
// header included.
func (c *Chunk) ConsumedSize() int { return HeaderSize + int(c.Header.Size) }

// FindChild returns the first direct child with the given tag, or nil.
func (c *Chunk) FindChild(tag TagID) *Chunk {
	for _, ch := range c.Children {
		if ch.Header.Tag == tag {
			return ch
		}
	}
	return nil
}

// Decode reads one chunk, and recursively its whole subtree, from the head
// of data. The input must hold the chunk's full framed region (header plus
// declared payload); trailing bytes beyond it are ignored.
//
// Decode returns an error wrapping ErrTruncated when a fixed-size field runs
// past the buffer, ErrBounds when a declared payload size exceeds the
// remaining bytes, ErrInvalidEnum for undefined enumerator values (unless
// WithLooseEnums is set) and ErrDepth when nesting exceeds the configured
// maximum. On error no partial tree is returned.
func Decode(data []byte, opts ...Option) (*Chunk, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return decodeChunk(newReader(data, 0), cfg, 0)
}

// decodeChunk consumes exactly HeaderSize + declared size bytes from r and
// produces one chunk.
func decodeChunk(r *reader, cfg decodeConfig, depth int) (*Chunk, error) {
	if depth > cfg.maxDepth {
		return nil, fmt.Errorf("%w: depth %d at offset %d", ErrDepth, depth, r.offset())
	}
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if int(h.Size) > r.remaining() {
		return nil, fmt.Errorf("%w: declared size %d, %d bytes remain at offset %d",
			ErrBounds, h.Size, r.remaining(), r.offset())
	}
	payloadBase := r.offset()
	payload, err := r.take(int(h.Size))
	if err != nil {
		return nil, err
	}

	c := &Chunk{Header: h}
	version := h.Version()

	if !h.Tag.HasChildren() {
		c.Content, err = decodeLeafContent(h.Tag, version, payload, payloadBase, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	// Container: the payload is a self-framed sibling sequence that must
	// consume the slice exactly.
	pr := newReader(payload, payloadBase)
	for pr.remaining() > 0 {
		child, err := decodeChunk(pr, cfg, depth+1)
		if err != nil {
			return nil, err
		}
		c.Children = append(c.Children, child)
	}

	// A leading struct child holds the container's real typed payload; the
	// struct bytes are re-decoded under the container's own tag once the
	// children pass is complete.
	c.Content = Marker{Tag: h.Tag}
	if len(c.Children) > 0 && c.Children[0].Header.Tag == TagStruct {
		structPayload := payload[HeaderSize : HeaderSize+int(c.Children[0].Header.Size)]
		c.Content, err = decodeStructContent(h.Tag, version, structPayload, payloadBase+HeaderSize, cfg)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}
