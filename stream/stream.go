// Package stream wraps readers and writers with transparent compression for
// tooling that consumes or produces archived copies of asset files. The
// chunk and archive formats themselves are never compressed; this package
// exists so the command-line tools accept .gz/.zst/.lz4 inputs and can
// compress extracted payloads on the way out.
package stream

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnknownCodec reports a codec name or value outside the supported set.
var ErrUnknownCodec = errors.New("stream: unknown codec")

// Codec selects a compression algorithm.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecGzip
	CodecZstd
	CodecLZ4
	CodecBrotli
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecGzip:
		return "gzip"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	case CodecBrotli:
		return "br"
	}
	return fmt.Sprintf("codec(%d)", uint8(c))
}

// Ext returns the conventional filename suffix for the codec, empty for
// CodecNone.
func (c Codec) Ext() string {
	switch c {
	case CodecGzip:
		return ".gz"
	case CodecZstd:
		return ".zst"
	case CodecLZ4:
		return ".lz4"
	case CodecBrotli:
		return ".br"
	}
	return ""
}

// ParseCodec maps a CLI flag value to a Codec.
func ParseCodec(s string) (Codec, error) {
	switch s {
	case "", "none":
		return CodecNone, nil
	case "gzip", "gz":
		return CodecGzip, nil
	case "zstd", "zst":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	case "br", "brotli":
		return CodecBrotli, nil
	}
	return CodecNone, fmt.Errorf("%w: %q", ErrUnknownCodec, s)
}

// Frame magics of the sniffable codecs.
var (
	magicGzip = []byte{0x1F, 0x8B}
	magicZstd = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicLZ4  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// NewReader sniffs the leading bytes of r for a gzip, zstd or lz4 frame
// magic and returns a decompressing reader; anything else passes through
// unchanged. Brotli frames carry no magic and cannot be sniffed; use
// NewReaderCodec for those.
func NewReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(head, magicGzip):
		return gzip.NewReader(br)
	case bytes.HasPrefix(head, magicZstd):
		return zstd.NewReader(br)
	case bytes.HasPrefix(head, magicLZ4):
		return lz4.NewReader(br), nil
	}
	return br, nil
}

// NewReaderCodec wraps r with an explicit codec, bypassing sniffing.
func NewReaderCodec(c Codec, r io.Reader) (io.Reader, error) {
	switch c {
	case CodecNone:
		return r, nil
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecZstd:
		return zstd.NewReader(r)
	case CodecLZ4:
		return lz4.NewReader(r), nil
	case CodecBrotli:
		return brotli.NewReader(r), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, c)
}

// NewWriter wraps w with a compressing writer for the codec. The returned
// writer must be closed to flush the frame; closing it does not close w.
func NewWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case CodecNone:
		return nopCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecZstd:
		return zstd.NewWriter(w)
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	case CodecBrotli:
		return brotli.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, c)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
