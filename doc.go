// Package rwbs decodes the RenderWare binary stream format used by a family
// of late-90s/early-2000s game engines to store 3-D scene data: model
// hierarchies (DFF), texture dictionaries (TXD) and their embedded rasters.
//
// # Stream Format Overview
//
// A stream is a tree of chunks. Every chunk starts with a 12-byte header of
// three little-endian 32-bit words:
//   - a type tag (open code space, unknown values are legal)
//   - the exact byte length of the following payload
//   - a packed library identifier encoding the format version and build
//
// Container tags carry a concatenated sequence of child chunks as their
// payload; leaf tags carry typed content. Many containers store their "real"
// typed payload in a leading child with the reserved struct tag, with the
// remaining children describing extensions and sub-resources.
//
// # Basic Usage
//
// Load a whole file into memory and decode it:
//
//	data, _ := os.ReadFile("player.dff")
//	root, err := rwbs.Decode(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, c := range root.Children {
//		if g, ok := c.Content.(*rwbs.Geometry); ok {
//			fmt.Println(len(g.Vertices), "vertices")
//		}
//	}
//
// Decoding is a pure function of the input bytes: no I/O, no shared state,
// and the resulting tree is never mutated after construction. Unknown chunk
// tags never fail the parse; they decode to [Opaque] content and traversal
// continues.
//
// The companion packages img and col read the two flat collaborator formats
// that usually travel with chunk streams: the sector-addressed resource
// archive and the collision mesh format. Package stream provides transparent
// decompression for tooling that consumes archived copies of either.
//
// There is no encoder; the format is read-only from this package's point of
// view.
package rwbs
