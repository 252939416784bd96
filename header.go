package rwbs

// HeaderSize is the fixed byte length of a chunk header: three little-endian
// 32-bit words (type tag, payload size, packed library id).
const HeaderSize = 12

// Header is the fixed 12-byte frame preceding every chunk payload.
type Header struct {
	Tag       TagID
	Size      uint32 // exact byte length of the payload that follows
	LibraryID uint32 // packed version/build, see LibraryVersion
}

// Version returns the format version resolved from the packed library id.
func (h Header) Version() uint32 { return LibraryVersion(h.LibraryID) }

// Build returns the library build number resolved from the packed library id.
func (h Header) Build() uint32 { return LibraryBuild(h.LibraryID) }

// readHeader reads one chunk header. It does not bound-check the declared
// payload size against the remaining buffer; that is the tree builder's job.
func readHeader(r *reader) (Header, error) {
	tag, err := r.u32()
	if err != nil {
		return Header{}, err
	}
	size, err := r.u32()
	if err != nil {
		return Header{}, err
	}
	libID, err := r.u32()
	if err != nil {
		return Header{}, err
	}
	return Header{Tag: TagID(tag), Size: size, LibraryID: libID}, nil
}
