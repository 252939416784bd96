package rwbs

// The packed 32-bit library identifier in each chunk header encodes the
// format version and library build under two mutually exclusive packings.
// Streams written by 3.1 and later set bits in the upper half ("modern"
// packing); older streams store a bare version number ("legacy" packing,
// build unavailable).

// LibraryVersion extracts the format version from a packed library id.
// It is total over all 32-bit inputs.
func LibraryVersion(id uint32) uint32 {
	if id&0xFFFF0000 != 0 {
		return ((id>>14)&0x3FF00 + 0x30000) | (id >> 16 & 0x3F)
	}
	return id << 8
}

// LibraryBuild extracts the build number from a packed library id.
// Legacy-packed identifiers carry no build and yield 0.
func LibraryBuild(id uint32) uint32 {
	if id&0xFFFF0000 != 0 {
		return id & 0xFFFF
	}
	return 0
}
