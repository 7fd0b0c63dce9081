// Package alloc models dynamic allocation over a fixed byte-addressable
// pool. A pool is an ordered list of contiguous segments, each either free
// or owned by a process id, with pluggable placement strategies.
package alloc

// Segment describes one contiguous range of the pool's address space.
type Segment struct {
	// Base is the first address covered by the segment.
	Base uint64

	// Size is the number of bytes covered. Segments in a pool are always
	// contiguous: Base+Size equals the next segment's Base.
	Size uint64

	// Free reports whether the range is available for allocation.
	Free bool

	// PID is the owning process id when the segment is allocated, -1
	// otherwise.
	PID int
}

// End returns the last address covered by the segment.
func (s Segment) End() uint64 {
	return s.Base + s.Size - 1
}

// canAccommodate reports whether the segment is free and large enough for a
// request of the given size.
func (s Segment) canAccommodate(size uint64) bool {
	return s.Free && s.Size >= size
}
