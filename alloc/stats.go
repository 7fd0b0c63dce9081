package alloc

// Stats counts allocation outcomes over the lifetime of a pool. The
// counters are monotonic; they reset only when the pool is initialized or
// reset. Deallocation does not touch them.
type Stats struct {
	// Attempts is the total number of Allocate calls.
	Attempts uint64

	// Successes is the number of Allocate calls that returned a block.
	Successes uint64

	// Failures is the number of rejected Allocate calls (zero-size
	// requests and requests no free segment could hold).
	Failures uint64
}

// SuccessRate returns the percentage of attempts that succeeded, or 0 when
// no allocation has been attempted.
func (s Stats) SuccessRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return 100 * float64(s.Successes) / float64(s.Attempts)
}
