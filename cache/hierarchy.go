package cache

import "errors"

// ErrNotInitialized is returned when the hierarchy is probed before
// Initialize succeeded.
var ErrNotInitialized = errors.New("cache hierarchy not initialized")

// Result classifies one hierarchy access.
type Result int

const (
	// Miss means both levels missed; a real system would now fault to
	// backing storage.
	Miss Result = iota

	// L1Hit means the first level served the access; L2 was not probed.
	L1Hit

	// L2Hit means the first level missed and the second level hit.
	L2Hit
)

// String returns the result name as rendered in reports.
func (r Result) String() string {
	switch r {
	case L1Hit:
		return "L1 hit"
	case L2Hit:
		return "L2 hit"
	}
	return "miss"
}

// Hierarchy owns an ordered pair of cache levels, L1 probed before L2.
type Hierarchy struct {
	l1 *Level
	l2 *Level
}

// NewHierarchy returns an uninitialized hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{}
}

// Initialize constructs both levels from their geometry. The previous
// hierarchy, if any, is dropped first; if either construction fails the
// hierarchy is left uninitialized rather than partially built.
func (h *Hierarchy) Initialize(l1Size, l1Block, l2Size, l2Block uint64) error {
	h.l1 = nil
	h.l2 = nil

	l1, err := NewLevel(l1Size, l1Block)
	if err != nil {
		return err
	}
	l2, err := NewLevel(l2Size, l2Block)
	if err != nil {
		return err
	}

	h.l1 = l1
	h.l2 = l2
	return nil
}

// Initialized reports whether both levels exist.
func (h *Hierarchy) Initialized() bool {
	return h.l1 != nil
}

// L1 returns the first-level cache, or nil before initialization.
func (h *Hierarchy) L1() *Level {
	return h.l1
}

// L2 returns the second-level cache, or nil before initialization.
func (h *Hierarchy) L2() *Level {
	return h.l2
}

// Access probes L1 first and short-circuits on a hit, leaving L2 untouched.
// On an L1 miss, L2 records its own hit or miss independently.
func (h *Hierarchy) Access(addr uint64) (Result, error) {
	if !h.Initialized() {
		return Miss, ErrNotInitialized
	}

	if h.l1.Access(addr) {
		return L1Hit, nil
	}
	if h.l2.Access(addr) {
		return L2Hit, nil
	}
	return Miss, nil
}

// FlushAll flushes both levels. Metrics are untouched.
func (h *Hierarchy) FlushAll() error {
	if !h.Initialized() {
		return ErrNotInitialized
	}
	h.l1.Flush()
	h.l2.Flush()
	return nil
}

// ResetStatistics reconstructs both levels with their current geometry,
// which clears the metrics along with all cached blocks.
func (h *Hierarchy) ResetStatistics() error {
	if !h.Initialized() {
		return ErrNotInitialized
	}
	return h.Initialize(
		h.l1.SizeBytes(), h.l1.BlockSizeBytes(),
		h.l2.SizeBytes(), h.l2.BlockSizeBytes(),
	)
}

// CombinedHitRatio reports the overall figure shown in cache statistics.
// Both terms are divided by L1's access count, so this is a reporting
// convention, not a weighted hit ratio. It returns 0 before any L1 access.
func (h *Hierarchy) CombinedHitRatio() float64 {
	if !h.Initialized() {
		return 0
	}

	l1 := h.l1.Metrics()
	if l1.Total == 0 {
		return 0
	}

	ratio := 100 * float64(l1.Hits) / float64(l1.Total)
	if l2 := h.l2.Metrics(); l2.Total > 0 {
		ratio += 100 * float64(l2.Hits) / float64(l1.Total)
	}
	return ratio
}
