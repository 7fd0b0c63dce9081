package alloc

import "fmt"

// Strategy selects which free segment satisfies an allocation request.
type Strategy int

const (
	// FirstFit picks the qualifying segment with the lowest base address.
	FirstFit Strategy = iota

	// BestFit picks the smallest qualifying segment. Ties go to the
	// segment earliest in address order.
	BestFit

	// WorstFit picks the largest qualifying segment. Ties go to the
	// segment earliest in address order.
	WorstFit
)

// String returns the human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case FirstFit:
		return "First Fit"
	case BestFit:
		return "Best Fit"
	case WorstFit:
		return "Worst Fit"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a textual strategy name to a Strategy. It accepts the
// long names used in config files as well as the short command aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "first_fit", "first", "ff":
		return FirstFit, nil
	case "best_fit", "best", "bf":
		return BestFit, nil
	case "worst_fit", "worst", "wf":
		return WorstFit, nil
	}
	return FirstFit, fmt.Errorf("unknown allocation algorithm %q", name)
}

// findFirstFit returns the index of the earliest free segment that can hold
// size bytes, or -1 if none qualifies.
func (p *Pool) findFirstFit(size uint64) int {
	for i, seg := range p.segments {
		if seg.canAccommodate(size) {
			return i
		}
	}
	return -1
}

// findBestFit returns the index of the smallest qualifying free segment.
// The strict < comparison keeps the earliest segment on ties.
func (p *Pool) findBestFit(size uint64) int {
	best := -1
	var bestSize uint64
	for i, seg := range p.segments {
		if !seg.canAccommodate(size) {
			continue
		}
		if best == -1 || seg.Size < bestSize {
			best = i
			bestSize = seg.Size
		}
	}
	return best
}

// findWorstFit returns the index of the largest qualifying free segment.
// The strict > comparison keeps the earliest segment on ties.
func (p *Pool) findWorstFit(size uint64) int {
	worst := -1
	var worstSize uint64
	for i, seg := range p.segments {
		if !seg.canAccommodate(size) {
			continue
		}
		if worst == -1 || seg.Size > worstSize {
			worst = i
			worstSize = seg.Size
		}
	}
	return worst
}
