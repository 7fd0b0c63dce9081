// Package cache models the hit/miss and eviction behavior of a two-level
// direct-mapped cache hierarchy with FIFO replacement.
package cache

// Metrics counts accesses for one cache level. The counters are monotonic
// until the level is reconstructed; flushing a level does not reset them.
type Metrics struct {
	Total  uint64
	Hits   uint64
	Misses uint64
}

// HitRatio returns the hit percentage, or 0 when nothing was accessed.
func (m Metrics) HitRatio() float64 {
	if m.Total == 0 {
		return 0
	}
	return 100 * float64(m.Hits) / float64(m.Total)
}

// MissRatio returns the miss percentage, or 0 when nothing was accessed.
func (m Metrics) MissRatio() float64 {
	if m.Total == 0 {
		return 0
	}
	return 100 * float64(m.Misses) / float64(m.Total)
}

func (m *Metrics) recordHit() {
	m.Total++
	m.Hits++
}

func (m *Metrics) recordMiss() {
	m.Total++
	m.Misses++
}
