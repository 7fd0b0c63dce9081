package session

import "github.com/sarchlab/memsim/cache"

// PoolSnapshot is a point-in-time view of the memory pool, serialized by
// the monitoring server.
type PoolSnapshot struct {
	Capacity              uint64  `json:"capacity"`
	Strategy              string  `json:"strategy"`
	Allocated             uint64  `json:"allocated"`
	Free                  uint64  `json:"free"`
	LargestFreeBlock      uint64  `json:"largest_free_block"`
	Utilization           float64 `json:"utilization"`
	ExternalFragmentation float64 `json:"external_fragmentation"`
	Attempts              uint64  `json:"attempts"`
	Successes             uint64  `json:"successes"`
	Failures              uint64  `json:"failures"`
	SuccessRate           float64 `json:"success_rate"`
}

// LayoutSegment is one segment of the pool layout as exposed over HTTP.
type LayoutSegment struct {
	Base  uint64 `json:"base"`
	Size  uint64 `json:"size"`
	State string `json:"state"`
	PID   int    `json:"pid,omitempty"`
}

// LevelSnapshot is a point-in-time view of one cache level.
type LevelSnapshot struct {
	SizeBytes   uint64  `json:"size_bytes"`
	BlockSize   uint64  `json:"block_size_bytes"`
	NumBlocks   uint64  `json:"num_blocks"`
	ValidBlocks uint64  `json:"valid_blocks"`
	Total       uint64  `json:"total_accesses"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	HitRatio    float64 `json:"hit_ratio"`
	MissRatio   float64 `json:"miss_ratio"`
}

// CacheSnapshot is a point-in-time view of the hierarchy.
type CacheSnapshot struct {
	Initialized      bool           `json:"initialized"`
	L1               *LevelSnapshot `json:"l1,omitempty"`
	L2               *LevelSnapshot `json:"l2,omitempty"`
	CombinedHitRatio float64        `json:"combined_hit_ratio"`
}

// SnapshotPool captures the pool state for external observers.
func (s *Session) SnapshotPool() PoolSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.pool.Analysis()
	stats := s.pool.Stats()

	return PoolSnapshot{
		Capacity:              r.Capacity,
		Strategy:              s.pool.Strategy().String(),
		Allocated:             r.Allocated,
		Free:                  r.Free,
		LargestFreeBlock:      r.LargestFreeBlock,
		Utilization:           r.Utilization,
		ExternalFragmentation: r.ExternalFragmentation,
		Attempts:              stats.Attempts,
		Successes:             stats.Successes,
		Failures:              stats.Failures,
		SuccessRate:           stats.SuccessRate(),
	}
}

// SnapshotLayout captures the segment list for external observers.
func (s *Session) SnapshotLayout() []LayoutSegment {
	s.mu.Lock()
	defer s.mu.Unlock()

	layout := s.pool.Layout()
	segments := make([]LayoutSegment, 0, len(layout))
	for _, seg := range layout {
		state := "allocated"
		pid := seg.PID
		if seg.Free {
			state = "free"
			pid = 0
		}
		segments = append(segments, LayoutSegment{
			Base:  seg.Base,
			Size:  seg.Size,
			State: state,
			PID:   pid,
		})
	}
	return segments
}

// SnapshotCache captures the hierarchy state for external observers.
func (s *Session) SnapshotCache() CacheSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.caches.Initialized() {
		return CacheSnapshot{}
	}

	return CacheSnapshot{
		Initialized:      true,
		L1:               snapshotLevel(s.caches.L1()),
		L2:               snapshotLevel(s.caches.L2()),
		CombinedHitRatio: s.caches.CombinedHitRatio(),
	}
}

func snapshotLevel(l *cache.Level) *LevelSnapshot {
	m := l.Metrics()
	return &LevelSnapshot{
		SizeBytes:   l.SizeBytes(),
		BlockSize:   l.BlockSizeBytes(),
		NumBlocks:   l.NumBlocks(),
		ValidBlocks: l.ValidBlocks(),
		Total:       m.Total,
		Hits:        m.Hits,
		Misses:      m.Misses,
		HitRatio:    m.HitRatio(),
		MissRatio:   m.MissRatio(),
	}
}
