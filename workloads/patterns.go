package workloads

import (
	"github.com/sarchlab/memsim/alloc"
	"github.com/sarchlab/memsim/cache"
)

// GetWorkloads returns the standard workload set. Each workload targets one
// simulator characteristic: churn, fragmentation buildup, or a cache reuse
// pattern.
func GetWorkloads() []Workload {
	return []Workload{
		allocChurn(),
		fragmentationBuildup(),
		sequentialScan(),
		stridedScan(),
		conflictThrash(),
	}
}

// allocChurn allocates and frees in waves, measuring how well coalescing
// keeps the pool usable under first fit.
func allocChurn() Workload {
	return Workload{
		Name:         "alloc_churn",
		Description:  "waves of 64-byte allocations with interleaved frees under first fit",
		PoolCapacity: 4096,
		Strategy:     alloc.FirstFit,
		Run: func(p *alloc.Pool, _ *cache.Hierarchy) uint64 {
			var ops uint64
			for wave := 0; wave < 8; wave++ {
				pids := make([]int, 0, 32)
				for {
					a, err := p.Allocate(64)
					ops++
					if err != nil {
						break
					}
					pids = append(pids, a.PID)
				}
				// Free every other block, oldest first.
				for i := 0; i < len(pids); i += 2 {
					p.Deallocate(pids[i])
					ops++
				}
				for i := 1; i < len(pids); i += 2 {
					p.Deallocate(pids[i])
					ops++
				}
			}
			return ops
		},
	}
}

// fragmentationBuildup mixes block sizes under best fit and frees the small
// ones, leaving scattered holes.
func fragmentationBuildup() Workload {
	return Workload{
		Name:         "fragmentation",
		Description:  "mixed-size allocations with selective frees under best fit",
		PoolCapacity: 8192,
		Strategy:     alloc.BestFit,
		Run: func(p *alloc.Pool, _ *cache.Hierarchy) uint64 {
			var ops uint64
			sizes := []uint64{512, 64, 256, 32, 1024, 128, 64, 32}
			small := make([]int, 0)
			for _, size := range sizes {
				a, err := p.Allocate(size)
				ops++
				if err == nil && size <= 64 {
					small = append(small, a.PID)
				}
			}
			for _, pid := range small {
				p.Deallocate(pid)
				ops++
			}
			// A second round of small requests lands in the holes.
			for i := 0; i < len(small); i++ {
				p.Allocate(48)
				ops++
			}
			return ops
		},
	}
}

// sequentialScan walks a range twice; the second pass should mostly hit.
func sequentialScan() Workload {
	return Workload{
		Name:        "seq_scan",
		Description: "two sequential passes over 4KB at line granularity",
		L1Size:      1024, L1Block: 32,
		L2Size: 4096, L2Block: 64,
		Run: func(_ *alloc.Pool, h *cache.Hierarchy) uint64 {
			var ops uint64
			for pass := 0; pass < 2; pass++ {
				for addr := uint64(0); addr < 4096; addr += 32 {
					h.Access(addr)
					ops++
				}
			}
			return ops
		},
	}
}

// stridedScan accesses with a stride exceeding the L1 reach, exercising the
// L2 fallback.
func stridedScan() Workload {
	return Workload{
		Name:        "strided",
		Description: "strided accesses wider than the L1 index range",
		L1Size:      1024, L1Block: 32,
		L2Size: 8192, L2Block: 64,
		Run: func(_ *alloc.Pool, h *cache.Hierarchy) uint64 {
			var ops uint64
			for pass := 0; pass < 4; pass++ {
				for addr := uint64(0); addr < 8192; addr += 1024 {
					h.Access(addr)
					ops++
				}
			}
			return ops
		},
	}
}

// conflictThrash ping-pongs between addresses mapping to the same L1 slot,
// exercising the FIFO eviction path.
func conflictThrash() Workload {
	return Workload{
		Name:        "thrash",
		Description: "alternating conflicting addresses in one L1 slot",
		L1Size:      1024, L1Block: 32,
		L2Size: 4096, L2Block: 64,
		Run: func(_ *alloc.Pool, h *cache.Hierarchy) uint64 {
			var ops uint64
			for i := 0; i < 64; i++ {
				h.Access(0)
				h.Access(1024)
				h.Access(2048)
				ops += 3
			}
			return ops
		},
	}
}
