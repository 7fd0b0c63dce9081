package session

import (
	"fmt"

	"github.com/sarchlab/memsim/cache"
)

func (s *Session) writeLayout() {
	fmt.Fprintln(s.out, "\n--- Current Memory Layout ---")
	for _, seg := range s.pool.Layout() {
		if seg.Free {
			fmt.Fprintf(s.out, "[0x%x - 0x%x] FREE (size=%d)\n",
				seg.Base, seg.End(), seg.Size)
		} else {
			fmt.Fprintf(s.out, "[0x%x - 0x%x] ALLOCATED (PID=%d, size=%d)\n",
				seg.Base, seg.End(), seg.PID, seg.Size)
		}
	}
	fmt.Fprintln(s.out, "-----------------------------")
}

func (s *Session) writeAnalysis() {
	r := s.pool.Analysis()

	fmt.Fprintln(s.out, "\n--- Memory Analysis Report ---")
	fmt.Fprintf(s.out, "Total memory capacity: %d bytes\n", r.Capacity)
	fmt.Fprintf(s.out, "Allocated memory: %d bytes\n", r.Allocated)
	fmt.Fprintf(s.out, "Free memory: %d bytes\n", r.Free)
	fmt.Fprintf(s.out, "Largest free block: %d bytes\n", r.LargestFreeBlock)
	fmt.Fprintf(s.out, "Memory utilization: %.2f%%\n", r.Utilization)
	fmt.Fprintf(s.out, "External fragmentation: %.2f%%\n", r.ExternalFragmentation)
	fmt.Fprintln(s.out, "Internal fragmentation: 0.00% (exact allocation)")
	fmt.Fprintln(s.out, "-----------------------------")

	stats := s.pool.Stats()
	fmt.Fprintln(s.out, "\n=== Memory Performance Statistics ===")
	fmt.Fprintf(s.out, "Total allocation requests: %d\n", stats.Attempts)
	fmt.Fprintf(s.out, "Successful allocations: %d\n", stats.Successes)
	fmt.Fprintf(s.out, "Failed allocations: %d\n", stats.Failures)
	fmt.Fprintf(s.out, "Success rate: %.2f%%\n", stats.SuccessRate())
	fmt.Fprintln(s.out, "====================================")
}

// writeCacheGeometry reports the dimensions of both freshly built levels.
func (s *Session) writeCacheGeometry() {
	for _, entry := range []struct {
		name  string
		level *cache.Level
	}{
		{"L1", s.caches.L1()},
		{"L2", s.caches.L2()},
	} {
		fmt.Fprintf(s.out, "%s cache initialized: %d bytes, %d bytes per block, %d total blocks\n",
			entry.name,
			entry.level.SizeBytes(),
			entry.level.BlockSizeBytes(),
			entry.level.NumBlocks())
	}
}

func (s *Session) writeCacheInfo() {
	if !s.caches.Initialized() {
		fmt.Fprintln(s.out, "Cache hierarchy not initialized")
		return
	}

	for _, entry := range []struct {
		name  string
		level *cache.Level
	}{
		{"L1 Cache", s.caches.L1()},
		{"L2 Cache", s.caches.L2()},
	} {
		fmt.Fprintf(s.out, "%s Configuration:\n", entry.name)
		fmt.Fprintf(s.out, "  Size: %d bytes\n", entry.level.SizeBytes())
		fmt.Fprintf(s.out, "  Block size: %d bytes\n", entry.level.BlockSizeBytes())
		fmt.Fprintf(s.out, "  Number of blocks: %d\n", entry.level.NumBlocks())
		fmt.Fprintf(s.out, "  Valid blocks: %d/%d\n",
			entry.level.ValidBlocks(), entry.level.NumBlocks())
	}
}

func (s *Session) writeCacheStats() {
	if !s.caches.Initialized() {
		fmt.Fprintln(s.out, "Cache hierarchy not initialized")
		return
	}

	fmt.Fprintln(s.out, "\n--- Cache Performance Statistics ---")
	s.writeLevelMetrics("L1 Cache", s.caches.L1().Metrics())
	fmt.Fprintln(s.out)
	s.writeLevelMetrics("L2 Cache", s.caches.L2().Metrics())

	if s.caches.L1().Metrics().Total > 0 {
		fmt.Fprintln(s.out, "\nOverall Cache Performance:")
		fmt.Fprintf(s.out, "  Combined hit ratio: %.2f%%\n",
			s.caches.CombinedHitRatio())
	}
	fmt.Fprintln(s.out, "-----------------------------------")
}

func (s *Session) writeLevelMetrics(name string, m cache.Metrics) {
	fmt.Fprintf(s.out, "%s Performance:\n", name)
	fmt.Fprintf(s.out, "  Total accesses: %d\n", m.Total)
	fmt.Fprintf(s.out, "  Cache hits: %d\n", m.Hits)
	fmt.Fprintf(s.out, "  Cache misses: %d\n", m.Misses)
	fmt.Fprintf(s.out, "  Hit ratio: %.2f%%\n", m.HitRatio())
	fmt.Fprintf(s.out, "  Miss ratio: %.2f%%\n", m.MissRatio())
}

func (s *Session) writeHelp() {
	fmt.Fprintln(s.out, "\n--- Available Commands ---")
	fmt.Fprintln(s.out, "init <size>           - Initialize memory pool with specified size")
	fmt.Fprintln(s.out, "strategy <algorithm>  - Set allocation strategy (first_fit/best_fit/worst_fit)")
	fmt.Fprintln(s.out, "alloc <size>          - Allocate memory block of specified size")
	fmt.Fprintln(s.out, "free <pid>            - Deallocate memory block with process ID")
	fmt.Fprintln(s.out, "display               - Show current memory layout")
	fmt.Fprintln(s.out, "stats                 - Display memory statistics and analysis")
	fmt.Fprintln(s.out, "reset                 - Reset the memory simulator")
	fmt.Fprintln(s.out, "cache <subcommand>    - Cache simulator commands (see 'cache')")
	fmt.Fprintln(s.out, "help                  - Show this help message")
	fmt.Fprintln(s.out, "exit                  - Quit the simulator")
	fmt.Fprintln(s.out, "-------------------------")
}

func (s *Session) writeCacheHelp() {
	fmt.Fprintln(s.out, "\n--- Cache Commands ---")
	fmt.Fprintln(s.out, "cache init <l1_size> <l1_block> <l2_size> <l2_block>")
	fmt.Fprintln(s.out, "                      - Initialize the two-level cache hierarchy")
	fmt.Fprintln(s.out, "cache access <addr>   - Simulate a memory access (decimal or 0x hex)")
	fmt.Fprintln(s.out, "cache stats           - Display cache performance statistics")
	fmt.Fprintln(s.out, "cache flush           - Invalidate all cache blocks")
	fmt.Fprintln(s.out, "cache reset-stats     - Reset cache statistics")
	fmt.Fprintln(s.out, "cache info            - Show cache configuration")
	fmt.Fprintln(s.out, "----------------------")
}
