package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/memsim/alloc"
	"github.com/sarchlab/memsim/cache"
)

// Execute parses and runs one command line. It returns false once the
// session has been asked to quit.
func (s *Session) Execute(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return s.running
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch tokens[0] {
	case "init", "initialize":
		s.handleInit(tokens)
	case "strategy", "set":
		s.handleStrategy(tokens)
	case "alloc", "malloc":
		s.handleAllocate(tokens)
	case "free", "dealloc":
		s.handleDeallocate(tokens)
	case "display", "dump", "show":
		s.writeLayout()
	case "stats", "statistics", "analyze":
		s.writeAnalysis()
	case "reset", "clear":
		s.pool.Reset()
		fmt.Fprintln(s.out, "Memory simulator has been reset")
	case "cache":
		s.handleCache(tokens[1:])
	case "help", "?":
		s.writeHelp()
	case "quit", "exit", "bye":
		fmt.Fprintln(s.out, "Goodbye!")
		s.running = false
	default:
		fmt.Fprintf(s.out,
			"Unknown command: '%s'. Type 'help' for available commands.\n",
			tokens[0])
	}

	return s.running
}

func (s *Session) handleInit(tokens []string) {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: init <memory_size>")
		fmt.Fprintln(s.out, "Example: init 1024")
		return
	}

	size, err := parseUint(tokens[1])
	if err != nil {
		fmt.Fprintln(s.out, "Error: Invalid memory size format")
		return
	}
	if size == 0 {
		fmt.Fprintln(s.out, "Error: Memory size must be greater than 0")
		return
	}

	s.pool.Initialize(size)
	fmt.Fprintf(s.out, "Memory pool initialized: %d bytes\n", size)
}

func (s *Session) handleStrategy(tokens []string) {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: strategy <algorithm>")
		fmt.Fprintln(s.out, "Available algorithms: first_fit, best_fit, worst_fit")
		return
	}

	strategy, err := alloc.ParseStrategy(tokens[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: Unknown allocation algorithm '%s'\n", tokens[1])
		fmt.Fprintln(s.out, "Available: first_fit, best_fit, worst_fit")
		return
	}

	s.pool.SetStrategy(strategy)
	fmt.Fprintf(s.out, "Allocation strategy set to: %s\n", strategy)
}

func (s *Session) handleAllocate(tokens []string) {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: alloc <size>")
		fmt.Fprintln(s.out, "Example: alloc 256")
		return
	}

	size, err := parseUint(tokens[1])
	if err != nil {
		fmt.Fprintln(s.out, "Error: Invalid allocation size format")
		return
	}

	a, err := s.pool.Allocate(size)
	switch {
	case errors.Is(err, alloc.ErrZeroSize):
		fmt.Fprintln(s.out, "Error: Cannot allocate zero bytes")
		s.recorder.RecordAllocation(size, -1, 0, false)
	case errors.Is(err, alloc.ErrNoFit):
		fmt.Fprintln(s.out, "Memory allocation failed: Insufficient space")
		s.recorder.RecordAllocation(size, -1, 0, false)
	case err == nil:
		fmt.Fprintf(s.out, "Memory allocated: PID=%d at address=0x%x (size=%d)\n",
			a.PID, a.Address, size)
		s.recorder.RecordAllocation(size, a.PID, a.Address, true)
	}
}

func (s *Session) handleDeallocate(tokens []string) {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: free <process_id>")
		fmt.Fprintln(s.out, "Example: free 3")
		return
	}

	pid, err := strconv.Atoi(tokens[1])
	if err != nil {
		fmt.Fprintln(s.out, "Error: Invalid process ID format")
		return
	}

	if err := s.pool.Deallocate(pid); err != nil {
		fmt.Fprintf(s.out, "Error: Process ID %d not found\n", pid)
		s.recorder.RecordFree(pid, false)
		return
	}
	fmt.Fprintf(s.out, "Memory deallocated for PID=%d\n", pid)
	s.recorder.RecordFree(pid, true)
}

func (s *Session) handleCache(tokens []string) {
	if len(tokens) == 0 {
		s.writeCacheHelp()
		return
	}

	switch tokens[0] {
	case "init", "initialize":
		s.handleCacheInit(tokens)
	case "access":
		s.handleCacheAccess(tokens)
	case "stats", "statistics":
		s.writeCacheStats()
	case "flush":
		if err := s.caches.FlushAll(); err != nil {
			fmt.Fprintln(s.out, "Cache hierarchy not initialized")
			return
		}
		fmt.Fprintln(s.out, "Flushing all caches...")
		fmt.Fprintln(s.out, "Cache flushed")
	case "reset-stats":
		if err := s.caches.ResetStatistics(); err != nil {
			fmt.Fprintln(s.out, "Cache hierarchy not initialized")
			return
		}
		fmt.Fprintln(s.out, "Cache statistics reset")
	case "info":
		s.writeCacheInfo()
	default:
		fmt.Fprintf(s.out, "Unknown cache command: '%s'\n", tokens[0])
		s.writeCacheHelp()
	}
}

func (s *Session) handleCacheInit(tokens []string) {
	if len(tokens) < 5 {
		fmt.Fprintln(s.out,
			"Usage: cache init <l1_size> <l1_block> <l2_size> <l2_block>")
		fmt.Fprintln(s.out, "Example: cache init 1024 32 4096 64")
		return
	}

	geometry := make([]uint64, 4)
	for i, token := range tokens[1:5] {
		v, err := parseUint(token)
		if err != nil {
			fmt.Fprintln(s.out, "Error: Invalid cache size format")
			return
		}
		geometry[i] = v
	}

	err := s.caches.Initialize(geometry[0], geometry[1], geometry[2], geometry[3])
	if err != nil {
		fmt.Fprintf(s.out, "Error initializing cache hierarchy: %v\n", err)
		return
	}

	s.writeCacheGeometry()
	fmt.Fprintln(s.out, "Cache hierarchy successfully initialized")
}

func (s *Session) handleCacheAccess(tokens []string) {
	if len(tokens) < 2 {
		fmt.Fprintln(s.out, "Usage: cache access <address>")
		fmt.Fprintln(s.out, "Example: cache access 0x1f40")
		return
	}

	addr, err := parseUint(tokens[1])
	if err != nil {
		fmt.Fprintln(s.out, "Error: Invalid address format")
		return
	}

	result, err := s.caches.Access(addr)
	if errors.Is(err, cache.ErrNotInitialized) {
		fmt.Fprintln(s.out, "Error: Cache hierarchy not initialized")
		return
	}

	fmt.Fprintf(s.out, "Address 0x%x: %s\n", addr, result)
	s.recorder.RecordAccess(addr, result.String())
}

// parseUint accepts decimal and 0x-prefixed hexadecimal sizes/addresses.
func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
