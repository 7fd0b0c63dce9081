// Package workloads provides canned allocation and cache access patterns
// for exercising the simulator and comparing placement strategies.
package workloads

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/memsim/alloc"
	"github.com/sarchlab/memsim/cache"
)

// Result holds the figures collected from a single workload run.
type Result struct {
	// Name identifies the workload.
	Name string `json:"name"`

	// Description explains what the workload exercises.
	Description string `json:"description"`

	// Operations is the number of allocator calls plus cache accesses.
	Operations uint64 `json:"operations"`

	// Allocator figures (zero for cache-only workloads).
	Attempts              uint64  `json:"attempts"`
	Successes             uint64  `json:"successes"`
	Failures              uint64  `json:"failures"`
	Utilization           float64 `json:"utilization"`
	ExternalFragmentation float64 `json:"external_fragmentation"`

	// Cache figures (zero for allocator-only workloads).
	Accesses         uint64  `json:"accesses"`
	L1HitRatio       float64 `json:"l1_hit_ratio"`
	L2HitRatio       float64 `json:"l2_hit_ratio"`
	CombinedHitRatio float64 `json:"combined_hit_ratio"`

	// WallTime is the actual time taken to run the workload.
	WallTime time.Duration `json:"wall_time_ns"`
}

// Workload defines a single simulator scenario. Run receives a freshly
// initialized pool and hierarchy and drives them through Ops.
type Workload struct {
	// Name identifies the workload.
	Name string

	// Description explains what the workload exercises.
	Description string

	// PoolCapacity sizes the pool; 0 skips pool setup.
	PoolCapacity uint64

	// Strategy is the placement strategy for the pool.
	Strategy alloc.Strategy

	// Cache geometry; a zero L1Size skips cache setup.
	L1Size, L1Block, L2Size, L2Block uint64

	// Run drives the scenario. Either argument may be nil when the
	// corresponding engine is not configured.
	Run func(p *alloc.Pool, h *cache.Hierarchy) (operations uint64)
}

// HarnessConfig configures the workload harness.
type HarnessConfig struct {
	// Output is where to write results (default: os.Stdout).
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{Output: os.Stdout}
}

// Harness runs workloads and reports results.
type Harness struct {
	config    HarnessConfig
	workloads []Workload
}

// NewHarness creates a new workload harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll executes all workloads and returns their results.
func (h *Harness) RunAll() []Result {
	results := make([]Result, 0, len(h.workloads))
	for _, w := range h.workloads {
		results = append(results, h.runWorkload(w))
	}
	return results
}

func (h *Harness) runWorkload(w Workload) Result {
	var pool *alloc.Pool
	if w.PoolCapacity > 0 {
		pool = alloc.NewPool()
		pool.Initialize(w.PoolCapacity)
		pool.SetStrategy(w.Strategy)
	}

	var hierarchy *cache.Hierarchy
	if w.L1Size > 0 {
		hierarchy = cache.NewHierarchy()
		if err := hierarchy.Initialize(
			w.L1Size, w.L1Block, w.L2Size, w.L2Block); err != nil {
			panic(fmt.Sprintf("workload %s: bad cache geometry: %v", w.Name, err))
		}
	}

	start := time.Now()
	operations := w.Run(pool, hierarchy)
	wallTime := time.Since(start)

	result := Result{
		Name:        w.Name,
		Description: w.Description,
		Operations:  operations,
		WallTime:    wallTime,
	}

	if pool != nil {
		stats := pool.Stats()
		report := pool.Analysis()
		result.Attempts = stats.Attempts
		result.Successes = stats.Successes
		result.Failures = stats.Failures
		result.Utilization = report.Utilization
		result.ExternalFragmentation = report.ExternalFragmentation
	}

	if hierarchy != nil {
		result.Accesses = hierarchy.L1().Metrics().Total
		result.L1HitRatio = hierarchy.L1().Metrics().HitRatio()
		result.L2HitRatio = hierarchy.L2().Metrics().HitRatio()
		result.CombinedHitRatio = hierarchy.CombinedHitRatio()
	}

	return result
}

// PrintResults outputs workload results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== MemSim Workload Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Workload: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Operations: %d\n", r.Operations)

		if r.Attempts > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Allocator ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Attempts:               %d\n", r.Attempts)
			_, _ = fmt.Fprintf(h.config.Output, "  Successes:              %d\n", r.Successes)
			_, _ = fmt.Fprintf(h.config.Output, "  Failures:               %d\n", r.Failures)
			_, _ = fmt.Fprintf(h.config.Output, "  Utilization:            %.2f%%\n", r.Utilization)
			_, _ = fmt.Fprintf(h.config.Output, "  External Fragmentation: %.2f%%\n", r.ExternalFragmentation)
		}

		if r.Accesses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Accesses:           %d\n", r.Accesses)
			_, _ = fmt.Fprintf(h.config.Output, "  L1 Hit Ratio:       %.2f%%\n", r.L1HitRatio)
			_, _ = fmt.Fprintf(h.config.Output, "  L2 Hit Ratio:       %.2f%%\n", r.L2HitRatio)
			_, _ = fmt.Fprintf(h.config.Output, "  Combined Hit Ratio: %.2f%%\n", r.CombinedHitRatio)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs workload results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,operations,attempts,successes,failures,utilization,"+
			"external_fragmentation,accesses,l1_hit_ratio,l2_hit_ratio,"+
			"combined_hit_ratio")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output,
			"%s,%d,%d,%d,%d,%.2f,%.2f,%d,%.2f,%.2f,%.2f\n",
			r.Name,
			r.Operations,
			r.Attempts,
			r.Successes,
			r.Failures,
			r.Utilization,
			r.ExternalFragmentation,
			r.Accesses,
			r.L1HitRatio,
			r.L2HitRatio,
			r.CombinedHitRatio,
		)
	}
}
