package alloc

import "errors"

var (
	// ErrZeroSize is returned when an allocation requests zero bytes.
	ErrZeroSize = errors.New("cannot allocate zero bytes")

	// ErrNoFit is returned when no free segment can hold the request.
	ErrNoFit = errors.New("insufficient space")

	// ErrPIDNotFound is returned when deallocating a process id that owns
	// no segment.
	ErrPIDNotFound = errors.New("process id not found")
)

// Allocation is the result of a successful Allocate call.
type Allocation struct {
	// PID is the freshly issued process id owning the block.
	PID int

	// Address is the base address of the allocated block.
	Address uint64
}

// Report summarizes pool occupancy and fragmentation.
type Report struct {
	Capacity         uint64
	Allocated        uint64
	Free             uint64
	LargestFreeBlock uint64

	// Utilization is the allocated share of capacity, in percent.
	Utilization float64

	// ExternalFragmentation is the share of free space outside the
	// largest free block, in percent.
	ExternalFragmentation float64

	// InternalFragmentation is always 0: splitting produces exact-size
	// allocations.
	InternalFragmentation float64
}

// Pool owns the ordered segment list for one memory pool.
//
// Invariants after every public operation: segments are sorted by ascending
// base address, mutually contiguous, cover [0, capacity) exactly, and no
// two adjacent segments are both free.
type Pool struct {
	capacity uint64
	segments []Segment
	nextPID  int
	strategy Strategy
	stats    Stats
}

// NewPool returns an uninitialized pool. Process ids start at 1 and the
// strategy defaults to first fit.
func NewPool() *Pool {
	return &Pool{nextPID: 1, strategy: FirstFit}
}

// Initialize replaces the pool state with a single free segment spanning
// [0, capacity), resets the process id counter, and clears the statistics.
// A zero capacity yields a degenerate empty pool; rejecting zero is the
// caller's concern.
func (p *Pool) Initialize(capacity uint64) {
	p.capacity = capacity
	p.segments = p.segments[:0]
	if capacity > 0 {
		p.segments = append(p.segments, Segment{
			Base: 0,
			Size: capacity,
			Free: true,
			PID:  -1,
		})
	}
	p.nextPID = 1
	p.stats = Stats{}
}

// Reset returns the pool to the uninitialized state: capacity 0, no
// segments, process ids restarting at 1, cleared statistics, and the
// strategy back to first fit. Reset is idempotent.
func (p *Pool) Reset() {
	p.capacity = 0
	p.segments = nil
	p.nextPID = 1
	p.stats = Stats{}
	p.strategy = FirstFit
}

// SetStrategy selects the placement strategy. It has no effect on the
// segment list.
func (p *Pool) SetStrategy(s Strategy) {
	p.strategy = s
}

// Strategy returns the current placement strategy.
func (p *Pool) Strategy() Strategy {
	return p.strategy
}

// Capacity returns the pool's total size in bytes.
func (p *Pool) Capacity() uint64 {
	return p.capacity
}

// Stats returns the lifetime allocation counters.
func (p *Pool) Stats() Stats {
	return p.stats
}

// Allocate reserves size bytes under the current strategy. Every call
// counts as an attempt. A failed call leaves the segment list unchanged.
func (p *Pool) Allocate(size uint64) (Allocation, error) {
	p.stats.Attempts++

	if size == 0 {
		p.stats.Failures++
		return Allocation{}, ErrZeroSize
	}

	var index int
	switch p.strategy {
	case BestFit:
		index = p.findBestFit(size)
	case WorstFit:
		index = p.findWorstFit(size)
	default:
		index = p.findFirstFit(size)
	}

	if index == -1 {
		p.stats.Failures++
		return Allocation{}, ErrNoFit
	}

	address := p.segments[index].Base
	pid := p.nextPID
	p.nextPID++

	p.split(index, size)
	p.segments[index].Free = false
	p.segments[index].PID = pid

	p.stats.Successes++

	return Allocation{PID: pid, Address: address}, nil
}

// Deallocate releases the block owned by pid and coalesces adjacent free
// segments. Statistics are untouched whether or not the pid exists.
func (p *Pool) Deallocate(pid int) error {
	for i := range p.segments {
		if !p.segments[i].Free && p.segments[i].PID == pid {
			p.segments[i].Free = true
			p.segments[i].PID = -1
			p.coalesce()
			return nil
		}
	}
	return ErrPIDNotFound
}

// Layout returns a copy of the segment list in address order.
func (p *Pool) Layout() []Segment {
	layout := make([]Segment, len(p.segments))
	copy(layout, p.segments)
	return layout
}

// Analysis computes occupancy and fragmentation figures for the current
// layout without mutating it.
func (p *Pool) Analysis() Report {
	r := Report{Capacity: p.capacity}

	for _, seg := range p.segments {
		if seg.Free {
			r.Free += seg.Size
			if seg.Size > r.LargestFreeBlock {
				r.LargestFreeBlock = seg.Size
			}
		} else {
			r.Allocated += seg.Size
		}
	}

	if p.capacity > 0 {
		r.Utilization = 100 * float64(r.Allocated) / float64(p.capacity)
	}
	if r.Free > 0 {
		r.ExternalFragmentation =
			100 * float64(r.Free-r.LargestFreeBlock) / float64(r.Free)
	}

	return r
}

// split shrinks the segment at index to exactly size bytes and inserts the
// remainder as a new free segment immediately after it. A segment already
// of the requested size is left alone.
func (p *Pool) split(index int, size uint64) {
	seg := &p.segments[index]
	if seg.Size <= size {
		return
	}

	remainder := Segment{
		Base: seg.Base + size,
		Size: seg.Size - size,
		Free: true,
		PID:  -1,
	}
	seg.Size = size

	p.segments = append(p.segments, Segment{})
	copy(p.segments[index+2:], p.segments[index+1:])
	p.segments[index+1] = remainder
}

// coalesce merges every adjacent pair of free segments, rechecking the same
// index after each merge so runs of three or more collapse fully.
func (p *Pool) coalesce() {
	for i := 0; i < len(p.segments)-1; i++ {
		if p.segments[i].Free && p.segments[i+1].Free {
			p.segments[i].Size += p.segments[i+1].Size
			p.segments = append(p.segments[:i+1], p.segments[i+2:]...)
			i--
		}
	}
}
