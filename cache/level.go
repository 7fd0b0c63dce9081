package cache

import "errors"

var (
	// ErrZeroBlockSize is returned when a level is configured with a
	// zero-byte block.
	ErrZeroBlockSize = errors.New("block size cannot be zero")

	// ErrTooSmall is returned when the capacity cannot hold even one
	// block.
	ErrTooSmall = errors.New("cache size must be at least one block size")
)

// Block is one cache line: a valid bit plus the tag of the address range it
// currently holds. Blocks are invalid at construction and after an eviction
// or flush.
type Block struct {
	Valid bool
	Tag   uint64
}

// Level is one direct-mapped cache level with FIFO replacement.
//
// The FIFO fill-order queue is shared across the whole level, not kept per
// index. On a conflict miss the victim is whichever index was filled
// earliest anywhere in the level, which is not necessarily the index being
// overwritten, and the queue may hold the same index more than once.
// Changing this changes every downstream hit/miss figure, so it is part of
// the simulator's contract.
type Level struct {
	sizeBytes      uint64
	blockSizeBytes uint64
	numBlocks      uint64

	blocks    []Block
	fillOrder []uint64

	metrics Metrics
}

// NewLevel constructs a level with all blocks invalid and an empty fill
// queue. The block count is the floor of size/blockSize.
func NewLevel(sizeBytes, blockSizeBytes uint64) (*Level, error) {
	if blockSizeBytes == 0 {
		return nil, ErrZeroBlockSize
	}

	numBlocks := sizeBytes / blockSizeBytes
	if numBlocks == 0 {
		return nil, ErrTooSmall
	}

	return &Level{
		sizeBytes:      sizeBytes,
		blockSizeBytes: blockSizeBytes,
		numBlocks:      numBlocks,
		blocks:         make([]Block, numBlocks),
	}, nil
}

// SizeBytes returns the level's capacity in bytes.
func (l *Level) SizeBytes() uint64 {
	return l.sizeBytes
}

// BlockSizeBytes returns the line size in bytes.
func (l *Level) BlockSizeBytes() uint64 {
	return l.blockSizeBytes
}

// NumBlocks returns the number of lines in the level.
func (l *Level) NumBlocks() uint64 {
	return l.numBlocks
}

// Metrics returns the level's access counters.
func (l *Level) Metrics() Metrics {
	return l.metrics
}

// ValidBlocks counts the lines currently holding data.
func (l *Level) ValidBlocks() uint64 {
	var n uint64
	for _, b := range l.blocks {
		if b.Valid {
			n++
		}
	}
	return n
}

// blockIndex selects the direct-mapped slot for an address.
func (l *Level) blockIndex(addr uint64) uint64 {
	return (addr / l.blockSizeBytes) % l.numBlocks
}

// tag extracts the tag bits disambiguating which address range occupies a
// slot.
func (l *Level) tag(addr uint64) uint64 {
	return addr / (l.blockSizeBytes * l.numBlocks)
}

// Access probes the level for an address. A hit mutates nothing beyond the
// counters. A miss fills the colliding slot, first evicting the block at
// the front of the level-wide FIFO queue when the slot was already valid.
// It returns true on a hit.
func (l *Level) Access(addr uint64) bool {
	index := l.blockIndex(addr)
	tag := l.tag(addr)

	if l.blocks[index].Valid && l.blocks[index].Tag == tag {
		l.metrics.recordHit()
		return true
	}

	l.metrics.recordMiss()

	if l.blocks[index].Valid {
		l.evictOldest()
	}

	l.blocks[index] = Block{Valid: true, Tag: tag}
	l.fillOrder = append(l.fillOrder, index)

	return false
}

// evictOldest invalidates the earliest-filled block in the level.
func (l *Level) evictOldest() {
	if len(l.fillOrder) == 0 {
		return
	}
	oldest := l.fillOrder[0]
	l.fillOrder = l.fillOrder[1:]
	l.blocks[oldest].Valid = false
}

// Flush invalidates every block and clears the fill queue. Metrics are
// kept; only reconstruction resets them. Flush is idempotent.
func (l *Level) Flush() {
	for i := range l.blocks {
		l.blocks[i] = Block{}
	}
	l.fillOrder = l.fillOrder[:0]
}
