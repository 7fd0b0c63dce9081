// Package trace records simulator events into a SQLite database through
// Akita's data recording backend, one table per event kind. Recording is
// optional; a nil Recorder is safe to call.
package trace

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/datarecording"
)

// AllocationEvent is one row of the allocations table. Op is "alloc" or
// "free"; Address and Size are zero for free operations and PID is -1 when
// an alloc fails.
type AllocationEvent struct {
	Seq     int
	Op      string
	Size    uint64
	PID     int
	Address uint64
	OK      bool
}

// CacheAccessEvent is one row of the cache_accesses table. Result is the
// rendered access outcome ("L1 hit", "L2 hit", "miss").
type CacheAccessEvent struct {
	Seq     int
	Address uint64
	Result  string
}

const (
	allocTable  = "allocations"
	accessTable = "cache_accesses"
)

// Recorder writes simulator events into per-run SQLite tables. Each table
// gets its own backend writer so a run that never touches one event kind
// still flushes cleanly.
type Recorder struct {
	allocs   datarecording.DataRecorder
	accesses datarecording.DataRecorder
	seq      int
}

// NewRecorder creates a recorder writing to <name>.sqlite3 in the working
// directory. An empty name picks a unique run id.
func NewRecorder(name string) (*Recorder, error) {
	if name == "" {
		name = "memsim_" + xid.New().String()
	}
	filename := name + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording database: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Recording events to %s\n", filename)

	return NewRecorderWithDB(db), nil
}

// NewRecorderWithDB creates a recorder over an existing database handle.
func NewRecorderWithDB(db *sql.DB) *Recorder {
	// akita's recorder registers run metadata tables on creation, so only
	// one recorder may be attached to a database handle.
	rec := datarecording.NewDataRecorderWithDB(db)
	r := &Recorder{
		allocs:   rec,
		accesses: rec,
	}
	r.allocs.CreateTable(allocTable, AllocationEvent{})
	r.accesses.CreateTable(accessTable, CacheAccessEvent{})

	return r
}

// RecordAllocation appends an allocation attempt.
func (r *Recorder) RecordAllocation(size uint64, pid int, address uint64, ok bool) {
	if r == nil {
		return
	}
	r.seq++
	r.allocs.InsertData(allocTable, AllocationEvent{
		Seq:     r.seq,
		Op:      "alloc",
		Size:    size,
		PID:     pid,
		Address: address,
		OK:      ok,
	})
}

// RecordFree appends a deallocation attempt.
func (r *Recorder) RecordFree(pid int, ok bool) {
	if r == nil {
		return
	}
	r.seq++
	r.allocs.InsertData(allocTable, AllocationEvent{
		Seq: r.seq,
		Op:  "free",
		PID: pid,
		OK:  ok,
	})
}

// RecordAccess appends a cache hierarchy access.
func (r *Recorder) RecordAccess(address uint64, result string) {
	if r == nil {
		return
	}
	r.seq++
	r.accesses.InsertData(accessTable, CacheAccessEvent{
		Seq:     r.seq,
		Address: address,
		Result:  result,
	})
}

// Flush forces buffered rows into the database.
func (r *Recorder) Flush() {
	if r == nil {
		return
	}
	r.allocs.Flush()
	r.accesses.Flush()
}
