// Package session ties one memory pool and one cache hierarchy to a text
// command surface. A Session exclusively owns its simulator state; command
// handlers receive it explicitly rather than reaching for globals.
package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sarchlab/memsim/alloc"
	"github.com/sarchlab/memsim/cache"
	"github.com/sarchlab/memsim/config"
	"github.com/sarchlab/memsim/trace"
)

// Session owns the simulator state for one interactive or scripted run.
type Session struct {
	// mu serializes command execution against monitoring snapshots. The
	// simulator itself is synchronous; the lock only exists because the
	// optional stats server reads from another goroutine.
	mu sync.Mutex

	pool     *alloc.Pool
	caches   *cache.Hierarchy
	recorder *trace.Recorder
	out      io.Writer
	running  bool
}

// Option configures a Session.
type Option func(*Session)

// WithOutput redirects the session's rendered output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithRecorder attaches an event recorder. A nil recorder disables
// recording.
func WithRecorder(r *trace.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// New creates a session with an uninitialized pool and hierarchy.
func New(opts ...Option) *Session {
	s := &Session{
		pool:    alloc.NewPool(),
		caches:  cache.NewHierarchy(),
		out:     os.Stdout,
		running: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyConfig initializes the pool and hierarchy from a geometry config,
// reporting each step the way the equivalent commands would.
func (s *Session) ApplyConfig(c *config.SimConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}

	strategy, err := c.Strategy()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool.Initialize(c.PoolCapacity)
	fmt.Fprintf(s.out, "Memory pool initialized: %d bytes\n", c.PoolCapacity)

	s.pool.SetStrategy(strategy)
	fmt.Fprintf(s.out, "Allocation strategy set to: %s\n", strategy)

	if err := s.caches.Initialize(
		c.L1Size, c.L1BlockSize, c.L2Size, c.L2BlockSize); err != nil {
		return err
	}
	s.writeCacheGeometry()
	fmt.Fprintln(s.out, "Cache hierarchy successfully initialized")

	return nil
}

// Run drives an interactive loop over the reader: welcome banner, prompt,
// one command per line, until quit or EOF.
func (s *Session) Run(in io.Reader) {
	s.writeWelcome()
	s.running = true

	scanner := bufio.NewScanner(in)
	for s.running {
		fmt.Fprint(s.out, "memsim> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		s.Execute(line)
	}
}

// RunScript executes every line of the reader without prompting. Blank
// lines and lines starting with # are skipped.
func (s *Session) RunScript(in io.Reader) error {
	s.running = true

	scanner := bufio.NewScanner(in)
	for s.running && scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		s.Execute(line)
	}
	return scanner.Err()
}

// Flush forces any recorded events to disk.
func (s *Session) Flush() {
	s.recorder.Flush()
}

func (s *Session) writeWelcome() {
	fmt.Fprintln(s.out, "===========================================")
	fmt.Fprintln(s.out, "  Physical Memory Management Simulator")
	fmt.Fprintln(s.out, "===========================================")
	fmt.Fprintln(s.out, "Type 'help' to see available commands")
	fmt.Fprintln(s.out, "Type 'exit' to quit the simulator")
	fmt.Fprintln(s.out)
}
