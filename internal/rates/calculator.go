// Package rates converts cumulative per-process I/O counters into
// bytes-per-second throughput between refresh ticks.
package rates

import (
	"time"

	"github.com/jgrady/netmon/internal/netstat"
	"github.com/jgrady/netmon/internal/procfs"
)

// minElapsed is the floor applied to the tick interval so very fast
// successive calls never divide by zero.
const minElapsed = time.Millisecond

// SnapshotMap holds the previous I/O counters keyed by textual pid.
type SnapshotMap map[string]procfs.IOSnapshot

// IOReader reads the current counters for a pid. Swappable in tests.
type IOReader func(root, pid string) procfs.IOSnapshot

// Calculator stamps throughput onto connections from counter deltas.
// The caller supplies the current timestamp on every Update call, which
// keeps the elapsed-time input explicit and testable without a real clock.
type Calculator struct {
	root     string
	readIO   IOReader
	lastTick time.Time
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithRoot overrides the proc filesystem root (default "/proc").
func WithRoot(root string) Option {
	return func(c *Calculator) { c.root = root }
}

// WithIOReader substitutes the counter source.
func WithIOReader(r IOReader) Option {
	return func(c *Calculator) { c.readIO = r }
}

// NewCalculator creates a rate calculator.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		root:   "/proc",
		readIO: procfs.ReadIO,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessIO returns the current cumulative counters for a pid, zero if
// the accounting file is unreadable.
func (c *Calculator) ProcessIO(pid string) procfs.IOSnapshot {
	return c.readIO(c.root, pid)
}

// Update stamps Rx/Tx rates onto each connection with a known pid and
// returns the new snapshot map to use as the baseline for the next call.
//
// Deltas use saturating subtraction: a pid reused by a different process
// between ticks resets its counters, which must yield rate 0 rather than
// an underflowed huge number. Connections seen for the first time get rate 0.
func (c *Calculator) Update(conns []netstat.Connection, prev SnapshotMap, now time.Time) ([]netstat.Connection, SnapshotMap) {
	elapsed := now.Sub(c.lastTick)
	if c.lastTick.IsZero() || elapsed < minElapsed {
		elapsed = minElapsed
	}
	c.lastTick = now
	seconds := elapsed.Seconds()

	current := make(SnapshotMap, len(prev))
	updated := make([]netstat.Connection, 0, len(conns))

	for _, conn := range conns {
		if conn.PID != netstat.Unknown {
			snap, cached := current[conn.PID]
			if !cached {
				snap = c.readIO(c.root, conn.PID)
				current[conn.PID] = snap
			}
			if prevSnap, ok := prev[conn.PID]; ok {
				conn.RxRate = uint64(float64(saturatingSub(snap.Rx, prevSnap.Rx)) / seconds)
				conn.TxRate = uint64(float64(saturatingSub(snap.Tx, prevSnap.Tx)) / seconds)
			}
		}
		updated = append(updated, conn)
	}

	return updated, current
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
