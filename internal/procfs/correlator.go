// Package procfs attributes kernel socket inodes to owning processes and
// reads per-process I/O accounting, using only /proc pseudo-files.
package procfs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jgrady/netmon/internal/logger"
	"github.com/jgrady/netmon/internal/netstat"
)

// DefaultUpdateInterval is how long the inode/process cache stays authoritative.
const DefaultUpdateInterval = 5 * time.Second

// ProcessInfo is one cached process identity.
type ProcessInfo struct {
	Name     string
	Command  string
	LastSeen time.Time
}

// Correlator maps socket inodes to owning processes with a time-boxed cache.
// A cache miss falls back to a direct scan so an inode never fails to resolve
// just because it appeared between rebuilds.
type Correlator struct {
	root           string
	updateInterval time.Duration
	log            logger.Logger

	mu           sync.Mutex
	inodeToPID   map[uint64]string
	pidToProcess map[string]ProcessInfo
	lastUpdate   time.Time
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithRoot overrides the proc filesystem root (default "/proc").
func WithRoot(root string) Option {
	return func(c *Correlator) { c.root = root }
}

// WithUpdateInterval overrides the cache rebuild interval.
func WithUpdateInterval(d time.Duration) Option {
	return func(c *Correlator) { c.updateInterval = d }
}

// WithLogger sets the logger used for systemic scan failures.
func WithLogger(log logger.Logger) Option {
	return func(c *Correlator) { c.log = log }
}

// NewCorrelator creates an inode-to-process correlator.
func NewCorrelator(opts ...Option) *Correlator {
	c := &Correlator{
		root:           "/proc",
		updateInterval: DefaultUpdateInterval,
		log:            logger.Default(),
		inodeToPID:     make(map[uint64]string),
		pidToProcess:   make(map[string]ProcessInfo),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessInfo resolves a socket inode to (program, pid, command).
// It always returns a value; anything unknown is "N/A". Implements
// netstat.ProcessLookup.
func (c *Correlator) ProcessInfo(inode uint64) (string, string, string) {
	if inode == 0 {
		return netstat.Unknown, netstat.Unknown, netstat.Unknown
	}

	c.mu.Lock()
	if time.Since(c.lastUpdate) > c.updateInterval {
		c.rebuildLocked()
	}
	pid, ok := c.inodeToPID[inode]
	var info ProcessInfo
	if ok {
		info, ok = c.pidToProcess[pid]
	}
	c.mu.Unlock()

	if ok {
		return info.Name, pid, info.Command
	}

	// Miss: the socket was created after the last rebuild. A direct scan
	// limited to this one inode keeps correctness independent of timing.
	return c.lookupDirect(inode)
}

// Clear drops both maps. The next lookup triggers a rebuild.
func (c *Correlator) Clear() {
	c.mu.Lock()
	c.inodeToPID = make(map[uint64]string)
	c.pidToProcess = make(map[string]ProcessInfo)
	c.lastUpdate = time.Time{}
	c.mu.Unlock()
}

// rebuildLocked rescans the process table and swaps both maps wholesale, so
// concurrent readers never observe a half-built cache. Caller holds c.mu.
func (c *Correlator) rebuildLocked() {
	newInodeToPID := make(map[uint64]string)
	newPIDToProcess := make(map[string]ProcessInfo)

	entries, err := os.ReadDir(c.root)
	if err != nil {
		// Systemic failure: degrade to empty maps, retry next interval.
		c.log.Warn("cannot enumerate %s: %v", c.root, err)
		c.inodeToPID = newInodeToPID
		c.pidToProcess = newPIDToProcess
		c.lastUpdate = time.Now()
		return
	}

	now := time.Now()
	for _, entry := range entries {
		pid := entry.Name()
		if !isNumeric(pid) {
			continue
		}
		name := c.processName(pid)
		if name == "" || name == netstat.Unknown {
			continue
		}
		newPIDToProcess[pid] = ProcessInfo{
			Name:     name,
			Command:  c.processCommand(pid),
			LastSeen: now,
		}
		for _, inode := range c.socketInodes(pid) {
			newInodeToPID[inode] = pid
		}
	}

	c.inodeToPID = newInodeToPID
	c.pidToProcess = newPIDToProcess
	c.lastUpdate = now
}

// lookupDirect walks the process table answering a single inode.
func (c *Correlator) lookupDirect(inode uint64) (string, string, string) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return netstat.Unknown, netstat.Unknown, netstat.Unknown
	}

	for _, entry := range entries {
		pid := entry.Name()
		if !isNumeric(pid) {
			continue
		}
		for _, candidate := range c.socketInodes(pid) {
			if candidate == inode {
				return c.processName(pid), pid, c.processCommand(pid)
			}
		}
	}
	return netstat.Unknown, netstat.Unknown, netstat.Unknown
}

// processName reads the Name: line of /proc/<pid>/status.
func (c *Correlator) processName(pid string) string {
	data, err := os.ReadFile(filepath.Join(c.root, pid, "status"))
	if err != nil {
		return netstat.Unknown
	}
	for _, line := range strings.Split(string(data), "\n") {
		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			return strings.TrimSpace(name)
		}
	}
	return netstat.Unknown
}

// processCommand reads /proc/<pid>/cmdline, replacing NUL separators with
// spaces. Kernel threads have an empty cmdline and render as "[pid]".
func (c *Correlator) processCommand(pid string) string {
	data, err := os.ReadFile(filepath.Join(c.root, pid, "cmdline"))
	if err != nil {
		return netstat.Unknown
	}
	if len(data) == 0 {
		return "[" + pid + "]"
	}
	cmd := strings.ReplaceAll(string(data), "\x00", " ")
	return strings.TrimSpace(cmd)
}

// socketInodes enumerates /proc/<pid>/fd symlinks resolving to socket
// references. Descriptors owned by other users are unreadable and skipped.
func (c *Correlator) socketInodes(pid string) []uint64 {
	fdDir := filepath.Join(c.root, pid, "fd")
	entries, err := os.ReadDir(fdDir)
	if err != nil {
		return nil
	}

	var inodes []uint64
	for _, entry := range entries {
		target, err := os.Readlink(filepath.Join(fdDir, entry.Name()))
		if err != nil {
			continue
		}
		rest, ok := strings.CutPrefix(target, "socket:[")
		if !ok || !strings.HasSuffix(rest, "]") {
			continue
		}
		inode, err := strconv.ParseUint(rest[:len(rest)-1], 10, 64)
		if err != nil {
			continue
		}
		inodes = append(inodes, inode)
	}
	return inodes
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
