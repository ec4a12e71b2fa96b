package procfs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IOSnapshot holds cumulative byte counters for one pid at one point in time.
// Counters are monotonically non-decreasing unless the pid was reused by a
// new process, which resets them.
type IOSnapshot struct {
	Rx uint64 // rchar: total bytes read through the read syscalls
	Tx uint64 // wchar: total bytes written through the write syscalls
}

// ReadIO reads the rchar/wchar counters from /proc/<pid>/io under root.
// Unreadable accounting (missing pid, permission denied) yields a zero snapshot.
func ReadIO(root, pid string) IOSnapshot {
	var snap IOSnapshot
	data, err := os.ReadFile(filepath.Join(root, pid, "io"))
	if err != nil {
		return snap
	}

	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(line, "rchar:"); ok {
			snap.Rx = parseCounter(v)
		} else if v, ok := strings.CutPrefix(line, "wchar:"); ok {
			snap.Tx = parseCounter(v)
		}
	}
	return snap
}

func parseCounter(s string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
