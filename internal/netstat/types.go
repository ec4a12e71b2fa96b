package netstat

// Unknown is the placeholder for process fields that could not be attributed.
const Unknown = "N/A"

// Connection is one observed socket, enriched with process identity and
// throughput. A fresh set is produced every refresh cycle and never mutated
// after being handed to a consumer.
type Connection struct {
	Protocol string // tcp, tcp6, udp, udp6
	State    string // textual TCP state, empty for UDP
	Local    string // "ip:port"
	Remote   string // "ip:port"
	Program  string // process display name, "N/A" if unknown
	PID      string // decimal pid as text, "N/A" if unknown
	Command  string // full command line, "N/A" if unknown
	RxRate   uint64 // bytes/sec
	TxRate   uint64 // bytes/sec
}

// IsActive reports whether the connection moved any bytes since the last tick.
func (c Connection) IsActive() bool {
	return c.RxRate > 0 || c.TxRate > 0
}

// ProcessDisplay returns "program(pid)" when the pid is known, otherwise
// just the program name.
func (c Connection) ProcessDisplay() string {
	if c.PID != Unknown {
		return c.Program + "(" + c.PID + ")"
	}
	return c.Program
}

// ProcessLookup resolves a socket inode to its owning process. Implementations
// must always return a value, using "N/A" for anything unknown.
type ProcessLookup interface {
	ProcessInfo(inode uint64) (program, pid, command string)
}
