package netstat

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jgrady/netmon/internal/errors"
	"github.com/jgrady/netmon/internal/logger"
)

// socketTables are the kernel socket tables read on each refresh, relative
// to the proc root.
var socketTables = []string{"tcp", "tcp6", "udp", "udp6"}

// Reader decodes kernel socket tables into Connection records.
// Malformed lines are skipped, never surfaced; a missing table contributes
// nothing to the result.
type Reader struct {
	root   string
	lookup ProcessLookup
	log    logger.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithRoot overrides the proc filesystem root (default "/proc").
// Useful for tests and containerized hosts mounting the host proc elsewhere.
func WithRoot(root string) Option {
	return func(r *Reader) { r.root = root }
}

// WithLogger sets the logger used for systemic read failures.
func WithLogger(log logger.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// NewReader creates a socket table reader. The lookup resolves socket inodes
// to owning processes; it may be nil, in which case all process fields are "N/A".
func NewReader(lookup ProcessLookup, opts ...Option) *Reader {
	r := &Reader{
		root:   "/proc",
		lookup: lookup,
		log:    logger.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connections reads all four socket tables and returns the decoded records.
// Each table that fails to read degrades to an empty contribution; an error
// is returned only when every table failed, which means the proc root
// itself is gone or unreadable.
func (r *Reader) Connections() ([]Connection, error) {
	var conns []Connection
	failed := 0
	var lastErr error
	for _, table := range socketTables {
		rows, err := r.readTable(table)
		if err != nil {
			r.log.Debug("skipping %s: %v", table, err)
			failed++
			lastErr = err
			continue
		}
		conns = append(conns, rows...)
	}
	if failed == len(socketTables) {
		return nil, errors.WrapWithCode(lastErr, errors.ErrProc,
			"no socket tables readable under "+r.root,
			"Check that "+r.root+" is a mounted proc filesystem")
	}
	return conns, nil
}

// readTable parses one socket table pseudo-file, skipping the header line
// and any line that cannot be decoded.
func (r *Reader) readTable(table string) ([]Connection, error) {
	f, err := os.Open(filepath.Join(r.root, "net", table))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var conns []Connection
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first {
			first = false // header
			continue
		}
		if conn, ok := r.parseLine(scanner.Text(), table); ok {
			conns = append(conns, conn)
		}
	}
	if err := scanner.Err(); err != nil {
		return conns, err
	}
	return conns, nil
}

// parseLine decodes one socket table line. Field layout after whitespace
// splitting: 1=local addr, 2=remote addr, 3=state byte, 9=inode.
func (r *Reader) parseLine(line, table string) (Connection, bool) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return Connection{}, false
	}

	local, err := DecodeAddr(fields[1])
	if err != nil {
		return Connection{}, false
	}
	remote, err := DecodeAddr(fields[2])
	if err != nil {
		return Connection{}, false
	}

	// The state byte is decoded for UDP lines too, but UDP rows display no
	// state: the kernel value there (usually CLOSE) carries no meaning.
	state := TCPState(fields[3])
	if strings.HasPrefix(table, "udp") {
		state = ""
	}

	conn := Connection{
		Protocol: table,
		State:    state,
		Local:    local,
		Remote:   remote,
		Program:  Unknown,
		PID:      Unknown,
		Command:  Unknown,
	}

	inode, err := strconv.ParseUint(fields[9], 10, 64)
	if err == nil && inode > 0 && r.lookup != nil {
		conn.Program, conn.PID, conn.Command = r.lookup.ProcessInfo(inode)
	}
	return conn, true
}
