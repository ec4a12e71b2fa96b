package resolve

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/jgrady/netmon/internal/errors"
)

// Lookuper performs a reverse lookup of a bare IP to a hostname.
// Implementations must be safe for concurrent use.
type Lookuper interface {
	ReverseLookup(ctx context.Context, ip string) (string, error)
}

// DefaultLookupTimeout bounds a single reverse-lookup subprocess call.
const DefaultLookupTimeout = 5 * time.Second

// HostCommand resolves IPs by shelling out to the `host` utility and
// scanning its output for a pointer or alias record.
type HostCommand struct {
	Timeout time.Duration
}

// ReverseLookup runs `host <ip>` and extracts the hostname from a
// "domain name pointer" or "is an alias for" line, with the trailing
// root-domain dot trimmed. A missing binary, non-zero exit, or output
// without either line all count as resolution failure.
func (h HostCommand) ReverseLookup(ctx context.Context, ip string) (string, error) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "host", ip).Output()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrResolve,
			"host command failed for "+ip,
			"Check that the 'host' utility (bind-utils) is installed")
	}

	if name := parseHostOutput(string(out)); name != "" {
		return name, nil
	}
	return "", errors.Newf(errors.ErrResolve, "no pointer record for %s", ip)
}

// parseHostOutput extracts a hostname from `host` output. Returns "" when
// no pointer or alias line is present.
func parseHostOutput(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if strings.Contains(line, "domain name pointer") {
			if name := tokenAfter(fields, "pointer"); name != "" {
				return strings.TrimSuffix(name, ".")
			}
		}
		if strings.Contains(line, "is an alias for") {
			if name := tokenAfter(fields, "for"); name != "" {
				return strings.TrimSuffix(name, ".")
			}
		}
	}
	return ""
}

func tokenAfter(fields []string, marker string) string {
	for i, f := range fields {
		if f == marker && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}
