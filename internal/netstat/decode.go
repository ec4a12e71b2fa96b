package netstat

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/jgrady/netmon/internal/errors"
)

// TCP socket states as encoded in /proc/net/tcp field 3.
// 01=ESTABLISHED ... 0C=NEW_SYN_RECV; anything else is reported numerically.
var tcpStates = map[uint8]string{
	0x01: "ESTABLISHED",
	0x02: "SYN_SENT",
	0x03: "SYN_RECV",
	0x04: "FIN_WAIT1",
	0x05: "FIN_WAIT2",
	0x06: "TIME_WAIT",
	0x07: "CLOSE",
	0x08: "CLOSE_WAIT",
	0x09: "LAST_ACK",
	0x0A: "LISTEN",
	0x0B: "CLOSING",
	0x0C: "NEW_SYN_RECV",
}

// TCPState decodes a hex state byte from a socket table line.
// Unknown byte values yield "UNKNOWN(<decimal>)"; unparsable input yields "UNKNOWN".
func TCPState(stateHex string) string {
	v, err := strconv.ParseUint(stateHex, 16, 8)
	if err != nil {
		return "UNKNOWN"
	}
	if name, ok := tcpStates[uint8(v)]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", v)
}

// SplitHexAddr splits a socket table address field ("ip_hex:port_hex") into
// its two components. The field must contain exactly one colon.
func SplitHexAddr(addr string) (ipHex, portHex string, err error) {
	parts := strings.Split(addr, ":")
	if len(parts) != 2 {
		return "", "", errors.Newf(errors.ErrParse, "invalid socket address format: %q", addr)
	}
	return parts[0], parts[1], nil
}

// ParsePortHex decodes a 16-bit port from its hex representation.
func ParsePortHex(portHex string) (uint16, error) {
	v, err := strconv.ParseUint(portHex, 16, 16)
	if err != nil {
		return 0, errors.Newf(errors.ErrParse, "invalid port hex %q", portHex)
	}
	return uint16(v), nil
}

// ParseIPv4Hex decodes an 8-hex-digit IPv4 address. The kernel writes these
// in little-endian 32-bit word order, so byte i of the address comes from the
// hex pair at position 3-i, not left-to-right.
func ParseIPv4Hex(ipHex string) (net.IP, error) {
	if len(ipHex) != 8 {
		return nil, errors.Newf(errors.ErrParse, "invalid IPv4 hex length: %d (expected 8)", len(ipHex))
	}
	var b [4]byte
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseUint(ipHex[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, errors.Newf(errors.ErrParse, "invalid IPv4 hex byte %q", ipHex[i*2:i*2+2])
		}
		b[3-i] = byte(v)
	}
	return net.IPv4(b[0], b[1], b[2], b[3]).To4(), nil
}

// EncodeIPv4Hex is the inverse of ParseIPv4Hex, producing the kernel's
// little-endian hex encoding for a 4-byte address.
func EncodeIPv4Hex(ip net.IP) string {
	v4 := ip.To4()
	if v4 == nil {
		return ""
	}
	return fmt.Sprintf("%02X%02X%02X%02X", v4[3], v4[2], v4[1], v4[0])
}

// ParseIPv6Hex decodes a 32-hex-digit IPv6 address, hex pairs taken in direct
// left-to-right order into the 16 address bytes.
func ParseIPv6Hex(ipHex string) (net.IP, error) {
	if len(ipHex) != 32 {
		return nil, errors.Newf(errors.ErrParse, "invalid IPv6 hex length: %d (expected 32)", len(ipHex))
	}
	b := make(net.IP, net.IPv6len)
	for i := 0; i < 16; i++ {
		v, err := strconv.ParseUint(ipHex[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, errors.Newf(errors.ErrParse, "invalid IPv6 hex byte %q", ipHex[i*2:i*2+2])
		}
		b[i] = byte(v)
	}
	return b, nil
}

// DecodeAddr converts a socket table address field into display form
// ("ip:port", with IPv6 addresses bracketed). Port 0 means "any port" and
// displays as "*", which is what the address classifier matches on.
func DecodeAddr(addr string) (string, error) {
	ipHex, portHex, err := SplitHexAddr(addr)
	if err != nil {
		return "", err
	}
	port, err := ParsePortHex(portHex)
	if err != nil {
		return "", err
	}

	var ip net.IP
	switch len(ipHex) {
	case 8:
		ip, err = ParseIPv4Hex(ipHex)
	case 32:
		ip, err = ParseIPv6Hex(ipHex)
	default:
		return "", errors.Newf(errors.ErrParse, "invalid IP hex length: %d", len(ipHex))
	}
	if err != nil {
		return "", err
	}

	portStr := "*"
	if port != 0 {
		portStr = strconv.Itoa(int(port))
	}
	if len(ipHex) == 32 {
		return fmt.Sprintf("[%s]:%s", ip.String(), portStr), nil
	}
	return ip.String() + ":" + portStr, nil
}
