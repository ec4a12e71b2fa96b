package netstat

import (
	"fmt"
	"net"
	"testing"

	"github.com/jgrady/netmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPv4Hex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"loopback", "0100007F", "127.0.0.1", false},
		{"any", "00000000", "0.0.0.0", false},
		{"private", "0101A8C0", "192.168.1.1", false},
		{"broadcast", "FFFFFFFF", "255.255.255.255", false},
		{"too short", "0100", "", true},
		{"too long", "0100007F00", "", true},
		{"bad hex", "ZZ00007F", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, err := ParseIPv4Hex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ip.String())
		})
	}
}

func TestParseIPv4Hex_RoundTrip(t *testing.T) {
	// encode(decode(x)) == x for valid 8-hex-digit inputs
	inputs := []string{"0100007F", "00000000", "0101A8C0", "FB00A8C0", "08080808"}
	for _, in := range inputs {
		ip, err := ParseIPv4Hex(in)
		require.NoError(t, err)
		assert.Equal(t, in, EncodeIPv4Hex(ip), "round-trip of %s", in)
	}
}

func TestEncodeIPv4Hex_NonV4(t *testing.T) {
	assert.Empty(t, EncodeIPv4Hex(net.ParseIP("::1")))
}

func TestParseIPv6Hex(t *testing.T) {
	t.Run("loopback", func(t *testing.T) {
		ip, err := ParseIPv6Hex("00000000000000000000000000000001")
		require.NoError(t, err)
		assert.Equal(t, "::1", ip.String())
	})

	t.Run("direct byte order", func(t *testing.T) {
		ip, err := ParseIPv6Hex("20010DB8000000000000000000000001")
		require.NoError(t, err)
		assert.Equal(t, "2001:db8::1", ip.String())
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := ParseIPv6Hex("0001")
		require.Error(t, err)
	})

	t.Run("bad hex", func(t *testing.T) {
		_, err := ParseIPv6Hex("ZZ010DB8000000000000000000000001")
		require.Error(t, err)
	})
}

func TestParsePortHex(t *testing.T) {
	port, err := ParsePortHex("1234")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), port)
	assert.Equal(t, uint16(4660), port)

	port, err = ParsePortHex("0050")
	require.NoError(t, err)
	assert.Equal(t, uint16(80), port)

	_, err = ParsePortHex("ZZZZ")
	require.Error(t, err)
}

func TestTCPState(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"01", "ESTABLISHED"},
		{"02", "SYN_SENT"},
		{"03", "SYN_RECV"},
		{"04", "FIN_WAIT1"},
		{"05", "FIN_WAIT2"},
		{"06", "TIME_WAIT"},
		{"07", "CLOSE"},
		{"08", "CLOSE_WAIT"},
		{"09", "LAST_ACK"},
		{"0A", "LISTEN"},
		{"0B", "CLOSING"},
		{"0C", "NEW_SYN_RECV"},
		{"FF", "UNKNOWN(255)"},
		{"0D", "UNKNOWN(13)"},
		{"ZZ", "UNKNOWN"},
		{"", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("state %q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.want, TCPState(tt.input))
		})
	}
}

func TestSplitHexAddr(t *testing.T) {
	ipHex, portHex, err := SplitHexAddr("0100007F:1234")
	require.NoError(t, err)
	assert.Equal(t, "0100007F", ipHex)
	assert.Equal(t, "1234", portHex)

	_, _, err = SplitHexAddr("noseparator")
	require.Error(t, err)

	// IPv6 table addresses still contain exactly one colon
	_, _, err = SplitHexAddr("a:b:c")
	require.Error(t, err)
}

func TestDecodeAddr(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"ipv4 loopback http", "0100007F:0050", "127.0.0.1:80", false},
		{"ipv4 wildcard", "00000000:0000", "0.0.0.0:*", false},
		{"ipv6 wildcard", "00000000000000000000000000000000:0000", "[::]:*", false},
		{"ipv6 loopback", "00000000000000000000000000000001:1F90", "[::1]:8080", false},
		{"bad shape", "0100007F", "", true},
		{"bad ip length", "0100:0050", "", true},
		{"bad port", "0100007F:ZZZZ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAddr(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
