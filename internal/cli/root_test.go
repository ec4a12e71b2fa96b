package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tcpHeader = "  sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode"

// procFixture builds a proc root with one listening socket.
func procFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "net"), 0o755))
	table := tcpHeader + "\n" +
		"   0: 0100007F:0050 00000000:0000 0A 00000000:00000000 00:00000000 00000000  1000        0 0 1 0000000000000000 100 0 0 10 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "net", "tcp"), []byte(table), 0o644))
	return root
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		procRootFlag = ""
		configFlag = ""
		listSampleFlag = ""
		listResolveFlag = false
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"watch", "list", "init", "version", "completion"} {
		assert.True(t, names[want], "command %q must be registered", want)
	}
}

func TestListCommandPrintsTable(t *testing.T) {
	root := procFixture(t)

	out, err := runCommand(t, "list", "--proc-root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "PROTO")
	assert.Contains(t, out, "127.0.0.1:80")
	assert.Contains(t, out, "LISTEN")
}

func TestListCommandRejectsBadSample(t *testing.T) {
	root := procFixture(t)

	_, err := runCommand(t, "list", "--proc-root", root, "--sample", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--sample")
}

func TestCompletionGeneratesScript(t *testing.T) {
	// GenBashCompletion writes to os.Stdout directly; just verify the
	// argument validation wiring here.
	_, err := runCommand(t, "completion", "elvish")
	assert.Error(t, err, "unsupported shells are rejected")
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "", formatVersion(""))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}

func TestSetVersionInfo(t *testing.T) {
	defer SetVersionInfo("dev", "none", "unknown")

	SetVersionInfo("9.9.9", "abc", "today")
	assert.Equal(t, "9.9.9", GetVersion())
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, validateInterval("1s"))
	assert.NoError(t, validateInterval(" 500ms "))
	assert.Error(t, validateInterval("fast"))
	assert.Error(t, validateInterval("1ms"), "below the configured floor")
}

func TestValidateWorkers(t *testing.T) {
	assert.NoError(t, validateWorkers("4"))
	assert.Error(t, validateWorkers("0"))
	assert.Error(t, validateWorkers("banana"))
	assert.Error(t, validateWorkers("9999"))
}
