package procfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIOFile(t *testing.T, root, pid, content string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "io"), []byte(content), 0o644))
}

func TestReadIO(t *testing.T) {
	root := t.TempDir()
	writeIOFile(t, root, "100", "rchar: 123456\nwchar: 654321\nsyscr: 100\nsyscw: 200\nread_bytes: 4096\nwrite_bytes: 8192\n")

	snap := ReadIO(root, "100")
	assert.Equal(t, uint64(123456), snap.Rx)
	assert.Equal(t, uint64(654321), snap.Tx)
}

func TestReadIOMissingPid(t *testing.T) {
	snap := ReadIO(t.TempDir(), "999")
	assert.Zero(t, snap.Rx)
	assert.Zero(t, snap.Tx)
}

func TestReadIOMalformed(t *testing.T) {
	root := t.TempDir()
	writeIOFile(t, root, "100", "rchar: not-a-number\nwchar:\ngarbage line\n")

	snap := ReadIO(root, "100")
	assert.Zero(t, snap.Rx)
	assert.Zero(t, snap.Tx)
}

func TestReadIOPartial(t *testing.T) {
	root := t.TempDir()
	writeIOFile(t, root, "100", "rchar: 42\n")

	snap := ReadIO(root, "100")
	assert.Equal(t, uint64(42), snap.Rx)
	assert.Zero(t, snap.Tx)
}
