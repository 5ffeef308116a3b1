package database

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPostmasterPID(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "postmaster.pid")

	_, ok := readPostmasterPID(pidFile)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(pidFile, []byte("4242\n/var/lib/pg\n1700000000\n"), 0o600))
	pid, ok := readPostmasterPID(pidFile)
	assert.True(t, ok)
	assert.Equal(t, 4242, pid)

	require.NoError(t, os.WriteFile(pidFile, []byte("garbage\n"), 0o600))
	_, ok = readPostmasterPID(pidFile)
	assert.False(t, ok)
}

func TestWaitPortFree(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	assert.False(t, waitPortFree(port, 0))

	ln.Close()
	assert.True(t, waitPortFree(port, time.Second), "port "+strconv.Itoa(port))
}
