//go:build !windows

package testutil

import (
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

// UnixListener stands in for a database listening on a unix socket. Every client is sent a
// line no wire protocol accepts and then hung up on, so a connect attempt fails after dialing.
type UnixListener struct {
	Dir      string
	Path     string
	listener net.Listener
	accepted atomic.Int32
}

// ListenUnix listens on name inside a fresh temporary directory until the test ends.
// The directory is kept short: socket paths are limited to about 100 bytes.
func ListenUnix(t *testing.T, name string) *UnixListener {
	t.Helper()

	dir, err := os.MkdirTemp("", "dwhdef")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, name)
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { listener.Close() })

	l := &UnixListener{Dir: dir, Path: path, listener: listener}
	go l.serve()
	return l
}

// Accepted returns how many clients dialed the socket.
func (l *UnixListener) Accepted() int {
	return int(l.accepted.Load())
}

func (l *UnixListener) serve() {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			return
		}
		l.accepted.Add(1)
		conn.Write([]byte("not a database\n"))
		conn.Close()
	}
}
