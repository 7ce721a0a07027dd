//go:build linux

package netpoll

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"loomhttp/internal/ioerr"
)

// Conn wraps a non-blocking connected socket fd, implementing the
// parse.Reader / bufwriter.Writer interfaces directly over raw reads and
// writes so the connection layer never goes through Go's blocking-looking
// net.Conn and its hidden runtime netpoller.
type Conn struct {
	fd   int
	addr string
}

// NewConn wraps fd (already accepted and set non-blocking) as a Conn.
func NewConn(fd int, addr string) *Conn {
	return &Conn{fd: fd, addr: addr}
}

// Addr returns the peer address captured at accept time.
func (c *Conn) Addr() string { return c.addr }

// FD returns the underlying file descriptor, for poller registration.
func (c *Conn) FD() int { return c.fd }

// Read implements a non-blocking read, translating EAGAIN/EWOULDBLOCK into
// ioerr.ErrWouldBlock and a zero-byte read into io.EOF.
func (c *Conn) Read(p []byte) (int, error) {
	n, err := unix.Read(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN {
			return 0, ioerr.ErrWouldBlock
		}
		if err == unix.ECONNRESET {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("netpoll: read: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write implements a non-blocking write, translating EAGAIN/EWOULDBLOCK
// into ioerr.ErrWouldBlock.
func (c *Conn) Write(p []byte) (int, error) {
	n, err := unix.Write(c.fd, p)
	if err != nil {
		if err == unix.EAGAIN {
			return n, ioerr.ErrWouldBlock
		}
		if err == unix.EPIPE || err == unix.ECONNRESET {
			return n, io.ErrClosedPipe
		}
		return n, fmt.Errorf("netpoll: write: %w", err)
	}
	return n, nil
}

// Close closes the underlying file descriptor.
func (c *Conn) Close() error {
	return unix.Close(c.fd)
}
