//go:build linux

package netpoll

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"loomhttp/internal/ioerr"
)

// Listener is a non-blocking TCP listening socket, accepted from
// directly via raw syscalls so it can be driven from the epoll loop
// without going through Go's runtime netpoller.
type Listener struct {
	fd int
}

// Listen binds and listens on addr ("host:port"), returning a non-blocking
// Listener.
func Listen(addr string) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("netpoll: invalid addr %q: %w", addr, err)
	}

	domain := unix.AF_INET
	if tcpAddr.IP != nil && tcpAddr.IP.To4() == nil {
		domain = unix.AF_INET6
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("netpoll: socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("netpoll: setsockopt SO_REUSEADDR: %w", err)
	}

	sockaddr, err := toSockaddr(tcpAddr, domain)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.Bind(fd, sockaddr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("netpoll: bind %s: %w", addr, err)
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("netpoll: listen: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("netpoll: set nonblocking: %w", err)
	}

	return &Listener{fd: fd}, nil
}

func toSockaddr(addr *net.TCPAddr, domain int) (unix.Sockaddr, error) {
	if domain == unix.AF_INET6 {
		sa := &unix.SockaddrInet6{Port: addr.Port}
		if addr.IP != nil {
			copy(sa.Addr[:], addr.IP.To16())
		}
		return sa, nil
	}
	sa := &unix.SockaddrInet4{Port: addr.Port}
	if addr.IP != nil {
		copy(sa.Addr[:], addr.IP.To4())
	}
	return sa, nil
}

// FD returns the listening socket's file descriptor, for poller
// registration under ListenerToken.
func (l *Listener) FD() int { return l.fd }

// Accept accepts one pending connection without blocking, returning
// ioerr.ErrWouldBlock once there is nothing left to accept right now.
// Callers loop calling Accept until that error.
func (l *Listener) Accept() (*Conn, error) {
	nfd, sa, err := unix.Accept(l.fd)
	if err != nil {
		if err == unix.EAGAIN {
			return nil, ioerr.ErrWouldBlock
		}
		return nil, fmt.Errorf("netpoll: accept: %w", err)
	}
	if err := unix.SetNonblock(nfd, true); err != nil {
		unix.Close(nfd)
		return nil, fmt.Errorf("netpoll: set nonblocking: %w", err)
	}
	return NewConn(nfd, sockaddrString(sa)), nil
}

func sockaddrString(sa unix.Sockaddr) string {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		ip := net.IP(s.Addr[:])
		return fmt.Sprintf("%s:%d", ip.String(), s.Port)
	case *unix.SockaddrInet6:
		ip := net.IP(s.Addr[:])
		return fmt.Sprintf("[%s]:%d", ip.String(), s.Port)
	default:
		return "unknown"
	}
}

// Close closes the listening socket.
func (l *Listener) Close() error {
	return unix.Close(l.fd)
}
