//go:build linux

package netpoll

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Epoll is the Linux implementation of Poller, driving epoll_create1/
// epoll_ctl/epoll_wait directly.
type Epoll struct {
	fd      int
	tokens  map[int]Token // fd -> token, so Wait can translate back
	events  [PollBatchSize]unix.EpollEvent
}

// NewEpoll creates a new epoll instance.
func NewEpoll() (*Epoll, error) {
	fd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("netpoll: epoll_create1: %w", err)
	}
	return &Epoll{fd: fd, tokens: make(map[int]Token)}, nil
}

// Add registers fd for readiness notification, associating it with token.
func (e *Epoll) Add(fd int, token Token, readable, writable bool) error {
	var events uint32
	if readable {
		events |= unix.EPOLLIN
	}
	if writable {
		events |= unix.EPOLLOUT
	}
	events |= unix.EPOLLRDHUP

	ev := unix.EpollEvent{Events: events, Fd: int32(fd)}
	if err := unix.EpollCtl(e.fd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("netpoll: epoll_ctl add fd=%d: %w", fd, err)
	}
	e.tokens[fd] = token
	return nil
}

// Remove deregisters fd.
func (e *Epoll) Remove(fd int) error {
	delete(e.tokens, fd)
	if err := unix.EpollCtl(e.fd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("netpoll: epoll_ctl del fd=%d: %w", fd, err)
	}
	return nil
}

// Wait blocks with no timeout until at least one event is ready, returning
// up to PollBatchSize events.
func (e *Epoll) Wait() ([]Event, error) {
	n, err := unix.EpollWait(e.fd, e.events[:], -1)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("netpoll: epoll_wait: %w", err)
	}

	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		raw := e.events[i]
		fd := int(raw.Fd)
		token, ok := e.tokens[fd]
		if !ok {
			continue
		}
		out = append(out, Event{
			Token:       token,
			Readable:    raw.Events&(unix.EPOLLIN|unix.EPOLLERR|unix.EPOLLHUP) != 0,
			Writable:    raw.Events&unix.EPOLLOUT != 0,
			WriteClosed: raw.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP|unix.EPOLLERR) != 0,
		})
	}
	return out, nil
}

// Close releases the epoll instance's own file descriptor.
func (e *Epoll) Close() error {
	return unix.Close(e.fd)
}
