// Package netpoll implements a single-threaded readiness event loop on top
// of Linux epoll via golang.org/x/sys/unix, since Go's net package hides
// readiness behind its own internal netpoller and cannot surface the
// explicit WouldBlock/token/slab model this server needs.
package netpoll

// Token identifies a registered interest source with the poller: either
// the distinguished ListenerToken, or a slab index for a connection.
type Token int

// ListenerToken is the distinguished token used for the bound listening
// socket — any value outside the slab's valid key range works; -1 can
// never collide with a slab index.
const ListenerToken Token = -1

// PollBatchSize bounds how many events a single Wait call returns.
const PollBatchSize = 128

// Event reports one readiness notification.
type Event struct {
	Token       Token
	Readable    bool
	Writable    bool
	WriteClosed bool
}

// Poller is the OS-level readiness multiplexer interface; epoll_linux.go is
// its sole implementation. The server driver uses *Epoll directly.
type Poller interface {
	Add(fd int, token Token, readable, writable bool) error
	Remove(fd int) error
	Wait() ([]Event, error)
	Close() error
}
