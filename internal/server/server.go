// Package server glues the event loop, worker pool, connection state, and
// router together into the running HTTP server.
package server

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"loomhttp/internal/conn"
	"loomhttp/internal/netpoll"
	"loomhttp/internal/router"
	"loomhttp/internal/slab"
	"loomhttp/internal/workerpool"
)

// Limits enforced by the server.
const (
	ReadWriteBufCapacity = 4096
	InitialSlabCapacity  = 128
)

// ErrInvalidAddr is returned by ListenAndServe when addr fails to parse.
var ErrInvalidAddr = errors.New("server: invalid addr")

// Config is the server's external configuration.
type Config struct {
	// Addr is a "host:port" string; invalid strings abort startup.
	Addr string
	// ConnectionHandlerThreads must be positive; zero aborts startup.
	ConnectionHandlerThreads int
	// Router is the root router consulted for every parsed request.
	Router *router.Router
}

// connSlot is a mutex-guarded Option<Connection>: taking it out commits to
// exclusive ownership, putting it back publishes it to later events.
type connSlot struct {
	mu   sync.Mutex
	conn *conn.Connection
}

// Server is a running loomhttp instance.
type Server struct {
	cfg      Config
	listener *netpoll.Listener
	poller   *netpoll.Epoll
	slots    *slab.Slab[*connSlot]
	pool     *workerpool.Pool
}

// ListenAndServe validates cfg, binds the listener, and runs the event
// loop until an unrecoverable error occurs. It never returns nil.
func ListenAndServe(cfg Config) error {
	if cfg.Addr == "" {
		return ErrInvalidAddr
	}
	if cfg.ConnectionHandlerThreads <= 0 {
		return fmt.Errorf("server: connection_handler_threads must be positive, got %d", cfg.ConnectionHandlerThreads)
	}
	if cfg.Router == nil {
		return errors.New("server: router must not be nil")
	}

	listener, err := netpoll.Listen(cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddr, err)
	}

	poller, err := netpoll.NewEpoll()
	if err != nil {
		listener.Close()
		return err
	}
	if err := poller.Add(listener.FD(), netpoll.ListenerToken, true, false); err != nil {
		listener.Close()
		poller.Close()
		return err
	}

	pool, err := workerpool.New(cfg.ConnectionHandlerThreads)
	if err != nil {
		listener.Close()
		poller.Close()
		return err
	}

	s := &Server{
		cfg:      cfg,
		listener: listener,
		poller:   poller,
		slots:    slab.New[*connSlot](InitialSlabCapacity),
		pool:     pool,
	}
	return s.run()
}

// run is the single-threaded event loop: poll readiness with no timeout,
// dispatch each event, repeat. Besides the poll itself, it blocks while
// handing a job to the worker pool, which waits until a worker is free.
func (s *Server) run() error {
	log.Printf("loomhttp listening on %s", s.cfg.Addr)
	for {
		events, err := s.poller.Wait()
		if err != nil {
			return err
		}
		for _, ev := range events {
			s.handleEvent(ev)
		}
	}
}
