package server

import (
	"fmt"
	"log"
	"strings"

	"loomhttp/internal/conn"
	"loomhttp/internal/headers"
	"loomhttp/internal/netpoll"
	"loomhttp/internal/router"
	"loomhttp/internal/wire"
)

// canned400 and canned404 are the exact byte-for-byte responses written for
// error paths that never reach the router.
var (
	canned400 = []byte("HTTP/1.1 400 Bad Request\r\n\r\n")
	canned404 = []byte("HTTP/1.1 404 Not Found\r\n\r\n")
)

func (s *Server) handleEvent(ev netpoll.Event) {
	if ev.Token == netpoll.ListenerToken {
		if ev.Readable {
			s.acceptLoop()
		}
		return
	}
	if ev.WriteClosed {
		s.dropConnection(ev.Token)
		return
	}
	slotPtr := s.slots.GetPtr(int(ev.Token))
	if slotPtr == nil || *slotPtr == nil {
		return
	}
	slot := *slotPtr
	s.pool.Execute(func() {
		s.handleIOReadyConnection(ev.Token, slot)
	})
}

// acceptLoop accepts pending connections in a loop until the listener
// reports WouldBlock, registering each with the poller and slab.
func (s *Server) acceptLoop() {
	for {
		c, err := s.listener.Accept()
		if err != nil {
			return // WouldBlock or a transient accept error; stop for now
		}

		connection := conn.New(c.Addr(), c, ReadWriteBufCapacity)
		slot := &connSlot{conn: connection}
		key := s.slots.Insert(slot)
		token := netpoll.Token(key)

		if err := s.poller.Add(c.FD(), token, true, true); err != nil {
			log.Printf("loomhttp: failed to register connection %s: %v", c.Addr(), err)
			s.slots.Remove(key)
			c.Close()
			continue
		}
	}
}

func (s *Server) dropConnection(token netpoll.Token) {
	slotPtr := s.slots.GetPtr(int(token))
	if slotPtr == nil || *slotPtr == nil {
		return
	}
	slot := *slotPtr
	slot.mu.Lock()
	c := slot.conn
	slot.conn = nil
	slot.mu.Unlock()

	s.slots.Remove(int(token))
	if c != nil {
		if fdStream, ok := c.Stream.(interface{ FD() int }); ok {
			s.poller.Remove(fdStream.FD())
		}
		c.Close()
	}
}

// handleIOReadyConnection is the job submitted to the worker pool on every
// readiness event for an established connection.
func (s *Server) handleIOReadyConnection(token netpoll.Token, slot *connSlot) {
	slot.mu.Lock()
	c := slot.conn
	slot.conn = nil
	slot.mu.Unlock()
	if c == nil {
		// Another worker is already running this connection.
		return
	}

	if err := c.Writer.Flush(); err != nil {
		s.closeConnection(token, c)
		return
	}

	for {
		res := c.ReadRequest()
		switch res.Kind {
		case conn.Ready:
			if !s.respondToRequest(c, &res.Request) {
				s.closeConnection(token, c)
				return
			}
			if shouldCloseAfterResponse(&res.Request) {
				s.closeConnection(token, c)
				return
			}
			// Loop: HTTP/1.x connections may carry more than one request.
		case conn.NotReady:
			slot.mu.Lock()
			slot.conn = c
			slot.mu.Unlock()
			return
		case conn.Closed:
			s.closeConnection(token, c)
			return
		case conn.Error:
			s.writeErrorResponse(c)
			s.closeConnection(token, c)
			return
		}
	}
}

func (s *Server) closeConnection(token netpoll.Token, c *conn.Connection) {
	s.slots.Remove(int(token))
	if fdStream, ok := c.Stream.(interface{ FD() int }); ok {
		s.poller.Remove(fdStream.FD())
	}
	c.Close()
}

func shouldCloseAfterResponse(req *wire.Request) bool {
	if req.Headers == nil {
		return false
	}
	v, ok := req.Headers.First(headers.Connection)
	return ok && strings.EqualFold(strings.TrimSpace(v), "close")
}

// respondToRequest dispatches req through the router and writes the
// resulting response. It returns false on a fatal write error.
func (s *Server) respondToRequest(c *conn.Connection, req *wire.Request) bool {
	result := s.cfg.Router.Dispatch(req.URI, req)
	switch result.Kind {
	case router.Respond, router.RespondShared:
		return writeResponse(c.Writer, *result.Response) == nil
	default:
		_, err := c.Writer.Write(canned404)
		if err == nil {
			err = c.Writer.Flush()
		}
		return err == nil
	}
}

func (s *Server) writeErrorResponse(c *conn.Connection) {
	_, _ = c.Writer.Write(canned400)
	_ = c.Writer.Flush()
}

// writeResponse serialises resp as "HTTP/1.1 <code> <reason>\r\n", then
// each header/value pair, then a blank line, then the body, then flushes.
func writeResponse(w interface{ Write([]byte) (int, error) }, resp wire.Response) error {
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", resp.Status.Code, resp.Status.Reason)
	if resp.Headers != nil {
		resp.Headers.Range(func(name, value string) {
			fmt.Fprintf(&b, "%s: %s\r\n", name, value)
		})
	}
	b.WriteString("\r\n")
	if _, err := w.Write([]byte(b.String())); err != nil {
		return err
	}
	if len(resp.Body) > 0 {
		if _, err := w.Write(resp.Body); err != nil {
			return err
		}
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
