// Package conn implements per-connection state: a buffered output stream
// plus, at most, one suspended request parser.
package conn

import (
	"io"

	"loomhttp/internal/bufwriter"
	"loomhttp/internal/ioerr"
	"loomhttp/internal/parse"
	"loomhttp/internal/wire"
)

// Stream is the minimal non-blocking read/write/close surface a
// Connection needs from its underlying socket.
type Stream interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// ReadResultKind is the outcome of one ReadRequest call.
type ReadResultKind int

const (
	NotReady ReadResultKind = iota
	Ready
	Closed
	Error
)

// ReadResult is what ReadRequest returns.
type ReadResult struct {
	Kind    ReadResultKind
	Request wire.Request
	Err     error // set when Kind == Error; distinguishes IO vs parse failure
	IsParse bool  // true if Err is a parse.ParseError rather than an IO error
}

// Connection owns a stream and, when a request is only partially parsed,
// the parser that was suspended mid-way.
type Connection struct {
	Addr    string
	Stream  Stream
	Writer  *bufwriter.NonBlockingWriter
	reader  *limitlessReader
	parser  *parse.RequestParser
}

// New wraps stream, sizing the buffered writer to writeBufCap.
func New(addr string, stream Stream, writeBufCap int) *Connection {
	return &Connection{
		Addr:   addr,
		Stream: stream,
		Writer: bufwriter.New(stream, writeBufCap),
		reader: &limitlessReader{stream: stream},
	}
}

// limitlessReader adapts a Stream to parse.Reader (they're structurally
// identical; this indirection keeps the conn package the single place that
// knows both interfaces).
type limitlessReader struct {
	stream Stream
}

func (r *limitlessReader) Read(p []byte) (int, error) {
	return r.stream.Read(p)
}

// ReadRequest takes (or constructs) the parser and drives it once against
// the stream, classifying the outcome into NotReady, Ready, Closed, or Error.
func (c *Connection) ReadRequest() ReadResult {
	if c.parser == nil {
		c.parser = parse.NewRequestParser()
	}

	done, err := c.parser.Step(c.reader)
	if err == nil && done {
		req := c.parser.Result()
		c.parser = nil
		return ReadResult{Kind: Ready, Request: req}
	}
	if err == nil {
		// Suspended with no error shouldn't happen, but treat as NotReady.
		return ReadResult{Kind: NotReady}
	}

	if ioerr.IsWouldBlock(err) {
		return ReadResult{Kind: NotReady}
	}
	if parse.IsParseError(err) {
		c.parser = nil
		return ReadResult{Kind: Error, Err: err, IsParse: true}
	}
	hasData := c.parser.HasData()
	c.parser = nil
	if isClosed(err, hasData) {
		return ReadResult{Kind: Closed}
	}
	return ReadResult{Kind: Error, Err: err}
}

// isClosed reports an orderly close: EOF or UnexpectedEOF with no data read
// yet, or a reset, aborted or already-closed connection, rather than a
// fatal error.
func isClosed(err error, hasData bool) bool {
	if err == io.ErrUnexpectedEOF && !hasData {
		return true
	}
	if err == io.EOF && !hasData {
		return true
	}
	bytesRead := 0
	if hasData {
		bytesRead = 1
	}
	return ioerr.IsOrderlyClose(err, bytesRead)
}

// Close closes the underlying stream.
func (c *Connection) Close() error {
	return c.Stream.Close()
}
