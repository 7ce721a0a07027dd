package conn

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loomhttp/internal/ioerr"
)

// fakeStream is a Stream backed by a fixed sequence of read chunks, feeding
// ioerr.ErrWouldBlock once exhausted, as a real non-blocking socket would.
type fakeStream struct {
	reads   [][]byte
	idx     int
	off     int
	written []byte
	closed  bool
}

func (s *fakeStream) Read(p []byte) (int, error) {
	if s.idx >= len(s.reads) {
		return 0, ioerr.ErrWouldBlock
	}
	chunk := s.reads[s.idx]
	n := copy(p, chunk[s.off:])
	s.off += n
	if s.off >= len(chunk) {
		s.idx++
		s.off = 0
	}
	return n, nil
}

func (s *fakeStream) Write(p []byte) (int, error) {
	s.written = append(s.written, p...)
	return len(p), nil
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

// eofStream reports io.EOF on the very first read, simulating a peer that
// closed the connection before sending anything.
type eofStream struct{}

func (eofStream) Read(p []byte) (int, error)  { return 0, io.EOF }
func (eofStream) Write(p []byte) (int, error) { return len(p), nil }
func (eofStream) Close() error                { return nil }

const testWriteBufCap = 4096

func TestReadRequestNotReadyOnPartialInput(t *testing.T) {
	s := &fakeStream{reads: [][]byte{[]byte("GET / HTT")}}
	c := New("127.0.0.1:1", s, testWriteBufCap)
	res := c.ReadRequest()
	assert.Equal(t, NotReady, res.Kind)
}

func TestReadRequestReadyOnCompleteMinimalRequest(t *testing.T) {
	s := &fakeStream{reads: [][]byte{[]byte("GET /hi HTTP/1.1\r\n\r\n")}}
	c := New("127.0.0.1:1", s, testWriteBufCap)
	res := c.ReadRequest()
	require.Equal(t, Ready, res.Kind)
	assert.Equal(t, "/hi", res.Request.URI)
}

func TestReadRequestOrderlyCloseWithNoDataRead(t *testing.T) {
	c := New("127.0.0.1:1", eofStream{}, testWriteBufCap)
	res := c.ReadRequest()
	assert.Equal(t, Closed, res.Kind)
}

func TestReadRequestParseErrorOnBadSyntax(t *testing.T) {
	s := &fakeStream{reads: [][]byte{[]byte("bad-request-line\r\n\r\n")}}
	c := New("127.0.0.1:1", s, testWriteBufCap)
	res := c.ReadRequest()
	require.Equal(t, Error, res.Kind)
	assert.True(t, res.IsParse)
}

func TestReadRequestResumesAcrossCalls(t *testing.T) {
	s := &fakeStream{reads: [][]byte{[]byte("GET / HTT"), []byte("P/1.1\r\n\r\n")}}
	c := New("127.0.0.1:1", s, testWriteBufCap)

	res := c.ReadRequest()
	require.Equal(t, NotReady, res.Kind)

	res = c.ReadRequest()
	require.Equal(t, Ready, res.Kind)
	assert.Equal(t, "/", res.Request.URI)
}

func TestClosePropagatesToStream(t *testing.T) {
	s := &fakeStream{}
	c := New("127.0.0.1:1", s, testWriteBufCap)
	require.NoError(t, c.Close())
	assert.True(t, s.closed)
}
