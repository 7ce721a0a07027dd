package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loomhttp/internal/headers"
	"loomhttp/internal/ioerr"
)

// stringReader feeds data in one shot, then reports ioerr.ErrWouldBlock as
// a drained non-blocking socket would, letting tests
// exercise the "all bytes already available" path without wiring a real
// non-blocking socket.
type stringReader struct {
	data []byte
	pos  int
}

func newStringReader(s string) *stringReader { return &stringReader{data: []byte(s)} }

func (r *stringReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, ioerr.ErrWouldBlock
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func TestRequestParserMinimalGet(t *testing.T) {
	rp := NewRequestParser()
	r := newStringReader("GET / HTTP/1.1\r\n\r\n")
	done, err := rp.Step(r)
	require.NoError(t, err)
	require.True(t, done)

	req := rp.Result()
	assert.Equal(t, "/", req.URI)
}

func TestRequestParserFragmentedAcrossCalls(t *testing.T) {
	rp := NewRequestParser()

	parts := []string{"GET / HTT", "P/1.1\r\n\r", "\n"}
	var done bool
	var err error
	for _, p := range parts {
		r := newStringReader(p)
		done, err = rp.Step(r)
		if done {
			break
		}
		if err != nil && !ioerr.IsWouldBlock(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "/", rp.Result().URI)
}

func TestRequestParserChunkedBody(t *testing.T) {
	rp := NewRequestParser()
	raw := "POST /c HTTP/1.1\r\ntransfer-encoding: chunked\r\n\r\n" +
		"2\r\nhe\r\nc\r\nllo world he\r\n3\r\nllo\r\n0\r\n\r\n"
	r := newStringReader(raw)
	done, err := rp.Step(r)
	require.NoError(t, err)
	require.True(t, done)

	req := rp.Result()
	assert.Equal(t, "hello world hello", string(req.Body))
}

func TestRequestParserOversizedChunkSize(t *testing.T) {
	rp := NewRequestParser()
	raw := "POST /c HTTP/1.1\r\ntransfer-encoding: chunked\r\n\r\nfffffff\r\n"
	r := newStringReader(raw)
	_, err := rp.Step(r)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)
}

func TestRequestParserContentLengthExactBoundary(t *testing.T) {
	body := strings.Repeat("a", MaxBodySize)
	raw := "POST / HTTP/1.1\r\ncontent-length: " + itoa(MaxBodySize) + "\r\n\r\n" + body
	rp := NewRequestParser()
	r := newStringReader(raw)
	done, err := rp.Step(r)
	require.NoError(t, err)
	require.True(t, done)
	assert.Len(t, rp.Result().Body, MaxBodySize)
}

func TestRequestParserContentLengthTooLarge(t *testing.T) {
	raw := "POST / HTTP/1.1\r\ncontent-length: " + itoa(MaxBodySize+1) + "\r\n\r\n"
	rp := NewRequestParser()
	r := newStringReader(raw)
	_, err := rp.Step(r)
	assert.ErrorIs(t, err, ErrContentLengthTooLarge)
}

func TestRequestParserZeroContentLengthNoBody(t *testing.T) {
	rp := NewRequestParser()
	r := newStringReader("POST / HTTP/1.1\r\ncontent-length: 0\r\n\r\n")
	done, err := rp.Step(r)
	require.NoError(t, err)
	require.True(t, done)
	assert.Empty(t, rp.Result().Body)
}

func TestRequestParserHasData(t *testing.T) {
	rp := NewRequestParser()
	assert.False(t, rp.HasData())

	r := newStringReader("GE")
	_, err := rp.Step(r)
	assert.True(t, ioerr.IsWouldBlock(err))
	assert.True(t, rp.HasData())
}

func TestRequestParserUnsupportedVersion(t *testing.T) {
	rp := NewRequestParser()
	r := newStringReader("GET / HTTP/2.0\r\n\r\n")
	_, err := rp.Step(r)
	assert.ErrorIs(t, err, ErrInvalidHTTPVersion)
}

func TestRequestParserUnrecognizedMethod(t *testing.T) {
	rp := NewRequestParser()
	r := newStringReader("PATCH / HTTP/1.1\r\n\r\n")
	_, err := rp.Step(r)
	assert.ErrorIs(t, err, ErrUnrecognizedMethod)
}

func TestCRLFLineMissingCR(t *testing.T) {
	p := NewCRLFLineParser()
	r := newStringReader("no cr here\n")
	_, err := p.Step(r)
	assert.ErrorIs(t, err, ErrBadSyntax)
}

func TestCRLFLineTooLong(t *testing.T) {
	p := NewCRLFLineParser()
	r := newStringReader(strings.Repeat("a", MaxLineSize+1) + "\r\n")
	_, err := p.Step(r)
	assert.ErrorIs(t, err, ioerr.ErrReadLimitReached)
}

func TestHeadersParserSplitsOnColonSpace(t *testing.T) {
	p := NewHeadersParser()
	r := newStringReader("Host: example.com\r\nX-Custom: value\r\n\r\n")
	done, err := p.Step(r)
	require.NoError(t, err)
	require.True(t, done)

	v, ok := p.Headers().First(headers.New("host"))
	require.True(t, ok)
	assert.Equal(t, "example.com", v)
}

func TestHeadersParserMalformedLine(t *testing.T) {
	p := NewHeadersParser()
	r := newStringReader("not-a-valid-header-line\r\n\r\n")
	_, err := p.Step(r)
	assert.ErrorIs(t, err, ErrBadSyntax)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
