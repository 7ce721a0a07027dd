package parse

import "loomhttp/internal/ioerr"

// LimitReader wraps an io.Reader (here, specifically a non-blocking stream
// that may return ioerr.ErrWouldBlock) with a remaining-quota counter. Each
// read reduces the quota by the bytes delivered; once the quota reaches
// zero, further reads fail with ioerr.ErrReadLimitReached instead of
// pretending to be a successful short read.
type LimitReader struct {
	inner Reader
	limit int
}

// Reader is the minimal non-blocking read interface every parser in this
// package drives. Implementations (the connection's buffered stream) return
// ioerr.ErrWouldBlock when no more bytes are available right now.
type Reader interface {
	Read(p []byte) (int, error)
}

// NewLimitReader returns a LimitReader over inner that allows at most limit
// further bytes to be read.
func NewLimitReader(inner Reader, limit int) *LimitReader {
	return &LimitReader{inner: inner, limit: limit}
}

// Read implements io.Reader, returning ioerr.ErrReadLimitReached once the
// quota is exhausted.
func (l *LimitReader) Read(p []byte) (int, error) {
	if l.limit <= 0 {
		return 0, ioerr.ErrReadLimitReached
	}
	if len(p) > l.limit {
		p = p[:l.limit]
	}
	n, err := l.inner.Read(p)
	l.limit -= n
	return n, err
}

// Remaining returns the number of bytes still available under the quota.
func (l *LimitReader) Remaining() int {
	return l.limit
}
