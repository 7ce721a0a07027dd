package parse

import (
	"strconv"
	"strings"

	"loomhttp/internal/headers"
)

// bodyMode is the classification a BodyParser picks at construction.
type bodyMode int

const (
	modeWithSize bodyMode = iota
	modeChunked
	modeUntilEof
	modeEmpty
)

// BodyParser is polymorphic over Content-Length / chunked / until-EOF /
// empty bodies, bounded to MaxBodySize.
type BodyParser struct {
	mode    bodyMode
	fixed   *FixedBytesDeframer
	untilEo *UntilEofDeframer
	chunked *chunkedParser
	read    int
}

// NewBodyParser classifies the body mode from hm and readIfNoContentLength
// (the "read-if-no-content-length" flag threaded through from the message
// parser), returning ErrContentLengthTooLarge if the advertised
// Content-Length exceeds MaxBodySize.
func NewBodyParser(hm *headers.HeaderMap, readIfNoContentLength bool) (*BodyParser, error) {
	if cl, ok := hm.First(headers.ContentLength); ok {
		n, err := strconv.Atoi(strings.TrimSpace(cl))
		if err != nil || n < 0 {
			return nil, ErrInvalidHeaderValue
		}
		if n > MaxBodySize {
			return nil, ErrContentLengthTooLarge
		}
		if n == 0 {
			return &BodyParser{mode: modeEmpty}, nil
		}
		return &BodyParser{mode: modeWithSize, fixed: NewFixedBytesDeframer(n)}, nil
	}
	if isChunkedTransferEncoding(hm) {
		return &BodyParser{mode: modeChunked, chunked: newChunkedParser()}, nil
	}
	if readIfNoContentLength {
		return &BodyParser{mode: modeUntilEof, untilEo: NewUntilEofDeframer()}, nil
	}
	return &BodyParser{mode: modeEmpty}, nil
}

func isChunkedTransferEncoding(hm *headers.HeaderMap) bool {
	te, ok := hm.First(headers.TransferEncoding)
	if !ok {
		return false
	}
	for _, tok := range strings.Split(te, ",") {
		if strings.EqualFold(strings.TrimSpace(tok), "chunked") {
			return true
		}
	}
	return false
}

// Step drives the parser against r, wrapping it in a LimitReader with
// budget MaxBodySize-bytes_so_far.
func (p *BodyParser) Step(r Reader) (bool, error) {
	switch p.mode {
	case modeEmpty:
		return true, nil
	case modeWithSize:
		limited := NewLimitReader(r, MaxBodySize-p.read)
		done, err := p.fixed.Step(limited)
		p.read = p.fixed.ReadSoFar()
		if err != nil {
			return false, err
		}
		return done, nil
	case modeUntilEof:
		limited := NewLimitReader(r, MaxBodySize-p.read)
		done, err := p.untilEo.Step(limited)
		p.read = p.untilEo.ReadSoFar()
		if err != nil {
			return false, err
		}
		return done, nil
	case modeChunked:
		budget := MaxBodySize - p.read
		limited := NewLimitReader(r, budget)
		done, err := p.chunked.Step(limited)
		p.read += budget - limited.Remaining()
		if err != nil {
			return false, err
		}
		return done, nil
	default:
		return true, nil
	}
}

// Bytes returns the accumulated body. Only meaningful once Step reports
// done.
func (p *BodyParser) Bytes() []byte {
	switch p.mode {
	case modeWithSize:
		return p.fixed.Bytes()
	case modeUntilEof:
		return p.untilEo.Bytes()
	case modeChunked:
		return p.chunked.Bytes()
	default:
		return nil
	}
}
