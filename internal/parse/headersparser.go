package parse

import (
	"strings"

	"loomhttp/internal/headers"
)

// HeadersParser repeatedly reads CRLF lines until an empty line, bounded to
// MaxHeadersSize bytes cumulative.
type HeadersParser struct {
	current *CRLFLineParser
	headers *headers.HeaderMap
	read    int
}

func NewHeadersParser() *HeadersParser {
	return &HeadersParser{
		current: NewCRLFLineParser(),
		headers: headers.NewHeaderMap(),
	}
}

func (p *HeadersParser) Step(r Reader) (bool, error) {
	for {
		budget := MaxHeadersSize - p.read
		limited := NewLimitReader(r, budget)
		done, err := p.current.Step(limited)
		p.read += budget - limited.Remaining()
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
		line := p.current.Line()
		p.current = NewCRLFLineParser()

		if line == "" {
			return true, nil
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			return false, ErrBadSyntax
		}
		p.headers.Add(headers.New(name), value)
	}
}

func (p *HeadersParser) ReadSoFar() int                  { return p.read }
func (p *HeadersParser) Headers() *headers.HeaderMap { return p.headers }
