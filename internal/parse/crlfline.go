package parse

import "strings"

// CRLFLineParser reads one CRLF-terminated line, bounded to MaxLineSize
// bytes total.
type CRLFLineParser struct {
	inner *LineDeframer
	line  string
}

func NewCRLFLineParser() *CRLFLineParser {
	return &CRLFLineParser{inner: NewLineDeframer()}
}

// Step drives the parser. It returns done=true once a full CRLF line has
// been read and validated; Line() then yields the line with the trailing
// \r\n stripped.
func (p *CRLFLineParser) Step(r Reader) (bool, error) {
	budget := MaxLineSize - p.inner.ReadSoFar()
	limited := NewLimitReader(r, budget)
	done, err := p.inner.Step(limited)
	if err != nil {
		return false, err
	}
	if !done {
		return false, nil
	}
	line := p.inner.Line()
	if !strings.HasSuffix(line, "\r") {
		return false, ErrBadSyntax
	}
	p.line = strings.TrimSuffix(line, "\r")
	return true, nil
}

func (p *CRLFLineParser) ReadSoFar() int { return p.inner.ReadSoFar() }
func (p *CRLFLineParser) Line() string   { return p.line }
