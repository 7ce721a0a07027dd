package parse

import (
	"strings"

	"loomhttp/internal/wire"
)

// RequestLine is the parsed first line of an HTTP request.
type RequestLine struct {
	Method  wire.Method
	URI     string
	Version wire.Version
}

// requestFirstLineParser implements FirstLineParser[RequestLine]: reads one
// CRLF line, splits on SPACE into (method, target, version), verifies the
// version is supported, and parses the method.
type requestFirstLineParser struct {
	line   *CRLFLineParser
	result RequestLine
}

func newRequestFirstLineParser() FirstLineParser[RequestLine] {
	return &requestFirstLineParser{line: NewCRLFLineParser()}
}

func (p *requestFirstLineParser) Step(r Reader) (bool, error) {
	done, err := p.line.Step(r)
	if err != nil {
		return false, err
	}
	if !done {
		return false, nil
	}
	parts := strings.Split(p.line.Line(), " ")
	if len(parts) != 3 {
		return false, ErrBadSyntax
	}
	method, uri, version := parts[0], parts[1], wire.Version(parts[2])
	if !version.IsSupported() {
		return false, ErrInvalidHTTPVersion
	}
	m, err := wire.ParseMethod(method)
	if err != nil {
		return false, ErrUnrecognizedMethod
	}
	p.result = RequestLine{Method: m, URI: uri, Version: version}
	return true, nil
}

func (p *requestFirstLineParser) Result() RequestLine { return p.result }
func (p *requestFirstLineParser) ReadSoFar() int       { return p.line.ReadSoFar() }

// RequestParser specialises MessageParser with the HTTP request first-line
// grammar.
type RequestParser struct {
	inner *MessageParser[RequestLine]
}

// NewRequestParser builds a fresh, unstarted RequestParser. Requests never
// read-to-EOF when Content-Length/chunked framing is absent — the body is
// simply empty, since there is no subsequent request on the same
// connection to define where a read-to-EOF body would end.
func NewRequestParser() *RequestParser {
	return &RequestParser{inner: NewMessageParser(newRequestFirstLineParser, false)}
}

// Step drives the parser; done=true once a full request has been parsed.
func (p *RequestParser) Step(r Reader) (bool, error) {
	return p.inner.Step(r)
}

// Result returns the parsed request as a wire.Request. Only meaningful
// once Step reports done.
func (p *RequestParser) Result() wire.Request {
	m := p.inner.Result()
	return wire.Request{
		Method:  m.FirstLine.Method,
		URI:     m.FirstLine.URI,
		Version: m.FirstLine.Version,
		Headers: m.Headers,
		Body:    m.Body,
	}
}

// HasData reports whether any bytes have been consumed since this parser
// was created.
func (p *RequestParser) HasData() bool {
	return p.inner.HasData()
}
