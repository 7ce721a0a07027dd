package parse

import "loomhttp/internal/headers"

// FirstLineParser is the pluggable first line of a message: request parsers
// plug in request-line grammar; other message kinds could plug in their own.
type FirstLineParser[T any] interface {
	Step(r Reader) (bool, error)
	Result() T
	ReadSoFar() int
}

type messageState int

const (
	stateFirstLine messageState = iota
	stateHeaders
	stateBody
	stateFinished
)

// Message is the fully-parsed result of a MessageParser: a first line
// value, its headers, and its body.
type Message[T any] struct {
	FirstLine T
	Headers   *headers.HeaderMap
	Body      []byte
}

// MessageParser composes a first-line parser + headers + body into one
// resumable state machine. It suspends (Step returns false, ioerr.ErrWouldBlock)
// at the first would-block encountered, preserving the exact sub-state.
type MessageParser[T any] struct {
	readBodyIfNoContentLength bool
	state                     messageState
	firstLine                 FirstLineParser[T]
	firstLineResult           T
	headersParser             *HeadersParser
	headersResult             *headers.HeaderMap
	bodyParser                *BodyParser
	newFirstLine              func() FirstLineParser[T]
}

// NewMessageParser builds a MessageParser. newFirstLine constructs a fresh
// first-line parser instance (so the generic parser never needs to know the
// concrete first-line grammar).
func NewMessageParser[T any](newFirstLine func() FirstLineParser[T], readBodyIfNoContentLength bool) *MessageParser[T] {
	return &MessageParser[T]{
		readBodyIfNoContentLength: readBodyIfNoContentLength,
		state:                     stateFirstLine,
		firstLine:                 newFirstLine(),
		newFirstLine:              newFirstLine,
	}
}

// Step drives the parser. done=true once the full message (first line,
// headers, body) has been parsed.
func (m *MessageParser[T]) Step(r Reader) (bool, error) {
	for {
		switch m.state {
		case stateFirstLine:
			done, err := m.firstLine.Step(r)
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			m.firstLineResult = m.firstLine.Result()
			m.headersParser = NewHeadersParser()
			m.state = stateHeaders
		case stateHeaders:
			done, err := m.headersParser.Step(r)
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			m.headersResult = m.headersParser.Headers()
			bp, err := NewBodyParser(m.headersResult, m.readBodyIfNoContentLength)
			if err != nil {
				return false, err
			}
			m.bodyParser = bp
			m.state = stateBody
		case stateBody:
			done, err := m.bodyParser.Step(r)
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			m.state = stateFinished
			return true, nil
		case stateFinished:
			return true, nil
		}
	}
}

// Result returns the parsed Message. Only meaningful once Step reports
// done.
func (m *MessageParser[T]) Result() Message[T] {
	return Message[T]{
		FirstLine: m.firstLineResult,
		Headers:   m.headersResult,
		Body:      m.bodyParser.Bytes(),
	}
}

// HasData reports whether the first-line parser has consumed at least one
// byte, or the parser has moved past the first-line state entirely.
func (m *MessageParser[T]) HasData() bool {
	if m.state != stateFirstLine {
		return true
	}
	return m.firstLine.ReadSoFar() > 0
}
