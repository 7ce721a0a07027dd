package parse

import (
	"bytes"
	"strconv"
	"strings"
)

type chunkedState int

const (
	chunkStateSize chunkedState = iota
	chunkStateData
	chunkStateTailingCrlf
	chunkStateFinished
)

// chunkedParser is the sub-state-machine for Transfer-Encoding: chunked
// bodies. The subtlety: only a chunk whose declared size was zero
// terminates the stream; a data chunk whose content happens to be empty
// does not.
type chunkedParser struct {
	state      chunkedState
	sizeLine   *CRLFLineParser
	data       *FixedBytesDeframer
	tailLine   *CRLFLineParser
	body       bytes.Buffer
	read       int
	isLastSize bool
}

func newChunkedParser() *chunkedParser {
	return &chunkedParser{state: chunkStateSize, sizeLine: NewCRLFLineParser()}
}

func (c *chunkedParser) Step(r Reader) (bool, error) {
	for {
		switch c.state {
		case chunkStateSize:
			done, err := c.sizeLine.Step(r)
			c.read += c.sizeLine.ReadSoFar()
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			size, err := parseChunkSize(c.sizeLine.Line())
			if err != nil {
				return false, err
			}
			c.isLastSize = size == 0
			c.data = NewFixedBytesDeframer(size)
			c.state = chunkStateData
		case chunkStateData:
			done, err := c.data.Step(r)
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			c.body.Write(c.data.Bytes())
			c.read += len(c.data.Bytes())
			c.tailLine = NewCRLFLineParser()
			c.state = chunkStateTailingCrlf
		case chunkStateTailingCrlf:
			done, err := c.tailLine.Step(r)
			c.read += c.tailLine.ReadSoFar()
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			if c.tailLine.Line() != "" {
				return false, ErrBadSyntax
			}
			if c.isLastSize {
				c.state = chunkStateFinished
				return true, nil
			}
			c.sizeLine = NewCRLFLineParser()
			c.state = chunkStateSize
		case chunkStateFinished:
			return true, nil
		}
	}
}

func (c *chunkedParser) ReadSoFar() int { return c.read }
func (c *chunkedParser) Bytes() []byte  { return c.body.Bytes() }

func parseChunkSize(line string) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, ErrInvalidChunkSize
	}
	size, err := strconv.ParseInt(line, 16, 64)
	if err != nil || size < 0 {
		return 0, ErrInvalidChunkSize
	}
	if size > MaxChunkSize {
		return 0, ErrInvalidChunkSize
	}
	return int(size), nil
}
