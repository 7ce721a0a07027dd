package wire

import "loomhttp/internal/headers"

// Request is a fully-parsed HTTP request.
type Request struct {
	Method  Method
	URI     string
	Version Version
	Headers *headers.HeaderMap
	Body    []byte
}
