package wire

import (
	"strconv"

	"loomhttp/internal/headers"
)

// Response is an HTTP response awaiting serialization by the server driver.
type Response struct {
	Status  Status
	Headers *headers.HeaderMap
	Body    []byte
}

// FromStatus builds an empty-body response carrying only a status line and
// a Content-Length: 0 header, mirroring common/response.rs's From<Status>.
func FromStatus(s Status) Response {
	hm := headers.NewHeaderMap()
	hm.Add(headers.ContentLength, "0")
	return Response{Status: s, Headers: hm, Body: nil}
}

// FromBytes builds a 200 OK response whose body is body, with
// Content-Length set to its length, mirroring common/response.rs's
// From<Vec<u8>>.
func FromBytes(body []byte) Response {
	hm := headers.NewHeaderMap()
	hm.Add(headers.ContentLength, strconv.Itoa(len(body)))
	return Response{Status: StatusOK, Headers: hm, Body: body}
}

// FromString builds a 200 OK response from a string body, mirroring
// common/response.rs's From<String>/From<&str> (both delegate to the byte
// constructor).
func FromString(body string) Response {
	return FromBytes([]byte(body))
}
