// Package headers implements the HTTP header name and multimap types used
// throughout the request/response pipeline.
package headers

import "strings"

// standardNames is the fixed table of interned, lowercased header names.
// A Header whose lowercased name matches an entry here canonicalises to the
// interned string stored in the table instead of allocating a new one.
var standardNames = map[string]string{
	"accept":                               "accept",
	"accept-charset":                       "accept-charset",
	"accept-encoding":                      "accept-encoding",
	"accept-language":                      "accept-language",
	"accept-ranges":                        "accept-ranges",
	"access-control-allow-credentials":     "access-control-allow-credentials",
	"access-control-allow-headers":         "access-control-allow-headers",
	"access-control-allow-methods":         "access-control-allow-methods",
	"access-control-allow-origin":          "access-control-allow-origin",
	"access-control-expose-headers":        "access-control-expose-headers",
	"access-control-max-age":               "access-control-max-age",
	"access-control-request-headers":       "access-control-request-headers",
	"access-control-request-method":        "access-control-request-method",
	"age":                                  "age",
	"allow":                                "allow",
	"alt-svc":                              "alt-svc",
	"authorization":                        "authorization",
	"cache-control":                        "cache-control",
	"connection":                           "connection",
	"content-disposition":                  "content-disposition",
	"content-encoding":                     "content-encoding",
	"content-language":                     "content-language",
	"content-length":                       "content-length",
	"content-location":                     "content-location",
	"content-range":                        "content-range",
	"content-security-policy":              "content-security-policy",
	"content-security-policy-report-only":  "content-security-policy-report-only",
	"content-type":                         "content-type",
	"cookie":                               "cookie",
	"dnt":                                  "dnt",
	"date":                                 "date",
	"etag":                                 "etag",
	"expect":                               "expect",
	"expires":                              "expires",
	"forwarded":                            "forwarded",
	"from":                                 "from",
	"host":                                 "host",
	"if-match":                             "if-match",
	"if-modified-since":                    "if-modified-since",
	"if-none-match":                        "if-none-match",
	"if-range":                             "if-range",
	"if-unmodified-since":                  "if-unmodified-since",
	"last-modified":                        "last-modified",
	"link":                                 "link",
	"location":                             "location",
	"max-forwards":                         "max-forwards",
	"origin":                               "origin",
	"pragma":                               "pragma",
	"proxy-authenticate":                   "proxy-authenticate",
	"proxy-authorization":                  "proxy-authorization",
	"public-key-pins":                      "public-key-pins",
	"public-key-pins-report-only":          "public-key-pins-report-only",
	"range":                                "range",
	"referer":                              "referer",
	"referrer-policy":                      "referrer-policy",
	"refresh":                              "refresh",
	"retry-after":                          "retry-after",
	"sec-websocket-accept":                 "sec-websocket-accept",
	"sec-websocket-extensions":             "sec-websocket-extensions",
	"sec-websocket-key":                    "sec-websocket-key",
	"sec-websocket-protocol":               "sec-websocket-protocol",
	"sec-websocket-version":                "sec-websocket-version",
	"server":                               "server",
	"set-cookie":                           "set-cookie",
	"strict-transport-security":            "strict-transport-security",
	"te":                                   "te",
	"trailer":                              "trailer",
	"transfer-encoding":                    "transfer-encoding",
	"user-agent":                           "user-agent",
	"upgrade":                              "upgrade",
	"upgrade-insecure-requests":            "upgrade-insecure-requests",
	"vary":                                 "vary",
	"via":                                  "via",
	"warning":                              "warning",
	"www-authenticate":                     "www-authenticate",
	"x-content-type-options":               "x-content-type-options",
	"x-dns-prefetch-control":                "x-dns-prefetch-control",
	"x-frame-options":                      "x-frame-options",
	"x-xss-protection":                     "x-xss-protection",
}

// Well-known headers referenced directly by the parser and server driver.
var (
	ContentLength    = New("content-length")
	TransferEncoding = New("transfer-encoding")
	Connection       = New("connection")
	ContentType      = New("content-type")
)

// Name is a case-insensitive HTTP header name. It is always stored
// lowercased; a name matching the standard table canonicalises to the
// interned entry from that table rather than keeping its own copy.
type Name struct {
	lower string
}

// New builds a Name from a raw header name string, lowercasing it and
// canonicalising against the standard header table.
func New(raw string) Name {
	lower := strings.ToLower(raw)
	if interned, ok := standardNames[lower]; ok {
		return Name{lower: interned}
	}
	return Name{lower: lower}
}

// String returns the lowercased header name.
func (n Name) String() string {
	return n.lower
}

// IsStandard reports whether n canonicalised to an entry in the standard
// header table.
func (n Name) IsStandard() bool {
	_, ok := standardNames[n.lower]
	return ok
}
