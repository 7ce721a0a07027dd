// Package router implements an ordered prefix/exact matching router with
// composable sub-routers.
package router

import (
	"strings"

	"loomhttp/internal/wire"
)

// Kind distinguishes the three possible outcomes of invoking a handler.
type Kind int

const (
	Next Kind = iota
	Respond
	RespondShared
)

// Result is what a Handler returns: either Next (keep trying later
// handlers), Respond carrying an owned Response, or RespondShared carrying
// a Response shared (by pointer) across many callers.
type Result struct {
	Kind     Kind
	Response *wire.Response
}

// NextResult is the sentinel "keep going" result.
func NextResult() Result { return Result{Kind: Next} }

// RespondWith wraps an owned response.
func RespondWith(resp wire.Response) Result {
	return Result{Kind: Respond, Response: &resp}
}

// RespondWithShared wraps a response shared across many callers. Callers
// must not mutate resp after sharing it.
func RespondWithShared(resp *wire.Response) Result {
	return Result{Kind: RespondShared, Response: resp}
}

// Handler handles a request whose URI has already been stripped of every
// ancestor router's matched prefix. Handlers must be safe to invoke
// concurrently from multiple workers.
type Handler func(localURI string, req *wire.Request) Result

type entry struct {
	prefix  string
	handler Handler
}

// Router is an ordered list of (prefix, handler) pairs.
type Router struct {
	entries []entry
}

// New returns an empty Router.
func New() *Router {
	return &Router{}
}

// OnPrefix registers h under prefix: it is considered whenever the
// request URI starts with prefix, in registration order relative to other
// entries.
func (rt *Router) OnPrefix(prefix string, h Handler) {
	rt.entries = append(rt.entries, entry{prefix: prefix, handler: h})
}

// On registers h under the empty prefix (evaluated for every request), but
// only invokes the caller's logic when uri exactly matches the request's
// local URI; otherwise it reports Next. It is sugar over OnPrefix("", ...)
// rather than a special dispatch path.
func (rt *Router) On(uri string, h Handler) {
	rt.OnPrefix("", func(localURI string, req *wire.Request) Result {
		if localURI != uri {
			return NextResult()
		}
		return h(localURI, req)
	})
}

// Route registers a handler under prefix that strips prefix from the URI
// before delegating to sub.Dispatch.
func (rt *Router) Route(prefix string, sub *Router) {
	rt.OnPrefix(prefix, func(localURI string, req *wire.Request) Result {
		stripped := strings.TrimPrefix(localURI, prefix)
		return sub.Dispatch(stripped, req)
	})
}

// Dispatch iterates entries in registration order, invoking each whose
// prefix matches uri, returning the first non-Next result, or Next if
// every entry passes.
func (rt *Router) Dispatch(uri string, req *wire.Request) Result {
	for _, e := range rt.entries {
		if !strings.HasPrefix(uri, e.prefix) {
			continue
		}
		res := e.handler(uri, req)
		if res.Kind != Next {
			return res
		}
	}
	return NextResult()
}
