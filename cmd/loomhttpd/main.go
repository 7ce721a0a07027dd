// Command loomhttpd is a demo entrypoint wiring a small Router into the
// server.
package main

import (
	"flag"
	"log"

	"loomhttp/internal/router"
	"loomhttp/internal/server"
	"loomhttp/internal/wire"
)

func main() {
	addr := flag.String("addr", ":42069", "address to listen on, host:port")
	threads := flag.Int("connection_handler_threads", 8, "number of connection-handling worker goroutines")
	flag.Parse()

	rt := router.New()

	rt.On("/yourproblem", func(string, *wire.Request) router.Result {
		resp := wire.FromString(`<html>
  <head><title>400 Bad Request</title></head>
  <body><h1>Bad Request</h1><p>Your request honestly kinda sucked.</p></body>
</html>`)
		resp.Status = wire.StatusBadRequest
		return router.RespondWith(resp)
	})

	rt.On("/myproblem", func(string, *wire.Request) router.Result {
		resp := wire.FromString(`<html>
  <head><title>500 Internal Server Error</title></head>
  <body><h1>Internal Server Error</h1><p>Okay, you know what? This one is on me.</p></body>
</html>`)
		resp.Status = wire.StatusInternalServerError
		return router.RespondWith(resp)
	})

	rt.OnPrefix("", func(string, *wire.Request) router.Result {
		return router.RespondWith(wire.FromString(`<html>
  <head><title>200 OK</title></head>
  <body><h1>Success!</h1><p>Your request was an absolute banger.</p></body>
</html>`))
	})

	log.Printf("loomhttp starting on %s with %d connection handler threads", *addr, *threads)
	err := server.ListenAndServe(server.Config{
		Addr:                     *addr,
		ConnectionHandlerThreads: *threads,
		Router:                   rt,
	})
	log.Fatalf("loomhttp: %v", err)
}
