// Package httpserver exposes the dispatcher over HTTP.
//
// Routes:
//
//	POST /v1/invoke/{operation}   run Ping or DeleteState
//	GET  /health                  registry status and build info
//	GET  /metrics                 Prometheus exposition
package httpserver
