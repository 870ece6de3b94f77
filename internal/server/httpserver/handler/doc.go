// Package handler provides the HTTP endpoints of nsremover-server.
//
// Every JSON response uses the Response envelope. Operations are invoked
// through POST /v1/invoke/{operation} and routed by service.Dispatcher.
package handler
