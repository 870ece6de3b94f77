// Package connection talks to a running nsremover-server over HTTP.
package connection
