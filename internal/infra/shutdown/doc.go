// Package shutdown coordinates graceful process termination.
//
// Components register hooks with OnShutdown. Wait blocks until SIGINT,
// SIGTERM, Trigger or context cancellation, then runs the hooks in reverse
// registration order under a shared timeout.
package shutdown
