// Package app wires the read-only web server: configuration, services,
// the chi router with its middleware chain, and the HTTP server lifecycle.
//
// Run serves until its context is cancelled (cmd/web cancels on SIGINT or
// SIGTERM) and then shuts the server down gracefully. Initialization errors
// are returned; the package never calls os.Exit.
package app
