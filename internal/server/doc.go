// Package server provides the HTTP presentation layer for quickpoll.
//
// This package is internal to quickpoll and handles all HTTP concerns:
//
//   - Page serving: the embedded single-page UI at "/"
//   - Poll API: list, create and fetch polls under "/api/polls"
//   - Session API: join, vote and current poll under "/api/session"
//   - Health: "/healthz"
//
// Every browser gets its own poll.Session, identified by a cookie holding a
// random UUID. Domain errors map to 400 (validation), 404 (not found),
// 409 (invalid session state) and 500, each with a JSON {error, message}
// body the page shows as a notification.
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests. It is started automatically by
// [quickpoll.QuickPoll.Start].
package server
