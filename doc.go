// Package casekeeper is the root of a record-keeping backend for personal
// case documentation: journal entries, violation logs, calendar events,
// contacts, children, file attachments, and time-limited external sharing
// links.
//
// # Architecture Overview
//
//   - Multi-Backend Storage: the [github.com/casekeeper/casekeeper/pkg/store.Store]
//     interface abstracts a SurrealDB document backend, a PostgreSQL backend
//     (GORM), and an in-memory store used by tests and development.
//   - Ownership Scoping: every record carries its owner's ID and every
//     store query filters on it, so another user's records are
//     indistinguishable from records that do not exist.
//   - Token Authentication: stateless HS256 session tokens issued on login,
//     validated by middleware on every request.
//   - Share Links: unguessable secrets grant read-only, time-limited access
//     to selected record categories without an account.
//
// The HTTP layer lives in [github.com/casekeeper/casekeeper/pkg/casekeeper];
// the typed client for the API is
// [github.com/casekeeper/casekeeper/pkg/client]. The binary entry point is
// cmd/casekeeper.
package casekeeper
