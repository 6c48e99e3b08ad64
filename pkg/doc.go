// Package pkg contains all the sub-packages for the casekeeper application.
//
// The packages are organized by responsibility:
//
// [github.com/casekeeper/casekeeper/pkg/casekeeper] - Core application logic,
// command orchestration, and HTTP handlers. Wires the store, token service,
// and router together and owns the server lifecycle.
//
// [github.com/casekeeper/casekeeper/pkg/models] - Domain entities, business
// rules, and typed IDs. Defines journal entries, violation logs, documents,
// calendar events, contacts, children, share tokens, and permission levels.
//
// [github.com/casekeeper/casekeeper/pkg/auth] - Password hashing and the
// bearer-token service used by the authorization gate.
//
// [github.com/casekeeper/casekeeper/pkg/store] - Data persistence layer
// abstraction with the [github.com/casekeeper/casekeeper/pkg/store.Store]
// interface. Every record is scoped to its owning user at the store level.
//
// [github.com/casekeeper/casekeeper/pkg/store/surrealdb] - SurrealDB
// implementation using native SurrealQL without ORM abstractions.
//
// [github.com/casekeeper/casekeeper/pkg/store/postgres] - PostgreSQL
// implementation using GORM for relational data operations.
//
// [github.com/casekeeper/casekeeper/pkg/store/memory] - In-memory
// implementation for tests and local development.
//
// [github.com/casekeeper/casekeeper/pkg/client] - HTTP client library for
// programmatic access to the casekeeper API.
//
// [github.com/casekeeper/casekeeper/pkg/casekeepertesting] - Testing
// utilities, including virtual user simulations for end-to-end and smoke
// testing.
//
// The dependency flow:
//
//	casekeeper → store, models, auth
//	store/surrealdb, store/postgres, store/memory → store, models
//	client → models
//	casekeepertesting → client, models
package pkg
