// Package models defines the entity types shared by every layer of
// casekeeper: typed UUID identifiers, the owned-resource records (children,
// journals, violations, documents, calendar events, contacts), user accounts,
// and share tokens.
//
// Every entity carries the marshaling needed by each storage backend: JSON
// for the HTTP API, CBOR tag 8 record IDs for SurrealDB, and
// database/sql Valuer/Scanner implementations for PostgreSQL via GORM.
//
// Owned resources embed their owner's UserID at creation; the field is never
// reassigned. Stores filter every read, update, and delete by both the
// resource ID and that owner ID, so cross-user access cannot happen
// structurally.
package models
