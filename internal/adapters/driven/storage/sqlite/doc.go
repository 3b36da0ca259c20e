// Package sqlite provides a SQLite-backed implementation of the
// ConversationStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Conversations,
// chat messages and uploaded-file records share a single database
// connection; messages and file records cascade on conversation delete.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory and applied on open.
//
// # Data Location
//
// By default, the database is stored at ~/.docuverse/data/docuverse.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
