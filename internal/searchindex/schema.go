// Package searchindex implements the relational/FTS5 search index
// (spec.md §4.8): decision/pattern/transfer full-text tables, an access
// log driving reinforcement, an embeddings table for semantic search,
// and a mirror of the knowledge graph for graph-expanded queries.
//
// The index is built on github.com/ncruces/go-sqlite3, a pure-Go (no
// cgo) SQLite driver, matching the teacher's preference for
// dependency-light, statically linkable storage backends.
package searchindex

import (
	"database/sql"
	"sync/atomic"

	_ "github.com/ncruces/go-sqlite3/driver" // registers the "sqlite3" database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // embeds the WASM SQLite runtime

	"github.com/lore-dev/lore/internal/loreerr"
)

const driverName = "sqlite3"

// rebuildFTSTables drops and recreates the three full-text tables, the
// first step of an idempotent Build (spec.md §4.8 "Ingest").
var rebuildFTSTables = []string{
	`DROP TABLE IF EXISTS decisions`,
	`DROP TABLE IF EXISTS patterns`,
	`DROP TABLE IF EXISTS transfers`,
	`CREATE VIRTUAL TABLE decisions USING fts5(content, record_id UNINDEXED, project UNINDEXED, ts UNINDEXED, importance UNINDEXED)`,
	`CREATE VIRTUAL TABLE patterns USING fts5(content, record_id UNINDEXED, project UNINDEXED, ts UNINDEXED, importance UNINDEXED)`,
	`CREATE VIRTUAL TABLE transfers USING fts5(content, record_id UNINDEXED, project UNINDEXED, ts UNINDEXED, importance UNINDEXED)`,
}

// Store wraps the search index's SQLite connection.
type Store struct {
	db    *sql.DB
	dirty atomic.Bool
}

// Open opens (creating if absent) the SQLite database at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, loreerr.Wrap(loreerr.KindFatal, "searchindex.open", "open sqlite database", err)
	}
	db.SetMaxOpenConns(1) // single-writer model (spec.md §5); avoids SQLITE_BUSY under our own file lock
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS access_log (record_type TEXT NOT NULL, record_id TEXT NOT NULL, accessed_at INTEGER NOT NULL, query_text TEXT)`,
		`CREATE INDEX IF NOT EXISTS idx_access_log_record ON access_log(record_type, record_id)`,
		`CREATE TABLE IF NOT EXISTS embeddings (record_type TEXT NOT NULL, record_id TEXT NOT NULL, content_text TEXT NOT NULL, embedding BLOB NOT NULL, created_at INTEGER NOT NULL, PRIMARY KEY (record_type, record_id))`,
		`CREATE TABLE IF NOT EXISTS graph_nodes (id TEXT PRIMARY KEY, type TEXT NOT NULL, name TEXT NOT NULL, data TEXT, created_at INTEGER)`,
		`CREATE TABLE IF NOT EXISTS graph_edges (from_id TEXT NOT NULL, to_id TEXT NOT NULL, relation TEXT NOT NULL, weight REAL NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS idx_graph_edges_from ON graph_edges(from_id)`,
		`CREATE INDEX IF NOT EXISTS idx_graph_edges_to ON graph_edges(to_id)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS decisions USING fts5(content, record_id UNINDEXED, project UNINDEXED, ts UNINDEXED, importance UNINDEXED)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS patterns USING fts5(content, record_id UNINDEXED, project UNINDEXED, ts UNINDEXED, importance UNINDEXED)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS transfers USING fts5(content, record_id UNINDEXED, project UNINDEXED, ts UNINDEXED, importance UNINDEXED)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return loreerr.Wrap(loreerr.KindFatal, "searchindex.ensureSchema", "apply schema statement", err)
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// MarkDirty satisfies journal.SearchNotifier and graph's save() hook.
// Every record write flips this flag; retrieval.Engine.Query consults
// IsDirty and triggers a rebuild before querying a stale index, then
// ClearDirty resets it (spec.md §4.9 "rebuild on demand" fail-open path).
func (s *Store) MarkDirty() { s.dirty.Store(true) }

// IsDirty reports whether a write has landed since the last ClearDirty.
func (s *Store) IsDirty() bool { return s.dirty.Load() }

// ClearDirty resets the dirty flag, called after a rebuild completes.
func (s *Store) ClearDirty() { s.dirty.Store(false) }
