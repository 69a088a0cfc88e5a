/*
Package sqlite provides a SQLite-backed implementation of docstore.Store.

PURPOSE:
  Local development backend. Documents are rows keyed by their full path,
  with fields stored as a JSON blob. The hierarchy is derived from the
  path, so listing subcollections and collection documents are plain
  indexed queries.

SCHEMA:
  documents:
    path          full document path (primary key), e.g. users/alice/2024-01/e1
    parent_path   owning document path ("" for root-collection documents)
    collection_id collection segment the document sits in
    doc_id        last path segment
    data          JSON-encoded fields

SET OPERATIONS:
  AddToSet/RemoveFromSet run the read-modify-write of the array field
  inside one SQL transaction, guarded by a mutex (SQLite allows a single
  writer), so concurrent toggles of different values cannot lose updates.

WAL MODE:
  Opened with WAL so readers don't block during writes.

USAGE:
  store, err := sqlite.New("./data/expenses.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - docstore/docstore.go: interface definition
  - store/memory/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/starfish/expenses-api/docstore"
)

// Store implements docstore.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		path          TEXT PRIMARY KEY,
		parent_path   TEXT NOT NULL,
		collection_id TEXT NOT NULL,
		doc_id        TEXT NOT NULL,
		data          TEXT NOT NULL
	);

	-- Hot path: subcollection and collection listings
	CREATE INDEX IF NOT EXISTS idx_documents_parent_collection
		ON documents(parent_path, collection_id, doc_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SetDocument creates or replaces a document. Not part of the docstore
// port; used for seeding local data.
func (s *Store) SetDocument(ctx context.Context, path string, data map[string]any) error {
	collPath, id, err := docstore.SplitDocumentPath(path)
	if err != nil {
		return err
	}
	parent, collection, err := docstore.SplitCollectionPath(collPath)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (path, parent_path, collection_id, doc_id, data)
		VALUES (?, ?, ?, ?, ?)`,
		path, parent, collection, id, string(blob))
	return err
}

func (s *Store) GetDocument(ctx context.Context, path string) (*docstore.Document, error) {
	if err := docstore.ValidateDocumentPath(path); err != nil {
		return nil, err
	}

	var id, blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc_id, data FROM documents WHERE path = ?`, path).Scan(&id, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", path, err)
	}

	data, err := decodeFields(blob)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", path, err)
	}
	return &docstore.Document{ID: id, Data: data}, nil
}

func (s *Store) ListCollections(ctx context.Context, docPath string) ([]string, error) {
	if err := docstore.ValidateDocumentPath(docPath); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT collection_id FROM documents
		WHERE parent_path = ? ORDER BY collection_id`, docPath)
	if err != nil {
		return nil, fmt.Errorf("list collections of %s: %w", docPath, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ListDocuments(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	parent, collection, err := docstore.SplitCollectionPath(collectionPath)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, data FROM documents
		WHERE parent_path = ? AND collection_id = ? ORDER BY doc_id`,
		parent, collection)
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", collectionPath, err)
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var id, blob string
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		data, err := decodeFields(blob)
		if err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", collectionPath, id, err)
		}
		docs = append(docs, docstore.Document{ID: id, Data: data})
	}
	return docs, rows.Err()
}

func (s *Store) AddToSet(ctx context.Context, docPath, field string, values ...any) error {
	return s.updateSet(ctx, docPath, field, values, true)
}

func (s *Store) RemoveFromSet(ctx context.Context, docPath, field string, values ...any) error {
	return s.updateSet(ctx, docPath, field, values, false)
}

func (s *Store) updateSet(ctx context.Context, docPath, field string, values []any, add bool) error {
	if err := docstore.ValidateDocumentPath(docPath); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var blob string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE path = ?`, docPath).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", docstore.ErrDocumentNotFound, docPath)
	}
	if err != nil {
		return fmt.Errorf("read document %s: %w", docPath, err)
	}

	data, err := decodeFields(blob)
	if err != nil {
		return fmt.Errorf("decode document %s: %w", docPath, err)
	}

	current, _ := data[field].([]any)
	for _, v := range values {
		idx := -1
		for i, existing := range current {
			if existing == v {
				idx = i
				break
			}
		}
		switch {
		case add && idx < 0:
			current = append(current, v)
		case !add && idx >= 0:
			current = append(current[:idx], current[idx+1:]...)
		}
	}
	data[field] = current

	updated, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", docPath, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE path = ?`, string(updated), docPath); err != nil {
		return fmt.Errorf("update document %s: %w", docPath, err)
	}
	return tx.Commit()
}

func decodeFields(blob string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, err
	}
	return data, nil
}
