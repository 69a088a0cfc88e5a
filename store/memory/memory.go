// Package memory provides an in-memory docstore.Store for tests and the
// "memory" backend. Reads return deep copies so callers cannot mutate
// stored state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/starfish/expenses-api/docstore"
)

type Store struct {
	mu   sync.RWMutex
	docs map[string]map[string]any // document path -> fields
}

func New() *Store {
	return &Store{docs: make(map[string]map[string]any)}
}

// SetDocument creates or replaces a document. Not part of the docstore port;
// used for seeding tests and demo data.
func (s *Store) SetDocument(ctx context.Context, path string, data map[string]any) error {
	if err := docstore.ValidateDocumentPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = cloneMap(data)
	return nil
}

// DeleteDocument removes a document if present.
func (s *Store) DeleteDocument(ctx context.Context, path string) error {
	if err := docstore.ValidateDocumentPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	return nil
}

func (s *Store) GetDocument(ctx context.Context, path string) (*docstore.Document, error) {
	if err := docstore.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	_, id, _ := docstore.SplitDocumentPath(path)
	return &docstore.Document{ID: id, Data: cloneMap(data)}, nil
}

func (s *Store) ListCollections(ctx context.Context, docPath string) ([]string, error) {
	if err := docstore.ValidateDocumentPath(docPath); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	depth := len(strings.Split(docPath, "/"))
	prefix := docPath + "/"
	seen := make(map[string]bool)
	for path := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		segs := strings.Split(path, "/")
		if len(segs) == depth+2 { // direct child document
			seen[segs[depth]] = true
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) ListDocuments(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collectionPath); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	depth := len(strings.Split(collectionPath, "/"))
	prefix := collectionPath + "/"
	var docs []docstore.Document
	for path, data := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		segs := strings.Split(path, "/")
		if len(segs) == depth+1 {
			docs = append(docs, docstore.Document{ID: segs[depth], Data: cloneMap(data)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *Store) AddToSet(ctx context.Context, docPath, field string, values ...any) error {
	return s.updateSet(docPath, field, values, true)
}

func (s *Store) RemoveFromSet(ctx context.Context, docPath, field string, values ...any) error {
	return s.updateSet(docPath, field, values, false)
}

// updateSet performs the whole membership toggle under the write lock, so
// concurrent toggles of different values cannot lose each other's update.
func (s *Store) updateSet(docPath, field string, values []any, add bool) error {
	if err := docstore.ValidateDocumentPath(docPath); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.docs[docPath]
	if !ok {
		return fmt.Errorf("%w: %s", docstore.ErrDocumentNotFound, docPath)
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
	return nil
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
