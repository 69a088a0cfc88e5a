/*
Package docstore defines the port to the hierarchical document database.

PURPOSE:
  The rest of the system only knows this interface. Documents hold loosely
  typed fields and are organized into named collections; collections nest
  under documents. Concrete adapters live in store/firestore (production),
  store/sqlite (local development) and store/memory (tests).

PATHS:
  Paths are slash-separated segment lists, Firestore style:
    users                     collection (odd segment count)
    users/alice               document   (even segment count)
    users/alice/2024-01       collection of expense entries
    users/alice/2024-01/e1    one expense entry

ATOMIC SET OPERATIONS:
  AddToSet/RemoveFromSet toggle membership of values in an array-valued
  field as a single store operation. Approving month A must never clobber a
  concurrent approval of month B on the same user, so adapters must not
  implement these as unguarded read-modify-write of the whole field.

SEE ALSO:
  - errors.go: error taxonomy shared by adapters and domain code
  - expense/service.go: the main consumer of this interface
*/
package docstore

import (
	"context"
	"fmt"
	"strings"
)

// Document is one stored document: its id (last path segment) and fields.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the read/toggle surface the application needs.
// GetDocument returns (nil, nil) when the document does not exist.
type Store interface {
	GetDocument(ctx context.Context, path string) (*Document, error)
	ListCollections(ctx context.Context, docPath string) ([]string, error)
	ListDocuments(ctx context.Context, collectionPath string) ([]Document, error)
	AddToSet(ctx context.Context, docPath, field string, values ...any) error
	RemoveFromSet(ctx context.Context, docPath, field string, values ...any) error
}

// SplitPath splits a path into segments, rejecting empty segments.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return segs, nil
}

// ValidateDocumentPath checks that path addresses a document
// (even, non-zero number of segments).
func ValidateDocumentPath(path string) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segs)%2 != 0 {
		return fmt.Errorf("%w: %q is not a document path", ErrInvalidPath, path)
	}
	return nil
}

// ValidateCollectionPath checks that path addresses a collection
// (odd number of segments).
func ValidateCollectionPath(path string) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segs)%2 != 1 {
		return fmt.Errorf("%w: %q is not a collection path", ErrInvalidPath, path)
	}
	return nil
}

// SplitCollectionPath splits a collection path into its parent document path
// ("" for a root collection) and the collection id.
func SplitCollectionPath(path string) (parent, collection string, err error) {
	if err := ValidateCollectionPath(path); err != nil {
		return "", "", err
	}
	segs, _ := SplitPath(path)
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], nil
}

// SplitDocumentPath splits a document path into its collection path and
// document id.
func SplitDocumentPath(path string) (collection, id string, err error) {
	if err := ValidateDocumentPath(path); err != nil {
		return "", "", err
	}
	segs, _ := SplitPath(path)
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], nil
}
