/*
Package firestore adapts Cloud Firestore to docstore.Store.

This is the production backend: the same hierarchical document model the
port describes, so the mapping is direct. NotFound responses from the
service become (nil, nil) document reads; set toggles map to the native
ArrayUnion/ArrayRemove field transforms, which are atomic server-side.

Credentials come from the service-account JSON assembled by the config
package and are passed in via option.WithCredentialsJSON.
*/
package firestore

import (
	"context"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/starfish/expenses-api/docstore"
)

// Store implements docstore.Store against a Firestore project.
type Store struct {
	client *gfs.Client
}

// New connects to Firestore for the given project.
func New(ctx context.Context, projectID string, opts ...option.ClientOption) (*Store, error) {
	client, err := gfs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect firestore project %s: %w", projectID, err)
	}
	return &Store{client: client}, nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) GetDocument(ctx context.Context, path string) (*docstore.Document, error) {
	if err := docstore.ValidateDocumentPath(path); err != nil {
		return nil, err
	}

	snap, err := s.client.Doc(path).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", path, err)
	}
	return &docstore.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Store) ListCollections(ctx context.Context, docPath string) ([]string, error) {
	if err := docstore.ValidateDocumentPath(docPath); err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	it := s.client.Doc(docPath).Collections(ctx)
	for {
		col, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list collections of %s: %w", docPath, err)
		}
		ids = append(ids, col.ID)
	}
	return ids, nil
}

func (s *Store) ListDocuments(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	if err := docstore.ValidateCollectionPath(collectionPath); err != nil {
		return nil, err
	}

	snaps, err := s.client.Collection(collectionPath).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", collectionPath, err)
	}

	docs := make([]docstore.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, docstore.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *Store) AddToSet(ctx context.Context, docPath, field string, values ...any) error {
	return s.updateSet(ctx, docPath, field, gfs.ArrayUnion(values...))
}

func (s *Store) RemoveFromSet(ctx context.Context, docPath, field string, values ...any) error {
	return s.updateSet(ctx, docPath, field, gfs.ArrayRemove(values...))
}

func (s *Store) updateSet(ctx context.Context, docPath, field string, transform any) error {
	if err := docstore.ValidateDocumentPath(docPath); err != nil {
		return err
	}

	_, err := s.client.Doc(docPath).Update(ctx, []gfs.Update{{Path: field, Value: transform}})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %s", docstore.ErrDocumentNotFound, docPath)
	}
	if err != nil {
		return fmt.Errorf("update %s on %s: %w", field, docPath, err)
	}
	return nil
}
