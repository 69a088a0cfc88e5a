package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/starfish/expenses-api/docstore"
	"github.com/starfish/expenses-api/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetDocument(ctx, "users/alice", map[string]any{
		"username": "alice",
		"approved": []any{"2024-01"},
	}))

	doc, err := s.GetDocument(ctx, "users/alice")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "alice", doc.ID)
	assert.Equal(t, "alice", doc.Data["username"])
	assert.Equal(t, []any{"2024-01"}, doc.Data["approved"])
}

func TestGetDocument_Missing(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.GetDocument(context.Background(), "users/ghost")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestHierarchyListing(t *testing.T) {
	// GIVEN: one user with entries in two month collections
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetDocument(ctx, "users/alice", map[string]any{"username": "alice"}))
	require.NoError(t, s.SetDocument(ctx, "users/alice/2024-02/e1", map[string]any{"dayType": "workday"}))
	require.NoError(t, s.SetDocument(ctx, "users/alice/2024-01/e2", map[string]any{"dayType": "weekend"}))
	require.NoError(t, s.SetDocument(ctx, "users/alice/2024-01/e1", map[string]any{"dayType": "workday"}))

	// WHEN/THEN: collections sorted, documents sorted, root collection intact
	colls, err := s.ListCollections(ctx, "users/alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02"}, colls)

	docs, err := s.ListDocuments(ctx, "users/alice/2024-01")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "e1", docs[0].ID)
	assert.Equal(t, "e2", docs[1].ID)

	users, err := s.ListDocuments(ctx, "users")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].ID)
}

func TestSetMembershipToggle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetDocument(ctx, "users/alice", map[string]any{"username": "alice"}))

	require.NoError(t, s.AddToSet(ctx, "users/alice", "approved", "2024-01"))
	require.NoError(t, s.AddToSet(ctx, "users/alice", "approved", "2024-01"))
	require.NoError(t, s.AddToSet(ctx, "users/alice", "approved", "2024-02"))

	doc, err := s.GetDocument(ctx, "users/alice")
	require.NoError(t, err)
	assert.Equal(t, []any{"2024-01", "2024-02"}, doc.Data["approved"])

	require.NoError(t, s.RemoveFromSet(ctx, "users/alice", "approved", "2024-01"))
	doc, err = s.GetDocument(ctx, "users/alice")
	require.NoError(t, err)
	assert.Equal(t, []any{"2024-02"}, doc.Data["approved"])
}

func TestAddToSet_MissingDocument(t *testing.T) {
	s := newTestStore(t)

	err := s.AddToSet(context.Background(), "users/ghost", "approved", "2024-01")
	assert.ErrorIs(t, err, docstore.ErrDocumentNotFound)
}
