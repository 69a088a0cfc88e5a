package expense_test

import (
	"context"
	"testing"

	"github.com/starfish/expenses-api/docstore"
	"github.com/starfish/expenses-api/expense"
	"github.com/starfish/expenses-api/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*expense.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	return expense.NewService(store), store
}

func seedUser(t *testing.T, store *memory.Store, id, username string, approved ...string) {
	t.Helper()
	set := make([]any, len(approved))
	for i, p := range approved {
		set[i] = p
	}
	require.NoError(t, store.SetDocument(context.Background(), "users/"+id, map[string]any{
		"username": username,
		"approved": set,
	}))
}

func seedEntry(t *testing.T, store *memory.Store, userID, period, entryID, dayType string, amounts ...float64) {
	t.Helper()
	items := make([]any, len(amounts))
	for i, a := range amounts {
		items[i] = map[string]any{"amount": a, "description": "expense"}
	}
	require.NoError(t, store.SetDocument(context.Background(),
		"users/"+userID+"/"+period+"/"+entryID,
		map[string]any{"dayType": dayType, "expenses": items}))
}

// =============================================================================
// PER-USER AGGREGATION
// =============================================================================

func TestAggregateUser_ApprovedFlagsAndOrdering(t *testing.T) {
	// GIVEN: alice with two periods, only 2024-01 approved
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice", "2024-01")
	seedEntry(t, store, "alice", "2024-02", "e1", "workday", 5)
	seedEntry(t, store, "alice", "2024-01", "e1", "workday", 10, 20)

	// WHEN: aggregating her expenses
	got, err := svc.AggregateUser(context.Background(), "alice")
	require.NoError(t, err)

	// THEN: one entry per period, lexicographic order, correct flags
	assert.Equal(t, "alice", got.Username)
	require.Len(t, got.Periods, 2)
	assert.Equal(t, "2024-01", got.Periods[0].Period)
	assert.True(t, got.Periods[0].Approved)
	assert.Equal(t, "2024-02", got.Periods[1].Period)
	assert.False(t, got.Periods[1].Approved)

	require.Len(t, got.Periods[0].Entries, 1)
	assert.Equal(t, "workday", got.Periods[0].Entries[0].DayType)
}

func TestAggregateUser_NoPeriodsIsNotAnError(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "bob", "bob")

	got, err := svc.AggregateUser(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Empty(t, got.Periods)
	assert.NotNil(t, got.Periods)
}

func TestAggregateUser_MissingUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AggregateUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, docstore.ErrUserNotFound)
}

// =============================================================================
// ALL-USERS AGGREGATION
// =============================================================================

func TestAggregateAll_FlattensAcrossUsers(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice", "2024-01")
	seedEntry(t, store, "alice", "2024-01", "e1", "workday", 10)
	seedEntry(t, store, "alice", "2024-02", "e1", "workday", 5)
	seedUser(t, store, "bob", "bob")
	seedEntry(t, store, "bob", "2024-01", "e1", "weekend", 7)

	got, err := svc.AggregateAll(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "alice/2024-01", got[0].ID)
	assert.True(t, got[0].Approved)
	assert.Equal(t, "alice/2024-02", got[1].ID)
	assert.False(t, got[1].Approved)
	assert.Equal(t, "bob/2024-01", got[2].ID)
	assert.Equal(t, "bob", got[2].Username)
}

func TestAggregateAll_NoUsers(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AggregateAll(context.Background())
	assert.ErrorIs(t, err, docstore.ErrNoUsers)
}

// =============================================================================
// SINGLE-PERIOD FETCH
// =============================================================================

func TestUserMonth_ReturnsRawEntriesWithIDs(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice", "2024-01")
	seedEntry(t, store, "alice", "2024-01", "e1", "workday", 10)

	got, err := svc.UserMonth(context.Background(), "alice", "2024-01")
	require.NoError(t, err)

	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.Approved)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "e1", got.Entries[0]["id"])
	assert.Equal(t, "workday", got.Entries[0]["dayType"])
}

func TestUserMonth_EmptyPeriod(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice")

	_, err := svc.UserMonth(context.Background(), "alice", "2024-03")
	assert.ErrorIs(t, err, docstore.ErrNoExpenseRecords)
}

func TestUserMonth_MissingUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UserMonth(context.Background(), "ghost", "2024-01")
	assert.ErrorIs(t, err, docstore.ErrUserNotFound)
}

// =============================================================================
// NESTED BUNDLE VIEW
// =============================================================================

func TestFetchAll_NestsExpensesByPeriod(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice", "2024-01")
	seedEntry(t, store, "alice", "2024-01", "e1", "workday", 10)
	seedEntry(t, store, "alice", "2024-02", "e1", "weekend", 5)

	got, err := svc.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].ID)
	assert.Equal(t, []string{"2024-01"}, got[0].Approved)
	require.Len(t, got[0].Expenses, 2)
	assert.Len(t, got[0].Expenses["2024-01"], 1)
	assert.Equal(t, "weekend", got[0].Expenses["2024-02"][0].DayType)
}

func TestFetchAll_EmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
