package expense_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/starfish/expenses-api/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_PartitionsByApproval(t *testing.T) {
	// GIVEN: alice with 2024-01 (10, 20) approved and 2024-02 (5) not
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice", "2024-01")
	seedEntry(t, store, "alice", "2024-01", "e1", "workday", 10, 20)
	seedEntry(t, store, "alice", "2024-02", "e1", "weekend", 5)

	// WHEN: computing the summary
	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	// THEN: total 35, approved 30, rejected 5
	assert.True(t, got.Total.Equal(decimal.NewFromInt(35)), "total = %s", got.Total)
	assert.True(t, got.Approved.Equal(decimal.NewFromInt(30)), "approved = %s", got.Approved)
	assert.True(t, got.Rejected.Equal(decimal.NewFromInt(5)), "rejected = %s", got.Rejected)
}

func TestSummary_TotalEqualsApprovedPlusRejected(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice", "2024-02")
	seedEntry(t, store, "alice", "2024-01", "e1", "workday", 0.1, 0.2)
	seedEntry(t, store, "alice", "2024-02", "e1", "workday", 0.3)
	seedUser(t, store, "bob", "bob")
	seedEntry(t, store, "bob", "2024-01", "e1", "weekend", -2.5, 7)

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.True(t, got.Total.Equal(got.Approved.Add(got.Rejected)),
		"total %s != approved %s + rejected %s", got.Total, got.Approved, got.Rejected)
	// Decimal accumulation keeps 0.1+0.2 exact.
	assert.True(t, got.Approved.Equal(decimal.NewFromFloat(0.3)))
}

func TestSummary_NegativeAndZeroAmountsPassThrough(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice")
	seedEntry(t, store, "alice", "2024-01", "e1", "workday", -10, 0, 4)

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(-6)), "total = %s", got.Total)
	assert.True(t, got.Rejected.Equal(decimal.NewFromInt(-6)))
}

func TestSummary_NoUsers(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, docstore.ErrNoUsers)
}

func TestSummary_EntryWithoutExpensesFieldIsSkipped(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice")
	require.NoError(t, store.SetDocument(context.Background(),
		"users/alice/2024-01/e1", map[string]any{"dayType": "workday"}))
	seedEntry(t, store, "alice", "2024-01", "e2", "workday", 3)

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(3)))
}

func TestSummary_NonNumericAmountRejected(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice")
	require.NoError(t, store.SetDocument(context.Background(),
		"users/alice/2024-01/e1", map[string]any{
			"dayType":  "workday",
			"expenses": []any{map[string]any{"amount": map[string]any{"value": 3}}},
		}))

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric amount")
	assert.False(t, docstore.IsNotFound(err))
}

func TestSummary_NumericStringAmountCoerced(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "alice", "alice")
	require.NoError(t, store.SetDocument(context.Background(),
		"users/alice/2024-01/e1", map[string]any{
			"dayType":  "workday",
			"expenses": []any{map[string]any{"amount": "12.50"}},
		}))

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("12.5")))
}
