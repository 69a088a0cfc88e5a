/*
service.go - Expense aggregation over the document store

PURPOSE:
  Implements the read-side domain operations: per-user aggregation, the
  flattened all-users view, the single-period fetch and the /fetchExpenses
  bundle. Write-side approval toggling lives in approval.go, totals in
  summary.go.

DATA LAYOUT:
  users/<userID>                user document: username, approved []period
  users/<userID>/<period>/<id>  expense entry: dayType, expenses []{amount,...}

  The subcollection-per-period layout is the canonical shape; every
  operation here walks it. Period ids are sorted lexicographically before
  emission so responses are deterministic regardless of store enumeration
  order (year-month strings sort chronologically).

ERRORS:
  Absent user documents surface as docstore.ErrUserNotFound; an empty users
  collection as docstore.ErrNoUsers. Store failures pass through wrapped.

SEE ALSO:
  - approval.go: approved-set mutation
  - summary.go: cross-user totals
  - api/handlers.go: HTTP mapping
*/
package expense

import (
	"context"
	"fmt"
	"sort"

	"github.com/starfish/expenses-api/docstore"
)

const (
	usersCollection = "users"
	fieldUsername   = "username"
	fieldApproved   = "approved"
	fieldDayType    = "dayType"
	fieldExpenses   = "expenses"
)

// Service exposes the expense operations on top of a document store.
type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// AggregateUser returns one user's expenses grouped by period, each period
// flagged with its membership in the user's approved set. A user with no
// period collections yields an empty (non-nil) period list.
func (s *Service) AggregateUser(ctx context.Context, userID string) (*UserExpenses, error) {
	rec, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	approved := rec.approvedSet()

	periods, err := s.store.ListCollections(ctx, userDocPath(userID))
	if err != nil {
		return nil, fmt.Errorf("list periods of %s: %w", userID, err)
	}
	sort.Strings(periods)

	out := &UserExpenses{Username: rec.Username, Periods: make([]PeriodExpenses, 0, len(periods))}
	for _, period := range periods {
		docs, err := s.store.ListDocuments(ctx, periodPath(userID, period))
		if err != nil {
			return nil, fmt.Errorf("list expenses of %s/%s: %w", userID, period, err)
		}
		out.Periods = append(out.Periods, PeriodExpenses{
			Period:   period,
			Approved: approved[period],
			Entries:  projectEntries(docs),
		})
	}
	return out, nil
}

// AggregateAll flattens every user's periods into one sequence ordered by
// user id, then period. Returns docstore.ErrNoUsers when the users
// collection is empty.
func (s *Service) AggregateAll(ctx context.Context) ([]PeriodStatus, error) {
	users, err := s.store.ListDocuments(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, docstore.ErrNoUsers
	}

	var out []PeriodStatus
	for _, doc := range users {
		rec := userFromDoc(doc)
		approved := rec.approvedSet()

		periods, err := s.store.ListCollections(ctx, userDocPath(rec.ID))
		if err != nil {
			return nil, fmt.Errorf("list periods of %s: %w", rec.ID, err)
		}
		sort.Strings(periods)
		for _, period := range periods {
			out = append(out, PeriodStatus{
				ID:       rec.ID + "/" + period,
				Username: rec.Username,
				Period:   period,
				Approved: approved[period],
			})
		}
	}
	return out, nil
}

// UserMonth returns the raw expense entries of one user's period. An empty
// period collection is reported as docstore.ErrNoExpenseRecords, distinct
// from an absent user.
func (s *Service) UserMonth(ctx context.Context, userID, period string) (*MonthDetail, error) {
	rec, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.ListDocuments(ctx, periodPath(userID, period))
	if err != nil {
		return nil, fmt.Errorf("list expenses of %s/%s: %w", userID, period, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", docstore.ErrNoExpenseRecords, userID, period)
	}

	entries := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		fields := doc.Data
		if fields == nil {
			fields = map[string]any{}
		}
		fields["id"] = doc.ID
		entries = append(entries, fields)
	}

	return &MonthDetail{
		Username: rec.Username,
		Approved: rec.approvedSet()[period],
		Entries:  entries,
	}, nil
}

// FetchAll returns every user with their expenses nested in a map keyed by
// period. An empty store yields an empty list, not an error.
func (s *Service) FetchAll(ctx context.Context) ([]UserBundle, error) {
	users, err := s.store.ListDocuments(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]UserBundle, 0, len(users))
	for _, doc := range users {
		rec := userFromDoc(doc)
		bundle := UserBundle{
			ID:       rec.ID,
			Username: rec.Username,
			Approved: rec.Approved,
			Expenses: make(map[string][]Entry),
		}

		periods, err := s.store.ListCollections(ctx, userDocPath(rec.ID))
		if err != nil {
			return nil, fmt.Errorf("list periods of %s: %w", rec.ID, err)
		}
		for _, period := range periods {
			docs, err := s.store.ListDocuments(ctx, periodPath(rec.ID, period))
			if err != nil {
				return nil, fmt.Errorf("list expenses of %s/%s: %w", rec.ID, period, err)
			}
			bundle.Expenses[period] = projectEntries(docs)
		}
		out = append(out, bundle)
	}
	return out, nil
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

type userRecord struct {
	ID       string
	Username string
	Approved []string
}

func (u userRecord) approvedSet() map[string]bool {
	set := make(map[string]bool, len(u.Approved))
	for _, p := range u.Approved {
		set[p] = true
	}
	return set
}

func (s *Service) loadUser(ctx context.Context, userID string) (*userRecord, error) {
	doc, err := s.store.GetDocument(ctx, userDocPath(userID))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", docstore.ErrUserNotFound, userID)
	}
	rec := userFromDoc(*doc)
	return &rec, nil
}

func userFromDoc(doc docstore.Document) userRecord {
	return userRecord{
		ID:       doc.ID,
		Username: stringField(doc.Data, fieldUsername),
		Approved: stringSlice(doc.Data[fieldApproved]),
	}
}

func projectEntries(docs []docstore.Document) []Entry {
	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, Entry{
			DayType: stringField(doc.Data, fieldDayType),
			Items:   doc.Data[fieldExpenses],
		})
	}
	return entries
}

func userDocPath(userID string) string {
	return usersCollection + "/" + userID
}

func periodPath(userID, period string) string {
	return userDocPath(userID) + "/" + period
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// stringSlice reads an array-valued field, tolerating both decoded-JSON
// ([]any) and native []string representations; non-string elements are
// dropped.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
