package expense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/starfish/expenses-api/docstore"
)

// Summary walks every user, period and line item, accumulating amounts
// into total/approved/rejected buckets by approved-set membership.
// Accumulation uses decimal arithmetic so many small additions don't lose
// precision; conversion to float happens only at the API boundary.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	users, err := s.store.ListDocuments(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		return nil, docstore.ErrNoUsers
	}

	sum := &Summary{}
	for _, doc := range users {
		rec := userFromDoc(doc)
		approved := rec.approvedSet()

		periods, err := s.store.ListCollections(ctx, userDocPath(rec.ID))
		if err != nil {
			return nil, fmt.Errorf("list periods of %s: %w", rec.ID, err)
		}
		sort.Strings(periods)

		for _, period := range periods {
			entries, err := s.store.ListDocuments(ctx, periodPath(rec.ID, period))
			if err != nil {
				return nil, fmt.Errorf("list expenses of %s/%s: %w", rec.ID, period, err)
			}
			for _, entry := range entries {
				amounts, err := entryAmounts(entry.Data[fieldExpenses])
				if err != nil {
					return nil, fmt.Errorf("expense entry %s/%s/%s: %w", rec.ID, period, entry.ID, err)
				}
				for _, amt := range amounts {
					sum.Total = sum.Total.Add(amt)
					if approved[period] {
						sum.Approved = sum.Approved.Add(amt)
					} else {
						sum.Rejected = sum.Rejected.Add(amt)
					}
				}
			}
		}
	}
	return sum, nil
}

// entryAmounts extracts the amount of each line item in an entry's
// expenses field. A missing field means no line items; a malformed field
// or a non-numeric amount is an error rather than a silent zero.
func entryAmounts(raw any) ([]decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expenses field is %T, want a list", raw)
	}

	amounts := make([]decimal.Decimal, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("line item %d is %T, want an object", i, item)
		}
		amt, err := amountOf(fields["amount"])
		if err != nil {
			return nil, fmt.Errorf("line item %d: %w", i, err)
		}
		amounts = append(amounts, amt)
	}
	return amounts, nil
}

// amountOf coerces the loosely typed amount field to a decimal. Numeric
// types and numeric strings are accepted; anything else is rejected
// explicitly instead of propagating as a silent NaN or zero.
func amountOf(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("non-numeric amount %q", n)
		}
		return d, nil
	case nil:
		return decimal.Decimal{}, errors.New("missing amount")
	default:
		return decimal.Decimal{}, fmt.Errorf("non-numeric amount of type %T", v)
	}
}
