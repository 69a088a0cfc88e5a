package expense

import (
	"context"
	"fmt"
)

// SetApproval toggles membership of period in the user's approved set.
// It returns false without writing when the set already matches the
// requested state, so repeated calls are idempotent.
//
// The write itself is an atomic set-add/set-remove in the store, so a
// concurrent approval of a different period on the same user cannot be
// lost; only the returned changed flag is computed from a prior read.
func (s *Service) SetApproval(ctx context.Context, userID, period string, approve bool) (bool, error) {
	rec, err := s.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if rec.approvedSet()[period] == approve {
		return false, nil
	}

	if approve {
		err = s.store.AddToSet(ctx, userDocPath(userID), fieldApproved, period)
	} else {
		err = s.store.RemoveFromSet(ctx, userDocPath(userID), fieldApproved, period)
	}
	if err != nil {
		return false, fmt.Errorf("update approval for %s/%s: %w", userID, period, err)
	}
	return true, nil
}
