/*
dto.go - Wire types for API responses

The JSON field names are the API contract consumed by the frontend; they
decouple the domain types in expense/ from what goes over the wire.
Decimal summary amounts become plain JSON numbers here.
*/
package api

import (
	"github.com/starfish/expenses-api/expense"
)

// EntryDTO is one expense document projected to its category and raw
// line items.
type EntryDTO struct {
	DayType  string `json:"dayType"`
	Expenses any    `json:"expenses"`
}

// UserPeriodDTO is one period of one user's expenses.
type UserPeriodDTO struct {
	Username string     `json:"username"`
	Month    string     `json:"month"`
	Approved bool       `json:"approved"`
	Expenses []EntryDTO `json:"expenses"`
}

// PeriodStatusDTO is one row of the flattened all-users view.
type PeriodStatusDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Month    string `json:"month"`
	Approved bool   `json:"approved"`
}

// MonthDetailDTO is the single-period view with raw entry fields.
type MonthDetailDTO struct {
	Expenses   []map[string]any `json:"expenses"`
	IsApproved bool             `json:"isApproved"`
	UserName   string           `json:"userName"`
}

// SummaryDTO carries the cross-user totals.
type SummaryDTO struct {
	TotalExpenses    float64 `json:"totalExpenses"`
	ApprovedExpenses float64 `json:"approvedExpenses"`
	RejectedExpenses float64 `json:"rejectedExpenses"`
}

// UserBundleDTO is the per-user nested view of /fetchExpenses.
type UserBundleDTO struct {
	ID       string                `json:"id"`
	Username string                `json:"username"`
	Approved []string              `json:"approved"`
	Expenses map[string][]EntryDTO `json:"expenses"`
}

// MessageResponse is a simple confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEntryDTOs(entries []expense.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = EntryDTO{DayType: e.DayType, Expenses: e.Items}
	}
	return dtos
}

func toUserPeriodDTOs(ue *expense.UserExpenses) []UserPeriodDTO {
	dtos := make([]UserPeriodDTO, len(ue.Periods))
	for i, p := range ue.Periods {
		dtos[i] = UserPeriodDTO{
			Username: ue.Username,
			Month:    p.Period,
			Approved: p.Approved,
			Expenses: toEntryDTOs(p.Entries),
		}
	}
	return dtos
}

func toPeriodStatusDTOs(rows []expense.PeriodStatus) []PeriodStatusDTO {
	dtos := make([]PeriodStatusDTO, len(rows))
	for i, r := range rows {
		dtos[i] = PeriodStatusDTO{ID: r.ID, Username: r.Username, Month: r.Period, Approved: r.Approved}
	}
	return dtos
}

func toSummaryDTO(s *expense.Summary) SummaryDTO {
	return SummaryDTO{
		TotalExpenses:    s.Total.InexactFloat64(),
		ApprovedExpenses: s.Approved.InexactFloat64(),
		RejectedExpenses: s.Rejected.InexactFloat64(),
	}
}

func toUserBundleDTOs(bundles []expense.UserBundle) []UserBundleDTO {
	dtos := make([]UserBundleDTO, len(bundles))
	for i, b := range bundles {
		expenses := make(map[string][]EntryDTO, len(b.Expenses))
		for period, entries := range b.Expenses {
			expenses[period] = toEntryDTOs(entries)
		}
		approved := b.Approved
		if approved == nil {
			approved = []string{}
		}
		dtos[i] = UserBundleDTO{ID: b.ID, Username: b.Username, Approved: approved, Expenses: expenses}
	}
	return dtos
}
