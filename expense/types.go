package expense

import "github.com/shopspring/decimal"

// UserExpenses is one user's expenses grouped by period.
type UserExpenses struct {
	Username string
	Periods  []PeriodExpenses
}

// PeriodExpenses holds one period's entries and its approval state.
type PeriodExpenses struct {
	Period   string
	Approved bool
	Entries  []Entry
}

// Entry is one expense document projected to its category and raw line
// items (a list of {amount, ...} maps as stored).
type Entry struct {
	DayType string
	Items   any
}

// PeriodStatus is the flattened all-users view: one row per user/period.
type PeriodStatus struct {
	ID       string // "<userID>/<period>"
	Username string
	Period   string
	Approved bool
}

// MonthDetail is the single-period view: each entry carries its raw
// stored fields plus its document id under "id".
type MonthDetail struct {
	Username string
	Approved bool
	Entries  []map[string]any
}

// UserBundle is the per-user nested view served by /fetchExpenses.
type UserBundle struct {
	ID       string
	Username string
	Approved []string
	Expenses map[string][]Entry
}

// Summary partitions every line-item amount into approved and rejected
// buckets by period membership. Total = Approved + Rejected exactly.
type Summary struct {
	Total    decimal.Decimal
	Approved decimal.Decimal
	Rejected decimal.Decimal
}
