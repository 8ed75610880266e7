package models

import "time"

// Deadline statuses. New deadlines start as pending; the overdue sweeper
// flips pending deadlines past their due date to overdue.
const (
	DeadlineStatusPending = "pending"
	DeadlineStatusDone    = "done"
	DeadlineStatusOverdue = "overdue"
)

// KnownDeadlineStatus reports whether s is a valid deadline status.
func KnownDeadlineStatus(s string) bool {
	switch s {
	case DeadlineStatusPending, DeadlineStatusDone, DeadlineStatusOverdue:
		return true
	}
	return false
}

// DeadlineTemplate is read-only reference data mapping an asset type to a
// titled interval, e.g. ("car", "Insurance renewal", "1 year").
type DeadlineTemplate struct {
	ID                 int    `json:"id"`
	AssetType          string `json:"asset_type"`
	Title              string `json:"title"`
	IntervalExpression string `json:"interval_expression"`
	Recurring          bool   `json:"recurring"`
}

// Deadline is a concrete obligation tied to one asset. RecurringInterval
// holds the parsed template interval in nanoseconds for recurring templates,
// so later regeneration does not have to re-parse the expression.
type Deadline struct {
	ID                int           `json:"id"`
	AssetID           int           `json:"asset_id"`
	TemplateID        int           `json:"template_id"`
	Title             string        `json:"title"`
	DueAt             time.Time     `json:"due_at"`
	Status            string        `json:"status"`
	RecurringInterval time.Duration `json:"recurring_interval,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}
