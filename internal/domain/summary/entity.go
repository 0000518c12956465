package summary

import "time"

// MonthlyOverride is an admin-approved correction to a user's monthly totals.
// When several exist for the same (user, month), the latest approved_at wins,
// falling back to created_at.
type MonthlyOverride struct {
	ID            string
	OrgID         string
	UserID        string
	Year          int
	Month         int
	SourceBatchID *string
	Payload       OverridePayload
	ApprovedBy    *string
	ApprovedAt    *time.Time
	CreatedAt     time.Time
}

// OverridePayload fields are nullable: a present field replaces the
// system-computed number even at zero, an absent field falls back to it.
// OvertimeHours is additive to system effective hours, never a replacement.
type OverridePayload struct {
	PresentDays     *float64 `json:"present_days,omitempty"`
	LOPDays         *float64 `json:"lop_days,omitempty"`
	PaidLeaves      *float64 `json:"paid_leaves,omitempty"`
	Holidays        *int     `json:"holidays,omitempty"`
	WeeklyOffs      *int     `json:"weekly_offs,omitempty"`
	OvertimeHours   *float64 `json:"overtime_hours,omitempty"`
	LateOccurrences *int     `json:"late_occurrences,omitempty"`
	EarlyOuts       *int     `json:"early_outs,omitempty"`
	Remarks         *string  `json:"remarks,omitempty"`
}
