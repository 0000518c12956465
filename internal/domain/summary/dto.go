package summary

// Source tags whether a summary row carries system-computed numbers or an
// admin override.
const (
	SourceSystem   = "system"
	SourceOverride = "override"
)

type MonthlySummary struct {
	OrgID  string `json:"org_id"`
	UserID string `json:"user_id"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`

	PresentDays         float64 `json:"present_days"`
	AbsentDays          float64 `json:"absent_days"`
	HalfDayCount        int     `json:"half_day_count"`
	LateDays            int     `json:"late_days"`
	EarlyOutDays        int     `json:"early_out_days"`
	RegularizedDays     int     `json:"regularized_days"`
	WeeklyOffs          int     `json:"weekly_offs"`
	Holidays            int     `json:"holidays"`
	LOPDays             float64 `json:"lop_days"`
	PaidLeaves          float64 `json:"paid_leaves"`
	TotalEffectiveHours float64 `json:"total_effective_hours"`
	OvertimeHours       float64 `json:"overtime_hours"`

	Source  string  `json:"source"`
	Remarks *string `json:"remarks,omitempty"`
}
