package shift

import (
	"time"

	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	OrgID                    string   `json:"org_id"`
	Name                     string   `json:"name"`
	StartTime                string   `json:"start_time"` // HH:MM
	EndTime                  string   `json:"end_time"`   // HH:MM
	DurationHours            float64  `json:"duration_hours"`
	BreakDurationMinutes     int      `json:"break_duration_minutes"`
	LateThresholdMinutes     int      `json:"late_threshold_minutes"`
	EarlyOutThresholdMinutes int      `json:"early_out_threshold_minutes"`
	WeeklyOffDays            []string `json:"weekly_off_days"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if _, ok := validator.IsValidTimeOfDay(r.StartTime); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM"})
	}
	if _, ok := validator.IsValidTimeOfDay(r.EndTime); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM"})
	}
	if r.BreakDurationMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_duration_minutes", Message: "break_duration_minutes must not be negative"})
	}
	if r.LateThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_threshold_minutes", Message: "late_threshold_minutes must not be negative"})
	}
	if r.EarlyOutThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "early_out_threshold_minutes", Message: "early_out_threshold_minutes must not be negative"})
	}
	for _, day := range r.WeeklyOffDays {
		if !validator.IsInSlice(day, WeekdayNames) {
			errs = append(errs, validator.ValidationError{Field: "weekly_off_days", Message: "weekly off days must be a subset of mon..sun"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateShiftRequest struct {
	ID                       string    `json:"-"`
	OrgID                    string    `json:"org_id"`
	Name                     *string   `json:"name"`
	StartTime                *string   `json:"start_time"`
	EndTime                  *string   `json:"end_time"`
	DurationHours            *float64  `json:"duration_hours"`
	BreakDurationMinutes     *int      `json:"break_duration_minutes"`
	LateThresholdMinutes     *int      `json:"late_threshold_minutes"`
	EarlyOutThresholdMinutes *int      `json:"early_out_threshold_minutes"`
	WeeklyOffDays            *[]string `json:"weekly_off_days"`
	IsActive                 *bool     `json:"is_active"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if r.StartTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.StartTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_time", Message: "start_time must be HH:MM"})
		}
	}
	if r.EndTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.EndTime); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_time", Message: "end_time must be HH:MM"})
		}
	}
	if r.WeeklyOffDays != nil {
		for _, day := range *r.WeeklyOffDays {
			if !validator.IsInSlice(day, WeekdayNames) {
				errs = append(errs, validator.ValidationError{Field: "weekly_off_days", Message: "weekly off days must be a subset of mon..sun"})
				break
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftFilter struct {
	Name       *string
	ActiveOnly bool
	Page       int
	Limit      int
}

type ShiftResponse struct {
	ID                       string   `json:"id"`
	OrgID                    string   `json:"org_id"`
	Name                     string   `json:"name"`
	StartTime                string   `json:"start_time"`
	EndTime                  string   `json:"end_time"`
	DurationHours            float64  `json:"duration_hours"`
	BreakDurationMinutes     int      `json:"break_duration_minutes"`
	LateThresholdMinutes     int      `json:"late_threshold_minutes"`
	EarlyOutThresholdMinutes int      `json:"early_out_threshold_minutes"`
	IsOvernight              bool     `json:"is_overnight"`
	WeeklyOffDays            []string `json:"weekly_off_days"`
	IsActive                 bool     `json:"is_active"`
	CreatedAt                string   `json:"created_at"`
	UpdatedAt                string   `json:"updated_at"`
}

type ListShiftsResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Shifts     []ShiftResponse `json:"shifts"`
}

// ShiftTemplate is the shape produced by the external shift configurator.
// Imported templates go through the same validation as CreateShiftRequest.
type ShiftTemplate struct {
	Name                     string   `json:"name"`
	StartTime                string   `json:"start_time"`
	EndTime                  string   `json:"end_time"`
	DurationHours            float64  `json:"duration_hours"`
	BreakDurationMinutes     int      `json:"break_duration_minutes"`
	LateThresholdMinutes     int      `json:"late_threshold_minutes"`
	EarlyOutThresholdMinutes int      `json:"early_out_threshold_minutes"`
	WeeklyOffDays            []string `json:"weekly_off_days"`
}

type ImportTemplatesRequest struct {
	OrgID     string          `json:"org_id"`
	Templates []ShiftTemplate `json:"templates"`
}

func (r *ImportTemplatesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if len(r.Templates) == 0 {
		errs = append(errs, validator.ValidationError{Field: "templates", Message: "at least one template is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignRequest struct {
	OrgID         string `json:"org_id"`
	UserID        string `json:"user_id"`
	ShiftID       string `json:"shift_id"`
	EffectiveFrom string `json:"effective_from"` // YYYY-MM-DD
	AssignedBy    string `json:"assigned_by"`
}

func (r *AssignRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{Field: "shift_id", Message: "shift_id is required"})
	}
	if validator.IsEmpty(r.AssignedBy) {
		errs = append(errs, validator.ValidationError{Field: "assigned_by", Message: "assigned_by is required"})
	}
	if r.EffectiveFrom != "" {
		if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "effective_from must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID            string  `json:"id"`
	OrgID         string  `json:"org_id"`
	UserID        string  `json:"user_id"`
	ShiftID       string  `json:"shift_id"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	AssignedBy    string  `json:"assigned_by"`
}

// FormatDate renders a date the way assignment responses carry it.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
