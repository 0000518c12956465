package shift

import "time"

// Shift is a reusable shift definition. StartTime and EndTime carry only a
// local time-of-day; the date parts are meaningless.
type Shift struct {
	ID                       string
	OrgID                    string
	Name                     string
	StartTime                time.Time
	EndTime                  time.Time
	DurationHours            float64
	BreakDurationMinutes     int
	LateThresholdMinutes     int
	EarlyOutThresholdMinutes int
	WeeklyOffDays            []string // subset of mon..sun
	IsActive                 bool
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// IsOvernight reports whether the shift spans midnight (end time-of-day is
// numerically earlier than start).
func (s Shift) IsOvernight() bool {
	endMins := s.EndTime.Hour()*60 + s.EndTime.Minute()
	startMins := s.StartTime.Hour()*60 + s.StartTime.Minute()
	return endMins < startMins
}

// SpanMinutes returns the scheduled minutes between start and end, modulo 24h
// for overnight shifts. Break time is not subtracted.
func (s Shift) SpanMinutes() int {
	endMins := s.EndTime.Hour()*60 + s.EndTime.Minute()
	startMins := s.StartTime.Hour()*60 + s.StartTime.Minute()
	span := endMins - startMins
	if span <= 0 {
		span += 24 * 60
	}
	return span
}

// WeekdayNames is the canonical order used for weekly_off_days validation.
var WeekdayNames = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// WeekdayName maps a time.Weekday to the short name stored in weekly_off_days.
func WeekdayName(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "mon"
	case time.Tuesday:
		return "tue"
	case time.Wednesday:
		return "wed"
	case time.Thursday:
		return "thu"
	case time.Friday:
		return "fri"
	case time.Saturday:
		return "sat"
	default:
		return "sun"
	}
}

// IsWeeklyOff reports whether the given weekday is one of the shift's off days.
func (s Shift) IsWeeklyOff(d time.Weekday) bool {
	name := WeekdayName(d)
	for _, off := range s.WeeklyOffDays {
		if off == name {
			return true
		}
	}
	return false
}

// Assignment binds a user to a shift over a date interval. A nil EffectiveTo
// means the assignment is open-ended. Intervals for one user never overlap.
type Assignment struct {
	ID            string
	OrgID         string
	UserID        string
	ShiftID       string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	AssignedBy    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Covers reports whether date falls inside the assignment interval.
func (a Assignment) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if day.Before(a.EffectiveFrom.Truncate(24 * time.Hour)) {
		return false
	}
	if a.EffectiveTo == nil {
		return true
	}
	return !day.After(a.EffectiveTo.Truncate(24 * time.Hour))
}
