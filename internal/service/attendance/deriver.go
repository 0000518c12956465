package attendance

import (
	"time"

	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
)

// Deriver computes the derived fields of an attendance record from its punch
// data. It has no side effects: the same inputs always produce the same
// record, so it can safely run again after a punch-out or a regularization.
type Deriver struct {
	// DefaultBreakMinutes applies when no shift is resolved for the record.
	DefaultBreakMinutes int
	// HalfDayRatio is the fraction of scheduled hours below which a completed
	// day counts as a half day.
	HalfDayRatio float64
}

// DeriveInput bundles the context needed to evaluate one record.
type DeriveInput struct {
	Record attendance.Record
	// Shift is the definition snapshotted at punch-in, nil when none resolved.
	Shift *shift.Shift
	// Location is the org's time zone; punch times are compared against the
	// schedule in local time.
	Location *time.Location
	// IsHoliday marks the record date as an org holiday.
	IsHoliday bool
	// DefaultWeeklyOffDays is the org fallback used when no shift is resolved.
	DefaultWeeklyOffDays []string
}

// Derive returns the record with all derived fields recomputed.
func (d Deriver) Derive(in DeriveInput) attendance.Record {
	rec := in.Record
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	rec.IsHoliday = in.IsHoliday
	rec.IsWeekend = d.isWeekend(rec.Date, in.Shift, in.DefaultWeeklyOffDays)

	if rec.PunchInTime != nil {
		rec.IsAbsent = false
	}

	rec.TotalHours = 0
	rec.EffectiveHours = 0
	if rec.PunchInTime != nil && rec.PunchOutTime != nil {
		rec.TotalHours = rec.PunchOutTime.Sub(*rec.PunchInTime).Hours()

		breakMinutes := d.DefaultBreakMinutes
		if in.Shift != nil {
			breakMinutes = in.Shift.BreakDurationMinutes
		}
		rec.EffectiveHours = rec.TotalHours - float64(breakMinutes)/60
		if rec.EffectiveHours < 0 {
			rec.EffectiveHours = 0
		}
	}

	rec.IsLate = false
	rec.IsEarlyOut = false
	rec.IsHalfDay = false

	if in.Shift != nil {
		start := scheduledAt(rec.Date, in.Shift.StartTime, loc)
		end := start.Add(time.Duration(in.Shift.SpanMinutes()) * time.Minute)

		// Lateness is not evaluated on weekly-off days or holidays; working
		// outside the schedule there is voluntary.
		if rec.PunchInTime != nil && !rec.IsWeekend && !rec.IsHoliday {
			// Punching exactly at the threshold is on time.
			cutoff := start.Add(time.Duration(in.Shift.LateThresholdMinutes) * time.Minute)
			rec.IsLate = rec.PunchInTime.After(cutoff)
		}
		if rec.PunchOutTime != nil {
			cutoff := end.Add(-time.Duration(in.Shift.EarlyOutThresholdMinutes) * time.Minute)
			rec.IsEarlyOut = rec.PunchOutTime.Before(cutoff)
		}
		if rec.PunchInTime != nil && rec.PunchOutTime != nil && in.Shift.DurationHours > 0 {
			rec.IsHalfDay = rec.EffectiveHours > 0 &&
				rec.EffectiveHours < d.HalfDayRatio*in.Shift.DurationHours
		}
	}

	// An approved regularization wipes the deviation flags but keeps the
	// computed hours for payroll.
	if rec.IsRegularized {
		rec.IsLate = false
		rec.IsEarlyOut = false
		rec.IsHalfDay = false
		rec.IsAbsent = false
	}

	return rec
}

func (d Deriver) isWeekend(date time.Time, sh *shift.Shift, defaultOffDays []string) bool {
	if sh != nil {
		return sh.IsWeeklyOff(date.Weekday())
	}
	name := shift.WeekdayName(date.Weekday())
	for _, off := range defaultOffDays {
		if off == name {
			return true
		}
	}
	return false
}

// scheduledAt places a shift's time-of-day on the record date in the org's
// time zone.
func scheduledAt(date time.Time, timeOfDay time.Time, loc *time.Location) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		loc,
	)
}
