package attendance

import (
	"time"
)

// Record is one user's attendance for one working day. Date is the punch-in
// calendar date in the org's time zone and stays the key even when an
// overnight punch-out lands on the next date.
type Record struct {
	ID      string
	OrgID   string
	UserID  string
	Date    time.Time
	ShiftID *string // assignment snapshot at punch-in; nil when none resolved

	PunchInTime        *time.Time
	PunchInLatitude    *float64
	PunchInLongitude   *float64
	PunchInAddress     *string
	PunchInSelfieURL   *string
	PunchInDeviceInfo  *string
	PunchInDistanceM   *float64
	PunchOutTime       *time.Time
	PunchOutLatitude   *float64
	PunchOutLongitude  *float64
	PunchOutAddress    *string
	PunchOutSelfieURL  *string
	PunchOutDeviceInfo *string
	PunchOutDistanceM  *float64

	// OR'd across punch-in and punch-out, never reset by a compliant punch.
	IsOutsideGeofence bool

	TotalHours     float64
	EffectiveHours float64
	IsLate         bool
	IsEarlyOut     bool
	IsHalfDay      bool
	IsWeekend      bool
	IsHoliday      bool
	IsAbsent       bool

	IsRegularized         bool
	RegularizedBy         *string
	RegularizedAt         *time.Time
	RegularizationRemarks *string

	// NeedsReview marks punches taken before any shift assignment resolved.
	NeedsReview bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the record has a punch-in but no punch-out yet.
func (r Record) IsOpen() bool {
	return r.PunchInTime != nil && r.PunchOutTime == nil
}
