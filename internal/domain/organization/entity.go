package organization

import "time"

type Organization struct {
	ID                   string
	Name                 string
	Timezone             string // IANA name, e.g. "Asia/Kolkata"
	GeofenceLatitude     *float64
	GeofenceLongitude    *float64
	GeofenceRadiusMeters float64
	GeofenceMode         string // off | warn | strict
	DefaultWeeklyOffDays []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Location returns the org's time zone, falling back to UTC when the
// configured name does not resolve.
func (o Organization) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Holiday struct {
	ID    string
	OrgID string
	Date  time.Time
	Name  string
}
