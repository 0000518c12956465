package geo

import "math"

// Mode is the geofence enforcement policy.
type Mode string

const (
	ModeOff    Mode = "off"    // geofencing disabled, every punch allowed
	ModeWarn   Mode = "warn"   // outside punches recorded but not blocked
	ModeStrict Mode = "strict" // outside punches rejected
)

// ParseMode falls back to ModeOff for unknown values.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeWarn, ModeStrict:
		return Mode(s)
	default:
		return ModeOff
	}
}

// Fence is an organization's geofence configuration. A nil Fence means
// geofencing is unconfigured.
type Fence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Mode         Mode
}

// Result of a geofence check. DistanceMeters is nil when geofencing is
// disabled or unconfigured.
type Result struct {
	DistanceMeters *float64
	IsOutside      bool
}

// Check computes the great-circle distance from the punch location to the
// fence center and compares it to the radius. Disabled fences always allow.
func (f *Fence) Check(lat, lon float64) Result {
	if f == nil || f.Mode == ModeOff || f.RadiusMeters <= 0 {
		return Result{}
	}
	d := HaversineMeters(lat, lon, f.Latitude, f.Longitude)
	return Result{
		DistanceMeters: &d,
		IsOutside:      d > f.RadiusMeters,
	}
}

// HaversineMeters returns the great-circle distance between two coordinate
// pairs in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371000 // meters

	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
