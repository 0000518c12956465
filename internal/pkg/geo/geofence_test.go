package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineMeters_KnownDistance(t *testing.T) {
	// Jakarta Monas to Istiqlal Mosque, roughly 700m apart.
	d := HaversineMeters(-6.1754, 106.8272, -6.1702, 106.8311)
	assert.InDelta(t, 720, d, 100)
}

func TestHaversineMeters_ZeroForSamePoint(t *testing.T) {
	d := HaversineMeters(-6.2, 106.8, -6.2, 106.8)
	assert.Equal(t, 0.0, d)
}

func TestFence_Check_NilFenceAllows(t *testing.T) {
	var f *Fence
	res := f.Check(-6.2, 106.8)
	assert.False(t, res.IsOutside)
	assert.Nil(t, res.DistanceMeters)
}

func TestFence_Check_OffModeAllows(t *testing.T) {
	f := &Fence{Latitude: -6.2, Longitude: 106.8, RadiusMeters: 200, Mode: ModeOff}
	res := f.Check(10, 10)
	assert.False(t, res.IsOutside)
	assert.Nil(t, res.DistanceMeters)
}

func TestFence_Check_InsideRadius(t *testing.T) {
	f := &Fence{Latitude: -6.2, Longitude: 106.8, RadiusMeters: 200, Mode: ModeStrict}
	res := f.Check(-6.2001, 106.8001)
	require.NotNil(t, res.DistanceMeters)
	assert.False(t, res.IsOutside)
	assert.Less(t, *res.DistanceMeters, 200.0)
}

func TestFence_Check_OutsideRadius(t *testing.T) {
	f := &Fence{Latitude: -6.2, Longitude: 106.8, RadiusMeters: 200, Mode: ModeWarn}
	// ~0.005 degrees of latitude is roughly 550m.
	res := f.Check(-6.205, 106.8)
	require.NotNil(t, res.DistanceMeters)
	assert.True(t, res.IsOutside)
	assert.Greater(t, *res.DistanceMeters, 200.0)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeStrict, ParseMode("strict"))
	assert.Equal(t, ModeWarn, ParseMode("warn"))
	assert.Equal(t, ModeOff, ParseMode("off"))
	assert.Equal(t, ModeOff, ParseMode("bogus"))
	assert.Equal(t, ModeOff, ParseMode(""))
}
