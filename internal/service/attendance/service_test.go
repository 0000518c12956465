package attendance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shiftwise-hq/attendance-backend-go/internal/config"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/organization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/events"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/geocode"
	"github.com/shiftwise-hq/attendance-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID  = "org-1"
	testUserID = "user-1"
)

type fakeRecordRepo struct {
	records map[string]attendance.Record
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]attendance.Record)}
}

func (f *fakeRecordRepo) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	for _, existing := range f.records {
		if existing.OrgID == rec.OrgID && existing.UserID == rec.UserID && existing.Date.Equal(rec.Date) {
			return existing, false, nil
		}
	}
	f.records[rec.ID] = rec
	return rec, true, nil
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, id, orgID string) (attendance.Record, error) {
	rec, ok := f.records[id]
	if !ok || rec.OrgID != orgID {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeRecordRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time, orgID string) (*attendance.Record, error) {
	for _, rec := range f.records {
		if rec.OrgID == orgID && rec.UserID == userID && rec.Date.Equal(date) {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRecordRepo) GetOpenRecord(ctx context.Context, userID string, since time.Time, orgID string) (*attendance.Record, error) {
	var best *attendance.Record
	for _, rec := range f.records {
		if rec.OrgID != orgID || rec.UserID != userID {
			continue
		}
		if !rec.IsOpen() || rec.Date.Before(since) {
			continue
		}
		if best == nil || rec.Date.After(best.Date) {
			r := rec
			best = &r
		}
	}
	return best, nil
}

func (f *fakeRecordRepo) Update(ctx context.Context, rec attendance.Record) error {
	if _, ok := f.records[rec.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeRecordRepo) List(ctx context.Context, orgID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.OrgID == orgID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecordRepo) ListForMonth(ctx context.Context, userID string, year int, month time.Month, orgID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.OrgID == orgID && rec.UserID == userID && rec.Date.Year() == year && rec.Date.Month() == month {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) BulkCreateAbsences(ctx context.Context, recs []attendance.Record) error {
	for _, rec := range recs {
		if existing, _ := f.GetByUserAndDate(ctx, rec.UserID, rec.Date, rec.OrgID); existing == nil {
			f.records[rec.ID] = rec
		}
	}
	return nil
}

type fakeOrgRepo struct {
	orgs map[string]organization.Organization
}

func (f *fakeOrgRepo) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	return org, nil
}

func (f *fakeOrgRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for id := range f.orgs {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeHolidayRepo struct {
	holidays map[string]bool // keyed by date string
}

func (f *fakeHolidayRepo) IsHoliday(ctx context.Context, orgID string, date time.Time) (bool, error) {
	return f.holidays[date.Format("2006-01-02")], nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id, orgID string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetByName(ctx context.Context, name, orgID string) (*shift.Shift, error) {
	for _, s := range f.shifts {
		if s.Name == name {
			sh := s
			return &sh, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) List(ctx context.Context, orgID string, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	return nil, 0, nil
}

func (f *fakeShiftRepo) Update(ctx context.Context, s shift.Shift) error {
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeShiftRepo) Deactivate(ctx context.Context, id, orgID string) error {
	return nil
}

func (f *fakeShiftRepo) MaxOvernightSpanMinutes(ctx context.Context, orgID string) (int, error) {
	max := 0
	for _, s := range f.shifts {
		if s.IsOvernight() && s.SpanMinutes() > max {
			max = s.SpanMinutes()
		}
	}
	return max, nil
}

type fakeResolver struct {
	assigned map[string]*shift.Shift
}

func (f *fakeResolver) ResolveActiveShift(ctx context.Context, userID string, date time.Time, orgID string) (*shift.Shift, error) {
	return f.assigned[userID], nil
}

type fakeFileSvc struct{}

func (fakeFileSvc) UploadPunchSelfie(ctx context.Context, userID string, date time.Time, kind file.PunchKind, f io.Reader, filename string) (string, error) {
	return "selfies/" + userID + ".jpg", nil
}

func (fakeFileSvc) DeleteFile(ctx context.Context, path string) error { return nil }

func (fakeFileSvc) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return path, nil
}

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(event events.Event) {
	f.published = append(f.published, event)
}

type serviceFixture struct {
	svc       *attendanceServiceImpl
	records   *fakeRecordRepo
	orgs      *fakeOrgRepo
	holidays  *fakeHolidayRepo
	shifts    *fakeShiftRepo
	resolver  *fakeResolver
	publisher *fakePublisher
}

func floatPtr(v float64) *float64 { return &v }

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	fx := &serviceFixture{
		records:   newFakeRecordRepo(),
		holidays:  &fakeHolidayRepo{holidays: make(map[string]bool)},
		shifts:    &fakeShiftRepo{shifts: make(map[string]shift.Shift)},
		resolver:  &fakeResolver{assigned: make(map[string]*shift.Shift)},
		publisher: &fakePublisher{},
	}
	fx.orgs = &fakeOrgRepo{orgs: map[string]organization.Organization{
		testOrgID: {
			ID:                   testOrgID,
			Name:                 "Acme",
			Timezone:             "UTC",
			GeofenceLatitude:     floatPtr(-6.1753),
			GeofenceLongitude:    floatPtr(106.8271),
			GeofenceRadiusMeters: 200,
			GeofenceMode:         "warn",
			DefaultWeeklyOffDays: []string{"sat", "sun"},
		},
	}}

	policy := config.AttendanceConfig{
		DefaultBreakMinutes: 60,
		HalfDayRatio:        0.5,
		MinOvernightHours:   6,
		MaxOvernightHours:   18,
	}

	svc := NewAttendanceService(
		fx.records, fx.orgs, fx.holidays, fx.shifts, fx.resolver,
		fakeFileSvc{}, geocode.Noop{}, fx.publisher, policy,
		slog.New(slog.DiscardHandler),
	)
	fx.svc = svc.(*attendanceServiceImpl)

	return fx
}

func (fx *serviceFixture) assignShift(s *shift.Shift) {
	fx.shifts.shifts[s.ID] = *s
	fx.resolver.assigned[testUserID] = s
}

// Coordinates inside the test fence.
func insideRequest() attendance.PunchRequest {
	return attendance.PunchRequest{
		OrgID:     testOrgID,
		UserID:    testUserID,
		Latitude:  -6.1753,
		Longitude: 106.8271,
	}
}

// Coordinates ~550m from the fence center.
func outsideRequest() attendance.PunchRequest {
	req := insideRequest()
	req.Latitude = -6.1703
	return req
}

func TestPunchIn_CreatesRecord(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(dayShift())
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }

	resp, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	assert.Equal(t, "2025-06-02", resp.Date)
	require.NotNil(t, resp.ShiftID)
	assert.Equal(t, "shift-day", *resp.ShiftID)
	assert.False(t, resp.IsLate)
	assert.False(t, resp.IsOutsideGeofence)
	assert.False(t, resp.NeedsReview)
	require.NotNil(t, resp.PunchInTime)
	assert.Nil(t, resp.PunchOutTime)

	require.Len(t, fx.publisher.published, 1)
	assert.Equal(t, events.TypeRecordCreated, fx.publisher.published[0].Type)
}

func TestPunchIn_NoAssignmentNeedsReview(t *testing.T) {
	fx := newFixture(t)
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }

	resp, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	assert.True(t, resp.NeedsReview)
	assert.Nil(t, resp.ShiftID)
}

func TestPunchIn_SameDateIsNoOp(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(dayShift())
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }

	first, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC) }
	second, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PunchInTime, second.PunchInTime)
	assert.Len(t, fx.records.records, 1)
	// Only the first punch publishes.
	assert.Len(t, fx.publisher.published, 1)
}

func TestPunchIn_OpenOvernightRecordBlocksNewCycle(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(nightShift())

	// Night worker punches in at 22:00 and never punches out.
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC) }
	first, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	// The next evening's punch-in must not open a second record.
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 3, 23, 0, 0, 0, time.UTC) }
	second, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "2025-06-02", second.Date)

	open := 0
	for _, rec := range fx.records.records {
		if rec.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open)
	assert.Len(t, fx.records.records, 1)
	assert.Len(t, fx.publisher.published, 1)
}

func TestPunchIn_StrictModeRejectsOutside(t *testing.T) {
	fx := newFixture(t)
	org := fx.orgs.orgs[testOrgID]
	org.GeofenceMode = "strict"
	fx.orgs.orgs[testOrgID] = org
	fx.assignShift(dayShift())
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }

	_, err := fx.svc.PunchIn(context.Background(), outsideRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrGeofenceViolation)

	var gve *attendance.GeofenceViolationError
	require.True(t, errors.As(err, &gve))
	assert.Greater(t, gve.DistanceMeters, 200.0)
	assert.Equal(t, 200.0, gve.ThresholdMeters)

	assert.Empty(t, fx.records.records)
}

func TestPunchIn_WarnModeRecordsOutside(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(dayShift())
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }

	resp, err := fx.svc.PunchIn(context.Background(), outsideRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsOutsideGeofence)
	require.NotNil(t, resp.PunchInDistanceM)
	assert.Greater(t, *resp.PunchInDistanceM, 200.0)
}

func TestPunchOut_NoOpenRecord(t *testing.T) {
	fx := newFixture(t)
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }

	_, err := fx.svc.PunchOut(context.Background(), insideRequest())
	assert.ErrorIs(t, err, attendance.ErrNoActivePunch)
}

func TestPunchOut_ClosesRecord(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(dayShift())

	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }
	_, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }
	resp, err := fx.svc.PunchOut(context.Background(), insideRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.PunchOutTime)
	assert.InDelta(t, 9, resp.TotalHours, 0.001)
	assert.InDelta(t, 8, resp.EffectiveHours, 0.001)
	assert.False(t, resp.IsEarlyOut)

	require.Len(t, fx.publisher.published, 2)
	assert.Equal(t, events.TypeRecordUpdated, fx.publisher.published[1].Type)
}

func TestPunchOut_OvernightKeepsPunchInDate(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(nightShift())

	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC) }
	in, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	// Punch out at 06:00 the next morning.
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 3, 6, 0, 0, 0, time.UTC) }
	out, err := fx.svc.PunchOut(context.Background(), insideRequest())
	require.NoError(t, err)

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "2025-06-02", out.Date)
	assert.InDelta(t, 8, out.TotalHours, 0.001)
	assert.False(t, out.IsEarlyOut)
}

func TestPunchOut_OvernightDurationBounds(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(nightShift())

	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC) }
	_, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	// 20 hours elapsed, above the 18 hour ceiling.
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC) }
	_, err = fx.svc.PunchOut(context.Background(), insideRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrInvalidDuration)

	var ide *attendance.InvalidDurationError
	require.True(t, errors.As(err, &ide))
	assert.InDelta(t, 20, ide.ElapsedHours, 0.001)
}

func TestPunchOut_OutsideFlagIsSticky(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(dayShift())

	// Punch in outside the fence, punch out inside it.
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }
	_, err := fx.svc.PunchIn(context.Background(), outsideRequest())
	require.NoError(t, err)

	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC) }
	resp, err := fx.svc.PunchOut(context.Background(), insideRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsOutsideGeofence)
}

func TestPunchIn_HolidayFlagged(t *testing.T) {
	fx := newFixture(t)
	fx.assignShift(dayShift())
	fx.holidays.holidays["2025-06-02"] = true
	fx.svc.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }

	resp, err := fx.svc.PunchIn(context.Background(), insideRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsHoliday)
}
