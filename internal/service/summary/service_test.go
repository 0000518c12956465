package summary

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOrgID  = "org-1"
	testUserID = "user-1"
)

type fakeRecordRepo struct {
	records []attendance.Record
}

func (f *fakeRecordRepo) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	return rec, true, nil
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, id, orgID string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeRecordRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time, orgID string) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) GetOpenRecord(ctx context.Context, userID string, since time.Time, orgID string) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordRepo) Update(ctx context.Context, rec attendance.Record) error { return nil }

func (f *fakeRecordRepo) List(ctx context.Context, orgID string, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeRecordRepo) ListForMonth(ctx context.Context, userID string, year int, month time.Month, orgID string) ([]attendance.Record, error) {
	return f.records, nil
}

func (f *fakeRecordRepo) BulkCreateAbsences(ctx context.Context, recs []attendance.Record) error {
	return nil
}

type fakeOverrideRepo struct {
	override *summary.MonthlyOverride
	err      error
}

func (f *fakeOverrideRepo) GetWinning(ctx context.Context, userID string, year int, month time.Month, orgID string) (*summary.MonthlyOverride, error) {
	return f.override, f.err
}

func (f *fakeOverrideRepo) Create(ctx context.Context, o summary.MonthlyOverride) (summary.MonthlyOverride, error) {
	return o, nil
}

func timePtr(t time.Time) *time.Time { return &t }
func floatPtr(v float64) *float64    { return &v }
func intPtr(v int) *int              { return &v }
func strPtr(s string) *string        { return &s }
func day(d int) time.Time            { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }
func shiftIDPtr(s string) *string    { return &s }

func fullDay(d int) attendance.Record {
	return attendance.Record{
		ID:             fmt.Sprintf("rec-%d", d),
		OrgID:          testOrgID,
		UserID:         testUserID,
		Date:           day(d),
		ShiftID:        shiftIDPtr("shift-day"),
		PunchInTime:    timePtr(time.Date(2025, 6, d, 9, 0, 0, 0, time.UTC)),
		PunchOutTime:   timePtr(time.Date(2025, 6, d, 18, 0, 0, 0, time.UTC)),
		TotalHours:     9,
		EffectiveHours: 8,
	}
}

func newService(records []attendance.Record, overrides *fakeOverrideRepo) summary.SummaryService {
	if overrides == nil {
		overrides = &fakeOverrideRepo{}
	}
	return NewSummaryService(
		&fakeRecordRepo{records: records},
		overrides,
		slog.New(slog.DiscardHandler),
	)
}

func TestMonthly_SystemTotals(t *testing.T) {
	late := fullDay(3)
	late.IsLate = true

	half := fullDay(4)
	half.IsHalfDay = true
	half.IsEarlyOut = true
	half.EffectiveHours = 3.5

	absent := attendance.Record{
		ID: "rec-absent", OrgID: testOrgID, UserID: testUserID,
		Date: day(5), IsAbsent: true,
	}

	weekend := attendance.Record{
		ID: "rec-weekend", OrgID: testOrgID, UserID: testUserID,
		Date: day(7), IsWeekend: true, IsAbsent: false,
	}

	svc := newService([]attendance.Record{fullDay(2), late, half, absent, weekend}, nil)

	result, err := svc.Monthly(context.Background(), testUserID, 2025, time.June, testOrgID)
	require.NoError(t, err)

	assert.Equal(t, summary.SourceSystem, result.Source)
	assert.InDelta(t, 2.5, result.PresentDays, 0.001)
	assert.InDelta(t, 1, result.AbsentDays, 0.001)
	assert.InDelta(t, 1.5, result.LOPDays, 0.001)
	assert.Equal(t, 1, result.HalfDayCount)
	assert.Equal(t, 1, result.LateDays)
	assert.Equal(t, 1, result.EarlyOutDays)
	assert.Equal(t, 1, result.WeeklyOffs)
	assert.InDelta(t, 19.5, result.TotalEffectiveHours, 0.001)
	assert.Equal(t, float64(0), result.OvertimeHours)
}

func TestMonthly_DedupePrefersPunchedRow(t *testing.T) {
	punched := fullDay(2)

	ghost := attendance.Record{
		ID: "rec-ghost", OrgID: testOrgID, UserID: testUserID,
		Date: day(2), IsAbsent: true,
	}

	svc := newService([]attendance.Record{ghost, punched}, nil)

	result, err := svc.Monthly(context.Background(), testUserID, 2025, time.June, testOrgID)
	require.NoError(t, err)

	assert.InDelta(t, 1, result.PresentDays, 0.001)
	assert.InDelta(t, 0, result.AbsentDays, 0.001)
}

func TestMonthly_OverrideWinsFieldByField(t *testing.T) {
	overrides := &fakeOverrideRepo{
		override: &summary.MonthlyOverride{
			ID: "ovr-1", OrgID: testOrgID, UserID: testUserID, Year: 2025, Month: 6,
			Payload: summary.OverridePayload{
				PresentDays:   floatPtr(20),
				PaidLeaves:    floatPtr(2),
				OvertimeHours: floatPtr(5),
				Remarks:       strPtr("migrated from legacy payroll"),
			},
		},
	}

	svc := newService([]attendance.Record{fullDay(2), fullDay(3)}, overrides)

	result, err := svc.Monthly(context.Background(), testUserID, 2025, time.June, testOrgID)
	require.NoError(t, err)

	assert.Equal(t, summary.SourceOverride, result.Source)
	// Overridden fields.
	assert.InDelta(t, 20, result.PresentDays, 0.001)
	assert.InDelta(t, 2, result.PaidLeaves, 0.001)
	assert.InDelta(t, 5, result.OvertimeHours, 0.001)
	require.NotNil(t, result.Remarks)
	// Overtime adds to the 16 system hours instead of replacing them.
	assert.InDelta(t, 21, result.TotalEffectiveHours, 0.001)
	// System fields without an override value stand.
	assert.Equal(t, 0, result.LateDays)
}

func TestMonthly_OverrideZeroStillWins(t *testing.T) {
	late := fullDay(2)
	late.IsLate = true

	overrides := &fakeOverrideRepo{
		override: &summary.MonthlyOverride{
			ID: "ovr-1", OrgID: testOrgID, UserID: testUserID, Year: 2025, Month: 6,
			Payload: summary.OverridePayload{
				LateOccurrences: intPtr(0),
			},
		},
	}

	svc := newService([]attendance.Record{late}, overrides)

	result, err := svc.Monthly(context.Background(), testUserID, 2025, time.June, testOrgID)
	require.NoError(t, err)

	assert.Equal(t, 0, result.LateDays)
	assert.Equal(t, summary.SourceOverride, result.Source)
}

func TestMonthly_MalformedOverrideFallsBack(t *testing.T) {
	overrides := &fakeOverrideRepo{
		err: fmt.Errorf("%w: override ovr-1: unexpected end of JSON input", summary.ErrMalformedOverride),
	}

	svc := newService([]attendance.Record{fullDay(2)}, overrides)

	result, err := svc.Monthly(context.Background(), testUserID, 2025, time.June, testOrgID)
	require.NoError(t, err)

	assert.Equal(t, summary.SourceSystem, result.Source)
	assert.InDelta(t, 1, result.PresentDays, 0.001)
}

func TestMonthly_InvalidMonth(t *testing.T) {
	svc := newService(nil, nil)

	_, err := svc.Monthly(context.Background(), testUserID, 2025, time.Month(13), testOrgID)
	assert.ErrorIs(t, err, summary.ErrInvalidMonth)
}
