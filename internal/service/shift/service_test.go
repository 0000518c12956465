package shift

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/validator"
)

const testOrgID = "org-1"

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string]shift.Shift)}
}

func (f *fakeShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id, orgID string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok || s.OrgID != orgID {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetByName(ctx context.Context, name, orgID string) (*shift.Shift, error) {
	for _, s := range f.shifts {
		if s.Name == name && s.OrgID == orgID {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) List(ctx context.Context, orgID string, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	var out []shift.Shift
	for _, s := range f.shifts {
		if s.OrgID != orgID {
			continue
		}
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeShiftRepo) Update(ctx context.Context, s shift.Shift) error {
	if _, ok := f.shifts[s.ID]; !ok {
		return shift.ErrShiftNotFound
	}
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeShiftRepo) Deactivate(ctx context.Context, id, orgID string) error {
	s, ok := f.shifts[id]
	if !ok || s.OrgID != orgID {
		return shift.ErrShiftNotFound
	}
	s.IsActive = false
	f.shifts[id] = s
	return nil
}

func (f *fakeShiftRepo) MaxOvernightSpanMinutes(ctx context.Context, orgID string) (int, error) {
	max := 0
	for _, s := range f.shifts {
		if s.OrgID == orgID && s.IsActive && s.IsOvernight() && s.SpanMinutes() > max {
			max = s.SpanMinutes()
		}
	}
	return max, nil
}

type fakeAssignmentRepo struct {
	assignments map[string]shift.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]shift.Assignment)}
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, a shift.Assignment) (shift.Assignment, error) {
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.assignments[a.ID] = a
	return a, nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id, orgID string) (shift.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok || a.OrgID != orgID {
		return shift.Assignment{}, shift.ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeAssignmentRepo) GetByUserID(ctx context.Context, userID, orgID string) ([]shift.Assignment, error) {
	var out []shift.Assignment
	for _, a := range f.assignments {
		if a.UserID == userID && a.OrgID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ResolveActive(ctx context.Context, userID string, date time.Time, orgID string) (*shift.Assignment, error) {
	var best *shift.Assignment
	for _, a := range f.assignments {
		if a.UserID != userID || a.OrgID != orgID || !a.Covers(date) {
			continue
		}
		if best == nil || a.EffectiveFrom.After(best.EffectiveFrom) {
			found := a
			best = &found
		}
	}
	return best, nil
}

func (f *fakeAssignmentRepo) CloseConflicting(ctx context.Context, userID string, from time.Time, orgID string) error {
	for id, a := range f.assignments {
		if a.UserID != userID || a.OrgID != orgID {
			continue
		}
		if a.EffectiveTo == nil || !a.EffectiveFrom.Before(from) {
			to := from.AddDate(0, 0, -1)
			a.EffectiveTo = &to
			f.assignments[id] = a
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) ListActiveOn(ctx context.Context, orgID string, date time.Time) ([]shift.Assignment, error) {
	var out []shift.Assignment
	for _, a := range f.assignments {
		if a.OrgID == orgID && a.Covers(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fixture struct {
	shiftRepo      *fakeShiftRepo
	assignmentRepo *fakeAssignmentRepo
	svc            shift.ShiftService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	shiftRepo := newFakeShiftRepo()
	assignmentRepo := newFakeAssignmentRepo()
	return &fixture{
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		svc:            NewShiftService(nil, shiftRepo, assignmentRepo),
	}
}

func dayShiftRequest() shift.CreateShiftRequest {
	return shift.CreateShiftRequest{
		OrgID:                    testOrgID,
		Name:                     "Day Shift",
		StartTime:                "09:00",
		EndTime:                  "18:00",
		DurationHours:            8,
		BreakDurationMinutes:     60,
		LateThresholdMinutes:     15,
		EarlyOutThresholdMinutes: 15,
		WeeklyOffDays:            []string{"sat", "sun"},
	}
}

func TestCreateShift_HappyPath(t *testing.T) {
	fx := newFixture(t)

	resp, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "09:00", resp.StartTime)
	require.Equal(t, "18:00", resp.EndTime)
	require.False(t, resp.IsOvernight)
	require.True(t, resp.IsActive)
}

func TestCreateShift_OvernightIsFlagged(t *testing.T) {
	fx := newFixture(t)

	req := dayShiftRequest()
	req.Name = "Night Shift"
	req.StartTime = "22:00"
	req.EndTime = "06:00"
	req.DurationHours = 7
	req.BreakDurationMinutes = 60

	resp, err := fx.svc.CreateShift(context.Background(), req)
	require.NoError(t, err)
	require.True(t, resp.IsOvernight)
}

func TestCreateShift_RejectsDuplicateName(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)

	_, err = fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.ErrorIs(t, err, shift.ErrShiftNameExists)
}

func TestCreateShift_RejectsDurationMismatch(t *testing.T) {
	fx := newFixture(t)

	req := dayShiftRequest()
	req.DurationHours = 9 // window is 9h minus 1h break, so 8 is the only fit

	_, err := fx.svc.CreateShift(context.Background(), req)
	require.ErrorIs(t, err, shift.ErrDurationMismatch)
}

func TestCreateShift_RejectsBadTimeOfDay(t *testing.T) {
	fx := newFixture(t)

	req := dayShiftRequest()
	req.StartTime = "9am"

	_, err := fx.svc.CreateShift(context.Background(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestUpdateShift_MergesOnlyProvidedFields(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)

	lateThreshold := 30
	resp, err := fx.svc.UpdateShift(context.Background(), shift.UpdateShiftRequest{
		ID:                   created.ID,
		OrgID:                testOrgID,
		LateThresholdMinutes: &lateThreshold,
	})
	require.NoError(t, err)
	require.Equal(t, 30, resp.LateThresholdMinutes)
	require.Equal(t, "09:00", resp.StartTime)
	require.Equal(t, created.DurationHours, resp.DurationHours)
}

func TestUpdateShift_RecheckDuration(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)

	endTime := "17:00"
	_, err = fx.svc.UpdateShift(context.Background(), shift.UpdateShiftRequest{
		ID:      created.ID,
		OrgID:   testOrgID,
		EndTime: &endTime,
	})
	require.ErrorIs(t, err, shift.ErrDurationMismatch)
}

func TestListShifts_AppliesDefaults(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)

	resp, err := fx.svc.ListShifts(context.Background(), testOrgID, shift.ShiftFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Page)
	require.Equal(t, 20, resp.Limit)
	require.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Shifts, 1)
}

func TestAssign_RejectsInactiveShift(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)
	require.NoError(t, fx.svc.DeactivateShift(context.Background(), created.ID, testOrgID))

	_, err = fx.svc.Assign(context.Background(), shift.AssignRequest{
		OrgID:      testOrgID,
		UserID:     "user-1",
		ShiftID:    created.ID,
		AssignedBy: "admin-1",
	})
	require.ErrorIs(t, err, shift.ErrShiftInactive)
}

func TestAssign_RejectsBadDate(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)

	_, err = fx.svc.Assign(context.Background(), shift.AssignRequest{
		OrgID:         testOrgID,
		UserID:        "user-1",
		ShiftID:       created.ID,
		EffectiveFrom: "01-06-2025",
		AssignedBy:    "admin-1",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs.ToMap(), "effective_from")
}

func TestReassign_RequiresExistingAssignment(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)

	_, err = fx.svc.Reassign(context.Background(), shift.AssignRequest{
		OrgID:         testOrgID,
		UserID:        "user-1",
		ShiftID:       created.ID,
		EffectiveFrom: "2025-06-01",
		AssignedBy:    "admin-1",
	})
	require.ErrorIs(t, err, shift.ErrShiftNotAssigned)
}

func TestResolveActiveShift_PrefersLatestInterval(t *testing.T) {
	fx := newFixture(t)

	created, err := fx.svc.CreateShift(context.Background(), dayShiftRequest())
	require.NoError(t, err)

	nightReq := dayShiftRequest()
	nightReq.Name = "Night Shift"
	nightReq.StartTime = "22:00"
	nightReq.EndTime = "06:00"
	nightReq.DurationHours = 7
	night, err := fx.svc.CreateShift(context.Background(), nightReq)
	require.NoError(t, err)

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	_, err = fx.assignmentRepo.Create(context.Background(), shift.Assignment{
		ID: "a-1", OrgID: testOrgID, UserID: "user-1",
		ShiftID: created.ID, EffectiveFrom: day("2025-01-01"), AssignedBy: "admin-1",
	})
	require.NoError(t, err)
	_, err = fx.assignmentRepo.Create(context.Background(), shift.Assignment{
		ID: "a-2", OrgID: testOrgID, UserID: "user-1",
		ShiftID: night.ID, EffectiveFrom: day("2025-06-01"), AssignedBy: "admin-1",
	})
	require.NoError(t, err)

	resolved, err := fx.svc.ResolveActiveShift(context.Background(), "user-1", day("2025-06-15"), testOrgID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, night.ID, resolved.ID)

	earlier, err := fx.svc.ResolveActiveShift(context.Background(), "user-1", day("2025-03-01"), testOrgID)
	require.NoError(t, err)
	require.NotNil(t, earlier)
	require.Equal(t, created.ID, earlier.ID)
}

func TestResolveActiveShift_NoAssignment(t *testing.T) {
	fx := newFixture(t)

	resolved, err := fx.svc.ResolveActiveShift(context.Background(), "user-1", time.Now(), testOrgID)
	require.NoError(t, err)
	require.Nil(t, resolved)
}
