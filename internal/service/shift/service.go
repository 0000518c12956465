package shift

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/validator"
	"github.com/shiftwise-hq/attendance-backend-go/internal/repository/postgresql"
)

type shiftServiceImpl struct {
	db             *database.DB
	shiftRepo      shift.ShiftRepository
	assignmentRepo shift.AssignmentRepository
}

func NewShiftService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.AssignmentRepository,
) shift.ShiftService {
	return &shiftServiceImpl{
		db:             db,
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
	}
}

// CreateShift implements shift.ShiftService.
func (s *shiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	newShift, err := buildShift(req)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	newShift.OrgID = req.OrgID

	existing, err := s.shiftRepo.GetByName(ctx, req.Name, req.OrgID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if existing != nil {
		return shift.ShiftResponse{}, shift.ErrShiftNameExists
	}

	created, err := s.shiftRepo.Create(ctx, newShift)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	return toShiftResponse(created), nil
}

// GetShift implements shift.ShiftService.
func (s *shiftServiceImpl) GetShift(ctx context.Context, id, orgID string) (shift.ShiftResponse, error) {
	found, err := s.shiftRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return toShiftResponse(found), nil
}

// ListShifts implements shift.ShiftService.
func (s *shiftServiceImpl) ListShifts(ctx context.Context, orgID string, filter shift.ShiftFilter) (shift.ListShiftsResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	shifts, total, err := s.shiftRepo.List(ctx, orgID, filter)
	if err != nil {
		return shift.ListShiftsResponse{}, err
	}

	resp := shift.ListShiftsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Shifts:     make([]shift.ShiftResponse, 0, len(shifts)),
	}
	for _, sh := range shifts {
		resp.Shifts = append(resp.Shifts, toShiftResponse(sh))
	}

	return resp, nil
}

// UpdateShift implements shift.ShiftService.
func (s *shiftServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	current, err := s.shiftRepo.GetByID(ctx, req.ID, req.OrgID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	if req.Name != nil && *req.Name != current.Name {
		dup, err := s.shiftRepo.GetByName(ctx, *req.Name, req.OrgID)
		if err != nil {
			return shift.ShiftResponse{}, err
		}
		if dup != nil {
			return shift.ShiftResponse{}, shift.ErrShiftNameExists
		}
		current.Name = *req.Name
	}
	if req.StartTime != nil {
		t, _ := validator.IsValidTimeOfDay(*req.StartTime)
		current.StartTime = t
	}
	if req.EndTime != nil {
		t, _ := validator.IsValidTimeOfDay(*req.EndTime)
		current.EndTime = t
	}
	if req.DurationHours != nil {
		current.DurationHours = *req.DurationHours
	}
	if req.BreakDurationMinutes != nil {
		current.BreakDurationMinutes = *req.BreakDurationMinutes
	}
	if req.LateThresholdMinutes != nil {
		current.LateThresholdMinutes = *req.LateThresholdMinutes
	}
	if req.EarlyOutThresholdMinutes != nil {
		current.EarlyOutThresholdMinutes = *req.EarlyOutThresholdMinutes
	}
	if req.WeeklyOffDays != nil {
		current.WeeklyOffDays = *req.WeeklyOffDays
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	if err := checkDuration(current); err != nil {
		return shift.ShiftResponse{}, err
	}

	if err := s.shiftRepo.Update(ctx, current); err != nil {
		return shift.ShiftResponse{}, err
	}

	return toShiftResponse(current), nil
}

// DeactivateShift implements shift.ShiftService.
func (s *shiftServiceImpl) DeactivateShift(ctx context.Context, id, orgID string) error {
	return s.shiftRepo.Deactivate(ctx, id, orgID)
}

// ImportTemplates implements shift.ShiftService. Templates are upserted by
// name so a re-import of the same configurator export is idempotent.
func (s *shiftServiceImpl) ImportTemplates(ctx context.Context, req shift.ImportTemplatesRequest) ([]shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	responses := make([]shift.ShiftResponse, 0, len(req.Templates))

	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		for _, tpl := range req.Templates {
			createReq := shift.CreateShiftRequest{
				OrgID:                    req.OrgID,
				Name:                     tpl.Name,
				StartTime:                tpl.StartTime,
				EndTime:                  tpl.EndTime,
				DurationHours:            tpl.DurationHours,
				BreakDurationMinutes:     tpl.BreakDurationMinutes,
				LateThresholdMinutes:     tpl.LateThresholdMinutes,
				EarlyOutThresholdMinutes: tpl.EarlyOutThresholdMinutes,
				WeeklyOffDays:            tpl.WeeklyOffDays,
			}
			if err := createReq.Validate(); err != nil {
				return fmt.Errorf("template %q: %w", tpl.Name, err)
			}

			incoming, err := buildShift(createReq)
			if err != nil {
				return fmt.Errorf("template %q: %w", tpl.Name, err)
			}
			incoming.OrgID = req.OrgID

			existing, err := s.shiftRepo.GetByName(txCtx, tpl.Name, req.OrgID)
			if err != nil {
				return err
			}

			if existing != nil {
				incoming.ID = existing.ID
				incoming.IsActive = existing.IsActive
				if err := s.shiftRepo.Update(txCtx, incoming); err != nil {
					return err
				}
				responses = append(responses, toShiftResponse(incoming))
				continue
			}

			created, err := s.shiftRepo.Create(txCtx, incoming)
			if err != nil {
				return err
			}
			responses = append(responses, toShiftResponse(created))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

// Assign implements shift.ShiftService. Any assignment that would overlap the
// new interval is closed in the same transaction, keeping one active shift
// per user per date.
func (s *shiftServiceImpl) Assign(ctx context.Context, req shift.AssignRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	assigned, err := s.shiftRepo.GetByID(ctx, req.ShiftID, req.OrgID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	if !assigned.IsActive {
		return shift.AssignmentResponse{}, shift.ErrShiftInactive
	}

	// Validate already vetted the date format.
	from := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EffectiveFrom != "" {
		from, _ = validator.IsValidDate(req.EffectiveFrom)
	}

	assignment := shift.Assignment{
		ID:            uuid.New().String(),
		OrgID:         req.OrgID,
		UserID:        req.UserID,
		ShiftID:       req.ShiftID,
		EffectiveFrom: from,
		AssignedBy:    req.AssignedBy,
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.assignmentRepo.CloseConflicting(txCtx, req.UserID, from, req.OrgID); err != nil {
			return err
		}
		created, err := s.assignmentRepo.Create(txCtx, assignment)
		if err != nil {
			return err
		}
		assignment = created
		return nil
	})
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	return toAssignmentResponse(assignment), nil
}

// Reassign implements shift.ShiftService. It differs from Assign only in
// requiring that the user already has an assignment covering the effective
// date.
func (s *shiftServiceImpl) Reassign(ctx context.Context, req shift.AssignRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EffectiveFrom != "" {
		from, _ = validator.IsValidDate(req.EffectiveFrom)
	}

	current, err := s.assignmentRepo.ResolveActive(ctx, req.UserID, from, req.OrgID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	if current == nil {
		return shift.AssignmentResponse{}, shift.ErrShiftNotAssigned
	}

	return s.Assign(ctx, req)
}

// ListAssignments implements shift.ShiftService.
func (s *shiftServiceImpl) ListAssignments(ctx context.Context, userID, orgID string) ([]shift.AssignmentResponse, error) {
	assignments, err := s.assignmentRepo.GetByUserID(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, toAssignmentResponse(a))
	}

	return responses, nil
}

// ResolveActiveShift implements shift.ShiftService.
func (s *shiftServiceImpl) ResolveActiveShift(ctx context.Context, userID string, date time.Time, orgID string) (*shift.Shift, error) {
	assignment, err := s.assignmentRepo.ResolveActive(ctx, userID, date, orgID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, nil
	}

	resolved, err := s.shiftRepo.GetByID(ctx, assignment.ShiftID, orgID)
	if err != nil {
		return nil, err
	}

	return &resolved, nil
}

func buildShift(req shift.CreateShiftRequest) (shift.Shift, error) {
	start, _ := validator.IsValidTimeOfDay(req.StartTime)
	end, _ := validator.IsValidTimeOfDay(req.EndTime)

	newShift := shift.Shift{
		ID:                       uuid.New().String(),
		Name:                     req.Name,
		StartTime:                start,
		EndTime:                  end,
		DurationHours:            req.DurationHours,
		BreakDurationMinutes:     req.BreakDurationMinutes,
		LateThresholdMinutes:     req.LateThresholdMinutes,
		EarlyOutThresholdMinutes: req.EarlyOutThresholdMinutes,
		WeeklyOffDays:            req.WeeklyOffDays,
		IsActive:                 true,
	}

	if err := checkDuration(newShift); err != nil {
		return shift.Shift{}, err
	}

	return newShift, nil
}

// checkDuration rejects definitions where the declared working hours disagree
// with the scheduled window minus the break.
func checkDuration(s shift.Shift) error {
	expected := float64(s.SpanMinutes()-s.BreakDurationMinutes) / 60
	if math.Abs(expected-s.DurationHours) > 0.01 {
		return shift.ErrDurationMismatch
	}
	return nil
}

func toShiftResponse(s shift.Shift) shift.ShiftResponse {
	return shift.ShiftResponse{
		ID:                       s.ID,
		OrgID:                    s.OrgID,
		Name:                     s.Name,
		StartTime:                s.StartTime.Format("15:04"),
		EndTime:                  s.EndTime.Format("15:04"),
		DurationHours:            s.DurationHours,
		BreakDurationMinutes:     s.BreakDurationMinutes,
		LateThresholdMinutes:     s.LateThresholdMinutes,
		EarlyOutThresholdMinutes: s.EarlyOutThresholdMinutes,
		IsOvernight:              s.IsOvernight(),
		WeeklyOffDays:            s.WeeklyOffDays,
		IsActive:                 s.IsActive,
		CreatedAt:                s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                s.UpdatedAt.Format(time.RFC3339),
	}
}

func toAssignmentResponse(a shift.Assignment) shift.AssignmentResponse {
	resp := shift.AssignmentResponse{
		ID:            a.ID,
		OrgID:         a.OrgID,
		UserID:        a.UserID,
		ShiftID:       a.ShiftID,
		EffectiveFrom: shift.FormatDate(a.EffectiveFrom),
		AssignedBy:    a.AssignedBy,
	}
	if a.EffectiveTo != nil {
		to := shift.FormatDate(*a.EffectiveTo)
		resp.EffectiveTo = &to
	}
	return resp
}
