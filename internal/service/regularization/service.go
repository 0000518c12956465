package regularization

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwise-hq/attendance-backend-go/internal/config"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/organization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/regularization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/events"
	"github.com/shiftwise-hq/attendance-backend-go/internal/repository/postgresql"
	attendancesvc "github.com/shiftwise-hq/attendance-backend-go/internal/service/attendance"
)

type regularizationServiceImpl struct {
	db          *database.DB
	requestRepo regularization.RequestRepository
	recordRepo  attendance.RecordRepository
	orgRepo     organization.OrganizationRepository
	holidayRepo organization.HolidayRepository
	shiftRepo   shift.ShiftRepository
	publisher   events.Publisher
	deriver     attendancesvc.Deriver

	now func() time.Time
}

func NewRegularizationService(
	db *database.DB,
	requestRepo regularization.RequestRepository,
	recordRepo attendance.RecordRepository,
	orgRepo organization.OrganizationRepository,
	holidayRepo organization.HolidayRepository,
	shiftRepo shift.ShiftRepository,
	publisher events.Publisher,
	policy config.AttendanceConfig,
) regularization.RegularizationService {
	return &regularizationServiceImpl{
		db:          db,
		requestRepo: requestRepo,
		recordRepo:  recordRepo,
		orgRepo:     orgRepo,
		holidayRepo: holidayRepo,
		shiftRepo:   shiftRepo,
		publisher:   publisher,
		deriver: attendancesvc.Deriver{
			DefaultBreakMinutes: policy.DefaultBreakMinutes,
			HalfDayRatio:        policy.HalfDayRatio,
		},
		now: time.Now,
	}
}

// Request implements regularization.RegularizationService. Only a record that
// actually deviates can be contested, and one pending request per record is
// the ceiling.
func (s *regularizationServiceImpl) Request(ctx context.Context, req regularization.CreateRequest) (regularization.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RequestResponse{}, err
	}

	rec, err := s.recordRepo.GetByID(ctx, req.RecordID, req.OrgID)
	if err != nil {
		return regularization.RequestResponse{}, err
	}
	if rec.IsRegularized {
		return regularization.RequestResponse{}, regularization.ErrRecordAlreadyRegularized
	}
	if !rec.IsLate && !rec.IsEarlyOut {
		return regularization.RequestResponse{}, attendance.ErrRecordNotDeviating
	}

	pending, err := s.requestRepo.HasPendingForRecord(ctx, req.RecordID, req.OrgID)
	if err != nil {
		return regularization.RequestResponse{}, err
	}
	if pending {
		return regularization.RequestResponse{}, regularization.ErrDuplicateRequest
	}

	created, err := s.requestRepo.Create(ctx, regularization.Request{
		ID:          uuid.New().String(),
		OrgID:       req.OrgID,
		RecordID:    req.RecordID,
		RequesterID: req.RequesterID,
		Reason:      req.Reason,
		Status:      regularization.StatusPending,
	})
	if err != nil {
		return regularization.RequestResponse{}, err
	}

	return toRequestResponse(created), nil
}

// Approve implements regularization.RegularizationService. The request status
// change and the record mutation commit together.
func (s *regularizationServiceImpl) Approve(ctx context.Context, req regularization.ResolveRequest) (regularization.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RequestResponse{}, err
	}

	var resolved regularization.Request

	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.requestRepo.GetByID(txCtx, req.ID, req.OrgID)
		if err != nil {
			return err
		}
		if request.Status != regularization.StatusPending {
			return regularization.ErrRequestAlreadyProcessed
		}

		rec, err := s.recordRepo.GetByID(txCtx, request.RecordID, req.OrgID)
		if err != nil {
			return err
		}

		if err := s.regularizeRecord(txCtx, rec, req.ApproverID, req.Remarks); err != nil {
			return err
		}

		request.Status = regularization.StatusApproved
		request.ApproverID = &req.ApproverID
		if req.Remarks != "" {
			request.AdminRemarks = &req.Remarks
		}
		if err := s.requestRepo.UpdateStatus(txCtx, request); err != nil {
			return err
		}

		resolved = request
		return nil
	})
	if err != nil {
		return regularization.RequestResponse{}, err
	}

	s.publishResolution(resolved)
	return toRequestResponse(resolved), nil
}

// Reject implements regularization.RegularizationService. The record keeps
// its deviation flags.
func (s *regularizationServiceImpl) Reject(ctx context.Context, req regularization.ResolveRequest) (regularization.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RequestResponse{}, err
	}

	request, err := s.requestRepo.GetByID(ctx, req.ID, req.OrgID)
	if err != nil {
		return regularization.RequestResponse{}, err
	}
	if request.Status != regularization.StatusPending {
		return regularization.RequestResponse{}, regularization.ErrRequestAlreadyProcessed
	}

	request.Status = regularization.StatusRejected
	request.ApproverID = &req.ApproverID
	if req.Remarks != "" {
		request.AdminRemarks = &req.Remarks
	}
	if err := s.requestRepo.UpdateStatus(ctx, request); err != nil {
		return regularization.RequestResponse{}, err
	}

	s.publishResolution(request)
	return toRequestResponse(request), nil
}

// DirectRegularize implements regularization.RegularizationService.
func (s *regularizationServiceImpl) DirectRegularize(ctx context.Context, req regularization.DirectRegularizeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	rec, err := s.recordRepo.GetByID(ctx, req.RecordID, req.OrgID)
	if err != nil {
		return err
	}
	if rec.IsRegularized {
		return regularization.ErrRecordAlreadyRegularized
	}

	return s.regularizeRecord(ctx, rec, req.ApproverID, req.Remarks)
}

// regularizeRecord applies the approval mutation and re-derives the record so
// the direct path and the request path converge on the same state.
func (s *regularizationServiceImpl) regularizeRecord(ctx context.Context, rec attendance.Record, approverID, remarks string) error {
	org, err := s.orgRepo.GetByID(ctx, rec.OrgID)
	if err != nil {
		return err
	}

	var resolved *shift.Shift
	if rec.ShiftID != nil {
		found, err := s.shiftRepo.GetByID(ctx, *rec.ShiftID, rec.OrgID)
		if err != nil {
			return err
		}
		resolved = &found
	}

	isHoliday, err := s.holidayRepo.IsHoliday(ctx, rec.OrgID, rec.Date)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	rec.IsRegularized = true
	rec.RegularizedBy = &approverID
	rec.RegularizedAt = &now
	if remarks != "" {
		rec.RegularizationRemarks = &remarks
	}

	rec = s.deriver.Derive(attendancesvc.DeriveInput{
		Record:               rec,
		Shift:                resolved,
		Location:             org.Location(),
		IsHoliday:            isHoliday,
		DefaultWeeklyOffDays: org.DefaultWeeklyOffDays,
	})

	return s.recordRepo.Update(ctx, rec)
}

func (s *regularizationServiceImpl) publishResolution(req regularization.Request) {
	s.publisher.Publish(events.Event{
		OrgID:  req.OrgID,
		UserID: req.RequesterID,
		Type:   events.TypeRegularizationResolved,
		Data:   toRequestResponse(req),
	})
}

func toRequestResponse(req regularization.Request) regularization.RequestResponse {
	return regularization.RequestResponse{
		ID:           req.ID,
		OrgID:        req.OrgID,
		RecordID:     req.RecordID,
		RequesterID:  req.RequesterID,
		Reason:       req.Reason,
		Status:       string(req.Status),
		ApproverID:   req.ApproverID,
		AdminRemarks: req.AdminRemarks,
		CreatedAt:    req.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    req.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
