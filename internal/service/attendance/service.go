package attendance

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwise-hq/attendance-backend-go/internal/config"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/organization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/events"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/geo"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/geocode"
	"github.com/shiftwise-hq/attendance-backend-go/internal/service/file"
)

// ShiftResolver is the slice of the shift service the punch path needs.
type ShiftResolver interface {
	ResolveActiveShift(ctx context.Context, userID string, date time.Time, orgID string) (*shift.Shift, error)
}

type attendanceServiceImpl struct {
	recordRepo  attendance.RecordRepository
	orgRepo     organization.OrganizationRepository
	holidayRepo organization.HolidayRepository
	shiftRepo   shift.ShiftRepository
	shiftSvc    ShiftResolver
	fileSvc     file.FileService
	geocoder    geocode.Geocoder
	publisher   events.Publisher
	deriver     Deriver
	policy      config.AttendanceConfig
	logger      *slog.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewAttendanceService(
	recordRepo attendance.RecordRepository,
	orgRepo organization.OrganizationRepository,
	holidayRepo organization.HolidayRepository,
	shiftRepo shift.ShiftRepository,
	shiftSvc ShiftResolver,
	fileSvc file.FileService,
	geocoder geocode.Geocoder,
	publisher events.Publisher,
	policy config.AttendanceConfig,
	logger *slog.Logger,
) attendance.AttendanceService {
	return &attendanceServiceImpl{
		recordRepo:  recordRepo,
		orgRepo:     orgRepo,
		holidayRepo: holidayRepo,
		shiftRepo:   shiftRepo,
		shiftSvc:    shiftSvc,
		fileSvc:     fileSvc,
		geocoder:    geocoder,
		publisher:   publisher,
		deriver: Deriver{
			DefaultBreakMinutes: policy.DefaultBreakMinutes,
			HalfDayRatio:        policy.HalfDayRatio,
		},
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// PunchIn implements attendance.AttendanceService. The attendance date is the
// punch moment's calendar date in the org's time zone; a second punch-in on
// the same date is a no-op returning the existing record. A user keeps at most
// one open record at a time: while a prior record (an overnight one from a
// previous date included) is still missing its punch-out, punching in again is
// also a no-op returning that open record.
func (s *attendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	org, err := s.orgRepo.GetByID(ctx, req.OrgID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	punchAt := s.now().UTC()
	date := localDate(punchAt, org.Location())

	since, err := s.lookbackStart(ctx, req.OrgID, date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	open, err := s.recordRepo.GetOpenRecord(ctx, req.UserID, since, req.OrgID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if open != nil {
		return toRecordResponse(*open), nil
	}

	resolved, err := s.shiftSvc.ResolveActiveShift(ctx, req.UserID, date, req.OrgID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	check, err := s.checkGeofence(org, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	isHoliday, err := s.holidayRepo.IsHoliday(ctx, req.OrgID, date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec := attendance.Record{
		ID:                uuid.New().String(),
		OrgID:             req.OrgID,
		UserID:            req.UserID,
		Date:              date,
		PunchInTime:       &punchAt,
		PunchInLatitude:   &req.Latitude,
		PunchInLongitude:  &req.Longitude,
		PunchInDeviceInfo: req.DeviceInfo,
		PunchInDistanceM:  check.DistanceMeters,
		IsOutsideGeofence: check.IsOutside,
		NeedsReview:       resolved == nil,
	}
	if resolved != nil {
		rec.ShiftID = &resolved.ID
	}

	rec.PunchInSelfieURL = s.uploadSelfie(ctx, req, date, file.PunchKindIn)
	rec.PunchInAddress = s.lookupAddress(ctx, req.Latitude, req.Longitude)

	rec = s.deriver.Derive(DeriveInput{
		Record:               rec,
		Shift:                resolved,
		Location:             org.Location(),
		IsHoliday:            isHoliday,
		DefaultWeeklyOffDays: org.DefaultWeeklyOffDays,
	})

	stored, inserted, err := s.recordRepo.Upsert(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if inserted {
		s.publisher.Publish(events.Event{
			OrgID:  stored.OrgID,
			UserID: stored.UserID,
			Type:   events.TypeRecordCreated,
			Data:   toRecordResponse(stored),
		})
	}

	return toRecordResponse(stored), nil
}

// PunchOut implements attendance.AttendanceService. It closes the most recent
// open record within the lookback window, so an overnight worker punching out
// after midnight still lands on the punch-in date's record.
func (s *attendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	org, err := s.orgRepo.GetByID(ctx, req.OrgID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	punchAt := s.now().UTC()
	today := localDate(punchAt, org.Location())

	since, err := s.lookbackStart(ctx, req.OrgID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	open, err := s.recordRepo.GetOpenRecord(ctx, req.UserID, since, req.OrgID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if open == nil {
		return attendance.RecordResponse{}, attendance.ErrNoActivePunch
	}

	var resolved *shift.Shift
	if open.ShiftID != nil {
		found, err := s.shiftRepo.GetByID(ctx, *open.ShiftID, req.OrgID)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		resolved = &found
	}

	if resolved != nil && resolved.IsOvernight() {
		elapsed := punchAt.Sub(*open.PunchInTime).Hours()
		if elapsed < s.policy.MinOvernightHours || elapsed > s.policy.MaxOvernightHours {
			return attendance.RecordResponse{}, &attendance.InvalidDurationError{
				RecordID:     open.ID,
				ElapsedHours: elapsed,
				MinHours:     s.policy.MinOvernightHours,
				MaxHours:     s.policy.MaxOvernightHours,
			}
		}
	}

	check, err := s.checkGeofence(org, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	isHoliday, err := s.holidayRepo.IsHoliday(ctx, req.OrgID, open.Date)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec := *open
	rec.PunchOutTime = &punchAt
	rec.PunchOutLatitude = &req.Latitude
	rec.PunchOutLongitude = &req.Longitude
	rec.PunchOutDeviceInfo = req.DeviceInfo
	rec.PunchOutDistanceM = check.DistanceMeters
	rec.IsOutsideGeofence = rec.IsOutsideGeofence || check.IsOutside

	rec.PunchOutSelfieURL = s.uploadSelfie(ctx, req, rec.Date, file.PunchKindOut)
	rec.PunchOutAddress = s.lookupAddress(ctx, req.Latitude, req.Longitude)

	rec = s.deriver.Derive(DeriveInput{
		Record:               rec,
		Shift:                resolved,
		Location:             org.Location(),
		IsHoliday:            isHoliday,
		DefaultWeeklyOffDays: org.DefaultWeeklyOffDays,
	})

	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return attendance.RecordResponse{}, err
	}

	s.publisher.Publish(events.Event{
		OrgID:  rec.OrgID,
		UserID: rec.UserID,
		Type:   events.TypeRecordUpdated,
		Data:   toRecordResponse(rec),
	})

	return toRecordResponse(rec), nil
}

// GetRecord implements attendance.AttendanceService.
func (s *attendanceServiceImpl) GetRecord(ctx context.Context, id, orgID string) (attendance.RecordResponse, error) {
	rec, err := s.recordRepo.GetByID(ctx, id, orgID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return toRecordResponse(rec), nil
}

// ListRecords implements attendance.AttendanceService.
func (s *attendanceServiceImpl) ListRecords(ctx context.Context, orgID string, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	records, total, err := s.recordRepo.List(ctx, orgID, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	resp := attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}

	return resp, nil
}

// checkGeofence evaluates the org fence and rejects strict-mode violations.
func (s *attendanceServiceImpl) checkGeofence(org organization.Organization, lat, lon float64) (geo.Result, error) {
	fence := orgFence(org)
	check := fence.Check(lat, lon)

	if check.IsOutside && geo.ParseMode(org.GeofenceMode) == geo.ModeStrict {
		return geo.Result{}, &attendance.GeofenceViolationError{
			DistanceMeters:  *check.DistanceMeters,
			ThresholdMeters: org.GeofenceRadiusMeters,
		}
	}

	return check, nil
}

// lookbackStart returns the earliest date an open record may carry. The
// window grows with the longest overnight shift so a night worker's punch-out
// after midnight still finds yesterday's record.
func (s *attendanceServiceImpl) lookbackStart(ctx context.Context, orgID string, today time.Time) (time.Time, error) {
	spanMinutes, err := s.shiftRepo.MaxOvernightSpanMinutes(ctx, orgID)
	if err != nil {
		return time.Time{}, err
	}

	maxHours := s.policy.MaxOvernightHours
	if h := float64(spanMinutes) / 60; h > maxHours {
		maxHours = h
	}

	days := int(math.Ceil(maxHours/24)) + 1
	return today.AddDate(0, 0, -days), nil
}

// uploadSelfie is best-effort: a storage failure never blocks the punch.
func (s *attendanceServiceImpl) uploadSelfie(ctx context.Context, req attendance.PunchRequest, date time.Time, kind file.PunchKind) *string {
	if req.File == nil || req.FileHeader == nil {
		return req.SelfieURL
	}

	path, err := s.fileSvc.UploadPunchSelfie(ctx, req.UserID, date, kind, req.File, req.FileHeader.Filename)
	if err != nil {
		s.logger.Warn("punch selfie upload failed",
			slog.String("user_id", req.UserID),
			slog.Any("error", err),
		)
		return nil
	}

	return &path
}

// lookupAddress is best-effort: the raw coordinates are always stored.
func (s *attendanceServiceImpl) lookupAddress(ctx context.Context, lat, lon float64) *string {
	address, err := s.geocoder.Lookup(ctx, lat, lon)
	if err != nil {
		s.logger.Debug("reverse geocode failed", slog.Any("error", err))
		return nil
	}
	return &address
}

func orgFence(org organization.Organization) *geo.Fence {
	if org.GeofenceLatitude == nil || org.GeofenceLongitude == nil {
		return nil
	}
	return &geo.Fence{
		Latitude:     *org.GeofenceLatitude,
		Longitude:    *org.GeofenceLongitude,
		RadiusMeters: org.GeofenceRadiusMeters,
		Mode:         geo.ParseMode(org.GeofenceMode),
	}
}

// localDate converts a punch instant to its calendar date in the org's time
// zone, carried as a UTC midnight value.
func localDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:                rec.ID,
		OrgID:             rec.OrgID,
		UserID:            rec.UserID,
		Date:              rec.Date.Format("2006-01-02"),
		ShiftID:           rec.ShiftID,
		PunchInTime:       attendance.FormatTime(rec.PunchInTime),
		PunchOutTime:      attendance.FormatTime(rec.PunchOutTime),
		PunchInLatitude:   rec.PunchInLatitude,
		PunchInLongitude:  rec.PunchInLongitude,
		PunchInAddress:    rec.PunchInAddress,
		PunchInSelfieURL:  rec.PunchInSelfieURL,
		PunchInDistanceM:  rec.PunchInDistanceM,
		PunchOutLatitude:  rec.PunchOutLatitude,
		PunchOutLongitude: rec.PunchOutLongitude,
		PunchOutAddress:   rec.PunchOutAddress,
		PunchOutSelfieURL: rec.PunchOutSelfieURL,
		PunchOutDistanceM: rec.PunchOutDistanceM,
		IsOutsideGeofence: rec.IsOutsideGeofence,
		TotalHours:        rec.TotalHours,
		EffectiveHours:    rec.EffectiveHours,
		IsLate:            rec.IsLate,
		IsEarlyOut:        rec.IsEarlyOut,
		IsHalfDay:         rec.IsHalfDay,
		IsWeekend:         rec.IsWeekend,
		IsHoliday:         rec.IsHoliday,
		IsAbsent:          rec.IsAbsent,
		IsRegularized:     rec.IsRegularized,
		NeedsReview:       rec.NeedsReview,
		CreatedAt:         rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
