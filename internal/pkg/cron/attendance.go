package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/organization"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/shift"
)

// AttendanceJobs holds the nightly attendance sweeps.
type AttendanceJobs struct {
	recordRepo     attendance.RecordRepository
	shiftRepo      shift.ShiftRepository
	assignmentRepo shift.AssignmentRepository
	orgRepo        organization.OrganizationRepository
	holidayRepo    organization.HolidayRepository
}

func NewAttendanceJobs(
	recordRepo attendance.RecordRepository,
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.AssignmentRepository,
	orgRepo organization.OrganizationRepository,
	holidayRepo organization.HolidayRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		recordRepo:     recordRepo,
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		orgRepo:        orgRepo,
		holidayRepo:    holidayRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("materialize_absences", 1*time.Hour, j.MaterializeAbsences)
}

// MaterializeAbsences writes is_absent rows for yesterday's working days that
// have no attendance record. Days that are the shift's weekly off or an org
// holiday are skipped: absence only means a missed working day. Re-running is
// safe; BulkCreateAbsences skips (user, date) pairs that already have a row.
func (j *AttendanceJobs) MaterializeAbsences(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}
	return j.Sweep(ctx, time.Now())
}

// Sweep materializes absences for the day before now, per org time zone.
func (j *AttendanceJobs) Sweep(ctx context.Context, now time.Time) error {
	slog.Info("Cron: Starting absence sweep")

	orgIDs, err := j.orgRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	totalAbsent := 0

	for _, orgID := range orgIDs {
		org, err := j.orgRepo.GetByID(ctx, orgID)
		if err != nil {
			slog.Error("Cron: Failed to load organization", "org_id", orgID, "error", err)
			continue
		}

		loc := org.Location()
		yesterday := now.In(loc).AddDate(0, 0, -1)
		day := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)

		assignments, err := j.assignmentRepo.ListActiveOn(ctx, orgID, day)
		if err != nil {
			slog.Error("Cron: Failed to list active assignments", "org_id", orgID, "error", err)
			continue
		}

		isHoliday, err := j.holidayRepo.IsHoliday(ctx, orgID, day)
		if err != nil {
			slog.Error("Cron: Holiday lookup failed", "org_id", orgID, "error", err)
			isHoliday = false
		}
		if isHoliday {
			continue
		}

		var absences []attendance.Record

		for _, a := range assignments {
			sh, err := j.shiftRepo.GetByID(ctx, a.ShiftID, orgID)
			if err != nil {
				continue
			}
			if sh.IsWeeklyOff(day.Weekday()) {
				continue
			}

			existing, err := j.recordRepo.GetByUserAndDate(ctx, a.UserID, day, orgID)
			if err != nil || existing != nil {
				continue
			}

			shiftID := sh.ID
			absences = append(absences, attendance.Record{
				ID:       uuid.New().String(),
				OrgID:    orgID,
				UserID:   a.UserID,
				Date:     day,
				ShiftID:  &shiftID,
				IsAbsent: true,
			})
		}

		if len(absences) == 0 {
			continue
		}

		if err := j.recordRepo.BulkCreateAbsences(ctx, absences); err != nil {
			slog.Error("Cron: Failed to bulk create absences", "org_id", orgID, "error", err)
			continue
		}

		totalAbsent += len(absences)
	}

	slog.Info("Cron: Absence sweep finished", "count", totalAbsent)
	return nil
}
