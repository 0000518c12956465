package summary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/summary"
)

type summaryServiceImpl struct {
	recordRepo   attendance.RecordRepository
	overrideRepo summary.OverrideRepository
	logger       *slog.Logger
}

func NewSummaryService(
	recordRepo attendance.RecordRepository,
	overrideRepo summary.OverrideRepository,
	logger *slog.Logger,
) summary.SummaryService {
	return &summaryServiceImpl{
		recordRepo:   recordRepo,
		overrideRepo: overrideRepo,
		logger:       logger,
	}
}

// Monthly implements summary.SummaryService.
func (s *summaryServiceImpl) Monthly(ctx context.Context, userID string, year int, month time.Month, orgID string) (summary.MonthlySummary, error) {
	if month < time.January || month > time.December {
		return summary.MonthlySummary{}, summary.ErrInvalidMonth
	}
	if year < 2000 || year > 2200 {
		return summary.MonthlySummary{}, summary.ErrInvalidYear
	}

	records, err := s.recordRepo.ListForMonth(ctx, userID, year, month, orgID)
	if err != nil {
		return summary.MonthlySummary{}, err
	}

	result := computeSystemTotals(orgID, userID, year, month, dedupe(records))

	override, err := s.overrideRepo.GetWinning(ctx, userID, year, month, orgID)
	if err != nil {
		// A corrupt override never blocks the summary; the system numbers
		// stand until the override is fixed.
		if errors.Is(err, summary.ErrMalformedOverride) {
			s.logger.Warn("skipping malformed monthly override",
				slog.String("user_id", userID),
				slog.Int("year", year),
				slog.Int("month", int(month)),
				slog.Any("error", err),
			)
			return result, nil
		}
		return summary.MonthlySummary{}, err
	}

	if override != nil {
		result = applyOverride(result, override.Payload)
	}

	return result, nil
}

// dedupe collapses duplicate rows for one date, preferring a row with a
// punch-in over one without, then a row with a resolved shift.
func dedupe(records []attendance.Record) []attendance.Record {
	byDate := make(map[string]attendance.Record)
	var order []string

	for _, rec := range records {
		key := rec.Date.Format("2006-01-02")
		current, seen := byDate[key]
		if !seen {
			byDate[key] = rec
			order = append(order, key)
			continue
		}
		if preferRecord(rec, current) {
			byDate[key] = rec
		}
	}

	out := make([]attendance.Record, 0, len(order))
	for _, key := range order {
		out = append(out, byDate[key])
	}
	return out
}

func preferRecord(candidate, current attendance.Record) bool {
	if (candidate.PunchInTime != nil) != (current.PunchInTime != nil) {
		return candidate.PunchInTime != nil
	}
	if (candidate.ShiftID != nil) != (current.ShiftID != nil) {
		return candidate.ShiftID != nil
	}
	return false
}

func computeSystemTotals(orgID, userID string, year int, month time.Month, records []attendance.Record) summary.MonthlySummary {
	result := summary.MonthlySummary{
		OrgID:  orgID,
		UserID: userID,
		Year:   year,
		Month:  int(month),
		Source: summary.SourceSystem,
	}

	for _, rec := range records {
		switch {
		case rec.IsAbsent:
			result.AbsentDays++
			result.LOPDays++
		case rec.PunchInTime != nil:
			if rec.IsHalfDay {
				result.PresentDays += 0.5
				result.LOPDays += 0.5
				result.HalfDayCount++
			} else {
				result.PresentDays++
			}
		}

		if rec.IsLate {
			result.LateDays++
		}
		if rec.IsEarlyOut {
			result.EarlyOutDays++
		}
		if rec.IsRegularized {
			result.RegularizedDays++
		}
		if rec.IsWeekend {
			result.WeeklyOffs++
		}
		if rec.IsHoliday {
			result.Holidays++
		}

		result.TotalEffectiveHours += rec.EffectiveHours
	}

	return result
}

// applyOverride replaces system totals field-by-field. A present field wins
// even at zero; OvertimeHours is additive on top of the system hours.
func applyOverride(result summary.MonthlySummary, p summary.OverridePayload) summary.MonthlySummary {
	applied := false

	if p.PresentDays != nil {
		result.PresentDays = *p.PresentDays
		applied = true
	}
	if p.LOPDays != nil {
		result.LOPDays = *p.LOPDays
		applied = true
	}
	if p.PaidLeaves != nil {
		result.PaidLeaves = *p.PaidLeaves
		applied = true
	}
	if p.Holidays != nil {
		result.Holidays = *p.Holidays
		applied = true
	}
	if p.WeeklyOffs != nil {
		result.WeeklyOffs = *p.WeeklyOffs
		applied = true
	}
	if p.LateOccurrences != nil {
		result.LateDays = *p.LateOccurrences
		applied = true
	}
	if p.EarlyOuts != nil {
		result.EarlyOutDays = *p.EarlyOuts
		applied = true
	}
	if p.OvertimeHours != nil {
		// Overtime adds to the system hours instead of replacing them.
		result.OvertimeHours = *p.OvertimeHours
		result.TotalEffectiveHours += *p.OvertimeHours
		applied = true
	}
	if p.Remarks != nil {
		result.Remarks = p.Remarks
		applied = true
	}

	if applied {
		result.Source = summary.SourceOverride
	}

	return result
}
