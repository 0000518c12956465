package attendance

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/validator"
)

type PunchRequest struct {
	OrgID      string                `json:"org_id"`
	UserID     string                `json:"user_id"`
	Latitude   float64               `json:"latitude"`
	Longitude  float64               `json:"longitude"`
	DeviceInfo *string               `json:"device_info"`
	SelfieURL  *string               `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OrgID) {
		errs = append(errs, validator.ValidationError{Field: "org_id", Message: "org_id is required"})
	}
	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	// Selfie evidence is optional; when present it must be an image.
	if r.FileHeader != nil {
		filename := r.FileHeader.Filename
		idx := strings.LastIndex(filename, ".")
		ext := ""
		if idx >= 0 {
			ext = strings.ToLower(filename[idx:])
		}
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{Field: "file", Message: "invalid file type: only jpg, jpeg, png allowed"})
		} else if r.FileHeader.Size > 10<<20 {
			errs = append(errs, validator.ValidationError{Field: "file", Message: "selfie size must not exceed 10MB"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID                string   `json:"id"`
	OrgID             string   `json:"org_id"`
	UserID            string   `json:"user_id"`
	Date              string   `json:"date"`
	ShiftID           *string  `json:"shift_id"`
	PunchInTime       *string  `json:"punch_in_time"`
	PunchOutTime      *string  `json:"punch_out_time"`
	PunchInLatitude   *float64 `json:"punch_in_latitude"`
	PunchInLongitude  *float64 `json:"punch_in_longitude"`
	PunchInAddress    *string  `json:"punch_in_address"`
	PunchInSelfieURL  *string  `json:"punch_in_selfie_url"`
	PunchInDistanceM  *float64 `json:"punch_in_distance_meters"`
	PunchOutLatitude  *float64 `json:"punch_out_latitude"`
	PunchOutLongitude *float64 `json:"punch_out_longitude"`
	PunchOutAddress   *string  `json:"punch_out_address"`
	PunchOutSelfieURL *string  `json:"punch_out_selfie_url"`
	PunchOutDistanceM *float64 `json:"punch_out_distance_meters"`
	IsOutsideGeofence bool     `json:"is_outside_geofence"`
	TotalHours        float64  `json:"total_hours"`
	EffectiveHours    float64  `json:"effective_hours"`
	IsLate            bool     `json:"is_late"`
	IsEarlyOut        bool     `json:"is_early_out"`
	IsHalfDay         bool     `json:"is_half_day"`
	IsWeekend         bool     `json:"is_weekend"`
	IsHoliday         bool     `json:"is_holiday"`
	IsAbsent          bool     `json:"is_absent"`
	IsRegularized     bool     `json:"is_regularized"`
	NeedsReview       bool     `json:"needs_review"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type RecordFilter struct {
	UserID    *string
	Date      *string
	StartDate *string
	EndDate   *string
	// Deviations narrows to late or early-out, non-regularized rows.
	Deviations bool
	Page       int
	Limit      int
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	for field, v := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if v != nil && *v != "" {
			if _, ok := validator.IsValidDate(*v); !ok {
				errs = append(errs, validator.ValidationError{Field: field, Message: "must be YYYY-MM-DD"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}

// FormatTime renders a nullable timestamp the way responses carry it.
func FormatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02 15:04:05")
	return &s
}
