package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/domain/summary"
	"github.com/shiftwise-hq/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	summaryService    summary.SummaryService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, summaryService summary.SummaryService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		summaryService:    summaryService,
	}
}

// parsePunchRequest reads the multipart punch payload: a 'data' JSON field
// plus an optional 'photo' file.
func parsePunchRequest(w http.ResponseWriter, r *http.Request) (attendance.PunchRequest, bool) {
	var req attendance.PunchRequest

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return req, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return req, false
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}

	// Selfie evidence is optional.
	file, fileHeader, err := r.FormFile("photo")
	if err != nil && err != http.ErrMissingFile {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return req, false
	}
	if err == nil {
		req.File = file
		req.FileHeader = fileHeader
	}

	return req, true
}

// PunchIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePunchRequest(w, r)
	if !ok {
		return
	}
	if req.File != nil {
		defer req.File.Close()
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.PunchIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punch in successful", result)
}

// PunchOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePunchRequest(w, r)
	if !ok {
		return
	}
	if req.File != nil {
		defer req.File.Close()
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.PunchOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch out successful", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		response.BadRequest(w, "Query parameter 'org_id' is required", nil)
		return
	}

	filter := attendance.RecordFilter{
		Page:       parseIntQuery(r, "page", 1),
		Limit:      parseIntQuery(r, "limit", 20),
		Deviations: r.URL.Query().Get("deviations") == "true",
	}
	for param, target := range map[string]**string{
		"user_id":    &filter.UserID,
		"date":       &filter.Date,
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	} {
		if v := r.URL.Query().Get(param); v != "" {
			value := v
			*target = &value
		}
	}

	result, err := h.attendanceService.ListRecords(r.Context(), orgID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages(result.TotalCount, result.Limit),
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		response.BadRequest(w, "Query parameter 'org_id' is required", nil)
		return
	}

	result, err := h.attendanceService.GetRecord(r.Context(), chi.URLParam(r, "id"), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Monthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	orgID := r.URL.Query().Get("org_id")
	userID := r.URL.Query().Get("user_id")
	if orgID == "" || userID == "" {
		response.BadRequest(w, "Query parameters 'org_id' and 'user_id' are required", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'year' must be a number", nil)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'month' must be a number", nil)
		return
	}

	result, err := h.summaryService.Monthly(r.Context(), userID, year, time.Month(month), orgID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseIntQuery(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}
