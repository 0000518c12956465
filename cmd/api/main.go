package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/shiftwise-hq/attendance-backend-go/internal/config"
	appHTTP "github.com/shiftwise-hq/attendance-backend-go/internal/handler/http"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/cron"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/events"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/geocode"
	"github.com/shiftwise-hq/attendance-backend-go/internal/pkg/storage"
	"github.com/shiftwise-hq/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/shiftwise-hq/attendance-backend-go/internal/service/attendance"
	"github.com/shiftwise-hq/attendance-backend-go/internal/service/file"
	regularizationService "github.com/shiftwise-hq/attendance-backend-go/internal/service/regularization"
	shiftService "github.com/shiftwise-hq/attendance-backend-go/internal/service/shift"
	summaryService "github.com/shiftwise-hq/attendance-backend-go/internal/service/summary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)

	orgRepo := postgresql.NewOrganizationRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	regularizationRepo := postgresql.NewRegularizationRepository(db)
	overrideRepo := postgresql.NewOverrideRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}
	fileService := file.NewFileService(fileStorage)

	var geocoder geocode.Geocoder = geocode.Noop{}
	if cfg.Geocoder.BaseURL != "" {
		geocoder = geocode.NewHTTPGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.Timeout)
	}

	hub := events.NewHub()

	shiftSvc := shiftService.NewShiftService(db, shiftRepo, assignmentRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		orgRepo,
		holidayRepo,
		shiftRepo,
		shiftSvc,
		fileService,
		geocoder,
		hub,
		cfg.Attendance,
		logger,
	)
	regularizationSvc := regularizationService.NewRegularizationService(
		db,
		regularizationRepo,
		attendanceRepo,
		orgRepo,
		holidayRepo,
		shiftRepo,
		hub,
		cfg.Attendance,
	)
	summarySvc := summaryService.NewSummaryService(attendanceRepo, overrideRepo, logger)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, summarySvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	regularizationHandler := appHTTP.NewRegularizationHandler(regularizationSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		attendanceHandler,
		shiftHandler,
		regularizationHandler,
		eventsHandler,
	)

	if cfg.Attendance.AbsenceSweepEnabled {
		scheduler := cron.NewScheduler()
		jobs := cron.NewAttendanceJobs(attendanceRepo, shiftRepo, assignmentRepo, orgRepo, holidayRepo)
		jobs.RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
