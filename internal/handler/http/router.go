package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(
	env string,
	attendanceHandler AttendanceHandler,
	shiftHandler ShiftHandler,
	regularizationHandler RegularizationHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/punch", func(r chi.Router) {
			r.Post("/in", attendanceHandler.PunchIn)
			r.Post("/out", attendanceHandler.PunchOut)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", attendanceHandler.List)
			r.Get("/monthly", attendanceHandler.Monthly)
			r.Get("/{id}", attendanceHandler.Get)
			r.Post("/{id}/regularize", regularizationHandler.DirectRegularize)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", shiftHandler.Create)
			r.Get("/", shiftHandler.List)
			r.Post("/import", shiftHandler.Import)
			r.Get("/{id}", shiftHandler.Get)
			r.Put("/{id}", shiftHandler.Update)
			r.Delete("/{id}", shiftHandler.Deactivate)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", shiftHandler.Assign)
			r.Put("/", shiftHandler.Reassign)
			r.Get("/", shiftHandler.ListAssignments)
		})

		r.Route("/regularizations", func(r chi.Router) {
			r.Post("/", regularizationHandler.Create)
			r.Post("/{id}/approve", regularizationHandler.Approve)
			r.Post("/{id}/reject", regularizationHandler.Reject)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/stream", eventsHandler.Stream)
		})
	})

	return r
}
