package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careconnect/careconnect-api/internal/accounts"
	"github.com/careconnect/careconnect-api/internal/doctors"
	httpmiddleware "github.com/careconnect/careconnect-api/internal/http/middleware"
	"github.com/careconnect/careconnect-api/internal/identity"
	"github.com/careconnect/careconnect-api/internal/scheduling"
	"github.com/careconnect/careconnect-api/internal/triage"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	TokenIssuer        *identity.TokenIssuer
	AccountsHandler    *accounts.Handler
	DoctorsHandler     *doctors.Handler
	SchedulingHandler  *scheduling.Handler
	TriageHandler      *triage.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// AuthThrottle caps concurrent signup/login requests. Zero disables it.
	AuthThrottle int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api/auth", func(auth chi.Router) {
			if cfg.AuthThrottle > 0 {
				auth.Use(middleware.Throttle(cfg.AuthThrottle))
			}
			auth.Post("/signup", cfg.AccountsHandler.Signup)
			auth.Post("/login", cfg.AccountsHandler.Login)
		})

		public.Get("/api/doctors", cfg.DoctorsHandler.List)
		public.Post("/api/symptoms/analyze", cfg.TriageHandler.Analyze)
	})

	// Authenticated endpoints
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.SessionAuth(cfg.TokenIssuer))

		private.Group(func(patient chi.Router) {
			patient.Use(httpmiddleware.RequirePatient)
			patient.Post("/api/appointments/book", cfg.SchedulingHandler.Book)
			patient.Get("/api/appointments/patient", cfg.SchedulingHandler.ListForPatient)
		})

		private.Group(func(doctor chi.Router) {
			doctor.Use(httpmiddleware.RequireDoctor)
			doctor.Get("/api/doctors/profile", cfg.DoctorsHandler.GetProfile)
			doctor.Patch("/api/doctors/profile", cfg.DoctorsHandler.UpdateProfile)
			doctor.Get("/api/doctors/appointments", cfg.SchedulingHandler.ListForDoctor)
		})

		// Either party can complete or cancel an appointment.
		private.Patch("/api/appointments/{id}", cfg.SchedulingHandler.UpdateStatus)
		private.Delete("/api/appointments/{id}", cfg.SchedulingHandler.Cancel)
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
