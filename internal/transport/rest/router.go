package rest

import (
	"lawhealth/internal/service"
	"lawhealth/internal/transport/rest/handler"
	"lawhealth/internal/transport/rest/middleware"
	"lawhealth/internal/transport/ws"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	ComplianceService handler.ComplianceAPI
	WSHub             *ws.Hub
	Metrics           http.Handler // nil serves the default Prometheus registry
	AllowedOrigins    string
	Log               *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	complianceHandler := handler.NewComplianceHandler(c.ComplianceService, c.Log)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	metricsHandler := c.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/assessments", wsHandler.AssessmentsWS).Methods("GET")

	// Law Health Check routes (require user auth)
	lhc := v1.PathPrefix("/lhc").Subrouter()
	lhc.Use(authMW.RequireUser)

	lhc.HandleFunc("/domains", complianceHandler.Domains).Methods("GET", "OPTIONS")
	lhc.HandleFunc("/questions", complianceHandler.Questions).Methods("GET", "OPTIONS")
	lhc.HandleFunc("/selections/{selectionId}", complianceHandler.Selection).Methods("GET", "OPTIONS")
	lhc.HandleFunc("/assessments", complianceHandler.Evaluate).Methods("POST", "OPTIONS")
	lhc.HandleFunc("/assessments", complianceHandler.History).Methods("GET", "OPTIONS")
	lhc.HandleFunc("/assessments/{id}", complianceHandler.Get).Methods("GET", "OPTIONS")
	lhc.HandleFunc("/assessments/{id}/retake", complianceHandler.Retake).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
