package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"codeshare/internal/service"
	"codeshare/internal/transport/rest/handler"
	"codeshare/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	Authenticator  service.Authenticator
	SessionService *service.SessionService
	UserService    *service.UserService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	candidateHandler := handler.NewCandidateHandler(c.SessionService)
	userHandler := handler.NewUserHandler(c.UserService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.Authenticator)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")

	// Candidate routes (public: the session code is the capability)
	v1.HandleFunc("/candidate/register", candidateHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/candidate/sessions/{id}", candidateHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/candidate/sessions/{id}/refresh", candidateHandler.Refresh).Methods("GET", "OPTIONS")
	v1.HandleFunc("/candidate/sessions/{id}/text", candidateHandler.UpdateText).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Interviewer routes (require auth)
	interviewerRoutes := v1.NewRoute().Subrouter()
	interviewerRoutes.Use(authMW.RequireInterviewer)

	interviewerRoutes.HandleFunc("/sessions", sessionHandler.List).Methods("GET", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions/{id}", sessionHandler.Delete).Methods("DELETE", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions/{id}/close", sessionHandler.Close).Methods("POST", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions/{id}/reopen", sessionHandler.Reopen).Methods("POST", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions/{id}/refresh", sessionHandler.Refresh).Methods("GET", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions/{id}/text", sessionHandler.UpdateText).Methods("POST", "OPTIONS")
	interviewerRoutes.HandleFunc("/sessions/{id}/comments", sessionHandler.UpdateComments).Methods("POST", "OPTIONS")

	// Admin routes (require admin capability)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireInterviewer, authMW.RequireAdmin)

	adminRoutes.HandleFunc("/users", userHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/users", userHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/users/{username}", userHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
