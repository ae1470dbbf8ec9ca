package middleware

import (
	"context"
	"net/http"
	"strings"

	"codeshare/internal/model"
	"codeshare/internal/service"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthMiddleware guards the interviewer-facing routes
type AuthMiddleware struct {
	auth service.Authenticator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth service.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireInterviewer validates the bearer token and stores the actor
// in the request context
func (m *AuthMiddleware) RequireInterviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := m.auth.Authenticate(r.Context(), extractBearerToken(r))
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, *actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated actors without the admin
// capability. Must run after RequireInterviewer.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok || !actor.Admin {
			http.Error(w, `{"error":"admin capability required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetActor extracts the authenticated actor from context
func GetActor(ctx context.Context) (model.Actor, bool) {
	if v := ctx.Value(actorKey); v != nil {
		return v.(model.Actor), true
	}
	return model.Actor{}, false
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
