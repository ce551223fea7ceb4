package middleware

import (
	"net/http"
	"strings"

	"github.com/mcoot/mahjonggame-go/internal/api/apierr"
	"github.com/mcoot/mahjonggame-go/internal/services/auth"
)

// AdminTokenHeader carries the admin secret or an admin session token
const AdminTokenHeader = "X-Admin-Token"

// Admin rejects requests without a valid admin credential
func Admin(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authService.Verify(Credential(r)); err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Credential returns the admin credential carried by the request
func Credential(r *http.Request) string {
	if token := r.Header.Get(AdminTokenHeader); token != "" {
		return token
	}

	// Fall back to a bearer token
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
