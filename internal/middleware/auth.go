package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openquran/versehub/internal/ctxkeys"
	"github.com/openquran/versehub/internal/repository"
	"github.com/openquran/versehub/internal/service"
)

// Authenticate gates protected routes. It takes the access token from the
// accessToken cookie, falling back to an Authorization: Bearer header,
// verifies it, loads the user and attaches a sanitized copy to the request
// context. Anything short of that is a 401.
func Authenticate(authService *service.AuthService, users repository.UserRepository) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenString := accessTokenFrom(r)
			if tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}

			claims, err := authService.VerifyAccessToken(tokenString)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			user, err := users.ByID(claims.Subject)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user.Sanitized())
			next(w, r.WithContext(ctx))
		}
	}
}

func accessTokenFrom(r *http.Request) string {
	// Cookie takes precedence over the header
	cookie, err := r.Cookie("accessToken")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// writeJSONError emits the API's response envelope without depending on the
// handler package.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"message": message,
	})
}
