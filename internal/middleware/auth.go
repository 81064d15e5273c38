package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hearthfire/questboard/internal/model"
)

// ServiceAuth returns a middleware that validates the shared service token
// presented by the Discord bot. The token itself is never stored; only its
// bcrypt hash lives in configuration.
func ServiceAuth(tokenHash string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(parts[1])); err != nil {
				model.NewUnauthorizedError("invalid service token").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
