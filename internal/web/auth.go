package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user id from the request context, or ""
// for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// identity verifies an optional bearer token and stashes its subject claim
// in the request context. Requests without a token pass through anonymous;
// requests with a bad token are rejected outright.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: "malformed authorization header"})
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}

		sub, _ := claims.GetSubject()
		if sub != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, sub))
		}
		next.ServeHTTP(w, r)
	})
}

// requireUser guards endpoints that attribute content to a user.
func requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == "" {
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}
		next(w, r)
	}
}
