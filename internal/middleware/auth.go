// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkpress/internal/models"
	"inkpress/internal/store"
	"inkpress/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "user"

// RequireAuth verifies the bearer token on the Authorization header,
// resolves the referenced user, and stores it in the request context.
// Requests without a valid token, or whose user no longer exists or is
// deactivated, are rejected with 401 before reaching the handler.
func RequireAuth(tokens *token.Service, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, "not authorized, no token")
				return
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				unauthorized(w, "not authorized, token failed")
				return
			}

			oid, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				unauthorized(w, "not authorized, token failed")
				return
			}

			user, err := users.FindByID(r.Context(), oid)
			if err != nil || user == nil || !user.IsActive {
				unauthorized(w, "not authorized, user not found")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns 403 unless the authenticated user has the admin
// role. Must be applied after RequireAuth in the middleware chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil || !user.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"error":"not authorized as admin"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil if the request did not pass RequireAuth.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"` + msg + `"}`))
}
