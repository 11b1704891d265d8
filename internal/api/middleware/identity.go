package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cardwise/cardwise-api/internal/api/shared"
)

// UserIDHeader is the request header carrying the caller's user ID,
// populated by the authenticating edge in front of this service.
const UserIDHeader = "X-User-ID"

// Identity extracts the user ID from the request header and stores it in
// the context. Requests without a valid UUID are rejected with 401.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Missing user identity")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user identity")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
