package middleware

import (
	"net/http"

	"github.com/treydbuddy/backend/internal/models"
	"go.uber.org/zap"
)

// AdminSessionMiddleware requires the client profile to hold an admin session
func AdminSessionMiddleware(sessions SessionReader, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session, err := sessions.CurrentSession(ctx, GetProfileID(ctx))
			if err != nil {
				logger.Error("failed to read session",
					zap.String("request_id", GetRequestID(ctx)),
					zap.Error(err),
				)
				if models.IsStorageParseError(err) {
					writeJSONError(w, http.StatusInternalServerError, "stored data is corrupt")
					return
				}
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if session == nil {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !session.IsAdmin() {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
