package middleware

import (
	"context"
	"net/http"

	"github.com/treydbuddy/backend/internal/guard"
	"github.com/treydbuddy/backend/internal/models"
	"go.uber.org/zap"
)

// SessionReader is the interface that wraps the session lookup of the account store
type SessionReader interface {
	// Method CurrentSession returns the session of a client profile.
	//
	// If there is no session, "nil" is returned together with a "nil" error.
	// If the stored session cannot be decoded, *models.StorageParseError will be returned.
	CurrentSession(ctx context.Context, profileID string) (*models.Session, error)
}

// SeedFunc makes sure the default accounts exist before a page is evaluated
type SeedFunc func(ctx context.Context) error

// PageGuardMiddleware seeds the store, reads the session of the client profile and redirects
// page loads that the page policy does not allow. The session is stored in the request context, see GetSession.
//
// Only GET and HEAD requests are evaluated. A session that cannot be read counts as anonymous.
func PageGuardMiddleware(g *guard.Guard, sessions SessionReader, seed SeedFunc, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			requestID := GetRequestID(ctx)

			if seed != nil {
				if err := seed(ctx); err != nil {
					logger.Warn("seeding skipped", zap.String("request_id", requestID), zap.Error(err))
				}
			}

			session, err := sessions.CurrentSession(ctx, GetProfileID(ctx))
			if err != nil {
				logger.Warn("treating unreadable session as anonymous",
					zap.String("request_id", requestID),
					zap.Error(err),
				)
				session = nil
			}

			decision := g.Decide(r.URL.Path, session)
			if decision.Redirect != "" {
				logger.Debug("page redirected",
					zap.String("request_id", requestID),
					zap.String("page", string(decision.Page)),
					zap.Stringer("policy", decision.Policy),
					zap.String("redirect", decision.Redirect),
				)
				http.Redirect(w, r, decision.Redirect, http.StatusFound)
				return
			}

			ctx = context.WithValue(ctx, sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession retrieves the session stored by PageGuardMiddleware; "nil" means anonymous
func GetSession(ctx context.Context) *models.Session {
	if session, ok := ctx.Value(sessionKey).(*models.Session); ok {
		return session
	}
	return nil
}
