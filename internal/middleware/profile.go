package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ProfileCookieName is the cookie holding the signed profile token
const ProfileCookieName = "tb_profile"

// profileCookieMaxAge is the longest lifetime browsers honour
const profileCookieMaxAge = 400 * 24 * time.Hour

// ProfileIssuer is the interface that wraps profile token handling
type ProfileIssuer interface {
	// Method Issue generates a new profile id together with its signed token.
	Issue() (string, string, error)
	// Method Validate returns the profile id carried by "token".
	//
	// If the token is malformed, signed with another secret or not a profile token, the error will be returned.
	Validate(token string) (string, error)
}

// ProfileMiddleware identifies the client profile from its cookie and issues a new one when missing or invalid.
// The profile id is stored in the request context, see GetProfileID.
func ProfileMiddleware(issuer ProfileIssuer, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var profileID string

			if cookie, err := r.Cookie(ProfileCookieName); err == nil {
				id, err := issuer.Validate(cookie.Value)
				if err != nil {
					logger.Debug("discarding invalid profile cookie",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.Error(err),
					)
				} else {
					profileID = id
				}
			}

			if profileID == "" {
				id, token, err := issuer.Issue()
				if err != nil {
					logger.Error("failed to issue profile token",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.Error(err),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				profileID = id

				http.SetCookie(w, &http.Cookie{
					Name:     ProfileCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(profileCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), profileIDKey, profileID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProfileID retrieves the profile id from context; empty means the default profile
func GetProfileID(ctx context.Context) string {
	if id, ok := ctx.Value(profileIDKey).(string); ok {
		return id
	}
	return ""
}
