// Package server composes the HTTP handler served by the serve command
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/treydbuddy/backend/docs"
	"github.com/treydbuddy/backend/internal/config"
	"github.com/treydbuddy/backend/internal/guard"
	"github.com/treydbuddy/backend/internal/handlers"
	"github.com/treydbuddy/backend/internal/middleware"
	"github.com/treydbuddy/backend/internal/profile"
	"go.uber.org/zap"
)

// APIPrefix is the mount point of the JSON API
const APIPrefix = "/api/v1"

// NewRouter wires the middleware stack, the API, the Swagger UI and the pages.
//
// "seed" runs before every guarded page load, "registeredMessage" is shown after a registration.
func NewRouter(
	cfg *config.Config,
	svc handlers.AuthService,
	seed middleware.SeedFunc,
	registeredMessage string,
	logger *zap.Logger,
) (http.Handler, error) {
	g := guard.New(cfg.Pages.BasePath)
	issuer := profile.NewTokenIssuer(cfg.Profile.Secret)

	authHandler := handlers.NewAuthHandler(svc, g, registeredMessage, logger)
	accountHandler := handlers.NewAccountHandler(svc, logger)
	pageHandler, err := handlers.NewPageHandler(svc, g, cfg.Pages.BasePath, cfg.Pages.Dir, registeredMessage, logger)
	if err != nil {
		return nil, err
	}

	credentialLimiter := httprate.LimitByIP(cfg.RateLimit, time.Minute)
	pageGuard := middleware.PageGuardMiddleware(g, svc, seed, logger)
	adminOnly := middleware.AdminSessionMiddleware(svc, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.RecoveryMiddleware(logger, APIPrefix+"/"))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ProfileMiddleware(issuer, cfg.Profile.SecureCookie, logger))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route(APIPrefix, func(r chi.Router) {
		authHandler.RegisterRoutes(r, credentialLimiter)
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			accountHandler.RegisterRoutes(r)
		})
	})

	pageHandler.RegisterRoutes(r, pageGuard, credentialLimiter)

	return r, nil
}
