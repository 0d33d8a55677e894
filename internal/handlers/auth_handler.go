package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/treydbuddy/backend/internal/guard"
	"github.com/treydbuddy/backend/internal/middleware"
	"github.com/treydbuddy/backend/internal/models"
	"github.com/treydbuddy/backend/internal/services"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for the account store.
type AuthService interface {
	// Method Register validates the candidate and appends a new student or admin account.
	//
	// "req" parameter contains the full name, email or username and password.
	//
	// If a required field is blank or the password is too short, *models.ValidationError will be returned.
	// If the identifier is already registered, an error matching models.ErrDuplicateAccount will be returned.
	Register(ctx context.Context, req *models.RegisterRequest) error
	// Method Login checks the credentials and stores the session of the client profile.
	//
	// "profileID" parameter identifies the client.
	//
	// If the identifier is unknown or the password is wrong, an error matching models.ErrInvalidCredentials will be returned together with "nil" session.
	Login(ctx context.Context, profileID string, req *models.LoginRequest) (*models.Session, error)
	// Method Logout clears the session of the client profile. It succeeds when there is no session.
	Logout(ctx context.Context, profileID string) error
	// Method CurrentSession returns the session of the client profile, "nil" when there is none.
	//
	// If the stored session cannot be decoded, *models.StorageParseError will be returned.
	CurrentSession(ctx context.Context, profileID string) (*models.Session, error)
	// Method ListAccounts returns every stored account.
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// AuthHandler handles the account store JSON API
type AuthHandler struct {
	BaseHandler
	authService       AuthService
	guard             *guard.Guard
	registeredMessage string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService AuthService,
	g *guard.Guard,
	registeredMessage string,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:       BaseHandler{Logger: logger},
		authService:       authService,
		guard:             g,
		registeredMessage: registeredMessage,
	}
}

// RegisterRoutes registers all auth handler routes.
// "limiter" throttles the credential endpoints.
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)
	})
}

// Register handles POST /auth/register
// @Summary Register a new account
// @Description Register a student account. The identifier is the email, or the username with the legacy key set, compared case-insensitively.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register request"
// @Success 201 {object} models.AuthResult "Account registered"
// @Failure 400 {object} models.AuthResult "Missing fields, short password or passwords do not match"
// @Failure 409 {object} models.AuthResult "Account already exists"
// @Failure 500 {object} models.AuthResult "Stored data is corrupt or storage failed"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		h.RespondError(w, http.StatusBadRequest, services.MsgPasswordsMismatch)
		return
	}
	req.Role = models.RoleStudent

	if err := h.authService.Register(r.Context(), &req); err != nil {
		h.RespondServiceError(w, err, "failed to register account",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		)
		return
	}

	h.RespondJSON(w, http.StatusCreated, models.AuthResult{OK: true, Message: h.registeredMessage})
}

// Login handles POST /auth/login
// @Summary Login
// @Description Check email (or username) and password and store the session of the calling client profile.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.AuthResult "Login successful, redirect holds the dashboard of the role"
// @Failure 400 {object} models.AuthResult "Invalid request body"
// @Failure 401 {object} models.AuthResult "Invalid credentials"
// @Failure 500 {object} models.AuthResult "Stored data is corrupt or storage failed"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	ctx := r.Context()
	session, err := h.authService.Login(ctx, middleware.GetProfileID(ctx), &req)
	if err != nil {
		h.RespondServiceError(w, err, "failed to login",
			zap.String("request_id", middleware.GetRequestID(ctx)),
		)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.AuthResult{
		OK:       true,
		Role:     session.Role,
		Redirect: h.guard.RouteByRole(session.Role),
	})
}

// Logout handles POST /auth/logout
// @Summary Logout
// @Description Clear the session of the calling client profile. Succeeds when there is no session.
// @Tags auth
// @Produce json
// @Success 200 {object} models.AuthResult "Logged out"
// @Failure 500 {object} models.AuthResult "Storage failed"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.authService.Logout(ctx, middleware.GetProfileID(ctx)); err != nil {
		h.RespondServiceError(w, err, "failed to logout",
			zap.String("request_id", middleware.GetRequestID(ctx)),
		)
		return
	}

	h.RespondJSON(w, http.StatusOK, models.AuthResult{OK: true})
}

// Session handles GET /auth/session
// @Summary Current session
// @Description Return the session of the calling client profile.
// @Tags auth
// @Produce json
// @Success 200 {object} models.Session "Current session"
// @Success 204 "No session"
// @Failure 500 {object} models.AuthResult "Stored data is corrupt or storage failed"
// @Router /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.authService.CurrentSession(ctx, middleware.GetProfileID(ctx))
	if err != nil {
		h.RespondServiceError(w, err, "failed to read session",
			zap.String("request_id", middleware.GetRequestID(ctx)),
		)
		return
	}

	if session == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.RespondJSON(w, http.StatusOK, session)
}
