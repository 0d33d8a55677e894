package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/treydbuddy/backend/internal/middleware"
	"github.com/treydbuddy/backend/internal/models"
	"go.uber.org/zap"
)

// AccountHandler exposes the stored account list for inspection
type AccountHandler struct {
	BaseHandler
	authService AuthService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService AuthService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// AccountResponse is an account without its password
type AccountResponse struct {
	ID       int64       `json:"id"`
	FullName string      `json:"fullName,omitempty"`
	Username string      `json:"username,omitempty"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}

// RegisterRoutes registers the account routes; the caller applies the admin session middleware
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/accounts", h.List)
}

// List handles GET /accounts
// @Summary List accounts
// @Description List every stored account without passwords. Requires an admin session.
// @Tags accounts
// @Produce json
// @Success 200 {array} AccountResponse "Accounts"
// @Failure 401 {object} models.AuthResult "No session"
// @Failure 403 {object} models.AuthResult "Not an admin"
// @Failure 500 {object} models.AuthResult "Stored data is corrupt or storage failed"
// @Router /accounts [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.authService.ListAccounts(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to list accounts",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		response = append(response, AccountResponse{
			ID:       a.ID,
			FullName: a.FullName,
			Username: a.Username,
			Email:    a.Email,
			Role:     a.Role,
		})
	}

	h.RespondJSON(w, http.StatusOK, response)
}
