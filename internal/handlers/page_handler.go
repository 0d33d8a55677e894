package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/treydbuddy/backend/internal/guard"
	"github.com/treydbuddy/backend/internal/middleware"
	"github.com/treydbuddy/backend/internal/models"
	"github.com/treydbuddy/backend/internal/services"
	"go.uber.org/zap"
)

// registeredParam marks the login page load that follows a registration
const registeredParam = "registered"

var pageTitles = map[guard.Page]string{
	guard.PageLogin:          "Login",
	guard.PageRegister:       "Register",
	guard.PageAdmin:          "Admin Dashboard",
	guard.PageStudent:        "Student Dashboard",
	guard.PageEventDetails:   "Event Details",
	guard.PageTicketPurchase: "Ticket Purchase",
	guard.PageTicketingQR:    "Ticketing QR",
}

// fallbackTemplate renders a page that has no file in the pages directory
var fallbackTemplate = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | TreydBuddy</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Error}}<p class="alert alert-error" role="alert">{{.Error}}</p>{{end}}
{{if .Message}}<p class="alert alert-success" role="status">{{.Message}}</p>{{end}}
{{if eq .Page "login"}}
<form method="post" action="{{.LoginURL}}">
  <input type="email" name="email" placeholder="Email" value="{{index .Form "email"}}">
  <input type="password" name="password" placeholder="Password">
  <button type="submit">Log in</button>
</form>
<p><a href="{{.RegisterURL}}">Create an account</a></p>
{{else if eq .Page "register"}}
<form method="post" action="{{.RegisterURL}}">
  <input type="text" name="fullName" placeholder="Full name" value="{{index .Form "fullName"}}">
  <input type="email" name="email" placeholder="Email" value="{{index .Form "email"}}">
  <input type="password" name="password" placeholder="Password">
  <input type="password" name="confirmPassword" placeholder="Confirm password">
  <button type="submit">Register</button>
</form>
<p><a href="{{.LoginURL}}">Back to login</a></p>
{{end}}
{{with .Session}}<p>Signed in as {{if .FullName}}{{.FullName}}{{else if .Email}}{{.Email}}{{else}}{{.Username}}{{end}} ({{.Role}}) <a href="{{$.LogoutURL}}">Log out</a></p>{{end}}
<footer>&copy; <span id="year">{{.Year}}</span> TreydBuddy</footer>
</body>
</html>
`))

// PageData is passed to every page template
type PageData struct {
	Title       string
	Page        guard.Page
	Year        int
	Session     *models.Session
	Error       string
	Message     string
	Form        map[string]string
	LoginURL    string
	RegisterURL string
	LogoutURL   string
}

// PageHandler renders the HTML pages and handles their forms
type PageHandler struct {
	BaseHandler
	authService       AuthService
	guard             *guard.Guard
	basePath          string
	templates         map[guard.Page]*template.Template
	registeredMessage string
	now               func() time.Time
}

// NewPageHandler creates a new page handler, parsing the page templates found in "dir".
// Pages without a file are rendered with a built-in template.
func NewPageHandler(
	authService AuthService,
	g *guard.Guard,
	basePath string,
	dir string,
	registeredMessage string,
	logger *zap.Logger,
) (*PageHandler, error) {
	templates, err := loadTemplates(dir, logger)
	if err != nil {
		return nil, err
	}

	if basePath == "" {
		basePath = "/"
	}

	return &PageHandler{
		BaseHandler:       BaseHandler{Logger: logger},
		authService:       authService,
		guard:             g,
		basePath:          basePath,
		templates:         templates,
		registeredMessage: registeredMessage,
		now:               time.Now,
	}, nil
}

func loadTemplates(dir string, logger *zap.Logger) (map[guard.Page]*template.Template, error) {
	templates := make(map[guard.Page]*template.Template, len(guard.Filenames))

	for page, filename := range guard.Filenames {
		file := filepath.Join(dir, filename)
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("page template not found, using fallback", zap.String("file", file))
				templates[page] = fallbackTemplate
				continue
			}
			return nil, fmt.Errorf("failed to stat page template %s: %w", file, err)
		}

		t, err := template.ParseFiles(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page template %s: %w", file, err)
		}
		templates[page] = t
	}

	return templates, nil
}

// RegisterRoutes registers the page routes under the base path.
// "pageGuard" is applied to page loads, "limiter" to form submissions.
func (h *PageHandler) RegisterRoutes(r chi.Router, pageGuard, limiter func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(pageGuard)
		r.Get(h.route(""), h.Index)
		r.Get(h.route("logout"), h.Logout)
		r.Get(h.route("*"), h.Page)
	})
	r.Group(func(r chi.Router) {
		r.Use(limiter)
		r.Post(h.route("*"), h.Submit)
	})
}

func (h *PageHandler) route(p string) string {
	return path.Join(h.basePath, p)
}

// Index handles GET on the base path by sending the visitor to the login page
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.guard.URL(guard.PageLogin), http.StatusFound)
}

// Page handles GET of a known page
func (h *PageHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, ok := guard.PageByFilename(path.Base(r.URL.Path))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := h.pageData(r, page)
	if page == guard.PageLogin && r.URL.Query().Get(registeredParam) != "" {
		data.Message = h.registeredMessage
	}

	h.render(w, r, http.StatusOK, data)
}

// Submit handles POST of the login and register forms
func (h *PageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	page, _ := guard.PageByFilename(path.Base(r.URL.Path))

	switch page {
	case guard.PageLogin:
		h.loginForm(w, r)
	case guard.PageRegister:
		h.registerForm(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *PageHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderFormError(w, r, guard.PageLogin, http.StatusBadRequest, msgInvalidBody)
		return
	}

	req := &models.LoginRequest{
		Email:    r.PostFormValue("email"),
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	ctx := r.Context()
	session, err := h.authService.Login(ctx, middleware.GetProfileID(ctx), req)
	if err != nil {
		status, message := errorStatus(err)
		h.logFormError(r, "login form rejected", status, err)
		h.renderFormError(w, r, guard.PageLogin, status, message)
		return
	}

	http.Redirect(w, r, h.guard.RouteByRole(session.Role), http.StatusSeeOther)
}

func (h *PageHandler) registerForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderFormError(w, r, guard.PageRegister, http.StatusBadRequest, msgInvalidBody)
		return
	}

	req := &models.RegisterRequest{
		FullName:        r.PostFormValue("fullName"),
		Email:           r.PostFormValue("email"),
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		Role:            models.RoleStudent,
	}

	// An absent confirm field compares as empty
	if req.ConfirmPassword != req.Password {
		h.renderFormError(w, r, guard.PageRegister, http.StatusBadRequest, services.MsgPasswordsMismatch)
		return
	}

	if err := h.authService.Register(r.Context(), req); err != nil {
		status, message := errorStatus(err)
		h.logFormError(r, "register form rejected", status, err)
		h.renderFormError(w, r, guard.PageRegister, status, message)
		return
	}

	http.Redirect(w, r, h.guard.URL(guard.PageLogin)+"?"+registeredParam+"=1", http.StatusSeeOther)
}

// Logout handles GET /logout
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.authService.Logout(ctx, middleware.GetProfileID(ctx)); err != nil {
		h.Logger.Error("failed to logout",
			zap.String("request_id", middleware.GetRequestID(ctx)),
			zap.Error(err),
		)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, h.guard.URL(guard.PageLogin), http.StatusFound)
}

func (h *PageHandler) pageData(r *http.Request, page guard.Page) PageData {
	return PageData{
		Title:       pageTitles[page],
		Page:        page,
		Year:        h.now().Year(),
		Session:     middleware.GetSession(r.Context()),
		Form:        map[string]string{},
		LoginURL:    h.guard.URL(guard.PageLogin),
		RegisterURL: h.guard.URL(guard.PageRegister),
		LogoutURL:   h.route("logout"),
	}
}

// renderFormError re-renders a form page with the error and the submitted values, passwords excluded
func (h *PageHandler) renderFormError(w http.ResponseWriter, r *http.Request, page guard.Page, status int, message string) {
	data := h.pageData(r, page)
	data.Error = message
	for _, field := range []string{"fullName", "email", "username"} {
		data.Form[field] = r.PostFormValue(field)
	}
	h.render(w, r, status, data)
}

func (h *PageHandler) logFormError(r *http.Request, msg string, status int, err error) {
	fields := []zap.Field{
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(msg, fields...)
		return
	}
	h.Logger.Info(msg, fields...)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	t, ok := h.templates[data.Page]
	if !ok {
		t = fallbackTemplate
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.Execute(w, data); err != nil {
		h.Logger.Error("failed to render page",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("page", string(data.Page)),
			zap.Error(err),
		)
	}
}
