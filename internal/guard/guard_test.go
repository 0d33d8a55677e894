package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/treydbuddy/backend/internal/models"
)

var (
	adminSession   = &models.Session{Email: "admin@bpsu.edu.ph", Role: models.RoleAdmin}
	studentSession = &models.Session{Email: "student@bpsu.edu.ph", Role: models.RoleStudent}
	rolelessUser   = &models.Session{Username: "juan"}
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path           string
		expectedPage   Page
		expectedPolicy Policy
	}{
		{"/AdminDashboard.html", PageAdmin, PolicyAdminOnly},
		{"/site/admindashboard.HTML", PageAdmin, PolicyAdminOnly},
		{"/StudentDashboard.html", PageStudent, PolicyAuthenticated},
		{"/EventDetails.html", PageEventDetails, PolicyAuthenticated},
		{"/ticket-purchase.html", PageTicketPurchase, PolicyAuthenticated},
		{"/ticketing-qr.html", PageTicketingQR, PolicyAdminOnly},
		{"/Login.html", PageLogin, PolicyGuestOnly},
		{"/register.html", PageRegister, PolicyOpen},
		{"/index.html", PageUnknown, PolicyOpen},
		{"/", PageUnknown, PolicyOpen},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			page, policy := Classify(tt.path)
			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expectedPolicy, policy)
		})
	}
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateAnonymous, StateOf(nil))
	assert.Equal(t, StateAdmin, StateOf(adminSession))
	assert.Equal(t, StateStudent, StateOf(studentSession))
	assert.Equal(t, StateStudent, StateOf(rolelessUser))
}

func TestGuard_RouteByRole(t *testing.T) {
	g := New("/")

	assert.Equal(t, "/AdminDashboard.html", g.RouteByRole(models.RoleAdmin))
	assert.Equal(t, "/StudentDashboard.html", g.RouteByRole(models.RoleStudent))
	assert.Equal(t, "/StudentDashboard.html", g.RouteByRole(""))
}

func TestGuard_Decide(t *testing.T) {
	tests := []struct {
		name             string
		path             string
		session          *models.Session
		expectedRedirect string
	}{
		// admin-only
		{"admin page anonymous", "/AdminDashboard.html", nil, "/Login.html"},
		{"admin page student", "/AdminDashboard.html", studentSession, "/StudentDashboard.html"},
		{"admin page admin", "/AdminDashboard.html", adminSession, ""},
		{"qr page anonymous", "/ticketing-qr.html", nil, "/Login.html"},
		{"qr page roleless", "/ticketing-qr.html", rolelessUser, "/StudentDashboard.html"},
		{"qr page admin", "/ticketing-qr.html", adminSession, ""},
		// any-authenticated
		{"student page anonymous", "/StudentDashboard.html", nil, "/Login.html"},
		{"student page student", "/StudentDashboard.html", studentSession, ""},
		{"student page admin", "/StudentDashboard.html", adminSession, "/AdminDashboard.html"},
		{"event page student", "/EventDetails.html", studentSession, ""},
		{"event page admin", "/EventDetails.html", adminSession, "/AdminDashboard.html"},
		{"purchase page anonymous", "/ticket-purchase.html", nil, "/Login.html"},
		// guest-only
		{"login anonymous", "/Login.html", nil, ""},
		{"login student", "/Login.html", studentSession, "/StudentDashboard.html"},
		{"login admin", "/Login.html", adminSession, "/AdminDashboard.html"},
		// open
		{"register anonymous", "/register.html", nil, ""},
		{"register admin", "/register.html", adminSession, ""},
		{"unknown page anonymous", "/about.html", nil, ""},
	}

	g := New("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := g.Decide(tt.path, tt.session)
			assert.Equal(t, tt.expectedRedirect, decision.Redirect)
		})
	}
}

func TestGuard_BasePath(t *testing.T) {
	g := New("/app")

	decision := g.Decide("/app/StudentDashboard.html", nil)

	assert.Equal(t, PageStudent, decision.Page)
	assert.Equal(t, PolicyAuthenticated, decision.Policy)
	assert.Equal(t, "/app/Login.html", decision.Redirect)
}

func TestPageByFilename(t *testing.T) {
	page, ok := PageByFilename("login.html")
	assert.True(t, ok)
	assert.Equal(t, PageLogin, page)

	_, ok = PageByFilename("nope.html")
	assert.False(t, ok)
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "open", PolicyOpen.String())
	assert.Equal(t, "any-authenticated", PolicyAuthenticated.String())
	assert.Equal(t, "admin-only", PolicyAdminOnly.String())
	assert.Equal(t, "guest-only", PolicyGuestOnly.String())
}
