package guard

import (
	"path"

	"github.com/treydbuddy/backend/internal/models"
)

// State is the authentication state of a visitor
type State int

// State constants
const (
	StateAnonymous State = iota
	StateStudent
	StateAdmin
)

// StateOf derives the state from a session; any non-admin role counts as student
func StateOf(session *models.Session) State {
	switch {
	case session == nil:
		return StateAnonymous
	case session.IsAdmin():
		return StateAdmin
	default:
		return StateStudent
	}
}

// Decision is the outcome of evaluating a page load
type Decision struct {
	Page     Page
	Policy   Policy
	Redirect string // empty when the page may render
}

// Guard turns page identities into URLs under a base path
type Guard struct {
	basePath string
}

// New creates a new guard serving pages under "basePath"
func New(basePath string) *Guard {
	if basePath == "" {
		basePath = "/"
	}
	return &Guard{basePath: basePath}
}

// URL returns the address of a page
func (g *Guard) URL(page Page) string {
	return path.Join(g.basePath, Filenames[page])
}

// RouteByRole returns the dashboard of a role: admin goes to the admin page, anything else to the student page
func (g *Guard) RouteByRole(role models.Role) string {
	if role == models.RoleAdmin {
		return g.URL(PageAdmin)
	}
	return g.URL(PageStudent)
}

// Decide evaluates "requestPath" for the given session
func (g *Guard) Decide(requestPath string, session *models.Session) Decision {
	page, policy := Classify(requestPath)
	decision := Decision{Page: page, Policy: policy}
	state := StateOf(session)

	switch policy {
	case PolicyAuthenticated:
		switch state {
		case StateAnonymous:
			decision.Redirect = g.URL(PageLogin)
		case StateAdmin:
			if page != PageAdmin {
				decision.Redirect = g.URL(PageAdmin)
			}
		}
	case PolicyAdminOnly:
		switch state {
		case StateAnonymous:
			decision.Redirect = g.URL(PageLogin)
		case StateStudent:
			decision.Redirect = g.RouteByRole(session.Role)
		}
	case PolicyGuestOnly:
		if state != StateAnonymous {
			decision.Redirect = g.RouteByRole(session.Role)
		}
	}

	return decision
}
