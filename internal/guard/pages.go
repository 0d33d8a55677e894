// Package guard decides page redirects from the current path and session.
package guard

import "strings"

// Page is the logical name of a known page
type Page string

// Known pages
const (
	PageLogin          Page = "login"
	PageRegister       Page = "register"
	PageAdmin          Page = "admin"
	PageStudent        Page = "student"
	PageEventDetails   Page = "eventDetails"
	PageTicketPurchase Page = "ticketPurchase"
	PageTicketingQR    Page = "ticketingQR"
	PageUnknown        Page = ""
)

// Policy is the access rule applied to a page
type Policy int

// Policy constants
const (
	// PolicyOpen never redirects
	PolicyOpen Policy = iota
	// PolicyAuthenticated sends anonymous visitors to login and admins to their dashboard
	PolicyAuthenticated
	// PolicyAdminOnly sends anonymous visitors to login and everyone else to the student dashboard
	PolicyAdminOnly
	// PolicyGuestOnly sends signed-in visitors to their dashboard
	PolicyGuestOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyAuthenticated:
		return "any-authenticated"
	case PolicyAdminOnly:
		return "admin-only"
	case PolicyGuestOnly:
		return "guest-only"
	default:
		return "open"
	}
}

// Filenames maps every known page to its file
var Filenames = map[Page]string{
	PageLogin:          "Login.html",
	PageRegister:       "register.html",
	PageAdmin:          "AdminDashboard.html",
	PageStudent:        "StudentDashboard.html",
	PageEventDetails:   "EventDetails.html",
	PageTicketPurchase: "ticket-purchase.html",
	PageTicketingQR:    "ticketing-qr.html",
}

// routes is checked in order; the first suffix match wins
var routes = []struct {
	page   Page
	policy Policy
}{
	{PageAdmin, PolicyAdminOnly},
	{PageStudent, PolicyAuthenticated},
	{PageEventDetails, PolicyAuthenticated},
	{PageTicketPurchase, PolicyAuthenticated},
	{PageTicketingQR, PolicyAdminOnly},
	{PageLogin, PolicyGuestOnly},
	{PageRegister, PolicyOpen},
}

// Classify matches "path" case-insensitively against the end of every known filename.
// Unknown paths are open.
func Classify(path string) (Page, Policy) {
	path = strings.ToLower(path)
	for _, route := range routes {
		if strings.HasSuffix(path, strings.ToLower(Filenames[route.page])) {
			return route.page, route.policy
		}
	}
	return PageUnknown, PolicyOpen
}

// PageByFilename returns the page served under "name", compared case-insensitively
func PageByFilename(name string) (Page, bool) {
	for page, filename := range Filenames {
		if strings.EqualFold(filename, name) {
			return page, true
		}
	}
	return PageUnknown, false
}
