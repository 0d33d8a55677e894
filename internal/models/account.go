package models

import "strings"

type Role string

// Role constants
const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Account represents a stored identity.
//
// Both key sets share this schema: the "tb" dialect fills FullName and Email,
// the "legacy" dialect fills Username and may leave Role empty.
type Account struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"` // plaintext, kept as stored by the demo pages
	Role     Role   `json:"role,omitempty"`
}

// Identifier returns the normalized email, or username when the email is blank, for listings.
func (a *Account) Identifier() string {
	return NormalizeIdentifier(a.Email, a.Username)
}

// IsAdmin reports whether the account carries the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// NormalizeIdentifier lower-cases and trims the email, falling back to the username when the email is blank.
func NormalizeIdentifier(email, username string) string {
	if id := strings.ToLower(strings.TrimSpace(email)); id != "" {
		return id
	}
	return strings.ToLower(strings.TrimSpace(username))
}
