package models

// Session is the denormalized "currently logged in" marker.
// It is copied from the account at login and never refreshed afterwards.
type Session struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// NewSession builds a session from an account
func NewSession(a *Account) *Session {
	return &Session{
		Email:    a.Email,
		Username: a.Username,
		FullName: a.FullName,
		Role:     a.Role,
	}
}

// IsAdmin reports whether the session belongs to an admin
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
