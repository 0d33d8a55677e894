package models

// RegisterRequest represents a registration request.
// Email or Username identifies the account; ConfirmPassword is checked by the form layer only.
type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	Role            Role   `json:"-"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is the response body of the auth endpoints
type AuthResult struct {
	OK       bool   `json:"ok"`
	Role     Role   `json:"role,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}
