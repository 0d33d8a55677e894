package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/treydbuddy/backend/internal/models"
	"go.uber.org/zap"
)

// AccountRepository is the interface that wraps methods for account list data access
type AccountRepository interface {
	// Method Exists reports whether the account list key is present.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	Exists(ctx context.Context) (bool, error)
	// Method GetAll retrieves the stored account list.
	//
	// An absent list is returned as an empty slice.
	// If the stored data cannot be decoded, *models.StorageParseError will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.Account, error)
	// Method SaveAll replaces the stored account list with "accounts".
	SaveAll(ctx context.Context, accounts []models.Account) error
}

// SessionRepository is the interface that wraps methods for session data access
type SessionRepository interface {
	// Method Get retrieves the session of a client profile.
	//
	// "profileID" parameter identifies the client; an empty value means the single default profile.
	// If there is no session, "nil" is returned together with a "nil" error.
	Get(ctx context.Context, profileID string) (*models.Session, error)
	// Method Set overwrites the session of a client profile.
	Set(ctx context.Context, profileID string, session *models.Session) error
	// Method Clear removes the session of a client profile. Clearing an absent session is not an error.
	Clear(ctx context.Context, profileID string) error
}

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// User-facing messages
const (
	MsgFieldsRequired      = "All fields are required."
	MsgPasswordTooShort    = "Password must be at least 6 characters."
	MsgPasswordsMismatch   = "Passwords do not match."
	MsgEmailTaken          = "Email is already registered."
	MsgUsernameTaken       = "Username already exists."
	MsgInvalidEmailLogin   = "Invalid email or password."
	MsgInvalidUserLogin    = "Invalid username or password."
	MsgAccountCreated      = "Account created! Please log in."
	MsgRegistrationSuccess = "Registration successful"
)

// Dialect describes the differences between the two page variants
type Dialect struct {
	// RequireFullName makes the full name a required registration field
	RequireFullName bool
	// ByUsername selects the username wording for duplicate and login errors
	ByUsername bool
}

// DialectTB is used with the email-keyed dashboard pages
var DialectTB = Dialect{RequireFullName: true}

// DialectLegacy is used with the username-keyed pages
var DialectLegacy = Dialect{ByUsername: true}

func (d Dialect) duplicateMessage() string {
	if d.ByUsername {
		return MsgUsernameTaken
	}
	return MsgEmailTaken
}

// RegisteredMessage is shown after a successful registration
func (d Dialect) RegisteredMessage() string {
	if d.ByUsername {
		return MsgRegistrationSuccess
	}
	return MsgAccountCreated
}

// identifier returns the unique key of the dialect, lower-cased and trimmed:
// the email for "tb", the username for "legacy"
func (d Dialect) identifier(email, username string) string {
	if d.ByUsername {
		return strings.ToLower(strings.TrimSpace(username))
	}
	return strings.ToLower(strings.TrimSpace(email))
}

func (d Dialect) accountIdentifier(a *models.Account) string {
	return d.identifier(a.Email, a.Username)
}

func (d Dialect) invalidCredentialsMessage() string {
	if d.ByUsername {
		return MsgInvalidUserLogin
	}
	return MsgInvalidEmailLogin
}

// authService implements the account store and session operations.
//
// mu serializes read-modify-write cycles on the account list within this process.
// Processes sharing one backend still race, and the last write wins.
type authService struct {
	accountRepo AccountRepository
	sessionRepo SessionRepository
	dialect     Dialect
	logger      *zap.Logger
	now         func() time.Time
	mu          sync.Mutex
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	dialect Dialect,
	logger *zap.Logger,
) *authService {
	return &authService{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		dialect:     dialect,
		logger:      logger,
		now:         time.Now,
	}
}

// Register validates the candidate and appends a new account.
//
// The identifier (email for "tb", username for "legacy") is trimmed and lower-cased, the password is trimmed.
// Like the login, a "legacy" registration without a username takes it from the email field.
// Blank required fields and passwords shorter than MinPasswordLength characters produce *models.ValidationError,
// an identifier that is already taken produces an error matching models.ErrDuplicateAccount.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if s.dialect.ByUsername && username == "" {
		username, email = strings.TrimSpace(req.Email), ""
	}
	identifier := s.dialect.identifier(email, username)

	if identifier == "" || password == "" || (s.dialect.RequireFullName && fullName == "") {
		return models.NewValidationError(MsgFieldsRequired)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.NewValidationError(MsgPasswordTooShort)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	for i := range accounts {
		if s.dialect.accountIdentifier(&accounts[i]) == identifier {
			return &models.AuthError{Kind: models.ErrDuplicateAccount, Message: s.dialect.duplicateMessage()}
		}
	}

	accounts = append(accounts, models.Account{
		ID:       s.now().UnixMilli(),
		FullName: fullName,
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})

	if err := s.accountRepo.SaveAll(ctx, accounts); err != nil {
		return err
	}

	s.logger.Info("account registered", zap.String("identifier", identifier), zap.String("role", string(role)))
	return nil
}

// Login looks up an account by identifier and plaintext password and stores its session.
//
// The "legacy" login form posts the username in its email field, so an empty username falls back to it.
// Unknown identifiers and wrong passwords both produce an error matching models.ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, profileID string, req *models.LoginRequest) (*models.Session, error) {
	username := req.Username
	if username == "" {
		username = req.Email
	}
	identifier := s.dialect.identifier(req.Email, username)
	password := strings.TrimSpace(req.Password)

	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	var account *models.Account
	for i := range accounts {
		if s.dialect.accountIdentifier(&accounts[i]) == identifier && accounts[i].Password == password {
			account = &accounts[i]
			break
		}
	}
	if identifier == "" || account == nil {
		return nil, &models.AuthError{Kind: models.ErrInvalidCredentials, Message: s.dialect.invalidCredentialsMessage()}
	}

	session := models.NewSession(account)
	if err := s.sessionRepo.Set(ctx, profileID, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Logout clears the session of "profileID"; it succeeds when there is no session
func (s *authService) Logout(ctx context.Context, profileID string) error {
	return s.sessionRepo.Clear(ctx, profileID)
}

// CurrentSession returns the session of "profileID" or "nil".
// It does not check that the account behind the session still exists.
func (s *authService) CurrentSession(ctx context.Context, profileID string) (*models.Session, error) {
	return s.sessionRepo.Get(ctx, profileID)
}

// ListAccounts returns every stored account
func (s *authService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.GetAll(ctx)
}
