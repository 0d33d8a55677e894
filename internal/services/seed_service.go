package services

import (
	"context"
	"fmt"

	"github.com/treydbuddy/backend/internal/models"
	"go.uber.org/zap"
)

// SeedSource is the interface that wraps the Load method of an external account list
type SeedSource interface {
	// Method Load retrieves the seed account list.
	//
	// If the source is unreachable or its content is not a JSON array of accounts, the error will be returned together with "nil" value.
	Load(ctx context.Context) ([]models.Account, error)
}

// Default accounts, demo only
var (
	DefaultAdmin = models.Account{
		FullName: "Admin Sample",
		Email:    "admin@bpsu.edu.ph",
		Password: "admin123",
		Role:     models.RoleAdmin,
	}
	DefaultStudent = models.Account{
		FullName: "Juan Dela Cruz",
		Email:    "student@bpsu.edu.ph",
		Password: "student123",
		Role:     models.RoleStudent,
	}
)

// SeedDefaults adds the default admin, and the default student if missing, when no admin exists.
//
// It returns "true" when the list was changed. Corrupt stored data is returned as an error and left untouched.
func (s *authService) SeedDefaults(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load accounts: %w", err)
	}

	for i := range accounts {
		if accounts[i].IsAdmin() {
			return false, nil
		}
	}

	now := s.now().UnixMilli()

	admin := DefaultAdmin
	admin.ID = now
	accounts = append(accounts, admin)

	hasStudent := false
	for i := range accounts {
		if accounts[i].Email == DefaultStudent.Email {
			hasStudent = true
			break
		}
	}
	if !hasStudent {
		student := DefaultStudent
		student.ID = now + 1
		accounts = append(accounts, student)
	}

	if err := s.accountRepo.SaveAll(ctx, accounts); err != nil {
		return false, err
	}

	s.logger.Info("default accounts seeded", zap.Bool("student", !hasStudent))
	return true, nil
}

// ImportSeed stores the account list of "source" when the account list key is absent.
//
// It returns the number of imported accounts, "0" when the key already existed.
// Failures leave the storage unseeded.
func (s *authService) ImportSeed(ctx context.Context, source SeedSource) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.accountRepo.Exists(ctx)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, nil
	}

	accounts, err := source.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load seed accounts", zap.Error(err))
		return 0, fmt.Errorf("failed to load seed accounts: %w", err)
	}

	if err := s.accountRepo.SaveAll(ctx, accounts); err != nil {
		return 0, err
	}

	s.logger.Info("seed accounts imported", zap.Int("count", len(accounts)))
	return len(accounts), nil
}
