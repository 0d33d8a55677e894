package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/treydbuddy/backend/internal/models"
	"github.com/treydbuddy/backend/internal/storage"
	"go.uber.org/zap"
)

// accountRepository keeps the whole account list serialized under one key
type accountRepository struct {
	storage storage.Storage
	key     string
	logger  *zap.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(s storage.Storage, keys KeySet, logger *zap.Logger) *accountRepository {
	return &accountRepository{
		storage: s,
		key:     keys.Users,
		logger:  logger,
	}
}

// Exists reports whether the account list key is present at all, even if empty or corrupt
func (r *accountRepository) Exists(ctx context.Context) (bool, error) {
	_, found, err := r.storage.Get(ctx, r.key)
	if err != nil {
		return false, fmt.Errorf("failed to check accounts: %w", err)
	}
	return found, nil
}

// GetAll retrieves the stored account list.
//
// An absent key yields an empty list. A value that is not a JSON array of accounts
// yields a *models.StorageParseError so that callers never mistake corrupt data for an empty store.
func (r *accountRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	raw, found, err := r.storage.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	if !found {
		return []models.Account{}, nil
	}

	var accounts []models.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		r.logger.Warn("stored accounts are corrupt", zap.String("key", r.key), zap.Error(err))
		return nil, &models.StorageParseError{Key: r.key, Err: err}
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	return accounts, nil
}

// SaveAll replaces the stored account list
func (r *accountRepository) SaveAll(ctx context.Context, accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}

	data, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	if err := r.storage.Set(ctx, r.key, string(data)); err != nil {
		r.logger.Error("failed to save accounts", zap.Error(err), zap.Int("count", len(accounts)))
		return fmt.Errorf("failed to save accounts: %w", err)
	}

	return nil
}
