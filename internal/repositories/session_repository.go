package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/treydbuddy/backend/internal/models"
	"github.com/treydbuddy/backend/internal/storage"
	"go.uber.org/zap"
)

// sessionRepository stores one session record per client profile
type sessionRepository struct {
	storage storage.Storage
	keys    KeySet
	logger  *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(s storage.Storage, keys KeySet, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		storage: s,
		keys:    keys,
		logger:  logger,
	}
}

// Get retrieves the session of "profileID".
//
// If there is no session, "nil" is returned together with a "nil" error.
// Corrupt data is reported as *models.StorageParseError.
func (r *sessionRepository) Get(ctx context.Context, profileID string) (*models.Session, error) {
	key := r.keys.sessionKey(profileID)

	raw, found, err := r.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if !found {
		return nil, nil
	}

	var session *models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		r.logger.Warn("stored session is corrupt", zap.String("key", key), zap.Error(err))
		return nil, &models.StorageParseError{Key: key, Err: err}
	}

	return session, nil
}

// Set overwrites the session of "profileID"
func (r *sessionRepository) Set(ctx context.Context, profileID string, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.storage.Set(ctx, r.keys.sessionKey(profileID), string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the session of "profileID"
func (r *sessionRepository) Clear(ctx context.Context, profileID string) error {
	if err := r.storage.Remove(ctx, r.keys.sessionKey(profileID)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
