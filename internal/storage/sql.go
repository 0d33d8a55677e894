package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// sqlStorage implements Storage on top of the kv_store table (see migrations/)
type sqlStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLStorage creates a new MySQL-backed storage
func NewSQLStorage(db *sql.DB, logger *zap.Logger) *sqlStorage {
	return &sqlStorage{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a value by key
func (s *sqlStorage) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT storage_value FROM kv_store WHERE storage_key = ?`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("failed to read key", zap.Error(err), zap.String("key", key))
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return value, true, nil
}

// Set stores a value by key
func (s *sqlStorage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (storage_key, storage_value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE storage_value = VALUES(storage_value)
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.logger.Error("failed to write key", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Remove deletes a key
func (s *sqlStorage) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE storage_key = ?`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		s.logger.Error("failed to remove key", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Close closes the database handle
func (s *sqlStorage) Close() error {
	return s.db.Close()
}
