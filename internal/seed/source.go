// Package seed loads the initial account list from a static JSON resource.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/treydbuddy/backend/internal/models"
)

const maxSeedSize = 1 << 20 // 1MB

// source loads a JSON array of accounts from a file path or an http(s) URL
type source struct {
	location string
	client   *http.Client
}

// NewSource creates a seed source for "location".
//
// Locations starting with "http://" or "https://" are fetched, anything else is read from disk.
func NewSource(location string) *source {
	return &source{
		location: location,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Load retrieves and decodes the seed accounts
func (s *source) Load(ctx context.Context) ([]models.Account, error) {
	var data []byte
	var err error
	if isURL(s.location) {
		data, err = s.fetch(ctx)
	} else {
		data, err = os.ReadFile(s.location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.location, err)
	}

	var accounts []models.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.location, err)
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	return accounts, nil
}

func (s *source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxSeedSize))
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
