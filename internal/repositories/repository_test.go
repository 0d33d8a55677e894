package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treydbuddy/backend/internal/models"
	"github.com/treydbuddy/backend/internal/storage"
	"go.uber.org/zap"
)

// failingStorage is a mock storage that fails every call
type failingStorage struct {
	err error
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, f.err
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	return f.err
}

func (f *failingStorage) Remove(ctx context.Context, key string) error {
	return f.err
}

func (f *failingStorage) Close() error {
	return nil
}

func TestKeySetByName(t *testing.T) {
	tests := []struct {
		name          string
		keySet        string
		expected      KeySet
		expectedError bool
	}{
		{name: "tb", keySet: "tb", expected: KeySetTB},
		{name: "legacy", keySet: "legacy", expected: KeySetLegacy},
		{name: "unknown", keySet: "other", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := KeySetByName(tt.keySet)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, keys)
		})
	}
}

func TestKeySet_SessionKey(t *testing.T) {
	assert.Equal(t, "tb_session", KeySetTB.sessionKey(""))
	assert.Equal(t, "tb_session:abc", KeySetTB.sessionKey("abc"))
	assert.Equal(t, "loggedInUser", KeySetLegacy.sessionKey(""))
}

func TestAccountRepository_GetAll(t *testing.T) {
	tests := []struct {
		name          string
		stored        *string
		expectedCount int
		expectedParse bool
	}{
		{name: "absent key", stored: nil, expectedCount: 0},
		{name: "empty array", stored: ptr(`[]`), expectedCount: 0},
		{name: "null value", stored: ptr(`null`), expectedCount: 0},
		{
			name:          "two accounts",
			stored:        ptr(`[{"id":1,"email":"a@x.com","password":"secret1","role":"student"},{"id":2,"username":"bob","password":"pw"}]`),
			expectedCount: 2,
		},
		{name: "corrupt json", stored: ptr(`[{"id":`), expectedParse: true},
		{name: "wrong shape", stored: ptr(`{"id":1}`), expectedParse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := storage.NewMemoryStorage()
			if tt.stored != nil {
				require.NoError(t, s.Set(ctx, "tb_users", *tt.stored))
			}
			repo := NewAccountRepository(s, KeySetTB, zap.NewNop())

			accounts, err := repo.GetAll(ctx)

			if tt.expectedParse {
				assert.True(t, models.IsStorageParseError(err))
				assert.Nil(t, accounts)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, accounts)
			assert.Len(t, accounts, tt.expectedCount)
		})
	}
}

func TestAccountRepository_SaveAllRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	repo := NewAccountRepository(s, KeySetLegacy, zap.NewNop())

	err := repo.SaveAll(ctx, []models.Account{{ID: 7, Username: "juan", Password: "pw1234"}})
	require.NoError(t, err)

	raw, found, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":7,"username":"juan","password":"pw1234"}]`, raw)

	accounts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "juan", accounts[0].Identifier())
}

func TestAccountRepository_SaveAllNil(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	repo := NewAccountRepository(s, KeySetTB, zap.NewNop())

	require.NoError(t, repo.SaveAll(ctx, nil))

	raw, _, err := s.Get(ctx, "tb_users")
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
}

func TestAccountRepository_Exists(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	repo := NewAccountRepository(s, KeySetTB, zap.NewNop())

	exists, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Set(ctx, "tb_users", "garbage"))
	exists, err = repo.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountRepository_StorageError(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(&failingStorage{err: errors.New("backend down")}, KeySetTB, zap.NewNop())

	_, err := repo.GetAll(ctx)
	assert.Error(t, err)
	assert.False(t, models.IsStorageParseError(err))

	_, err = repo.Exists(ctx)
	assert.Error(t, err)

	assert.Error(t, repo.SaveAll(ctx, []models.Account{}))
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	repo := NewSessionRepository(s, KeySetTB, zap.NewNop())

	session, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, session)

	require.NoError(t, repo.Set(ctx, "p1", &models.Session{Email: "a@x.com", FullName: "A", Role: models.RoleStudent}))

	session, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "a@x.com", session.Email)
	assert.Equal(t, models.RoleStudent, session.Role)

	// profiles do not share a slot
	other, err := repo.Get(ctx, "p2")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.Clear(ctx, "p1"))
	session, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, session)

	// clearing is idempotent
	assert.NoError(t, repo.Clear(ctx, "p1"))
}

func TestSessionRepository_Corrupt(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	require.NoError(t, s.Set(ctx, "tb_session", "{not json"))
	repo := NewSessionRepository(s, KeySetTB, zap.NewNop())

	session, err := repo.Get(ctx, "")
	assert.Nil(t, session)
	require.Error(t, err)

	var parseErr *models.StorageParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "tb_session", parseErr.Key)
}

func TestSessionRepository_NullValue(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStorage()
	require.NoError(t, s.Set(ctx, "loggedInUser", "null"))
	repo := NewSessionRepository(s, KeySetLegacy, zap.NewNop())

	session, err := repo.Get(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func ptr(s string) *string {
	return &s
}
