package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treydbuddy/backend/internal/config"
	"github.com/treydbuddy/backend/internal/handlers"
	"github.com/treydbuddy/backend/internal/middleware"
	"github.com/treydbuddy/backend/internal/models"
	"github.com/treydbuddy/backend/internal/repositories"
	"github.com/treydbuddy/backend/internal/server"
	"github.com/treydbuddy/backend/internal/services"
	"github.com/treydbuddy/backend/internal/storage"
	"go.uber.org/zap"
)

var (
	testLogger *zap.Logger
	testCfg    *config.Config
)

// TestMain sets up the shared logger and test configuration
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	testCfg, err = config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}

	os.Exit(m.Run())
}

// backend opens one storage backend for a test, skipping when it is not configured
type backend struct {
	name string
	open func(t *testing.T) storage.Storage
}

var backends = []backend{
	{name: "memory", open: func(t *testing.T) storage.Storage {
		return storage.NewMemoryStorage()
	}},
	{name: "bolt", open: func(t *testing.T) storage.Storage {
		s, err := storage.NewBoltStorage(filepath.Join(t.TempDir(), "ls.db"))
		require.NoError(t, err)
		return s
	}},
	{name: "mysql", open: openMySQL},
	{name: "redis", open: openRedis},
}

func openMySQL(t *testing.T) storage.Storage {
	t.Helper()
	dsn := testCfg.DSN()
	if dsn == "" {
		t.Skip("TEST_DB_* not configured")
	}

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.Ping(), "Failed to ping test database")

	schema, err := os.ReadFile("../../migrations/000001_create_kv_store.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err, "Failed to create kv_store")

	_, err = db.Exec("DELETE FROM kv_store")
	require.NoError(t, err, "Failed to clear kv_store")
	t.Cleanup(func() {
		db.Exec("DELETE FROM kv_store")
	})

	return storage.NewSQLStorage(db, testLogger)
}

func openRedis(t *testing.T) storage.Storage {
	t.Helper()
	if testCfg.Redis.Host == "" {
		t.Skip("TEST_REDIS_HOST not configured")
	}

	client := redis.NewClient(&redis.Options{Addr: testCfg.RedisAddr()})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err(), "Failed to ping test redis")

	flush := func() {
		keys, _ := client.Keys(ctx, testCfg.Redis.KeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
	}
	flush()
	t.Cleanup(flush)

	return storage.NewRedisStorage(client, testCfg.Redis.KeyPrefix)
}

// setupTestServer serves the router of the serve command over "store"
func setupTestServer(t *testing.T, store storage.Storage) *httptest.Server {
	t.Helper()

	keys := repositories.KeySetTB
	accountRepo := repositories.NewAccountRepository(store, keys, testLogger)
	sessionRepo := repositories.NewSessionRepository(store, keys, testLogger)
	svc := services.NewAuthService(accountRepo, sessionRepo, services.DialectTB, testLogger)
	seed := func(ctx context.Context) error {
		_, err := svc.SeedDefaults(ctx)
		return err
	}
	require.NoError(t, seed(context.Background()))

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: 8080},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://app.local"}},
		Pages:     config.PagesConfig{Dir: t.TempDir(), BasePath: "/"},
		Profile:   config.ProfileConfig{Secret: "integration-secret"},
		RateLimit: 1000,
	}

	handler, err := server.NewRouter(cfg, svc, seed, services.DialectTB.RegisteredMessage(), testLogger)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		store.Close()
	})
	return srv
}

// newClient returns a client with its own cookie jar, i.e. its own profile, that does not follow redirects
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postJSON(t *testing.T, c *http.Client, u, body string) (*http.Response, models.AuthResult) {
	t.Helper()
	resp, err := c.Post(u, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result models.AuthResult
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &result))
	}
	return resp, result
}

func get(t *testing.T, c *http.Client, u string) *http.Response {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestIntegration_AuthFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			srv := setupTestServer(t, b.open(t))
			c := newClient(t)

			resp, result := postJSON(t, c, srv.URL+"/api/v1/auth/register",
				`{"fullName":"A","email":"A@X.com","password":"secret1","confirmPassword":"secret1"}`)
			assert.Equal(t, http.StatusCreated, resp.StatusCode)
			assert.True(t, result.OK)

			resp, result = postJSON(t, c, srv.URL+"/api/v1/auth/register",
				`{"fullName":"B","email":"a@x.com","password":"secret2"}`)
			assert.Equal(t, http.StatusConflict, resp.StatusCode)
			assert.Equal(t, "Email is already registered.", result.Error)

			resp, result = postJSON(t, c, srv.URL+"/api/v1/auth/login", `{"email":"nobody@x.com","password":"whatever"}`)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, models.AuthResult{OK: false, Error: "Invalid email or password."}, result)

			resp, result = postJSON(t, c, srv.URL+"/api/v1/auth/login", `{"email":"a@x.com","password":"secret1"}`)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, models.RoleStudent, result.Role)
			assert.Equal(t, "/StudentDashboard.html", result.Redirect)

			resp = get(t, c, srv.URL+"/api/v1/auth/session")
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp = get(t, c, srv.URL+"/AdminDashboard.html")
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/StudentDashboard.html", resp.Header.Get("Location"))

			resp = get(t, c, srv.URL+"/StudentDashboard.html")
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = postJSON(t, c, srv.URL+"/api/v1/auth/logout", ``)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp = get(t, c, srv.URL+"/api/v1/auth/session")
			assert.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp = get(t, c, srv.URL+"/StudentDashboard.html")
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/Login.html", resp.Header.Get("Location"))
		})
	}
}

func TestIntegration_AdminAndProfiles(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	srv := setupTestServer(t, storage.NewMemoryStorage())
	admin := newClient(t)
	guest := newClient(t)

	resp, result := postJSON(t, admin, srv.URL+"/api/v1/auth/login", `{"email":"ADMIN@bpsu.edu.ph","password":"admin123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/AdminDashboard.html", result.Redirect)

	resp, err := admin.Get(srv.URL + "/api/v1/accounts")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var accounts []handlers.AccountResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accounts))
	assert.Len(t, accounts, 2)

	// The guest has its own profile and therefore no session
	resp = get(t, guest, srv.URL+"/api/v1/accounts")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = get(t, guest, srv.URL+"/AdminDashboard.html")
	assert.Equal(t, "/Login.html", resp.Header.Get("Location"))

	// Signed-in visitors skip the login page
	resp = get(t, admin, srv.URL+"/Login.html")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/AdminDashboard.html", resp.Header.Get("Location"))
}

func TestIntegration_Forms(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	srv := setupTestServer(t, storage.NewMemoryStorage())
	c := newClient(t)

	resp, err := c.PostForm(srv.URL+"/register.html", url.Values{
		"fullName":        {"Maria Clara"},
		"email":           {"maria@bpsu.edu.ph"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/Login.html?registered=1", resp.Header.Get("Location"))

	resp, err = c.PostForm(srv.URL+"/Login.html", url.Values{
		"email":    {"maria@bpsu.edu.ph"},
		"password": {"secret1"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/StudentDashboard.html", resp.Header.Get("Location"))

	resp = get(t, c, srv.URL+"/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/Login.html", resp.Header.Get("Location"))

	resp = get(t, c, srv.URL+"/EventDetails.html")
	assert.Equal(t, "/Login.html", resp.Header.Get("Location"))
}

func TestIntegration_RouterComposition(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	srv := setupTestServer(t, storage.NewMemoryStorage())
	c := newClient(t)

	t.Run("swagger ui", func(t *testing.T) {
		resp := get(t, c, srv.URL+"/swagger/index.html")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	})

	t.Run("profile cookie is issued once", func(t *testing.T) {
		resp := get(t, c, srv.URL+"/Login.html")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		u, err := url.Parse(srv.URL)
		require.NoError(t, err)
		cookies := c.Jar.Cookies(u)
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.ProfileCookieName, cookies[0].Name)

		resp = get(t, c, srv.URL+"/register.html")
		assert.Empty(t, resp.Cookies())
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/auth/login", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://app.local")
		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://app.local", resp.Header.Get("Access-Control-Allow-Origin"))

		req.Header.Set("Origin", "http://evil.local")
		resp, err = c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("pages share one pattern for get and post", func(t *testing.T) {
		resp := get(t, c, srv.URL+"/")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/Login.html", resp.Header.Get("Location"))

		resp, err := c.PostForm(srv.URL+"/StudentDashboard.html", url.Values{})
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		resp = get(t, c, srv.URL+"/nope.html")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"email":"` + strings.Repeat("a", middleware.DefaultMaxRequestSize) + `"}`
		resp, result := postJSON(t, c, srv.URL+"/api/v1/auth/login", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "request body too large", result.Error)
	})
}
