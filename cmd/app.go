package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/treydbuddy/backend/internal/config"
	"github.com/treydbuddy/backend/internal/handlers"
	"github.com/treydbuddy/backend/internal/logger"
	"github.com/treydbuddy/backend/internal/repositories"
	"github.com/treydbuddy/backend/internal/seed"
	"github.com/treydbuddy/backend/internal/services"
	"github.com/treydbuddy/backend/internal/storage"
	"go.uber.org/zap"
)

// accountStore is the account store as driven by the commands
type accountStore interface {
	handlers.AuthService
	SeedDefaults(ctx context.Context) (bool, error)
	ImportSeed(ctx context.Context, source services.SeedSource) (int, error)
}

// app bundles the components shared by the commands
type app struct {
	cfg     *config.Config
	store   storage.Storage
	keys    repositories.KeySet
	dialect services.Dialect
	service accountStore
}

// newApp loads the configuration, initializes the logger and opens the storage backend.
// The caller must call close.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	if err := logger.Init(level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	keys, err := repositories.KeySetByName(cfg.Storage.KeySet)
	if err != nil {
		return nil, err
	}

	dialect := services.DialectTB
	if keys.Name == repositories.KeySetLegacy.Name {
		dialect = services.DialectLegacy
	}

	store, err := openStorage(cfg, logger.Logger)
	if err != nil {
		return nil, err
	}

	accountRepo := repositories.NewAccountRepository(store, keys, logger.Logger)
	sessionRepo := repositories.NewSessionRepository(store, keys, logger.Logger)

	return &app{
		cfg:     cfg,
		store:   store,
		keys:    keys,
		dialect: dialect,
		service: services.NewAuthService(accountRepo, sessionRepo, dialect, logger.Logger),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logger.Logger.Error("failed to close storage", zap.Error(err))
	}
	logger.Sync()
}

// seed runs the seeding that matches the key set: the default accounts for "tb",
// the seed file import for "legacy" when SEED_SOURCE is set
func (a *app) seed(ctx context.Context) error {
	if a.keys.Name == repositories.KeySetLegacy.Name {
		if a.cfg.Storage.SeedSource == "" {
			return nil
		}
		_, err := a.service.ImportSeed(ctx, seed.NewSource(a.cfg.Storage.SeedSource))
		return err
	}

	_, err := a.service.SeedDefaults(ctx)
	return err
}

// openStorage opens the configured key-value backend
func openStorage(cfg *config.Config, log *zap.Logger) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendBolt:
		store, err := storage.NewBoltStorage(cfg.Storage.BoltPath)
		if err != nil {
			return nil, err
		}
		log.Info("using bolt storage", zap.String("path", cfg.Storage.BoltPath))
		return store, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("using redis storage", zap.String("addr", cfg.RedisAddr()))
		return storage.NewRedisStorage(client, cfg.Redis.KeyPrefix), nil

	case config.BackendMySQL:
		db, err := connectDB(cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := runMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("using mysql storage", zap.String("host", cfg.Database.Host))
		return storage.NewSQLStorage(db, log), nil

	default:
		log.Info("using in-memory storage")
		return storage.NewMemoryStorage(), nil
	}
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "treydbuddy_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
