package casekeeper

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/casekeeper/casekeeper/pkg/auth"
	"github.com/casekeeper/casekeeper/pkg/store"
	"github.com/casekeeper/casekeeper/pkg/store/memory"
	"github.com/casekeeper/casekeeper/pkg/store/postgres"
	surrealstore "github.com/casekeeper/casekeeper/pkg/store/surrealdb"
)

// Config holds application configuration. Values come from flags and
// environment variables through Parse.
type Config struct {
	// Database configuration. SurrealDB is the default backend; Postgres
	// and the in-memory store are selected by flag.
	PostgresDSN   string
	SurrealDBURL  string
	SurrealDBNS   string
	SurrealDBDB   string
	SurrealDBUser string
	SurrealDBPass string

	PostgresOnly bool
	InMemory     bool

	// JWTSecret signs session tokens. The server refuses to start
	// without one.
	JWTSecret string
	TokenTTL  time.Duration

	ServerPort string
}

// App holds the application state shared by all handlers.
type App struct {
	store  store.Store
	config *Config
	tokens *auth.TokenService
	log    zerolog.Logger
	now    func() time.Time
}

// New creates an application instance, connecting to the configured backend.
func New(config *Config) (*App, error) {
	var appStore store.Store
	var err error

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	switch {
	case config.InMemory:
		appStore = memory.NewMemoryStore()
		logger.Info().Msg("using in-memory store")
	case config.PostgresOnly:
		appStore, err = postgres.NewPostgresStore(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		logger.Info().Msg("connected to PostgreSQL")
	default:
		appStore, err = surrealstore.NewSurrealStore(
			config.SurrealDBURL,
			config.SurrealDBNS,
			config.SurrealDBDB,
			config.SurrealDBUser,
			config.SurrealDBPass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		logger.Info().Msg("connected to SurrealDB")
	}

	return NewWithStore(config, appStore, logger)
}

// NewWithStore creates an application over an already constructed store.
// Tests use this with the in-memory store.
func NewWithStore(config *Config, appStore store.Store, logger zerolog.Logger) (*App, error) {
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	return &App{
		store:  appStore,
		config: config,
		tokens: auth.NewTokenService([]byte(config.JWTSecret), config.TokenTTL),
		log:    logger,
		now:    time.Now,
	}, nil
}

// WithClock overrides the application's notion of the current time, including
// token issuance and validation. Test hook.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	a.tokens = a.tokens.WithClock(now)
	return a
}

// Store returns the underlying store (useful for testing).
func (a *App) Store() store.Store {
	return a.store
}

// Tokens returns the token service (useful for testing).
func (a *App) Tokens() *auth.TokenService {
	return a.tokens
}

// Close closes the application and its resources.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default. Empty
// values are treated the same as unset, which matters in container
// environments where variables get set to "".
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
