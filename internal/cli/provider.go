package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/liftlog/internal/config"
	"github.com/julianstephens/liftlog/internal/keyring"
	"github.com/julianstephens/liftlog/internal/storage"
	"github.com/julianstephens/liftlog/internal/storage/postgres"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
)

// NewProvider builds the blob store the config selects. The store is not
// loaded.
func NewProvider(cfg config.Config) (storage.Provider, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return storage.NewJSONStore(cfg.StorePath()), nil
	case config.BackendSQLite:
		return sqlite.NewStore(cfg.StorePath()), nil
	case config.BackendPostgres:
		connStr, err := postgresConnString(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// postgresConnString prefers the config file and falls back to the keyring.
// Only the keyring may hold a password.
func postgresConnString(cfg config.Config) (string, error) {
	if cfg.PostgresDSN != "" {
		if err := postgres.ValidateConnString(cfg.PostgresDSN); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", fmt.Errorf("postgres_dsn must not contain a password; store it with 'liftlog keyring set' or use .pgpass")
			}
			return "", err
		}
		return cfg.PostgresDSN, nil
	}

	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PostgreSQL connection configured: set postgres_dsn or run 'liftlog keyring set'")
		}
		return "", err
	}
	if err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return "", err
	}
	return connStr, nil
}

// SourceProvider opens another liftlog store for copying data: a
// PostgreSQL connection string, a .json file or a SQLite database.
func SourceProvider(source string) (storage.Provider, error) {
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") || strings.Contains(source, "host=") {
		if err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("source connection string contains embedded credentials; use .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		return storage.NewJSONStore(config.ExpandHome(source)), nil
	}
	return sqlite.NewStore(config.ExpandHome(source)), nil
}
