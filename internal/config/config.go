// Package config loads liftlog settings from a YAML or TOML file, a .env
// file and LIFTLOG_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/liftlog/internal/constants"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const envPrefix = "LIFTLOG_"

type Config struct {
	Backend        string `yaml:"backend" toml:"backend" validate:"required,oneof=file sqlite postgres"`
	DataDir        string `yaml:"data_dir" toml:"data_dir" validate:"required"`
	PostgresDSN    string `yaml:"postgres_dsn" toml:"postgres_dsn"` // falls back to the keyring when empty
	Debug          bool   `yaml:"debug" toml:"debug"`
	LogLevel       string `yaml:"log_level" toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	WeightUnit     string `yaml:"weight_unit" toml:"weight_unit" validate:"oneof=kg lb"`
	MaxBackups     int    `yaml:"max_backups" toml:"max_backups" validate:"gte=0,lte=365"`
	HistoryCacheMB int    `yaml:"history_cache_mb" toml:"history_cache_mb" validate:"gte=0,lte=512"`
}

func Default() Config {
	return Config{
		Backend:        BackendSQLite,
		DataDir:        constants.DefaultDataDir,
		WeightUnit:     constants.DefaultWeightUnit,
		MaxBackups:     constants.MaxBackups,
		HistoryCacheMB: 1,
	}
}

// DefaultPath is the config file looked up when --config is not given.
func DefaultPath() string {
	return filepath.Join(constants.DefaultDataDir, "config.yaml")
}

// Load builds the configuration. A missing file at path is not an error;
// the defaults and environment still apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(ExpandHome(path), &cfg); err != nil {
			return Config{}, err
		}
	}

	// .env in the working directory, then next to the data
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(ExpandHome(cfg.DataDir), ".env"))

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.DataDir = ExpandHome(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml or .toml)", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"BACKEND":      &cfg.Backend,
		"DATA_DIR":     &cfg.DataDir,
		"POSTGRES_DSN": &cfg.PostgresDSN,
		"LOG_LEVEL":    &cfg.LogLevel,
		"WEIGHT_UNIT":  &cfg.WeightUnit,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_BACKUPS":      &cfg.MaxBackups,
		"HISTORY_CACHE_MB": &cfg.HistoryCacheMB,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", envPrefix, err)
		}
		cfg.Debug = b
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every invalid field, named by its config key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q check (value %v)", keyName(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func keyName(field string) string {
	switch field {
	case "DataDir":
		return "data_dir"
	case "LogLevel":
		return "log_level"
	case "WeightUnit":
		return "weight_unit"
	case "MaxBackups":
		return "max_backups"
	case "HistoryCacheMB":
		return "history_cache_mb"
	default:
		return strings.ToLower(field)
	}
}

// StorePath is the file the file and sqlite backends keep their data in.
func (c Config) StorePath() string {
	switch c.Backend {
	case BackendFile:
		return filepath.Join(c.DataDir, constants.AppName+".json")
	default:
		return filepath.Join(c.DataDir, constants.AppName+".db")
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
