// Package config parses pokertrack.toml configuration and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FileName is the configuration file looked up by Load.
const FileName = "pokertrack.toml"

// DefaultAccentColor is the default dashboard accent color (felt green).
const DefaultAccentColor = "#2E8B57"

// Environment variables that override file values.
const (
	EnvBackend  = "POKERTRACK_DB_BACKEND"
	EnvDBPath   = "POKERTRACK_DB_PATH"
	EnvLogLevel = "POKERTRACK_LOG_LEVEL"
	EnvCurrency = "POKERTRACK_CURRENCY"
)

// hexColorRe matches a 6-digit hex color string like "#2E8B57".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// currencyRe matches a three-letter currency code.
var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Config is the top-level pokertrack.toml configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Display DisplayConfig `toml:"display"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`

	// Dir is the directory holding the loaded file. Relative paths in the
	// file are resolved against it. Empty when no file was found.
	Dir string `toml:"-"`
}

// StorageConfig selects the store backend and its location.
type StorageConfig struct {
	Backend string `toml:"backend"` // "sqlite" or "jsonl"
	Path    string `toml:"path"`
}

// DisplayConfig controls how amounts and the dashboard are rendered.
type DisplayConfig struct {
	Currency    string `toml:"currency"`
	AccentColor string `toml:"accent_color"`
}

// ExportConfig names the default export files.
type ExportConfig struct {
	BackupFile string `toml:"backup_file"`
	CSVFile    string `toml:"csv_file"`
}

// LogConfig controls slog output.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// SlogLevel parses Level, falling back to info.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case "sqlite", "jsonl":
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be \"sqlite\" or \"jsonl\", got %q", c.Storage.Backend))
	}
	if c.Storage.Path == "" {
		errs = append(errs, fmt.Errorf("storage.path must not be empty"))
	}

	if !currencyRe.MatchString(c.Display.Currency) {
		errs = append(errs, fmt.Errorf("display.currency must be a three-letter code (e.g. \"USD\")"))
	}
	if c.Display.AccentColor != "" && !hexColorRe.MatchString(c.Display.AccentColor) {
		errs = append(errs, fmt.Errorf("display.accent_color must be a hex color (e.g. %q)", DefaultAccentColor))
	}

	if c.Export.BackupFile == "" {
		errs = append(errs, fmt.Errorf("export.backup_file must not be empty"))
	}
	if c.Export.CSVFile == "" {
		errs = append(errs, fmt.Errorf("export.csv_file must not be empty"))
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error"))
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    filepath.Join("data", "pokertrack.db"),
		},
		Display: DisplayConfig{
			Currency:    "USD",
			AccentColor: DefaultAccentColor,
		},
		Export: ExportConfig{
			BackupFile: "poker-tracker-backup.json",
			CSVFile:    "tournaments.csv",
		},
		Log: LogConfig{Level: "info"},
	}
}

// DBPath returns the storage path, resolved against Dir when relative.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.Storage.Path) || c.Dir == "" {
		return c.Storage.Path
	}
	return filepath.Join(c.Dir, c.Storage.Path)
}

// Load reads pokertrack.toml from the given path. If path is empty, it walks
// up from the current working directory looking for pokertrack.toml and
// falls back to Defaults when none exists. An explicit path must exist.
// Returns an error if the file contains unknown keys (likely typos).
//
// Values from a .env file in the working directory and from the process
// environment override the file.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil && !errors.Is(err, errNotFound) {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
		}
		cfg.Dir = filepath.Dir(path)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides file values with any POKERTRACK_* variables that are set.
func applyEnv(cfg *Config) error {
	cfg.Storage.Backend = getEnvOrDefault(EnvBackend, cfg.Storage.Backend)
	cfg.Log.Level = getEnvOrDefault(EnvLogLevel, cfg.Log.Level)
	cfg.Display.Currency = strings.ToUpper(getEnvOrDefault(EnvCurrency, cfg.Display.Currency))

	// An overridden path is relative to the working directory, not Dir.
	if p := os.Getenv(EnvDBPath); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", EnvDBPath, err)
		}
		cfg.Storage.Path = abs
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

var errNotFound = errors.New("config: " + FileName + " not found")

// findConfig walks up from the current directory looking for pokertrack.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errNotFound
		}
		dir = parent
	}
}

// InitFile writes a default pokertrack.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# pokertrack.toml
# Place this file in the directory you run pokertrack from, or any parent.

[storage]
backend = "sqlite"            # "sqlite" or "jsonl"
path = "data/pokertrack.db"   # relative to this file

[display]
currency = "USD"              # currency used for session and stats totals
accent_color = "#2E8B57"      # hex color for dashboard header/accent elements

[export]
backup_file = "poker-tracker-backup.json"
csv_file = "tournaments.csv"

[log]
level = "info"                # debug, info, warn or error
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
