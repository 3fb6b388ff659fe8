package config

import (
	"errors"
	"os"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/dane-analizy/kursy-walut/ingest"
	"github.com/dane-analizy/kursy-walut/nbp"
)

// Supported table sink backends
const (
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

const (
	DefaultOutputFolder = "notowania"
	DefaultSQLiteFile   = "kursy.db"

	defaultFetchTimeout = int64(30) // seconds
)

var (
	ErrMissingStartDate = errors.New("missing start date")
	ErrNoCurrencies     = errors.New("no currencies configured")
	ErrNoSinksEnabled   = errors.New("no sinks enabled")
	ErrMissingOutput    = errors.New("missing output folder")
	ErrInvalidDBType    = errors.New("unsupported db type")
	ErrInvalidTimeout   = errors.New("invalid fetch timeout")
)

// Config defines one ingestion run. Loaded once at process start and
// immutable afterwards
type Config struct {
	// The first day of the range, YYYY-MM-DD. The range always ends at
	// "today"; there is no resume state, so advancing this value
	// between runs is the caller's job
	StartDate string `toml:"start_date"`

	// The expected currency codes (case-insensitive)
	Currencies []string `toml:"currencies"`

	// The NBP table category
	Table string `toml:"table"`

	// Enabled sinks
	SaveToFile bool `toml:"save_to_file"`
	SaveToDB   bool `toml:"save_to_db"`

	// Root directory of the per-currency file tree
	OutputFolder string `toml:"output_folder"`

	// Table sink backend: "postgres" (DSN from the environment) or
	// "sqlite"
	DBType     string `toml:"db_type"`
	SQLiteFile string `toml:"sqlite_file"`

	// Remote source tuning
	SourceURL           string `toml:"source_url"`
	FetchTimeoutSeconds int64  `toml:"fetch_timeout_seconds"`

	// Bound on concurrent in-flight remote fetches
	Workers int `toml:"workers"`
}

// DefaultConfig returns the default run configuration
func DefaultConfig() *Config {
	return &Config{
		Currencies:          []string{"EUR", "USD", "GBP", "CHF"},
		Table:               nbp.DefaultTable,
		SaveToFile:          true,
		SaveToDB:            false,
		OutputFolder:        DefaultOutputFolder,
		DBType:              DBTypePostgres,
		SQLiteFile:          DefaultSQLiteFile,
		SourceURL:           nbp.DefaultURL,
		FetchTimeoutSeconds: defaultFetchTimeout,
		Workers:             1,
	}
}

// ValidateConfig validates the run configuration. Errors here are
// fatal and surface before any network or storage I/O
func ValidateConfig(config *Config) error {
	if config.StartDate == "" {
		return ErrMissingStartDate
	}

	if _, err := ingest.ParseDay(config.StartDate); err != nil {
		return err
	}

	if len(config.Currencies) == 0 {
		return ErrNoCurrencies
	}

	if !config.SaveToFile && !config.SaveToDB {
		return ErrNoSinksEnabled
	}

	if config.SaveToFile && config.OutputFolder == "" {
		return ErrMissingOutput
	}

	if config.SaveToDB &&
		config.DBType != DBTypePostgres &&
		config.DBType != DBTypeSQLite {
		return ErrInvalidDBType
	}

	if config.FetchTimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// Start returns the parsed start day
func (c *Config) Start() (time.Time, error) {
	return ingest.ParseDay(c.StartDate)
}

// FetchTimeout returns the remote call timeout
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Read reads the run configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	cfg := DefaultConfig()

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
