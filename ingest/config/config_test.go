package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	// withDefaults returns a valid config with the given mutation applied
	withDefaults := func(mutate func(c *Config)) *Config {
		c := DefaultConfig()
		c.StartDate = "2024-03-01"

		mutate(c)

		return c
	}

	testTable := []struct {
		name        string
		config      *Config
		expectedErr error
	}{
		{
			"missing start date",
			withDefaults(func(c *Config) {
				c.StartDate = ""
			}),
			ErrMissingStartDate,
		},
		{
			"no currencies",
			withDefaults(func(c *Config) {
				c.Currencies = nil
			}),
			ErrNoCurrencies,
		},
		{
			"no sinks enabled",
			withDefaults(func(c *Config) {
				c.SaveToFile = false
				c.SaveToDB = false
			}),
			ErrNoSinksEnabled,
		},
		{
			"missing output folder",
			withDefaults(func(c *Config) {
				c.OutputFolder = ""
			}),
			ErrMissingOutput,
		},
		{
			"unsupported db type",
			withDefaults(func(c *Config) {
				c.SaveToDB = true
				c.DBType = "oracle"
			}),
			ErrInvalidDBType,
		},
		{
			"invalid fetch timeout",
			withDefaults(func(c *Config) {
				c.FetchTimeoutSeconds = 0
			}),
			ErrInvalidTimeout,
		},
		{
			"valid file-only config",
			withDefaults(func(_ *Config) {}),
			nil,
		},
		{
			"valid sqlite config",
			withDefaults(func(c *Config) {
				c.SaveToFile = false
				c.SaveToDB = true
				c.DBType = DBTypeSQLite
			}),
			nil,
		},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.ErrorIs(
				t,
				ValidateConfig(testCase.config),
				testCase.expectedErr,
			)
		})
	}

	t.Run("malformed start date", func(t *testing.T) {
		t.Parallel()

		c := withDefaults(func(c *Config) {
			c.StartDate = "01-03-2024"
		})

		assert.Error(t, ValidateConfig(c))
	})
}

func TestConfig_Start(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	c.StartDate = "2024-02-29"

	start, err := c.Start()
	require.NoError(t, err)

	assert.True(
		t,
		start.Equal(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)),
	)
}

func TestConfig_FetchTimeout(t *testing.T) {
	t.Parallel()

	c := DefaultConfig()
	c.FetchTimeoutSeconds = 5

	assert.Equal(t, 5*time.Second, c.FetchTimeout())
}

func TestConfig_Read(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Read(filepath.Join(t.TempDir(), "missing.toml"))

		assert.Error(t, err)
	})

	t.Run("values over defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")

		require.NoError(t, os.WriteFile(path, []byte(`
start_date = "2024-03-01"
currencies = ["EUR", "NOK"]
save_to_db = true
db_type = "sqlite"
workers = 4
`), 0o644))

		cfg, err := Read(path)
		require.NoError(t, err)

		assert.Equal(t, "2024-03-01", cfg.StartDate)
		assert.Equal(t, []string{"EUR", "NOK"}, cfg.Currencies)
		assert.True(t, cfg.SaveToDB)
		assert.Equal(t, DBTypeSQLite, cfg.DBType)
		assert.Equal(t, 4, cfg.Workers)

		// Untouched fields keep their defaults
		assert.True(t, cfg.SaveToFile)
		assert.Equal(t, DefaultOutputFolder, cfg.OutputFolder)
		assert.Equal(t, defaultFetchTimeout, cfg.FetchTimeoutSeconds)

		assert.NoError(t, ValidateConfig(cfg))
	})
}
