package ingest

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/dane-analizy/kursy-walut/cmd/env"
	ingestpkg "github.com/dane-analizy/kursy-walut/ingest"
	"github.com/dane-analizy/kursy-walut/ingest/config"
	"github.com/dane-analizy/kursy-walut/nbp"
	"github.com/dane-analizy/kursy-walut/storage/file"
	sqlstore "github.com/dane-analizy/kursy-walut/storage/sql"
	sqlitestore "github.com/dane-analizy/kursy-walut/storage/sqlite"
)

// ingestCfg wraps the ingest configuration
type ingestCfg struct {
	configPath string
	startDate  string
	workers    int
}

// NewIngestCmd creates the ingest subcommand
func NewIngestCmd() *ffcli.Command {
	cfg := &ingestCfg{}

	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "ingest",
		ShortUsage: "ingest [flags]",
		LongHelp:   "Runs one rate ingestion pass, from the configured start date through today",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *ingestCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"config.toml",
		"the path to the run TOML configuration",
	)

	fs.StringVar(
		&c.startDate,
		"start",
		"",
		"overrides the configured start date (YYYY-MM-DD)",
	)

	fs.IntVar(
		&c.workers,
		"workers",
		0,
		"overrides the configured fetch worker bound",
	)
}

// exec executes the ingest command
func (c *ingestCfg) exec(ctx context.Context, _ []string) error {
	// Read the run configuration
	cfg, err := config.Read(c.configPath)
	if err != nil {
		return fmt.Errorf("unable to read run config, %w", err)
	}

	// Apply flag overrides
	if c.startDate != "" {
		cfg.StartDate = c.startDate
	}

	if c.workers > 0 {
		cfg.Workers = c.workers
	}

	// Fail fast on configuration errors, before any I/O
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid run config, %w", err)
	}

	start, err := cfg.Start()
	if err != nil {
		return err
	}

	// Create a new logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Create the rate fetcher
	client := nbp.NewClient(
		cfg.SourceURL,
		cfg.Table,
		cfg.Currencies,
		cfg.FetchTimeout(),
	)

	// Create the ingestion runner
	runner, err := ingestpkg.New(
		client,
		start,
		ingestpkg.WithLogger(logger),
		ingestpkg.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return fmt.Errorf("unable to create runner: %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	defer cancelFn()

	// Register the file sink
	if cfg.SaveToFile {
		if err := runner.Register(file.NewStore(cfg.OutputFolder)); err != nil {
			return fmt.Errorf("unable to register file sink: %w", err)
		}
	}

	// Register the table sink.
	// A single connection is shared across the whole run: opened here,
	// closed after the run ends
	if cfg.SaveToDB {
		switch cfg.DBType {
		case config.DBTypePostgres:
			dsn := os.Getenv(env.Prefix + env.DBURLSuffix)
			if dsn == "" {
				return fmt.Errorf("missing %s", env.Prefix+env.DBURLSuffix)
			}

			// Open DB connection
			conn, err := pgx.Connect(runCtx, dsn)
			if err != nil {
				return fmt.Errorf("unable to open DB connection: %w", err)
			}

			defer func() {
				closeCtx, closeFn := context.WithTimeout(ctx, time.Second*5)
				defer closeFn()

				if err := conn.Close(closeCtx); err != nil {
					logger.Error(
						"unable to gracefully close DB connection",
						"err", err,
					)
				}
			}()

			store := sqlstore.NewStorage(conn)

			// Make sure the destination table exists
			if err := store.EnsureSchema(runCtx); err != nil {
				return fmt.Errorf("unable to ensure schema: %w", err)
			}

			if err := runner.Register(store); err != nil {
				return fmt.Errorf("unable to register table sink: %w", err)
			}
		case config.DBTypeSQLite:
			db, err := sqlitestore.Open(cfg.SQLiteFile)
			if err != nil {
				return err
			}

			defer func() {
				if err := db.Close(); err != nil {
					logger.Error(
						"unable to gracefully close DB",
						"err", err,
					)
				}
			}()

			store := sqlitestore.NewStorage(db)

			// Make sure the destination table exists
			if err := store.EnsureSchema(runCtx); err != nil {
				return fmt.Errorf("unable to ensure schema: %w", err)
			}

			if err := runner.Register(store); err != nil {
				return fmt.Errorf("unable to register table sink: %w", err)
			}
		}
	}

	// Run the ingestion
	if _, err := runner.Run(runCtx); err != nil {
		return fmt.Errorf("ingestion interrupted: %w", err)
	}

	return nil
}
