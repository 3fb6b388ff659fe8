package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/dane-analizy/kursy-walut/cmd/env"
	"github.com/dane-analizy/kursy-walut/server"
	sqlitestore "github.com/dane-analizy/kursy-walut/storage/sqlite"
)

type serveSQLiteCfg struct {
	rootCfg *serveCfg

	dbPath string
}

// newServeSQLiteCmd creates the serve sqlite command
func newServeSQLiteCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveSQLiteCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("sqlite", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	fs.StringVar(
		&cfg.dbPath,
		"db",
		"kursy.db",
		"the path to the sqlite database file",
	)

	return &ffcli.Command{
		Name:       "sqlite",
		ShortUsage: "serve sqlite [flags]",
		LongHelp:   "Serves the rate read API, backed by a sqlite file",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// exec executes the serve sqlite command
func (c *serveSQLiteCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if err := c.rootCfg.readConfig(); err != nil {
		return fmt.Errorf("unable to read server config, %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Open the DB
	db, err := sqlitestore.Open(c.dbPath)
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

	// Create a sqlite store
	store := sqlitestore.NewStorage(db)

	s, err := server.New(
		store,
		server.WithLogger(logger),
		server.WithConfig(c.rootCfg.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}
