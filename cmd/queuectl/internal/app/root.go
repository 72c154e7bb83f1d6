// Package app wires up queuectl's cobra command tree and the shared
// storage/manager construction every subcommand needs.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/queuectl/queuectl/config"
	"github.com/queuectl/queuectl/queue"
	"github.com/queuectl/queuectl/storage/sqlite"
)

// Execute builds and runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "queuectl",
		Short: "queuectl manages a single-node shell command job queue",
	}

	root.AddCommand(
		newEnqueueCmd(),
		newListCmd(),
		newStatusCmd(),
		newMetricsCmd(),
		newWorkerCmd(),
		newDLQCmd(),
		newConfigCmd(),
		newCleanCmd(),
	)
	return root
}

// openStore opens the SQLite-backed storage.Store at cfg's db_path,
// returning the store's cleanup function alongside it.
func openStore(ctx context.Context, cfg *config.Config) (*sqlite.Store, func() error, error) {
	sqldb, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, nil, fmt.Errorf("open db %s: %w", cfg.DBPath, err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := sqlite.InitSchema(ctx, db); err != nil {
		sqldb.Close()
		return nil, nil, fmt.Errorf("init schema: %w", err)
	}

	return sqlite.NewStore(db), sqldb.Close, nil
}

// openManager loads config and returns a ready-to-use queue.Manager
// plus its cleanup function.
func openManager(ctx context.Context) (*queue.Manager, *config.Config, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	store, closeDB, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	manager := queue.NewManager(store, queue.Defaults{MaxRetries: cfg.MaxRetries, Priority: 5})
	return manager, cfg, closeDB, nil
}

func logger() *slog.Logger {
	return slog.Default()
}
