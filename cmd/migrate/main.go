package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/ghuser/stockledger/migrations"
	"github.com/ghuser/stockledger/pkg/config"
	"github.com/ghuser/stockledger/pkg/database"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/migrator"
)

// migrateCmd runs one migrator operation against DATABASE_URL.
type migrateCmd struct {
	name     string
	synopsis string
	run      func(ctx context.Context, db *database.Database, log logger.Logger) error
}

func (c *migrateCmd) Name() string     { return c.name }
func (c *migrateCmd) Synopsis() string { return c.synopsis }
func (c *migrateCmd) Usage() string {
	return fmt.Sprintf("migrate %s\n\n  %s.\n", c.name, c.synopsis)
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return subcommands.ExitFailure
	}
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	db, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return subcommands.ExitFailure
	}
	defer db.Close() //nolint:errcheck

	if err := c.run(ctx, db, log); err != nil {
		log.Error("migration failed", "command", c.name, "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&migrateCmd{
		name:     "up",
		synopsis: "apply every pending migration",
		run: func(ctx context.Context, db *database.Database, log logger.Logger) error {
			return migrator.Up(ctx, db.DB(), migrations.FS, log)
		},
	}, "")
	commander.Register(&migrateCmd{
		name:     "down",
		synopsis: "roll back the most recent migration",
		run: func(ctx context.Context, db *database.Database, log logger.Logger) error {
			return migrator.Down(ctx, db.DB(), migrations.FS, log)
		},
	}, "")
	commander.Register(&migrateCmd{
		name:     "status",
		synopsis: "list every migration and whether it is applied",
		run: func(ctx context.Context, db *database.Database, log logger.Logger) error {
			return migrator.Status(ctx, db.DB(), migrations.FS, log)
		},
	}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
