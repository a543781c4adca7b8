package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/chepyr/todo-console/internal/config"
	"github.com/chepyr/todo-console/internal/db"
	"github.com/chepyr/todo-console/internal/handlers"
	"github.com/chepyr/todo-console/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	cmd.Reader, cmd.Writer, cmd.ErrWriter = os.Stdin, os.Stdout, os.Stderr
	if err := cmd.Run(ctx, os.Args); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "todo",
		Usage: "Manage a persistent to-do list from the console",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file with TODO_* and POSTGRES_* variables",
				Value: config.DefaultEnvFile,
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Database driver: sqlite3, sqlite, postgres or pgx",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Data source name, e.g. a sqlite file path",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Store implementation: sql or gorm",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: runConsole,
	}
}

func runConsole(ctx context.Context, cmd *cli.Command) error {
	if err := config.LoadEnvFile(cmd.String("env-file"), cmd.IsSet("env-file")); err != nil {
		return err
	}

	cfg, err := config.Load(config.Overlay(map[string]string{
		config.EnvDriver:  cmd.String("driver"),
		config.EnvDSN:     cmd.String("dsn"),
		config.EnvBackend: cmd.String("backend"),
	}, os.Getenv))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrWriter, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger.With("session", uuid.NewString()))
	slog.Debug("starting", "driver", cfg.Driver, "backend", cfg.Backend)

	store, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}()

	handler := handlers.NewHandler(service.NewTaskService(store), cmd.Reader, cmd.Writer, cmd.ErrWriter)
	return handler.Run(ctx)
}
