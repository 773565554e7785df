// Package main is the entry point for the todo service. It exposes a small
// CLI built on urfave/cli: "serve" wires all dependencies using samber/do v2,
// starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM;
// "migrate" creates the database schema and exits.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
)

// globalFlags holds the values of the root command's flags.
type globalFlags struct {
	profile   string
	configDir string
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	flags := &globalFlags{}

	serve := &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API",
		Action: func(ctx context.Context, _ *cli.Command) error { return runServe(ctx, flags) },
	}

	return &cli.Command{
		Name:  "todo-service",
		Usage: "Todo REST API backed by a relational store",
		Description: `Configuration is read from <config-dir>/base.yaml, then
<config-dir>/<profile>.yaml, then APP_* environment variables.

Run 'todo-service' with no command to start the server.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "profile",
				Aliases:     []string{"p"},
				Usage:       "configuration profile (e.g. local, dev, qa, prod)",
				Sources:     cli.EnvVars("APP_PROFILE"),
				Required:    true,
				Destination: &flags.profile,
			},
			&cli.StringFlag{
				Name:        "config-dir",
				Usage:       "directory containing the YAML config files",
				Sources:     cli.EnvVars("APP_CONFIG_DIR"),
				Value:       "configs",
				Destination: &flags.configDir,
			},
		},
		Commands: []*cli.Command{
			serve,
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema and exit",
				Action: func(ctx context.Context, _ *cli.Command) error { return runMigrate(ctx, flags) },
			},
		},
		Action: serve.Action,
	}
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.profile, config.WithConfigDir(flags.configDir))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
