package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/lineview/internal"
	pkgconfig "github.com/starford/lineview/pkg/config"
)

var version = "dev"

type runFunc func(ctx context.Context, opts ...internal.Option) error

// mode adapts one of the internal run modes to a cli action.
func mode(name string, run runFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithVersion(version),
		}
		if path := cmd.Args().First(); path != "" {
			opts = append(opts, internal.WithDocumentPath(path))
		}
		if cmd.IsSet("no-watch") {
			cfg.Document.Watch = !cmd.Bool("no-watch")
		}
		if cmd.IsSet("args") {
			opts = append(opts, internal.WithShowArgs(cmd.Bool("args")))
		}

		if err := run(ctx, opts...); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func noWatchFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-watch",
		Usage: "Do not reload when source files change",
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "lineview",
		Usage:   "Turn menu documents into selectable lines that run commands",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "print",
				Usage:     "Print the document lines and exit",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "args", Usage: "Show the command each line runs"},
				},
				Action: mode("print", internal.Print),
			},
			{
				Name:      "view",
				Usage:     "Browse the document and run lines interactively",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{noWatchFlag()},
				Action:    mode("view", internal.Browse),
			},
			{
				Name:      "serve",
				Usage:     "Serve the document over HTTP with live reload events",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{noWatchFlag()},
				Action:    mode("serve", internal.Serve),
			},
			{
				Name:      "mcp",
				Usage:     "Serve the document to an MCP client over stdio",
				ArgsUsage: "[FILE]",
				Flags:     []cli.Flag{noWatchFlag()},
				Action:    mode("mcp", internal.ServeMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
