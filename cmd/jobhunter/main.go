// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/poiesic/jobhunter"
	"github.com/poiesic/jobhunter/config"
	"github.com/poiesic/jobhunter/pipeline"
	"github.com/poiesic/jobhunter/report"
	"github.com/poiesic/jobhunter/web"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "jobhunter",
		Usage: "Search job boards and rank the relevant postings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{config.EnvConfigPath},
				Value:   "config.yaml",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Run one search and write the Markdown digest",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output Markdown file",
						Value:   "daily_jobs.md",
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Override query string",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the search form and JSON API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":5000",
					},
				},
			},
			{
				Name:   "watch",
				Usage:  "Write the Markdown digest on a cron schedule",
				Action: watchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "schedule",
						Usage: "Cron expression (minute hour dom month dow)",
						Value: "0 7 * * *",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output Markdown file",
						Value:   "daily_jobs.md",
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Override query string",
					},
					&cli.BoolFlag{
						Name:  "run-now",
						Usage: "Also run once at startup",
					},
				},
			},
		},
	}
}

func searchCommand(c *cli.Context) error {
	hunter, err := newHunter(c.Context, c.String("config"))
	if err != nil {
		return err
	}
	defer hunter.Close()

	return runSearch(c.Context, c.App.Writer, hunter, c.String("query"), c.String("output"))
}

func serveCommand(c *cli.Context) error {
	path, err := config.ResolvePath(c.String("config"))
	if err != nil {
		return err
	}
	if path != c.String("config") {
		slog.Warn("configuration not found, using example", "requested", c.String("config"), "path", path)
	}

	hunter, err := newHunter(c.Context, path)
	if err != nil {
		return err
	}
	defer hunter.Close()

	server, err := web.New(hunter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, c.String("addr"))
}

func watchCommand(c *cli.Context) error {
	hunter, err := newHunter(c.Context, c.String("config"))
	if err != nil {
		return err
	}
	defer hunter.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := c.String("query")
	output := c.String("output")
	scheduler, err := newScheduler(c.String("schedule"), func() {
		// Failures are reported and the next tick runs regardless.
		_ = runSearch(ctx, c.App.Writer, hunter, query, output)
	})
	if err != nil {
		return err
	}

	if c.Bool("run-now") {
		_ = runSearch(ctx, c.App.Writer, hunter, query, output)
	}

	scheduler.Start()
	slog.Info("watching", "schedule", c.String("schedule"), "output", output)
	<-ctx.Done()

	slog.Info("stopping scheduler")
	<-scheduler.Stop().Done()
	return nil
}

func newScheduler(schedule string, job func()) (*cron.Cron, error) {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, job); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return scheduler, nil
}

func newHunter(ctx context.Context, path string) (*jobhunter.Hunter, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return jobhunter.New(ctx, cfg,
		jobhunter.WithMonitor(pipeline.NewLogMonitor(slog.Default())),
	)
}

func runSearch(ctx context.Context, w io.Writer, hunter *jobhunter.Hunter, query, output string) error {
	jobs, err := hunter.Search(ctx, query)
	if err != nil {
		fmt.Fprintf(w, "Error executing search: %v\n", err)
		return err
	}
	if err := report.Save(output, jobs); err != nil {
		return err
	}
	fmt.Fprintf(w, "Saved %d jobs to %s\n", len(jobs), output)
	return nil
}

func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}
	// A missing .env file is normal; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
