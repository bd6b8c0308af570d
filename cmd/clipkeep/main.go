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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/clipkeep/core"
	"github.com/poiesic/clipkeep/search"
	"github.com/poiesic/clipkeep/storage"
	"github.com/poiesic/clipkeep/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "clipkeep",
		Usage: "Inspect and manage a stored clipboard history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List stored entries, most recently copied first",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Content filter (all, text, links, images, files)",
						Value:   "all",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Rank stored entries against a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Search mode (mixed, exact, fuzzy, regexp)",
						Value:   "mixed",
					},
				},
			},
			{
				Name:   "wipe",
				Usage:  "Delete stored entries",
				Action: wipeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Also delete pinned entries",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openRepository opens the store read-write and returns the repository
// plus a teardown function.
func openRepository(c *cli.Context) (storage.EntryRepository, func(), error) {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	repo, err := badger.NewEntryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return repo, func() {
		repo.Close()
		backend.Close()
	}, nil
}

func listCommand(c *cli.Context) error {
	filter, err := core.ParseContentFilter(c.String("filter"))
	if err != nil {
		return err
	}

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := repo.ListAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	shown := 0
	for _, entry := range entries {
		if !filter.Matches(entry) {
			continue
		}
		printEntry(entry)
		shown++
	}
	fmt.Fprintf(os.Stderr, "%d of %d entries\n", shown, len(entries))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	mode, err := search.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}
	engine, err := search.NewEngine(mode)
	if err != nil {
		return err
	}

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	entries, err := repo.ListAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	results := engine.Search(query, entries)
	for _, result := range results {
		if result.Scored {
			fmt.Printf("%10.1f  %s\n", result.Score, result.Entry.Title)
		} else {
			fmt.Printf("%10s  %s\n", "-", result.Entry.Title)
		}
	}
	fmt.Fprintf(os.Stderr, "%d of %d entries matched (%s mode)\n", len(results), len(entries), mode)
	return nil
}

func wipeCommand(c *cli.Context) error {
	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	if c.Bool("all") {
		if err := repo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to wipe entries: %w", err)
		}
		fmt.Fprintln(os.Stderr, "all entries deleted")
		return repo.Sync()
	}

	entries, err := repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	deleted := 0
	for _, entry := range entries {
		if entry.IsPinned() {
			continue
		}
		if err := repo.Delete(ctx, entry.Id); err != nil {
			return fmt.Errorf("failed to delete entry %s: %w", entry.Id, err)
		}
		deleted++
	}
	fmt.Fprintf(os.Stderr, "%d entries deleted, %d pinned kept\n", deleted, len(entries)-deleted)
	return repo.Sync()
}

func printEntry(entry *core.Entry) {
	pin := " "
	if entry.IsPinned() {
		pin = string(entry.Pin)
	}
	fmt.Printf("%s  %s  x%-3d  %s\n",
		pin,
		entry.LastCopiedAt.Local().Format("2006-01-02 15:04"),
		entry.CopyCount,
		entry.Title)
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
