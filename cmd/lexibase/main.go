// Copyright 2025 Lexibase Authors
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

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/lexibase/lexibase"
	"github.com/lexibase/lexibase/ai"
	"github.com/lexibase/lexibase/config"
	"github.com/lexibase/lexibase/core"
	"github.com/lexibase/lexibase/indexer"
	"github.com/lexibase/lexibase/loader"
	"github.com/lexibase/lexibase/resolve"
)

func main() {
	app := &cli.App{
		Name:  "lexibase",
		Usage: "Legal knowledge base with tiered retrieval",
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
				Value:   "lexibase.yaml",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the retrieval index from a document corpus",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the index database directory (overrides config)",
					},
					&cli.StringFlag{
						Name:  "docs",
						Usage: "Directory of .txt/.md legal documents",
					},
					&cli.StringFlag{
						Name:  "statutes",
						Usage: "Path to the IPC statute CSV dataset",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print embedding progress to stderr",
						Value: true,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a question against the built index",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the index database directory (overrides config)",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show metadata of the built index",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the index database directory (overrides config)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	docsDir := c.String("docs")
	statutes := c.String("statutes")
	if docsDir == "" && statutes == "" {
		return fmt.Errorf("at least one of --docs or --statutes is required")
	}

	var docs []core.Document
	if statutes != "" {
		statuteDocs, err := loader.LoadStatuteCSV(statutes)
		if err != nil {
			return fmt.Errorf("loading statutes: %w", err)
		}
		docs = append(docs, statuteDocs...)
	}
	if docsDir != "" {
		dirDocs, err := loader.LoadDirectory(docsDir)
		if err != nil {
			return fmt.Errorf("loading documents: %w", err)
		}
		docs = append(docs, dirDocs...)
	}

	engine, err := newEngine(c, cfg, c.Bool("progress"))
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := engine.BuildIndex(c.Context, docs)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Printf("Indexed %d documents as %d fragments (dimension %d, model %s)\n",
		report.DocumentCount, report.FragmentCount, report.Dimension, report.Model)
	return nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	engine, err := newEngine(c, cfg, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.Resolve(c.Context, question)
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	fmt.Printf("\n[source: %s]\n", result.Source)
	for _, match := range result.Matches {
		fmt.Printf("  %.3f  %s\n", match.Score, match.Fragment.Title)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	engine, err := newEngine(c, cfg, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	meta, err := engine.Meta(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Fragments:   %d\n", meta.FragmentCount)
	fmt.Printf("Documents:   %d\n", meta.DocumentCount)
	fmt.Printf("Dimension:   %d\n", meta.Dimension)
	fmt.Printf("Model:       %s\n", meta.Model)
	fmt.Printf("Fingerprint: %d\n", meta.Fingerprint)
	fmt.Printf("Built at:    %s\n", meta.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func newEngine(c *cli.Context, cfg *config.AppConfig, progress bool) (*lexibase.Engine, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = cfg.Storage.Path
	}

	policy, err := cfg.Indexer.Policy()
	if err != nil {
		return nil, err
	}

	builderOpts := []indexer.Option{
		indexer.WithChunking(cfg.Chunking.MaxChars, cfg.Chunking.OverlapChars()),
		indexer.WithBatchSize(cfg.Indexer.BatchSize),
		indexer.WithRetry(cfg.Indexer.MaxRetries, cfg.Indexer.RetryBaseDelay()),
		indexer.WithMismatchPolicy(policy),
	}
	if progress {
		builderOpts = append(builderOpts, indexer.WithProgress(os.Stderr))
	}

	return lexibase.New(dbPath,
		lexibase.WithAIConfig(ai.NewConfig(cfg.AI.AIOptions()...)),
		lexibase.WithBuilderOptions(builderOpts...),
		lexibase.WithResolverOptions(
			resolve.WithTopK(cfg.Resolver.TopK),
			resolve.WithThreshold(cfg.Resolver.ConfidenceThreshold()),
			resolve.WithMinAnswerWords(cfg.Resolver.MinAnswerWords),
		),
	)
}

func setup(c *cli.Context) error {
	// Missing .env is fine; environment may be set by the shell
	_ = godotenv.Load()

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
