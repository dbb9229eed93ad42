// Command tagmatch resolves noisy media titles against the Discogs
// catalog and merges the matched metadata into per-file tag sidecars.
// It scans a directory, auto-accepts confident matches, and prompts for
// the ambiguous ones after the scan pass completes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sydlexius/tagmatch/internal/catalog/discogs"
	"github.com/sydlexius/tagmatch/internal/config"
	"github.com/sydlexius/tagmatch/internal/cover"
	"github.com/sydlexius/tagmatch/internal/logging"
	"github.com/sydlexius/tagmatch/internal/matchcache"
	"github.com/sydlexius/tagmatch/internal/pipeline"
	"github.com/sydlexius/tagmatch/internal/sidecar"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "tagmatch.yaml", "path to config file")
		dir        = flag.String("dir", ".", "directory of media files to tag")
		overwrite  = flag.Bool("overwrite", false, "overwrite existing tag values")
		noPrompt   = flag.Bool("no-prompt", false, "skip deferred items instead of prompting")
		rename     = flag.Bool("rename", false, "rename tagged files to \"Artist - Song\"")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *overwrite {
		cfg.Tagging.Overwrite = true
	}
	if *rename {
		cfg.Tagging.RenameFiles = true
	}

	logger, closer := logging.New(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	items, err := scanItems(*dir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", *dir, err)
	}
	logger.Info("scan complete", slog.Int("items", len(items)))
	if len(items) == 0 {
		return nil
	}

	client := discogs.New(cfg.Catalog.Token, cfg.Catalog.UserAgent, logger)
	store := matchcache.NewFileStore(cfg.Cache.Path, discogs.Marker, logger)
	sink := sidecar.New()

	var covers cover.Fetcher
	if cfg.Tagging.EmbedCovers {
		covers = cover.NewHTTPFetcher(cfg.Catalog.UserAgent)
	}

	opts := pipeline.Options{
		Thresholds:    cfg.Matching.Thresholds(),
		Policy:        cfg.Tagging.Policy(),
		MaxCandidates: cfg.Matching.MaxCandidates,
		FlipQuery:     cfg.Matching.FlipQuery,
		TagFromSource: cfg.Tagging.TagFromSource,
	}
	p := pipeline.New(client, client, store, sink, covers, logger, opts)

	results, pending := p.Run(ctx, items)
	printSummary(results)

	if len(pending) > 0 {
		if *noPrompt {
			fmt.Printf("%d items deferred; re-run without -no-prompt to review them\n", len(pending))
		} else {
			reviewResults := p.ResolvePending(ctx, pending, &terminalReviewer{out: os.Stdout, in: os.Stdin})
			printSummary(reviewResults)
			results = append(results, reviewResults...)
		}
	}

	if cfg.Tagging.RenameFiles {
		renameTagged(results, logger)
	}

	return nil
}

func printSummary(results []pipeline.Result) {
	counts := make(map[pipeline.Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	for _, s := range []pipeline.Status{
		pipeline.StatusTagged, pipeline.StatusCached, pipeline.StatusDeferred,
		pipeline.StatusAlreadyResolved, pipeline.StatusSkipped, pipeline.StatusFailed,
	} {
		if counts[s] > 0 {
			fmt.Printf("  %-17s %d\n", s, counts[s])
		}
	}
}
