package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sydlexius/tagmatch/internal/normalize"
	"github.com/sydlexius/tagmatch/internal/pipeline"
	"github.com/sydlexius/tagmatch/internal/sidecar"
)

// renameTagged renames successfully tagged media files to the
// normalized "Artist - Song" form, carrying any tag sidecar along. An
// existing file at the target name wins; the original keeps its name.
func renameTagged(results []pipeline.Result, logger *slog.Logger) {
	for _, r := range results {
		if r.Status != pipeline.StatusTagged && r.Status != pipeline.StatusCached {
			continue
		}
		name := normalize.SafeFilename(r.Query.String())
		if name == "" {
			continue
		}

		ext := filepath.Ext(r.Item.Handle)
		target := filepath.Join(filepath.Dir(r.Item.Handle), name+ext)
		if target == r.Item.Handle {
			continue
		}
		if _, err := os.Stat(target); err == nil {
			logger.Warn("rename target exists, keeping original name",
				slog.String("handle", r.Item.Handle),
				slog.String("target", target))
			continue
		}
		if err := os.Rename(r.Item.Handle, target); err != nil {
			logger.Warn("rename failed",
				slog.String("handle", r.Item.Handle),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("renamed", slog.String("from", r.Item.Handle), slog.String("to", target))

		oldSidecar := sidecar.Path(r.Item.Handle)
		if _, err := os.Stat(oldSidecar); err == nil {
			if err := os.Rename(oldSidecar, sidecar.Path(target)); err != nil {
				logger.Warn("sidecar rename failed", slog.String("error", err.Error()))
			}
		}
	}
}
