package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/apiops/internal/artifact"
	"github.com/starford/apiops/internal/storage"
)

// SyncRunID marks rows written by Sync rather than by an extraction run.
const SyncRunID = "sync"

// Sync walks the stored tree and brings the index up to date:
//   - new/changed artifacts are upserted
//   - artifacts removed from storage are deleted from the index
//
// Files the extractor does not write are ignored.
func Sync(ctx context.Context, db ArtifactIndex, store storage.Provider, service artifact.ServiceDirectory, logger *slog.Logger) error {
	paths, err := store.List(ctx, service.Path())
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums(ctx)
	if err != nil {
		return err
	}

	stored := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		kind, name, ok := artifact.Classify(service, p)
		if !ok {
			continue
		}
		rel, _ := p.Rel(service.Path())
		stored[rel] = struct{}{}

		data, err := store.Read(ctx, p)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", rel), slog.String("error", err.Error()))
			continue
		}
		cs := Checksum(data)
		if checksums[rel] == cs {
			continue
		}
		row := ArtifactRow{Path: rel, Kind: string(kind), Name: name, Checksum: cs, RunID: SyncRunID, UpdatedAt: time.Now().UTC()}
		if _, err := db.Record(ctx, row); err != nil {
			logger.Warn("sync: index failed", slog.String("path", rel), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", rel))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := stored[p]; !ok {
			if err := db.Delete(ctx, p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return ctx.Err()
}
