package index

import (
	"context"
	"time"
)

// ArtifactIndex defines the interface for artifact bookkeeping.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type ArtifactIndex interface {
	Record(ctx context.Context, row ArtifactRow) (Change, error)
	Delete(ctx context.Context, path string) error
	GetChecksum(ctx context.Context, path string) (string, error)
	AllChecksums(ctx context.Context) (map[string]string, error)
	Stale(ctx context.Context, runID string) ([]ArtifactRow, error)
	StartRun(ctx context.Context, id string, at time.Time) error
	FinishRun(ctx context.Context, id string, at time.Time, runErr error) error
	GetRun(ctx context.Context, id string) (*RunRow, error)
	Close() error
}

// Verify *DB satisfies ArtifactIndex at compile time.
var _ ArtifactIndex = (*DB)(nil)
