// Package storage defines where the artifact tree is written.
package storage

import (
	"context"

	"github.com/starford/apiops/internal/artifact"
)

// Provider is the interface for artifact file operations. Paths are artifact
// paths below the provider's root.
type Provider interface {
	// Root is the path every other path must lie under.
	Root() artifact.Path
	// Write stores content at p, creating intermediate directories as needed.
	Write(ctx context.Context, p artifact.Path, content []byte) error
	// Read returns the bytes at p. A missing file yields apperr.ErrNotFound.
	Read(ctx context.Context, p artifact.Path) ([]byte, error)
	// Exists reports whether a file is stored at p.
	Exists(ctx context.Context, p artifact.Path) (bool, error)
	// List returns every file below dir, sorted.
	List(ctx context.Context, dir artifact.Path) ([]artifact.Path, error)
}
