package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
)

const tmpPattern = ".apiops-tmp-*"

// FS implements Provider backed by the local file system.
type FS struct {
	base artifact.Path
	root string // absolute path of base
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{base: artifact.NewPath(root), root: abs}, nil
}

// Root returns the artifact path the provider was created with.
func (f *FS) Root() artifact.Path { return f.base }

// safePath resolves an artifact path against the root and rejects any result
// that escapes it (directory traversal).
func (f *FS) safePath(p artifact.Path) (string, error) {
	rel, err := p.Rel(f.base)
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	if rel == "." {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return abs, nil
}

// List walks dir and returns every regular file below it. Temp files of
// interrupted writes are skipped. A missing dir yields an empty list.
func (f *FS) List(ctx context.Context, dir artifact.Path) ([]artifact.Path, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var rels []string
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) && p == base {
				return fs.SkipAll
			}
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || isTemp(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(f.root, p)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	sort.Strings(rels)
	out := make([]artifact.Path, 0, len(rels))
	for _, rel := range rels {
		out = append(out, artifact.Parse(f.base, rel))
	}
	return out, nil
}

// Read returns the raw bytes of a file.
func (f *FS) Read(ctx context.Context, p artifact.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := f.safePath(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: read %s: %w", p, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}

// Exists reports whether a regular file is stored at p.
func (f *FS) Exists(ctx context.Context, p artifact.Path) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	abs, err := f.safePath(p)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: stat %s: %w", p, err)
	}
	return info.Mode().IsRegular(), nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(ctx context.Context, p artifact.Path, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := f.safePath(p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

func isTemp(name string) bool {
	return strings.HasPrefix(name, ".apiops-tmp-")
}
