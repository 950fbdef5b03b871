// Package artifact addresses files and directories of the extracted artifact tree.
//
// Every descriptor computes its path from its parent plus one segment. Nothing in
// this package touches the file system.
package artifact

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Path is an immutable sequence of path segments. The first segment is the root
// the tree was created from.
type Path struct {
	segments []string
}

// NewPath returns a path rooted at root. An empty root means the current directory.
func NewPath(root string) Path {
	root = filepath.Clean(root)
	return Path{segments: []string{root}}
}

// Append returns a new path with segment added. The segment is not validated.
func (p Path) Append(segment string) Path {
	out := make([]string, len(p.segments), len(p.segments)+1)
	copy(out, p.segments)
	return Path{segments: append(out, segment)}
}

// Segments returns a copy of the segments.
func (p Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Name returns the last segment.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Equal reports whether both paths hold the same segments.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// IsZero reports whether p was never constructed from a root.
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}

// String joins the segments with the OS separator.
func (p Path) String() string {
	return filepath.Join(p.segments...)
}

// Rel returns p relative to base as a slash-separated path.
func (p Path) Rel(base Path) (string, error) {
	if len(p.segments) < len(base.segments) || !slices.Equal(p.segments[:len(base.segments)], base.segments) {
		return "", fmt.Errorf("artifact: %s is not under %s", p, base)
	}
	rest := p.segments[len(base.segments):]
	if len(rest) == 0 {
		return ".", nil
	}
	return path.Join(rest...), nil
}

// Under reports whether p equals base or lies below it.
func (p Path) Under(base Path) bool {
	_, err := p.Rel(base)
	return err == nil
}

// Parse rebuilds a path from base and a slash-separated relative path.
func Parse(base Path, rel string) Path {
	out := base
	for _, seg := range strings.Split(path.Clean(rel), "/") {
		if seg == "" || seg == "." {
			continue
		}
		out = out.Append(seg)
	}
	return out
}
