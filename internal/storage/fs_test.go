package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
)

func tempTree(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func at(s Provider, segments ...string) artifact.Path {
	p := s.Root()
	for _, seg := range segments {
		p = p.Append(seg)
	}
	return p
}

func TestWriteAndRead(t *testing.T) {
	ctx := context.Background()
	s := tempTree(t)
	content := []byte("{\n  \"displayName\": \"Echo\"\n}\n")
	p := at(s, "apiInformation.json")
	if err := s.Write(ctx, p, content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read(ctx, p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	ctx := context.Background()
	s := tempTree(t)
	p := at(s, "apis", "echo api", "apiInformation.json")
	if err := s.Write(ctx, p, []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.root, "apis", "echo api", "apiInformation.json")); err != nil {
		t.Fatalf("file not on disk: %v", err)
	}
	got, err := s.Read(ctx, p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestReadMissing(t *testing.T) {
	s := tempTree(t)
	_, err := s.Read(context.Background(), at(s, "missing.json"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	s := tempTree(t)
	p := at(s, "apis", "a", "apiInformation.json")
	ok, err := s.Exists(ctx, p)
	if err != nil || ok {
		t.Fatalf("Exists before write = %v, %v", ok, err)
	}
	_ = s.Write(ctx, p, []byte("{}"))
	ok, err = s.Exists(ctx, p)
	if err != nil || !ok {
		t.Fatalf("Exists after write = %v, %v", ok, err)
	}
	ok, _ = s.Exists(ctx, at(s, "apis", "a"))
	if ok {
		t.Error("a directory is not a stored file")
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := tempTree(t)
	_ = s.Write(ctx, at(s, "apis", "b", "apiInformation.json"), []byte("b"))
	_ = s.Write(ctx, at(s, "apis", "a", "apiInformation.json"), []byte("a"))
	_ = s.Write(ctx, at(s, "apis", "a", "specification.yaml"), []byte("a"))
	_ = s.Write(ctx, at(s, "version sets", "v", "versionSetInformation.json"), []byte("v"))

	items, err := s.List(ctx, at(s, "apis"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []artifact.Path{
		at(s, "apis", "a", "apiInformation.json"),
		at(s, "apis", "a", "specification.yaml"),
		at(s, "apis", "b", "apiInformation.json"),
	}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if !items[i].Equal(want[i]) {
			t.Errorf("items[%d] = %s, want %s", i, items[i], want[i])
		}
	}
}

func TestListMissingDir(t *testing.T) {
	s := tempTree(t)
	items, err := s.List(context.Background(), at(s, "apis"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}

func TestTraversalBlocked(t *testing.T) {
	ctx := context.Background()
	s := tempTree(t)

	cases := []artifact.Path{
		at(s, "..", "..", "etc", "passwd"),
		at(s, "..", "outside.json"),
		artifact.NewPath("/etc").Append("shadow"),
	}
	for _, p := range cases {
		if _, err := s.Read(ctx, p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(ctx, p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	ctx := context.Background()
	s := tempTree(t)
	p := at(s, "atomic.json")
	_ = s.Write(ctx, p, []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write(ctx, p, updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read(ctx, p)
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, tmpPattern))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestWriteCancelled(t *testing.T) {
	s := tempTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Write(ctx, at(s, "late.json"), []byte("x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "apiops-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
