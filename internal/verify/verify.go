// Package verify re-reads an artifact tree and checks that every information
// file decodes and is written in canonical form, so a later run would not
// rewrite it.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/apiops/internal/artifact"
	"github.com/starford/apiops/internal/codec"
	"github.com/starford/apiops/internal/document"
	"github.com/starford/apiops/internal/storage"
)

// Problem classifies an issue.
type Problem string

const (
	ProblemRead         Problem = "read"
	ProblemParse        Problem = "parse"
	ProblemDecode       Problem = "decode"
	ProblemNonCanonical Problem = "non-canonical"
	ProblemEmpty        Problem = "empty"
)

// Issue is one file that failed verification.
type Issue struct {
	Path    string // relative to the service directory
	Kind    artifact.Kind
	Problem Problem
	Detail  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Path, i.Problem, i.Detail)
}

// Result is the outcome of one pass over the tree.
type Result struct {
	Checked int
	Issues  []Issue
}

// OK reports whether no issue was found.
func (r *Result) OK() bool { return len(r.Issues) == 0 }

// Options tunes a verification pass.
type Options struct {
	// Strict rejects keys the codecs do not know.
	Strict      bool
	Concurrency int
	Logger      *slog.Logger
}

// Tree verifies every artifact below service. Files the extractor does not
// write are skipped. The error is only set when the tree cannot be read at all.
func Tree(ctx context.Context, store storage.Provider, service artifact.ServiceDirectory, opts Options) (*Result, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	paths, err := store.List(ctx, service.Path())
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	var (
		mu  sync.Mutex
		res Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, p := range paths {
		kind, _, ok := artifact.Classify(service, p)
		if !ok {
			continue
		}
		rel, _ := p.Rel(service.Path())
		g.Go(func() error {
			issue, err := checkFile(gctx, store, p, kind, opts.Strict)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			res.Checked++
			if issue != nil {
				issue.Path = rel
				issue.Kind = kind
				res.Issues = append(res.Issues, *issue)
				opts.Logger.Warn("verify: issue", slog.String("path", rel), slog.String("problem", string(issue.Problem)), slog.String("detail", issue.Detail))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	slices.SortFunc(res.Issues, func(a, b Issue) int { return strings.Compare(a.Path, b.Path) })
	return &res, nil
}

// checkFile returns an issue for a bad file. Only cancellation is an error.
func checkFile(ctx context.Context, store storage.Provider, p artifact.Path, kind artifact.Kind, strict bool) (*Issue, error) {
	data, err := store.Read(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &Issue{Problem: ProblemRead, Detail: err.Error()}, nil
	}
	switch kind {
	case artifact.KindAPIInformation:
		return checkInformation(data, strict, func(obj *document.Object, opts ...codec.DecodeOption) (*document.Object, error) {
			c, err := codec.DecodeAPI(obj, opts...)
			if err != nil {
				return nil, err
			}
			return codec.EncodeAPI(c), nil
		}), nil
	case artifact.KindVersionSetInformation:
		return checkInformation(data, strict, func(obj *document.Object, opts ...codec.DecodeOption) (*document.Object, error) {
			c, err := codec.DecodeVersionSet(obj, opts...)
			if err != nil {
				return nil, err
			}
			return codec.EncodeVersionSet(c), nil
		}), nil
	case artifact.KindSpecification:
		return checkSpecification(p.Name(), data), nil
	}
	return nil, nil
}

type roundTrip func(obj *document.Object, opts ...codec.DecodeOption) (*document.Object, error)

func checkInformation(data []byte, strict bool, rt roundTrip) *Issue {
	obj, err := document.Parse(data)
	if err != nil {
		return &Issue{Problem: ProblemParse, Detail: err.Error()}
	}
	encoded, err := rt(obj, codec.WithStrict(strict))
	if err != nil {
		return &Issue{Problem: ProblemDecode, Detail: err.Error()}
	}
	canonical, err := document.Marshal(encoded)
	if err != nil {
		return &Issue{Problem: ProblemDecode, Detail: err.Error()}
	}
	if !bytes.Equal(canonical, data) {
		return &Issue{Problem: ProblemNonCanonical, Detail: "file differs from its canonical encoding"}
	}
	return nil
}

func checkSpecification(name string, data []byte) *Issue {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Issue{Problem: ProblemEmpty, Detail: "specification is empty"}
	}
	var err error
	switch path.Ext(name) {
	case ".json":
		_, err = document.Parse(data)
	case ".yaml":
		_, err = document.FromYAML(data)
	}
	if err != nil {
		return &Issue{Problem: ProblemParse, Detail: err.Error()}
	}
	return nil
}
