// Package extract materializes the resources of an API management service as
// an artifact tree.
//
// A run extracts version sets, then APIs. Within a kind, resources are
// processed in parallel up to the configured limit; each one goes through
// fetch, encode and write in order. The first failure cancels the rest of the
// run. Files already written are left in place.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
	"github.com/starford/apiops/internal/codec"
	"github.com/starford/apiops/internal/document"
	"github.com/starford/apiops/internal/index"
	"github.com/starford/apiops/internal/provider"
	"github.com/starford/apiops/internal/storage"
)

const (
	kindAPI        = "api"
	kindVersionSet = "version set"
)

// Pipeline extracts one service into a store.
type Pipeline struct {
	client      provider.Client
	store       storage.Provider
	service     artifact.ServiceDirectory
	index       index.ArtifactIndex
	logger      *slog.Logger
	concurrency int
	defaultSpec artifact.SpecificationFormat
	newRunID    func() string
	now         func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithIndex records every written artifact in idx.
func WithIndex(idx index.ArtifactIndex) Option {
	return func(p *Pipeline) { p.index = idx }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithConcurrency bounds how many resources of a kind are processed at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithDefaultSpecification sets the format used for APIs that declare none.
func WithDefaultSpecification(f artifact.SpecificationFormat) Option {
	return func(p *Pipeline) { p.defaultSpec = f }
}

// WithRunID overrides run id generation.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) { p.newRunID = fn }
}

// New creates a pipeline writing below service.
func New(client provider.Client, store storage.Provider, service artifact.ServiceDirectory, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:      client,
		store:       store,
		service:     service,
		logger:      slog.Default(),
		concurrency: 4,
		defaultSpec: artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingYAML),
		newRunID:    uuid.NewString,
		now:         time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run performs one extraction. The report is returned even on failure and
// reflects what was written before the run stopped.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: p.newRunID(), StartedAt: p.now().UTC()}
	logger := p.logger.With(slog.String("run_id", report.RunID))
	logger.Info("extract: started", slog.String("root", p.service.Path().String()), slog.Int("concurrency", p.concurrency))

	if p.index != nil {
		if err := p.index.StartRun(ctx, report.RunID, report.StartedAt); err != nil {
			return report, err
		}
	}

	err := p.run(ctx, report, logger)
	report.FinishedAt = p.now().UTC()

	if p.index != nil {
		// The run row is closed even when ctx was cancelled.
		if ferr := p.index.FinishRun(context.WithoutCancel(ctx), report.RunID, report.FinishedAt, err); ferr != nil {
			logger.Warn("extract: finish run failed", slog.String("error", ferr.Error()))
		}
		if err == nil {
			stale, serr := p.index.Stale(ctx, report.RunID)
			if serr != nil {
				return report, serr
			}
			for _, row := range stale {
				report.Stale = append(report.Stale, row.Path)
			}
		}
	}

	created, updated, unchanged := report.Counts()
	attrs := []any{
		slog.Int("created", created),
		slog.Int("updated", updated),
		slog.Int("unchanged", unchanged),
		slog.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	}
	if err != nil {
		logger.Error("extract: failed", append(attrs, slog.String("error", err.Error()))...)
		return report, err
	}
	logger.Info("extract: finished", append(attrs, slog.Int("stale", len(report.Stale)))...)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, report *Report, logger *slog.Logger) error {
	w := &runWriter{p: p, report: report, logger: logger}
	if err := forEach(ctx, p.concurrency, kindVersionSet, p.client.ListVersionSets, w.versionSet); err != nil {
		return err
	}
	return forEach(ctx, p.concurrency, kindAPI, p.client.ListAPIs, w.api)
}

// forEach lists names of one kind and processes them with at most limit in
// flight. Listing stops at the first failure.
func forEach[N fmt.Stringer](ctx context.Context, limit int, kind string, list func(context.Context) iter.Seq2[N, error], process func(context.Context, N) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for name, err := range list(gctx) {
		if err != nil {
			listErr := &StageError{Kind: kind, Stage: StageList, Err: err}
			g.Go(func() error { return listErr })
			break
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error { return process(gctx, name) })
	}

	err := g.Wait()
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("extract %ss: %w", kind, cerr)
	}
	return err
}

// runWriter holds the per-run state shared by every resource.
type runWriter struct {
	p      *Pipeline
	report *Report
	logger *slog.Logger
}

func (w *runWriter) versionSet(ctx context.Context, name apim.VersionSetName) error {
	fail := func(stage Stage, err error) error {
		return &StageError{Kind: kindVersionSet, Name: name.String(), Stage: stage, Err: err}
	}
	data, err := w.p.client.GetVersionSet(ctx, name)
	if err != nil {
		return fail(StageFetch, err)
	}
	content, err := document.Marshal(codec.EncodeVersionSet(data.ToContent()))
	if err != nil {
		return fail(StageEncode, err)
	}
	file := artifact.VersionSetInformationFileFor(w.p.service, name)
	if stage, err := w.write(ctx, file.Path(), artifact.KindVersionSetInformation, name.String(), content); err != nil {
		return fail(stage, err)
	}
	return nil
}

func (w *runWriter) api(ctx context.Context, name apim.APIName) error {
	fail := func(stage Stage, err error) error {
		return &StageError{Kind: kindAPI, Name: name.String(), Stage: stage, Err: err}
	}
	data, err := w.p.client.GetAPI(ctx, name)
	if err != nil {
		return fail(StageFetch, err)
	}
	content, err := document.Marshal(codec.EncodeAPI(data.ToContent()))
	if err != nil {
		return fail(StageEncode, err)
	}
	file := artifact.APIInformationFileFor(w.p.service, name)
	if stage, err := w.write(ctx, file.Path(), artifact.KindAPIInformation, name.String(), content); err != nil {
		return fail(stage, err)
	}

	format, ok, err := SelectSpecification(data, w.p.defaultSpec)
	if err != nil {
		return fail(StageSelect, err)
	}
	if !ok {
		return nil
	}
	specFile, err := artifact.NewSpecificationFile(format, file.APIDirectory())
	if err != nil {
		return fail(StageSelect, err)
	}
	spec, err := w.p.client.GetAPISpecification(ctx, name, format)
	if err != nil {
		return fail(StageSpecification, err)
	}
	spec, err = normalizeSpecification(format, spec)
	if err != nil {
		return fail(StageEncode, err)
	}
	if stage, err := w.write(ctx, specFile.Path(), artifact.KindSpecification, name.String(), spec); err != nil {
		return fail(stage, err)
	}
	return nil
}

// write stores content at p and classifies the change, through the index when
// one is configured and by comparing with the stored bytes otherwise.
func (w *runWriter) write(ctx context.Context, p artifact.Path, kind artifact.Kind, name string, content []byte) (Stage, error) {
	var change index.Change
	if w.p.index == nil {
		c, err := w.compare(ctx, p, content)
		if err != nil {
			return StageWrite, err
		}
		change = c
	}
	if err := w.p.store.Write(ctx, p, content); err != nil {
		return StageWrite, err
	}
	if w.p.index != nil {
		rel, err := p.Rel(w.p.service.Path())
		if err != nil {
			return StageIndex, err
		}
		change, err = w.p.index.Record(ctx, index.ArtifactRow{
			Path:      rel,
			Kind:      string(kind),
			Name:      name,
			Checksum:  index.Checksum(content),
			RunID:     w.report.RunID,
			UpdatedAt: w.p.now().UTC(),
		})
		if err != nil {
			return StageIndex, err
		}
	}
	w.report.count(change)
	w.logger.Debug("extract: wrote", slog.String("path", p.String()), slog.String("change", string(change)))
	return "", nil
}

func (w *runWriter) compare(ctx context.Context, p artifact.Path, content []byte) (index.Change, error) {
	exists, err := w.p.store.Exists(ctx, p)
	if err != nil {
		return "", err
	}
	if !exists {
		return index.Created, nil
	}
	previous, err := w.p.store.Read(ctx, p)
	if errors.Is(err, apperr.ErrNotFound) {
		return index.Created, nil
	}
	if err != nil {
		return "", err
	}
	if bytes.Equal(previous, content) {
		return index.Unchanged, nil
	}
	return index.Updated, nil
}
