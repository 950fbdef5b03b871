package provider

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
)

// Specification is the exported definition stored next to an API.
type Specification struct {
	Kind    artifact.SpecificationKind
	Content []byte
}

// Memory is a Client over resources held in memory.
type Memory struct {
	mu          sync.RWMutex
	apis        map[string]*apim.APIData
	specs       map[string]Specification
	versionSets map[string]*apim.VersionSetData
}

var _ Client = (*Memory)(nil)

// NewMemory returns an empty client.
func NewMemory() *Memory {
	return &Memory{
		apis:        make(map[string]*apim.APIData),
		specs:       make(map[string]Specification),
		versionSets: make(map[string]*apim.VersionSetData),
	}
}

// PutAPI stores api, replacing any API of the same name. spec is optional.
func (m *Memory) PutAPI(api *apim.APIData, spec *Specification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := api.Name.String()
	m.apis[key] = api
	if spec != nil {
		m.specs[key] = *spec
	} else {
		delete(m.specs, key)
	}
}

// PutVersionSet stores vs, replacing any version set of the same name.
func (m *Memory) PutVersionSet(vs *apim.VersionSetData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versionSets[vs.Name.String()] = vs
}

// Len returns the number of APIs and version sets held.
func (m *Memory) Len() (apis, versionSets int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.apis), len(m.versionSets)
}

// ListAPIs yields API names in sorted order.
func (m *Memory) ListAPIs(ctx context.Context) iter.Seq2[apim.APIName, error] {
	m.mu.RLock()
	names := make([]apim.APIName, 0, len(m.apis))
	for _, api := range m.apis {
		names = append(names, api.Name)
	}
	m.mu.RUnlock()
	slices.SortFunc(names, func(a, b apim.APIName) int { return strings.Compare(a.String(), b.String()) })
	return yieldAll(ctx, names)
}

func (m *Memory) GetAPI(ctx context.Context, name apim.APIName) (*apim.APIData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	api, ok := m.apis[name.String()]
	if !ok {
		return nil, fmt.Errorf("provider: api %q: %w", name, apperr.ErrNotFound)
	}
	return api, nil
}

// GetAPISpecification returns the stored content when its kind matches format.
func (m *Memory) GetAPISpecification(ctx context.Context, name apim.APIName, format artifact.SpecificationFormat) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, ok := m.specs[name.String()]
	if !ok || spec.Kind != format.Kind {
		return nil, fmt.Errorf("provider: %s specification of api %q: %w", format, name, apperr.ErrNotFound)
	}
	return slices.Clone(spec.Content), nil
}

// ListVersionSets yields version set names in sorted order.
func (m *Memory) ListVersionSets(ctx context.Context) iter.Seq2[apim.VersionSetName, error] {
	m.mu.RLock()
	names := make([]apim.VersionSetName, 0, len(m.versionSets))
	for _, vs := range m.versionSets {
		names = append(names, vs.Name)
	}
	m.mu.RUnlock()
	slices.SortFunc(names, func(a, b apim.VersionSetName) int { return strings.Compare(a.String(), b.String()) })
	return yieldAll(ctx, names)
}

func (m *Memory) GetVersionSet(ctx context.Context, name apim.VersionSetName) (*apim.VersionSetData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	vs, ok := m.versionSets[name.String()]
	if !ok {
		return nil, fmt.Errorf("provider: version set %q: %w", name, apperr.ErrNotFound)
	}
	return vs, nil
}

// yieldAll yields names until the consumer stops or ctx is cancelled.
func yieldAll[N any](ctx context.Context, names []N) iter.Seq2[N, error] {
	return func(yield func(N, error) bool) {
		for _, n := range names {
			if err := ctx.Err(); err != nil {
				var zero N
				yield(zero, err)
				return
			}
			if !yield(n, nil) {
				return
			}
		}
	}
}
