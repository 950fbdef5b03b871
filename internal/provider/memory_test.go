package provider

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
)

func collect[N any](t *testing.T, seq iter.Seq2[N, error]) ([]N, error) {
	t.Helper()
	var out []N
	for n, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, n)
	}
	return out, nil
}

func TestMemoryListsSorted(t *testing.T) {
	m := NewMemory()
	for _, n := range []string{"charlie", "alpha", "bravo"} {
		m.PutAPI(&apim.APIData{Name: apim.MustAPIName(n)}, nil)
	}
	m.PutVersionSet(&apim.VersionSetData{Name: apim.MustVersionSetName("v")})

	names, err := collect(t, m.ListAPIs(context.Background()))
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.Equal(t, "alpha", names[0].String())
	assert.Equal(t, "charlie", names[2].String())

	sets, err := collect(t, m.ListVersionSets(context.Background()))
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestMemoryListCancelled(t *testing.T) {
	m := NewMemory()
	m.PutAPI(&apim.APIData{Name: apim.MustAPIName("a")}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collect(t, m.ListAPIs(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.GetAPI(context.Background(), apim.MustAPIName("nope"))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = m.GetVersionSet(context.Background(), apim.MustVersionSetName("nope"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMemorySpecificationKindMustMatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	name := apim.MustAPIName("echo")
	m.PutAPI(&apim.APIData{Name: name}, &Specification{Kind: artifact.SpecificationOpenAPI, Content: []byte("openapi: 3.0.1\n")})

	got, err := m.GetAPISpecification(ctx, name, artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingJSON))
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.1\n", string(got))

	_, err = m.GetAPISpecification(ctx, name, artifact.WSDL)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
