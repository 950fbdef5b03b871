// Package provider is the boundary to the API management service. The
// extractor only sees the Client interface.
package provider

import (
	"context"
	"iter"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/artifact"
)

// Client lists and fetches resources. Implementations must be safe for
// concurrent use. Errors are returned as-is; callers do not retry.
type Client interface {
	// ListAPIs yields API names lazily. A non-nil error ends the sequence.
	ListAPIs(ctx context.Context) iter.Seq2[apim.APIName, error]
	GetAPI(ctx context.Context, name apim.APIName) (*apim.APIData, error)
	// GetAPISpecification exports the definition of an API in format. The
	// content may come back in the other OpenAPI encoding.
	GetAPISpecification(ctx context.Context, name apim.APIName, format artifact.SpecificationFormat) ([]byte, error)

	ListVersionSets(ctx context.Context) iter.Seq2[apim.VersionSetName, error]
	GetVersionSet(ctx context.Context, name apim.VersionSetName) (*apim.VersionSetData, error)
}
