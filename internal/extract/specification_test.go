package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
	"github.com/starford/apiops/internal/document"
)

func TestSelectSpecification(t *testing.T) {
	defaults := artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingYAML)
	cases := []struct {
		name     string
		apiType  *apim.APIType
		format   *apim.ContentFormat
		want     artifact.SpecificationFormat
		wantFile string
		none     bool
	}{
		{name: "soap", apiType: apim.Ptr(apim.APITypeSoap), format: apim.Ptr(apim.ContentFormatOpenAPI), want: artifact.WSDL, wantFile: "specification.wsdl"},
		{name: "graphql", apiType: apim.Ptr(apim.APITypeGraphQL), want: artifact.GraphQL, wantFile: "specification.graphql"},
		{name: "websocket", apiType: apim.Ptr(apim.APITypeWebSocket), none: true},
		{name: "openapi json", format: apim.Ptr(apim.ContentFormatOpenAPIJSON), want: artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingJSON), wantFile: "specification.json"},
		{name: "openapi json link", format: apim.Ptr(apim.ContentFormatOpenAPIJSONLink), want: artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingJSON), wantFile: "specification.json"},
		{name: "openapi yaml", apiType: apim.Ptr(apim.APITypeHTTP), format: apim.Ptr(apim.ContentFormatOpenAPI), want: defaults, wantFile: "specification.yaml"},
		{name: "openapi link", format: apim.Ptr(apim.ContentFormatOpenAPILink), want: defaults, wantFile: "specification.yaml"},
		{name: "swagger", format: apim.Ptr(apim.ContentFormatSwaggerJSON), want: artifact.OpenAPI(artifact.OpenAPIV2, artifact.EncodingJSON), wantFile: "specification.json"},
		{name: "swagger link", format: apim.Ptr(apim.ContentFormatSwaggerLinkJSON), want: artifact.OpenAPI(artifact.OpenAPIV2, artifact.EncodingJSON), wantFile: "specification.json"},
		{name: "wsdl link", format: apim.Ptr(apim.ContentFormatWsdlLink), want: artifact.WSDL, wantFile: "specification.wsdl"},
		{name: "wadl", format: apim.Ptr(apim.ContentFormatWadlXML), want: artifact.WADL, wantFile: "specification.wadl"},
		{name: "wadl link", format: apim.Ptr(apim.ContentFormatWadlLinkJSON), want: artifact.WADL, wantFile: "specification.wadl"},
		{name: "graphql link", format: apim.Ptr(apim.ContentFormatGraphQLLink), want: artifact.GraphQL, wantFile: "specification.graphql"},
		{name: "undeclared", want: defaults, wantFile: "specification.yaml"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &apim.APIData{Name: apim.MustAPIName("a"), APIType: tc.apiType, Format: tc.format}
			got, ok, err := SelectSpecification(api, defaults)
			require.NoError(t, err)
			if tc.none {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
			file, err := artifact.SpecificationFileName(got)
			require.NoError(t, err)
			assert.Equal(t, tc.wantFile, file)
		})
	}
}

func TestSelectSpecificationUnsupported(t *testing.T) {
	api := &apim.APIData{Name: apim.MustAPIName("a"), Format: apim.Ptr(apim.ContentFormat("raml"))}
	_, _, err := SelectSpecification(api, artifact.WADL)
	assert.ErrorIs(t, err, apperr.ErrUnsupportedFormat)

	api = &apim.APIData{Name: apim.MustAPIName("a")}
	_, _, err = SelectSpecification(api, artifact.SpecificationFormat{Kind: "raml"})
	assert.ErrorIs(t, err, apperr.ErrUnsupportedFormat)
}

func TestNormalizeSpecification(t *testing.T) {
	jsonSpec := []byte(`{"openapi": "3.0.1", "info": {"title": "Echo", "version": "1"}}`)
	yamlSpec := []byte("openapi: 3.0.1\ninfo:\n  title: Echo\n  version: \"1\"\n")

	toYAML, err := normalizeSpecification(artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingYAML), jsonSpec)
	require.NoError(t, err)
	assert.Equal(t, string(yamlSpec), string(toYAML))

	toJSON, err := normalizeSpecification(artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingJSON), yamlSpec)
	require.NoError(t, err)
	obj, err := document.Parse(toJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"openapi", "info"}, obj.Keys())

	same, err := normalizeSpecification(artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingJSON), jsonSpec)
	require.NoError(t, err)
	assert.Equal(t, jsonSpec, same)

	wsdl := []byte("<definitions/>")
	out, err := normalizeSpecification(artifact.WSDL, wsdl)
	require.NoError(t, err)
	assert.Equal(t, wsdl, out)
}

func TestNormalizeSpecificationKeepsNumbers(t *testing.T) {
	jsonSpec := []byte(`{"x": {"maximum": 9007199254740993, "big": 12345678901234567890, "huge": 123456789012345678901234567890, "ratio": 1.50, "exp": 1e5, "neg": -7}}`)

	toYAML, err := normalizeSpecification(artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingYAML), jsonSpec)
	require.NoError(t, err)
	assert.Equal(t, "x:\n  maximum: 9007199254740993\n  big: 12345678901234567890\n  huge: 123456789012345678901234567890\n  ratio: 1.50\n  exp: 1e5\n  neg: -7\n", string(toYAML))

	back, err := normalizeSpecification(artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingJSON), toYAML)
	require.NoError(t, err)
	assert.JSONEq(t, string(jsonSpec), string(back))
	assert.Contains(t, string(back), `"maximum": 9007199254740993`)
	assert.Contains(t, string(back), `"huge": 123456789012345678901234567890`)
}
