package extract

import (
	"bytes"
	"fmt"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/apperr"
	"github.com/starford/apiops/internal/artifact"
	"github.com/starford/apiops/internal/document"
)

// SelectSpecification decides which specification file accompanies api. ok is
// false when the API has none (websocket APIs). defaults applies to APIs
// without a declared format.
func SelectSpecification(api *apim.APIData, defaults artifact.SpecificationFormat) (format artifact.SpecificationFormat, ok bool, err error) {
	if api.APIType != nil {
		switch *api.APIType {
		case apim.APITypeSoap:
			return artifact.WSDL, true, nil
		case apim.APITypeGraphQL:
			return artifact.GraphQL, true, nil
		case apim.APITypeWebSocket:
			return artifact.SpecificationFormat{}, false, nil
		}
	}
	if api.Format == nil {
		if _, err := artifact.SpecificationFileName(defaults); err != nil {
			return artifact.SpecificationFormat{}, false, err
		}
		return defaults, true, nil
	}
	switch *api.Format {
	case apim.ContentFormatWadlXML, apim.ContentFormatWadlLinkJSON:
		return artifact.WADL, true, nil
	case apim.ContentFormatWsdl, apim.ContentFormatWsdlLink:
		return artifact.WSDL, true, nil
	case apim.ContentFormatGraphQLLink:
		return artifact.GraphQL, true, nil
	case apim.ContentFormatOpenAPI, apim.ContentFormatOpenAPILink:
		return artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingYAML), true, nil
	case apim.ContentFormatOpenAPIJSON, apim.ContentFormatOpenAPIJSONLink:
		return artifact.OpenAPI(artifact.OpenAPIV3, artifact.EncodingJSON), true, nil
	case apim.ContentFormatSwaggerJSON, apim.ContentFormatSwaggerLinkJSON:
		return artifact.OpenAPI(artifact.OpenAPIV2, artifact.EncodingJSON), true, nil
	}
	return artifact.SpecificationFormat{}, false, fmt.Errorf("%w: content format %q", apperr.ErrUnsupportedFormat, *api.Format)
}

// normalizeSpecification converts OpenAPI content exported in the other
// encoding. Other kinds pass through untouched.
func normalizeSpecification(format artifact.SpecificationFormat, content []byte) ([]byte, error) {
	if format.Kind != artifact.SpecificationOpenAPI {
		return content, nil
	}
	isJSON := bytes.HasPrefix(bytes.TrimSpace(content), []byte("{"))
	switch {
	case format.Encoding == artifact.EncodingJSON && !isJSON:
		obj, err := document.FromYAML(content)
		if err != nil {
			return nil, err
		}
		return document.Marshal(obj)
	case format.Encoding == artifact.EncodingYAML && isJSON:
		obj, err := document.Parse(content)
		if err != nil {
			return nil, err
		}
		return document.ToYAML(obj)
	}
	return content, nil
}
