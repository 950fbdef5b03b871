package artifact

import (
	"fmt"
	"strings"

	"github.com/starford/apiops/internal/apperr"
)

// SpecificationKind is the family of an API specification.
type SpecificationKind string

const (
	SpecificationOpenAPI SpecificationKind = "openapi"
	SpecificationGraphQL SpecificationKind = "graphql"
	SpecificationWSDL    SpecificationKind = "wsdl"
	SpecificationWADL    SpecificationKind = "wadl"
)

// OpenAPIEncoding is how an OpenAPI document is serialized.
type OpenAPIEncoding string

const (
	EncodingJSON OpenAPIEncoding = "json"
	EncodingYAML OpenAPIEncoding = "yaml"
)

// OpenAPIVersion is the OpenAPI major version requested from the provider.
type OpenAPIVersion string

const (
	OpenAPIV2 OpenAPIVersion = "v2"
	OpenAPIV3 OpenAPIVersion = "v3"
)

// SpecificationFormat describes one companion specification file. Encoding and
// Version only apply to OpenAPI.
type SpecificationFormat struct {
	Kind     SpecificationKind
	Encoding OpenAPIEncoding
	Version  OpenAPIVersion
}

// OpenAPI returns an OpenAPI format.
func OpenAPI(version OpenAPIVersion, encoding OpenAPIEncoding) SpecificationFormat {
	return SpecificationFormat{Kind: SpecificationOpenAPI, Encoding: encoding, Version: version}
}

var (
	GraphQL = SpecificationFormat{Kind: SpecificationGraphQL}
	WSDL    = SpecificationFormat{Kind: SpecificationWSDL}
	WADL    = SpecificationFormat{Kind: SpecificationWADL}
)

func (f SpecificationFormat) String() string {
	if f.Kind == SpecificationOpenAPI {
		return fmt.Sprintf("openapi-%s+%s", f.Version, f.Encoding)
	}
	return string(f.Kind)
}

// ParseOpenAPIFormat reads the configured default OpenAPI format, e.g. ("v3", "yaml").
func ParseOpenAPIFormat(version, encoding string) (SpecificationFormat, error) {
	f := OpenAPI(OpenAPIVersion(strings.ToLower(version)), OpenAPIEncoding(strings.ToLower(encoding)))
	if f.Version != OpenAPIV2 && f.Version != OpenAPIV3 {
		return SpecificationFormat{}, fmt.Errorf("%w: openapi version %q", apperr.ErrUnsupportedFormat, version)
	}
	if _, err := SpecificationFileName(f); err != nil {
		return SpecificationFormat{}, err
	}
	return f, nil
}

// SpecificationFileName maps a format to its file name.
func SpecificationFileName(f SpecificationFormat) (string, error) {
	switch {
	case f.Kind == SpecificationOpenAPI && f.Encoding == EncodingJSON:
		return "specification.json", nil
	case f.Kind == SpecificationOpenAPI && f.Encoding == EncodingYAML:
		return "specification.yaml", nil
	case f.Kind == SpecificationGraphQL:
		return "specification.graphql", nil
	case f.Kind == SpecificationWSDL:
		return "specification.wsdl", nil
	case f.Kind == SpecificationWADL:
		return "specification.wadl", nil
	}
	return "", fmt.Errorf("%w: %s", apperr.ErrUnsupportedFormat, f)
}

// SpecificationFile is the companion specification of one API.
type SpecificationFile struct {
	path   Path
	format SpecificationFormat
	dir    APIDirectory
}

// NewSpecificationFile fails with apperr.ErrUnsupportedFormat when format has no file name.
func NewSpecificationFile(format SpecificationFormat, dir APIDirectory) (SpecificationFile, error) {
	name, err := SpecificationFileName(format)
	if err != nil {
		return SpecificationFile{}, err
	}
	return SpecificationFile{path: dir.Path().Append(name), format: format, dir: dir}, nil
}

func (f SpecificationFile) Path() Path                  { return f.path }
func (f SpecificationFile) Format() SpecificationFormat { return f.format }
func (f SpecificationFile) APIDirectory() APIDirectory  { return f.dir }

// ParseSpecificationKind matches value against the known kinds, ignoring case.
func ParseSpecificationKind(value string) (SpecificationKind, error) {
	for _, k := range []SpecificationKind{SpecificationOpenAPI, SpecificationGraphQL, SpecificationWSDL, SpecificationWADL} {
		if strings.EqualFold(string(k), value) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnsupportedFormat, value)
}
