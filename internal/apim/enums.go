package apim

import (
	"fmt"
	"strings"
)

// closedSet is the full list of canonical values of one enum. Lookups ignore case.
type closedSet[T ~string] []T

func (s closedSet[T]) parse(kind, value string) (T, error) {
	for _, candidate := range s {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%q is not a valid %s", value, kind)
}

func (s closedSet[T]) contains(value T) bool {
	for _, candidate := range s {
		if candidate == value {
			return true
		}
	}
	return false
}

// APIType is the kind of API.
type APIType string

const (
	APITypeHTTP      APIType = "http"
	APITypeSoap      APIType = "soap"
	APITypeWebSocket APIType = "websocket"
	APITypeGraphQL   APIType = "graphql"
)

var apiTypes = closedSet[APIType]{APITypeHTTP, APITypeSoap, APITypeWebSocket, APITypeGraphQL}

// ParseAPIType matches value against the known API types, ignoring case.
func ParseAPIType(value string) (APIType, error) { return apiTypes.parse("api type", value) }

// Valid reports whether t is one of the known API types.
func (t APIType) Valid() bool { return apiTypes.contains(t) }

// SoapAPIType selects how an imported API is exposed. It is written under the
// "apiType" key of the document.
type SoapAPIType string

const (
	SoapAPITypeSoapToRest      SoapAPIType = "http"
	SoapAPITypeSoapPassThrough SoapAPIType = "soap"
	SoapAPITypeWebSocket       SoapAPIType = "websocket"
	SoapAPITypeGraphQL         SoapAPIType = "graphql"
)

var soapAPITypes = closedSet[SoapAPIType]{
	SoapAPITypeSoapToRest, SoapAPITypeSoapPassThrough, SoapAPITypeWebSocket, SoapAPITypeGraphQL,
}

// ParseSoapAPIType matches value against the known SOAP API types, ignoring case.
func ParseSoapAPIType(value string) (SoapAPIType, error) {
	return soapAPITypes.parse("soap api type", value)
}

// Valid reports whether t is one of the known SOAP API types.
func (t SoapAPIType) Valid() bool { return soapAPITypes.contains(t) }

// VersioningScheme tells where a version set carries the API version.
type VersioningScheme string

const (
	VersioningSchemeSegment VersioningScheme = "Segment"
	VersioningSchemeQuery   VersioningScheme = "Query"
	VersioningSchemeHeader  VersioningScheme = "Header"
)

var versioningSchemes = closedSet[VersioningScheme]{
	VersioningSchemeSegment, VersioningSchemeQuery, VersioningSchemeHeader,
}

// ParseVersioningScheme matches value against the known schemes, ignoring case.
func ParseVersioningScheme(value string) (VersioningScheme, error) {
	return versioningSchemes.parse("versioning scheme", value)
}

// Valid reports whether s is one of the known schemes.
func (s VersioningScheme) Valid() bool { return versioningSchemes.contains(s) }

// ContentFormat is the declared format of an API definition.
type ContentFormat string

const (
	ContentFormatWadlXML         ContentFormat = "wadl-xml"
	ContentFormatWadlLinkJSON    ContentFormat = "wadl-link-json"
	ContentFormatSwaggerJSON     ContentFormat = "swagger-json"
	ContentFormatSwaggerLinkJSON ContentFormat = "swagger-link-json"
	ContentFormatWsdl            ContentFormat = "wsdl"
	ContentFormatWsdlLink        ContentFormat = "wsdl-link"
	ContentFormatOpenAPI         ContentFormat = "openapi"
	ContentFormatOpenAPIJSON     ContentFormat = "openapi+json"
	ContentFormatOpenAPILink     ContentFormat = "openapi-link"
	ContentFormatOpenAPIJSONLink ContentFormat = "openapi+json-link"
	ContentFormatGraphQLLink     ContentFormat = "graphql-link"
)

var contentFormats = closedSet[ContentFormat]{
	ContentFormatWadlXML, ContentFormatWadlLinkJSON,
	ContentFormatSwaggerJSON, ContentFormatSwaggerLinkJSON,
	ContentFormatWsdl, ContentFormatWsdlLink,
	ContentFormatOpenAPI, ContentFormatOpenAPIJSON, ContentFormatOpenAPILink, ContentFormatOpenAPIJSONLink,
	ContentFormatGraphQLLink,
}

// ParseContentFormat matches value against the known content formats, ignoring case.
func ParseContentFormat(value string) (ContentFormat, error) {
	return contentFormats.parse("content format", value)
}

// Valid reports whether f is one of the known content formats.
func (f ContentFormat) Valid() bool { return contentFormats.contains(f) }

// Protocol is a protocol an API can be invoked over.
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
	ProtocolWS    Protocol = "ws"
	ProtocolWSS   Protocol = "wss"
)

var protocols = closedSet[Protocol]{ProtocolHTTP, ProtocolHTTPS, ProtocolWS, ProtocolWSS}

// ParseProtocol matches value against the known protocols, ignoring case.
func ParseProtocol(value string) (Protocol, error) { return protocols.parse("protocol", value) }

// Valid reports whether p is one of the known protocols.
func (p Protocol) Valid() bool { return protocols.contains(p) }

// BearerTokenSendingMethod is how an OpenID bearer token reaches the backend.
// The provider treats this set as open, so any string is accepted.
type BearerTokenSendingMethod string

const (
	BearerTokenSendingMethodAuthorizationHeader BearerTokenSendingMethod = "authorizationHeader"
	BearerTokenSendingMethodQuery               BearerTokenSendingMethod = "query"
)
