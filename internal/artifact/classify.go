package artifact

import "strings"

// Kind names the role of a file in the artifact tree.
type Kind string

const (
	KindAPIInformation        Kind = "api_information"
	KindSpecification         Kind = "specification"
	KindVersionSetInformation Kind = "version_set_information"
)

var specificationFileNames = map[string]struct{}{
	"specification.json":    {},
	"specification.yaml":    {},
	"specification.graphql": {},
	"specification.wsdl":    {},
	"specification.wadl":    {},
}

// Classify recognizes p as one of the files the extractor writes below service.
// name is the owning resource name.
func Classify(service ServiceDirectory, p Path) (kind Kind, name string, ok bool) {
	rel, err := p.Rel(service.Path())
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(rel, "/")
	if len(parts) != 3 {
		return "", "", false
	}
	dir, name, file := parts[0], parts[1], parts[2]
	switch {
	case dir == APIsDirectoryName && file == APIInformationFileName:
		return KindAPIInformation, name, true
	case dir == APIsDirectoryName:
		if _, spec := specificationFileNames[file]; spec {
			return KindSpecification, name, true
		}
	case dir == VersionSetsDirectoryName && file == VersionSetInformationFileName:
		return KindVersionSetInformation, name, true
	}
	return "", "", false
}
