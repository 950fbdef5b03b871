package codec

import (
	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/document"
)

// EncodeVersionSet writes the content of versionSetInformation.json.
func EncodeVersionSet(c *apim.VersionSetContent) *document.Object {
	obj := document.New().
		PutString("displayName", c.DisplayName).
		PutString("description", c.Description)
	document.PutText(obj, "versioningScheme", c.VersioningScheme)
	return obj.
		PutString("versionQueryName", c.VersionQueryName).
		PutString("versionHeaderName", c.VersionHeaderName)
}

// DecodeVersionSet reads the content of versionSetInformation.json.
func DecodeVersionSet(obj *document.Object, opts ...DecodeOption) (*apim.VersionSetContent, error) {
	r := newReader(obj, opts)
	c := &apim.VersionSetContent{
		DisplayName:       r.String("displayName"),
		Description:       r.String("description"),
		VersioningScheme:  document.ParseField(r, "versioningScheme", apim.ParseVersioningScheme),
		VersionQueryName:  r.String("versionQueryName"),
		VersionHeaderName: r.String("versionHeaderName"),
	}
	if err := r.Close(); err != nil {
		return nil, err
	}
	return c, nil
}
