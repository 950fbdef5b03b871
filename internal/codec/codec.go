// Package codec maps API management resources to and from documents.
//
// Encoders omit every absent field. Decoders treat a missing key as absent and
// fail on a present key of the wrong shape, naming the field. Unknown keys are
// ignored unless DisallowUnknownFields is given.
package codec

import (
	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/document"
)

// Codec is the encode/decode pair of one resource kind.
type Codec[T any] interface {
	Encode(v *T) *document.Object
	Decode(obj *document.Object, opts ...DecodeOption) (*T, error)
}

type decodeOptions struct {
	strict bool
}

// DecodeOption tunes decoding.
type DecodeOption func(*decodeOptions)

// DisallowUnknownFields makes keys without a matching field a decode error.
func DisallowUnknownFields() DecodeOption {
	return func(o *decodeOptions) { o.strict = true }
}

// WithStrict sets unknown-key handling from a flag.
func WithStrict(strict bool) DecodeOption {
	return func(o *decodeOptions) { o.strict = strict }
}

func newReader(obj *document.Object, opts []DecodeOption) *document.Reader {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return document.NewReader(obj, o.strict)
}

type apiCodec struct{}

func (apiCodec) Encode(v *apim.APIContent) *document.Object { return EncodeAPI(v) }
func (apiCodec) Decode(obj *document.Object, opts ...DecodeOption) (*apim.APIContent, error) {
	return DecodeAPI(obj, opts...)
}

type versionSetCodec struct{}

func (versionSetCodec) Encode(v *apim.VersionSetContent) *document.Object { return EncodeVersionSet(v) }
func (versionSetCodec) Decode(obj *document.Object, opts ...DecodeOption) (*apim.VersionSetContent, error) {
	return DecodeVersionSet(obj, opts...)
}

var (
	// API encodes apiInformation.json documents.
	API Codec[apim.APIContent] = apiCodec{}
	// VersionSet encodes versionSetInformation.json documents.
	VersionSet Codec[apim.VersionSetContent] = versionSetCodec{}
)

// resourceID decodes a resource identifier from its string form.
func resourceID(s string) (apim.ResourceID, error) { return apim.ParseResourceID(s) }
