package artifact

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/apperr"
)

func TestPathAppendIsImmutable(t *testing.T) {
	base := NewPath("out")
	a := base.Append("a")
	b := base.Append("b")
	if a.String() != filepath.Join("out", "a") || b.String() != filepath.Join("out", "b") {
		t.Fatalf("unexpected paths %s %s", a, b)
	}
	if len(base.Segments()) != 1 {
		t.Fatalf("base changed: %v", base.Segments())
	}
	if !a.Equal(NewPath("out").Append("a")) {
		t.Fatal("same segments should be equal")
	}
	if a.Name() != "a" {
		t.Fatalf("Name = %q", a.Name())
	}
	var zero Path
	if !zero.IsZero() || a.IsZero() {
		t.Fatal("IsZero mismatch")
	}
}

func TestPathRelAndParse(t *testing.T) {
	base := NewPath("out")
	p := base.Append("version sets").Append("v1").Append(VersionSetInformationFileName)

	rel, err := p.Rel(base)
	if err != nil {
		t.Fatalf("Rel: %v", err)
	}
	if rel != "version sets/v1/versionSetInformation.json" {
		t.Fatalf("rel = %q", rel)
	}
	if !Parse(base, rel).Equal(p) {
		t.Fatalf("Parse(%q) does not rebuild the path", rel)
	}
	if r, _ := base.Rel(base); r != "." {
		t.Fatalf("self rel = %q", r)
	}
	if _, err := NewPath("other").Append("x").Rel(base); err == nil {
		t.Fatal("expected error for path outside base")
	}
	if !p.Under(base) || base.Under(p) {
		t.Fatal("Under mismatch")
	}
}

func TestDescriptorsAreDeterministic(t *testing.T) {
	service := NewServiceDirectory("out")
	name := apim.MustAPIName("echo")

	first := APIInformationFileFor(service, name)
	second := APIInformationFileFor(service, name)
	if !first.Path().Equal(second.Path()) {
		t.Fatal("same inputs should give the same path")
	}
	want := filepath.Join("out", "apis", "echo", "apiInformation.json")
	if first.Path().String() != want {
		t.Fatalf("path = %s, want %s", first.Path(), want)
	}
	if first.APIName() != name || first.APIDirectory().APIsDirectory().ServiceDirectory().Path().String() != "out" {
		t.Fatal("parent chain not kept")
	}

	vs := VersionSetInformationFileFor(service, apim.MustVersionSetName("set"))
	if vs.Path().String() != filepath.Join("out", "version sets", "set", "versionSetInformation.json") {
		t.Fatalf("version set path = %s", vs.Path())
	}
}

func TestSpecificationFileNames(t *testing.T) {
	cases := []struct {
		format SpecificationFormat
		want   string
	}{
		{OpenAPI(OpenAPIV3, EncodingJSON), "specification.json"},
		{OpenAPI(OpenAPIV2, EncodingYAML), "specification.yaml"},
		{GraphQL, "specification.graphql"},
		{WSDL, "specification.wsdl"},
		{WADL, "specification.wadl"},
	}
	dir := NewAPIDirectory(apim.MustAPIName("echo"), NewAPIsDirectory(NewServiceDirectory("out")))
	for _, tc := range cases {
		f, err := NewSpecificationFile(tc.format, dir)
		if err != nil {
			t.Fatalf("%s: %v", tc.format, err)
		}
		if f.Path().Name() != tc.want {
			t.Errorf("%s: name = %s, want %s", tc.format, f.Path().Name(), tc.want)
		}
		if f.Format() != tc.format {
			t.Errorf("%s: format not kept", tc.format)
		}
	}

	_, err := NewSpecificationFile(OpenAPI(OpenAPIV3, "toml"), dir)
	if !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseOpenAPIFormat(t *testing.T) {
	f, err := ParseOpenAPIFormat("V2", "JSON")
	if err != nil {
		t.Fatalf("ParseOpenAPIFormat: %v", err)
	}
	if f != OpenAPI(OpenAPIV2, EncodingJSON) {
		t.Fatalf("format = %s", f)
	}
	if _, err := ParseOpenAPIFormat("v4", "yaml"); !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ParseOpenAPIFormat("v3", "xml"); !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseSpecificationKind(t *testing.T) {
	if k, err := ParseSpecificationKind("WSDL"); err != nil || k != SpecificationWSDL {
		t.Fatalf("got %q, %v", k, err)
	}
	if _, err := ParseSpecificationKind("raml"); !errors.Is(err, apperr.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	service := NewServiceDirectory("out")
	cases := []struct {
		rel  string
		kind Kind
		name string
		ok   bool
	}{
		{"apis/echo/apiInformation.json", KindAPIInformation, "echo", true},
		{"apis/echo/specification.yaml", KindSpecification, "echo", true},
		{"apis/echo/specification.graphql", KindSpecification, "echo", true},
		{"version sets/v1/versionSetInformation.json", KindVersionSetInformation, "v1", true},
		{"apis/echo/readme.md", "", "", false},
		{"apis/echo/nested/apiInformation.json", "", "", false},
		{"version sets/v1/apiInformation.json", "", "", false},
		{"apiInformation.json", "", "", false},
	}
	for _, tc := range cases {
		kind, name, ok := Classify(service, Parse(service.Path(), tc.rel))
		if kind != tc.kind || name != tc.name || ok != tc.ok {
			t.Errorf("Classify(%q) = %q, %q, %v", tc.rel, kind, name, ok)
		}
	}
	if _, _, ok := Classify(service, NewPath("elsewhere").Append("apis").Append("x").Append(APIInformationFileName)); ok {
		t.Error("paths outside the service should not classify")
	}
}
