package provider

import (
	"fmt"
	"os"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/artifact"
	"github.com/starford/apiops/internal/codec"
	"github.com/starford/apiops/internal/document"
)

// LoadSnapshot reads a snapshot file into a Memory client. The file is YAML
// (JSON is accepted as a subset):
//
//	apis:
//	  echo-api:
//	    id: /apis/echo-api            # optional
//	    information: { ... }          # apiInformation.json content
//	    specification:                # optional
//	      format: openapi             # openapi | graphql | wsdl | wadl
//	      content: "..."
//	versionSets:
//	  echo-set:
//	    id: /apiVersionSets/echo-set  # optional
//	    information: { ... }          # versionSetInformation.json content
//
// Information documents are decoded with the regular codecs, so opts apply.
func LoadSnapshot(path string, opts ...codec.DecodeOption) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("provider: read snapshot: %w", err)
	}
	m, err := ParseSnapshot(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("provider: snapshot %s: %w", path, err)
	}
	return m, nil
}

// ParseSnapshot is LoadSnapshot over in-memory bytes.
func ParseSnapshot(data []byte, opts ...codec.DecodeOption) (*Memory, error) {
	root, err := document.FromYAML(data)
	if err != nil {
		return nil, err
	}
	r := document.NewReader(root, true)
	apis := r.Document("apis")
	sets := r.Document("versionSets")
	if err := r.Close(); err != nil {
		return nil, err
	}

	m := NewMemory()
	if apis != nil {
		if err := eachEntry("apis", apis, func(name string, entry *document.Object) error {
			return m.loadAPI(name, entry, opts)
		}); err != nil {
			return nil, err
		}
	}
	if sets != nil {
		if err := eachEntry("versionSets", sets, func(name string, entry *document.Object) error {
			return m.loadVersionSet(name, entry, opts)
		}); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// eachEntry visits the objects of a name-keyed section.
func eachEntry(key string, section *document.Object, fn func(name string, entry *document.Object) error) error {
	for _, name := range section.Keys() {
		item, _ := section.Get(name)
		entry, ok := item.(*document.Object)
		if !ok {
			return fmt.Errorf("%s.%s: expected object", key, name)
		}
		if err := fn(name, entry); err != nil {
			return fmt.Errorf("%s.%s: %w", key, name, err)
		}
	}
	return nil
}

func (m *Memory) loadAPI(key string, entry *document.Object, opts []codec.DecodeOption) error {
	name, err := apim.NewAPIName(key)
	if err != nil {
		return err
	}
	r := document.NewReader(entry, true)
	id := document.ParseField(r, "id", apim.ParseResourceID)
	info := r.Document("information")
	spec := r.Object("specification")
	var kind *artifact.SpecificationKind
	var content *string
	if spec != nil {
		kind = document.ParseField(spec, "format", artifact.ParseSpecificationKind)
		content = spec.String("content")
	}
	if err := r.Close(); err != nil {
		return err
	}

	c := &apim.APIContent{}
	if info != nil {
		if c, err = codec.DecodeAPI(info, opts...); err != nil {
			return err
		}
	}
	api := apim.NewAPIData(name, c)
	api.ID = apim.ResourceID("/apis/" + key)
	if id != nil {
		api.ID = *id
	}

	var stored *Specification
	if spec != nil {
		if kind == nil || content == nil {
			return fmt.Errorf("specification needs both format and content")
		}
		stored = &Specification{Kind: *kind, Content: []byte(*content)}
	}
	m.PutAPI(api, stored)
	return nil
}

func (m *Memory) loadVersionSet(key string, entry *document.Object, opts []codec.DecodeOption) error {
	name, err := apim.NewVersionSetName(key)
	if err != nil {
		return err
	}
	r := document.NewReader(entry, true)
	id := document.ParseField(r, "id", apim.ParseResourceID)
	info := r.Document("information")
	if err := r.Close(); err != nil {
		return err
	}

	vs := &apim.VersionSetData{ID: apim.ResourceID("/apiVersionSets/" + key), Name: name}
	if id != nil {
		vs.ID = *id
	}
	if info != nil {
		c, err := codec.DecodeVersionSet(info, opts...)
		if err != nil {
			return err
		}
		vs.VersionSetContent = *c
	}
	m.PutVersionSet(vs)
	return nil
}
