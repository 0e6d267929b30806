package dsl

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/scenario"
	"github.com/zclconf/go-cty/cty"
)

// DefaultVersion is used when a Document leaves Version empty.
const DefaultVersion = "1.0.0"

// Document is an authored scenario: a main tree plus named fragments.
type Document struct {
	Name        string
	Version     string
	BuildNumber int
	Metadata    map[string]cty.Value
	Main        *Element
	Fragments   map[string]*Element
	// Source is where the document was authored, for diagnostics only.
	Source string
}

// Value compiles the document into its wire shape.
func (d *Document) Value() (cty.Value, error) {
	version := d.Version
	if version == "" {
		version = DefaultVersion
	}
	attrs := map[string]cty.Value{
		scenario.FieldVersion:     cty.StringVal(version),
		scenario.FieldBuildNumber: cty.NumberIntVal(int64(d.BuildNumber)),
	}
	if d.Name != "" {
		attrs[scenario.FieldName] = cty.StringVal(d.Name)
	}
	md, err := object(d.Metadata)
	if err != nil {
		return cty.NilVal, &CompileError{Path: "$." + scenario.FieldMetadata, Reason: err.Error()}
	}
	if md != cty.NilVal {
		attrs[scenario.FieldMetadata] = md
	}

	if d.Main == nil {
		return cty.NilVal, &CompileError{Path: "$." + scenario.FieldMainComponent, Reason: "document has no main element"}
	}
	main, err := compile(d.Main, "$."+scenario.FieldMainComponent, false)
	if err != nil {
		return cty.NilVal, err
	}
	attrs[scenario.FieldMainComponent] = main

	if len(d.Fragments) > 0 {
		fragments := make(map[string]cty.Value, len(d.Fragments))
		for _, name := range slices.Sorted(maps.Keys(d.Fragments)) {
			v, err := compile(d.Fragments[name], fmt.Sprintf("$.%s.%s", scenario.FieldComponents, name), false)
			if err != nil {
				return cty.NilVal, err
			}
			fragments[name] = v
		}
		attrs[scenario.FieldComponents] = cty.ObjectVal(fragments)
	}
	return cty.ObjectVal(attrs), nil
}

// Compile produces the scenario JSON. The output is checked with
// scenario.Parse before it is returned.
func (d *Document) Compile() ([]byte, error) {
	v, err := d.Value()
	if err != nil {
		return nil, err
	}
	out, err := config.EncodeJSON(v)
	if err != nil {
		return nil, fmt.Errorf("encode scenario %q: %w", d.Name, err)
	}
	if _, err := scenario.Parse(context.Background(), out); err != nil {
		return nil, fmt.Errorf("compiled scenario %q is invalid: %w", d.Name, err)
	}
	return out, nil
}
