package scenario

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/sduigo/internal/component"
	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Envelope field names.
const (
	FieldName          = "name"
	FieldVersion       = "version"
	FieldBuildNumber   = "buildNumber"
	FieldMetadata      = "metadata"
	FieldMainComponent = "mainComponent"
	FieldComponents    = "components"
)

// Scenario is a parsed scenario document. Its trees are frozen.
type Scenario struct {
	Name        string
	Version     string
	BuildNumber int
	Metadata    config.Config
	Main        *component.Component
	Components  map[string]*component.Component
}

// Parse validates and builds a scenario document.
func Parse(ctx context.Context, data []byte) (*Scenario, error) {
	logger := ctxlog.FromContext(ctx)

	if err := Validate(data); err != nil {
		logger.Debug("Scenario document failed schema validation.", "error", err)
		return nil, err
	}
	v, err := config.DecodeJSON(data)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	doc, err := config.New(v)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}

	s := &Scenario{Metadata: config.Empty(), Components: map[string]*component.Component{}}
	s.Name, _ = doc.GetString(FieldName)
	s.Version, _ = doc.GetString(FieldVersion)
	s.BuildNumber, _ = doc.GetInt(FieldBuildNumber)
	if md, ok := doc.GetConfig(FieldMetadata); ok {
		s.Metadata = md
	}

	mainVal, _ := doc.Lookup(FieldMainComponent)
	s.Main, err = component.BuildAt(ctx, mainVal, "$."+FieldMainComponent)
	if err != nil {
		return nil, err
	}

	if fragments, ok := doc.GetConfig(FieldComponents); ok {
		for _, name := range fragments.Keys() {
			fv, _ := fragments.Lookup(name)
			c, err := component.BuildAt(ctx, fv, fmt.Sprintf("$.%s.%s", FieldComponents, name))
			if err != nil {
				return nil, err
			}
			s.Components[name] = c
		}
	}

	logger.Debug("Scenario parsed.", "name", s.Name, "version", s.Version, "build_number", s.BuildNumber,
		"fragments", len(s.Components), "node_count", s.Count())
	return s, nil
}

// Fragment returns the named reusable tree.
func (s *Scenario) Fragment(name string) (*component.Component, bool) {
	c, ok := s.Components[name]
	return c, ok
}

// FragmentNames lists fragment names in sorted order.
func (s *Scenario) FragmentNames() []string {
	names := make([]string, 0, len(s.Components))
	for n := range s.Components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Count is the number of nodes across the main tree and every fragment.
func (s *Scenario) Count() int {
	n := 0
	if s.Main != nil {
		n += s.Main.Count()
	}
	for _, c := range s.Components {
		n += c.Count()
	}
	return n
}

// Value returns the document in its wire shape.
func (s *Scenario) Value() cty.Value {
	attrs := map[string]cty.Value{
		FieldVersion:     cty.StringVal(s.Version),
		FieldBuildNumber: cty.NumberIntVal(int64(s.BuildNumber)),
	}
	if s.Name != "" {
		attrs[FieldName] = cty.StringVal(s.Name)
	}
	if s.Metadata.Len() > 0 {
		attrs[FieldMetadata] = s.Metadata.Value()
	}
	if s.Main != nil {
		attrs[FieldMainComponent] = s.Main.Value()
	}
	if len(s.Components) > 0 {
		fragments := make(map[string]cty.Value, len(s.Components))
		for name, c := range s.Components {
			fragments[name] = c.Value()
		}
		attrs[FieldComponents] = cty.ObjectVal(fragments)
	}
	return cty.ObjectVal(attrs)
}

// Encode serialises a scenario as JSON.
func Encode(s *Scenario) ([]byte, error) {
	out, err := config.EncodeJSON(s.Value())
	if err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	return out, nil
}
