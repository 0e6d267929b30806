package hcl

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/sduigo/internal/dsl"
	"github.com/vk/sduigo/internal/scenariostore"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Block and attribute names with a fixed meaning.
const (
	BlockScenario  = "scenario"
	BlockFragment  = "fragment"
	BlockComponent = "component"
	BlockRow       = "row"
	BlockColumn    = "column"
	BlockStack     = "stack"

	AttrVersion     = "version"
	AttrBuildNumber = "build_number"
	AttrMetadata    = "metadata"
	AttrID          = "id"
	AttrProperties  = "properties"
	AttrData        = "data"
)

var layoutKinds = map[string]dsl.Kind{
	BlockRow:    dsl.KindRow,
	BlockColumn: dsl.KindColumn,
	BlockStack:  dsl.KindStack,
}

func errorDiag(summary, detail string, subject hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  subject.Ptr(),
	}
}

// sortedAttributes returns attributes in source order.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}

// translateScenario converts one scenario block into a document.
func translateScenario(block *hclsyntax.Block, evalCtx *hcl.EvalContext) (*dsl.Document, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	if len(block.Labels) != 1 || block.Labels[0] == "" {
		return nil, append(diags, errorDiag("Invalid scenario block",
			"A scenario block takes exactly one label: its name.", block.DefRange()))
	}
	if err := scenariostore.ValidateName(block.Labels[0]); err != nil {
		return nil, append(diags, errorDiag("Invalid scenario name",
			fmt.Sprintf("%s. Names start with a letter or digit and contain only letters, digits, '.', '_' and '-'.", err),
			block.LabelRanges[0]))
	}
	doc := &dsl.Document{Name: block.Labels[0], Source: block.DefRange().Filename}

	for _, attr := range sortedAttributes(block.Body) {
		val, vDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, vDiags...)
		if vDiags.HasErrors() {
			continue
		}
		switch attr.Name {
		case AttrVersion:
			var s string
			if err := decode(val, &s); err != nil {
				diags = append(diags, errorDiag("Invalid version", err.Error(), attr.SrcRange))
				continue
			}
			doc.Version = s
		case AttrBuildNumber:
			var n int
			if err := decode(val, &n); err != nil {
				diags = append(diags, errorDiag("Invalid build_number", err.Error(), attr.SrcRange))
				continue
			}
			doc.BuildNumber = n
		case AttrMetadata:
			m, err := objectMap(val)
			if err != nil {
				diags = append(diags, errorDiag("Invalid metadata", err.Error(), attr.SrcRange))
				continue
			}
			doc.Metadata = m
		default:
			diags = append(diags, errorDiag("Unsupported argument",
				fmt.Sprintf("An argument named %q is not expected in a scenario block.", attr.Name), attr.NameRange))
		}
	}

	for _, child := range block.Body.Blocks {
		if child.Type != BlockFragment {
			if doc.Main != nil {
				diags = append(diags, errorDiag("Duplicate root element",
					"A scenario has exactly one root element; wrap siblings in a row, column or stack.", child.DefRange()))
				continue
			}
			el, eDiags := translateElement(child, evalCtx)
			diags = append(diags, eDiags...)
			doc.Main = el
			continue
		}

		if len(child.Labels) != 1 || child.Labels[0] == "" {
			diags = append(diags, errorDiag("Invalid fragment block",
				"A fragment block takes exactly one label: its name.", child.DefRange()))
			continue
		}
		name := child.Labels[0]
		if _, dup := doc.Fragments[name]; dup {
			diags = append(diags, errorDiag("Duplicate fragment",
				fmt.Sprintf("Fragment %q is already defined in scenario %q.", name, doc.Name), child.DefRange()))
			continue
		}
		el, fDiags := translateRoot(child, evalCtx)
		diags = append(diags, fDiags...)
		if el == nil {
			continue
		}
		if doc.Fragments == nil {
			doc.Fragments = map[string]*dsl.Element{}
		}
		doc.Fragments[name] = el
	}

	if doc.Main == nil && !diags.HasErrors() {
		diags = append(diags, errorDiag("Missing root element",
			fmt.Sprintf("Scenario %q has no root element.", doc.Name), block.DefRange()))
	}
	return doc, diags
}

// translateRoot reads a container block that must hold exactly one element.
func translateRoot(block *hclsyntax.Block, evalCtx *hcl.EvalContext) (*dsl.Element, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	for _, attr := range sortedAttributes(block.Body) {
		diags = append(diags, errorDiag("Unsupported argument",
			fmt.Sprintf("A %s block holds a single element and no arguments.", block.Type), attr.NameRange))
	}
	if len(block.Body.Blocks) != 1 {
		return nil, append(diags, errorDiag("Invalid "+block.Type+" block",
			fmt.Sprintf("A %s block must contain exactly one element, found %d.", block.Type, len(block.Body.Blocks)),
			block.DefRange()))
	}
	el, eDiags := translateElement(block.Body.Blocks[0], evalCtx)
	return el, append(diags, eDiags...)
}

// translateElement converts a layout or leaf block and its children.
func translateElement(block *hclsyntax.Block, evalCtx *hcl.EvalContext) (*dsl.Element, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	el := &dsl.Element{Style: map[string]cty.Value{}}

	labels := block.Labels
	if kind, ok := layoutKinds[block.Type]; ok {
		el.Kind = kind
	} else if block.Type == BlockComponent {
		if len(labels) == 0 {
			return nil, append(diags, errorDiag("Invalid component block",
				"A component block needs its component type as the first label.", block.DefRange()))
		}
		el.Type, labels = labels[0], labels[1:]
	} else if block.Type == BlockFragment || block.Type == BlockScenario {
		return nil, append(diags, errorDiag("Misplaced "+block.Type+" block",
			fmt.Sprintf("A %s block cannot appear inside a component tree.", block.Type), block.DefRange()))
	} else {
		el.Type = block.Type
	}
	switch len(labels) {
	case 0:
	case 1:
		el.ID = labels[0]
	default:
		return nil, append(diags, errorDiag("Too many labels",
			"An element takes at most one label: its id.", block.DefRange()))
	}

	for _, attr := range sortedAttributes(block.Body) {
		val, vDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, vDiags...)
		if vDiags.HasErrors() {
			continue
		}
		switch attr.Name {
		case AttrID:
			var id string
			if err := decode(val, &id); err != nil {
				diags = append(diags, errorDiag("Invalid id", err.Error(), attr.SrcRange))
				continue
			}
			if el.ID != "" && el.ID != id {
				diags = append(diags, errorDiag("Conflicting id",
					fmt.Sprintf("The block label already sets id %q.", el.ID), attr.SrcRange))
				continue
			}
			el.ID = id
		case AttrProperties, AttrData:
			m, err := objectMap(val)
			if err != nil {
				diags = append(diags, errorDiag("Invalid "+attr.Name, err.Error(), attr.SrcRange))
				continue
			}
			if attr.Name == AttrProperties {
				el.Properties = m
			} else {
				el.Data = m
			}
		default:
			el.Style[CamelCase(attr.Name)] = val
		}
	}

	for _, child := range block.Body.Blocks {
		c, cDiags := translateElement(child, evalCtx)
		diags = append(diags, cDiags...)
		if c != nil {
			el.Children = append(el.Children, c)
		}
	}
	return el, diags
}

// decode converts val to the Go type of target, allowing the safe
// conversions HCL users expect (for example "3" for a number).
func decode(val cty.Value, target any) error {
	ty, err := gocty.ImpliedType(target)
	if err != nil {
		return err
	}
	converted, err := convert.Convert(val, ty)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, target)
}

// objectMap requires an object or map value and returns its members.
func objectMap(val cty.Value) (map[string]cty.Value, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	return val.AsValueMap(), nil
}

// CamelCase maps a snake_case attribute name to its style key.
func CamelCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
