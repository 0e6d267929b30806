package hcl

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/dsl"
	"github.com/vk/sduigo/internal/fsutil"
)

// Extension of authoring files.
const Extension = ".hcl"

// Loader reads scenario documents from HCL authoring files.
type Loader struct {
	evalCtx *hcl.EvalContext
}

// NewLoader creates a loader with the authoring functions installed.
func NewLoader() *Loader {
	return &Loader{evalCtx: &hcl.EvalContext{Functions: Functions()}}
}

// Load walks paths for .hcl files and returns every scenario they define,
// sorted by name. Scenario names must be unique across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*dsl.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No .hcl authoring files found.", "paths", paths)
		return nil, nil
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var docs []*dsl.Document
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		found, err := l.parse(parser, src, file)
		if err != nil {
			return nil, err
		}
		docs = append(docs, found...)
		logger.Debug("Loaded scenarios from HCL file.", "file", file, "scenarios", len(found))
	}

	docs, err = sortUnique(docs)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "scenarios", len(docs))
	return docs, nil
}

// Parse reads the scenarios defined in a single source. filename is used in
// diagnostics.
func (l *Loader) Parse(src []byte, filename string) ([]*dsl.Document, error) {
	docs, err := l.parse(hclparse.NewParser(), src, filename)
	if err != nil {
		return nil, err
	}
	return sortUnique(docs)
}

func (l *Loader) parse(parser *hclparse.Parser, src []byte, filename string) ([]*dsl.Document, error) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}

	for _, attr := range sortedAttributes(body) {
		diags = append(diags, errorDiag("Unsupported argument",
			"Only scenario blocks are allowed at the top level.", attr.NameRange))
	}

	var docs []*dsl.Document
	for _, block := range body.Blocks {
		if block.Type != BlockScenario {
			diags = append(diags, errorDiag("Unsupported block type",
				fmt.Sprintf("Blocks of type %q are not expected at the top level.", block.Type), block.DefRange()))
			continue
		}
		doc, sDiags := translateScenario(block, l.evalCtx)
		diags = append(diags, sDiags...)
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	return docs, nil
}

func sortUnique(docs []*dsl.Document) ([]*dsl.Document, error) {
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	for i := 1; i < len(docs); i++ {
		if docs[i].Name == docs[i-1].Name {
			return nil, fmt.Errorf("duplicate scenario %q defined in %s and %s",
				docs[i].Name, docs[i-1].Source, docs[i].Source)
		}
	}
	return docs, nil
}
