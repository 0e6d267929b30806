package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/sduigo/internal/ctxlog"
	"github.com/vk/sduigo/internal/hcl"
)

// Compile turns the authoring files under Path into scenario documents. With
// Out set every document is written to Out/<name>.json, otherwise the
// documents are written to the output stream one per line.
func (a *App) Compile(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	docs, err := hcl.NewLoader().Load(ctx, a.config.Path)
	if err != nil {
		a.metrics.IncCompileFailed()
		return fmt.Errorf("failed to load authoring files: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no scenarios found in %s", a.config.Path)
	}

	if a.config.Out != "" {
		if err := os.MkdirAll(a.config.Out, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for _, doc := range docs {
		out, err := doc.Compile()
		if err != nil {
			a.metrics.IncCompileFailed()
			return fmt.Errorf("%s: %w", doc.Source, err)
		}
		if a.config.Out == "" {
			if _, err := fmt.Fprintf(a.outW, "%s\n", out); err != nil {
				return err
			}
			continue
		}
		file := filepath.Join(a.config.Out, doc.Name+".json")
		if err := os.WriteFile(file, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
		logger.Info("Scenario compiled.", "scenario", doc.Name, "file", file)
	}
	return nil
}
