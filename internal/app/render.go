package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/sduigo/internal/config"
	"github.com/vk/sduigo/internal/render"
	"github.com/vk/sduigo/internal/scenario"
)

// Render renders the scenario JSON file at Path with the configured props and
// writes the result to the output stream.
func (a *App) Render(ctx context.Context) error {
	data, err := os.ReadFile(a.config.Path)
	if err != nil {
		return fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := scenario.Parse(ctx, data)
	if err != nil {
		return fmt.Errorf("%s: %w", a.config.Path, err)
	}
	props, err := loadProps(a.config.Props)
	if err != nil {
		return err
	}

	out, err := a.engine.Render(ctx, render.Request{
		Scenario: sc,
		Fragment: a.config.Fragment,
		Platform: a.config.Platform,
		Format:   a.config.Format,
		Props:    props,
		Page:     a.config.Page,
	})
	if err != nil {
		return err
	}
	if _, err := a.outW.Write(out.Body); err != nil {
		return err
	}
	if !strings.HasSuffix(string(out.Body), "\n") {
		_, err = fmt.Fprintln(a.outW)
	}
	return err
}

// loadProps reads props from an inline JSON object or, with a leading "@",
// from a file.
func loadProps(spec string) (config.Config, error) {
	if spec == "" {
		return config.Empty(), nil
	}
	data := []byte(spec)
	if name, ok := strings.CutPrefix(spec, "@"); ok {
		var err error
		if data, err = os.ReadFile(name); err != nil {
			return config.Config{}, fmt.Errorf("failed to read props: %w", err)
		}
	}
	props, err := config.FromJSON(data)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid props: %w", err)
	}
	return props, nil
}
