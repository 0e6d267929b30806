package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/sduigo/internal/cli"
)

func TestRun_CompileThenRender(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
scenario "home" {
  column "root" {
    text "title" {
      properties = { text = prop("title") }
    }
  }
}
`
	srcDir, outDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "home.hcl"), []byte(src), 0o600))
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), &bytes.Buffer{}, logs, []string{"--log-format", "text", "compile", srcDir, "--out", outDir})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	err = run(context.Background(), out, logs, []string{
		"render", filepath.Join(outDir, "home.json"),
		"--platform", "web",
		"--props", `{"title": "Welcome"}`,
	})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), `<span data-sdui-id="title"`)
	require.Contains(t, out.String(), ">Welcome</span>")
}

func TestRun_RuntimeErrorExitsWithOne(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A syntax error in an authoring file fails compilation.
	invalidHCL := `
		scenario "broken" {
			row {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600), "failed to set up test file")

	// --- Act ---
	runErr := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"compile", filePath})

	// --- Assert ---
	var exitErr *cli.ExitError
	require.True(t, errors.As(runErr, &exitErr), "run() should return an ExitError")
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, exitErr.Message, "failed to load authoring files")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
