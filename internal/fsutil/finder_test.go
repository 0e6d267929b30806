package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "b", "a.hcl")
	b := filepath.Join(root, "a.hcl")
	writeFile(t, a)
	writeFile(t, b)
	writeFile(t, filepath.Join(root, "notes.txt"))

	got, err := FindFiles([]string{root, b, filepath.Join(root, "missing")}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{b, a}, got)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestDirs(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "x", "y", "home.hcl")
	writeFile(t, file)

	got, err := Dirs([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "x"), filepath.Join(root, "x", "y")}, got)

	got, err = Dirs([]string{file})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "x", "y")}, got)
}
