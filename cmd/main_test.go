package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_server/config"
	"sitegen_server/internal/ai"
)

const blueprintYAML = `metadata:
  name: Folio
  domain: portfolio
pagesStructure:
  public:
    - path: /
      name: Home
      priority: high
    - path: /work
      name: Work
      priority: high
components: [Timeline]
`

func setupCLI(t *testing.T) (configDir, cachePath string) {
	t.Helper()
	dir := t.TempDir()
	cachePath = filepath.Join(dir, "cache.json")
	t.Setenv("CACHE_BACKEND", "file")
	t.Setenv("CACHE_PATH", cachePath)
	t.Setenv("PACING_INTERVAL_MS", "0")
	t.Setenv("RETRY_MAX_ATTEMPTS", "1")
	t.Setenv("LOG_LEVEL", "error")

	prev := newCompleter
	newCompleter = func(config.Config) (ai.Completer, error) {
		return ai.CompleterFunc(func(context.Context, ai.Request) (string, error) {
			return "", errors.New("offline")
		}), nil
	}
	t.Cleanup(func() { newCompleter = prev })
	return dir, cachePath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCacheListAndInvalidate(t *testing.T) {
	dir, cachePath := setupCLI(t)

	out, err := execute(t, "cache", "list", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Navbar-modern-nextjs")
	assert.FileExists(t, cachePath)

	out, err = execute(t, "cache", "invalidate", "Navbar-modern-nextjs", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Invalidated Navbar-modern-nextjs")

	out, err = execute(t, "cache", "list", "--config", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "Navbar-modern-nextjs")

	_, err = execute(t, "cache", "invalidate", "Navbar-modern-nextjs", "--config", dir)
	assert.Error(t, err)
}

func TestGenerateWritesProject(t *testing.T) {
	dir, _ := setupCLI(t)
	bpPath := filepath.Join(dir, "blueprint.yaml")
	require.NoError(t, os.WriteFile(bpPath, []byte(blueprintYAML), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "generate", "--blueprint", bpPath, "--out", outDir, "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "written to "+outDir)
	assert.Contains(t, out, "warning [custom-components]")

	matches, err := filepath.Glob(filepath.Join(outDir, "*", "app", "work", "page.tsx"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	layout, err := os.ReadFile(filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(matches[0]))), "app", "layout.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(layout), "./globals.css")
}

func TestGenerateRejectsInvalidBlueprint(t *testing.T) {
	dir, _ := setupCLI(t)
	bpPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bpPath, []byte(`{"metadata": {"name": ""}}`), 0o644))

	_, err := execute(t, "generate", "--blueprint", bpPath, "--config", dir)
	assert.ErrorContains(t, err, "invalid blueprint")
}
