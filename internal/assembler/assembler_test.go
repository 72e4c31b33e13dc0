package assembler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sitegen_server/internal/types"
	"sitegen_server/internal/validator"
)

var bp = &types.Blueprint{Metadata: types.Metadata{Name: "Acme", Domain: types.DomainSaaS}}

func TestMerge_LaterWins(t *testing.T) {
	files := Merge(nil, []types.FileArtifact{
		{Path: "a.tsx", Content: "one"},
		{Path: "b.css", Content: "two"},
		{Path: "a.tsx", Content: "three"},
	})
	assert.Equal(t, types.GenerationResult{"a.tsx": "three", "b.css": "two"}, files)
}

func TestRepair_EmptyMap(t *testing.T) {
	out, fixed := Repair(types.GenerationResult{}, bp)
	assert.ElementsMatch(t, []string{InvariantTailwindConfig, InvariantPostCSSConfig, InvariantDirectives, InvariantGlobalsImport}, fixed)
	assertInvariants(t, out)
}

func TestRepair_PatchesExistingFiles(t *testing.T) {
	in := types.GenerationResult{
		"tailwind.config.js": "module.exports = { custom: true }",
		"postcss.config.js":  "module.exports = { plugins: {} }",
		"app/globals.css":    "@tailwind base;\nbody { color: red; }",
		"app/layout.tsx":     "export default function RootLayout() { return null }",
	}
	out, fixed := Repair(in, bp)

	assert.ElementsMatch(t, []string{InvariantDirectives, InvariantGlobalsImport}, fixed)
	assert.Equal(t, in["tailwind.config.js"], out["tailwind.config.js"], "valid files are kept")
	assert.True(t, strings.HasSuffix(out["app/globals.css"], "body { color: red; }"))
	assert.Equal(t, 1, strings.Count(out["app/globals.css"], "@tailwind base;"))
	assert.True(t, strings.HasPrefix(out["app/layout.tsx"], validator.GlobalsImport))
	assertInvariants(t, out)

	assert.NotContains(t, in["app/layout.tsx"], "globals.css", "input is not mutated")
}

func TestRepair_GlobalsImportFollowsDirective(t *testing.T) {
	for _, layout := range []string{
		"'use client'\nexport default function RootLayout() { return null }",
		"\"use client\";\nexport default function RootLayout() { return null }",
		"'use server'",
	} {
		in := types.GenerationResult{
			"tailwind.config.js": validator.TailwindConfig,
			"postcss.config.js":  validator.PostCSSConfig,
			"app/globals.css":    validator.GlobalsCSS,
			"app/layout.tsx":     layout,
		}
		out, fixed := Repair(in, bp)
		assert.Equal(t, []string{InvariantGlobalsImport}, fixed)

		lines := strings.Split(out["app/layout.tsx"], "\n")
		assert.Equal(t, strings.Split(layout, "\n")[0], lines[0], "directive stays first")
		assert.Equal(t, validator.GlobalsImport, lines[1])
		assertInvariants(t, out)

		again, fixed := Repair(out, bp)
		assert.Empty(t, fixed)
		assert.Equal(t, out, again)
	}
}

func TestRepair_AcceptsDoubleQuotedImport(t *testing.T) {
	in := types.GenerationResult{
		"tailwind.config.js": validator.TailwindConfig,
		"postcss.config.js":  validator.PostCSSConfig,
		"app/globals.css":    validator.GlobalsCSS,
		"app/layout.tsx":     "import \"./globals.css\"\nexport default function L() { return null }",
	}
	out, fixed := Repair(in, bp)
	assert.Empty(t, fixed)
	assert.Equal(t, in, out)
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []types.GenerationResult{
		{},
		{"app/globals.css": "body {}", "app/layout.tsx": "export default function L() { return null }"},
		{"app/globals.css": "@tailwind utilities;", "tailwind.config.js": "   "},
	}
	for _, in := range inputs {
		once, _ := Repair(in, bp)
		twice, fixed := Repair(once, bp)
		assert.Equal(t, once, twice)
		assert.Empty(t, fixed)
	}
}

func assertInvariants(t *testing.T, files types.GenerationResult) {
	t.Helper()
	assert.NotEmpty(t, files["tailwind.config.js"])
	assert.NotEmpty(t, files["postcss.config.js"])
	for _, d := range validator.TailwindDirectives {
		assert.Contains(t, files["app/globals.css"], d)
	}
	assert.Contains(t, files["app/layout.tsx"], "import './globals.css'")
}
