package validator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sitegen_server/internal/types"
	"sitegen_server/internal/utils"
)

func testBlueprint() *types.Blueprint {
	return &types.Blueprint{
		Metadata: types.Metadata{
			Name:        "Acme {Store}",
			Domain:      types.DomainEcommerce,
			Description: "Shoes (and socks) for <everyone>",
		},
		Features: []string{"search", "cart", "wish{list}"},
	}
}

func TestDetectors(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		name       string
		path       string
		content    string
		possibly   bool
		definitely bool
	}{
		{"complete component", "components/Hero.tsx", "export default function Hero() {\n  return <div>Hi</div>\n}", false, false},
		{"unbalanced braces", "components/Hero.tsx", "export default function Hero() {\n  return <div>Hi</div>\n", true, true},
		{"dangling angle", "app/page.tsx", "export default function Home() { return null }\n<", true, true},
		{"dangling operator", "components/Flag.tsx", "export const value = first &&", true, false},
		{"missing keyword", "components/Hero.tsx", "<div className=\"hero\">Hello there</div>", true, true},
		{"too short", "components/X.tsx", "const a = 1", true, true},
		{"css ok", "app/globals.css", "@tailwind base;\nbody { margin: 0; }", false, false},
		{"css unbalanced", "app/globals.css", "@tailwind base;\nbody { margin: 0;", true, true},
		{"css no construct", "styles/x.css", "just some words, nothing else", true, true},
		{"css mid declaration", "styles/x.css", "body { margin: 0; }\n.card,", true, false},
		{"config ok", "tailwind.config.js", "module.exports = { plugins: [] }", false, false},
		{"config no export", "postcss.config.js", "const plugins = { tailwindcss: {} }", true, true},
		{"config dangling", "next.config.js", "module.exports = { a: 1 }\nconst x = (", true, true},
		{"json ok", "package.json", `{"name":"x"}`, false, false},
		{"json truncated", "package.json", `{"name":"x",`, true, true},
		{"markdown", "README.md", "# Title {", false, false},
		{"empty markdown", "README.md", "  ", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := r.For(tt.path, utils.DetermineKind(tt.path)).Inspect(tt.content)
			assert.Equal(t, tt.possibly, v.Possibly, v.Reason)
			assert.Equal(t, tt.definitely, v.Definitely, v.Reason)
		})
	}
}

func TestRegistry_ConfigFilesUseConfigDetector(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, "config", r.For("tailwind.config.js", types.KindJS).Name())
	assert.Equal(t, "code", r.For("lib/util.js", types.KindJS).Name())
	assert.Equal(t, "markdown", r.For("notes.txt", types.Kind("txt")).Name())
}

func TestFallbacks_PassStrictCheck(t *testing.T) {
	bp := testBlueprint()
	v := New(zaptest.NewLogger(t))
	paths := []string{
		"package.json", "tsconfig.json", "next.config.js", "tailwind.config.js",
		"postcss.config.js", "app/globals.css", "app/layout.tsx", "app/page.tsx",
		"app/about/page.tsx", "app/shop/new-arrivals/page.tsx",
		"components/ProductCard.tsx", "components/features/Search.tsx",
		"styles/extra.css", "lib/helpers.js", "vite.config.js", "data/seed.json", "README.md",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			kind := utils.DetermineKind(p)
			content := Fallback(p, kind, bp)
			verdict := v.Check(p, kind, content)
			assert.False(t, verdict.Definitely, "%s: %s", p, verdict.Reason)
			if kind != types.KindMD && kind != types.KindJSON {
				assert.Equal(t, strings.Count(content, "{"), strings.Count(content, "}"))
			}
			assert.Equal(t, content, Fallback(p, kind, bp), "fallback must be deterministic")
		})
	}
}

func TestFallback_StructuralFiles(t *testing.T) {
	bp := testBlueprint()
	css := Fallback("app/globals.css", types.KindCSS, bp)
	for _, d := range TailwindDirectives {
		assert.Contains(t, css, d)
	}
	assert.True(t, strings.HasPrefix(Fallback("app/layout.tsx", types.KindTSX, bp), GlobalsImport))
	assert.Contains(t, Fallback("package.json", types.KindJSON, bp), `"name": "acme-store"`)
	assert.Contains(t, Fallback("app/about/page.tsx", types.KindTSX, bp), "export default function AboutPage()")
}

func TestFallback_PageTitleKeepsMultiByteRunes(t *testing.T) {
	out := Fallback("app/über/page.tsx", types.KindTSX, testBlueprint())
	assert.Contains(t, out, ">Über</h1>")
	assert.True(t, utf8.ValidString(out))
	assert.False(t, New(zaptest.NewLogger(t)).Check("app/über/page.tsx", types.KindTSX, out).Definitely)

	assert.Contains(t, Fallback("app/ñandú-tours/page.tsx", types.KindTSX, testBlueprint()), ">Ñandú Tours</h1>")
}

func TestEnsure(t *testing.T) {
	v := New(zaptest.NewLogger(t))
	fallback := func() string { return "FALLBACK" }

	out, w := v.Ensure("base-structure", "app/page.tsx", types.KindTSX,
		"```tsx\nexport default function Home() {\n  return <main />\n}\n```", fallback)
	assert.Nil(t, w)
	assert.Equal(t, "export default function Home() {\n  return <main />\n}", out)

	out, w = v.Ensure("base-structure", "app/page.tsx", types.KindTSX,
		"export default function Home() {\n  return (\n    <", fallback)
	require.NotNil(t, w)
	assert.Equal(t, "FALLBACK", out)
	assert.Equal(t, "base-structure", w.Phase)
	assert.Equal(t, "app/page.tsx", w.Path)
	assert.Contains(t, w.Reason, "truncated")
}

func TestEnsure_Disabled(t *testing.T) {
	v := New(nil, WithTruncationCheckDisabled(true))
	assert.True(t, v.Disabled())
	out, w := v.Ensure("page-bodies", "app/a/page.tsx", types.KindTSX, "export {", func() string { return "x" })
	assert.Nil(t, w)
	assert.Equal(t, "export {", out)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"no fence", "  body { }  ", "body { }"},
		{"lang fence", "```css\nbody { }\n```", "body { }"},
		{"bare fence", "```\nx\n```", "x"},
		{"chatter before", "Here is the file:\n```json\n{\"a\":1}\n```\nEnjoy!", "{\"a\":1}"},
		{"unterminated", "```tsx\nexport const A = 1", "export const A = 1"},
		{"inline backticks kept", "Use `npm` and ``` once", "Use `npm` and ``` once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestDecodeComponentBatch(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		names []string
	}{
		{"wrapper", `{"components":[{"name":"A","code":"a"},{"name":"B","code":"b"}]}`, []string{"A", "B"}},
		{"files wrapper", `{"files":[{"filename":"A.tsx","content":"a"}]}`, []string{""}},
		{"array", `[{"name":"A","code":"a"}]`, []string{"A"}},
		{"single", `{"name":"A","code":"a"}`, []string{"A"}},
		{"fenced", "```json\n{\"data\":[{\"name\":\"A\",\"code\":\"a\"}]}\n```", []string{"A"}},
		{"repaired", `Sure! {"components":[{"name":"A","code":"a"}]} Let me know.`, []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := DecodeComponentBatch(tt.raw)
			require.NoError(t, err)
			require.Len(t, files, len(tt.names))
			for i, n := range tt.names {
				assert.Equal(t, n, files[i].Name)
				assert.NotEmpty(t, files[i].Body())
			}
		})
	}
}

func TestDecodeComponentBatch_Malformed(t *testing.T) {
	for _, raw := range []string{
		`{"components":[{"name":"A","code":"a"}`,
		"no json here",
		`{"unrelated": true}`,
	} {
		_, err := DecodeComponentBatch(raw)
		assert.ErrorIs(t, err, ErrMalformed, raw)
	}
}

func TestOutermostSpan(t *testing.T) {
	assert.Equal(t, `{"a":[1]}`, OutermostSpan(`x {"a":[1]} y`))
	assert.Equal(t, `[{"a":1}]`, OutermostSpan(`x [{"a":1}] y`))
	assert.Equal(t, "", OutermostSpan("nothing"))
}
