package utils

import (
	"path/filepath"
	"strings"
	"unicode"

	"sitegen_server/internal/types"
)

// DetermineKind maps a file path to the artifact kind used for validation.
// Unknown extensions are treated as markdown, which is never truncation-checked.
func DetermineKind(filename string) types.Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return types.KindJSON
	case ".css":
		return types.KindCSS
	case ".tsx", ".jsx", ".ts":
		return types.KindTSX
	case ".js", ".mjs", ".cjs":
		return types.KindJS
	default:
		return types.KindMD
	}
}

// IsConfigFile reports whether the path is a JS tool config such as
// tailwind.config.js or next.config.mjs.
func IsConfigFile(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	return strings.Contains(base, ".config.")
}

// ComponentName turns free-form text ("product card", "user-menu") into a
// PascalCase identifier usable as a React component name.
func ComponentName(raw string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range raw {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if b.Len() == 0 && unicode.IsDigit(r) {
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "Component"
	}
	return b.String()
}

// Slug turns a page path or name into a lowercase URL segment.
func Slug(raw string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.Trim(raw, "/ ")) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if r == '/' {
			b.WriteRune('/')
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// PagePath returns the app-router file for a public page path.
func PagePath(pagePath string) string {
	slug := Slug(pagePath)
	if slug == "" {
		return "app/page.tsx"
	}
	return "app/" + slug + "/page.tsx"
}
