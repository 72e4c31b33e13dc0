// Package assembler merges phase output into the final file map and
// enforces the structural invariants every result must satisfy.
package assembler

import (
	"regexp"
	"strings"

	"sitegen_server/internal/metrics"
	"sitegen_server/internal/types"
	"sitegen_server/internal/validator"
)

// Repaired invariant names, as reported by Repair.
const (
	InvariantTailwindConfig = "tailwind-config"
	InvariantPostCSSConfig  = "postcss-config"
	InvariantDirectives     = "tailwind-directives"
	InvariantGlobalsImport  = "globals-import"
)

const (
	tailwindPath = "tailwind.config.js"
	postcssPath  = "postcss.config.js"
	globalsPath  = "app/globals.css"
	layoutPath   = "app/layout.tsx"
)

var (
	globalsImport = regexp.MustCompile(`import\s+['"]\./globals\.css['"]`)
	// A directive prologue must stay the first statement of the module.
	directive = regexp.MustCompile(`^\s*['"]use (client|server)['"];?[ \t]*(\r?\n|$)`)
)

// Merge writes artifacts into files in order; a later artifact for the
// same path wins.
func Merge(files types.GenerationResult, artifacts []types.FileArtifact) types.GenerationResult {
	if files == nil {
		files = types.GenerationResult{}
	}
	for _, a := range artifacts {
		files[a.Path] = a.Content
	}
	return files
}

// Repair returns a copy of files with the structural invariants restored
// and the names of the invariants it had to fix. Repair is idempotent.
func Repair(files types.GenerationResult, bp *types.Blueprint) (types.GenerationResult, []string) {
	out := files.Clone()
	var fixed []string

	if strings.TrimSpace(out[tailwindPath]) == "" {
		out[tailwindPath] = validator.TailwindConfig
		fixed = append(fixed, InvariantTailwindConfig)
	}
	if strings.TrimSpace(out[postcssPath]) == "" {
		out[postcssPath] = validator.PostCSSConfig
		fixed = append(fixed, InvariantPostCSSConfig)
	}

	if css, ok := out[globalsPath]; !ok || strings.TrimSpace(css) == "" {
		out[globalsPath] = validator.GlobalsCSS
		fixed = append(fixed, InvariantDirectives)
	} else if missing := missingDirectives(css); len(missing) > 0 {
		out[globalsPath] = strings.Join(missing, "\n") + "\n" + css
		fixed = append(fixed, InvariantDirectives)
	}

	if layout, ok := out[layoutPath]; !ok || strings.TrimSpace(layout) == "" {
		out[layoutPath] = validator.Layout(bp)
		fixed = append(fixed, InvariantGlobalsImport)
	} else if !globalsImport.MatchString(layout) {
		out[layoutPath] = withGlobalsImport(layout)
		fixed = append(fixed, InvariantGlobalsImport)
	}

	for _, name := range fixed {
		metrics.InvariantRepairs.WithLabelValues(name).Inc()
	}
	return out, fixed
}

func withGlobalsImport(layout string) string {
	loc := directive.FindStringIndex(layout)
	if loc == nil {
		return validator.GlobalsImport + "\n" + layout
	}
	head := layout[:loc[1]]
	if !strings.HasSuffix(head, "\n") {
		head += "\n"
	}
	return head + validator.GlobalsImport + "\n" + layout[loc[1]:]
}

func missingDirectives(css string) []string {
	var missing []string
	for _, d := range validator.TailwindDirectives {
		if !strings.Contains(css, d) {
			missing = append(missing, d)
		}
	}
	return missing
}
