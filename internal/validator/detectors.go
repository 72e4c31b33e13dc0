package validator

import (
	"encoding/json"
	"regexp"
	"strings"

	"sitegen_server/internal/types"
	"sitegen_server/internal/utils"
)

// Verdict is the outcome of inspecting one artifact. Possibly is the
// permissive signal; Definitely is the strict one the pipeline acts on.
type Verdict struct {
	Possibly   bool
	Definitely bool
	Reason     string
}

// Detector is a truncation strategy for one content kind.
type Detector interface {
	Name() string
	Inspect(content string) Verdict
}

// Registry picks a Detector for an artifact.
type Registry struct {
	byKind map[types.Kind]Detector
	config Detector
}

// DefaultRegistry knows every built-in kind.
func DefaultRegistry() *Registry {
	code := CodeDetector{MinLength: 20}
	return &Registry{
		byKind: map[types.Kind]Detector{
			types.KindCSS:  CSSDetector{MinLength: 20},
			types.KindTSX:  code,
			types.KindJS:   code,
			types.KindJSON: JSONDetector{},
			types.KindMD:   MarkdownDetector{},
		},
		config: ConfigDetector{MinLength: 15},
	}
}

// Register installs or replaces the detector for kind.
func (r *Registry) Register(kind types.Kind, d Detector) {
	r.byKind[kind] = d
}

// For returns the detector for path. JS tool configs get the config
// detector; unknown kinds are never flagged.
func (r *Registry) For(path string, kind types.Kind) Detector {
	if kind == types.KindJS && utils.IsConfigFile(path) && r.config != nil {
		return r.config
	}
	if d, ok := r.byKind[kind]; ok {
		return d
	}
	return MarkdownDetector{}
}

// Openers can never legitimately end an artifact.
var openers = []string{"{", "(", "[", "<"}

func balanced(s string, open, close rune) bool {
	return strings.Count(s, string(open)) == strings.Count(s, string(close))
}

func endsWithAny(s string, suffixes ...string) (string, bool) {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return suf, true
		}
	}
	return "", false
}

// CSSDetector checks stylesheets.
type CSSDetector struct {
	MinLength int
}

var cssConstruct = regexp.MustCompile(`(?s)(@[a-z-]+[^;{]*[;{])|([^{}]+\{[^{}]*\})`)

func (CSSDetector) Name() string { return "css" }

func (d CSSDetector) Inspect(content string) Verdict {
	s := strings.TrimSpace(content)
	switch {
	case s == "":
		return Verdict{Possibly: true, Definitely: true, Reason: "empty content"}
	case !balanced(s, '{', '}'):
		return Verdict{Possibly: true, Definitely: true, Reason: "unbalanced braces"}
	case !cssConstruct.MatchString(s):
		return Verdict{Possibly: true, Definitely: true, Reason: "no css construct"}
	case len(s) < d.MinLength:
		return Verdict{Possibly: true, Definitely: true, Reason: "content too short"}
	}
	if suf, ok := endsWithAny(s, "{"); ok {
		return Verdict{Possibly: true, Definitely: true, Reason: "ends with " + suf}
	}
	if suf, ok := endsWithAny(s, ":", ","); ok {
		return Verdict{Possibly: true, Reason: "ends mid-declaration with " + suf}
	}
	return Verdict{}
}

// CodeDetector checks TSX/JS modules.
type CodeDetector struct {
	MinLength int
}

var codeKeyword = regexp.MustCompile(`\b(export|function|const|return)\b`)

func (CodeDetector) Name() string { return "code" }

func (d CodeDetector) Inspect(content string) Verdict {
	s := strings.TrimSpace(content)
	switch {
	case s == "":
		return Verdict{Possibly: true, Definitely: true, Reason: "empty content"}
	case !balanced(s, '{', '}'):
		return Verdict{Possibly: true, Definitely: true, Reason: "unbalanced braces"}
	case !balanced(s, '(', ')'):
		return Verdict{Possibly: true, Definitely: true, Reason: "unbalanced parentheses"}
	case !codeKeyword.MatchString(s):
		return Verdict{Possibly: true, Definitely: true, Reason: "no export, function, const or return"}
	case len(s) < d.MinLength:
		return Verdict{Possibly: true, Definitely: true, Reason: "content too short"}
	}
	if suf, ok := endsWithAny(s, openers...); ok {
		return Verdict{Possibly: true, Definitely: true, Reason: "ends with dangling " + suf}
	}
	if suf, ok := endsWithAny(s, "&&", "||", ",", "="); ok {
		return Verdict{Possibly: true, Reason: "ends with dangling " + suf}
	}
	return Verdict{}
}

// ConfigDetector checks JS tool configs such as tailwind.config.js.
type ConfigDetector struct {
	MinLength int
}

var configExport = regexp.MustCompile(`\b(module\.exports|exports|export)\b`)

func (ConfigDetector) Name() string { return "config" }

func (d ConfigDetector) Inspect(content string) Verdict {
	s := strings.TrimSpace(content)
	switch {
	case s == "":
		return Verdict{Possibly: true, Definitely: true, Reason: "empty content"}
	case !balanced(s, '{', '}'):
		return Verdict{Possibly: true, Definitely: true, Reason: "unbalanced braces"}
	case !configExport.MatchString(s):
		return Verdict{Possibly: true, Definitely: true, Reason: "no module.exports or export"}
	case len(s) < d.MinLength:
		return Verdict{Possibly: true, Definitely: true, Reason: "content too short"}
	}
	if suf, ok := endsWithAny(s, openers...); ok {
		return Verdict{Possibly: true, Definitely: true, Reason: "ends mid-statement with " + suf}
	}
	if suf, ok := endsWithAny(s, ",", "=", ":"); ok {
		return Verdict{Possibly: true, Reason: "ends mid-statement with " + suf}
	}
	return Verdict{}
}

// JSONDetector requires a syntactically valid document.
type JSONDetector struct{}

func (JSONDetector) Name() string { return "json" }

func (JSONDetector) Inspect(content string) Verdict {
	s := strings.TrimSpace(content)
	if s == "" {
		return Verdict{Possibly: true, Definitely: true, Reason: "empty content"}
	}
	if !json.Valid([]byte(s)) {
		return Verdict{Possibly: true, Definitely: true, Reason: "invalid json"}
	}
	return Verdict{}
}

// MarkdownDetector only rejects empty documents.
type MarkdownDetector struct{}

func (MarkdownDetector) Name() string { return "markdown" }

func (MarkdownDetector) Inspect(content string) Verdict {
	if strings.TrimSpace(content) == "" {
		return Verdict{Possibly: true, Definitely: true, Reason: "empty content"}
	}
	return Verdict{}
}
