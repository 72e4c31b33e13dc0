package types

import "strings"

// Kind is the artifact content kind used to pick a validation strategy.
type Kind string

const (
	KindJSON Kind = "json"
	KindCSS  Kind = "css"
	KindTSX  Kind = "tsx"
	KindJS   Kind = "js"
	KindMD   Kind = "md"
)

// Priority of a public page in the blueprint.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Domain is the closed set of application domains a blueprint may declare.
type Domain string

const (
	DomainEcommerce  Domain = "ecommerce"
	DomainSaaS       Domain = "saas"
	DomainPortfolio  Domain = "portfolio"
	DomainBlog       Domain = "blog"
	DomainRestaurant Domain = "restaurant"
	DomainLanding    Domain = "landing"
)

// Domains lists every accepted domain in a stable order.
var Domains = []Domain{DomainEcommerce, DomainSaaS, DomainPortfolio, DomainBlog, DomainRestaurant, DomainLanding}

// Metadata describes the application being generated.
type Metadata struct {
	Name        string `json:"name" yaml:"name"`
	Domain      Domain `json:"domain" yaml:"domain"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Style       string `json:"style,omitempty" yaml:"style,omitempty"` // visual style, e.g. "modern"
}

// TechStack of the generated application.
type TechStack struct {
	Framework string `json:"framework,omitempty" yaml:"framework,omitempty"`
	Styling   string `json:"styling,omitempty" yaml:"styling,omitempty"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
}

// PageSpec is one public page requested by the blueprint.
type PageSpec struct {
	Path     string   `json:"path" yaml:"path"`
	Name     string   `json:"name" yaml:"name"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// PagesStructure groups the blueprint's pages.
type PagesStructure struct {
	Public []PageSpec `json:"public" yaml:"public"`
}

// Blueprint is the immutable input of a generation run.
type Blueprint struct {
	Metadata       Metadata       `json:"metadata" yaml:"metadata"`
	TechStack      TechStack      `json:"techStack" yaml:"techStack"`
	PagesStructure PagesStructure `json:"pagesStructure" yaml:"pagesStructure"`
	Components     []string       `json:"components" yaml:"components"`
	Features       []string       `json:"features" yaml:"features"`
}

// HasFeature reports whether the blueprint requests the named feature.
func (b *Blueprint) HasFeature(name string) bool {
	for _, f := range b.Features {
		if strings.EqualFold(strings.TrimSpace(f), name) {
			return true
		}
	}
	return false
}

// FileArtifact is a single generated file.
type FileArtifact struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Kind    Kind   `json:"kind"`
}

// CachedArtifact is a reusable artifact keyed by (Name, Style, Tech).
type CachedArtifact struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Style   string `json:"style"`
	Tech    string `json:"tech"`
	Version int    `json:"version"`
}

// GenerationResult is the virtual file system produced by a run.
type GenerationResult map[string]string

// Clone returns a shallow copy of the file map.
func (r GenerationResult) Clone() GenerationResult {
	out := make(GenerationResult, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Warning is a structured event raised when an artifact was replaced
// or a phase fell back.
type Warning struct {
	Phase  string `json:"phase"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason"`
}

// GeneratedFile is the shape the model is asked to return for batched files.
type GeneratedFile struct {
	Name     string `json:"name,omitempty"`
	Filename string `json:"filename,omitempty"`
	Type     string `json:"type,omitempty"` // e.g., "tsx", "css", "json"
	Content  string `json:"content,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Body returns whichever content field the model filled in.
func (f GeneratedFile) Body() string {
	if f.Code != "" {
		return f.Code
	}
	return f.Content
}
