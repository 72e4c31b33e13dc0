// Package blueprint decodes and validates generation inputs. Every
// blueprint entering the pipeline passes through Validate.
package blueprint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"sitegen_server/internal/types"
)

// ErrInvalid marks a blueprint that must not be generated.
var ErrInvalid = errors.New("invalid blueprint")

const (
	DefaultFramework = "nextjs"
	DefaultStyling   = "tailwind"
	DefaultLanguage  = "typescript"
	DefaultStyle     = "modern"
)

const schemaJSON = `{
  "type": "object",
  "required": ["metadata"],
  "properties": {
    "metadata": {
      "type": "object",
      "required": ["name", "domain"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "domain": {"type": "string", "enum": ["ecommerce", "saas", "portfolio", "blog", "restaurant", "landing"]},
        "description": {"type": "string"},
        "style": {"type": "string"}
      }
    },
    "techStack": {
      "type": "object",
      "properties": {
        "framework": {"type": "string"},
        "styling": {"type": "string"},
        "language": {"type": "string"}
      }
    },
    "pagesStructure": {
      "type": "object",
      "properties": {
        "public": {
          "type": ["array", "null"],
          "items": {
            "type": "object",
            "required": ["path", "priority"],
            "properties": {
              "path": {"type": "string", "pattern": "^/"},
              "name": {"type": "string"},
              "priority": {"type": "string", "enum": ["high", "medium", "low"]}
            }
          }
        }
      }
    },
    "components": {"type": ["array", "null"], "items": {"type": "string", "minLength": 1}},
    "features": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var schema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("blueprint schema: %v", err))
	}
	return s
}

// Load reads a blueprint file. ".yaml" and ".yml" are decoded as YAML,
// everything else as JSON.
func Load(path string) (*types.Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint: %w", err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return Parse(data, format)
}

// Parse decodes, normalizes and validates a blueprint document.
func Parse(data []byte, format string) (*types.Blueprint, error) {
	var bp types.Blueprint
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &bp); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalid, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&bp); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalid, err)
		}
	}
	Normalize(&bp)
	if err := Validate(&bp); err != nil {
		return nil, err
	}
	return &bp, nil
}

// Normalize fills defaults in place. It is idempotent.
func Normalize(bp *types.Blueprint) {
	bp.Metadata.Name = strings.TrimSpace(bp.Metadata.Name)
	bp.Metadata.Domain = types.Domain(strings.ToLower(strings.TrimSpace(string(bp.Metadata.Domain))))
	bp.Metadata.Style = strings.ToLower(strings.TrimSpace(bp.Metadata.Style))
	if bp.Metadata.Style == "" {
		bp.Metadata.Style = DefaultStyle
	}

	if bp.TechStack.Framework == "" {
		bp.TechStack.Framework = DefaultFramework
	}
	if bp.TechStack.Styling == "" {
		bp.TechStack.Styling = DefaultStyling
	}
	if bp.TechStack.Language == "" {
		bp.TechStack.Language = DefaultLanguage
	}

	for i := range bp.PagesStructure.Public {
		p := &bp.PagesStructure.Public[i]
		p.Path = strings.TrimSpace(p.Path)
		p.Priority = types.Priority(strings.ToLower(strings.TrimSpace(string(p.Priority))))
		if p.Priority == "" {
			p.Priority = types.PriorityMedium
		}
		if p.Name == "" {
			p.Name = strings.Trim(p.Path, "/")
			if p.Name == "" {
				p.Name = "Home"
			}
		}
	}

	bp.Components = dedupe(bp.Components)
	bp.Features = dedupe(bp.Features)
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Validate checks bp against the blueprint schema, including the closed
// domain set. Unknown domains are rejected.
func Validate(bp *types.Blueprint) error {
	if bp == nil {
		return fmt.Errorf("%w: nil blueprint", ErrInvalid)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(bp))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	if !knownDomain(bp.Metadata.Domain) {
		return fmt.Errorf("%w: unknown domain %q", ErrInvalid, bp.Metadata.Domain)
	}
	return nil
}

func knownDomain(d types.Domain) bool {
	for _, known := range types.Domains {
		if d == known {
			return true
		}
	}
	return false
}

// Style returns the visual style used in cache keys.
func Style(bp *types.Blueprint) string {
	if bp.Metadata.Style == "" {
		return DefaultStyle
	}
	return bp.Metadata.Style
}

// TechID returns the tech component of cache keys, e.g. "Next.js" becomes
// "nextjs".
func TechID(bp *types.Blueprint) string {
	id := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, bp.TechStack.Framework)
	if id == "" {
		return DefaultFramework
	}
	return id
}
