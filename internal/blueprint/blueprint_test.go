package blueprint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitegen_server/internal/types"
)

const validJSON = `{
  "metadata": {"name": "Acme Store", "domain": "ecommerce", "description": "Shoes"},
  "techStack": {"framework": "Next.js"},
  "pagesStructure": {"public": [
    {"path": "/", "name": "Home", "priority": "high"},
    {"path": "/products", "name": "Products", "priority": "high"},
    {"path": "/blog", "priority": "low"},
    {"path": "/about"}
  ]},
  "components": ["ProductCard", "CartDrawer", "ProductCard"],
  "features": ["search", "cart"]
}`

const validYAML = `metadata:
  name: Folio
  domain: Portfolio
pagesStructure:
  public:
    - path: /work
      name: Work
      priority: high
components: [Gallery]
`

func TestParse_JSON(t *testing.T) {
	bp, err := Parse([]byte(validJSON), "json")
	require.NoError(t, err)

	assert.Equal(t, types.DomainEcommerce, bp.Metadata.Domain)
	assert.Equal(t, DefaultStyle, bp.Metadata.Style)
	assert.Equal(t, DefaultStyling, bp.TechStack.Styling)
	assert.Equal(t, []string{"ProductCard", "CartDrawer"}, bp.Components)
	assert.Equal(t, types.PriorityMedium, bp.PagesStructure.Public[3].Priority)
	assert.Equal(t, "blog", bp.PagesStructure.Public[2].Name)
	assert.Equal(t, "nextjs", TechID(bp))
	assert.True(t, bp.HasFeature("Cart"))
}

func TestParse_YAML(t *testing.T) {
	bp, err := Parse([]byte(validYAML), "yaml")
	require.NoError(t, err)
	assert.Equal(t, types.DomainPortfolio, bp.Metadata.Domain)
	assert.Equal(t, "nextjs", bp.TechStack.Framework)
	assert.Equal(t, []string{"Gallery"}, bp.Components)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown domain":   `{"metadata":{"name":"x","domain":"crypto"}}`,
		"missing domain":   `{"metadata":{"name":"x"}}`,
		"missing name":     `{"metadata":{"domain":"blog"}}`,
		"bad priority":     `{"metadata":{"name":"x","domain":"blog"},"pagesStructure":{"public":[{"path":"/a","priority":"urgent"}]}}`,
		"relative path":    `{"metadata":{"name":"x","domain":"blog"},"pagesStructure":{"public":[{"path":"a","priority":"high"}]}}`,
		"not json":         `metadata: {`,
		"wrong field type": `{"metadata":{"name":"x","domain":"blog"},"components":"Button"}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), "json")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "bp.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(validYAML), 0o644))
	jsonPath := filepath.Join(dir, "bp.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(validJSON), 0o644))

	bp, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Folio", bp.Metadata.Name)

	bp, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Acme Store", bp.Metadata.Name)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestValidate_Nil(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrInvalid)
}

func TestNormalize_Idempotent(t *testing.T) {
	bp, err := Parse([]byte(validJSON), "json")
	require.NoError(t, err)
	before := *bp
	Normalize(bp)
	assert.Equal(t, before, *bp)
}
