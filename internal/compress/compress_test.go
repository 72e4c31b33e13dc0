package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapMemo map[string]string

func (m mapMemo) Get(k string) (string, bool) { v, ok := m[k]; return v, ok }
func (m mapMemo) Set(k, v string)             { m[k] = v }

const samplePrompt = `Project:    Acme Store
Domain: ecommerce


Please generate the file ` + "`app/page.tsx`" + `.   It is important that you make sure to use Tailwind classes ,
in order to keep styling consistent as well as responsive.



Respond with JSON in the following format:

` + "```json\n{\n    \"components\":   []\n}\n```" + `

Please note that only JSON is accepted.`

func TestCompress_StripsFillerAndWhitespace(t *testing.T) {
	c := New(0, nil)
	out, st := c.Compress(samplePrompt)

	assert.NotContains(t, out, "Please")
	assert.NotContains(t, out, "It is important")
	assert.NotContains(t, out, "make sure")
	assert.Contains(t, out, "to keep styling consistent and responsive")
	assert.Contains(t, out, "Project: Acme Store")
	assert.NotContains(t, out, "\n\n\n")
	assert.Contains(t, out, "use Tailwind classes,")

	assert.Equal(t, len(samplePrompt), st.Original)
	assert.Equal(t, len(out), st.Compressed)
	assert.Greater(t, st.SavedPercent, 0.0)
}

func TestCompress_LeavesFencedBlocksIntact(t *testing.T) {
	c := New(0, nil)
	out, _ := c.Compress(samplePrompt)
	assert.Contains(t, out, "```json\n{\n    \"components\":   []\n}\n```")
}

func TestCompress_Deterministic(t *testing.T) {
	c := New(0, nil)
	a, _ := c.Compress(samplePrompt)
	b, _ := c.Compress(samplePrompt)
	assert.Equal(t, a, b)

	again, _ := c.Compress(a)
	assert.Equal(t, a, again)
}

func TestCompress_BelowMinSizeUntouched(t *testing.T) {
	c := New(DefaultMinSize, nil)
	in := "Please   keep this."
	out, st := c.Compress(in)
	assert.Equal(t, in, out)
	assert.Equal(t, 0.0, st.SavedPercent)
}

func TestCompress_UsesMemo(t *testing.T) {
	memo := mapMemo{}
	c := New(0, memo)
	first, _ := c.Compress(samplePrompt)
	assert.Len(t, memo, 1)

	for k := range memo {
		memo[k] = "memoised"
	}
	second, st := c.Compress(samplePrompt)
	assert.Equal(t, "memoised", second)
	assert.NotEqual(t, first, second)
	assert.Equal(t, len("memoised"), st.Compressed)
}

func TestStats_Add(t *testing.T) {
	var total Stats
	total.Add(Stats{Original: 100, Compressed: 80})
	total.Add(Stats{Original: 100, Compressed: 60})
	assert.Equal(t, 200, total.Original)
	assert.Equal(t, 140, total.Compressed)
	assert.InDelta(t, 30.0, total.SavedPercent, 0.001)
}
