// Package compress shrinks outbound prompt text before it is sent to the
// completion service. The transform is deterministic: the same input always
// yields the same output, and fenced code blocks are passed through as-is.
package compress

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// DefaultMinSize is the prompt length below which compression is skipped.
const DefaultMinSize = 200

// Stats describes one compression. The numbers are informational only.
type Stats struct {
	Original     int     `json:"original"`
	Compressed   int     `json:"compressed"`
	SavedPercent float64 `json:"savedPercent"`
}

// Add accumulates s into t.
func (t *Stats) Add(s Stats) {
	t.Original += s.Original
	t.Compressed += s.Compressed
	if t.Original > 0 {
		t.SavedPercent = float64(t.Original-t.Compressed) * 100 / float64(t.Original)
	}
}

// Memo caches compressed prompts keyed by a digest of the input.
type Memo interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type replacement struct {
	re   *regexp.Regexp
	with string
}

// Filler phrases that carry no instruction. Order matters: longer phrases
// are matched before their prefixes.
var fillers = []replacement{
	{regexp.MustCompile(`(?i)\bit is (very )?important (that|to) `), ""},
	{regexp.MustCompile(`(?i)\bmake sure (that |to )?`), ""},
	{regexp.MustCompile(`(?i)\bplease note that `), ""},
	{regexp.MustCompile(`(?i)\bplease\s+`), ""},
	{regexp.MustCompile(`(?i)\bkindly\s+`), ""},
	{regexp.MustCompile(`(?i)\bin order to\b`), "to"},
	{regexp.MustCompile(`(?i)\bas well as\b`), "and"},
	{regexp.MustCompile(`(?i)\bbasically\s+`), ""},
	{regexp.MustCompile(`(?i)\bactually\s+`), ""},
}

var (
	spaceRun    = regexp.MustCompile(`[ \t]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	spaceBefore = regexp.MustCompile(` +([,.;:!?])`)
)

// Compressor applies the text transform.
type Compressor struct {
	minSize int
	memo    Memo
}

// New creates a Compressor that leaves prompts shorter than minSize alone.
// memo may be nil.
func New(minSize int, memo Memo) *Compressor {
	if minSize < 0 {
		minSize = 0
	}
	return &Compressor{minSize: minSize, memo: memo}
}

// Compress returns the compressed prompt and its statistics.
func (c *Compressor) Compress(prompt string) (string, Stats) {
	if len(prompt) < c.minSize {
		return prompt, Stats{Original: len(prompt), Compressed: len(prompt)}
	}

	var key string
	if c.memo != nil {
		sum := sha256.Sum256([]byte(prompt))
		key = "prompt:" + hex.EncodeToString(sum[:])
		if out, ok := c.memo.Get(key); ok {
			return out, stats(prompt, out)
		}
	}

	out := compress(prompt)
	if c.memo != nil {
		c.memo.Set(key, out)
	}
	return out, stats(prompt, out)
}

func stats(in, out string) Stats {
	s := Stats{Original: len(in), Compressed: len(out)}
	if s.Original > 0 {
		s.SavedPercent = float64(s.Original-s.Compressed) * 100 / float64(s.Original)
	}
	return s
}

func compress(prompt string) string {
	prompt = strings.ReplaceAll(prompt, "\r\n", "\n")

	// Even segments are prose, odd segments are inside ``` fences.
	segments := strings.Split(prompt, "```")
	for i := 0; i < len(segments); i += 2 {
		segments[i] = compressProse(segments[i])
	}
	return strings.TrimSpace(strings.Join(segments, "```"))
}

func compressProse(text string) string {
	for _, f := range fillers {
		text = f.re.ReplaceAllString(text, f.with)
	}
	text = spaceRun.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return spaceBefore.ReplaceAllString(text, "$1")
}
