package pipeline

import (
	"sitegen_server/internal/types"
	"sitegen_server/internal/utils"
)

// Options bound the work a single run may do.
type Options struct {
	Model       string
	Temperature float32

	// Per-call token budgets.
	BaseFileTokens  int
	PageTokens      int
	ComponentTokens int

	MaxPages            int
	MaxCustomComponents int
	PagePriorities      []types.Priority
}

func DefaultOptions() Options {
	return Options{
		Temperature:         0.3,
		BaseFileTokens:      1500,
		PageTokens:          2500,
		ComponentTokens:     4000,
		MaxPages:            5,
		MaxCustomComponents: 6,
		PagePriorities:      []types.Priority{types.PriorityHigh, types.PriorityMedium},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BaseFileTokens <= 0 {
		o.BaseFileTokens = d.BaseFileTokens
	}
	if o.PageTokens <= 0 {
		o.PageTokens = d.PageTokens
	}
	if o.ComponentTokens <= 0 {
		o.ComponentTokens = d.ComponentTokens
	}
	// Zero means the default; a negative cap disables the phase's calls.
	if o.MaxPages == 0 {
		o.MaxPages = d.MaxPages
	}
	if o.MaxCustomComponents == 0 {
		o.MaxCustomComponents = d.MaxCustomComponents
	}
	if len(o.PagePriorities) == 0 {
		o.PagePriorities = d.PagePriorities
	}
	return o
}

// SelectPages filters pages by priority, drops the homepage and keeps at
// most limit of the rest in declared order. Pages past the cap are omitted.
func SelectPages(pages []types.PageSpec, allowed []types.Priority, limit int) []types.PageSpec {
	ok := make(map[types.Priority]bool, len(allowed))
	for _, p := range allowed {
		ok[p] = true
	}
	var out []types.PageSpec
	for _, p := range pages {
		if len(out) >= limit {
			break
		}
		if !ok[p.Priority] || isHome(p.Path) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// isHome reports whether path renders to app/page.tsx.
func isHome(path string) bool {
	return utils.Slug(path) == ""
}
