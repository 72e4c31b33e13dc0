package pipeline

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"sitegen_server/internal/ai/prompts"
	"sitegen_server/internal/metrics"
	"sitegen_server/internal/types"
	"sitegen_server/internal/utils"
	"sitegen_server/internal/validator"
)

func kindOf(p string) types.Kind { return utils.DetermineKind(p) }

func customPath(name string) string { return "components/" + name + ".tsx" }

func (o *Orchestrator) baseStructure(ctx context.Context, rs *runState, _ types.GenerationResult) ([]types.FileArtifact, error) {
	out := make([]types.FileArtifact, 0, len(BaseFiles))
	var existing []string
	for _, p := range BaseFiles {
		budget := o.opts.BaseFileTokens
		if p == "app/page.tsx" {
			budget = o.opts.PageTokens
		}
		prompt := prompts.GetBaseFilePrompt(rs.bp, p, existing)
		out = append(out, o.generateFile(ctx, rs, PhaseBaseStructure, p, prompt, budget))
		existing = append(existing, p)
	}
	return out, nil
}

func baseFallback(rs *runState) []types.FileArtifact {
	out := make([]types.FileArtifact, 0, len(BaseFiles))
	for _, p := range BaseFiles {
		out = append(out, types.FileArtifact{Path: p, Content: validator.Fallback(p, kindOf(p), rs.bp), Kind: kindOf(p)})
	}
	return out
}

func (o *Orchestrator) stateScaffolding(_ context.Context, rs *runState, _ types.GenerationResult) ([]types.FileArtifact, error) {
	return stateFallback(rs), nil
}

func stateFallback(rs *runState) []types.FileArtifact {
	return render(stateTemplates(rs.bp))
}

func (o *Orchestrator) businessComponents(ctx context.Context, rs *runState, _ types.GenerationResult) ([]types.FileArtifact, error) {
	return o.cachedTemplates(ctx, rs, PhaseBusinessComponents, businessTemplates(rs.bp)), nil
}

func businessFallback(rs *runState) []types.FileArtifact {
	return render(businessTemplates(rs.bp))
}

func (o *Orchestrator) extendedTemplates(ctx context.Context, rs *runState, _ types.GenerationResult) ([]types.FileArtifact, error) {
	return o.cachedTemplates(ctx, rs, PhaseExtendedTemplates, extendedTemplates(rs.bp)), nil
}

func extendedFallback(rs *runState) []types.FileArtifact {
	return render(extendedTemplates(rs.bp))
}

func render(ts []template) []types.FileArtifact {
	out := make([]types.FileArtifact, 0, len(ts))
	for _, t := range ts {
		out = append(out, types.FileArtifact{Path: t.Path, Content: t.Code, Kind: types.KindTSX})
	}
	return out
}

const (
	roleBusiness = "business"
	roleFeature  = "features"
)

// cacheName namespaces template artifacts by role so they never share an
// entry with a custom component of the same name. Custom component names
// are identifiers and cannot contain a dot.
func (t template) cacheName() string {
	if t.Role == "" {
		return t.Name
	}
	return t.Role + "." + t.Name
}

// cachedTemplates emits cached code where present and renders and stores
// the template otherwise. No model call is made.
func (o *Orchestrator) cachedTemplates(ctx context.Context, rs *runState, phase PhaseName, ts []template) []types.FileArtifact {
	out := make([]types.FileArtifact, 0, len(ts))
	for _, t := range ts {
		if cached, ok := o.store.Get(t.cacheName(), rs.style, rs.tech); ok {
			out = append(out, types.FileArtifact{Path: t.Path, Content: cached.Code, Kind: types.KindTSX})
			continue
		}
		out = append(out, types.FileArtifact{Path: t.Path, Content: t.Code, Kind: types.KindTSX})
		o.remember(ctx, rs, phase, t.cacheName(), t.Code)
	}
	return out
}

func (o *Orchestrator) remember(ctx context.Context, rs *runState, phase PhaseName, name, code string) {
	err := o.store.Put(ctx, types.CachedArtifact{Name: name, Code: code, Style: rs.style, Tech: rs.tech})
	if err != nil {
		o.logger.Warn("cache write failed", zap.String("phase", string(phase)), zap.String("name", name), zap.Error(err))
		rs.warn(phase, name, "cache write failed: "+err.Error())
	}
}

// requestedComponents returns the normalised custom component names.
func requestedComponents(bp *types.Blueprint) []string {
	seen := map[string]bool{}
	var names []string
	for _, raw := range bp.Components {
		n := utils.ComponentName(raw)
		if seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

// batchTargets splits the custom components into cached names and the
// capped list that needs a model call.
func (o *Orchestrator) batchTargets(rs *runState) (cached, requested []string) {
	all := requestedComponents(rs.bp)
	uncached := o.store.FilterUncached(all, rs.style, rs.tech)
	miss := make(map[string]bool, len(uncached))
	for _, n := range uncached {
		miss[n] = true
	}
	for _, n := range all {
		if !miss[n] {
			cached = append(cached, n)
		}
	}
	requested = uncached
	if limit := o.opts.MaxCustomComponents; len(requested) > limit {
		if limit < 0 {
			limit = 0
		}
		o.logger.Info("custom components over cap, omitting the rest",
			zap.Int("cap", limit),
			zap.Strings("omitted", requested[limit:]))
		requested = requested[:limit]
	}
	return cached, requested
}

func (o *Orchestrator) customComponents(ctx context.Context, rs *runState, _ types.GenerationResult) ([]types.FileArtifact, error) {
	cached, requested := o.batchTargets(rs)

	var out []types.FileArtifact
	for _, n := range cached {
		a, ok := o.store.Get(n, rs.style, rs.tech)
		if !ok {
			continue
		}
		out = append(out, types.FileArtifact{Path: customPath(n), Content: a.Code, Kind: types.KindTSX})
	}
	if len(requested) == 0 {
		return out, nil
	}

	raw, err := o.complete(ctx, rs, PhaseCustomComponents, prompts.GetComponentBatchPrompt(rs.bp, requested), o.opts.ComponentTokens)
	if err != nil {
		return append(out, o.componentBatchFallback(rs, requested, "completion failed: "+err.Error())...), nil
	}

	valid, reason := o.acceptBatch(raw, requested)
	if reason != "" {
		return append(out, o.componentBatchFallback(rs, requested, reason)...), nil
	}

	for _, n := range requested {
		out = append(out, types.FileArtifact{Path: customPath(n), Content: valid[n], Kind: types.KindTSX})
		o.remember(ctx, rs, PhaseCustomComponents, n, valid[n])
	}
	return out, nil
}

// acceptBatch decodes a batched response and checks every requested
// component. It returns a non-empty reason unless all of them are usable.
func (o *Orchestrator) acceptBatch(raw string, requested []string) (map[string]string, string) {
	files, err := validator.DecodeComponentBatch(raw)
	if err != nil {
		return nil, err.Error()
	}

	want := make(map[string]bool, len(requested))
	for _, n := range requested {
		want[n] = true
	}
	valid := make(map[string]string, len(requested))
	var rejected []string
	for _, f := range files {
		name := f.Name
		if name == "" {
			name = strings.TrimSuffix(path.Base(f.Filename), path.Ext(f.Filename))
		}
		name = utils.ComponentName(name)
		if !want[name] {
			continue
		}
		code := validator.StripFences(f.Body())
		p := customPath(name)
		if !o.validator.Disabled() {
			if v := o.validator.Check(p, types.KindTSX, code); v.Definitely {
				rejected = append(rejected, name+": "+v.Reason)
				continue
			}
		}
		valid[name] = code
	}

	if len(valid) == len(requested) {
		return valid, ""
	}
	sort.Strings(rejected)
	reason := fmt.Sprintf("partial batch: %d of %d components usable", len(valid), len(requested))
	if len(rejected) > 0 {
		reason += " (" + strings.Join(rejected, "; ") + ")"
	}
	return nil, reason
}

// componentBatchFallback replaces the whole requested set. Fallbacks are
// not written to the cache.
func (o *Orchestrator) componentBatchFallback(rs *runState, requested []string, reason string) []types.FileArtifact {
	o.logger.Warn("custom component batch rejected, using fallbacks",
		zap.Strings("components", requested),
		zap.String("reason", reason))
	rs.warn(PhaseCustomComponents, "", reason)
	metrics.Fallbacks.WithLabelValues(string(PhaseCustomComponents), "batch").Inc()

	out := make([]types.FileArtifact, 0, len(requested))
	for _, n := range requested {
		p := customPath(n)
		out = append(out, types.FileArtifact{Path: p, Content: validator.Fallback(p, types.KindTSX, rs.bp), Kind: types.KindTSX})
	}
	return out
}

func (o *Orchestrator) customFallback(rs *runState) []types.FileArtifact {
	_, requested := o.batchTargets(rs)
	out := make([]types.FileArtifact, 0, len(requested))
	for _, n := range requested {
		p := customPath(n)
		out = append(out, types.FileArtifact{Path: p, Content: validator.Fallback(p, types.KindTSX, rs.bp), Kind: types.KindTSX})
	}
	return out
}

func (o *Orchestrator) pageBodies(ctx context.Context, rs *runState, files types.GenerationResult) ([]types.FileArtifact, error) {
	components := availableComponents(files)
	var out []types.FileArtifact
	for _, page := range SelectPages(rs.bp.PagesStructure.Public, o.opts.PagePriorities, o.opts.MaxPages) {
		p := utils.PagePath(page.Path)
		prompt := prompts.GetPagePrompt(rs.bp, page, components)
		out = append(out, o.generateFile(ctx, rs, PhasePageBodies, p, prompt, o.opts.PageTokens))
	}
	return out, nil
}

func (o *Orchestrator) pageFallback(rs *runState) []types.FileArtifact {
	var out []types.FileArtifact
	for _, page := range SelectPages(rs.bp.PagesStructure.Public, o.opts.PagePriorities, o.opts.MaxPages) {
		p := utils.PagePath(page.Path)
		out = append(out, types.FileArtifact{Path: p, Content: validator.Fallback(p, types.KindTSX, rs.bp), Kind: types.KindTSX})
	}
	return out
}

// availableComponents lists top-level component names in files, sorted.
func availableComponents(files types.GenerationResult) []string {
	var names []string
	for p := range files {
		dir, file := path.Split(p)
		if dir != "components/" || path.Ext(file) != ".tsx" {
			continue
		}
		names = append(names, strings.TrimSuffix(file, ".tsx"))
	}
	sort.Strings(names)
	return names
}
