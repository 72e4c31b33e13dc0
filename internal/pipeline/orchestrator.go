// Package pipeline runs the fixed sequence of generation phases that turn a
// blueprint into a file tree. Phases run one after another and every
// network call goes through the pacing gate first. A failing phase never
// aborts the run: its deterministic fallback set is used instead.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitegen_server/internal/ai"
	"sitegen_server/internal/ai/prompts"
	"sitegen_server/internal/assembler"
	"sitegen_server/internal/blueprint"
	"sitegen_server/internal/compress"
	"sitegen_server/internal/logger"
	"sitegen_server/internal/metrics"
	"sitegen_server/internal/pacing"
	"sitegen_server/internal/types"
	"sitegen_server/internal/validator"
)

// PhaseName identifies a generation phase.
type PhaseName string

const (
	PhaseBaseStructure      PhaseName = "base-structure"
	PhaseStateScaffolding   PhaseName = "state-scaffolding"
	PhaseBusinessComponents PhaseName = "business-components"
	PhaseExtendedTemplates  PhaseName = "extended-templates"
	PhaseCustomComponents   PhaseName = "custom-components"
	PhasePageBodies         PhaseName = "page-bodies"

	phaseAssemble PhaseName = "assemble"
)

// BaseFiles are generated one request each, in this order. Later files may
// reference earlier ones.
var BaseFiles = []string{
	"package.json",
	"tsconfig.json",
	"next.config.js",
	"tailwind.config.js",
	"postcss.config.js",
	"app/globals.css",
	"app/layout.tsx",
	"app/page.tsx",
}

// ArtifactStore is the cache capability the orchestrator needs.
type ArtifactStore interface {
	Get(name, style, tech string) (types.CachedArtifact, bool)
	Put(ctx context.Context, a types.CachedArtifact) error
	FilterUncached(names []string, style, tech string) []string
}

// Deps are the collaborators of an Orchestrator. Client and Store are
// required.
type Deps struct {
	Client     ai.Completer
	Store      ArtifactStore
	Validator  *validator.Validator
	Compressor *compress.Compressor
	Gate       pacing.Gate
	Logger     *zap.Logger
}

type Orchestrator struct {
	client     ai.Completer
	store      ArtifactStore
	validator  *validator.Validator
	compressor *compress.Compressor
	gate       pacing.Gate
	opts       Options
	logger     *zap.Logger
}

func New(deps Deps, opts Options) (*Orchestrator, error) {
	if deps.Client == nil {
		return nil, errors.New("pipeline: completion client is required")
	}
	if deps.Store == nil {
		return nil, errors.New("pipeline: artifact store is required")
	}
	log := logger.OrNop(deps.Logger)
	o := &Orchestrator{
		client:     deps.Client,
		store:      deps.Store,
		validator:  deps.Validator,
		compressor: deps.Compressor,
		gate:       deps.Gate,
		opts:       opts.withDefaults(),
		logger:     log.Named("pipeline"),
	}
	if o.validator == nil {
		o.validator = validator.New(log)
	}
	if o.compressor == nil {
		o.compressor = compress.New(compress.DefaultMinSize, nil)
	}
	if o.gate == nil {
		o.gate = pacing.NewIntervalGate(pacing.DefaultInterval)
	}
	return o, nil
}

// PhaseReport summarises one phase of a run.
type PhaseReport struct {
	Name     PhaseName     `json:"name"`
	Files    int           `json:"files"`
	Calls    int           `json:"calls"`
	Fallback bool          `json:"fallback"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Run is the outcome of one Generate call.
type Run struct {
	ID          string                 `json:"projectId"`
	Files       types.GenerationResult `json:"files"`
	Warnings    []types.Warning        `json:"warnings"`
	Calls       int                    `json:"calls"`
	Phases      []PhaseReport          `json:"phases"`
	Compression compress.Stats         `json:"compression"`
	Repaired    []string               `json:"repaired,omitempty"`
}

// runState is the mutable bookkeeping of one run.
type runState struct {
	id          string
	bp          *types.Blueprint
	style       string
	tech        string
	warnings    []types.Warning
	calls       int
	compression compress.Stats
}

func (rs *runState) warn(phase PhaseName, path, reason string) {
	rs.warnings = append(rs.warnings, types.Warning{Phase: string(phase), Path: path, Reason: reason})
}

type phaseDef struct {
	Name     PhaseName
	Run      func(ctx context.Context, rs *runState, files types.GenerationResult) ([]types.FileArtifact, error)
	Fallback func(rs *runState) []types.FileArtifact
}

func (o *Orchestrator) phases() []phaseDef {
	return []phaseDef{
		{PhaseBaseStructure, o.baseStructure, baseFallback},
		{PhaseStateScaffolding, o.stateScaffolding, stateFallback},
		{PhaseBusinessComponents, o.businessComponents, businessFallback},
		{PhaseExtendedTemplates, o.extendedTemplates, extendedFallback},
		{PhaseCustomComponents, o.customComponents, o.customFallback},
		{PhasePageBodies, o.pageBodies, o.pageFallback},
	}
}

// Generate runs every phase for bp. Only an invalid blueprint, rejected
// before any network call, or a cancelled context yields an error.
func (o *Orchestrator) Generate(ctx context.Context, bp *types.Blueprint) (*Run, error) {
	if bp == nil {
		return nil, fmt.Errorf("%w: nil blueprint", blueprint.ErrInvalid)
	}
	b := cloneBlueprint(bp)
	blueprint.Normalize(b)
	if err := blueprint.Validate(b); err != nil {
		return nil, err
	}

	rs := &runState{
		id:    uuid.New().String(),
		bp:    b,
		style: blueprint.Style(b),
		tech:  blueprint.TechID(b),
	}
	log := o.logger.With(zap.String("run", rs.id))
	log.Info("generation started",
		zap.String("name", b.Metadata.Name),
		zap.String("domain", string(b.Metadata.Domain)))

	files := types.GenerationResult{}
	var reports []PhaseReport
	for _, p := range o.phases() {
		arts, report := o.runPhase(ctx, rs, p, files.Clone())
		files = assembler.Merge(files, arts)
		reports = append(reports, report)
	}

	files, repaired := assembler.Repair(files, b)
	for _, inv := range repaired {
		rs.warn(phaseAssemble, "", "repaired invariant "+inv)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation %s cancelled: %w", rs.id, err)
	}

	log.Info("generation finished",
		zap.Int("files", len(files)),
		zap.Int("calls", rs.calls),
		zap.Int("warnings", len(rs.warnings)),
		zap.Float64("prompt_saved_pct", rs.compression.SavedPercent))

	return &Run{
		ID:          rs.id,
		Files:       files,
		Warnings:    rs.warnings,
		Calls:       rs.calls,
		Phases:      reports,
		Compression: rs.compression,
		Repaired:    repaired,
	}, nil
}

func (o *Orchestrator) runPhase(ctx context.Context, rs *runState, p phaseDef, files types.GenerationResult) (arts []types.FileArtifact, report PhaseReport) {
	start := time.Now()
	callsBefore := rs.calls
	report.Name = p.Name

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("phase panicked, using fallback",
				zap.String("phase", string(p.Name)),
				zap.Any("panic", r))
			arts = p.Fallback(rs)
			report.Fallback = true
			report.Error = fmt.Sprintf("panic: %v", r)
			rs.warn(p.Name, "", "phase failed: "+report.Error)
			metrics.Fallbacks.WithLabelValues(string(p.Name), "panic").Inc()
		}
		report.Files = len(arts)
		report.Calls = rs.calls - callsBefore
		report.Duration = time.Since(start)
		metrics.PhaseDuration.WithLabelValues(string(p.Name)).Observe(report.Duration.Seconds())
	}()

	var err error
	arts, err = p.Run(ctx, rs, files)
	if err != nil {
		o.logger.Warn("phase failed, using fallback",
			zap.String("phase", string(p.Name)),
			zap.Error(err))
		arts = p.Fallback(rs)
		report.Fallback = true
		report.Error = err.Error()
		rs.warn(p.Name, "", "phase failed: "+err.Error())
		metrics.Fallbacks.WithLabelValues(string(p.Name), "error").Inc()
	}
	return arts, report
}

// complete paces, compresses and sends one request. It is the only place
// the completion client is called from.
func (o *Orchestrator) complete(ctx context.Context, rs *runState, phase PhaseName, prompt string, maxTokens int) (string, error) {
	if err := o.gate.Wait(ctx); err != nil {
		return "", ai.Classify(err)
	}

	compressed, stats := o.compressor.Compress(prompt)
	rs.compression.Add(stats)
	if saved := stats.Original - stats.Compressed; saved > 0 {
		metrics.PromptBytesSaved.Add(float64(saved))
	}

	rs.calls++
	text, err := o.client.Complete(ctx, ai.Request{
		Model:       o.opts.Model,
		System:      prompts.SystemPrompt,
		Prompt:      compressed,
		MaxTokens:   maxTokens,
		Temperature: o.opts.Temperature,
	})
	if err != nil {
		metrics.CompletionCalls.WithLabelValues(string(phase), "error").Inc()
		return "", ai.Classify(err)
	}
	metrics.CompletionCalls.WithLabelValues(string(phase), "ok").Inc()
	return text, nil
}

// generateFile requests one file and validates it. Any failure yields the
// file's fallback and a warning.
func (o *Orchestrator) generateFile(ctx context.Context, rs *runState, phase PhaseName, path, prompt string, maxTokens int) types.FileArtifact {
	kind := kindOf(path)
	fallback := func() string { return validator.Fallback(path, kind, rs.bp) }

	raw, err := o.complete(ctx, rs, phase, prompt, maxTokens)
	if err != nil {
		o.logger.Warn("completion failed, using fallback",
			zap.String("phase", string(phase)),
			zap.String("path", path),
			zap.String("kind", string(ai.KindOf(err))),
			zap.Error(err))
		rs.warn(phase, path, fmt.Sprintf("completion failed (%s)", ai.KindOf(err)))
		metrics.Fallbacks.WithLabelValues(string(phase), string(ai.KindOf(err))).Inc()
		return types.FileArtifact{Path: path, Content: fallback(), Kind: kind}
	}

	content, w := o.validator.Ensure(string(phase), path, kind, raw, fallback)
	if w != nil {
		rs.warnings = append(rs.warnings, *w)
		metrics.Fallbacks.WithLabelValues(string(phase), "truncated").Inc()
	}
	return types.FileArtifact{Path: path, Content: content, Kind: kind}
}

func cloneBlueprint(bp *types.Blueprint) *types.Blueprint {
	c := *bp
	c.PagesStructure.Public = append([]types.PageSpec(nil), bp.PagesStructure.Public...)
	c.Components = append([]string(nil), bp.Components...)
	c.Features = append([]string(nil), bp.Features...)
	return &c
}
