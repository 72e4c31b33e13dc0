// Package validator decides whether generated text is usable as-is and
// supplies deterministic replacements when it is not.
package validator

import (
	"strings"

	"go.uber.org/zap"

	"sitegen_server/internal/logger"
	"sitegen_server/internal/types"
)

type Option func(*Validator)

// WithTruncationCheckDisabled turns off truncation detection. Content is
// then accepted after fence stripping. Meant for diagnosing prompts.
func WithTruncationCheckDisabled(disabled bool) Option {
	return func(v *Validator) { v.disabled = disabled }
}

// WithRegistry replaces the detector registry.
func WithRegistry(r *Registry) Option {
	return func(v *Validator) { v.registry = r }
}

type Validator struct {
	registry *Registry
	disabled bool
	logger   *zap.Logger
}

func New(log *zap.Logger, opts ...Option) *Validator {
	v := &Validator{
		registry: DefaultRegistry(),
		logger:   logger.OrNop(log),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Disabled reports whether truncation checks are skipped.
func (v *Validator) Disabled() bool { return v.disabled }

// Check runs the detector for path on already-cleaned content.
func (v *Validator) Check(path string, kind types.Kind, content string) Verdict {
	return v.registry.For(path, kind).Inspect(content)
}

// Ensure strips fences from raw and returns it when it passes the strict
// check. Otherwise the fallback is returned together with a warning.
func (v *Validator) Ensure(phase, path string, kind types.Kind, raw string, fallback func() string) (string, *types.Warning) {
	content := StripFences(raw)
	if v.disabled {
		return content, nil
	}

	verdict := v.Check(path, kind, content)
	if verdict.Definitely {
		v.logger.Warn("truncated content replaced with fallback",
			zap.String("phase", phase),
			zap.String("path", path),
			zap.String("reason", verdict.Reason))
		return fallback(), &types.Warning{
			Phase:  phase,
			Path:   path,
			Reason: "truncated: " + verdict.Reason,
		}
	}
	if verdict.Possibly {
		v.logger.Debug("content possibly truncated, keeping it",
			zap.String("path", path),
			zap.String("reason", verdict.Reason))
	}
	return content, nil
}

// StripFences removes a surrounding ```lang fence. Chatter before the
// first fence is dropped as well. A missing closing fence is tolerated.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	if start > 0 && !strings.HasPrefix(s, "```") && strings.Count(s, "```") < 2 {
		return s
	}

	body := s[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
