package ai

import (
	"context"
	"fmt"
)

// DefaultSystemPrompt is sent with every request unless the caller sets one.
const DefaultSystemPrompt = "You are a helpful AI assistant that generates code based on user prompts and specific formatting instructions."

// Request is a single completion request.
type Request struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer is the boundary to the external text-completion service.
// Implementations return *Error on failure.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// New builds the backend for provider.
func New(provider, apiKey, model string) (Completer, error) {
	switch provider {
	case "", ProviderOpenAI:
		return NewOpenAIClient(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
