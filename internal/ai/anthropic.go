package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = anthropic.ModelClaudeSonnet4_5

// AnthropicClient is the Messages API backed Completer.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicClient(apiKey, model string, opts ...option.RequestOption) *AnthropicClient {
	if model == "" {
		model = string(defaultAnthropicModel)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{client: &client, model: model}
}

func (a *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}
	system := req.System
	if system == "" {
		system = DefaultSystemPrompt
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(float64(req.Temperature)),
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", Classify(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", Malformed(errors.New("anthropic returned no text content"))
	}
	return sb.String(), nil
}
