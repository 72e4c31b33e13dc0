package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient is the go-openai backed Completer.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a chat-completion backend. model falls back to
// GPT-4o when empty.
func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIClientWithConfig allows pointing the client at a compatible
// endpoint (proxies, local gateways, test servers).
func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}
	system := req.System
	if system == "" {
		system = DefaultSystemPrompt
	}

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
			},
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		},
	)
	if err != nil {
		return "", Classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", Malformed(errors.New("openai returned empty response"))
	}
	return resp.Choices[0].Message.Content, nil
}
