package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{"openai 429", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, KindRateLimited},
		{"openai 500", &openai.APIError{HTTPStatusCode: 500, Message: "boom"}, KindTransport},
		{"request 504", &openai.RequestError{HTTPStatusCode: 504, Err: errors.New("gateway")}, KindTimeout},
		{"message rate limit", errors.New("Rate limit reached"), KindRateLimited},
		{"connection reset", errors.New("connection reset by peer"), KindTransport},
		{"already classified", Malformed(errors.New("empty")), KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(Classify(tt.err)))
		})
	}
	assert.NoError(t, Classify(nil))
}

func TestRetryPolicy_AttemptsFor(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, SizeThreshold: 3000}
	assert.Equal(t, 3, p.AttemptsFor(500))
	assert.Equal(t, 3, p.AttemptsFor(3000))
	assert.Equal(t, 1, p.AttemptsFor(3001))
	assert.Equal(t, 1, RetryPolicy{}.AttemptsFor(10))
}

func countingClient(errs ...error) (Completer, *int32) {
	var calls int32
	return CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		if int(n) <= len(errs) && errs[n-1] != nil {
			return "", errs[n-1]
		}
		return "ok", nil
	}), &calls
}

func TestRetryingClient_RetriesSmallCalls(t *testing.T) {
	inner, calls := countingClient(&Error{Kind: KindRateLimited, Err: errors.New("429")})
	c := NewRetryingClient(inner, RetryPolicy{MaxAttempts: 2, SizeThreshold: 3000}, zaptest.NewLogger(t))

	out, err := c.Complete(context.Background(), Request{Prompt: "x", MaxTokens: 800})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestRetryingClient_BigCallsAttemptOnce(t *testing.T) {
	inner, calls := countingClient(&Error{Kind: KindTransport, Err: errors.New("reset")})
	c := NewRetryingClient(inner, RetryPolicy{MaxAttempts: 5, SizeThreshold: 3000}, nil)

	_, err := c.Complete(context.Background(), Request{Prompt: "x", MaxTokens: 4000})
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestRetryingClient_DoesNotRetryMalformed(t *testing.T) {
	inner, calls := countingClient(Malformed(errors.New("empty")))
	c := NewRetryingClient(inner, RetryPolicy{MaxAttempts: 3, SizeThreshold: 3000}, nil)

	_, err := c.Complete(context.Background(), Request{Prompt: "x", MaxTokens: 100})
	require.Error(t, err)
	assert.Equal(t, KindMalformed, KindOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestOpenAIClient_Complete(t *testing.T) {
	var gotMaxTokens int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotMaxTokens = body.MaxTokens
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"export default {}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAIClientWithConfig(cfg, "")

	out, err := c.Complete(context.Background(), Request{Prompt: "hi", MaxTokens: 321})
	require.NoError(t, err)
	assert.Equal(t, "export default {}", out)
	assert.Equal(t, 321, gotMaxTokens)
}

func TestOpenAIClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	c := NewOpenAIClientWithConfig(cfg, "gpt-4o")

	_, err := c.Complete(context.Background(), Request{Prompt: "hi", MaxTokens: 10})
	require.Error(t, err)
	assert.Equal(t, KindRateLimited, KindOf(err))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("llama", "k", "")
	assert.Error(t, err)

	c, err := New(ProviderAnthropic, "k", "")
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)
}

func TestAnthropicClient_DefaultModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"m","content":[{"type":"text","text":"hello"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	defer srv.Close()

	c := NewAnthropicClient("k", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	out, err := c.Complete(context.Background(), Request{Prompt: "hi", MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, string(anthropic.ModelClaudeSonnet4_5), gotModel)
}
