package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind classifies a completion failure.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindRateLimited ErrorKind = "rate_limited"
	KindTransport   ErrorKind = "transport"
	KindMalformed   ErrorKind = "malformed"
)

// Error is returned by every Completer implementation in this package.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could plausibly succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindRateLimited || e.Kind == KindTransport
}

// KindOf extracts the ErrorKind of err, defaulting to transport.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindTransport
}

// Malformed wraps err as a malformed-response failure.
func Malformed(err error) error {
	return &Error{Kind: KindMalformed, Err: err}
}

// Classify converts a backend error into an *Error. Errors that are already
// classified pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if status := statusCode(err); status != 0 {
		switch {
		case status == 429:
			return KindRateLimited
		case status == 408 || status == 504:
			return KindTimeout
		}
		return KindTransport
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "rate limit"):
		return KindRateLimited
	case strings.Contains(errMsg, "timeout"), strings.Contains(errMsg, "deadline exceeded"):
		return KindTimeout
	}
	return KindTransport
}

func statusCode(err error) int {
	var openAIErr *openai.APIError
	if errors.As(err, &openAIErr) {
		return openAIErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	return 0
}
