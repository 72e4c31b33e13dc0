package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sitegen_server/internal/types"
)

// ErrMalformed is returned when a batched response cannot be decoded even
// after repair.
var ErrMalformed = errors.New("malformed batch response")

var wrapperKeys = []string{"components", "files", "result", "data", "output"}

// DecodeComponentBatch parses a batched component response. It accepts a
// bare array, a single object, or an object wrapping the array under one
// of the usual keys. One repair is attempted by cutting the outermost
// bracketed span out of surrounding text.
func DecodeComponentBatch(raw string) ([]types.GeneratedFile, error) {
	cleaned := StripFences(raw)
	if files, err := decodeBatch(cleaned); err == nil {
		return files, nil
	}

	repaired := OutermostSpan(cleaned)
	if repaired == "" || repaired == cleaned {
		return nil, fmt.Errorf("%w: no json document found", ErrMalformed)
	}
	files, err := decodeBatch(repaired)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return files, nil
}

func decodeBatch(s string) ([]types.GeneratedFile, error) {
	s = strings.TrimSpace(s)

	var list []types.GeneratedFile
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return list, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &wrapper); err != nil {
		return nil, err
	}
	for _, key := range wrapperKeys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &list); err == nil {
			return list, nil
		}
	}

	var single types.GeneratedFile
	if err := json.Unmarshal([]byte(s), &single); err == nil && single.Body() != "" {
		return []types.GeneratedFile{single}, nil
	}
	return nil, errors.New("unrecognised batch shape")
}

// OutermostSpan returns the text from the first '{' to the last '}', or
// from the first '[' to the last ']' when the array starts earlier.
func OutermostSpan(s string) string {
	obj := span(s, '{', '}')
	arr := span(s, '[', ']')
	switch {
	case obj == "":
		return arr
	case arr == "":
		return obj
	case strings.Index(s, "[") < strings.Index(s, "{"):
		return arr
	default:
		return obj
	}
}

func span(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
