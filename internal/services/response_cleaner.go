package services

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrNoJSONFound = errors.New("No JSON found in response")
	ErrInvalidJSON = errors.New("Invalid JSON extracted")
)

var jsonBlockPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// CleanLLMResponse pulls the first ```json fenced block out of an LLM reply
// and decodes it. Failures are reported as ErrNoJSONFound or ErrInvalidJSON.
func CleanLLMResponse(raw string) (map[string]any, error) {
	match := jsonBlockPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil, ErrNoJSONFound
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &payload); err != nil || payload == nil {
		return nil, ErrInvalidJSON
	}

	return payload, nil
}

// ErrorObject renders a cleaner failure in its {"error": reason} form.
// Reconcilers treat it like any payload without the sections they read.
func ErrorObject(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}
