package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// A fence wrapping the whole answer, optionally after one short lead-in
	// line such as "Here is the updated section:".
	wrappedFencePattern = regexp.MustCompile("(?s)^(?:[^\n`]{0,120}:[ \t]*\n+)?```(?:markdown|md)?[ \t]*\n(.*)\n```$")
	mermaidFencePattern = regexp.MustCompile("(?s)```mermaid[ \t]*\n(.*?)\n```")
)

var ErrEmptyResponse = errors.New("empty response")

// FormatViolationError reports an LLM answer that cannot be used as
// documentation.
type FormatViolationError struct {
	Response string
	Err      error
}

func (e *FormatViolationError) Error() string {
	if e.Response == "" {
		return fmt.Sprintf("format violation: %v", e.Err)
	}
	return fmt.Sprintf("format violation: %v. Response: %s", e.Err, e.Response)
}

func (e *FormatViolationError) Unwrap() error {
	return e.Err
}

func IsFormatViolation(err error) bool {
	var fv *FormatViolationError
	return errors.As(err, &fv)
}

// ParseMarkdownFromResponse returns the documentation body of an LLM answer.
// A single fence around the whole answer is unwrapped; fences inside the
// body are left alone.
func ParseMarkdownFromResponse(response string) (string, error) {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return "", &FormatViolationError{Err: ErrEmptyResponse}
	}

	body := trimmed
	if m := wrappedFencePattern.FindStringSubmatch(trimmed); m != nil {
		body = strings.TrimSpace(m[1])
	}
	if body == "" {
		return "", &FormatViolationError{
			Response: truncate(trimmed, 500),
			Err:      errors.New("response contained only an empty code fence"),
		}
	}
	return body, nil
}

// ExtractMermaidBlocks returns the bodies of all ```mermaid fences in order.
func ExtractMermaidBlocks(content string) []string {
	matches := mermaidFencePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = strings.TrimSpace(m[1])
	}
	return blocks
}

// truncate shortens s to at most maxLen bytes plus an ellipsis.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
