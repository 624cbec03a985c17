package patch

import (
	"strings"
	"unicode"
)

// InsertAtSection inserts content on the line after the first occurrence of
// anchor. When the anchor line is the last line of existing and has no
// trailing newline, content is appended after a newline instead. An empty or
// missing anchor appends content at the end with one blank line separator.
func InsertAtSection(existing, anchor, content string) string {
	if anchor == "" {
		return AppendContent(existing, content)
	}

	anchorIndex := strings.Index(existing, anchor)
	if anchorIndex < 0 {
		return AppendContent(existing, content)
	}

	lineEnd := strings.IndexByte(existing[anchorIndex:], '\n')
	if lineEnd < 0 {
		return existing + "\n" + content
	}

	insertAt := anchorIndex + lineEnd + 1
	return existing[:insertAt] + content + "\n" + existing[insertAt:]
}

// AppendContent trims trailing whitespace from existing and appends content
// after a single blank line. The separator is written even when existing is
// empty.
func AppendContent(existing, content string) string {
	return strings.TrimRightFunc(existing, unicode.IsSpace) + "\n\n" + content
}
