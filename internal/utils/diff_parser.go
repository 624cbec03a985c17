package utils

import (
	"strconv"
	"strings"
)

// HunkHeader holds the line ranges of a unified diff hunk header.
type HunkHeader struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
}

// ParseHunkHeader parses "@@ -oldStart[,oldCount] +newStart[,newCount] @@".
// Omitted counts default to 1. Anything that does not follow the grammar
// yields a zero HunkHeader.
func ParseHunkHeader(header string) HunkHeader {
	// Example: @@ -1,4 +1,6 @@ func main() {
	fields := strings.Fields(header)
	if len(fields) < 4 || fields[0] != "@@" || fields[3] != "@@" {
		return HunkHeader{}
	}

	oldStart, oldCount, ok := parseRange(fields[1], "-")
	if !ok {
		return HunkHeader{}
	}
	newStart, newCount, ok := parseRange(fields[2], "+")
	if !ok {
		return HunkHeader{}
	}

	return HunkHeader{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
	}
}

func parseRange(field, prefix string) (start, count int, ok bool) {
	if !strings.HasPrefix(field, prefix) {
		return 0, 0, false
	}

	parts := strings.Split(strings.TrimPrefix(field, prefix), ",")
	if len(parts) > 2 {
		return 0, 0, false
	}

	start, ok = parseNonNegative(parts[0])
	if !ok {
		return 0, 0, false
	}

	count = 1
	if len(parts) == 2 {
		count, ok = parseNonNegative(parts[1])
		if !ok {
			return 0, 0, false
		}
	}

	return start, count, true
}

func parseNonNegative(s string) (int, bool) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// IsHunkHeader reports whether a diff line starts a new hunk.
func IsHunkHeader(line string) bool {
	return strings.HasPrefix(line, "@@")
}

// CountChangedLines counts added and deleted lines in a hunk body.
func CountChangedLines(body string) (added, deleted int) {
	for line := range strings.SplitSeq(body, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			deleted++
		}
	}
	return added, deleted
}
