package utils

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NormalizePath converts a repository-relative path to forward slashes and
// drops a leading "./".
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(path, "./")
}

// MatchGlob reports whether path matches pattern. "**" spans any number of
// directories, including none. Malformed patterns never match.
func MatchGlob(pattern, path string) bool {
	matched, err := doublestar.Match(pattern, NormalizePath(path))
	if err != nil {
		return false
	}
	return matched
}

// MatchAny reports whether path matches at least one of the patterns.
func MatchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if MatchGlob(pattern, path) {
			return true
		}
	}
	return false
}

// ValidateGlob returns an error for a syntactically invalid pattern.
func ValidateGlob(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return doublestar.ErrBadPattern
	}
	return nil
}
