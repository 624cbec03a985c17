package types

// Symbol is a named declaration found in a source file. Lines are 1-based and
// inclusive.
type Symbol struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	FilePath  string `json:"filePath"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// Overlaps reports whether the symbol's line range intersects [start, end].
func (s Symbol) Overlaps(start, end int) bool {
	return s.StartLine <= end && start <= s.EndLine
}
