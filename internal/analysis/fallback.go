package analysis

import (
	"strings"

	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
)

// ParseUnifiedDiff is a line-oriented splitter for git diff output. It never
// fails: malformed hunk headers become zero-valued hunks and unrecognized
// lines outside a file section are skipped.
func ParseUnifiedDiff(text string) []types.ChangedFile {
	files := []types.ChangedFile{}

	var header []string
	var body []string
	inFile := false

	flush := func() {
		if !inFile {
			return
		}
		files = append(files, buildFallbackFile(header, body))
		header, body = nil, nil
	}

	for line := range strings.SplitSeq(text, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			flush()
			inFile = true
			header = []string{line}
			continue
		}
		if !inFile {
			continue
		}
		if body == nil && !utils.IsHunkHeader(line) {
			header = append(header, line)
			continue
		}
		body = append(body, line)
	}
	flush()

	return files
}

func buildFallbackFile(header, body []string) types.ChangedFile {
	ext := parseExtendedHeader(header)
	oldName, newName := ext.oldPath, ext.newPath

	for _, line := range header {
		switch {
		case strings.HasPrefix(line, "--- "):
			oldName = stripDiffPrefix(strings.TrimPrefix(line, "--- "))
		case strings.HasPrefix(line, "+++ "):
			newName = stripDiffPrefix(strings.TrimPrefix(line, "+++ "))
		}
	}

	file := newChangedFile(ext.kind, oldName, newName)
	file.Hunks = ParseHunks(strings.Join(body, "\n"))
	for _, h := range file.Hunks {
		added, deleted := utils.CountChangedLines(h.Content)
		file.LinesAdded += added
		file.LinesDeleted += deleted
	}

	return file
}

// ParseHunks splits a single file's patch text at "@@" header lines. Lines
// before the first header are ignored. Each body line keeps its newline.
func ParseHunks(patch string) []types.Hunk {
	var hunks []types.Hunk
	var header string
	var content strings.Builder
	inHunk := false

	lines := strings.Split(patch, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for _, line := range lines {
		if utils.IsHunkHeader(line) {
			if inHunk {
				hunks = append(hunks, types.NewHunk(header, content.String()))
			}
			header = line
			content.Reset()
			inHunk = true
			continue
		}
		if inHunk {
			content.WriteString(line)
			content.WriteByte('\n')
		}
	}

	if inHunk {
		hunks = append(hunks, types.NewHunk(header, content.String()))
	}
	return hunks
}
