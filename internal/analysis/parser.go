package analysis

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
)

const devNull = "/dev/null"

// ParseChangedFiles converts unified diff text into changed files, in diff
// order. go-diff does the parsing; text it rejects goes through the tolerant
// splitter instead.
func ParseChangedFiles(text string) []types.ChangedFile {
	if strings.TrimSpace(text) == "" {
		return []types.ChangedFile{}
	}

	fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(text)).ReadAllFiles()
	if err != nil {
		slog.Warn("falling back to tolerant diff parser", "error", err)
		return ParseUnifiedDiff(text)
	}

	files := make([]types.ChangedFile, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		files = append(files, fromFileDiff(fd))
	}
	return files
}

func fromFileDiff(fd *diff.FileDiff) types.ChangedFile {
	header := parseExtendedHeader(fd.Extended)

	oldName := stripDiffPrefix(fd.OrigName)
	newName := stripDiffPrefix(fd.NewName)
	if oldName == "" {
		oldName = header.oldPath
	}
	if newName == "" {
		newName = header.newPath
	}

	file := newChangedFile(header.kind, oldName, newName)

	for _, h := range fd.Hunks {
		body := string(h.Body)
		added, deleted := utils.CountChangedLines(body)
		file.LinesAdded += added
		file.LinesDeleted += deleted
		file.Hunks = append(file.Hunks, types.Hunk{
			OldStart: int(h.OrigStartLine),
			OldCount: int(h.OrigLines),
			NewStart: int(h.NewStartLine),
			NewCount: int(h.NewLines),
			Content:  body,
		})
	}

	return file
}

// newChangedFile derives the kind and paths of a file from its extended
// header kind (may be empty) and the old and new side names.
func newChangedFile(kind types.ChangeKind, oldName, newName string) types.ChangedFile {
	file := types.ChangedFile{Kind: kind}
	if file.Kind == "" {
		switch {
		case oldName == devNull:
			file.Kind = types.ChangeKindAdded
		case newName == devNull:
			file.Kind = types.ChangeKindDeleted
		default:
			file.Kind = types.ChangeKindModified
		}
	}

	file.Path = newName
	if file.Kind == types.ChangeKindDeleted || newName == devNull {
		file.Path = oldName
	}
	file.Path = utils.NormalizePath(file.Path)

	if file.Kind == types.ChangeKindRenamed || file.Kind == types.ChangeKindCopied {
		if oldPath := utils.NormalizePath(oldName); oldPath != file.Path && oldPath != devNull {
			file.OldPath = oldPath
		}
	}
	return file
}

// extendedHeader is what the git extended header lines say about a file.
type extendedHeader struct {
	kind    types.ChangeKind
	oldPath string
	newPath string
}

func parseExtendedHeader(lines []string) extendedHeader {
	var h extendedHeader
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			h.oldPath, h.newPath = parseGitHeaderPaths(strings.TrimPrefix(line, "diff --git "))
		case strings.HasPrefix(line, "new file mode"):
			h.kind = types.ChangeKindAdded
			h.oldPath = devNull
		case strings.HasPrefix(line, "deleted file mode"):
			h.kind = types.ChangeKindDeleted
			h.newPath = devNull
		case strings.HasPrefix(line, "rename from "):
			h.kind = types.ChangeKindRenamed
			h.oldPath = unquotePath(strings.TrimPrefix(line, "rename from "))
		case strings.HasPrefix(line, "rename to "):
			h.kind = types.ChangeKindRenamed
			h.newPath = unquotePath(strings.TrimPrefix(line, "rename to "))
		case strings.HasPrefix(line, "copy from "):
			h.kind = types.ChangeKindCopied
			h.oldPath = unquotePath(strings.TrimPrefix(line, "copy from "))
		case strings.HasPrefix(line, "copy to "):
			h.kind = types.ChangeKindCopied
			h.newPath = unquotePath(strings.TrimPrefix(line, "copy to "))
		}
	}
	return h
}

// parseGitHeaderPaths splits "a/old b/new". Paths containing " b/" are
// ambiguous in this form; rename headers take precedence when present.
func parseGitHeaderPaths(rest string) (string, string) {
	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `" `); end >= 0 {
			return stripDiffPrefix(rest[:end+2]), stripDiffPrefix(strings.TrimSpace(rest[end+3:]))
		}
	}

	idx := strings.LastIndex(rest, " b/")
	if idx < 0 {
		return "", ""
	}
	return stripDiffPrefix(rest[:idx]), stripDiffPrefix(rest[idx+1:])
}

// stripDiffPrefix removes quoting and the a/ or b/ side prefix.
func stripDiffPrefix(name string) string {
	name = unquotePath(strings.TrimSpace(name))
	if name == devNull {
		return name
	}
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}

func unquotePath(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		if unquoted, err := strconv.Unquote(name); err == nil {
			return unquoted
		}
	}
	return name
}
