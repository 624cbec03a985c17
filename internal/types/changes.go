package types

import (
	"time"

	"github.com/agusespa/docpilot/internal/utils"
)

// ChangeKind is the per-file nature of a change as reported by the diff engine.
type ChangeKind string

const (
	ChangeKindAdded    ChangeKind = "Added"
	ChangeKindModified ChangeKind = "Modified"
	ChangeKindDeleted  ChangeKind = "Deleted"
	ChangeKindRenamed  ChangeKind = "Renamed"
	ChangeKindCopied   ChangeKind = "Copied"
)

// Hunk is a contiguous block of a unified diff. Content holds the hunk body
// without the @@ header line.
type Hunk struct {
	OldStart int    `json:"oldStart"`
	OldCount int    `json:"oldCount"`
	NewStart int    `json:"newStart"`
	NewCount int    `json:"newCount"`
	Content  string `json:"content"`
}

// NewHunk builds a hunk from its raw header line and body. A header that does
// not follow the unified diff grammar yields zero-valued line ranges.
func NewHunk(header, content string) Hunk {
	h := utils.ParseHunkHeader(header)
	return Hunk{
		OldStart: h.OldStart,
		OldCount: h.OldCount,
		NewStart: h.NewStart,
		NewCount: h.NewCount,
		Content:  content,
	}
}

// ChangedFile describes a single file touched by a diff. Values are treated as
// immutable once built by the diff analyzer.
type ChangedFile struct {
	Path         string     `json:"path"`
	Kind         ChangeKind `json:"kind"`
	OldPath      string     `json:"oldPath,omitempty"`
	LinesAdded   int        `json:"linesAdded"`
	LinesDeleted int        `json:"linesDeleted"`
	Hunks        []Hunk     `json:"hunks,omitempty"`
}

func (f ChangedFile) TotalLinesChanged() int {
	return f.LinesAdded + f.LinesDeleted
}

// Sentinel reference labels for comparisons that do not involve two commits.
const (
	RefHead     = "HEAD"
	RefIndex    = "INDEX"
	RefWorktree = "WORKTREE"
)

// DiffResult is the ordered set of files changed between two references.
// Files keep the order reported by the diff engine.
type DiffResult struct {
	BaseRef   string        `json:"baseRef"`
	HeadRef   string        `json:"headRef"`
	Files     []ChangedFile `json:"files"`
	Timestamp time.Time     `json:"timestamp"`
}

func (d *DiffResult) TotalFilesChanged() int {
	return len(d.Files)
}

func (d *DiffResult) TotalLinesAdded() int {
	total := 0
	for _, f := range d.Files {
		total += f.LinesAdded
	}
	return total
}

func (d *DiffResult) TotalLinesDeleted() int {
	total := 0
	for _, f := range d.Files {
		total += f.LinesDeleted
	}
	return total
}

// FilesByKind returns the files of the given kind in diff order.
func (d *DiffResult) FilesByKind(kind ChangeKind) []ChangedFile {
	var files []ChangedFile
	for _, f := range d.Files {
		if f.Kind == kind {
			files = append(files, f)
		}
	}
	return files
}

// FilesByPattern returns the files whose path matches the glob pattern.
func (d *DiffResult) FilesByPattern(pattern string) []ChangedFile {
	var files []ChangedFile
	for _, f := range d.Files {
		if utils.MatchGlob(pattern, f.Path) {
			files = append(files, f)
		}
	}
	return files
}

// Without returns a copy of the result minus the files rejected by drop.
func (d *DiffResult) Without(drop func(ChangedFile) bool) *DiffResult {
	kept := make([]ChangedFile, 0, len(d.Files))
	for _, f := range d.Files {
		if !drop(f) {
			kept = append(kept, f)
		}
	}
	return &DiffResult{
		BaseRef:   d.BaseRef,
		HeadRef:   d.HeadRef,
		Files:     kept,
		Timestamp: d.Timestamp,
	}
}
