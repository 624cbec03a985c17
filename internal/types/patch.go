package types

import "time"

type PatchOperation string

const (
	PatchCreate PatchOperation = "Create"
	PatchUpdate PatchOperation = "Update"
	PatchAppend PatchOperation = "Append"
	PatchDelete PatchOperation = "Delete"
)

// DocPatch is a pending mutation of a documentation file. Content is required
// for every operation except Delete; Section anchors Append operations.
type DocPatch struct {
	FilePath         string         `json:"filePath"`
	Operation        PatchOperation `json:"operation"`
	Content          string         `json:"content,omitempty"`
	Section          string         `json:"section,omitempty"`
	MermaidBlocks    []string       `json:"mermaidBlocks,omitempty"`
	SourceReferences []string       `json:"sourceReferences,omitempty"`
	Confidence       float64        `json:"confidence"`
	Rationale        string         `json:"rationale,omitempty"`
}

type PatchSet struct {
	Patches     []DocPatch `json:"patches"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Summary     string     `json:"summary,omitempty"`
}

func (s *PatchSet) TotalPatches() int {
	return len(s.Patches)
}

func (s *PatchSet) CreatedFiles() int {
	return s.countOperation(PatchCreate)
}

func (s *PatchSet) UpdatedFiles() int {
	return s.countOperation(PatchUpdate)
}

func (s *PatchSet) countOperation(op PatchOperation) int {
	count := 0
	for _, p := range s.Patches {
		if p.Operation == op {
			count++
		}
	}
	return count
}

// PatchResult is the outcome of applying one patch. PreviewContent is only set
// in dry-run mode and stays nil for deletions.
type PatchResult struct {
	FilePath       string         `json:"filePath"`
	Operation      PatchOperation `json:"operation"`
	Success        bool           `json:"success"`
	Error          string         `json:"error,omitempty"`
	PreviewContent *string        `json:"previewContent,omitempty"`
}

// ApplyResult collects per-patch outcomes. Success is true only when every
// patch succeeded.
type ApplyResult struct {
	Success bool          `json:"success"`
	DryRun  bool          `json:"dryRun"`
	Results []PatchResult `json:"results"`
}

func (r *ApplyResult) FailedPatches() []PatchResult {
	var failed []PatchResult
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}
