package types

import "time"

// DiffSummary is the serializable overview of a DiffResult.
type DiffSummary struct {
	BaseRef      string        `json:"baseRef"`
	HeadRef      string        `json:"headRef"`
	FilesChanged int           `json:"filesChanged"`
	LinesAdded   int           `json:"linesAdded"`
	LinesDeleted int           `json:"linesDeleted"`
	Files        []FileSummary `json:"files"`
}

type FileSummary struct {
	Path         string     `json:"path"`
	Kind         ChangeKind `json:"kind"`
	OldPath      string     `json:"oldPath,omitempty"`
	LinesAdded   int        `json:"linesAdded"`
	LinesDeleted int        `json:"linesDeleted"`
}

func SummarizeDiff(d *DiffResult) DiffSummary {
	summary := DiffSummary{
		BaseRef:      d.BaseRef,
		HeadRef:      d.HeadRef,
		FilesChanged: d.TotalFilesChanged(),
		LinesAdded:   d.TotalLinesAdded(),
		LinesDeleted: d.TotalLinesDeleted(),
		Files:        make([]FileSummary, 0, len(d.Files)),
	}
	for _, f := range d.Files {
		summary.Files = append(summary.Files, FileSummary{
			Path:         f.Path,
			Kind:         f.Kind,
			OldPath:      f.OldPath,
			LinesAdded:   f.LinesAdded,
			LinesDeleted: f.LinesDeleted,
		})
	}
	return summary
}

// AnalysisReport is what the analyze command prints.
type AnalysisReport struct {
	RunID             string          `json:"runId"`
	GeneratedAt       time.Time       `json:"generatedAt"`
	Diff              DiffSummary     `json:"diff"`
	ChangeType        ChangeType      `json:"changeType"`
	Targets           []DocTarget     `json:"targets"`
	AverageConfidence float64         `json:"averageConfidence"`
	OverallConfidence ConfidenceLevel `json:"overallConfidence"`
}

// GenerationError records a target for which no content could be produced.
type GenerationError struct {
	FilePath string `json:"filePath"`
	Error    string `json:"error"`
}

// GenerationReport is what the generate command prints.
type GenerationReport struct {
	RunID       string            `json:"runId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Patches     []DocPatch        `json:"patches"`
	Apply       *ApplyResult      `json:"apply"`
	Errors      []GenerationError `json:"errors,omitempty"`
}

// Success is false when any patch failed or any target could not be written.
func (r *GenerationReport) Success() bool {
	return len(r.Errors) == 0 && r.Apply != nil && r.Apply.Success
}
