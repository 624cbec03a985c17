package pullrequest

import (
	"fmt"
	"strings"
	"time"

	"github.com/agusespa/docpilot/internal/types"
)

const (
	DefaultTargetBranch = "main"
	branchPrefix        = "docpilot/docs-"

	LabelDocumentation  = "documentation"
	LabelReadyForReview = "ready-for-review"
)

type Options struct {
	Repository   Repository
	TargetBranch string
	// SourceBranch is the branch the documentation was generated on, if known.
	SourceBranch string
	Title        string
	Draft        bool
	// Now stamps the branch name; zero means time.Now.
	Now time.Time
}

// Plan describes the pull request that would publish a documentation run.
type Plan struct {
	Repository   Repository `json:"repository"`
	Branch       string     `json:"branch"`
	SourceBranch string     `json:"sourceBranch,omitempty"`
	TargetBranch string     `json:"targetBranch"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Draft        bool       `json:"draft"`
	Labels       []string   `json:"labels"`
	Files        []string   `json:"files"`
}

// BuildPlan derives the pull request from a mapping and the patches applied
// for it. Low overall confidence always yields a draft; High adds the
// ready-for-review label.
func BuildPlan(mapping *types.MappingResult, apply *types.ApplyResult, opts Options) *Plan {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	target := opts.TargetBranch
	if target == "" {
		target = DefaultTargetBranch
	}

	level := mapping.OverallConfidence()

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("docs: update documentation for %s changes", strings.ToLower(string(mapping.OverallChangeType)))
	}

	labels := []string{LabelDocumentation}
	if level == types.ConfidenceHigh {
		labels = append(labels, LabelReadyForReview)
	}

	var files []string
	if apply != nil {
		for _, r := range apply.Results {
			if r.Success {
				files = append(files, r.FilePath)
			}
		}
	}

	return &Plan{
		Repository:   opts.Repository,
		Branch:       branchPrefix + now.Format("20060102-150405"),
		SourceBranch: opts.SourceBranch,
		TargetBranch: target,
		Title:        title,
		Body:         buildBody(mapping, apply, opts.SourceBranch),
		Draft:        opts.Draft || level == types.ConfidenceLow,
		Labels:       labels,
		Files:        files,
	}
}

func buildBody(mapping *types.MappingResult, apply *types.ApplyResult, sourceBranch string) string {
	var b strings.Builder

	b.WriteString("## Documentation update\n\n")
	if sourceBranch != "" && sourceBranch != "HEAD" {
		fmt.Fprintf(&b, "Generated from changes on `%s`.\n\n", sourceBranch)
	}
	fmt.Fprintf(&b, "Change type: **%s**\n", mapping.OverallChangeType)
	fmt.Fprintf(&b, "Overall confidence: **%s** (%.2f)\n\n", mapping.OverallConfidence(), mapping.AverageConfidence)

	if len(mapping.Targets) > 0 {
		b.WriteString("| Target | Section | Confidence | Rationale |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, t := range mapping.Targets {
			fmt.Fprintf(&b, "| `%s` | %s | %s (%.2f) | %s |\n",
				t.FilePath, escapeCell(t.Section), t.Confidence, t.ConfidenceScore, escapeCell(t.Rationale))
		}
		b.WriteString("\n")
	}

	if apply != nil && len(apply.Results) > 0 {
		b.WriteString("### Files\n\n")
		for _, r := range apply.Results {
			if r.Success {
				fmt.Fprintf(&b, "- `%s` (%s)\n", r.FilePath, r.Operation)
			} else {
				fmt.Fprintf(&b, "- `%s` (%s, failed: %s)\n", r.FilePath, r.Operation, r.Error)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("---\nGenerated by DocPilot. Review every change before merging.\n")
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
