package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agusespa/docpilot/internal/types"
)

var (
	colorHigh   = lipgloss.Color("#2CD7C7")
	colorMedium = lipgloss.Color("#F4D03F")
	colorLow    = lipgloss.Color("#E74C3C")
	colorMuted  = lipgloss.Color("#6C7A89")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorHigh)
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorHigh)
	errorStyle   = lipgloss.NewStyle().Foreground(colorLow)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// RenderJSON renders any report as indented JSON.
func RenderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

func confidenceStyle(level types.ConfidenceLevel) lipgloss.Style {
	switch level {
	case types.ConfidenceHigh:
		return lipgloss.NewStyle().Foreground(colorHigh)
	case types.ConfidenceMedium:
		return lipgloss.NewStyle().Foreground(colorMedium)
	default:
		return lipgloss.NewStyle().Foreground(colorLow)
	}
}

func renderConfidence(level types.ConfidenceLevel, score float64) string {
	return confidenceStyle(level).Render(fmt.Sprintf("%s (%.2f)", level, score))
}

func RenderAnalysisText(report *types.AnalysisReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("DocPilot analysis") + "\n")
	b.WriteString(mutedStyle.Render("run "+report.RunID) + "\n\n")

	summary := fmt.Sprintf("%s..%s  %d file(s)  +%d -%d\nChange type: %s\nOverall confidence: %s",
		report.Diff.BaseRef, report.Diff.HeadRef,
		report.Diff.FilesChanged, report.Diff.LinesAdded, report.Diff.LinesDeleted,
		headingStyle.Render(string(report.ChangeType)),
		renderConfidence(report.OverallConfidence, report.AverageConfidence))
	b.WriteString(boxStyle.Render(summary) + "\n\n")

	b.WriteString(headingStyle.Render("Changed files:"))
	if len(report.Diff.Files) == 0 {
		b.WriteString("\n   ✕ no changes found\n")
	}
	for _, f := range report.Diff.Files {
		line := fmt.Sprintf("%s %s (+%d -%d)", f.Kind, f.Path, f.LinesAdded, f.LinesDeleted)
		if f.OldPath != "" {
			line += mutedStyle.Render(" from " + f.OldPath)
		}
		b.WriteString("\n   ✓ " + line)
	}
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Documentation targets:"))
	if len(report.Targets) == 0 {
		b.WriteString("\n   ✕ no documentation targets matched\n")
		return b.String()
	}
	for _, t := range report.Targets {
		name := t.FilePath
		if t.Section != "" {
			name += " " + mutedStyle.Render(t.Section)
		}
		fmt.Fprintf(&b, "\n   • %s  %s", name, renderConfidence(t.Confidence, t.ConfidenceScore))
		fmt.Fprintf(&b, "\n     %s", mutedStyle.Render(t.Rationale))
	}
	b.WriteString("\n")

	return b.String()
}

func RenderGenerationText(report *types.GenerationReport) string {
	var b strings.Builder

	title := "DocPilot generation"
	if report.Apply != nil && report.Apply.DryRun {
		title += " (dry run)"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(mutedStyle.Render("run "+report.RunID) + "\n")

	if report.Apply != nil {
		for _, r := range report.Apply.Results {
			if r.Success {
				fmt.Fprintf(&b, "\n   %s %s %s", successStyle.Render("✓"), r.Operation, r.FilePath)
			} else {
				fmt.Fprintf(&b, "\n   %s %s %s: %s", errorStyle.Render("✕"), r.Operation, r.FilePath, r.Error)
			}
			if r.PreviewContent != nil {
				b.WriteString("\n" + boxStyle.Render(*r.PreviewContent))
			}
		}
	}

	for _, e := range report.Errors {
		fmt.Fprintf(&b, "\n   %s %s: %s", errorStyle.Render("✕"), e.FilePath, e.Error)
	}

	b.WriteString("\n---\n")
	if report.Success() {
		b.WriteString(successStyle.Render("Documentation updated") + "\n")
	} else {
		b.WriteString(errorStyle.Render("Some documentation updates failed") + "\n")
	}
	return b.String()
}
