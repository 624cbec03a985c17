package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MaxMermaidNodes is the size above which a diagram gets a readability warning.
const MaxMermaidNodes = 20

var mermaidDiagramTypes = []string{
	"flowchart", "sequenceDiagram", "classDiagram", "stateDiagram",
	"erDiagram", "gantt", "pie", "graph",
}

var (
	mermaidArrowRe = regexp.MustCompile(`-->|---->|-\.->|==>`)
	mermaidNodeRe  = regexp.MustCompile(`\[[^\]]+\]|\([^)]+\)|\{[^}]+\}`)
)

// MermaidValidation is the outcome of checking one diagram. Warnings do not
// affect Valid.
type MermaidValidation struct {
	Valid       bool     `json:"valid"`
	Issues      []string `json:"issues"`
	Warnings    []string `json:"warnings,omitempty"`
	NodeCount   int      `json:"nodeCount"`
	DiagramType string   `json:"diagramType"`
}

// ValidateMermaid runs lightweight structural checks on a diagram body
// (without the surrounding fence).
func ValidateMermaid(diagram string) MermaidValidation {
	result := MermaidValidation{
		Issues:      []string{},
		DiagramType: mermaidDiagramType(diagram),
	}

	if result.DiagramType == "unknown" {
		result.Issues = append(result.Issues, "Diagram must start with a valid type (flowchart, sequenceDiagram, classDiagram, etc.)")
	}

	open := strings.Count(diagram, "{") + strings.Count(diagram, "[") + strings.Count(diagram, "(")
	closed := strings.Count(diagram, "}") + strings.Count(diagram, "]") + strings.Count(diagram, ")")
	if open != closed {
		result.Issues = append(result.Issues, "Unbalanced brackets detected")
	}

	if result.DiagramType == "flowchart" || result.DiagramType == "graph" {
		if !mermaidArrowRe.MatchString(diagram) {
			result.Issues = append(result.Issues, "Flowchart should contain valid arrows (-->, -.->, ==>)")
		}
	}

	result.NodeCount = len(mermaidNodeRe.FindAllString(diagram, -1))
	if result.NodeCount > MaxMermaidNodes {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Diagram has %d nodes. Consider splitting into multiple diagrams for readability.", result.NodeCount))
	}

	result.Valid = len(result.Issues) == 0
	return result
}

func mermaidDiagramType(diagram string) string {
	trimmed := strings.ToLower(strings.TrimSpace(diagram))
	for _, t := range mermaidDiagramTypes {
		if strings.HasPrefix(trimmed, strings.ToLower(t)) {
			return t
		}
	}
	return "unknown"
}

type ValidateMermaidTool struct{}

func (t *ValidateMermaidTool) Name() string {
	return string(ToolNameValidateMermaid)
}

func (t *ValidateMermaidTool) Description() string {
	return "Validate Mermaid diagram syntax and structure"
}

func (t *ValidateMermaidTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	diagram, ok := args["diagram"].(string)
	if !ok {
		return MermaidValidation{}, fmt.Errorf("diagram parameter required")
	}
	return ValidateMermaid(diagram), nil
}
