package prompts

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

type PromptVariant struct {
	Name        string
	Description string
	Template    string
}

// PromptData is the input every documentation prompt variant renders.
type PromptData struct {
	TargetPath      string
	Section         string
	FileExists      bool
	ExistingContent string
	ChangeType      string
	Confidence      string
	ConfidenceScore float64
	Rationale       string
	SourceFiles     []string
	Languages       []string
	Symbols         []string
}

var PromptVariants = map[string]PromptVariant{
	"default": {
		Name:        "default",
		Description: "Short instructions, markdown only",
		Template:    defaultPromptTemplate,
	},
	"diagram": {
		Name:        "diagram",
		Description: "Asks for a Mermaid diagram when the change touches architecture or flows",
		Template:    diagramPromptTemplate,
	},
}

const DEFAULT_PROMPT = "default"

func GetPromptVariant(name string) (PromptVariant, error) {
	variant, exists := PromptVariants[name]
	if !exists {
		return PromptVariant{}, fmt.Errorf("prompt variant '%s' not found", name)
	}
	return variant, nil
}

func ListPromptVariants() []string {
	var names []string
	for name := range PromptVariants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LoadPromptTemplates() (*template.Template, error) {
	tmpl := template.New("prompts")

	for name, variant := range PromptVariants {
		_, err := tmpl.New(name).Parse(variant.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}

	return tmpl, nil
}

func BuildPromptWithTemplate(variantName string, data PromptData) (string, error) {
	if _, err := GetPromptVariant(variantName); err != nil {
		return "", err
	}

	templates, err := LoadPromptTemplates()
	if err != nil {
		return "", fmt.Errorf("failed to load templates: %w", err)
	}

	var result strings.Builder
	err = templates.ExecuteTemplate(&result, variantName, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", variantName, err)
	}

	return result.String(), nil
}

// EstimateTokens approximates the token count of text at four characters per
// token.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

const defaultPromptTemplate = `Update the documentation file {{.TargetPath}} for a {{.ChangeType}} change.

=== WHY THIS FILE ===
{{.Rationale}}
Confidence: {{.Confidence}} ({{printf "%.2f" .ConfidenceScore}})

=== CHANGED SOURCE FILES ===
{{range .SourceFiles}}- {{.}}
{{end}}{{if .Languages}}Languages:{{range .Languages}} {{.}}{{end}}
{{end}}{{if .Symbols}}
=== CHANGED SYMBOLS ===
{{range .Symbols}}- {{.}}
{{end}}{{end}}
=== CURRENT DOCUMENT ===
{{if .FileExists}}{{.ExistingContent}}{{else}}(the file does not exist yet){{end}}

=== INSTRUCTIONS ===
- Write ONLY the new markdown to add{{if .Section}} under the "{{.Section}}" heading{{end}}
- Do not repeat content already present in the current document
- Document only what the changed files and symbols show; never invent APIs
- Cite source files inline as ` + "`path`" + ` references
- No preamble, no closing remarks, no surrounding code fence`

const diagramPromptTemplate = `You are updating {{.TargetPath}} after a {{.ChangeType}} change.

Reason this file was selected: {{.Rationale}}
Confidence: {{.Confidence}} ({{printf "%.2f" .ConfidenceScore}})

Changed files:
{{range .SourceFiles}}- {{.}}
{{end}}{{if .Symbols}}
Changed symbols:
{{range .Symbols}}- {{.}}
{{end}}{{end}}
{{if .FileExists}}Current content:
{{.ExistingContent}}
{{else}}The file does not exist yet; start it from scratch.
{{end}}
Write the markdown to add{{if .Section}} under "{{.Section}}"{{end}}.

RULES:
- Follow the style of the current document
- When the change adds or reshapes a component, API flow or data model, include ONE Mermaid diagram in a ` + "```mermaid" + ` fence
- Use flowchart TB for architecture, sequenceDiagram for API interactions, classDiagram for data models
- Keep diagrams under 15 nodes
- Document only what the changed files and symbols show
- Respond with markdown only`
