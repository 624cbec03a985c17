package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agusespa/docpilot/internal/llm"
	"github.com/agusespa/docpilot/internal/prompts"
	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
)

// WriteRequest carries everything a writer may use to produce documentation
// for one target.
type WriteRequest struct {
	Target          types.DocTarget
	ChangeType      types.ChangeType
	FileExists      bool
	ExistingContent string
	Symbols         []string
}

// Writer produces the markdown body for one documentation target. The body
// never includes the document title or the section heading.
type Writer interface {
	Write(ctx context.Context, req WriteRequest) (string, error)
}

// TemplateWriter renders a deterministic summary without calling a model.
type TemplateWriter struct{}

func NewTemplateWriter() *TemplateWriter {
	return &TemplateWriter{}
}

func (w *TemplateWriter) Write(ctx context.Context, req WriteRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### %s change\n\n", req.ChangeType)
	fmt.Fprintf(&b, "%s\n\n", req.Target.Rationale)
	fmt.Fprintf(&b, "Confidence: %s (%.2f)\n\n", req.Target.Confidence, req.Target.ConfidenceScore)

	b.WriteString("Source files:\n")
	for _, f := range req.Target.SourceFiles {
		fmt.Fprintf(&b, "- `%s`\n", f)
	}

	if len(req.Symbols) > 0 {
		b.WriteString("\nChanged symbols:\n")
		for _, s := range req.Symbols {
			fmt.Fprintf(&b, "- `%s`\n", s)
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// LLMWriter asks a model for the documentation body.
type LLMWriter struct {
	provider      llm.Provider
	promptVariant string
	maxTokens     int
}

func NewLLMWriter(provider llm.Provider, maxTokens int) *LLMWriter {
	return &LLMWriter{
		provider:      provider,
		promptVariant: prompts.DEFAULT_PROMPT,
		maxTokens:     maxTokens,
	}
}

func (w *LLMWriter) SetPromptVariant(variant string) error {
	if _, err := prompts.GetPromptVariant(variant); err != nil {
		return err
	}
	w.promptVariant = variant
	return nil
}

func (w *LLMWriter) Write(ctx context.Context, req WriteRequest) (string, error) {
	prompt, err := w.buildPrompt(req)
	if err != nil {
		return "", err
	}

	response, err := w.provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate documentation for %s: %w", req.Target.FilePath, err)
	}

	content, err := utils.ParseMarkdownFromResponse(response)
	if err != nil {
		return "", fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return content, nil
}

// buildPrompt renders the prompt, shortening the existing document until the
// estimate fits the token budget.
func (w *LLMWriter) buildPrompt(req WriteRequest) (string, error) {
	data := prompts.PromptData{
		TargetPath:      req.Target.FilePath,
		Section:         req.Target.Section,
		FileExists:      req.FileExists,
		ExistingContent: req.ExistingContent,
		ChangeType:      string(req.ChangeType),
		Confidence:      string(req.Target.Confidence),
		ConfidenceScore: req.Target.ConfidenceScore,
		Rationale:       req.Target.Rationale,
		SourceFiles:     req.Target.SourceFiles,
		Languages:       sourceLanguages(req.Target.SourceFiles),
		Symbols:         req.Symbols,
	}

	prompt, err := prompts.BuildPromptWithTemplate(w.promptVariant, data)
	if err != nil {
		return "", fmt.Errorf("failed to build documentation prompt: %w", err)
	}
	if w.maxTokens <= 0 {
		return prompt, nil
	}

	over := prompts.EstimateTokens(prompt) - w.maxTokens
	if over <= 0 {
		return prompt, nil
	}

	keep := len(data.ExistingContent) - over*4
	if keep < 0 {
		return "", fmt.Errorf("prompt for %s exceeds the %d token limit", req.Target.FilePath, w.maxTokens)
	}
	data.ExistingContent = data.ExistingContent[:keep]

	prompt, err = prompts.BuildPromptWithTemplate(w.promptVariant, data)
	if err != nil {
		return "", fmt.Errorf("failed to build documentation prompt: %w", err)
	}
	return prompt, nil
}

// sourceLanguages lists the distinct known languages of files in first-seen
// order.
func sourceLanguages(files []string) []string {
	var languages []string
	for _, f := range files {
		lang := utils.DetectLanguageFromFilePath(f)
		if lang != "" && !slices.Contains(languages, lang) {
			languages = append(languages, lang)
		}
	}
	return languages
}
