package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agusespa/docpilot/internal/tools"
	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
)

// DefaultConcurrency is the number of targets written in parallel.
const DefaultConcurrency = 4

// DocWriterAgent turns a mapping into documentation patches. It reads
// repository files and validates diagrams through the tool registry.
type DocWriterAgent struct {
	writer       Writer
	toolRegistry *tools.ToolRegistry
	concurrency  int
}

// GenerateResult holds the patches in mapping order plus the targets that
// could not be written.
type GenerateResult struct {
	PatchSet *types.PatchSet
	Errors   []types.GenerationError
}

func NewDocWriterAgent(writer Writer, registry *tools.ToolRegistry) *DocWriterAgent {
	return &DocWriterAgent{
		writer:       writer,
		toolRegistry: registry,
		concurrency:  DefaultConcurrency,
	}
}

func (a *DocWriterAgent) SetConcurrency(n int) {
	if n > 0 {
		a.concurrency = n
	}
}

// Generate writes one patch per target. diff may be nil, in which case no
// changed symbols are looked up. A writer failure only drops its own target.
func (a *DocWriterAgent) Generate(ctx context.Context, mapping *types.MappingResult, diff *types.DiffResult) (*GenerateResult, error) {
	if mapping == nil {
		return &GenerateResult{PatchSet: &types.PatchSet{GeneratedAt: time.Now()}}, nil
	}

	symbols := a.collectSymbols(ctx, mapping, diff)

	patches := make([]*types.DocPatch, len(mapping.Targets))
	failures := make([]error, len(mapping.Targets))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, target := range mapping.Targets {
		g.Go(func() error {
			patch, err := a.generatePatch(gCtx, target, mapping.OverallChangeType, symbols)
			if err != nil {
				if utils.IsFormatViolation(err) {
					slog.Warn("model answer was not usable documentation", "target", target.FilePath, "error", err)
				} else {
					slog.Debug("documentation target failed", "target", target.FilePath, "error", err)
				}
				failures[i] = err
				return nil
			}
			patches[i] = patch
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &GenerateResult{
		PatchSet: &types.PatchSet{GeneratedAt: time.Now()},
	}
	for i, target := range mapping.Targets {
		if failures[i] != nil {
			result.Errors = append(result.Errors, types.GenerationError{
				FilePath: target.FilePath,
				Error:    failures[i].Error(),
			})
			continue
		}
		result.PatchSet.Patches = append(result.PatchSet.Patches, *patches[i])
	}
	result.PatchSet.Summary = fmt.Sprintf("%d documentation patch(es) for %s changes",
		len(result.PatchSet.Patches), mapping.OverallChangeType)

	return result, nil
}

func (a *DocWriterAgent) generatePatch(ctx context.Context, target types.DocTarget, changeType types.ChangeType, symbols map[string][]string) (*types.DocPatch, error) {
	existing, err := a.readFile(ctx, target.FilePath)
	if err != nil {
		return nil, err
	}

	var targetSymbols []string
	for _, src := range target.SourceFiles {
		targetSymbols = append(targetSymbols, symbols[src]...)
	}

	body, err := a.writer.Write(ctx, WriteRequest{
		Target:          target,
		ChangeType:      changeType,
		FileExists:      existing.Exists,
		ExistingContent: existing.Content,
		Symbols:         targetSymbols,
	})
	if err != nil {
		return nil, err
	}

	patch := &types.DocPatch{
		FilePath:         target.FilePath,
		Confidence:       target.ConfidenceScore,
		Rationale:        target.Rationale,
		SourceReferences: append(append([]string{}, target.SourceFiles...), targetSymbols...),
		MermaidBlocks:    a.validMermaidBlocks(ctx, target.FilePath, body),
	}

	switch {
	case !existing.Exists:
		patch.Operation = types.PatchCreate
		patch.Content = newDocument(target, body)
	case target.Section != "" && strings.Contains(existing.Content, target.Section):
		patch.Operation = types.PatchAppend
		patch.Section = target.Section
		patch.Content = body
	case target.Section != "":
		patch.Operation = types.PatchAppend
		patch.Content = target.Section + "\n\n" + body + "\n"
	default:
		patch.Operation = types.PatchAppend
		patch.Content = body + "\n"
	}

	return patch, nil
}

// newDocument starts a file with a title derived from its name and, when the
// target names one, the section heading.
func newDocument(target types.DocTarget, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", utils.TitleFromFilePath(target.FilePath))
	if target.Section != "" {
		b.WriteString(target.Section + "\n\n")
	}
	b.WriteString(body + "\n")
	return b.String()
}

func (a *DocWriterAgent) readFile(ctx context.Context, path string) (tools.ReadFileResult, error) {
	readTool := a.toolRegistry.Get(tools.ToolNameReadFile)
	out, err := readTool.Execute(ctx, map[string]any{"filename": path})
	if err != nil {
		return tools.ReadFileResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, ok := out.(tools.ReadFileResult)
	if !ok {
		return tools.ReadFileResult{}, fmt.Errorf("unexpected read_file result %T", out)
	}
	return result, nil
}

// collectSymbols maps each changed source file to "path#Symbol" references for
// the declarations its hunks touch. Lookup failures only cost the references.
func (a *DocWriterAgent) collectSymbols(ctx context.Context, mapping *types.MappingResult, diff *types.DiffResult) map[string][]string {
	symbols := make(map[string][]string)
	if diff == nil || !a.toolRegistry.Has(tools.ToolNameSymbolContext) {
		return symbols
	}

	wanted := make(map[string]bool)
	for _, target := range mapping.Targets {
		for _, src := range target.SourceFiles {
			wanted[src] = true
		}
	}

	symbolTool := a.toolRegistry.Get(tools.ToolNameSymbolContext)
	for _, file := range diff.Files {
		if !wanted[file.Path] || file.Kind == types.ChangeKindDeleted || len(file.Hunks) == 0 {
			continue
		}
		if _, done := symbols[file.Path]; done {
			continue
		}

		source, err := a.readFile(ctx, file.Path)
		if err != nil || !source.Exists {
			slog.Debug("skipping symbol lookup", "file", file.Path, "error", err)
			continue
		}

		out, err := symbolTool.Execute(ctx, map[string]any{
			"file_path": file.Path,
			"content":   source.Content,
			"hunks":     file.Hunks,
		})
		if err != nil {
			slog.Debug("symbol lookup failed", "file", file.Path, "error", err)
			continue
		}

		found, _ := out.([]types.Symbol)
		refs := make([]string, 0, len(found))
		for _, s := range found {
			refs = append(refs, file.Path+"#"+s.Name)
		}
		symbols[file.Path] = refs
	}
	return symbols
}

func (a *DocWriterAgent) validMermaidBlocks(ctx context.Context, target, content string) []string {
	blocks := utils.ExtractMermaidBlocks(content)
	if len(blocks) == 0 || !a.toolRegistry.Has(tools.ToolNameValidateMermaid) {
		return nil
	}

	validator := a.toolRegistry.Get(tools.ToolNameValidateMermaid)
	var valid []string
	for _, block := range blocks {
		out, err := validator.Execute(ctx, map[string]any{"diagram": block})
		if err != nil {
			continue
		}
		result, ok := out.(tools.MermaidValidation)
		if !ok || !result.Valid {
			slog.Warn("dropping invalid mermaid diagram", "target", target, "issues", result.Issues)
			continue
		}
		valid = append(valid, block)
	}
	return valid
}
