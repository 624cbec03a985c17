package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agusespa/docpilot/internal/agent"
	"github.com/agusespa/docpilot/internal/analysis"
	"github.com/agusespa/docpilot/internal/heuristics"
	"github.com/agusespa/docpilot/internal/patch"
	"github.com/agusespa/docpilot/internal/tools"
	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
	"github.com/agusespa/docpilot/pkg/config"
)

var ErrLimitExceeded = errors.New("diff exceeds configured limits")

const (
	DefaultBaseRef = "HEAD~1"
	DefaultHeadRef = "HEAD"
)

const outsideAllowlistError = "outside documentation allowlist"

// Options selects the comparison to analyze. Staged and Worktree take
// precedence over Base and Head.
type Options struct {
	Base     string
	Head     string
	Staged   bool
	Worktree bool
}

// Analysis is the outcome of RunAnalyze. Diff and Mapping feed RunGenerate.
type Analysis struct {
	Report  *types.AnalysisReport
	Diff    *types.DiffResult
	Mapping *types.MappingResult
}

// DocumentationPipeline runs analyze, map, generate and apply for one
// repository.
type DocumentationPipeline struct {
	config   *config.Config
	analyzer *analysis.DiffAnalyzer
	mapper   *heuristics.DocTargetMapper
	writer   *agent.DocWriterAgent
	applier  *patch.PatchApplier
}

// New resolves the repository containing dir and wires every stage. writer
// produces the documentation bodies.
func New(ctx context.Context, dir string, cfg *config.Config, writer agent.Writer) (*DocumentationPipeline, error) {
	analyzer, err := analysis.NewDiffAnalyzer(ctx, dir)
	if err != nil {
		return nil, err
	}

	root := analyzer.Root()
	registry := tools.NewDefaultRegistry(root, tools.NewParserRegistry())

	return &DocumentationPipeline{
		config:   cfg,
		analyzer: analyzer,
		mapper:   heuristics.NewDocTargetMapper(cfg.Heuristics),
		writer:   agent.NewDocWriterAgent(writer, registry),
		applier:  patch.NewPatchApplier(root),
	}, nil
}

// Root returns the repository root the pipeline operates on.
func (p *DocumentationPipeline) Root() string {
	return p.analyzer.Root()
}

func (p *DocumentationPipeline) RunAnalyze(ctx context.Context, opts Options) (*Analysis, error) {
	diff, err := p.diff(ctx, opts)
	if err != nil {
		return nil, err
	}

	diff = p.dropIgnored(diff)
	if err := p.checkLimits(diff); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mapping := p.mapper.MapToDocTargets(diff)

	report := &types.AnalysisReport{
		RunID:             uuid.NewString(),
		GeneratedAt:       time.Now(),
		Diff:              types.SummarizeDiff(diff),
		ChangeType:        mapping.OverallChangeType,
		Targets:           mapping.Targets,
		AverageConfidence: mapping.AverageConfidence,
		OverallConfidence: mapping.OverallConfidence(),
	}

	slog.Debug("analysis complete",
		"runId", report.RunID,
		"files", report.Diff.FilesChanged,
		"changeType", report.ChangeType,
		"targets", len(report.Targets))

	return &Analysis{Report: report, Diff: diff, Mapping: mapping}, nil
}

// RunGenerate writes content for every target of the analysis and applies the
// resulting patches. Patches aimed outside the allowlist are recorded as
// failures and never reach the file system.
func (p *DocumentationPipeline) RunGenerate(ctx context.Context, a *Analysis, dryRun bool) (*types.GenerationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generated, err := p.writer.Generate(ctx, a.Mapping, a.Diff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate documentation: %w", err)
	}

	allowed := &types.PatchSet{
		GeneratedAt: generated.PatchSet.GeneratedAt,
		Summary:     generated.PatchSet.Summary,
	}
	for _, pt := range generated.PatchSet.Patches {
		if p.isAllowed(pt.FilePath) {
			allowed.Patches = append(allowed.Patches, pt)
		}
	}

	applied := p.applier.Apply(ctx, allowed, dryRun)

	result := &types.ApplyResult{Success: true, DryRun: dryRun}
	next := 0
	for _, pt := range generated.PatchSet.Patches {
		var r types.PatchResult
		if p.isAllowed(pt.FilePath) {
			r = applied.Results[next]
			next++
		} else {
			slog.Warn("rejecting patch", "target", pt.FilePath, "reason", outsideAllowlistError)
			r = types.PatchResult{
				FilePath:  pt.FilePath,
				Operation: pt.Operation,
				Error:     outsideAllowlistError,
			}
		}
		result.Success = result.Success && r.Success
		result.Results = append(result.Results, r)
	}

	runID := uuid.NewString()
	if a.Report != nil {
		runID = a.Report.RunID
	}

	return &types.GenerationReport{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Patches:     generated.PatchSet.Patches,
		Apply:       result,
		Errors:      generated.Errors,
	}, nil
}

func (p *DocumentationPipeline) diff(ctx context.Context, opts Options) (*types.DiffResult, error) {
	switch {
	case opts.Staged && opts.Worktree:
		return nil, fmt.Errorf("staged and worktree comparisons are mutually exclusive")
	case opts.Staged:
		return p.analyzer.AnalyzeStaged(ctx)
	case opts.Worktree:
		return p.analyzer.AnalyzeWorktree(ctx)
	}

	base, head := opts.Base, opts.Head
	if base == "" {
		base = DefaultBaseRef
	}
	if head == "" {
		head = DefaultHeadRef
	}
	return p.analyzer.AnalyzeRange(ctx, base, head)
}

func (p *DocumentationPipeline) dropIgnored(diff *types.DiffResult) *types.DiffResult {
	return diff.Without(func(f types.ChangedFile) bool {
		if matchesPathList(p.config.Paths.Ignorelist, f.Path) {
			slog.Debug("ignoring changed file", "file", f.Path)
			return true
		}
		return false
	})
}

func (p *DocumentationPipeline) checkLimits(diff *types.DiffResult) error {
	limits := p.config.Limits
	if files := diff.TotalFilesChanged(); limits.MaxFiles > 0 && files > limits.MaxFiles {
		return fmt.Errorf("%w: %d files changed, limit is %d", ErrLimitExceeded, files, limits.MaxFiles)
	}
	lines := diff.TotalLinesAdded() + diff.TotalLinesDeleted()
	if limits.MaxLines > 0 && lines > limits.MaxLines {
		return fmt.Errorf("%w: %d lines changed, limit is %d", ErrLimitExceeded, lines, limits.MaxLines)
	}
	return nil
}

func (p *DocumentationPipeline) isAllowed(filePath string) bool {
	return matchesPathList(p.config.Paths.Allowlist, filePath)
}

// matchesPathList matches the full path against each pattern. Patterns
// without a slash also match the base name, so "*.md" covers nested files.
func matchesPathList(patterns []string, filePath string) bool {
	filePath = utils.NormalizePath(filePath)
	if utils.MatchAny(patterns, filePath) {
		return true
	}
	base := path.Base(filePath)
	for _, pattern := range patterns {
		if !strings.Contains(pattern, "/") && utils.MatchGlob(pattern, base) {
			return true
		}
	}
	return false
}
