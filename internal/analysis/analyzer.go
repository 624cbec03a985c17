package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agusespa/docpilot/internal/tools"
	"github.com/agusespa/docpilot/internal/types"
)

var ErrNotRepository = errors.New("not a git repository")

// DiffAnalyzer produces DiffResults for a git repository.
type DiffAnalyzer struct {
	root     string
	diffTool tools.Tool
}

// NewDiffAnalyzer resolves the repository containing dir.
func NewDiffAnalyzer(ctx context.Context, dir string) (*DiffAnalyzer, error) {
	repo := tools.NewGitRepo(dir)
	root, err := repo.TopLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotRepository, dir, err)
	}

	return &DiffAnalyzer{
		root:     root,
		diffTool: tools.NewGitDiffTool(tools.NewGitRepo(root)),
	}, nil
}

// Root returns the absolute repository root.
func (a *DiffAnalyzer) Root() string {
	return a.root
}

// AnalyzeRange compares two commits or branch names.
func (a *DiffAnalyzer) AnalyzeRange(ctx context.Context, baseRef, headRef string) (*types.DiffResult, error) {
	return a.analyze(ctx, baseRef, headRef, map[string]any{"base": baseRef, "head": headRef})
}

// AnalyzeStaged compares HEAD with the index.
func (a *DiffAnalyzer) AnalyzeStaged(ctx context.Context) (*types.DiffResult, error) {
	return a.analyze(ctx, types.RefHead, types.RefIndex, map[string]any{"staged": true})
}

// AnalyzeWorktree compares HEAD with the working tree, staged changes included.
func (a *DiffAnalyzer) AnalyzeWorktree(ctx context.Context) (*types.DiffResult, error) {
	return a.analyze(ctx, types.RefHead, types.RefWorktree, map[string]any{"worktree": true})
}

func (a *DiffAnalyzer) analyze(ctx context.Context, baseRef, headRef string, args map[string]any) (*types.DiffResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := a.diffTool.Execute(ctx, args)
	if err != nil {
		return nil, err
	}

	text, ok := out.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type %T", a.diffTool.Name(), out)
	}

	return BuildDiffResult(baseRef, headRef, text), nil
}

// BuildDiffResult converts unified diff text into a DiffResult stamped with
// the current time.
func BuildDiffResult(baseRef, headRef, text string) *types.DiffResult {
	return &types.DiffResult{
		BaseRef:   baseRef,
		HeadRef:   headRef,
		Files:     ParseChangedFiles(text),
		Timestamp: time.Now(),
	}
}
