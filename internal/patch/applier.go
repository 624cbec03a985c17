package patch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agusespa/docpilot/internal/types"
)

var ErrUnknownOperation = errors.New("unknown patch operation")

// PatchApplier writes documentation patches below a repository root.
type PatchApplier struct {
	repoPath string
}

func NewPatchApplier(repoPath string) *PatchApplier {
	return &PatchApplier{repoPath: repoPath}
}

// Apply processes patches sequentially in input order, so later patches see
// earlier writes to the same file. A failing patch is recorded in its result
// and does not stop the batch. Cancellation is checked before each patch;
// patches not started are reported as failed with the context error.
func (a *PatchApplier) Apply(ctx context.Context, patchSet *types.PatchSet, dryRun bool) *types.ApplyResult {
	result := &types.ApplyResult{
		Success: true,
		DryRun:  dryRun,
		Results: []types.PatchResult{},
	}
	if patchSet == nil {
		return result
	}

	for _, p := range patchSet.Patches {
		var res types.PatchResult
		if err := ctx.Err(); err != nil {
			res = failedResult(p, err)
		} else {
			res = a.applyPatch(p, dryRun)
		}

		if !res.Success {
			result.Success = false
		}
		result.Results = append(result.Results, res)
	}

	return result
}

func (a *PatchApplier) applyPatch(p types.DocPatch, dryRun bool) types.PatchResult {
	fullPath := filepath.Join(a.repoPath, filepath.FromSlash(p.FilePath))

	content, err := a.resolveContent(fullPath, p)
	if err != nil {
		return failedResult(p, err)
	}

	if !dryRun {
		if err := a.write(fullPath, p.Operation, content); err != nil {
			return failedResult(p, err)
		}
	}

	res := types.PatchResult{
		FilePath:  p.FilePath,
		Operation: p.Operation,
		Success:   true,
	}
	if dryRun && p.Operation != types.PatchDelete {
		res.PreviewContent = &content
	}

	slog.Debug("patch applied", "file", p.FilePath, "operation", p.Operation, "dryRun", dryRun)
	return res
}

// resolveContent computes the file content after the patch without touching
// the file system.
func (a *PatchApplier) resolveContent(fullPath string, p types.DocPatch) (string, error) {
	switch p.Operation {
	case types.PatchCreate, types.PatchUpdate:
		return p.Content, nil
	case types.PatchAppend:
		existing, err := readIfExists(fullPath)
		if err != nil {
			return "", err
		}
		return InsertAtSection(existing, p.Section, p.Content), nil
	case types.PatchDelete:
		return "", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, p.Operation)
	}
}

func (a *PatchApplier) write(fullPath string, op types.PatchOperation, content string) error {
	if op == types.PatchDelete {
		if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func readIfExists(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

func failedResult(p types.DocPatch, err error) types.PatchResult {
	slog.Debug("patch failed", "file", p.FilePath, "operation", p.Operation, "error", err)
	return types.PatchResult{
		FilePath:  p.FilePath,
		Operation: p.Operation,
		Success:   false,
		Error:     err.Error(),
	}
}
