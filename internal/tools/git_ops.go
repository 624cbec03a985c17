package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitRepo runs git commands in a working directory.
type GitRepo struct {
	Dir string
}

func NewGitRepo(dir string) *GitRepo {
	return &GitRepo{Dir: dir}
}

// git runs a git command and returns its raw stdout. Stderr is attached to the
// error on failure.
func (r *GitRepo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// TopLevel returns the absolute path of the repository root.
func (r *GitRepo) TopLevel(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Diff returns unified diff text with rename detection. extra selects what is
// compared, e.g. two refs, "--cached", or a single ref for the worktree.
func (r *GitRepo) Diff(ctx context.Context, extra ...string) (string, error) {
	args := append([]string{"diff", "-M", "--no-color", "--no-ext-diff"}, extra...)
	return r.git(ctx, args...)
}

// RemoteURL returns the fetch URL of the named remote.
func (r *GitRepo) RemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := r.git(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the checked out branch name, or "HEAD" when detached.
func (r *GitRepo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

type GitDiffTool struct {
	repo *GitRepo
}

func NewGitDiffTool(repo *GitRepo) *GitDiffTool {
	return &GitDiffTool{repo: repo}
}

func (t *GitDiffTool) Name() string {
	return string(ToolNameGitDiff)
}

func (t *GitDiffTool) Description() string {
	return "Get the unified diff between two refs, the index, or the working tree"
}

// Execute accepts either "staged" (bool), "worktree" (bool), or "base" and
// "head" refs.
func (t *GitDiffTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	if staged, _ := args["staged"].(bool); staged {
		out, err := t.repo.Diff(ctx, "--cached")
		if err != nil {
			return "", fmt.Errorf("failed to get staged diff: %w", err)
		}
		return out, nil
	}

	if worktree, _ := args["worktree"].(bool); worktree {
		out, err := t.repo.Diff(ctx, "HEAD")
		if err != nil {
			return "", fmt.Errorf("failed to get worktree diff: %w", err)
		}
		return out, nil
	}

	base, ok := args["base"].(string)
	if !ok || base == "" {
		return "", fmt.Errorf("base parameter required")
	}
	head, ok := args["head"].(string)
	if !ok || head == "" {
		return "", fmt.Errorf("head parameter required")
	}

	out, err := t.repo.Diff(ctx, base, head)
	if err != nil {
		return "", fmt.Errorf("failed to get diff %s..%s: %w", base, head, err)
	}
	return out, nil
}
