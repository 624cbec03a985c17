package tools

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// initTestRepo creates a temporary repository with one commit of README.md.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "commit.gpgsign", "false")

	writeTestFile(t, dir, "README.md", "# Project\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial commit")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestGitDiffTool_Name(t *testing.T) {
	tool := NewGitDiffTool(NewGitRepo("."))
	if tool.Name() != "git_diff" {
		t.Errorf("Expected name 'git_diff', got %s", tool.Name())
	}
	if !strings.Contains(strings.ToLower(tool.Description()), "diff") {
		t.Errorf("Expected description to mention diff, got: %s", tool.Description())
	}
}

func TestGitDiffTool_ExecuteRange(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "docs/guide.md", "# Guide\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "add guide")

	tool := NewGitDiffTool(NewGitRepo(dir))
	result, err := tool.Execute(context.Background(), map[string]any{"base": "HEAD~1", "head": "HEAD"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	diff, ok := result.(string)
	if !ok {
		t.Fatalf("Expected string result, got %T", result)
	}
	if !strings.Contains(diff, "diff --git a/docs/guide.md b/docs/guide.md") {
		t.Errorf("Expected diff header for docs/guide.md, got:\n%s", diff)
	}
	if !strings.Contains(diff, "new file mode") {
		t.Errorf("Expected new file mode in diff, got:\n%s", diff)
	}
}

func TestGitDiffTool_ExecuteStagedAndWorktree(t *testing.T) {
	dir := initTestRepo(t)
	writeTestFile(t, dir, "README.md", "# Project\n\nStaged line\n")
	runGit(t, dir, "add", "README.md")
	writeTestFile(t, dir, "README.md", "# Project\n\nStaged line\nUnstaged line\n")

	tool := NewGitDiffTool(NewGitRepo(dir))

	staged, err := tool.Execute(context.Background(), map[string]any{"staged": true})
	if err != nil {
		t.Fatalf("staged diff: %v", err)
	}
	if strings.Contains(staged.(string), "Unstaged line") {
		t.Errorf("Staged diff should not contain unstaged changes:\n%s", staged)
	}
	if !strings.Contains(staged.(string), "+Staged line") {
		t.Errorf("Staged diff missing staged change:\n%s", staged)
	}

	worktree, err := tool.Execute(context.Background(), map[string]any{"worktree": true})
	if err != nil {
		t.Fatalf("worktree diff: %v", err)
	}
	if !strings.Contains(worktree.(string), "+Unstaged line") {
		t.Errorf("Worktree diff missing unstaged change:\n%s", worktree)
	}
}

func TestGitDiffTool_ExecuteMissingRefs(t *testing.T) {
	tool := NewGitDiffTool(NewGitRepo("."))

	if _, err := tool.Execute(context.Background(), map[string]any{}); err == nil {
		t.Error("Expected error for missing base")
	}
	if _, err := tool.Execute(context.Background(), map[string]any{"base": "HEAD~1"}); err == nil {
		t.Error("Expected error for missing head")
	}
}

func TestGitDiffTool_ExecuteUnknownRef(t *testing.T) {
	dir := initTestRepo(t)
	tool := NewGitDiffTool(NewGitRepo(dir))

	_, err := tool.Execute(context.Background(), map[string]any{"base": "does-not-exist", "head": "HEAD"})
	if err == nil {
		t.Fatal("Expected error for unknown ref")
	}
	if !strings.Contains(err.Error(), "failed to get diff") {
		t.Errorf("Expected wrapped error, got: %v", err)
	}
}

func TestGitRepo_TopLevelAndRemote(t *testing.T) {
	dir := initTestRepo(t)
	runGit(t, dir, "remote", "add", "origin", "git@github.com:acme/widgets.git")
	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	repo := NewGitRepo(sub)
	top, err := repo.TopLevel(context.Background())
	if err != nil {
		t.Fatalf("TopLevel: %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	topResolved, _ := filepath.EvalSymlinks(top)
	if topResolved != resolved {
		t.Errorf("Expected top level %s, got %s", resolved, topResolved)
	}

	url, err := repo.RemoteURL(context.Background(), "origin")
	if err != nil {
		t.Fatalf("RemoteURL: %v", err)
	}
	if url != "git@github.com:acme/widgets.git" {
		t.Errorf("Unexpected remote url %q", url)
	}

	if _, err := repo.CurrentBranch(context.Background()); err != nil {
		t.Errorf("CurrentBranch: %v", err)
	}
}

func TestGitRepo_TopLevelOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())

	_, err := NewGitRepo(t.TempDir()).TopLevel(context.Background())
	if err == nil {
		t.Error("Expected error outside a repository")
	}
}
