package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxReadFileChars caps the content returned to content generators.
const MaxReadFileChars = 10000

const truncationMarker = "\n\n[Content truncated...]"

var ErrOutsideRepository = errors.New("path outside repository")

// ReadFileResult describes a repository file. Content is empty when the file
// does not exist.
type ReadFileResult struct {
	Exists    bool   `json:"exists"`
	Content   string `json:"content,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

type ReadFileTool struct {
	repoPath string
}

func NewReadFileTool(repoPath string) *ReadFileTool {
	return &ReadFileTool{repoPath: repoPath}
}

func (t *ReadFileTool) Name() string {
	return string(ToolNameReadFile)
}

func (t *ReadFileTool) Description() string {
	return "Read a repository file for context"
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return ReadFileResult{}, fmt.Errorf("filename parameter required")
	}

	fullPath, err := t.resolve(filename)
	if err != nil {
		return ReadFileResult{}, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ReadFileResult{Exists: false}, nil
		}
		return ReadFileResult{}, fmt.Errorf("failed to read file: %w", err)
	}

	result := ReadFileResult{Exists: true, Content: string(content)}
	if len(result.Content) > MaxReadFileChars {
		result.Content = result.Content[:MaxReadFileChars] + truncationMarker
		result.Truncated = true
	}
	return result, nil
}

// resolve joins a repository-relative path onto the root and rejects paths
// that escape it.
func (t *ReadFileTool) resolve(filename string) (string, error) {
	root, err := filepath.Abs(t.repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository path: %w", err)
	}

	fullPath := filepath.Join(root, filepath.FromSlash(filename))
	rel, err := filepath.Rel(root, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRepository, filename)
	}
	return fullPath, nil
}
