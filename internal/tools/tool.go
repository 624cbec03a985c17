package tools

import (
	"context"
	"fmt"
)

type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args map[string]any) (any, error)
}

type ToolName string

const (
	ToolNameGitDiff         ToolName = "git_diff"
	ToolNameReadFile        ToolName = "read_file"
	ToolNameSymbolContext   ToolName = "symbol_context"
	ToolNameValidateMermaid ToolName = "validate_mermaid"
)

type ToolRegistry struct {
	tools map[ToolName]Tool
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[ToolName]Tool),
	}
}

// NewDefaultRegistry wires the tools the documentation writer needs for a
// repository rooted at repoPath.
func NewDefaultRegistry(repoPath string, parsers *ParserRegistry) *ToolRegistry {
	registry := NewToolRegistry()
	registry.Register(ToolNameGitDiff, NewGitDiffTool(NewGitRepo(repoPath)))
	registry.Register(ToolNameReadFile, NewReadFileTool(repoPath))
	registry.Register(ToolNameSymbolContext, NewSymbolContextTool(parsers))
	registry.Register(ToolNameValidateMermaid, &ValidateMermaidTool{})
	return registry
}

func (r *ToolRegistry) Register(name ToolName, tool Tool) {
	r.tools[name] = tool
}

func (r *ToolRegistry) Get(name ToolName) Tool {
	tool, exists := r.tools[name]
	if !exists {
		panic(fmt.Sprintf("BUG: Requested tool '%s' not found in ToolRegistry", name))
	}
	return tool
}

// Has reports whether a tool is registered under name.
func (r *ToolRegistry) Has(name ToolName) bool {
	_, exists := r.tools[name]
	return exists
}
