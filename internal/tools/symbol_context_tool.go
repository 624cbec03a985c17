package tools

import (
	"context"
	"fmt"

	"github.com/agusespa/docpilot/internal/types"
)

// SymbolContextTool reports the declarations touched by a file's hunks.
type SymbolContextTool struct {
	registry *ParserRegistry
}

func NewSymbolContextTool(registry *ParserRegistry) *SymbolContextTool {
	return &SymbolContextTool{registry: registry}
}

func (t *SymbolContextTool) Name() string {
	return string(ToolNameSymbolContext)
}

func (t *SymbolContextTool) Description() string {
	return "Find the symbols whose definitions overlap the changed lines of a file"
}

// Execute expects "file_path", "content" and "hunks" ([]types.Hunk) and
// returns []types.Symbol.
func (t *SymbolContextTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	filePath, ok := args["file_path"].(string)
	if !ok || filePath == "" {
		return nil, fmt.Errorf("file_path parameter required for symbol analysis")
	}

	content, ok := args["content"].(string)
	if !ok {
		return nil, fmt.Errorf("content parameter required for symbol analysis")
	}

	hunks, ok := args["hunks"].([]types.Hunk)
	if !ok {
		return nil, fmt.Errorf("hunks parameter required for symbol analysis")
	}

	symbols, err := t.registry.ChangedSymbols(filePath, []byte(content), hunks)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return symbols, nil
}
