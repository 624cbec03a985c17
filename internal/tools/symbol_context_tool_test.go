package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusespa/docpilot/internal/types"
)

func TestSymbolContextTool_Execute(t *testing.T) {
	tool := NewSymbolContextTool(NewParserRegistry())
	assert.Equal(t, "symbol_context", tool.Name())

	result, err := tool.Execute(context.Background(), map[string]any{
		"file_path": "sample.go",
		"content":   goSample,
		"hunks":     []types.Hunk{{NewStart: 17, NewCount: 1}},
	})
	require.NoError(t, err)

	symbols, ok := result.([]types.Symbol)
	require.True(t, ok, "expected []types.Symbol, got %T", result)
	assert.Equal(t, []string{"Person.Greet"}, symbolNames(symbols))
}

func TestSymbolContextTool_ExecuteMissingParameters(t *testing.T) {
	tool := NewSymbolContextTool(NewParserRegistry())

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing file path", map[string]any{"content": "", "hunks": []types.Hunk{}}},
		{"missing content", map[string]any{"file_path": "a.go", "hunks": []types.Hunk{}}},
		{"missing hunks", map[string]any{"file_path": "a.go", "content": ""}},
		{"wrong hunks type", map[string]any{"file_path": "a.go", "content": "", "hunks": "1,2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), tt.args)
			assert.Error(t, err)
		})
	}
}
