package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusespa/docpilot/internal/tools"
	"github.com/agusespa/docpilot/internal/types"
)

type mockWriter struct {
	mu       sync.Mutex
	bodies   map[string]string
	failures map[string]error
	delays   map[string]time.Duration
	requests map[string]WriteRequest
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		bodies:   make(map[string]string),
		failures: make(map[string]error),
		delays:   make(map[string]time.Duration),
		requests: make(map[string]WriteRequest),
	}
}

func (m *mockWriter) Write(ctx context.Context, req WriteRequest) (string, error) {
	m.mu.Lock()
	delay := m.delays[req.Target.FilePath]
	m.requests[req.Target.FilePath] = req
	err := m.failures[req.Target.FilePath]
	body, ok := m.bodies[req.Target.FilePath]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return "", err
	}
	if !ok {
		body = "Body for " + req.Target.FilePath
	}
	return body, nil
}

func (m *mockWriter) request(path string) WriteRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[path]
}

func writeRepoFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func newTestAgent(t *testing.T, writer Writer) (*DocWriterAgent, string) {
	t.Helper()
	root := t.TempDir()
	registry := tools.NewDefaultRegistry(root, tools.NewParserRegistry())
	return NewDocWriterAgent(writer, registry), root
}

func target(path, section string, sources ...string) types.DocTarget {
	return types.DocTarget{
		FilePath:        path,
		Section:         section,
		Confidence:      types.ConfidenceHigh,
		ConfidenceScore: 0.9,
		Rationale:       "New file added: " + strings.Join(sources, ","),
		SourceFiles:     sources,
	}
}

func TestGenerate_ChoosesOperationPerTarget(t *testing.T) {
	writer := newMockWriter()
	agent, root := newTestAgent(t, writer)

	writeRepoFile(t, root, "docs/api.md", "# API\n\n## Endpoints\n- GET /health\n")
	writeRepoFile(t, root, "docs/infrastructure.md", "# Infrastructure\n\nIntro.\n")
	writeRepoFile(t, root, "CHANGELOG.md", "# Changelog\n")

	mapping := &types.MappingResult{
		OverallChangeType: types.ChangeTypeFeature,
		Targets: []types.DocTarget{
			target("docs/api.md", "## Endpoints", "src/UserController.cs"),
			target("README.md", "## API Reference", "src/UserController.cs"),
			target("docs/infrastructure.md", "## Infrastructure", "terraform/main.tf"),
			target("CHANGELOG.md", "", "src/UserController.cs"),
		},
	}

	result, err := agent.Generate(context.Background(), mapping, nil)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.PatchSet.Patches, 4)

	api := result.PatchSet.Patches[0]
	assert.Equal(t, types.PatchAppend, api.Operation)
	assert.Equal(t, "## Endpoints", api.Section)
	assert.Equal(t, "Body for docs/api.md", api.Content)
	assert.Equal(t, 0.9, api.Confidence)
	assert.Equal(t, []string{"src/UserController.cs"}, api.SourceReferences)

	readme := result.PatchSet.Patches[1]
	assert.Equal(t, types.PatchCreate, readme.Operation)
	assert.Equal(t, "# README\n\n## API Reference\n\nBody for README.md\n", readme.Content)

	infra := result.PatchSet.Patches[2]
	assert.Equal(t, types.PatchAppend, infra.Operation)
	assert.Empty(t, infra.Section, "missing anchor is written as a new section")
	assert.Equal(t, "## Infrastructure\n\nBody for docs/infrastructure.md\n", infra.Content)

	changelog := result.PatchSet.Patches[3]
	assert.Equal(t, types.PatchAppend, changelog.Operation)
	assert.Equal(t, "Body for CHANGELOG.md\n", changelog.Content)

	assert.True(t, writer.request("docs/api.md").FileExists)
	assert.Contains(t, writer.request("docs/api.md").ExistingContent, "GET /health")
	assert.False(t, writer.request("README.md").FileExists)
	assert.Equal(t, types.ChangeTypeFeature, writer.request("README.md").ChangeType)
	assert.Contains(t, result.PatchSet.Summary, "4 documentation patch(es)")
}

func TestGenerate_KeepsMappingOrder(t *testing.T) {
	writer := newMockWriter()
	writer.delays["docs/a.md"] = 60 * time.Millisecond
	writer.delays["docs/b.md"] = 30 * time.Millisecond
	agent, _ := newTestAgent(t, writer)

	mapping := &types.MappingResult{
		OverallChangeType: types.ChangeTypeFeature,
		Targets: []types.DocTarget{
			target("docs/a.md", "", "a.go"),
			target("docs/b.md", "", "b.go"),
			target("docs/c.md", "", "c.go"),
		},
	}

	result, err := agent.Generate(context.Background(), mapping, nil)
	require.NoError(t, err)

	var paths []string
	for _, p := range result.PatchSet.Patches {
		paths = append(paths, p.FilePath)
	}
	assert.Equal(t, []string{"docs/a.md", "docs/b.md", "docs/c.md"}, paths)
}

func TestGenerate_SingleWorker(t *testing.T) {
	writer := newMockWriter()
	agent, _ := newTestAgent(t, writer)
	agent.SetConcurrency(1)
	agent.SetConcurrency(0)
	assert.Equal(t, 1, agent.concurrency)

	mapping := &types.MappingResult{
		OverallChangeType: types.ChangeTypeFeature,
		Targets: []types.DocTarget{
			target("docs/a.md", "", "a.go"),
			target("docs/b.md", "", "b.go"),
		},
	}

	result, err := agent.Generate(context.Background(), mapping, nil)
	require.NoError(t, err)
	assert.Len(t, result.PatchSet.Patches, 2)
	assert.Empty(t, result.Errors)
}

func TestGenerate_WriterFailureOnlyDropsItsTarget(t *testing.T) {
	writer := newMockWriter()
	writer.failures["docs/b.md"] = errors.New("model unavailable")
	agent, _ := newTestAgent(t, writer)

	mapping := &types.MappingResult{
		Targets: []types.DocTarget{
			target("docs/a.md", "", "a.go"),
			target("docs/b.md", "", "b.go"),
			target("docs/c.md", "", "c.go"),
		},
	}

	result, err := agent.Generate(context.Background(), mapping, nil)
	require.NoError(t, err)

	require.Len(t, result.PatchSet.Patches, 2)
	assert.Equal(t, "docs/a.md", result.PatchSet.Patches[0].FilePath)
	assert.Equal(t, "docs/c.md", result.PatchSet.Patches[1].FilePath)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "docs/b.md", result.Errors[0].FilePath)
	assert.Contains(t, result.Errors[0].Error, "model unavailable")
}

func TestGenerate_TargetOutsideRepositoryFails(t *testing.T) {
	agent, _ := newTestAgent(t, newMockWriter())

	mapping := &types.MappingResult{
		Targets: []types.DocTarget{target("../outside.md", "", "a.go")},
	}

	result, err := agent.Generate(context.Background(), mapping, nil)
	require.NoError(t, err)
	assert.Empty(t, result.PatchSet.Patches)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "path outside repository")
}

func TestGenerate_AddsChangedSymbolReferences(t *testing.T) {
	writer := newMockWriter()
	agent, root := newTestAgent(t, writer)

	source := `package users

type Store struct{}

func (s *Store) Create(name string) error {
	return nil
}

func Delete(name string) error {
	return nil
}
`
	writeRepoFile(t, root, "internal/users/store.go", source)

	diff := &types.DiffResult{
		Files: []types.ChangedFile{{
			Path:       "internal/users/store.go",
			Kind:       types.ChangeKindModified,
			LinesAdded: 1,
			Hunks:      []types.Hunk{{OldStart: 5, OldCount: 3, NewStart: 5, NewCount: 3, Content: "+\treturn nil\n"}},
		}},
	}
	mapping := &types.MappingResult{
		Targets: []types.DocTarget{target("docs/users.md", "", "internal/users/store.go")},
	}

	result, err := agent.Generate(context.Background(), mapping, diff)
	require.NoError(t, err)
	require.Len(t, result.PatchSet.Patches, 1)

	assert.Equal(t,
		[]string{"internal/users/store.go", "internal/users/store.go#Store.Create"},
		result.PatchSet.Patches[0].SourceReferences)
	assert.Equal(t, []string{"internal/users/store.go#Store.Create"}, writer.request("docs/users.md").Symbols)
}

func TestGenerate_DropsInvalidMermaid(t *testing.T) {
	writer := newMockWriter()
	writer.bodies["docs/arch.md"] = "Overview\n\n```mermaid\nflowchart TB\n    A[Client] --> B[API]\n```\n\n```mermaid\nnotADiagram\n    A[x\n```"
	agent, _ := newTestAgent(t, writer)

	mapping := &types.MappingResult{
		Targets: []types.DocTarget{target("docs/arch.md", "", "src/api.go")},
	}

	result, err := agent.Generate(context.Background(), mapping, nil)
	require.NoError(t, err)
	require.Len(t, result.PatchSet.Patches, 1)
	assert.Equal(t, []string{"flowchart TB\n    A[Client] --> B[API]"}, result.PatchSet.Patches[0].MermaidBlocks)
}

func TestGenerate_CanceledContext(t *testing.T) {
	agent, _ := newTestAgent(t, newMockWriter())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.Generate(ctx, &types.MappingResult{
		Targets: []types.DocTarget{target("docs/a.md", "", "a.go")},
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_NilMapping(t *testing.T) {
	agent, _ := newTestAgent(t, newMockWriter())

	result, err := agent.Generate(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.PatchSet.Patches)
	assert.Empty(t, result.Errors)
}
