package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/pkg/config"
)

func newDiff(files ...types.ChangedFile) *types.DiffResult {
	return &types.DiffResult{BaseRef: "HEAD~1", HeadRef: "HEAD", Files: files}
}

func TestMapToDocTargets_NewControllerScoresHigh(t *testing.T) {
	mapper := NewDocTargetMapper(config.DefaultHeuristics())
	diff := newDiff(types.ChangedFile{
		Path:       "src/UserController.cs",
		Kind:       types.ChangeKindAdded,
		LinesAdded: 100,
	})

	result := mapper.MapToDocTargets(diff)

	assert.Equal(t, types.ChangeTypeFeature, result.OverallChangeType)
	require.Len(t, result.Targets, 2)

	api, ok := result.Target("docs/api.md")
	require.True(t, ok)
	assert.GreaterOrEqual(t, api.ConfidenceScore, 0.95)
	assert.Equal(t, types.ConfidenceHigh, api.Confidence)
	assert.Equal(t, "## Endpoints", api.Section)
	assert.Equal(t, []string{"src/UserController.cs"}, api.SourceFiles)
	assert.Contains(t, api.Rationale, "New file added")
	assert.Contains(t, api.Rationale, "+100/-0")

	readme, ok := result.Target("README.md")
	require.True(t, ok)
	assert.InDelta(t, 0.85, readme.ConfidenceScore, 1e-9)
	assert.Equal(t, "## API Reference", readme.Section)
}

func TestMapToDocTargets_TargetsInFirstMatchOrder(t *testing.T) {
	mapper := NewDocTargetMapper(config.DefaultHeuristics())
	diff := newDiff(
		types.ChangedFile{Path: ".github/workflows/ci.yml", Kind: types.ChangeKindModified, LinesAdded: 10},
		types.ChangedFile{Path: "src/App.cs", Kind: types.ChangeKindModified, LinesAdded: 10},
	)

	result := mapper.MapToDocTargets(diff)

	require.Len(t, result.Targets, 2)
	assert.Equal(t, "docs/ci-cd.md", result.Targets[0].FilePath)
	assert.Equal(t, "README.md", result.Targets[1].FilePath)
}

func TestMapToDocTargets_CustomClassifier(t *testing.T) {
	classifier := NewChangeClassifierWithRules([]PathRule{{"src/**", types.ChangeTypeRefactor}})
	mapper := NewDocTargetMapper(config.DefaultHeuristics()).WithClassifier(classifier)

	result := mapper.MapToDocTargets(newDiff(types.ChangedFile{
		Path: "src/App.cs", Kind: types.ChangeKindModified, LinesAdded: 10,
	}))

	assert.Equal(t, types.ChangeTypeRefactor, result.OverallChangeType)
	require.Len(t, result.Targets, 1)
	assert.Equal(t, "README.md", result.Targets[0].FilePath)
}

func TestMapToDocTargets_PackageTemplate(t *testing.T) {
	mapper := NewDocTargetMapper(config.DefaultHeuristics())
	diff := newDiff(types.ChangedFile{
		Path:         "packages/auth/src/index.ts",
		Kind:         types.ChangeKindModified,
		LinesAdded:   6,
		LinesDeleted: 4,
	})

	result := mapper.MapToDocTargets(diff)

	require.Len(t, result.Targets, 1)
	target := result.Targets[0]
	assert.Equal(t, "packages/auth/README.md", target.FilePath)
	assert.InDelta(t, 0.65, target.ConfidenceScore, 1e-9)
	assert.Equal(t, types.ConfidenceMedium, target.Confidence)
	assert.Empty(t, target.Section)
}

func TestMapToDocTargets_NoMatches(t *testing.T) {
	mapper := NewDocTargetMapper(config.DefaultHeuristics())

	result := mapper.MapToDocTargets(newDiff(types.ChangedFile{Path: "Makefile", Kind: types.ChangeKindModified}))

	assert.Empty(t, result.Targets)
	assert.Zero(t, result.AverageConfidence)
	assert.Equal(t, types.ConfidenceLow, result.OverallConfidence())

	empty := mapper.MapToDocTargets(newDiff())
	assert.Equal(t, types.ChangeTypeUnknown, empty.OverallChangeType)
	assert.Empty(t, empty.Targets)
}

func TestMapToDocTargets_MergeKeepsHighestScore(t *testing.T) {
	rules := []types.HeuristicRule{
		{Pattern: "src/**/*.cs", DocTarget: "README.md", Section: "## API", ConfidenceBoost: 0.1},
	}
	mapper := NewDocTargetMapper(rules)
	diff := newDiff(
		types.ChangedFile{Path: "src/A.cs", Kind: types.ChangeKindModified, LinesAdded: 10},
		types.ChangedFile{Path: "src/B.cs", Kind: types.ChangeKindAdded, LinesAdded: 100},
		types.ChangedFile{Path: "src/C.cs", Kind: types.ChangeKindModified, LinesAdded: 1},
	)

	result := mapper.MapToDocTargets(diff)

	require.Len(t, result.Targets, 1)
	target := result.Targets[0]
	assert.InDelta(t, 0.85, target.ConfidenceScore, 1e-9)
	assert.Contains(t, target.Rationale, "src/B.cs")
	assert.Equal(t, []string{"src/A.cs", "src/B.cs", "src/C.cs"}, target.SourceFiles)
	// (0.6 + 0.85 + 0.5) / 3
	assert.InDelta(t, 0.65, result.AverageConfidence, 1e-9)
}

func TestMapToDocTargets_SourceFilesAreUnique(t *testing.T) {
	mapper := NewDocTargetMapper(config.DefaultHeuristics())
	diff := newDiff(types.ChangedFile{
		Path:       "src/Controllers/UserController.cs",
		Kind:       types.ChangeKindModified,
		LinesAdded: 20,
	})

	result := mapper.MapToDocTargets(diff)

	api, ok := result.Target("docs/api.md")
	require.True(t, ok)
	assert.Equal(t, []string{"src/Controllers/UserController.cs"}, api.SourceFiles)
	// Three matches: README.md (0.6) and docs/api.md twice (0.7).
	assert.InDelta(t, 0.666667, result.AverageConfidence, 1e-9)
}

func TestMapToDocTargets_BreakingBoost(t *testing.T) {
	mapper := NewDocTargetMapper(config.DefaultHeuristics())
	diff := newDiff(types.ChangedFile{
		Path:         "src/UserService.cs",
		Kind:         types.ChangeKindDeleted,
		LinesDeleted: 30,
	})

	result := mapper.MapToDocTargets(diff)

	assert.Equal(t, types.ChangeTypeBreaking, result.OverallChangeType)
	require.Len(t, result.Targets, 1)
	assert.InDelta(t, 0.8, result.Targets[0].ConfidenceScore, 1e-9)
	assert.Contains(t, result.Targets[0].Rationale, "File removed")
}

func TestMapToDocTargets_Deterministic(t *testing.T) {
	mapper := NewDocTargetMapper(config.DefaultHeuristics())
	diff := newDiff(
		types.ChangedFile{Path: "src/Controllers/OrdersController.cs", Kind: types.ChangeKindAdded, LinesAdded: 80},
		types.ChangedFile{Path: "packages/billing/lib/invoice.ts", Kind: types.ChangeKindModified, LinesAdded: 3},
		types.ChangedFile{Path: "terraform/main.tf", Kind: types.ChangeKindModified, LinesAdded: 12},
		types.ChangedFile{Path: "src/Models/Order.cs", Kind: types.ChangeKindModified, LinesDeleted: 7},
	)

	first := mapper.MapToDocTargets(diff)
	for range 5 {
		assert.Equal(t, first, mapper.MapToDocTargets(diff))
	}
}

func TestMapToDocTargets_ScoresStayInRange(t *testing.T) {
	rules := []types.HeuristicRule{
		{Pattern: "**/*.go", DocTarget: "docs/max.md", ConfidenceBoost: 1.0},
		{Pattern: "**/*.go", DocTarget: "docs/min.md", ConfidenceBoost: -1.0},
	}
	mapper := NewDocTargetMapper(rules)
	diff := newDiff(types.ChangedFile{Path: "internal/main.go", Kind: types.ChangeKindAdded, LinesAdded: 200})

	result := mapper.MapToDocTargets(diff)

	for _, target := range result.Targets {
		assert.GreaterOrEqual(t, target.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, target.ConfidenceScore, 1.0)
	}
	maxTarget, _ := result.Target("docs/max.md")
	assert.Equal(t, 1.0, maxTarget.ConfidenceScore)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 0.95, roundScore(0.5+0.2+0.1+0.15))
	assert.Equal(t, 0.666667, roundScore(2.0/3))
	assert.Equal(t, 0.8, roundScore(0.1+0.7))
}

func TestCalculateConfidence(t *testing.T) {
	tests := []struct {
		name       string
		file       types.ChangedFile
		boost      float64
		changeType types.ChangeType
		expected   float64
	}{
		{"base only", types.ChangedFile{Kind: types.ChangeKindModified, LinesAdded: 10}, 0, types.ChangeTypeFeature, 0.5},
		{"small change penalty", types.ChangedFile{Kind: types.ChangeKindModified, LinesAdded: 4}, 0, types.ChangeTypeFeature, 0.4},
		{"large change", types.ChangedFile{Kind: types.ChangeKindModified, LinesAdded: 51}, 0, types.ChangeTypeFeature, 0.6},
		{"exactly fifty lines", types.ChangedFile{Kind: types.ChangeKindModified, LinesAdded: 50}, 0, types.ChangeTypeFeature, 0.5},
		{"added file", types.ChangedFile{Kind: types.ChangeKindAdded, LinesAdded: 10}, 0, types.ChangeTypeFeature, 0.65},
		{"breaking", types.ChangedFile{Kind: types.ChangeKindModified, LinesAdded: 10}, 0, types.ChangeTypeBreaking, 0.7},
		{"clamped high", types.ChangedFile{Kind: types.ChangeKindModified, LinesAdded: 2}, 1.0, types.ChangeTypeFeature, 1.0},
		{"clamped low", types.ChangedFile{Kind: types.ChangeKindModified, LinesAdded: 2}, -1.0, types.ChangeTypeFeature, 0.0},
		{"everything", types.ChangedFile{Kind: types.ChangeKindAdded, LinesAdded: 100}, 0.2, types.ChangeTypeFeature, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := types.HeuristicRule{Pattern: "**", DocTarget: "README.md", ConfidenceBoost: tt.boost}
			assert.InDelta(t, tt.expected, CalculateConfidence(tt.file, rule, tt.changeType), 1e-9)
		})
	}
}

func TestResolveDocTarget(t *testing.T) {
	tests := []struct {
		template string
		source   string
		expected string
	}{
		{"packages/{0}/README.md", "packages/auth/src/index.ts", "packages/auth/README.md"},
		{"packages/{0}/README.md", `packages\billing\lib\x.ts`, "packages/billing/README.md"},
		{"packages/{0}/README.md", "apps/web/index.ts", "packages/main/README.md"},
		{"packages/{0}/README.md", "src/packages", "packages/main/README.md"},
		{"docs/api.md", "packages/auth/index.ts", "docs/api.md"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDocTarget(tt.template, tt.source))
		})
	}
}

func TestGenerateRationale(t *testing.T) {
	file := types.ChangedFile{Path: "src/App.cs", Kind: types.ChangeKindRenamed, LinesAdded: 3, LinesDeleted: 1}
	rule := types.HeuristicRule{Pattern: "src/**/*.cs"}

	rationale := GenerateRationale(file, rule, types.ChangeTypeRefactor)

	assert.Equal(t, "File renamed: src/App.cs matches pattern 'src/**/*.cs'. Change type: Refactor. Lines changed: +3/-1.", rationale)
}

func TestLevelForScore(t *testing.T) {
	assert.Equal(t, types.ConfidenceLow, types.LevelForScore(0.49))
	assert.Equal(t, types.ConfidenceMedium, types.LevelForScore(0.5))
	assert.Equal(t, types.ConfidenceMedium, types.LevelForScore(0.8))
	assert.Equal(t, types.ConfidenceHigh, types.LevelForScore(0.81))
}
