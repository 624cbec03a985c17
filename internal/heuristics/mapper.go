package heuristics

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
)

const (
	packagePlaceholder = "{0}"
	packagesSegment    = "packages"
	defaultPackageName = "main"
)

// Confidence adjustments applied to every rule match.
const (
	baseConfidence      = 0.5
	largeChangeBoost    = 0.1
	addedFileBoost      = 0.15
	breakingChangeBoost = 0.2
	smallChangePenalty  = 0.1

	largeChangeLines = 50
	smallChangeLines = 5
)

// DocTargetMapper projects changed files onto documentation targets using an
// ordered list of heuristic rules.
type DocTargetMapper struct {
	rules      []types.HeuristicRule
	classifier *ChangeClassifier
}

func NewDocTargetMapper(rules []types.HeuristicRule) *DocTargetMapper {
	return &DocTargetMapper{
		rules:      rules,
		classifier: NewChangeClassifier(),
	}
}

// WithClassifier replaces the classifier used for the overall change type.
func (m *DocTargetMapper) WithClassifier(classifier *ChangeClassifier) *DocTargetMapper {
	m.classifier = classifier
	return m
}

// targetBuilder accumulates matches for one resolved path during a run.
type targetBuilder struct {
	filePath    string
	section     string
	score       float64
	rationale   string
	sourceFiles []string
}

func (b *targetBuilder) addSource(path string) {
	if !slices.Contains(b.sourceFiles, path) {
		b.sourceFiles = append(b.sourceFiles, path)
	}
}

func (b *targetBuilder) freeze() types.DocTarget {
	return types.DocTarget{
		FilePath:        b.filePath,
		Section:         b.section,
		Confidence:      types.LevelForScore(b.score),
		ConfidenceScore: b.score,
		Rationale:       b.rationale,
		SourceFiles:     slices.Clone(b.sourceFiles),
	}
}

// MapToDocTargets evaluates every rule against every changed file. Each match
// contributes a confidence sample; matches resolving to the same path are
// merged into one target that keeps the highest score. Targets are returned
// in the order they were first matched.
func (m *DocTargetMapper) MapToDocTargets(diff *types.DiffResult) *types.MappingResult {
	changeType := m.classifier.ClassifyChange(diff)

	builders := make(map[string]*targetBuilder)
	var order []string
	totalConfidence := 0.0
	matchCount := 0

	if diff != nil {
		for _, file := range diff.Files {
			for _, rule := range m.rules {
				if !utils.MatchGlob(rule.Pattern, file.Path) {
					continue
				}

				docPath := ResolveDocTarget(rule.DocTarget, file.Path)
				confidence := CalculateConfidence(file, rule, changeType)
				rationale := GenerateRationale(file, rule, changeType)

				slog.Debug("heuristic rule matched",
					"file", file.Path,
					"pattern", rule.Pattern,
					"target", docPath,
					"confidence", confidence)

				if existing, ok := builders[docPath]; ok {
					existing.addSource(file.Path)
					if confidence > existing.score {
						existing.score = confidence
						existing.rationale = rationale
					}
				} else {
					builders[docPath] = &targetBuilder{
						filePath:    docPath,
						section:     rule.Section,
						score:       confidence,
						rationale:   rationale,
						sourceFiles: []string{file.Path},
					}
					order = append(order, docPath)
				}

				totalConfidence += confidence
				matchCount++
			}
		}
	}

	targets := make([]types.DocTarget, 0, len(order))
	for _, path := range order {
		targets = append(targets, builders[path].freeze())
	}

	avgConfidence := 0.0
	if matchCount > 0 {
		avgConfidence = roundScore(totalConfidence / float64(matchCount))
	}

	return &types.MappingResult{
		OverallChangeType: changeType,
		Targets:           targets,
		AverageConfidence: avgConfidence,
	}
}

// ResolveDocTarget substitutes the {0} placeholder with the path segment that
// follows a "packages" segment in sourcePath, or "main" when there is none.
func ResolveDocTarget(template, sourcePath string) string {
	if !strings.Contains(template, packagePlaceholder) {
		return template
	}

	parts := strings.FieldsFunc(sourcePath, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	packageIndex := slices.Index(parts, packagesSegment)

	if packageIndex >= 0 && packageIndex+1 < len(parts) {
		return strings.ReplaceAll(template, packagePlaceholder, parts[packageIndex+1])
	}

	return strings.ReplaceAll(template, packagePlaceholder, defaultPackageName)
}

// CalculateConfidence scores one rule match, clamped to [0, 1].
func CalculateConfidence(file types.ChangedFile, rule types.HeuristicRule, changeType types.ChangeType) float64 {
	confidence := baseConfidence + rule.ConfidenceBoost

	if file.TotalLinesChanged() > largeChangeLines {
		confidence += largeChangeBoost
	}
	if file.Kind == types.ChangeKindAdded {
		confidence += addedFileBoost
	}
	if changeType == types.ChangeTypeBreaking {
		confidence += breakingChangeBoost
	}
	if file.TotalLinesChanged() < smallChangeLines {
		confidence -= smallChangePenalty
	}

	return roundScore(math.Max(0, math.Min(1, confidence)))
}

// roundScore drops floating point noise so that 0.5+0.2+0.1+0.15 reports 0.95.
func roundScore(score float64) float64 {
	return math.Round(score*1e6) / 1e6
}

func GenerateRationale(file types.ChangedFile, rule types.HeuristicRule, changeType types.ChangeType) string {
	return fmt.Sprintf("%s: %s matches pattern '%s'. Change type: %s. Lines changed: +%d/-%d.",
		changeAction(file.Kind), file.Path, rule.Pattern, changeType, file.LinesAdded, file.LinesDeleted)
}

func changeAction(kind types.ChangeKind) string {
	switch kind {
	case types.ChangeKindAdded:
		return "New file added"
	case types.ChangeKindDeleted:
		return "File removed"
	case types.ChangeKindRenamed:
		return "File renamed"
	default:
		return "File modified"
	}
}
