package heuristics

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/internal/utils"
)

// PathRule assigns a change type to paths matching Pattern.
type PathRule struct {
	Pattern    string
	ChangeType types.ChangeType
}

// DefaultPathRules is evaluated top to bottom; the first match wins.
var DefaultPathRules = []PathRule{
	{"**/fix/**", types.ChangeTypeBugfix},
	{"**/bugfix/**", types.ChangeTypeBugfix},
	{"**/hotfix/**", types.ChangeTypeBugfix},
	{"**/feature/**", types.ChangeTypeFeature},
	{"**/feat/**", types.ChangeTypeFeature},
	{"**/refactor/**", types.ChangeTypeRefactor},
	{"**/docs/**", types.ChangeTypeDocumentation},
	{"**/*.md", types.ChangeTypeDocumentation},
	{"**/terraform/**", types.ChangeTypeInfrastructure},
	{"**/bicep/**", types.ChangeTypeInfrastructure},
	{"**/infra/**", types.ChangeTypeInfrastructure},
	{"**/.github/**", types.ChangeTypeConfiguration},
	{"**/config/**", types.ChangeTypeConfiguration},
	{"**/*.yml", types.ChangeTypeConfiguration},
	{"**/*.yaml", types.ChangeTypeConfiguration},
}

var extensionChangeTypes = map[string]types.ChangeType{
	".cs":    types.ChangeTypeFeature,
	".ts":    types.ChangeTypeFeature,
	".js":    types.ChangeTypeFeature,
	".py":    types.ChangeTypeFeature,
	".go":    types.ChangeTypeFeature,
	".md":    types.ChangeTypeDocumentation,
	".txt":   types.ChangeTypeDocumentation,
	".rst":   types.ChangeTypeDocumentation,
	".tf":    types.ChangeTypeInfrastructure,
	".bicep": types.ChangeTypeInfrastructure,
	".json":  types.ChangeTypeConfiguration,
	".yml":   types.ChangeTypeConfiguration,
	".yaml":  types.ChangeTypeConfiguration,
	".xml":   types.ChangeTypeConfiguration,
}

// Deleting a file whose path contains one of these is treated as an API removal.
var breakingPathMarkers = []string{"Controller", "Service", "Interface"}

var breakingContentMarkers = []string{"[Obsolete", "BREAKING", "@deprecated"}

type ChangeClassifier struct {
	rules []PathRule
}

func NewChangeClassifier() *ChangeClassifier {
	return NewChangeClassifierWithRules(DefaultPathRules)
}

// NewChangeClassifierWithRules uses rules in the given priority order.
func NewChangeClassifierWithRules(rules []PathRule) *ChangeClassifier {
	return &ChangeClassifier{rules: rules}
}

// ClassifyFile returns the change type of the first rule matching filePath,
// falling back to the file extension.
func (c *ChangeClassifier) ClassifyFile(filePath string) types.ChangeType {
	for _, rule := range c.rules {
		if utils.MatchGlob(rule.Pattern, filePath) {
			return rule.ChangeType
		}
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if changeType, ok := extensionChangeTypes[ext]; ok {
		return changeType
	}
	return types.ChangeTypeUnknown
}

// ClassifyChange returns the overall change type of a diff. Breaking
// indicators anywhere in the diff win; otherwise the most frequent per-file
// type wins, ties going to the type seen first.
func (c *ChangeClassifier) ClassifyChange(diff *types.DiffResult) types.ChangeType {
	if diff == nil || len(diff.Files) == 0 {
		return types.ChangeTypeUnknown
	}

	if hasBreakingChangeIndicators(diff) {
		slog.Debug("breaking change indicators found", "base", diff.BaseRef, "head", diff.HeadRef)
		return types.ChangeTypeBreaking
	}

	counts := make(map[types.ChangeType]int)
	var order []types.ChangeType

	for _, file := range diff.Files {
		changeType := c.ClassifyFile(file.Path)
		if _, seen := counts[changeType]; !seen {
			order = append(order, changeType)
		}
		counts[changeType]++
	}

	best := order[0]
	for _, changeType := range order[1:] {
		if counts[changeType] > counts[best] {
			best = changeType
		}
	}
	return best
}

func hasBreakingChangeIndicators(diff *types.DiffResult) bool {
	for _, file := range diff.Files {
		if file.Kind == types.ChangeKindDeleted && containsAny(file.Path, breakingPathMarkers) {
			return true
		}

		for _, hunk := range file.Hunks {
			if containsAny(hunk.Content, breakingContentMarkers) {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
