package types

// ChangeType is the semantic category of a change set.
type ChangeType string

const (
	ChangeTypeFeature        ChangeType = "Feature"
	ChangeTypeBugfix         ChangeType = "Bugfix"
	ChangeTypeRefactor       ChangeType = "Refactor"
	ChangeTypeBreaking       ChangeType = "Breaking"
	ChangeTypeDocumentation  ChangeType = "Documentation"
	ChangeTypeInfrastructure ChangeType = "Infrastructure"
	ChangeTypeConfiguration  ChangeType = "Configuration"
	ChangeTypeUnknown        ChangeType = "Unknown"
)

// ConfidenceLevel buckets a confidence score for reporting.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

const (
	MediumConfidenceThreshold = 0.5
	HighConfidenceThreshold   = 0.8
)

// LevelForScore maps a score to its level: below 0.5 is Low, 0.5 through 0.8
// inclusive is Medium, above 0.8 is High.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score < MediumConfidenceThreshold:
		return ConfidenceLow
	case score <= HighConfidenceThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// HeuristicRule routes files matching Pattern to the documentation file
// DocTarget. DocTarget may contain a single {0} placeholder that is replaced
// by the package name of the source path.
type HeuristicRule struct {
	Pattern         string  `json:"pattern" yaml:"pattern" validate:"required"`
	DocTarget       string  `json:"docTarget" yaml:"docTarget" validate:"required"`
	Section         string  `json:"section,omitempty" yaml:"section,omitempty"`
	ConfidenceBoost float64 `json:"confidenceBoost" yaml:"confidenceBoost" validate:"gte=-1,lte=1"`
}

// DocTarget is a documentation file that likely needs an update.
type DocTarget struct {
	FilePath        string          `json:"filePath"`
	Section         string          `json:"section,omitempty"`
	Confidence      ConfidenceLevel `json:"confidence"`
	ConfidenceScore float64         `json:"confidenceScore"`
	Rationale       string          `json:"rationale"`
	SourceFiles     []string        `json:"sourceFiles"`
}

// MappingResult is the output of one mapping run. It is not mutated after the
// run completes and may be shared between readers.
type MappingResult struct {
	OverallChangeType ChangeType  `json:"changeType"`
	Targets           []DocTarget `json:"targets"`
	AverageConfidence float64     `json:"averageConfidence"`
}

func (m *MappingResult) OverallConfidence() ConfidenceLevel {
	return LevelForScore(m.AverageConfidence)
}

// Target returns the target for a resolved documentation path.
func (m *MappingResult) Target(filePath string) (DocTarget, bool) {
	for _, t := range m.Targets {
		if t.FilePath == filePath {
			return t, true
		}
	}
	return DocTarget{}, false
}
