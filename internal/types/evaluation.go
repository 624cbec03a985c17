package types

import "time"

// EvaluationSuite is a set of recorded diffs with the mapping each one should
// produce.
type EvaluationSuite struct {
	Name      string     `json:"name" yaml:"name"`
	TestCases []TestCase `json:"testCases" yaml:"testCases" validate:"required,min=1,dive"`
}

type TestCase struct {
	Name        string          `json:"name" yaml:"name" validate:"required"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Diff        string          `json:"diff" yaml:"diff" validate:"required"`
	Expected    ExpectedResults `json:"expected" yaml:"expected"`
}

// ExpectedResults describes what a mapping run should yield. Zero values mean
// "no expectation".
type ExpectedResults struct {
	ChangeType    ChangeType       `json:"changeType,omitempty" yaml:"changeType,omitempty"`
	Targets       []ExpectedTarget `json:"targets,omitempty" yaml:"targets,omitempty" validate:"dive"`
	AbsentTargets []string         `json:"absentTargets,omitempty" yaml:"absentTargets,omitempty"`
	MinTargets    int              `json:"minTargets,omitempty" yaml:"minTargets,omitempty" validate:"gte=0"`
	MaxTargets    int              `json:"maxTargets,omitempty" yaml:"maxTargets,omitempty" validate:"gte=0"`
}

type ExpectedTarget struct {
	FilePath      string  `json:"filePath" yaml:"filePath" validate:"required"`
	Section       string  `json:"section,omitempty" yaml:"section,omitempty"`
	MinConfidence float64 `json:"minConfidence,omitempty" yaml:"minConfidence,omitempty" validate:"gte=0,lte=1"`
}

// EvaluationRun is one rule set evaluated against a suite.
type EvaluationRun struct {
	Label         string           `json:"label"`
	Suite         string           `json:"suite"`
	RuleCount     int              `json:"ruleCount"`
	StartTime     time.Time        `json:"startTime"`
	EndTime       time.Time        `json:"endTime"`
	TotalDuration time.Duration    `json:"totalDuration"`
	Results       []TestCaseResult `json:"results"`
	AverageScore  float64          `json:"averageScore"`
	ScoreStdDev   float64          `json:"scoreStdDev"`
	MinScore      float64          `json:"minScore"`
	MaxScore      float64          `json:"maxScore"`
	SuccessRate   float64          `json:"successRate"`
}

type TestCaseResult struct {
	TestCase      string         `json:"testCase"`
	Mapping       *MappingResult `json:"mapping,omitempty"`
	Score         float64        `json:"score"`
	Success       bool           `json:"success"`
	Failures      []string       `json:"failures,omitempty"`
	ExecutionTime time.Duration  `json:"executionTime"`
}
