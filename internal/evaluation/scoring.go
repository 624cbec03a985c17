package evaluation

import (
	"fmt"
	"io"
	"sort"

	"github.com/agusespa/docpilot/internal/types"
)

// notApplicable is returned by a metric whose expectation is not set.
const notApplicable = -1.0

type Scorer interface {
	Score(expected types.ExpectedResults, actual *types.MappingResult) (float64, []string)
}

// SimpleScorer averages every applicable metric.
type SimpleScorer struct {
	metrics []ScoringMetric
}

func NewSimpleScorer() *SimpleScorer {
	return &SimpleScorer{
		metrics: []ScoringMetric{
			&ChangeTypeMetric{},
			&ExpectedTargetsMetric{},
			&SectionMatchMetric{},
			&ConfidenceFloorMetric{},
			&AbsentTargetsMetric{},
			&TargetCountMetric{},
		},
	}
}

// Score returns the average of the applicable metrics and the names of those
// that did not score full marks.
func (s *SimpleScorer) Score(expected types.ExpectedResults, actual *types.MappingResult) (float64, []string) {
	if actual == nil {
		actual = &types.MappingResult{}
	}

	var totalScore, applicableMetrics float64
	var failures []string
	for _, metric := range s.metrics {
		score := metric.Calculate(expected, actual)
		if score == notApplicable {
			continue
		}
		totalScore += score
		applicableMetrics++
		if score < 1.0 {
			failures = append(failures, fmt.Sprintf("%s scored %.2f", metric.Name(), score))
		}
	}

	if applicableMetrics == 0 {
		return 1.0, nil
	}
	return totalScore / applicableMetrics, failures
}

type ScoringMetric interface {
	Name() string
	Calculate(expected types.ExpectedResults, actual *types.MappingResult) float64
}

type ChangeTypeMetric struct{}

func (m *ChangeTypeMetric) Name() string { return "change type" }

func (m *ChangeTypeMetric) Calculate(expected types.ExpectedResults, actual *types.MappingResult) float64 {
	if expected.ChangeType == "" {
		return notApplicable
	}
	if expected.ChangeType == actual.OverallChangeType {
		return 1.0
	}
	return 0.0
}

// ExpectedTargetsMetric is the share of expected targets that were produced.
type ExpectedTargetsMetric struct{}

func (m *ExpectedTargetsMetric) Name() string { return "expected targets" }

func (m *ExpectedTargetsMetric) Calculate(expected types.ExpectedResults, actual *types.MappingResult) float64 {
	if len(expected.Targets) == 0 {
		return notApplicable
	}

	found := 0
	for _, want := range expected.Targets {
		if _, ok := actual.Target(want.FilePath); ok {
			found++
		}
	}
	return float64(found) / float64(len(expected.Targets))
}

type SectionMatchMetric struct{}

func (m *SectionMatchMetric) Name() string { return "sections" }

func (m *SectionMatchMetric) Calculate(expected types.ExpectedResults, actual *types.MappingResult) float64 {
	var checked, matched int
	for _, want := range expected.Targets {
		if want.Section == "" {
			continue
		}
		checked++
		if got, ok := actual.Target(want.FilePath); ok && got.Section == want.Section {
			matched++
		}
	}
	if checked == 0 {
		return notApplicable
	}
	return float64(matched) / float64(checked)
}

// ConfidenceFloorMetric checks that produced targets meet their minimum
// confidence. A missing target counts as a miss.
type ConfidenceFloorMetric struct{}

func (m *ConfidenceFloorMetric) Name() string { return "confidence floor" }

func (m *ConfidenceFloorMetric) Calculate(expected types.ExpectedResults, actual *types.MappingResult) float64 {
	var checked, passed int
	for _, want := range expected.Targets {
		if want.MinConfidence <= 0 {
			continue
		}
		checked++
		if got, ok := actual.Target(want.FilePath); ok && got.ConfidenceScore >= want.MinConfidence {
			passed++
		}
	}
	if checked == 0 {
		return notApplicable
	}
	return float64(passed) / float64(checked)
}

// AbsentTargetsMetric penalizes every listed path that was produced anyway.
type AbsentTargetsMetric struct{}

func (m *AbsentTargetsMetric) Name() string { return "absent targets" }

func (m *AbsentTargetsMetric) Calculate(expected types.ExpectedResults, actual *types.MappingResult) float64 {
	if len(expected.AbsentTargets) == 0 {
		return notApplicable
	}

	clean := 0
	for _, path := range expected.AbsentTargets {
		if _, ok := actual.Target(path); !ok {
			clean++
		}
	}
	return float64(clean) / float64(len(expected.AbsentTargets))
}

type TargetCountMetric struct{}

func (m *TargetCountMetric) Name() string { return "target count" }

func (m *TargetCountMetric) Calculate(expected types.ExpectedResults, actual *types.MappingResult) float64 {
	if expected.MinTargets == 0 && expected.MaxTargets == 0 {
		return notApplicable
	}

	count := len(actual.Targets)
	minOk := expected.MinTargets == 0 || count >= expected.MinTargets
	maxOk := expected.MaxTargets == 0 || count <= expected.MaxTargets
	if minOk && maxOk {
		return 1.0
	}
	return 0.0
}

// RunComparison ranks evaluation runs of different rule sets.
type RunComparison struct {
	Runs           []types.EvaluationRun
	BestByScore    *types.EvaluationRun
	MostSuccessful *types.EvaluationRun
	MostConsistent *types.EvaluationRun
}

// CompareRuns sorts runs by average score, highest first. Ties keep the input
// order.
func CompareRuns(runs []types.EvaluationRun) *RunComparison {
	if len(runs) == 0 {
		return &RunComparison{}
	}

	sorted := make([]types.EvaluationRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AverageScore > sorted[j].AverageScore
	})

	comparison := &RunComparison{
		Runs:           sorted,
		BestByScore:    &sorted[0],
		MostSuccessful: &sorted[0],
		MostConsistent: &sorted[0],
	}
	for i := range sorted {
		if sorted[i].SuccessRate > comparison.MostSuccessful.SuccessRate {
			comparison.MostSuccessful = &sorted[i]
		}
		if sorted[i].ScoreStdDev < comparison.MostConsistent.ScoreStdDev {
			comparison.MostConsistent = &sorted[i]
		}
	}
	return comparison
}

func (rc *RunComparison) Print(w io.Writer) {
	fmt.Fprintln(w, "\n--- Rule Set Comparison ---")

	if len(rc.Runs) == 0 {
		fmt.Fprintln(w, "No runs to compare.")
		return
	}

	fmt.Fprintln(w, "\nBest overall (by score):")
	fmt.Fprintf(w, "  %s on %s, score %.2f\n", rc.BestByScore.Label, rc.BestByScore.Suite, rc.BestByScore.AverageScore)

	fmt.Fprintln(w, "\nHighest pass rate:")
	fmt.Fprintf(w, "  %s on %s, %.2f%%\n", rc.MostSuccessful.Label, rc.MostSuccessful.Suite, rc.MostSuccessful.SuccessRate)

	fmt.Fprintln(w, "\nMost consistent:")
	fmt.Fprintf(w, "  %s on %s, stddev %.3f\n", rc.MostConsistent.Label, rc.MostConsistent.Suite, rc.MostConsistent.ScoreStdDev)

	fmt.Fprintln(w, "\n--- Full Ranking (by score) ---")
	for i, run := range rc.Runs {
		fmt.Fprintf(w, "  %d. %s on %s, score %.2f, passed %.2f%%, %d rules\n",
			i+1, run.Label, run.Suite, run.AverageScore, run.SuccessRate, run.RuleCount)
	}
	fmt.Fprintln(w)
}
