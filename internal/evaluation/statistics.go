package evaluation

import (
	"math"
	"slices"

	"github.com/agusespa/docpilot/internal/types"
)

type StatisticsCalculator struct{}

func NewStatisticsCalculator() *StatisticsCalculator {
	return &StatisticsCalculator{}
}

// CalculateRunSummary fills the aggregate fields of a run from its results.
// A run without results is left untouched.
func (s *StatisticsCalculator) CalculateRunSummary(r *types.EvaluationRun) {
	if len(r.Results) == 0 {
		return
	}

	scores := make([]float64, len(r.Results))
	passed := 0
	for i, result := range r.Results {
		scores[i] = result.Score
		if result.Success {
			passed++
		}
	}

	r.AverageScore = s.CalculateMean(scores)
	r.ScoreStdDev = s.CalculateStdDev(scores)
	r.MinScore = s.CalculateMin(scores)
	r.MaxScore = s.CalculateMax(scores)
	r.SuccessRate = 100 * float64(passed) / float64(len(r.Results))
}

func (s *StatisticsCalculator) CalculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// CalculateStdDev is the sample standard deviation; fewer than two values
// have none.
func (s *StatisticsCalculator) CalculateStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := s.CalculateMean(values)
	var variance float64
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	return math.Sqrt(variance / float64(n-1))
}

func (s *StatisticsCalculator) CalculateMin(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Min(values)
}

func (s *StatisticsCalculator) CalculateMax(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return slices.Max(values)
}
