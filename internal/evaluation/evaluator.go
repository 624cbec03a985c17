package evaluation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agusespa/docpilot/internal/analysis"
	"github.com/agusespa/docpilot/internal/heuristics"
	"github.com/agusespa/docpilot/internal/types"
)

// DefaultPassThreshold is the score a test case needs to count as passed.
const DefaultPassThreshold = 1.0

// Evaluator replays recorded diffs through a heuristic rule set and scores
// the mappings against each case's expectations.
type Evaluator struct {
	scorer        Scorer
	stats         *StatisticsCalculator
	passThreshold float64
	out           io.Writer
}

func NewEvaluator(out io.Writer) *Evaluator {
	return &Evaluator{
		scorer:        NewSimpleScorer(),
		stats:         NewStatisticsCalculator(),
		passThreshold: DefaultPassThreshold,
		out:           out,
	}
}

func (e *Evaluator) SetScorer(scorer Scorer) {
	e.scorer = scorer
}

func (e *Evaluator) SetPassThreshold(threshold float64) {
	if threshold > 0 && threshold <= 1 {
		e.passThreshold = threshold
	}
}

// Run evaluates rules against every case of suite. Progress lines go to the
// evaluator's writer, if any.
func (e *Evaluator) Run(ctx context.Context, label string, rules []types.HeuristicRule, suite *types.EvaluationSuite) (*types.EvaluationRun, error) {
	run := &types.EvaluationRun{
		Label:     label,
		Suite:     suite.Name,
		RuleCount: len(rules),
		StartTime: time.Now(),
		Results:   make([]types.TestCaseResult, 0, len(suite.TestCases)),
	}

	mapper := heuristics.NewDocTargetMapper(rules)
	e.printf("Evaluating rule set %s against %s\n", label, suite.Name)

	for i, testCase := range suite.TestCases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.printf("  [%d/%d] %s... ", i+1, len(suite.TestCases), testCase.Name)
		result := e.runSingleTest(mapper, testCase)
		if result.Success {
			e.printf("PASS (score: %.2f)\n", result.Score)
		} else {
			e.printf("FAIL (score: %.2f)\n", result.Score)
		}
		run.Results = append(run.Results, result)
	}

	run.EndTime = time.Now()
	run.TotalDuration = run.EndTime.Sub(run.StartTime)
	e.stats.CalculateRunSummary(run)

	return run, nil
}

func (e *Evaluator) runSingleTest(mapper *heuristics.DocTargetMapper, testCase types.TestCase) types.TestCaseResult {
	start := time.Now()

	diff := analysis.BuildDiffResult("base", "head", testCase.Diff)
	mapping := mapper.MapToDocTargets(diff)
	score, failures := e.scorer.Score(testCase.Expected, mapping)

	return types.TestCaseResult{
		TestCase:      testCase.Name,
		Mapping:       mapping,
		Score:         score,
		Success:       score >= e.passThreshold,
		Failures:      failures,
		ExecutionTime: time.Since(start),
	}
}

func (e *Evaluator) printf(format string, args ...any) {
	if e.out != nil {
		fmt.Fprintf(e.out, format, args...)
	}
}
