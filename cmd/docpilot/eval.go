package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agusespa/docpilot/internal/evaluation"
	"github.com/agusespa/docpilot/internal/types"
	"github.com/agusespa/docpilot/pkg/config"
)

const defaultRuleSetLabel = "default"

type evalFlags struct {
	casesDir    string
	resultsDir  string
	configPaths []string
	caseFilter  string
	threshold   float64
	failUnder   float64
	compare     bool
}

func newEvalCmd() *cobra.Command {
	var flags evalFlags

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score heuristic rule sets against recorded diffs",
		Long: "Replays the diffs of every evaluation suite through one or more rule sets and scores\n" +
			"the resulting documentation targets against each case's expectations.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results := evaluation.NewResultsManager(flags.resultsDir)

			if flags.compare {
				runs, err := results.LoadRuns()
				if err != nil {
					return fmt.Errorf("failed to load evaluation runs: %w", err)
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No evaluation results found in", flags.resultsDir)
					return nil
				}
				fmt.Fprintf(out, "Found %d evaluation runs\n", len(runs))
				evaluation.CompareRuns(runs).Print(out)
				return nil
			}

			suites, err := evaluation.LoadSuites(flags.casesDir)
			if err != nil {
				return err
			}
			ruleSets, err := loadRuleSets(flags.configPaths)
			if err != nil {
				return err
			}

			evaluator := evaluation.NewEvaluator(out)
			evaluator.SetPassThreshold(flags.threshold)

			var runs []types.EvaluationRun
			for _, rs := range ruleSets {
				for _, suite := range suites {
					filtered := *suite
					filtered.TestCases = evaluation.FilterByName(suite.TestCases, flags.caseFilter)
					if len(filtered.TestCases) == 0 {
						continue
					}

					run, err := evaluator.Run(cmd.Context(), rs.label, rs.rules, &filtered)
					if err != nil {
						return fmt.Errorf("evaluation of %s failed: %w", rs.label, err)
					}
					printRunSummary(cmd, run)

					if flags.resultsDir != "" {
						path, err := results.SaveRun(run)
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "Results saved to: %s\n", path)
					}
					runs = append(runs, *run)
				}
			}

			if len(runs) == 0 {
				return fmt.Errorf("no test cases match %q", flags.caseFilter)
			}
			if len(runs) > 1 {
				evaluation.CompareRuns(runs).Print(out)
			}

			for _, run := range runs {
				if run.AverageScore < flags.failUnder {
					return fmt.Errorf("rule set %s scored %.2f on %s, below %.2f",
						run.Label, run.AverageScore, run.Suite, flags.failUnder)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.casesDir, "cases", "evaluation/test_cases", "Directory of YAML evaluation suites")
	f.StringVar(&flags.resultsDir, "results", "evaluation/results", "Directory to store results (empty to skip saving)")
	f.StringSliceVarP(&flags.configPaths, "config", "c", nil, "docpilot.yml files whose heuristics are evaluated (default rules when empty)")
	f.StringVar(&flags.caseFilter, "case", "", "Only run test cases whose name contains this text")
	f.Float64Var(&flags.threshold, "threshold", evaluation.DefaultPassThreshold, "Score a test case needs to pass")
	f.Float64Var(&flags.failUnder, "fail-under", 0, "Exit with an error when a rule set's average score is below this")
	f.BoolVar(&flags.compare, "compare", false, "Compare saved results instead of running an evaluation")
	return cmd
}

type ruleSet struct {
	label string
	rules []types.HeuristicRule
}

func loadRuleSets(paths []string) ([]ruleSet, error) {
	if len(paths) == 0 {
		return []ruleSet{{label: defaultRuleSetLabel, rules: config.DefaultHeuristics()}}, nil
	}

	sets := make([]ruleSet, 0, len(paths))
	for _, path := range paths {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule set: %w", err)
		}
		label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sets = append(sets, ruleSet{label: label, rules: cfg.Heuristics})
	}
	return sets, nil
}

func printRunSummary(cmd *cobra.Command, run *types.EvaluationRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s on %s: score %.2f (stddev %.3f, min %.2f, max %.2f), passed %.2f%%\n",
		run.Label, run.Suite, run.AverageScore, run.ScoreStdDev, run.MinScore, run.MaxScore, run.SuccessRate)
	for _, result := range run.Results {
		for _, failure := range result.Failures {
			fmt.Fprintf(out, "  %s: %s\n", result.TestCase, failure)
		}
	}
}
