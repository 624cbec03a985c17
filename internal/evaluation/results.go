package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/agusespa/docpilot/internal/types"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type ResultsManager struct {
	resultsDir string
}

func NewResultsManager(resultsDir string) *ResultsManager {
	return &ResultsManager{
		resultsDir: resultsDir,
	}
}

// SaveRun writes run as JSON and returns the file path.
func (rm *ResultsManager) SaveRun(run *types.EvaluationRun) (string, error) {
	if err := os.MkdirAll(rm.resultsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory at %s: %w", rm.resultsDir, err)
	}

	filename := fmt.Sprintf("eval_%s_%s_%d.json",
		safeFileName(run.Label), safeFileName(run.Suite), run.StartTime.Unix())
	path := filepath.Join(rm.resultsDir, filename)

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file to %s: %w", path, err)
	}
	return path, nil
}

// LoadRuns reads every saved run in the results directory. A missing
// directory yields no runs.
func (rm *ResultsManager) LoadRuns() ([]types.EvaluationRun, error) {
	files, err := filepath.Glob(filepath.Join(rm.resultsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob for json files in %s: %w", rm.resultsDir, err)
	}

	var runs []types.EvaluationRun
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read result file %s: %w", file, err)
		}

		var run types.EvaluationRun
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result file %s: %w", file, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func safeFileName(s string) string {
	cleaned := unsafeFileChars.ReplaceAllString(s, "-")
	if cleaned == "" || cleaned == "-" {
		return "unnamed"
	}
	return cleaned
}
