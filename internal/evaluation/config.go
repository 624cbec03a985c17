package evaluation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/agusespa/docpilot/internal/types"
)

var validate = validator.New()

// LoadSuite reads a YAML evaluation suite. A suite without a name is named
// after its file.
func LoadSuite(path string) (*types.EvaluationSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file at %s: %w", path, err)
	}

	var suite types.EvaluationSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := ValidateSuite(&suite); err != nil {
		return nil, fmt.Errorf("invalid suite file %s: %w", path, err)
	}
	return &suite, nil
}

// LoadSuites loads every .yml and .yaml suite in dir, sorted by file name.
func LoadSuites(dir string) ([]*types.EvaluationSuite, error) {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to glob for suites in %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no evaluation suites found in %s", dir)
	}

	suites := make([]*types.EvaluationSuite, 0, len(files))
	for _, file := range files {
		suite, err := LoadSuite(file)
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

func ValidateSuite(suite *types.EvaluationSuite) error {
	if err := validate.Struct(suite); err != nil {
		return err
	}

	names := make(map[string]bool)
	for _, tc := range suite.TestCases {
		if names[tc.Name] {
			return fmt.Errorf("duplicate test case name: %s", tc.Name)
		}
		names[tc.Name] = true

		if tc.Expected.MaxTargets > 0 && tc.Expected.MinTargets > tc.Expected.MaxTargets {
			return fmt.Errorf("test case %s: minTargets %d is greater than maxTargets %d",
				tc.Name, tc.Expected.MinTargets, tc.Expected.MaxTargets)
		}
	}
	return nil
}

// FilterByName returns the cases whose name contains filter, or all cases
// when filter is empty.
func FilterByName(cases []types.TestCase, filter string) []types.TestCase {
	if filter == "" {
		return cases
	}

	var filtered []types.TestCase
	for _, tc := range cases {
		if strings.Contains(tc.Name, filter) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}
