package evaluation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agusespa/docpilot/internal/types"
)

const minimalSuite = `testCases:
  - name: readme-touch
    diff: |
      diff --git a/README.md b/README.md
      index 1111111..2222222 100644
      --- a/README.md
      +++ b/README.md
      @@ -1 +1 @@
      -old
      +new
    expected:
      changeType: Documentation
`

func writeSuite(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write suite: %v", err)
	}
	return path
}

func TestLoadSuite(t *testing.T) {
	path := writeSuite(t, t.TempDir(), "smoke.yml", minimalSuite)

	suite, err := LoadSuite(path)
	if err != nil {
		t.Fatalf("LoadSuite failed: %v", err)
	}

	if suite.Name != "smoke" {
		t.Errorf("Name = %s, want smoke", suite.Name)
	}
	if len(suite.TestCases) != 1 {
		t.Fatalf("expected 1 test case, got %d", len(suite.TestCases))
	}
	tc := suite.TestCases[0]
	if tc.Expected.ChangeType != types.ChangeTypeDocumentation {
		t.Errorf("ChangeType = %s", tc.Expected.ChangeType)
	}
	if !strings.HasPrefix(tc.Diff, "diff --git a/README.md") {
		t.Errorf("diff not preserved: %q", tc.Diff)
	}
}

func TestLoadSuite_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"invalid yaml", "testCases: [", "failed to parse suite file"},
		{"no cases", "name: empty\n", "invalid suite file"},
		{"missing diff", "testCases:\n  - name: x\n", "invalid suite file"},
		{
			"duplicate names",
			"testCases:\n  - name: x\n    diff: a\n  - name: x\n    diff: b\n",
			"duplicate test case name: x",
		},
		{
			"bad confidence",
			"testCases:\n  - name: x\n    diff: a\n    expected:\n      targets:\n        - filePath: README.md\n          minConfidence: 2\n",
			"invalid suite file",
		},
		{
			"min above max",
			"testCases:\n  - name: x\n    diff: a\n    expected:\n      minTargets: 3\n      maxTargets: 1\n",
			"minTargets 3 is greater than maxTargets 1",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSuite(t, dir, filepath.Base(t.Name())+string(rune('a'+i))+".yml", tt.content)
			_, err := LoadSuite(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadSuite(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadSuites(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "b.yaml", minimalSuite)
	writeSuite(t, dir, "a.yml", minimalSuite)
	writeSuite(t, dir, "notes.txt", "ignored")

	suites, err := LoadSuites(dir)
	if err != nil {
		t.Fatalf("LoadSuites failed: %v", err)
	}
	if len(suites) != 2 {
		t.Fatalf("expected 2 suites, got %d", len(suites))
	}
	if suites[0].Name != "a" || suites[1].Name != "b" {
		t.Errorf("unexpected order: %s, %s", suites[0].Name, suites[1].Name)
	}

	if _, err := LoadSuites(t.TempDir()); err == nil {
		t.Error("expected an error for a directory without suites")
	}
}

func TestFilterByName(t *testing.T) {
	cases := []types.TestCase{{Name: "controller-added"}, {Name: "terraform"}, {Name: "controller-removed"}}

	if got := FilterByName(cases, ""); len(got) != 3 {
		t.Errorf("empty filter returned %d cases", len(got))
	}
	if got := FilterByName(cases, "controller"); len(got) != 2 {
		t.Errorf("controller filter returned %d cases", len(got))
	}
	if got := FilterByName(cases, "nothing"); len(got) != 0 {
		t.Errorf("unmatched filter returned %d cases", len(got))
	}
}
