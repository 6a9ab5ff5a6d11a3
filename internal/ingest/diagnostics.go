package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/ageing-report/internal/model"
)

// Diagnostics is the file written next to a report listing every parse issue.
type Diagnostics struct {
	RunID   string             `yaml:"run_id"`
	AsOf    string             `yaml:"as_of"`
	Source  string             `yaml:"source"`
	Records int                `yaml:"records"`
	Skipped int                `yaml:"skipped_rows,omitempty"`
	Issues  []model.ParseIssue `yaml:"issues"`
}

// NewDiagnostics describes the outcome of one ingest.
func NewDiagnostics(runID, source string, asOf time.Time, res *Result) Diagnostics {
	issues := res.Issues
	if issues == nil {
		issues = []model.ParseIssue{}
	}
	return Diagnostics{
		RunID:   runID,
		AsOf:    asOf.Format("2006-01-02"),
		Source:  source,
		Records: len(res.Records),
		Skipped: res.Skipped,
		Issues:  issues,
	}
}

// WriteDiagnostics writes d as YAML to path, creating parent directories.
func WriteDiagnostics(path string, d Diagnostics) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create diagnostics directory: %w", err)
		}
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	return nil
}

// ReadDiagnostics loads a diagnostics file.
func ReadDiagnostics(path string) (Diagnostics, error) {
	var d Diagnostics
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return d, fmt.Errorf("failed to read diagnostics: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to decode diagnostics: %w", err)
	}
	return d, nil
}
