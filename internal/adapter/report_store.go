package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

// ReportStore persists the outcome of a run.
type ReportStore interface {
	SaveReport(path m.Path, report m.BatchReport) error
	LoadReport(path m.Path) (*Report, error)
}

// Report is the on-disk form of a batch report.
type Report struct {
	Sourcemap string        `yaml:"sourcemap"`
	Roots     []string      `yaml:"roots"`
	DryRun    bool          `yaml:"dry_run"`
	Summary   ReportSummary `yaml:"summary"`
	Links     []LinkRecord  `yaml:"links"`
}

// ReportSummary counts outcomes by kind.
type ReportSummary struct {
	Changed   int `yaml:"changed"`
	Unchanged int `yaml:"unchanged"`
	Failed    int `yaml:"failed"`
}

// LinkRecord is the on-disk form of one link result.
type LinkRecord struct {
	Path         string `yaml:"path"`
	Outcome      string `yaml:"outcome"`
	Require      string `yaml:"require,omitempty"`
	Target       string `yaml:"target,omitempty"`
	Declarations int    `yaml:"declarations"`
	Written      bool   `yaml:"written"`
	Error        string `yaml:"error,omitempty"`
	Hint         string `yaml:"hint,omitempty"`
}

// YAMLReportStore writes reports as YAML documents.
type YAMLReportStore struct{}

// NewReportStore constructs the default ReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport encodes report and writes it to path, creating parent directories.
func (s *YAMLReportStore) SaveReport(path m.Path, report m.BatchReport) error {
	data, err := yaml.Marshal(toReport(report))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// LoadReport reads a report written by SaveReport.
func (s *YAMLReportStore) LoadReport(path m.Path) (*Report, error) {
	// #nosec G304 - report path comes from configuration
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, err
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	return &report, nil
}

func toReport(report m.BatchReport) Report {
	out := Report{
		Sourcemap: string(report.Sourcemap),
		DryRun:    report.DryRun,
		Summary: ReportSummary{
			Changed:   report.Changed(),
			Unchanged: report.Unchanged(),
			Failed:    report.Failed(),
		},
		Links: make([]LinkRecord, 0, len(report.Results)),
	}

	for _, root := range report.Roots {
		out.Roots = append(out.Roots, string(root))
	}

	for _, result := range report.Results {
		record := LinkRecord{
			Path:         string(result.Path),
			Outcome:      result.Outcome.Kind.String(),
			Target:       string(result.Target),
			Declarations: result.Declarations,
			Written:      result.Written,
		}

		if len(result.Require) > 0 {
			record.Require = result.Require.String()
		}

		if err := result.Outcome.Err; err != nil {
			record.Error = err.Error()
			record.Hint = m.HintFor(err)
		}

		out.Links = append(out.Links, record)
	}

	return out
}
