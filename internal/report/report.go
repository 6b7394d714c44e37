// internal/report/report.go

// Package report renders an evaluation result into a fixed markdown template.
// Rendering is deterministic: no timestamps are embedded, so generating twice
// from the same result produces byte-identical output.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/mwiater/evalon/internal/evaluator"
	"github.com/mwiater/evalon/internal/util"
)

// DefaultPath is the report location used when the caller does not supply one.
const DefaultPath = "evaluation_report.md"

const reportsDir = "evalonData/reports"

var reportTemplate = template.Must(template.New("evaluation-report").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"f1":  func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(reportTemplateText))

const reportTemplateText = `# Evaluation Report: {{ .Result.Model }}

Fixture suite: {{ .Result.SuiteName }} (v{{ .Result.SuiteVersion }})

## Summary

| Metric | Value |
|--------|-------|
| Accuracy | {{ pct .Result.Accuracy }} |
| Avg Response Time | {{ f2 .Result.AvgResponseTime.Seconds }}s |
| Token Efficiency | {{ f1 .Result.TokenEfficiency }} tokens/s |
| Hallucination Rate | {{ pct .Result.HallucinationRate }} |
| Coherence Score | {{ pct .Result.CoherenceScore }} |
| **Overall Score** | **{{ f2 .Result.OverallScore }}/1.00** |

## Performance Details

` + "```" + `
{{ .Performance }}
` + "```" + `

## Quality Details

` + "```" + `
{{ .Quality }}
` + "```" + `

---
Generated by evalon
`

type reportData struct {
	Result      evaluator.Result
	Performance string
	Quality     string
}

// Render produces the markdown report for a result.
func Render(result evaluator.Result) ([]byte, error) {
	data := reportData{
		Result:      result,
		Performance: formatDetails(result.Details["performance"]),
		Quality:     formatDetails(result.Details["quality"]),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("error rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the report and writes it to path, defaulting to DefaultPath.
// The file is only touched after rendering succeeds, so a failing render
// never leaves a partial report behind.
func Write(result evaluator.Result, path string) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	data, err := Render(result)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating report directory: %w", err)
		}
	}
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}

// PathForModel returns the default per-model report path under the reports
// directory.
func PathForModel(model string) string {
	return filepath.Join(reportsDir, util.Slugify(model)+".md")
}

// formatDetails renders a sub-metric map with deterministically ordered keys.
func formatDetails(details map[string]float64) string {
	if len(details) == 0 {
		return "(none)"
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %.4f", k, details[k]))
	}
	return strings.Join(lines, "\n")
}
