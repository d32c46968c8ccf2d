package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// PrintResults writes the final summary: every failed step with its errors, followed by either
// a failure notice or a success notice.
func PrintResults(w io.Writer, results Results) {
	if len(results.Failures) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, f := range results.Failures {
			for _, err := range f.Errors {
				lines := strings.Split(err.Error(), "\n")
				fmt.Fprintf(w, "- %s: %s\n", f.TestID, lines[0])
				for _, line := range lines[1:] {
					fmt.Fprintf(w, "    %s\n", line)
				}
			}
		}
		fmt.Fprintln(w)
	}
	if results.Aborted != nil {
		color.New(color.FgRed, color.Bold).Fprintf(w, "Run aborted: %s\n", results.Aborted)
	}
	if results.OK() {
		color.New(color.FgGreen, color.Bold).Fprintf(w, "All checks passed (%d passed, %d skipped).\n",
			results.Passed(), results.Skipped())
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(w, "%d of %d steps failed (%d passed, %d skipped).\n",
		len(results.Failures), len(results.Tests), results.Passed(), results.Skipped())
}

type yamlSummary struct {
	OK      bool          `yaml:"ok"`
	Aborted string        `yaml:"aborted,omitempty"`
	Passed  int           `yaml:"passed"`
	Failed  int           `yaml:"failed"`
	Skipped int           `yaml:"skipped"`
	Steps   []yamlOutcome `yaml:"steps"`
}

type yamlOutcome struct {
	Name       string   `yaml:"name"`
	Status     string   `yaml:"status"`
	SkipReason string   `yaml:"skipReason,omitempty"`
	Errors     []string `yaml:"errors,omitempty"`
}

// WriteResultsYAML writes a machine-readable summary of the run, for CI jobs that want to
// annotate individual step failures.
func WriteResultsYAML(w io.Writer, results Results) error {
	summary := yamlSummary{
		OK:      results.OK(),
		Passed:  results.Passed(),
		Failed:  len(results.Failures),
		Skipped: results.Skipped(),
	}
	if results.Aborted != nil {
		summary.Aborted = results.Aborted.Error()
	}
	for _, t := range results.Tests {
		o := yamlOutcome{Name: t.TestID.String(), Status: "passed"}
		switch {
		case t.Skipped:
			o.Status = "skipped"
			o.SkipReason = t.SkipReason
		case len(t.Errors) > 0:
			o.Status = "failed"
			for _, err := range t.Errors {
				o.Errors = append(o.Errors, err.Error())
			}
		}
		summary.Steps = append(summary.Steps, o)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return enc.Close()
}
