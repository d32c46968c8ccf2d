package framework

import (
	"strings"
)

// Results is the ordered outcome log of a run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult

	// Aborted is non-nil if a step called Context.Abort.
	Aborted error
}

// TestResult is the outcome of one step. A step that recorded no errors and was not skipped
// passed.
type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
}

// OK is true if no step failed and the run was not aborted. It decides the process exit status.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && r.Aborted == nil
}

// Passed returns the number of steps that ran and passed.
func (r Results) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if !t.Skipped && len(t.Errors) == 0 {
			n++
		}
	}
	return n
}

// Skipped returns the number of steps that were not attempted.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}
