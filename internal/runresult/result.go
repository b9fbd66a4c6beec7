// Package runresult models the summarized outcome of one or more test forks.
package runresult

import "fmt"

// RunResult is the summary a fork reports once it has finished.
type RunResult struct {
	Completed     int    `json:"completed" yaml:"completed"`
	Errors        int    `json:"errors" yaml:"errors"`
	Failures      int    `json:"failures" yaml:"failures"`
	Skipped       int    `json:"skipped" yaml:"skipped"`
	Flakes        int    `json:"flakes" yaml:"flakes"`
	Timeout       bool   `json:"timeout" yaml:"timeout"`
	InternalError bool   `json:"internal_error" yaml:"internal_error"`
	Failure       string `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// IsFailure reports whether the run carries a failure description.
func (r RunResult) IsFailure() bool {
	return r.Failure != ""
}

// ErrorFree reports whether the run finished without failures, errors,
// timeout or failure description.
func (r RunResult) ErrorFree() bool {
	return r.Failures == 0 && r.Errors == 0 && !r.Timeout && !r.IsFailure()
}

// Validate checks that all counters are non-negative.
func (r RunResult) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"completed", r.Completed},
		{"errors", r.Errors},
		{"failures", r.Failures},
		{"skipped", r.Skipped},
		{"flakes", r.Flakes},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", c.name, c.value)
		}
	}
	return nil
}

// Aggregate merges the results of several forks. Counters are summed, the
// timeout and internal-error flags are sticky, and the first non-empty
// failure description wins.
func Aggregate(results ...RunResult) RunResult {
	var total RunResult
	for _, r := range results {
		total.Completed += r.Completed
		total.Errors += r.Errors
		total.Failures += r.Failures
		total.Skipped += r.Skipped
		total.Flakes += r.Flakes
		total.Timeout = total.Timeout || r.Timeout
		total.InternalError = total.InternalError || r.InternalError
		if total.Failure == "" {
			total.Failure = r.Failure
		}
	}
	return total
}
