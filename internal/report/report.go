// Package report decides whether a finished fork run is acceptable and
// composes the diagnostic shown when it is not.
package report

import (
	"github.com/AndreyAkinshin/forkcheck/internal/errors"
	"github.com/AndreyAkinshin/forkcheck/internal/runresult"
)

// NoTestsMessage is the failure raised when no test ran and fail_if_no_tests is set.
const NoTestsMessage = "No tests were executed!  (Set fail_if_no_tests: false to ignore this error.)"

// Parameters is the run configuration consulted by Evaluate.
type Parameters struct {
	FailIfNoTests     bool
	TestFailureIgnore bool
	// FailOnFlakeCount is the number of flakes that fails the run; 0 disables the check.
	FailOnFlakeCount int
	// ReportsDirectory is only quoted in diagnostic text.
	ReportsDirectory string
}

// Logger receives diagnostics for failures ignored by configuration.
type Logger interface {
	LogError(msg string)
}

// Outcome classifies an evaluated run.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNoTests
	OutcomeTooFlaky
	OutcomeFailureIgnored
	OutcomeBuildFailure
	OutcomeExecutionError
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoTests:
		return "no-tests"
	case OutcomeTooFlaky:
		return "too-flaky"
	case OutcomeFailureIgnored:
		return "failure-ignored"
	case OutcomeBuildFailure:
		return "build-failure"
	case OutcomeExecutionError:
		return "execution-error"
	default:
		return "unknown"
	}
}

// Escalated reports whether the outcome is returned as an error.
func (o Outcome) Escalated() bool {
	switch o {
	case OutcomeNoTests, OutcomeTooFlaky, OutcomeBuildFailure, OutcomeExecutionError:
		return true
	default:
		return false
	}
}

// IsTooFlaky reports whether the run has reached the configured flake threshold.
func IsTooFlaky(params Parameters, result runresult.RunResult) bool {
	return params.FailOnFlakeCount > 0 && result.Flakes >= params.FailOnFlakeCount
}

// Evaluate decides whether a run is acceptable.
//
// A nil error means the run passed, or failed in a way test_failure_ignore
// allows; in the latter case the diagnostic is sent to log. Escalated runs
// return a *errors.ForkcheckError of kind KindExecution (harness defect:
// booter failures, non-test-set fork errors, internal errors) or KindFailure
// (failing or too flaky tests, no tests run). forkErr, when set, is the
// error raised by the first failing fork and becomes the cause.
func Evaluate(params Parameters, result runresult.RunResult, forkErr error, log Logger) (Outcome, error) {
	isError := forkErr != nil || result.Timeout || !result.ErrorFree()
	isTooFlaky := IsTooFlaky(params, result)

	if !isError && !isTooFlaky {
		if result.Completed == 0 && params.FailIfNoTests {
			return OutcomeNoTests, errors.Failure(NoTestsMessage, nil)
		}
		return OutcomeSuccess, nil
	}

	msg := ComposeMessage(params, result, forkErr)

	if params.TestFailureIgnore {
		if runresult.IsBooterFailure(forkErr) {
			return OutcomeExecutionError, errors.Execution(msg, forkErr)
		}
		if log != nil {
			log.LogError(msg)
		}
		return OutcomeFailureIgnored, nil
	}

	if isFatal(forkErr) || result.InternalError {
		return OutcomeExecutionError, errors.Execution(msg, forkErr)
	}
	if !isError {
		return OutcomeTooFlaky, errors.Failure(msg, forkErr)
	}
	return OutcomeBuildFailure, errors.Failure(msg, forkErr)
}

// isFatal reports whether a fork error points at the harness rather than the tests.
func isFatal(forkErr error) bool {
	if forkErr == nil {
		return false
	}
	return runresult.IsBooterFailure(forkErr) || !runresult.IsTestSetFailure(forkErr)
}
