// Package forkcheck provides public constants for external tools integrating with forkcheck.
package forkcheck

// Exit codes returned by the forkcheck CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the run was acceptable (possibly with logged, ignored failures).
	ExitSuccess = 0

	// ExitFailure indicates a build failure: failing tests, too many flakes, or no tests run.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config, bad flags, etc.).
	ExitConfigError = 2

	// ExitExecutionError indicates a harness-level failure: a fork failed to boot,
	// crashed, or reported an internal error. Never downgraded by ignoring test failures.
	ExitExecutionError = 3
)
