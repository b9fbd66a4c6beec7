package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/AndreyAkinshin/forkcheck/internal/cliopts"
	"github.com/AndreyAkinshin/forkcheck/internal/output"
	"github.com/AndreyAkinshin/forkcheck/internal/placeholder"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
// Every problem found is reported; the returned error is a *multierror.Error
// whose entries are *ValidationError values.
func Validate(cfg *Config) (warnings []string, err error) {
	var result *multierror.Error

	if cfg.Report != nil {
		w, errs := validateReport(cfg.Report)
		warnings = append(warnings, w...)
		result = multierror.Append(result, errs...)
	}

	if cfg.Logging != nil {
		if _, ok := output.ParseLevel(cfg.Logging.Level); !ok && cfg.Logging.Level != "" {
			result = multierror.Append(result, &ValidationError{
				Field:   "logging.level",
				Message: fmt.Sprintf("must be one of %s", strings.Join(output.ValidLevels(), ", ")),
			})
		}
	}

	if cfg.Session != nil {
		warnings = append(warnings, validateSession(cfg.Session)...)
	}

	if result != nil {
		result.ErrorFormat = formatErrors
	}
	return warnings, result.ErrorOrNil()
}

func validateReport(r *ReportConfig) ([]string, []error) {
	var warnings []string
	var errs []error

	if r.FailOnFlakeCount < 0 {
		errs = append(errs, &ValidationError{
			Field:   "report.fail_on_flake_count",
			Message: "must not be negative",
		})
	}

	if strings.TrimSpace(r.ReportsDirectory) == "" && r.ReportsDirectory != "" {
		errs = append(errs, &ValidationError{
			Field:   "report.reports_directory",
			Message: "must not be blank",
		})
	}

	if strings.Contains(r.ReportsDirectory, "${forkcheck.") && !placeholder.Contains(r.ReportsDirectory) {
		warnings = append(warnings, fmt.Sprintf(
			"report.reports_directory: unrecognized placeholder in %q (supported: %s, %s)",
			r.ReportsDirectory, placeholder.ForkNumber, placeholder.ThreadNumber))
	}

	if r.TestFailureIgnore && r.FailOnFlakeCount > 0 {
		warnings = append(warnings,
			"report.fail_on_flake_count has no effect on failures while report.test_failure_ignore is set")
	}

	return warnings, errs
}

func validateSession(s *SessionConfig) []string {
	if s.ReactorFailureBehavior == "" || cliopts.IsReactorBehavior(s.ReactorFailureBehavior) {
		return nil
	}
	return []string{fmt.Sprintf(
		"session.reactor_failure_behavior: unknown value %q is ignored (expected one of %s)",
		s.ReactorFailureBehavior, strings.Join(cliopts.ReactorBehaviors(), ", "))}
}

// formatErrors renders all validation errors on separate lines.
func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = "  - " + err.Error()
	}
	return fmt.Sprintf("%d configuration errors:\n%s", len(errs), strings.Join(lines, "\n"))
}
