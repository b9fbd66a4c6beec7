// Package config provides configuration loading and validation for forkcheck.yaml.
package config

// Config represents the complete forkcheck configuration.
type Config struct {
	Report  *ReportConfig  `json:"report,omitempty" yaml:"report,omitempty"`
	Logging *LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	Session *SessionConfig `json:"session,omitempty" yaml:"session,omitempty"`
}

// ReportConfig controls how a fork's results are evaluated.
type ReportConfig struct {
	// FailIfNoTests is a pointer so that an explicit false survives defaulting.
	FailIfNoTests     *bool  `json:"fail_if_no_tests,omitempty" yaml:"fail_if_no_tests,omitempty"`
	TestFailureIgnore bool   `json:"test_failure_ignore,omitempty" yaml:"test_failure_ignore,omitempty"`
	FailOnFlakeCount  int    `json:"fail_on_flake_count,omitempty" yaml:"fail_on_flake_count,omitempty"`
	ReportsDirectory  string `json:"reports_directory,omitempty" yaml:"reports_directory,omitempty"`
}

// LoggingConfig configures log verbosity.
type LoggingConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`
	ShowErrors bool   `json:"show_errors,omitempty" yaml:"show_errors,omitempty"`
}

// SessionConfig carries settings of the surrounding build session.
type SessionConfig struct {
	ReactorFailureBehavior string `json:"reactor_failure_behavior,omitempty" yaml:"reactor_failure_behavior,omitempty"`
}
