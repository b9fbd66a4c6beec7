// Package cliopts derives the command-line options handed to each fork from
// the parent's logging configuration and session settings.
package cliopts

import "strings"

// Option is a command-line option understood by forks.
type Option int

const (
	LoggingLevelError Option = iota
	LoggingLevelWarn
	LoggingLevelInfo
	LoggingLevelDebug
	ShowErrors
	ReactorFailFast
	ReactorFailAtEnd
	ReactorFailNever
)

var optionNames = map[Option]string{
	LoggingLevelError: "LOGGING_LEVEL_ERROR",
	LoggingLevelWarn:  "LOGGING_LEVEL_WARN",
	LoggingLevelInfo:  "LOGGING_LEVEL_INFO",
	LoggingLevelDebug: "LOGGING_LEVEL_DEBUG",
	ShowErrors:        "SHOW_ERRORS",
	ReactorFailFast:   "REACTOR_FAIL_FAST",
	ReactorFailAtEnd:  "REACTOR_FAIL_AT_END",
	ReactorFailNever:  "REACTOR_FAIL_NEVER",
}

// String returns the option name as passed to forks.
func (o Option) String() string {
	if name, ok := optionNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseOption returns the option with the given name (case-insensitive).
func ParseOption(name string) (Option, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for opt, n := range optionNames {
		if n == upper {
			return opt, true
		}
	}
	return 0, false
}

// ReactorBehaviors lists the accepted reactor failure behavior values.
func ReactorBehaviors() []string {
	return []string{"FAIL_FAST", "FAIL_AT_END", "FAIL_NEVER"}
}

// IsReactorBehavior reports whether behavior names a known reactor failure behavior.
func IsReactorBehavior(behavior string) bool {
	_, ok := parseReactorBehavior(behavior)
	return ok
}

// parseReactorBehavior maps a reactor failure behavior to its option.
// Both the short form (FAIL_FAST) and the option name (REACTOR_FAIL_FAST) are accepted.
func parseReactorBehavior(behavior string) (Option, bool) {
	name := strings.ToUpper(strings.TrimSpace(behavior))
	if !strings.HasPrefix(name, "REACTOR_") {
		name = "REACTOR_" + name
	}
	switch name {
	case "REACTOR_FAIL_FAST":
		return ReactorFailFast, true
	case "REACTOR_FAIL_AT_END":
		return ReactorFailAtEnd, true
	case "REACTOR_FAIL_NEVER":
		return ReactorFailNever, true
	}
	return 0, false
}

// LevelLogger reports which log levels are enabled.
type LevelLogger interface {
	IsErrorEnabled() bool
	IsWarnEnabled() bool
	IsInfoEnabled() bool
	IsDebugEnabled() bool
}

// Derive returns the options for a fork: one per enabled log level, then
// ShowErrors when requested, then the reactor failure behavior. An
// unrecognized behavior contributes no option.
func Derive(log LevelLogger, showErrors bool, failureBehavior string) []Option {
	var opts []Option
	if log.IsErrorEnabled() {
		opts = append(opts, LoggingLevelError)
	}
	if log.IsWarnEnabled() {
		opts = append(opts, LoggingLevelWarn)
	}
	if log.IsInfoEnabled() {
		opts = append(opts, LoggingLevelInfo)
	}
	if log.IsDebugEnabled() {
		opts = append(opts, LoggingLevelDebug)
	}

	if showErrors {
		opts = append(opts, ShowErrors)
	}

	if failureBehavior != "" {
		if opt, ok := parseReactorBehavior(failureBehavior); ok {
			opts = append(opts, opt)
		}
	}

	return opts
}

// Contains reports whether opts holds opt.
func Contains(opts []Option, opt Option) bool {
	for _, o := range opts {
		if o == opt {
			return true
		}
	}
	return false
}

// Names returns the option names in order.
func Names(opts []Option) []string {
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.String()
	}
	return names
}

// DebugLogger logs at debug and info level.
type DebugLogger interface {
	IsDebugEnabled() bool
	LogDebug(msg string)
	LogInfo(msg string)
}

// LogDebugOrShowErrors logs msg at debug level when forks run with debug
// logging. With ShowErrors only, msg goes to debug if enabled and to info
// otherwise. Without either option nothing is logged.
func LogDebugOrShowErrors(msg string, log DebugLogger, opts []Option) {
	switch {
	case Contains(opts, LoggingLevelDebug):
		log.LogDebug(msg)
	case Contains(opts, ShowErrors):
		if log.IsDebugEnabled() {
			log.LogDebug(msg)
		} else {
			log.LogInfo(msg)
		}
	}
}
