package cliopts

import (
	"strings"
	"testing"
)

type fakeLogger struct {
	errorOn, warnOn, infoOn, debugOn bool
	debug, info                      []string
}

func (f *fakeLogger) IsErrorEnabled() bool { return f.errorOn }
func (f *fakeLogger) IsWarnEnabled() bool  { return f.warnOn }
func (f *fakeLogger) IsInfoEnabled() bool  { return f.infoOn }
func (f *fakeLogger) IsDebugEnabled() bool { return f.debugOn }
func (f *fakeLogger) LogDebug(msg string)  { f.debug = append(f.debug, msg) }
func (f *fakeLogger) LogInfo(msg string)   { f.info = append(f.info, msg) }

func TestDerive(t *testing.T) {
	tests := []struct {
		name       string
		log        *fakeLogger
		showErrors bool
		behavior   string
		expected   string
	}{
		{
			name:     "info level",
			log:      &fakeLogger{errorOn: true, warnOn: true, infoOn: true},
			expected: "LOGGING_LEVEL_ERROR,LOGGING_LEVEL_WARN,LOGGING_LEVEL_INFO",
		},
		{
			name:       "debug with show errors",
			log:        &fakeLogger{errorOn: true, warnOn: true, infoOn: true, debugOn: true},
			showErrors: true,
			expected:   "LOGGING_LEVEL_ERROR,LOGGING_LEVEL_WARN,LOGGING_LEVEL_INFO,LOGGING_LEVEL_DEBUG,SHOW_ERRORS",
		},
		{
			name:     "short reactor behavior",
			log:      &fakeLogger{errorOn: true},
			behavior: "FAIL_AT_END",
			expected: "LOGGING_LEVEL_ERROR,REACTOR_FAIL_AT_END",
		},
		{
			name:     "full reactor behavior name",
			log:      &fakeLogger{errorOn: true},
			behavior: "reactor_fail_never",
			expected: "LOGGING_LEVEL_ERROR,REACTOR_FAIL_NEVER",
		},
		{
			name:     "unknown reactor behavior silently ignored",
			log:      &fakeLogger{errorOn: true},
			behavior: "FAIL_SOMETIMES",
			expected: "LOGGING_LEVEL_ERROR",
		},
		{
			name:     "nothing enabled",
			log:      &fakeLogger{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Derive(tt.log, tt.showErrors, tt.behavior)
			if got := strings.Join(Names(opts), ","); got != tt.expected {
				t.Errorf("Derive() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseOption(t *testing.T) {
	for opt, name := range optionNames {
		got, ok := ParseOption(strings.ToLower(name))
		if !ok || got != opt {
			t.Errorf("ParseOption(%q) = (%v, %v), want %v", name, got, ok, opt)
		}
	}
	if _, ok := ParseOption("LOGGING_LEVEL_TRACE"); ok {
		t.Error("ParseOption() accepted unknown option")
	}
	if Option(42).String() != "UNKNOWN" {
		t.Errorf("String() = %q for unknown option", Option(42).String())
	}
}

func TestLogDebugOrShowErrors(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		debugOn   bool
		wantDebug int
		wantInfo  int
	}{
		{"debug option", []Option{LoggingLevelDebug}, false, 1, 0},
		{"show errors with debug enabled", []Option{ShowErrors}, true, 1, 0},
		{"show errors without debug", []Option{ShowErrors}, false, 0, 1},
		{"neither", []Option{LoggingLevelInfo}, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &fakeLogger{debugOn: tt.debugOn}
			LogDebugOrShowErrors("stack trace", log, tt.opts)
			if len(log.debug) != tt.wantDebug || len(log.info) != tt.wantInfo {
				t.Errorf("debug=%d info=%d, want debug=%d info=%d",
					len(log.debug), len(log.info), tt.wantDebug, tt.wantInfo)
			}
		})
	}
}

func TestIsReactorBehavior(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"FAIL_FAST", true},
		{"fail_at_end", true},
		{"REACTOR_FAIL_NEVER", true},
		{" FAIL_NEVER ", true},
		{"FAIL_SOMETIMES", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsReactorBehavior(tt.input); got != tt.want {
				t.Errorf("IsReactorBehavior(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
