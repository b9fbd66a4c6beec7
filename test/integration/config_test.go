package integration

import (
	"io"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/forkcheck/internal/cliopts"
	"github.com/AndreyAkinshin/forkcheck/internal/config"
	"github.com/AndreyAkinshin/forkcheck/internal/output"
)

func TestConfigFullFixture(t *testing.T) {
	t.Parallel()

	cfg, warnings, err := config.LoadAndValidate(fixture("configs", "full.yaml"))
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if cfg.FailIfNoTests() {
		t.Error("FailIfNoTests() = true, want false")
	}
	if cfg.Report.FailOnFlakeCount != 3 {
		t.Errorf("FailOnFlakeCount = %d, want 3", cfg.Report.FailOnFlakeCount)
	}

	level, ok := output.ParseLevel(cfg.Logging.Level)
	if !ok {
		t.Fatalf("ParseLevel(%q) failed", cfg.Logging.Level)
	}
	w := output.NewWithWriters(io.Discard, io.Discard, false)
	w.SetLevel(level)

	opts := cliopts.Derive(w, cfg.Logging.ShowErrors, cfg.Session.ReactorFailureBehavior)
	for _, want := range []cliopts.Option{cliopts.LoggingLevelDebug, cliopts.ShowErrors, cliopts.ReactorFailFast} {
		if !cliopts.Contains(opts, want) {
			t.Errorf("Derive() = %v, missing %v", opts, want)
		}
	}
}

func TestConfigFixtureParameters(t *testing.T) {
	t.Parallel()

	cfg, _, err := config.LoadAndValidate(fixture("ignored", "forkcheck.yaml"))
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}

	params := cfg.ReportParameters(7)
	if !params.TestFailureIgnore {
		t.Error("TestFailureIgnore = false, want true")
	}
	if !strings.Contains(params.ReportsDirectory, "fork-7") {
		t.Errorf("ReportsDirectory = %q, want fork number substituted", params.ReportsDirectory)
	}
}

func TestConfigInvalidLevel(t *testing.T) {
	t.Parallel()

	_, _, err := config.LoadAndValidate(fixture("configs", "invalid-level.yaml"))
	if err == nil {
		t.Fatal("expected error for invalid logging level")
	}
}

func TestConfigUnknownFields(t *testing.T) {
	t.Parallel()

	_, warnings, err := config.LoadAndValidate(fixture("configs", "unknown-fields.json"))
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}

	joined := strings.Join(warnings, "\n")
	for _, want := range []string{`"plugins"`, `"retries"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings = %v, want mention of %s", warnings, want)
		}
	}
}
