package runresult

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// TestEvent represents a single event from go test -json output.
type TestEvent struct {
	Time    string  `json:"Time"`
	Action  string  `json:"Action"`
	Package string  `json:"Package"`
	Test    string  `json:"Test"`
	Elapsed float64 `json:"Elapsed"`
	Output  string  `json:"Output"`
}

// FailedTest holds information about a single failed test.
type FailedTest struct {
	Name   string // Package-qualified test name (e.g., "example.com/pkg.TestFoo/sub")
	Reason string // Failure reason/error message
}

// GoTestReport is a fork result derived from go test -json output.
type GoTestReport struct {
	Result      RunResult
	FailedTests []FailedTest
	FlakyTests  []string
}

const timeoutMarker = "panic: test timed out after"

type testState struct {
	name       string
	pkg        string
	last       string
	failedOnce bool
	output     []string
	reason     string

	// Set on a parent when one of its subtests failed at least once or never finished.
	childFailed     bool
	childUnfinished bool
	hasChildren     bool
}

func (s *testState) unfinished() bool {
	return s.last != "pass" && s.last != "fail" && s.last != "skip"
}

type packageState struct {
	failed     bool
	testFailed bool
	unfinished bool
	output     []string
}

// ParseGoTest derives a RunResult from a fork's go test -json stream.
//
// The last terminal action of each test decides its status. A test that
// failed and later passed (reruns, -count=N) counts as a flake. Only leaf
// tests are counted; a parent counts on its own only when none of its
// subtests accounts for its failure. A test that started but never finished
// counts as an error, as does a package that fails without a failing or
// unfinished test. On timeout, Failure carries the panic line.
func ParseGoTest(r io.Reader) (*GoTestReport, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	tests := make(map[string]*testState)
	var order []string
	packages := make(map[string]*packageState)
	var pkgOrder []string
	timeout := ""

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var event TestEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}

		pkg, ok := packages[event.Package]
		if !ok {
			pkg = &packageState{}
			packages[event.Package] = pkg
			pkgOrder = append(pkgOrder, event.Package)
		}

		if timeout == "" && strings.Contains(event.Output, timeoutMarker) {
			timeout = strings.TrimSpace(event.Output)
		}

		// Package-level events (no test name)
		if event.Test == "" {
			switch event.Action {
			case "output":
				pkg.output = append(pkg.output, event.Output)
			case "fail":
				pkg.failed = true
			}
			continue
		}

		key := event.Package + "." + event.Test
		state, ok := tests[key]
		if !ok {
			state = &testState{name: key, pkg: event.Package}
			tests[key] = state
			order = append(order, key)
		}

		switch event.Action {
		case "run":
			state.last = "run"
			state.output = nil
		case "output":
			if event.Output != "" {
				state.output = append(state.output, event.Output)
			}
		case "pass", "skip":
			state.last = event.Action
			state.output = nil
		case "fail":
			state.last = "fail"
			state.failedOnce = true
			state.reason = extractFailureReason(state.output)
			state.output = nil
			pkg.testFailed = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read go test output: %w", err)
	}

	markParents(tests)

	report := &GoTestReport{}
	res := &report.Result

	for _, key := range order {
		state := tests[key]
		if state.unfinished() {
			packages[state.pkg].unfinished = true
		}
		if state.hasChildren && (state.childFailed || state.childUnfinished || (!state.failedOnce && !state.unfinished())) {
			continue
		}
		switch state.last {
		case "pass":
			res.Completed++
			if state.failedOnce {
				res.Flakes++
				report.FlakyTests = append(report.FlakyTests, state.name)
			}
		case "fail":
			res.Completed++
			res.Failures++
			report.FailedTests = append(report.FailedTests, FailedTest{Name: state.name, Reason: state.reason})
		case "skip":
			res.Completed++
			res.Skipped++
		default:
			res.Errors++
		}
	}

	if timeout != "" {
		res.Timeout = true
		res.Failure = timeout
	}

	for _, name := range pkgOrder {
		pkg := packages[name]
		if pkg.failed && !pkg.testFailed && !pkg.unfinished {
			res.Errors++
			if res.Failure == "" {
				res.Failure = packageFailure(name, pkg.output)
			}
		}
	}

	return report, nil
}

// markParents flags every test that has subtests with the state of its descendants.
func markParents(tests map[string]*testState) {
	for key, state := range tests {
		name := strings.TrimPrefix(key, state.pkg+".")
		for i := strings.LastIndex(name, "/"); i > 0; i = strings.LastIndex(name[:i], "/") {
			parent, ok := tests[state.pkg+"."+name[:i]]
			if !ok {
				continue
			}
			parent.hasChildren = true
			parent.childFailed = parent.childFailed || state.failedOnce
			parent.childUnfinished = parent.childUnfinished || state.unfinished()
		}
	}
}

func packageFailure(name string, output []string) string {
	if reason := extractFailureReason(output); reason != "" {
		return fmt.Sprintf("package %s failed: %s", name, reason)
	}
	return fmt.Sprintf("package %s failed", name)
}

// extractFailureReason extracts the most relevant failure message from test output.
func extractFailureReason(outputLines []string) string {
	const maxLen = 100

	// Look for lines with file:line: pattern (typical Go test error format)
	for _, line := range outputLines {
		trimmed := strings.TrimSpace(line)
		if isBoilerplate(trimmed) {
			continue
		}
		idx := strings.Index(trimmed, ".go:")
		if idx < 0 {
			continue
		}
		afterFile := trimmed[idx+4:]
		if colonIdx := strings.Index(afterFile, ": "); colonIdx != -1 {
			return truncate(strings.TrimSpace(afterFile[colonIdx+2:]), maxLen)
		}
	}

	// Fallback: return the first non-empty, non-boilerplate line
	for _, line := range outputLines {
		trimmed := strings.TrimSpace(line)
		if !isBoilerplate(trimmed) {
			return truncate(trimmed, maxLen)
		}
	}

	return ""
}

func isBoilerplate(line string) bool {
	return line == "" ||
		line == "FAIL" ||
		strings.HasPrefix(line, "=== RUN") ||
		strings.HasPrefix(line, "=== PAUSE") ||
		strings.HasPrefix(line, "=== CONT") ||
		strings.HasPrefix(line, "--- FAIL") ||
		strings.HasPrefix(line, "--- PASS") ||
		strings.HasPrefix(line, "FAIL\t")
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
