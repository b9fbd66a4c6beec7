package runresult

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseGoTest(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RunResult
	}{
		{
			name: "all passing",
			input: `{"Action":"run","Package":"example.com/pkg","Test":"TestFoo"}
{"Action":"output","Package":"example.com/pkg","Test":"TestFoo","Output":"=== RUN   TestFoo\n"}
{"Action":"pass","Package":"example.com/pkg","Test":"TestFoo","Elapsed":0.01}
{"Action":"run","Package":"example.com/pkg","Test":"TestBar"}
{"Action":"pass","Package":"example.com/pkg","Test":"TestBar","Elapsed":0.02}
{"Action":"pass","Package":"example.com/pkg","Elapsed":0.5}`,
			expected: RunResult{Completed: 2},
		},
		{
			name: "one failure",
			input: `{"Action":"run","Package":"example.com/pkg","Test":"TestFoo"}
{"Action":"pass","Package":"example.com/pkg","Test":"TestFoo","Elapsed":0.01}
{"Action":"run","Package":"example.com/pkg","Test":"TestBar"}
{"Action":"output","Package":"example.com/pkg","Test":"TestBar","Output":"    bar_test.go:15: expected 42, got 0\n"}
{"Action":"fail","Package":"example.com/pkg","Test":"TestBar","Elapsed":0.02}
{"Action":"fail","Package":"example.com/pkg","Elapsed":0.5}`,
			expected: RunResult{Completed: 2, Failures: 1},
		},
		{
			name: "rerun turns failure into flake",
			input: `{"Action":"run","Package":"example.com/pkg","Test":"TestFlaky"}
{"Action":"output","Package":"example.com/pkg","Test":"TestFlaky","Output":"    flaky_test.go:9: connection reset\n"}
{"Action":"fail","Package":"example.com/pkg","Test":"TestFlaky","Elapsed":0.01}
{"Action":"run","Package":"example.com/pkg","Test":"TestFlaky"}
{"Action":"pass","Package":"example.com/pkg","Test":"TestFlaky","Elapsed":0.01}`,
			expected: RunResult{Completed: 1, Flakes: 1},
		},
		{
			name: "skips count as completed",
			input: `{"Action":"run","Package":"example.com/pkg","Test":"TestSkip"}
{"Action":"skip","Package":"example.com/pkg","Test":"TestSkip","Elapsed":0.0}`,
			expected: RunResult{Completed: 1, Skipped: 1},
		},
		{
			name: "build failure is an error",
			input: `{"Action":"output","Package":"example.com/broken","Output":"# example.com/broken\n"}
{"Action":"output","Package":"example.com/broken","Output":"broken.go:3:1: syntax error: unexpected }\n"}
{"Action":"output","Package":"example.com/broken","Output":"FAIL\texample.com/broken [build failed]\n"}
{"Action":"fail","Package":"example.com/broken","Elapsed":0}`,
			expected: RunResult{Errors: 1, Failure: "package example.com/broken failed: syntax error: unexpected }"},
		},
		{
			name: "timeout",
			input: `{"Action":"run","Package":"example.com/pkg","Test":"TestSlow"}
{"Action":"output","Package":"example.com/pkg","Test":"TestSlow","Output":"panic: test timed out after 1s\n"}
{"Action":"output","Package":"example.com/pkg","Output":"FAIL\texample.com/pkg\t1.005s\n"}
{"Action":"fail","Package":"example.com/pkg","Elapsed":1.005}`,
			expected: RunResult{Errors: 1, Timeout: true, Failure: "panic: test timed out after 1s"},
		},
		{
			name: "timeout after a passing test",
			input: `{"Action":"start","Package":"gt/slow"}
{"Action":"run","Package":"gt/slow","Test":"TestFast"}
{"Action":"output","Package":"gt/slow","Test":"TestFast","Output":"=== RUN   TestFast\n"}
{"Action":"output","Package":"gt/slow","Test":"TestFast","Output":"--- PASS: TestFast (0.00s)\n"}
{"Action":"pass","Package":"gt/slow","Test":"TestFast","Elapsed":0}
{"Action":"run","Package":"gt/slow","Test":"TestSlow"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow","Output":"=== RUN   TestSlow\n"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow","Output":"panic: test timed out after 1s\n"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow","Output":"\trunning tests:\n"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow","Output":"\t\tTestSlow (1s)\n"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow","Output":"\n"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow","Output":"goroutine 18 [running]:\n"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow","Output":"testing.(*M).startAlarm.func1()\n"}
{"Action":"output","Package":"gt/slow","Output":"FAIL\tgt/slow\t1.012s\n"}
{"Action":"fail","Package":"gt/slow","Elapsed":1.012}`,
			expected: RunResult{Completed: 1, Errors: 1, Timeout: true, Failure: "panic: test timed out after 1s"},
		},
		{
			name: "timeout inside a subtest",
			input: `{"Action":"run","Package":"gt/slow","Test":"TestSlow"}
{"Action":"run","Package":"gt/slow","Test":"TestSlow/wait"}
{"Action":"output","Package":"gt/slow","Test":"TestSlow/wait","Output":"panic: test timed out after 2s\n"}
{"Action":"output","Package":"gt/slow","Output":"FAIL\tgt/slow\t2.004s\n"}
{"Action":"fail","Package":"gt/slow","Elapsed":2.004}`,
			expected: RunResult{Errors: 1, Timeout: true, Failure: "panic: test timed out after 2s"},
		},
		{
			name: "flaky subtest with count=2",
			input: `{"Action":"start","Package":"gt"}
{"Action":"run","Package":"gt","Test":"TestFlaky"}
{"Action":"output","Package":"gt","Test":"TestFlaky","Output":"=== RUN   TestFlaky\n"}
{"Action":"run","Package":"gt","Test":"TestFlaky/sub"}
{"Action":"output","Package":"gt","Test":"TestFlaky/sub","Output":"=== RUN   TestFlaky/sub\n"}
{"Action":"output","Package":"gt","Test":"TestFlaky/sub","Output":"    flaky_test.go:14: first attempt fails\n"}
{"Action":"output","Package":"gt","Test":"TestFlaky/sub","Output":"--- FAIL: TestFlaky/sub (0.00s)\n"}
{"Action":"fail","Package":"gt","Test":"TestFlaky/sub","Elapsed":0}
{"Action":"output","Package":"gt","Test":"TestFlaky","Output":"--- FAIL: TestFlaky (0.00s)\n"}
{"Action":"fail","Package":"gt","Test":"TestFlaky","Elapsed":0}
{"Action":"run","Package":"gt","Test":"TestOK"}
{"Action":"output","Package":"gt","Test":"TestOK","Output":"=== RUN   TestOK\n"}
{"Action":"output","Package":"gt","Test":"TestOK","Output":"--- PASS: TestOK (0.00s)\n"}
{"Action":"pass","Package":"gt","Test":"TestOK","Elapsed":0}
{"Action":"run","Package":"gt","Test":"TestFlaky"}
{"Action":"output","Package":"gt","Test":"TestFlaky","Output":"=== RUN   TestFlaky\n"}
{"Action":"run","Package":"gt","Test":"TestFlaky/sub"}
{"Action":"output","Package":"gt","Test":"TestFlaky/sub","Output":"=== RUN   TestFlaky/sub\n"}
{"Action":"output","Package":"gt","Test":"TestFlaky/sub","Output":"--- PASS: TestFlaky/sub (0.00s)\n"}
{"Action":"pass","Package":"gt","Test":"TestFlaky/sub","Elapsed":0}
{"Action":"output","Package":"gt","Test":"TestFlaky","Output":"--- PASS: TestFlaky (0.00s)\n"}
{"Action":"pass","Package":"gt","Test":"TestFlaky","Elapsed":0}
{"Action":"run","Package":"gt","Test":"TestOK"}
{"Action":"pass","Package":"gt","Test":"TestOK","Elapsed":0}
{"Action":"output","Package":"gt","Output":"FAIL\n"}
{"Action":"output","Package":"gt","Output":"FAIL\tgt\t0.005s\n"}
{"Action":"fail","Package":"gt","Elapsed":0.005}`,
			expected: RunResult{Completed: 2, Flakes: 1},
		},
		{
			name: "failing subtest counts once",
			input: `{"Action":"run","Package":"gt","Test":"TestTable"}
{"Action":"run","Package":"gt","Test":"TestTable/ok"}
{"Action":"pass","Package":"gt","Test":"TestTable/ok","Elapsed":0}
{"Action":"run","Package":"gt","Test":"TestTable/bad"}
{"Action":"output","Package":"gt","Test":"TestTable/bad","Output":"    table_test.go:21: got 1, want 2\n"}
{"Action":"fail","Package":"gt","Test":"TestTable/bad","Elapsed":0}
{"Action":"fail","Package":"gt","Test":"TestTable","Elapsed":0}
{"Action":"fail","Package":"gt","Elapsed":0.01}`,
			expected: RunResult{Completed: 2, Failures: 1},
		},
		{
			name: "parent failing after passing subtests",
			input: `{"Action":"run","Package":"gt","Test":"TestCleanup"}
{"Action":"run","Package":"gt","Test":"TestCleanup/step"}
{"Action":"pass","Package":"gt","Test":"TestCleanup/step","Elapsed":0}
{"Action":"output","Package":"gt","Test":"TestCleanup","Output":"    cleanup_test.go:30: leaked file\n"}
{"Action":"fail","Package":"gt","Test":"TestCleanup","Elapsed":0}
{"Action":"fail","Package":"gt","Elapsed":0.01}`,
			expected: RunResult{Completed: 2, Failures: 1},
		},
		{
			name: "nested subtests",
			input: `{"Action":"run","Package":"gt","Test":"TestA"}
{"Action":"run","Package":"gt","Test":"TestA/b"}
{"Action":"run","Package":"gt","Test":"TestA/b/c"}
{"Action":"skip","Package":"gt","Test":"TestA/b/c","Elapsed":0}
{"Action":"pass","Package":"gt","Test":"TestA/b","Elapsed":0}
{"Action":"pass","Package":"gt","Test":"TestA","Elapsed":0}`,
			expected: RunResult{Completed: 1, Skipped: 1},
		},
		{
			name:     "empty input",
			input:    "",
			expected: RunResult{},
		},
		{
			name:     "garbage lines ignored",
			input:    "not json\n{\"Action\":\"output\",\"Package\":\"example.com/pkg\",\"Output\":\"building...\\n\"}",
			expected: RunResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ParseGoTest(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseGoTest() error = %v", err)
			}
			if report.Result != tt.expected {
				t.Errorf("Result = %+v, want %+v", report.Result, tt.expected)
			}
		})
	}
}

func TestParseGoTest_Details(t *testing.T) {
	input := `{"Action":"run","Package":"example.com/pkg","Test":"TestBar"}
{"Action":"output","Package":"example.com/pkg","Test":"TestBar","Output":"=== RUN   TestBar\n"}
{"Action":"output","Package":"example.com/pkg","Test":"TestBar","Output":"    bar_test.go:15: expected 42, got 0\n"}
{"Action":"output","Package":"example.com/pkg","Test":"TestBar","Output":"--- FAIL: TestBar (0.00s)\n"}
{"Action":"fail","Package":"example.com/pkg","Test":"TestBar","Elapsed":0.02}
{"Action":"run","Package":"example.com/pkg","Test":"TestFlaky"}
{"Action":"fail","Package":"example.com/pkg","Test":"TestFlaky","Elapsed":0.01}
{"Action":"run","Package":"example.com/pkg","Test":"TestFlaky"}
{"Action":"pass","Package":"example.com/pkg","Test":"TestFlaky","Elapsed":0.01}`

	report, err := ParseGoTest(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseGoTest() error = %v", err)
	}

	if len(report.FailedTests) != 1 {
		t.Fatalf("len(FailedTests) = %d, want 1", len(report.FailedTests))
	}
	ft := report.FailedTests[0]
	if ft.Name != "example.com/pkg.TestBar" {
		t.Errorf("Name = %q", ft.Name)
	}
	if ft.Reason != "expected 42, got 0" {
		t.Errorf("Reason = %q, want %q", ft.Reason, "expected 42, got 0")
	}

	if len(report.FlakyTests) != 1 || report.FlakyTests[0] != "example.com/pkg.TestFlaky" {
		t.Errorf("FlakyTests = %v", report.FlakyTests)
	}
}

func TestExtractFailureReason_Truncates(t *testing.T) {
	long := strings.Repeat("x", 150)
	reason := extractFailureReason([]string{"    foo_test.go:1: " + long + "\n"})
	if len(reason) != 100 || !strings.HasSuffix(reason, "...") {
		t.Errorf("reason = %q (len %d), want 100 chars ending in ...", reason, len(reason))
	}
}

func TestParseGoTest_SubtestDetails(t *testing.T) {
	input := `{"Action":"run","Package":"gt","Test":"TestTable"}
{"Action":"run","Package":"gt","Test":"TestTable/bad"}
{"Action":"output","Package":"gt","Test":"TestTable/bad","Output":"    table_test.go:21: got 1, want 2\n"}
{"Action":"fail","Package":"gt","Test":"TestTable/bad","Elapsed":0}
{"Action":"fail","Package":"gt","Test":"TestTable","Elapsed":0}
{"Action":"run","Package":"gt","Test":"TestRetry"}
{"Action":"run","Package":"gt","Test":"TestRetry/dial"}
{"Action":"fail","Package":"gt","Test":"TestRetry/dial","Elapsed":0}
{"Action":"fail","Package":"gt","Test":"TestRetry","Elapsed":0}
{"Action":"run","Package":"gt","Test":"TestRetry"}
{"Action":"run","Package":"gt","Test":"TestRetry/dial"}
{"Action":"pass","Package":"gt","Test":"TestRetry/dial","Elapsed":0}
{"Action":"pass","Package":"gt","Test":"TestRetry","Elapsed":0}`

	report, err := ParseGoTest(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseGoTest() error = %v", err)
	}

	want := []FailedTest{{Name: "gt.TestTable/bad", Reason: "got 1, want 2"}}
	if !reflect.DeepEqual(report.FailedTests, want) {
		t.Errorf("FailedTests = %+v, want %+v", report.FailedTests, want)
	}
	if !reflect.DeepEqual(report.FlakyTests, []string{"gt.TestRetry/dial"}) {
		t.Errorf("FlakyTests = %v, want [gt.TestRetry/dial]", report.FlakyTests)
	}
}

func TestExtractFailureReason_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 150)
	reason := extractFailureReason([]string{"    foo_test.go:1: " + long + "\n"})
	if !utf8.ValidString(reason) {
		t.Fatalf("reason is not valid UTF-8: %q", reason)
	}
	if n := utf8.RuneCountInString(reason); n != 100 || !strings.HasSuffix(reason, "...") {
		t.Errorf("reason = %q (%d runes), want 100 runes ending in ...", reason, n)
	}
}
