package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/forkcheck/internal/cliopts"
	"github.com/AndreyAkinshin/forkcheck/internal/config"
	"github.com/AndreyAkinshin/forkcheck/internal/errors"
	"github.com/AndreyAkinshin/forkcheck/internal/report"
	"github.com/AndreyAkinshin/forkcheck/internal/runresult"
)

// stdin is the input of "gotest -". Tests replace it.
var stdin io.Reader = os.Stdin

// evalFlags holds command-line overrides of the report configuration.
type evalFlags struct {
	fork             int
	ignoreFailures   bool
	failOnFlakeCount int
	flakeCountSet    bool
	noFailIfNoTests  bool
}

// parseEvalFlags separates evaluation flags from positional arguments.
func parseEvalFlags(cmd string, args []string) (*evalFlags, []string, error) {
	flags := &evalFlags{}
	var positional []string

	for i := 0; i < len(args); {
		n, consumed, err := parseForkFlag(args, i)
		if err != nil {
			return nil, nil, err
		}
		if consumed > 0 {
			flags.fork = n
			i += consumed
			continue
		}

		arg := args[i]
		switch {
		case arg == "--ignore-failures":
			flags.ignoreFailures = true
		case arg == "--no-fail-if-no-tests":
			flags.noFailIfNoTests = true
		case strings.HasPrefix(arg, "--fail-on-flake-count="):
			value := strings.TrimPrefix(arg, "--fail-on-flake-count=")
			count, err := strconv.Atoi(value)
			if err != nil || count < 0 {
				return nil, nil, errors.Configf("invalid --fail-on-flake-count value %q (must be a non-negative integer)", value)
			}
			flags.failOnFlakeCount = count
			flags.flakeCountSet = true
		case arg == "--fail-on-flake-count":
			return nil, nil, errors.Configf("--fail-on-flake-count requires a value (--fail-on-flake-count=<n>)")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, nil, errors.Configf("%s: unknown flag: %s", cmd, arg)
		default:
			positional = append(positional, arg)
		}
		i++
	}

	return flags, positional, nil
}

// parameters resolves the report parameters for the fork, applying flag overrides.
func (f *evalFlags) parameters(cfg *config.Config) report.Parameters {
	fork := f.fork
	if fork == 0 {
		fork = 1
	}
	params := cfg.ReportParameters(fork)
	if f.ignoreFailures {
		params.TestFailureIgnore = true
	}
	if f.noFailIfNoTests {
		params.FailIfNoTests = false
	}
	if f.flakeCountSet {
		params.FailOnFlakeCount = f.failOnFlakeCount
	}
	return params
}

// cmdEvaluate evaluates the aggregated result of fork summary files.
func cmdEvaluate(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printEvaluateUsage()
		return 0
	}

	flags, paths, err := parseEvalFlags("evaluate", args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if len(paths) == 0 {
		out.ErrorPrefix("evaluate: at least one summary file required")
		printEvaluateUsage()
		return errors.ExitConfigError
	}

	cfg, exitCode := loadConfig(opts)
	if cfg == nil {
		return exitCode
	}

	batch, err := runresult.LoadSummaries(paths...)
	if err != nil {
		out.ErrorPrefix("evaluate: %v", err)
		return errors.ExitConfigError
	}
	out.LogDebug(fmt.Sprintf("loaded %d fork summaries", batch.Forks))

	return evaluateRun(cfg, flags.parameters(cfg), batch.Result, batch.ForkError, nil)
}

// cmdGoTest evaluates go test -json output as the result of one fork.
func cmdGoTest(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printGoTestUsage()
		return 0
	}

	flags, positional, err := parseEvalFlags("gotest", args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if len(positional) > 1 {
		out.ErrorPrefix("gotest: unexpected argument: %s", positional[1])
		return errors.ExitConfigError
	}

	cfg, exitCode := loadConfig(opts)
	if cfg == nil {
		return exitCode
	}

	input := stdin
	if len(positional) == 1 && positional[0] != "-" {
		f, err := os.Open(positional[0])
		if err != nil {
			out.ErrorPrefix("gotest: %v", err)
			return errors.ExitConfigError
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	rep, err := runresult.ParseGoTest(input)
	if err != nil {
		out.ErrorPrefix("gotest: %v", err)
		return errors.ExitExecutionError
	}

	return evaluateRun(cfg, flags.parameters(cfg), rep.Result, nil, rep)
}

// evaluateRun prints the run summary, evaluates it, and maps the outcome to an exit code.
func evaluateRun(cfg *config.Config, params report.Parameters, result runresult.RunResult, forkErr error, details *runresult.GoTestReport) int {
	printRunSummary(result, details)

	outcome, err := report.Evaluate(params, result, forkErr, out)
	if outcome.Escalated() {
		out.FinalFailure("%s", outcomeLabel(outcome))
		out.ErrorPrefix("%v", err)
		if forkErr != nil {
			cliopts.LogDebugOrShowErrors(fmt.Sprintf("fork error: %#v", forkErr), out, forkOptions(cfg))
		}
		switch {
		case errors.IsExecution(err):
			out.Hint("The test harness failed; test_failure_ignore does not apply to this error.")
		case errors.IsFailure(err) && outcome == report.OutcomeBuildFailure:
			out.Hint("Pass --ignore-failures (report.test_failure_ignore) to log test failures instead.")
		}
		return errors.GetExitCode(err)
	}

	if outcome == report.OutcomeFailureIgnored {
		out.LogWarn("test failures ignored (report.test_failure_ignore)")
	}
	out.FinalSuccess("%s", outcomeLabel(outcome))
	return 0
}

// outcomeLabel renders an outcome for humans, e.g. "Build Failure".
func outcomeLabel(o report.Outcome) string {
	return cases.Title(language.English).String(strings.ReplaceAll(o.String(), "-", " "))
}

// printRunSummary prints a formatted summary of the run.
func printRunSummary(result runresult.RunResult, details *runresult.GoTestReport) {
	if !out.IsInfoEnabled() {
		return
	}

	out.SummaryHeader("Test Summary")

	passed := result.Completed - result.Failures - result.Skipped
	if passed < 0 {
		passed = 0
	}
	out.SummaryPassed("Passed", strconv.Itoa(passed))
	if result.Failures > 0 {
		out.SummaryFailed("Failed", strconv.Itoa(result.Failures))
	}
	if result.Errors > 0 {
		out.SummaryFailed("Errors", strconv.Itoa(result.Errors))
	}
	if result.Skipped > 0 {
		out.SummaryItem("Skipped", strconv.Itoa(result.Skipped))
	}
	if result.Flakes > 0 {
		out.SummaryItem("Flakes", strconv.Itoa(result.Flakes))
	}
	out.SummaryItem("Completed", strconv.Itoa(result.Completed))
	if result.Timeout {
		out.SummaryFailed("Timeout", "yes")
	}

	if details == nil {
		return
	}

	if len(details.FailedTests) > 0 {
		out.Println("")
		out.SummarySectionLabel("Failed Tests:")
		for _, ft := range details.FailedTests {
			out.SummaryFailed("  "+ft.Name, ft.Reason)
		}
	}
	if len(details.FlakyTests) > 0 {
		out.Println("")
		out.SummarySectionLabel("Flaky Tests:")
		for _, name := range details.FlakyTests {
			out.SummaryItem("  "+name, "passed on rerun")
		}
	}
}

func printEvaluationFlags() {
	w := out
	w.HelpSection("Options:")
	w.HelpFlag("--fork=<n>", "Fork number for placeholders in reports_directory (default: 1)", helpFlagWidthEval)
	w.HelpFlag("--ignore-failures", "Log test failures instead of failing (test_failure_ignore)", helpFlagWidthEval)
	w.HelpFlag("--fail-on-flake-count=<n>", "Fail once <n> flakes are seen; 0 disables", helpFlagWidthEval)
	w.HelpFlag("--no-fail-if-no-tests", "Accept runs that executed no tests", helpFlagWidthEval)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthEval)
}

func printEvaluateUsage() {
	w := out

	w.HelpTitle("forkcheck evaluate - evaluate fork summary files")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck evaluate [flags] <summary>...")

	w.HelpSection("Description:")
	w.Println("  Aggregates the results of every summary (JSON, or YAML with a .yaml/.yml")
	w.Println("  extension) and decides whether the run passes. The first fork error in")
	w.Println("  argument order becomes the cause of an escalated failure.")

	printEvaluationFlags()

	w.HelpSection("Examples:")
	w.HelpExample("forkcheck evaluate target/fork-*.json", "Evaluate all forks")
	w.HelpExample("forkcheck evaluate --fail-on-flake-count=3 fork-1.yaml", "Fail on three flakes")
	w.Println("")
}

func printGoTestUsage() {
	w := out

	w.HelpTitle("forkcheck gotest - evaluate go test -json output")

	w.HelpSection("Usage:")
	w.HelpUsage("go test -json ./... | forkcheck gotest [flags]")
	w.HelpUsage("forkcheck gotest [flags] <file>")

	w.HelpSection("Description:")
	w.Println("  Treats one go test -json stream as the result of a single fork. A test")
	w.Println("  that failed and then passed (e.g. with -count or reruns) counts as a flake.")

	printEvaluationFlags()

	w.HelpSection("Examples:")
	w.HelpExample("go test -json -count=2 ./... | forkcheck gotest", "Evaluate from stdin")
	w.HelpExample("forkcheck gotest --fork=2 test-output.json", "Evaluate a file as fork 2")
	w.Println("")
}
