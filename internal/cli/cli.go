// Package cli implements the forkcheck command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/forkcheck/internal/errors"
	"github.com/AndreyAkinshin/forkcheck/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		out.Println("forkcheck %s", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	// Evaluation
	case "evaluate":
		return cmdEvaluate(cmdArgs, opts)
	case "gotest":
		return cmdGoTest(cmdArgs, opts)

	// Fork utilities
	case "placeholder":
		return cmdPlaceholder(cmdArgs)
	case "escape-path":
		return cmdEscapePath(cmdArgs)
	case "dump-files":
		return cmdDumpFiles(cmdArgs)
	case "options":
		return cmdOptions(cmdArgs, opts)

	// Utility commands
	case "config":
		return cmdConfig(cmdArgs, opts)
	case "completion":
		return cmdCompletion(cmdArgs)
	case "help":
		printUsage()
		return 0
	case "version":
		out.Println("forkcheck %s", Version)
		return 0

	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("Run 'forkcheck help' for usage.")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet      bool
	Verbose    bool
	ConfigPath string
}

// parseGlobalFlags extracts -q, -v and --config from anywhere in args.
// Everything else, including command flags such as --fork=N, is passed
// through in order; "--" stops global flag parsing.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--config":
			if i+1 >= len(args) {
				return nil, nil, errors.Configf("--config requires a value")
			}
			opts.ConfigPath = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--config="):
			opts.ConfigPath = strings.TrimPrefix(arg, "--config=")
			if opts.ConfigPath == "" {
				return nil, nil, errors.Configf("--config requires a value")
			}
			i++
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, nil, err
	}

	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

// validateGlobalOptions checks that global options are valid.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return errors.Configf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

func printUsage() {
	w := out

	w.HelpTitle("forkcheck - evaluate forked test runs")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck [flags] <command> [args]")

	w.HelpSection("Evaluation Commands:")
	for _, c := range evaluationCommands {
		w.HelpCommand(c.usage, c.description, helpCommandWidth)
	}

	w.HelpSection("Fork Utilities:")
	for _, c := range forkCommands {
		w.HelpCommand(c.usage, c.description, helpCommandWidth)
	}

	w.HelpSection("Utility Commands:")
	for _, c := range utilityCommands {
		w.HelpCommand(c.usage, c.description, helpCommandWidth)
	}

	printGlobalFlags(w)

	w.HelpSection("Exit Codes:")
	w.HelpCommand(fmt.Sprint(errors.ExitSuccess), "Success (or failures ignored by test_failure_ignore)", 2)
	w.HelpCommand(fmt.Sprint(errors.ExitFailure), "Build failure: failing or too flaky tests, no tests run", 2)
	w.HelpCommand(fmt.Sprint(errors.ExitConfigError), "Configuration or usage error", 2)
	w.HelpCommand(fmt.Sprint(errors.ExitExecutionError), "Execution error: a fork failed to boot or the harness broke", 2)

	w.HelpSection("Examples:")
	w.HelpExample("forkcheck evaluate fork-1.json fork-2.json", "Evaluate two fork summaries")
	w.HelpExample("go test -json ./... | forkcheck gotest --fork=2 -", "Evaluate a go test run as fork 2")
	w.HelpExample("forkcheck placeholder --fork=3 --path 'target/fork-${forkcheck.forkNumber}'", "Resolve a fork path")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidthGlobal)
	w.HelpFlag("-v, --verbose", "Debug output", helpFlagWidthGlobal)
	w.HelpFlag("--config=<path>", "Configuration file (default: forkcheck.yaml)", helpFlagWidthGlobal)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthGlobal)
	w.HelpFlag("--version", "Show version", helpFlagWidthGlobal)
}
