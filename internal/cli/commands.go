package cli

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/forkcheck/internal/cliopts"
	"github.com/AndreyAkinshin/forkcheck/internal/config"
	"github.com/AndreyAkinshin/forkcheck/internal/dumpfile"
	"github.com/AndreyAkinshin/forkcheck/internal/errors"
	"github.com/AndreyAkinshin/forkcheck/internal/output"
	"github.com/AndreyAkinshin/forkcheck/internal/placeholder"
	"github.com/AndreyAkinshin/forkcheck/internal/platformpath"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// Help text alignment widths for consistent formatting.
const (
	helpFlagWidthShort  = 10 // Width for short flags like "-h, --help"
	helpFlagWidthGlobal = 16 // Width for global flags like "--config=<path>"
	helpFlagWidthEval   = 26 // Width for evaluation flags like "--fail-on-flake-count=<n>"
	helpCommandWidth    = 34
)

// commandInfo describes a built-in command for help and completion output.
type commandInfo struct {
	name        string
	usage       string
	description string
}

var evaluationCommands = []commandInfo{
	{"evaluate", "evaluate [flags] <summary>...", "Evaluate fork summary files (JSON or YAML)"},
	{"gotest", "gotest [flags] [file|-]", "Evaluate go test -json output as one fork"},
}

var forkCommands = []commandInfo{
	{"placeholder", "placeholder [--fork=<n>] [--path] <v>", "Resolve fork-identity placeholders"},
	{"escape-path", "escape-path [--os=<goos>] <path>", "Escape a path for long-path support"},
	{"dump-files", "dump-files [--fork=<n>]", "Show dump file names for this run"},
	{"options", "options", "Show derived fork command-line options"},
}

var utilityCommands = []commandInfo{
	{"config", "config validate", "Validate the configuration file"},
	{"completion", "completion <shell>", "Generate shell completion (bash, zsh, fish)"},
	{"version", "version", "Show version information"},
	{"help", "help", "Show this help"},
}

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	switch {
	case opts.Verbose:
		out.SetLevel(output.LevelDebug)
	case opts.Quiet:
		out.SetLevel(output.LevelError)
	default:
		out.SetLevel(output.LevelInfo)
	}
}

// loadConfig loads the configuration named by --config, or forkcheck.yaml in
// the working directory. Without either, defaults are used.
// Returns the config and exit code 0 on success, or nil and the exit code on failure.
func loadConfig(opts *GlobalOptions) (*config.Config, int) {
	path := opts.ConfigPath
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			out.LogDebug("no configuration file found, using defaults")
			cfg := config.Default()
			applyConfigLevel(cfg, opts)
			return cfg, 0
		}
		path = found
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		out.WarningSimple("%s", w)
	}
	if err != nil {
		cerr := errors.Validation(path, err)
		out.ErrorPrefix("%v", cerr)
		return nil, errors.GetExitCode(cerr)
	}

	out.LogDebug(fmt.Sprintf("loaded configuration from %s", path))
	applyConfigLevel(cfg, opts)
	return cfg, 0
}

// applyConfigLevel applies the configured log level unless -q or -v overrides it.
func applyConfigLevel(cfg *config.Config, opts *GlobalOptions) {
	if opts.Quiet || opts.Verbose || cfg.Logging == nil {
		return
	}
	if level, ok := output.ParseLevel(cfg.Logging.Level); ok {
		out.SetLevel(level)
	}
}

// forkOptions derives the fork command-line options for the current settings.
func forkOptions(cfg *config.Config) []cliopts.Option {
	var showErrors bool
	var behavior string
	if cfg.Logging != nil {
		showErrors = cfg.Logging.ShowErrors
	}
	if cfg.Session != nil {
		behavior = cfg.Session.ReactorFailureBehavior
	}
	return cliopts.Derive(out, showErrors, behavior)
}

// parseForkFlag recognizes --fork=<n> and --fork <n>. It returns the number
// of arguments consumed, or 0 if args[i] is not a fork flag.
func parseForkFlag(args []string, i int) (int, int, error) {
	arg := args[i]
	var value string
	consumed := 1
	switch {
	case strings.HasPrefix(arg, "--fork="):
		value = strings.TrimPrefix(arg, "--fork=")
	case arg == "--fork":
		if i+1 >= len(args) {
			return 0, 0, errors.Configf("--fork requires a value")
		}
		value = args[i+1]
		consumed = 2
	default:
		return 0, 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, 0, errors.Configf("invalid --fork value %q (fork numbers start with 1)", value)
	}
	return n, consumed, nil
}

// cmdPlaceholder resolves fork-identity placeholders in a value.
func cmdPlaceholder(args []string) int {
	if wantsHelp(args) {
		printPlaceholderUsage()
		return 0
	}

	fork := 1
	asPath := false
	var values []string

	for i := 0; i < len(args); {
		if args[i] == "--" {
			values = append(values, args[i+1:]...)
			break
		}
		n, consumed, err := parseForkFlag(args, i)
		if err != nil {
			out.ErrorPrefix("placeholder: %v", err)
			return errors.GetExitCode(err)
		}
		if consumed > 0 {
			fork = n
			i += consumed
			continue
		}

		switch arg := args[i]; {
		case arg == "--path":
			asPath = true
		case strings.HasPrefix(arg, "--"):
			out.ErrorPrefix("placeholder: unknown flag: %s", arg)
			return errors.ExitConfigError
		default:
			values = append(values, arg)
		}
		i++
	}

	if len(values) != 1 {
		out.ErrorPrefix("placeholder: exactly one value required")
		printPlaceholderUsage()
		return errors.ExitConfigError
	}

	value := values[0]
	if tokens := placeholder.List(value); len(tokens) == 0 {
		out.LogDebug(fmt.Sprintf("no placeholders in %q", value))
	} else {
		out.LogDebug(fmt.Sprintf("resolving %s for fork %d", strings.Join(tokens, ", "), fork))
	}
	if asPath {
		out.Println("%s", placeholder.ReplaceInPath(value, fork))
	} else {
		out.Println("%s", placeholder.Replace(value, fork))
	}
	return 0
}

// cmdEscapePath escapes a path for long-path support on Windows.
func cmdEscapePath(args []string) int {
	if wantsHelp(args) {
		printEscapePathUsage()
		return 0
	}

	goos := runtime.GOOS
	var paths []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--os="):
			goos = strings.TrimPrefix(arg, "--os=")
		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			out.ErrorPrefix("escape-path: unknown flag: %s", arg)
			return errors.ExitConfigError
		default:
			paths = append(paths, arg)
		}
	}

	if len(paths) != 1 {
		out.ErrorPrefix("escape-path: exactly one path required")
		printEscapePathUsage()
		return errors.ExitConfigError
	}

	out.Println("%s", platformpath.EscapeFor(goos, paths[0]))
	return 0
}

// cmdDumpFiles prints the dump file names of this run.
func cmdDumpFiles(args []string) int {
	if wantsHelp(args) {
		printDumpFilesUsage()
		return 0
	}

	fork := 0
	for i := 0; i < len(args); {
		n, consumed, err := parseForkFlag(args, i)
		if err != nil {
			out.ErrorPrefix("dump-files: %v", err)
			return errors.GetExitCode(err)
		}
		if consumed == 0 {
			out.ErrorPrefix("dump-files: unexpected argument: %s", args[i])
			return errors.ExitConfigError
		}
		fork = n
		i += consumed
	}

	rows := [][]string{
		{"run", "dump", dumpfile.RunFile()},
		{"run", "stream", dumpfile.RunStreamFile()},
	}
	if fork > 0 {
		f := strconv.Itoa(fork)
		rows = append(rows,
			[]string{f, "dump", dumpfile.ForkFile(fork)},
			[]string{f, "stream", dumpfile.ForkStreamFile(fork)},
			[]string{f, "events", dumpfile.EventsFile(fork)},
		)
	}
	out.Table([]string{"Fork", "Kind", "File"}, rows)

	if out.IsInfoEnabled() {
		out.Println("")
		out.Println("Templates:")
		out.List(dumpfile.Templates())
	}
	return 0
}

// cmdOptions prints the command-line options forks receive.
func cmdOptions(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printOptionsUsage()
		return 0
	}

	var query string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--has="):
			query = strings.TrimPrefix(arg, "--has=")
		default:
			out.ErrorPrefix("options: unexpected argument: %s", arg)
			return errors.ExitConfigError
		}
	}

	var want cliopts.Option
	if query != "" {
		opt, ok := cliopts.ParseOption(query)
		if !ok {
			out.ErrorPrefix("options: unknown option %q", query)
			return errors.ExitConfigError
		}
		want = opt
	}

	cfg, exitCode := loadConfig(opts)
	if cfg == nil {
		return exitCode
	}

	derived := forkOptions(cfg)
	if query != "" {
		if cliopts.Contains(derived, want) {
			return 0
		}
		return errors.ExitFailure
	}

	for _, name := range cliopts.Names(derived) {
		out.Println("%s", name)
	}
	return 0
}

// cmdConfig handles configuration utilities.
func cmdConfig(args []string, opts *GlobalOptions) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(opts)
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate(opts *GlobalOptions) int {
	path := opts.ConfigPath
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			out.ErrorPrefix("%v", err)
			return errors.ExitConfigError
		}
		path = found
	}

	cfg, warnings, err := config.LoadAndValidate(path)
	for _, w := range warnings {
		out.WarningSimple("%s", w)
	}
	if err != nil {
		cerr := errors.Validation(path, err)
		out.ErrorPrefix("%v", cerr)
		return errors.GetExitCode(cerr)
	}

	behavior := cfg.Session.ReactorFailureBehavior
	if behavior == "" {
		behavior = "(unset)"
	}

	out.ValidationSuccess("Configuration is valid.")
	out.SummaryItem("File", path)
	out.SummaryItem("Fail if no tests", strconv.FormatBool(cfg.FailIfNoTests()))
	out.SummaryItem("Test failure ignore", strconv.FormatBool(cfg.Report.TestFailureIgnore))
	out.SummaryItem("Fail on flake count", strconv.Itoa(cfg.Report.FailOnFlakeCount))
	out.SummaryItem("Reports directory", cfg.Report.ReportsDirectory)
	out.SummaryItem("Log level", cfg.Logging.Level)
	out.SummaryItem("Reactor failure behavior", behavior)
	if len(warnings) > 0 {
		out.SummaryItem("Warnings", strconv.Itoa(len(warnings)))
	}
	return 0
}

// printConfigUsage prints the help text for the config command.
func printConfigUsage() {
	w := out

	w.HelpTitle("forkcheck config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck config <subcommand>")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate the configuration file", helpFlagWidthShort)

	w.HelpSection("Options:")
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)

	w.HelpSection("Examples:")
	w.HelpExample("forkcheck config validate", "Validate ./forkcheck.yaml")
	w.HelpExample("forkcheck --config=ci/forkcheck.json config validate", "Validate a specific file")
	w.Println("")
}

func printPlaceholderUsage() {
	w := out

	w.HelpTitle("forkcheck placeholder - resolve fork-identity placeholders")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck placeholder [--fork=<n>] [--path] [--] <value>")

	w.HelpSection("Placeholders:")
	w.HelpCommand(placeholder.ForkNumber, "Running number of the fork (starts with 1)", 26)
	w.HelpCommand(placeholder.ThreadNumber, "Alias of the fork number", 26)

	w.HelpSection("Options:")
	w.HelpFlag("--fork=<n>", "Fork number (default: 1)", helpFlagWidthShort)
	w.HelpFlag("--path", "Only rewrite path segments that do not exist yet", helpFlagWidthShort)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)

	w.HelpSection("Examples:")
	w.HelpExample("forkcheck placeholder --fork=2 '-Dport=80${forkcheck.forkNumber}'", "Prints -Dport=802")
	w.Println("")
}

func printEscapePathUsage() {
	w := out

	w.HelpTitle("forkcheck escape-path - escape a path for long-path support")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck escape-path [--os=<goos>] <path>")

	w.HelpSection("Description:")
	w.Println("  On Windows, paths longer than %d characters get the \\\\?\\ (or \\\\?\\UNC\\) prefix.", platformpath.MaxPathLengthWindows)
	w.Println("  On other platforms the path is printed unchanged.")

	w.HelpSection("Options:")
	w.HelpFlag("--os=<goos>", "Target platform (default: host)", helpFlagWidthShort)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)
	w.Println("")
}

func printDumpFilesUsage() {
	w := out

	w.HelpTitle("forkcheck dump-files - show dump file names")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck dump-files [--fork=<n>]")

	w.HelpSection("Description:")
	w.Println("  Dump file names embed the start time of this forkcheck process.")

	w.HelpSection("Options:")
	w.HelpFlag("--fork=<n>", "Also show the files of fork <n>", helpFlagWidthShort)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)
	w.Println("")
}

func printOptionsUsage() {
	w := out

	w.HelpTitle("forkcheck options - show fork command-line options")

	w.HelpSection("Usage:")
	w.HelpUsage("forkcheck options [--has=<option>]")

	w.HelpSection("Description:")
	w.Println("  Prints one option per enabled log level, SHOW_ERRORS when logging.show_errors")
	w.Println("  is set, and the reactor failure behavior from session.reactor_failure_behavior.")
	w.Println("  With --has, prints nothing and exits 0 if forks receive the option, 1 if not.")

	w.HelpSection("Options:")
	w.HelpFlag("--has=<option>", "Check a single option, e.g. SHOW_ERRORS", helpFlagWidthShort)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidthShort)
	w.Println("")
}
