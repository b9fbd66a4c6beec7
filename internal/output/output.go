// Package output provides formatted output and leveled logging for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is a logging verbosity. Higher levels include the lower ones.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the configuration name of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, true
	case "warn", "warning":
		return LevelWarn, true
	case "info":
		return LevelInfo, true
	case "debug":
		return LevelDebug, true
	}
	return LevelInfo, false
}

// ValidLevels returns the accepted level names.
func ValidLevels() []string {
	return []string{"error", "warn", "info", "debug"}
}

// Writer renders CLI output and filters log messages by level.
// Log methods write errors and warnings to stderr and info and debug to stdout.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
	level Level
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(),
		level: LevelInfo,
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
		level: LevelInfo,
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetLevel sets the logging verbosity.
func (w *Writer) SetLevel(level Level) {
	w.level = level
}

// Level returns the logging verbosity.
func (w *Writer) Level() Level {
	return w.level
}

// IsErrorEnabled reports whether error messages are logged. Always true.
func (w *Writer) IsErrorEnabled() bool { return true }

// IsWarnEnabled reports whether warnings are logged.
func (w *Writer) IsWarnEnabled() bool { return w.level >= LevelWarn }

// IsInfoEnabled reports whether info messages are logged.
func (w *Writer) IsInfoEnabled() bool { return w.level >= LevelInfo && !w.quiet }

// IsDebugEnabled reports whether debug messages are logged.
func (w *Writer) IsDebugEnabled() bool { return w.level >= LevelDebug && !w.quiet }

// LogError logs msg at error level to stderr.
func (w *Writer) LogError(msg string) {
	w.logLine("[ERROR]", msg, color.FgRed)
}

// LogWarn logs msg at warn level to stderr.
func (w *Writer) LogWarn(msg string) {
	if w.IsWarnEnabled() {
		w.logLine("[WARNING]", msg, color.FgYellow)
	}
}

// LogInfo logs msg at info level to stdout.
func (w *Writer) LogInfo(msg string) {
	if w.IsInfoEnabled() {
		for _, line := range strings.Split(msg, "\n") {
			w.Println("[INFO] %s", line)
		}
	}
}

// LogDebug logs msg at debug level to stdout.
func (w *Writer) LogDebug(msg string) {
	if w.IsDebugEnabled() {
		for _, line := range strings.Split(msg, "\n") {
			w.Println("%s %s", w.paint("[DEBUG]", color.Faint), line)
		}
	}
}

// logLine writes each line of msg to stderr with a colored level tag.
func (w *Writer) logLine(tag, msg string, attr color.Attribute) {
	prefix := w.paint(tag, attr, color.Bold)
	for _, line := range strings.Split(msg, "\n") {
		w.Errorln("%s %s", prefix, line)
	}
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// WarningSimple prints a warning to stderr with only the prefix colored.
func (w *Writer) WarningSimple(format string, args ...interface{}) {
	w.Errorln("%s %s", w.paint("warning:", color.FgYellow), fmt.Sprintf(format, args...))
}

// ErrorPrefix prints an error to stderr behind a red "forkcheck:" prefix.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	w.Errorln("%s %s", w.paint("forkcheck:", color.FgRed), fmt.Sprintf(format, args...))
}

// List prints items as a bulleted list.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("  - %s", item)
	}
}

// Table prints rows under headers with left-aligned, padded columns.
// Cells beyond the header count are dropped.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	line := func(cells []string) string {
		parts := make([]string, 0, len(widths))
		for i := 0; i < len(cells) && i < len(widths); i++ {
			parts = append(parts, fmt.Sprintf("%-*s", widths[i], cells[i]))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	w.Println("%s", line(headers))
	rules := make([]string, len(widths))
	for i, width := range widths {
		rules[i] = strings.Repeat("-", width)
	}
	w.Println("%s", line(rules))
	for _, row := range rows {
		w.Println("%s", line(row))
	}
}

// isTerminal returns true if stdout is a terminal and NO_COLOR is unset.
func isTerminal() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// paint applies attrs to s when color output is enabled for this writer.
func (w *Writer) paint(s string, attrs ...color.Attribute) string {
	if len(attrs) == 0 {
		return s
	}
	c := color.New(attrs...)
	if w.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// HelpTitle prints the title line of a help page.
func (w *Writer) HelpTitle(title string) {
	w.Println("%s", w.paint(title, color.Bold, color.FgCyan))
}

// HelpSection prints a section header such as "Commands:" after a blank line.
func (w *Writer) HelpSection(title string) {
	w.Println("")
	w.Println("%s", w.paint(title, color.Bold, color.FgYellow))
}

// HelpCommand prints a command name padded to width, then its description.
func (w *Writer) HelpCommand(name, description string, width int) {
	w.helpEntry(name, description, width, color.FgCyan)
}

// HelpFlag prints a flag padded to width, then its description.
func (w *Writer) HelpFlag(name, description string, width int) {
	w.helpEntry(name, description, width, color.FgYellow)
}

func (w *Writer) helpEntry(name, description string, width int, attr color.Attribute) {
	pad := strings.Repeat(" ", max(width-len(name), 0))
	w.Println("  %s%s  %s", w.colorPlaceholders(name, attr), pad, w.paint(description, color.Faint))
}

// HelpExample prints an example invocation with an optional description below it.
func (w *Writer) HelpExample(command, description string) {
	w.Println("  %s", w.paint(command, color.FgCyan))
	if description != "" {
		w.Println("      %s", w.paint(description, color.Faint))
	}
}

// HelpUsage prints a usage line with <placeholders> highlighted.
func (w *Writer) HelpUsage(usage string) {
	w.Println("  %s", w.colorPlaceholders(usage))
}

// SummaryHeader prints a "=== title ===" banner surrounded by blank lines.
func (w *Writer) SummaryHeader(title string) {
	w.Println("")
	w.Println("%s", w.paint("=== "+title+" ===", color.Bold, color.FgCyan))
	w.Println("")
}

// SummaryItem prints "label: value".
func (w *Writer) SummaryItem(label, value string) {
	w.summaryLine(label, value)
}

// SummaryPassed prints "label: value" with the value in green.
func (w *Writer) SummaryPassed(label, value string) {
	w.summaryLine(label, value, color.FgGreen)
}

// SummaryFailed prints "label: value" with the value in red.
func (w *Writer) SummaryFailed(label, value string) {
	w.summaryLine(label, value, color.FgRed)
}

func (w *Writer) summaryLine(label, value string, valueAttrs ...color.Attribute) {
	w.Println("  %s %s", w.paint(label+":", color.Faint), w.paint(value, valueAttrs...))
}

// SummarySectionLabel prints a dimmed label that introduces a list, e.g. "Failed Tests:".
func (w *Writer) SummarySectionLabel(label string) {
	w.Println("  %s", w.paint(label, color.Faint))
}

// FinalSuccess prints the closing verdict of a passing run.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	w.verdict(color.FgGreen, format, args...)
}

// FinalFailure prints the closing verdict of a failing run.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	w.verdict(color.FgRed, format, args...)
}

func (w *Writer) verdict(attr color.Attribute, format string, args ...interface{}) {
	w.Println("")
	w.Println("%s", w.paint(fmt.Sprintf(format, args...), attr, color.Bold))
}

// ValidationSuccess prints a confirmation, behind a green check mark when colored.
func (w *Writer) ValidationSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		msg = w.paint("✓", color.FgGreen) + " " + msg
	}
	w.Println("%s", msg)
}

// Hint prints a dimmed suggestion.
func (w *Writer) Hint(format string, args ...interface{}) {
	w.Println("%s", w.paint(fmt.Sprintf(format, args...), color.Faint))
}

// colorPlaceholders highlights <placeholder> patterns in text; the rest gets base attrs.
func (w *Writer) colorPlaceholders(text string, base ...color.Attribute) string {
	var result strings.Builder
	plain := 0
	i := 0
	for i < len(text) {
		if text[i] == '<' {
			end := strings.Index(text[i:], ">")
			if end != -1 {
				result.WriteString(w.paint(text[plain:i], base...))
				result.WriteString(w.paint(text[i:i+end+1], color.FgGreen))
				i += end + 1
				plain = i
				continue
			}
		}
		i++
	}
	result.WriteString(w.paint(text[plain:], base...))
	return result.String()
}
