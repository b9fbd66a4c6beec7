// Package dumpfile names the diagnostic dump files written when a fork fails unexpectedly.
//
// All names share one timestamp captured when the process starts, so every
// dump file referenced during a single invocation agrees on its date part.
package dumpfile

import (
	"fmt"
	"time"
)

// File extensions for dump files.
const (
	Ext       = ".dump"
	StreamExt = ".dumpstream"
)

var date = FormatDate(time.Now())

// Printf-style formatters taking the fork number.
var (
	ForkFormatter       = date + "-jvmRun%d" + Ext
	ForkStreamFormatter = date + "-jvmRun%d" + StreamExt
	EventsFormatter     = date + "-jvmRun%d-events.bin"
)

var templates = [...]string{
	"[date]" + Ext,
	"[date]-jvmRun[N]" + Ext,
	"[date]" + StreamExt,
	"[date]-jvmRun[N]" + StreamExt,
}

// FormatDate formats t the way dump file names carry it: 2006-01-02T15-04-05_000.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format("2006-01-02T15-04-05"), t.Nanosecond()/int(time.Millisecond))
}

// Date returns the timestamp captured at process start.
func Date() string {
	return date
}

// RunFile returns the per-run dump file name.
func RunFile() string {
	return date + Ext
}

// ForkFile returns the dump file name for fork n.
func ForkFile(n int) string {
	return fmt.Sprintf(ForkFormatter, n)
}

// RunStreamFile returns the per-run stream dump file name.
func RunStreamFile() string {
	return date + StreamExt
}

// ForkStreamFile returns the stream dump file name for fork n.
func ForkStreamFile(n int) string {
	return fmt.Sprintf(ForkStreamFormatter, n)
}

// EventsFile returns the binary event dump file name for fork n.
func EventsFile(n int) string {
	return fmt.Sprintf(EventsFormatter, n)
}

// Templates returns the human-readable dump file templates:
// run dump, fork dump, run stream dump, fork stream dump.
func Templates() []string {
	out := make([]string, len(templates))
	copy(out, templates[:])
	return out
}
