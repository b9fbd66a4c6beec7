// Package platformpath adapts file paths to platform-specific length limits.
package platformpath

import (
	"runtime"
	"strings"
)

// MaxPathLengthWindows is the longest path that needs no long-path prefix on Windows.
// MAX_PATH is 260 minus 1 for NUL, and directories reserve another 12 characters
// so that an 8.3 file name can still be created inside them.
const MaxPathLengthWindows = 247

const (
	longPathPrefix = `\\?\`
	uncPathPrefix  = `\\?\UNC\`
	uncRoot        = `\\`
)

// Escape returns path with a long-path prefix when the running platform needs one.
func Escape(path string) string {
	return EscapeFor(runtime.GOOS, path)
}

// EscapeFor returns path escaped for the given GOOS. On windows, paths longer than
// MaxPathLengthWindows are prefixed so the OS interprets them literally: UNC paths
// (\\server\share) become \\?\UNC\server\share, anything else gets \\?\ prepended.
// Other platforms, and short paths, are returned unchanged.
func EscapeFor(goos, path string) string {
	if goos != "windows" || len(path) <= MaxPathLengthWindows {
		return path
	}
	if strings.HasPrefix(path, uncRoot) {
		return uncPathPrefix + path[len(uncRoot):]
	}
	return longPathPrefix + path
}
