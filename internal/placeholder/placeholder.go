// Package placeholder resolves fork-identity placeholders in configuration strings and paths.
package placeholder

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const (
	// ThreadNumber is replaced by the running number of the executing fork.
	// Deprecated: use ForkNumber. Both tokens resolve to the same number.
	ThreadNumber = "${forkcheck.threadNumber}"

	// ForkNumber is replaced by the running number of the executing fork.
	// Fork numbers start with 1.
	ForkNumber = "${forkcheck.forkNumber}"
)

var tokenPattern = regexp.MustCompile(`\$\{forkcheck\.(threadNumber|forkNumber)\}`)

// Replace substitutes every fork-identity placeholder in s with n.
func Replace(s string, n int) string {
	value := strconv.Itoa(n)
	return strings.NewReplacer(ThreadNumber, value, ForkNumber, value).Replace(s)
}

// ReplaceInPath substitutes placeholders in the segments of path that do not
// exist yet. Walking upward from the leaf, each missing segment is rewritten
// until the first existing ancestor is reached; existing segments are kept
// verbatim. A path that already exists is returned unchanged.
func ReplaceInPath(path string, n int) string {
	var segments []string
	root := filepath.Clean(path)
	for !exists(root) {
		parent := filepath.Dir(root)
		if parent == root {
			break
		}
		segments = append(segments, Replace(filepath.Base(root), n))
		root = parent
	}

	if len(segments) == 0 {
		return path
	}

	result := root
	for i := len(segments) - 1; i >= 0; i-- {
		result = filepath.Join(result, segments[i])
	}
	return result
}

// Contains reports whether s holds any fork-identity placeholder.
func Contains(s string) bool {
	return tokenPattern.MatchString(s)
}

// List returns the distinct placeholders used in s, in order of first appearance.
func List(s string) []string {
	matches := tokenPattern.FindAllString(s, -1)

	var tokens []string
	seen := make(map[string]bool)
	for _, match := range matches {
		if !seen[match] {
			tokens = append(tokens, match)
			seen[match] = true
		}
	}

	return tokens
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
