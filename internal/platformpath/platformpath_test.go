package platformpath

import (
	"strings"
	"testing"
)

func longPath(prefix string, length int) string {
	return prefix + strings.Repeat("a", length-len(prefix))
}

func TestEscapeFor(t *testing.T) {
	unc300 := longPath(`\\server\share\`, 300)
	local300 := longPath(`C:\work\`, 300)
	unc100 := longPath(`\\server\share\`, 100)
	local100 := longPath(`C:\work\`, 100)

	tests := []struct {
		name     string
		goos     string
		path     string
		expected string
	}{
		{"windows long UNC", "windows", unc300, `\\?\UNC\` + unc300[2:]},
		{"windows long local", "windows", local300, `\\?\` + local300},
		{"windows short UNC", "windows", unc100, unc100},
		{"windows short local", "windows", local100, local100},
		{"linux long UNC", "linux", unc300, unc300},
		{"linux long local", "linux", local300, local300},
		{"darwin long local", "darwin", local300, local300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeFor(tt.goos, tt.path); got != tt.expected {
				t.Errorf("EscapeFor(%q, <%d chars>) = %q, want %q", tt.goos, len(tt.path), got, tt.expected)
			}
		})
	}
}

func TestEscapeFor_Threshold(t *testing.T) {
	atLimit := longPath(`C:\`, MaxPathLengthWindows)
	if got := EscapeFor("windows", atLimit); got != atLimit {
		t.Errorf("path of exactly %d chars should be unchanged", MaxPathLengthWindows)
	}

	overLimit := longPath(`C:\`, MaxPathLengthWindows+1)
	if got := EscapeFor("windows", overLimit); !strings.HasPrefix(got, `\\?\C:\`) {
		t.Errorf("path of %d chars should be escaped, got prefix %q", MaxPathLengthWindows+1, got[:8])
	}
}
