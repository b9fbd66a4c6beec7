// Package main tests for the forkcheck CLI entry point.
package main

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

// TestMain_BuildVerification verifies the binary builds successfully.
func TestMain_BuildVerification(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "build", "-o", "/dev/null", ".")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build main package: %v", err)
	}
}

// TestMain_HelpFlag verifies the --help flag works correctly.
func TestMain_HelpFlag(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "run", ".", "--help")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("--help failed: %v\noutput: %s", err, out)
	}

	if !strings.Contains(string(out), "evaluate") {
		t.Errorf("--help output missing evaluate command:\n%s", out)
	}
}

// TestMain_UnknownCommand verifies that unknown commands fail.
func TestMain_UnknownCommand(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "run", ".", "frobnicate")
	err := cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
}
