package runresult

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fork error kinds accepted in summary files.
const (
	ForkErrorBooter  = "booter"
	ForkErrorTestSet = "test-set"
	ForkErrorOther   = "other"
)

// Summary is the on-disk form of one fork's outcome.
type Summary struct {
	Fork      int              `json:"fork,omitempty" yaml:"fork,omitempty"`
	Result    RunResult        `json:"result" yaml:"result"`
	ForkError *ForkErrorRecord `json:"fork_error,omitempty" yaml:"fork_error,omitempty"`
}

// ForkErrorRecord describes the error a fork raised.
type ForkErrorRecord struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Err converts the record into a typed fork error.
func (r *ForkErrorRecord) Err(fork int) error {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case ForkErrorBooter:
		return &BooterError{Fork: fork, Message: r.Message}
	case ForkErrorTestSet:
		return &TestSetFailedError{Fork: fork, Message: r.Message}
	default:
		return errors.New(r.Message)
	}
}

// LoadSummary reads a fork summary from a .json, .yaml or .yml file.
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary file: %w", err)
	}

	var s Summary
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary file %s: %w", path, err)
	}

	if s.Fork < 0 {
		return nil, fmt.Errorf("invalid summary file %s: fork must not be negative, got %d", path, s.Fork)
	}
	if err := s.Result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summary file %s: %w", path, err)
	}
	if s.ForkError != nil {
		switch s.ForkError.Kind {
		case ForkErrorBooter, ForkErrorTestSet, ForkErrorOther:
		default:
			return nil, fmt.Errorf("invalid summary file %s: unknown fork_error kind %q (valid: %s, %s, %s)",
				path, s.ForkError.Kind, ForkErrorBooter, ForkErrorTestSet, ForkErrorOther)
		}
	}

	return &s, nil
}

// Batch is the aggregated outcome of several forks.
type Batch struct {
	Result    RunResult
	ForkError error // first fork error in load order, if any
	Forks     int
}

// LoadSummaries reads every summary and aggregates their results.
// Summaries without an explicit fork number are numbered by position, starting at 1.
func LoadSummaries(paths ...string) (*Batch, error) {
	results := make([]RunResult, 0, len(paths))
	batch := &Batch{Forks: len(paths)}

	for i, path := range paths {
		s, err := LoadSummary(path)
		if err != nil {
			return nil, err
		}
		results = append(results, s.Result)

		fork := s.Fork
		if fork == 0 {
			fork = i + 1
		}
		if batch.ForkError == nil {
			batch.ForkError = s.ForkError.Err(fork)
		}
	}

	batch.Result = Aggregate(results...)
	return batch, nil
}
