package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/forkcheck/internal/errors"
	"github.com/AndreyAkinshin/forkcheck/internal/placeholder"
	"github.com/AndreyAkinshin/forkcheck/internal/platformpath"
	"github.com/AndreyAkinshin/forkcheck/internal/report"
	"github.com/AndreyAkinshin/forkcheck/internal/schema"
)

// FileNames lists the configuration file names searched by Find, in order.
var FileNames = []string{"forkcheck.yaml", "forkcheck.yml", "forkcheck.json"}

// Find returns the path of the first configuration file present in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.NotFound("configuration file", strings.Join(FileNames, ", "))
}

// LoadAndValidate reads a config file, checks it against the schema, applies
// defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, unknownWarnings, err := LoadWithWarnings(path, data)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg)

	validationWarnings, err := Validate(cfg)

	// Combine warnings from both sources.
	allWarnings := make([]string, 0, len(unknownWarnings)+len(validationWarnings))
	allWarnings = append(allWarnings, unknownWarnings...)
	allWarnings = append(allWarnings, validationWarnings...)

	if err != nil {
		return nil, allWarnings, err
	}

	return cfg, allWarnings, nil
}

// LoadWithWarnings parses config data, validates it against the embedded
// schema, and returns any unknown field warnings.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	cfg, doc, err := decode(path, data)
	if err != nil {
		return nil, nil, err
	}

	if err := schema.ValidateDocument(doc); err != nil {
		return nil, nil, err
	}

	return cfg, detectUnknownFields(doc), nil
}

// decode parses data as JSON or YAML depending on the file extension and
// returns both the typed config and the generic document.
func decode(path string, data []byte) (*Config, any, error) {
	var cfg Config
	var doc any

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// An empty YAML file is an empty configuration.
	if doc == nil {
		doc = map[string]any{}
	}
	return &cfg, doc, nil
}

// FailIfNoTests returns the effective fail_if_no_tests setting.
func (c *Config) FailIfNoTests() bool {
	if c.Report == nil || c.Report.FailIfNoTests == nil {
		return DefaultFailIfNoTests
	}
	return *c.Report.FailIfNoTests
}

// ReportParameters returns the evaluation parameters for the given fork.
// Fork-identity placeholders in the reports directory are resolved for the
// segments that do not exist yet, and the result is escaped for the host
// platform.
func (c *Config) ReportParameters(fork int) report.Parameters {
	params := report.Parameters{
		FailIfNoTests:    c.FailIfNoTests(),
		ReportsDirectory: DefaultReportsDirectory,
	}
	if c.Report != nil {
		params.TestFailureIgnore = c.Report.TestFailureIgnore
		params.FailOnFlakeCount = c.Report.FailOnFlakeCount
		if c.Report.ReportsDirectory != "" {
			params.ReportsDirectory = c.Report.ReportsDirectory
		}
	}

	dir := placeholder.ReplaceInPath(params.ReportsDirectory, fork)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	params.ReportsDirectory = platformpath.Escape(dir)
	return params
}
