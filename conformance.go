package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConformanceSuite is one YAML conformance file.
type ConformanceSuite struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Tests       []ConformanceCase `yaml:"tests"`
}

// ConformanceCase is a single program with its expected behavior.
type ConformanceCase struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Source      string `yaml:"source"`
	Input       string `yaml:"input,omitempty"`
	Output      string `yaml:"output,omitempty"`
	Error       string `yaml:"error,omitempty"` // substring of the compile or runtime error
	Steps       int64  `yaml:"steps,omitempty"`
	Skip        any    `yaml:"skip,omitempty"` // bool or reason
}

// IsSkipped reports whether the case is disabled, and why.
func (c *ConformanceCase) IsSkipped() (bool, string) {
	switch v := c.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
	case string:
		return true, v
	}
	return false, ""
}

// LoadedCase is a case together with the suite and file it came from.
type LoadedCase struct {
	File  string
	Suite *ConformanceSuite
	Case  ConformanceCase
}

// LoadSuite reads and validates one suite file. Unknown keys are rejected
// so that a misspelled expectation cannot silently pass.
func LoadSuite(path string) (*ConformanceSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var suite ConformanceSuite
	if err := dec.Decode(&suite); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if suite.Name == "" {
		return nil, fmt.Errorf("%s: suite has no name", path)
	}
	seen := make(map[string]bool)
	for i, c := range suite.Tests {
		if c.Name == "" {
			return nil, fmt.Errorf("%s: test %d has no name", path, i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%s: duplicate test name %q", path, c.Name)
		}
		seen[c.Name] = true
		if c.Steps < 0 {
			return nil, fmt.Errorf("%s: test %q has negative steps", path, c.Name)
		}
	}
	return &suite, nil
}

// LoadSuites loads every suite file matching the glob patterns, in file
// name order. A pattern that matches nothing is an error.
func LoadSuites(patterns ...string) ([]LoadedCase, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no conformance suites match %s", pattern)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	var loaded []LoadedCase
	for _, file := range files {
		suite, err := LoadSuite(file)
		if err != nil {
			return nil, err
		}
		for _, c := range suite.Tests {
			loaded = append(loaded, LoadedCase{File: file, Suite: suite, Case: c})
		}
	}
	return loaded, nil
}

// CaseResult is the outcome of running one conformance case.
type CaseResult struct {
	Test       LoadedCase
	Passed     bool
	Skipped    bool
	SkipReason string
	Output     string
	Err        error // why the case failed
}

// RunCase compiles and executes one case and checks its expectations.
// Cases without a step limit run under DefaultStepLimit.
func RunCase(ctx context.Context, lc LoadedCase) CaseResult {
	result := CaseResult{Test: lc}
	c := lc.Case
	if skip, reason := c.IsSkipped(); skip {
		result.Skipped = true
		result.SkipReason = reason
		return result
	}

	comp, err := Compile([]byte(c.Source), CompileOptions{})
	if err != nil {
		result.Err = expectError(c.Error, "compile", err)
		result.Passed = result.Err == nil
		return result
	}

	steps := c.Steps
	if steps == 0 {
		steps = DefaultStepLimit
	}
	var out bytes.Buffer
	_, runErr := Execute(ctx, comp, strings.NewReader(c.Input), &out, steps)
	result.Output = out.String()

	result.Err = expectError(c.Error, "runtime", runErr)
	if result.Err == nil && result.Output != c.Output {
		result.Err = fmt.Errorf("output mismatch\nexpected: %q\ngot:      %q", c.Output, result.Output)
	}
	result.Passed = result.Err == nil
	return result
}

// expectError checks err against an expected error substring.
func expectError(want, stage string, err error) error {
	switch {
	case err == nil && want == "":
		return nil
	case err == nil:
		return fmt.Errorf("expected %s error containing %q, got none", stage, want)
	case want == "":
		return fmt.Errorf("unexpected %s error: %w", stage, err)
	case !strings.Contains(err.Error(), want):
		return fmt.Errorf("expected %s error containing %q, got: %v", stage, want, err)
	}
	return nil
}

// ConformanceStats summarizes a run.
type ConformanceStats struct {
	Total, Passed, Failed, Skipped int
}

// ComputeStats counts results by outcome.
func ComputeStats(results []CaseResult) ConformanceStats {
	stats := ConformanceStats{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Skipped:
			stats.Skipped++
		case r.Passed:
			stats.Passed++
		default:
			stats.Failed++
		}
	}
	return stats
}

func (s ConformanceStats) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)", s.Passed, s.Failed, s.Skipped, s.Total)
}
