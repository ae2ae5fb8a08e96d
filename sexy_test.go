package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/small/sexy"
)

func TestSexyAllTests(t *testing.T) {
	// Find all test files in the test/ directory
	testFiles, err := filepath.Glob("test/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		testName := strings.TrimSuffix(filepath.Base(testFile), ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := sexy.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					runSexyTestCase(t, tc)
				})
			}
		})
	}
}

func runSexyTestCase(t *testing.T, tc sexy.TestCase) {
	node, parseErr := parseSexyInput(tc)

	for _, assertion := range tc.Assertions {
		if assertion.Type == sexy.AssertionTypeCompileError {
			if parseErr == nil {
				t.Fatalf("line %d: expected an error containing %q", tc.Line, assertion.Content)
			}
			if !strings.Contains(parseErr.Error(), assertion.Content) {
				t.Errorf("line %d: error %q does not contain %q", tc.Line, parseErr, assertion.Content)
			}
			continue
		}

		if parseErr != nil {
			t.Fatalf("line %d: unexpected error: %v", tc.Line, parseErr)
		}

		switch assertion.Type {
		case sexy.AssertionTypeAST:
			actual, err := sexy.Parse(ToSExpr(node))
			be.Err(t, err, nil)
			if err := sexy.Match(assertion.ParsedSexy, actual); err != nil {
				t.Errorf("line %d: %v\nactual: %s", tc.Line, err, actual)
			}

		case sexy.AssertionTypeExecute:
			prog := requireProgram(t, tc, node)
			comp := CompileProgram(prog, CompileOptions{})
			var out bytes.Buffer
			_, err := Execute(context.Background(), comp, strings.NewReader(tc.InputData), &out, DefaultStepLimit)
			if err != nil {
				t.Logf("Generated module:\n%s", comp.Module)
			}
			be.Err(t, err, nil)
			be.Equal(t, strings.TrimRight(out.String(), "\n"), assertion.Content)

		case sexy.AssertionTypeJasmin:
			prog := requireProgram(t, tc, node)
			module := CompileProgram(prog, CompileOptions{}).Module
			if !strings.Contains(module, assertion.Content+"\n") {
				t.Errorf("line %d: module does not contain:\n%s\nmodule:\n%s", tc.Line, assertion.Content, module)
			}

		default:
			t.Fatalf("unsupported assertion type %s", assertion.Type)
		}
	}
}

// parseSexyInput parses the test input as a whole program, a lone
// expression, or a lone boolean expression.
func parseSexyInput(tc sexy.TestCase) (Node, error) {
	if tc.InputType == sexy.InputTypeSmallProgram {
		return Parse([]byte(tc.Input))
	}

	l, err := NewLexer([]byte(tc.Input))
	if err != nil {
		return nil, err
	}
	p := NewParser(l)
	var node Node
	if tc.InputType == sexy.InputTypeSmallBool {
		node, err = p.ParseBoolExpression()
	} else {
		node, err = p.ParseExpression()
	}
	if err != nil {
		return nil, err
	}
	return node, p.ExpectEnd()
}

func requireProgram(t *testing.T, tc sexy.TestCase, node Node) *Program {
	t.Helper()
	prog, ok := node.(*Program)
	if !ok {
		t.Fatalf("line %d: %s input cannot be compiled; use small-program", tc.Line, tc.InputType)
	}
	return prog
}
