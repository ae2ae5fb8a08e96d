package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType represents the type of input code fence in a Sexy test
type InputType string

const (
	InputTypeSmallProgram InputType = "small-program"
	InputTypeSmallExpr    InputType = "small-expr"
	InputTypeSmallBool    InputType = "small-bool"
)

// AssertionType represents the type of assertion code fence in a Sexy test
type AssertionType string

const (
	AssertionTypeAST          AssertionType = "ast"
	AssertionTypeExecute      AssertionType = "execute"
	AssertionTypeCompileError AssertionType = "compile-error"
	AssertionTypeJasmin       AssertionType = "jasmin"
	AssertionTypeInput        AssertionType = "input"
)

// Assertion represents a single assertion in a Sexy test
type Assertion struct {
	Type       AssertionType
	Content    string // raw fence content, trailing newlines trimmed
	ParsedSexy *Node  // parsed pattern, for ast assertions only
}

// TestCase represents a complete Sexy test case extracted from Markdown
type TestCase struct {
	Name       string    // heading text after "Test: "
	Line       int       // line of the heading
	Input      string    // source from the input fence
	InputType  InputType // which input fence held it
	InputData  string    // stdin for execute assertions
	Assertions []Assertion
}

const testHeadingPrefix = "Test: "

// extractor accumulates test cases while walking a Markdown document.
type extractor struct {
	source  []byte
	cases   []TestCase
	current *TestCase
}

// ExtractTestCases parses a Markdown document and extracts all Sexy test
// cases. A test starts at a heading "Test: <name>" and owns the fences that
// follow it up to the next test heading.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	e := &extractor{source: []byte(markdownContent)}
	doc := goldmark.New().Parser().Parse(text.NewReader(e.source))

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var err error
		switch n := node.(type) {
		case *ast.Heading:
			err = e.heading(n)
		case *ast.FencedCodeBlock:
			err = e.fence(n)
		}
		if err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if err := e.finish(); err != nil {
		return nil, err
	}
	return e.cases, nil
}

func (e *extractor) heading(n *ast.Heading) error {
	headingText := extractTextFromNode(n, e.source)
	if !strings.HasPrefix(headingText, testHeadingPrefix) {
		return nil
	}
	if err := e.finish(); err != nil {
		return err
	}
	e.current = &TestCase{
		Name:       strings.TrimPrefix(headingText, testHeadingPrefix),
		Line:       getLineNumber(n, e.source),
		Assertions: []Assertion{},
	}
	return nil
}

func (e *extractor) fence(n *ast.FencedCodeBlock) error {
	language := string(n.Language(e.source))
	content := extractCodeBlockContent(n, e.source)
	lineNum := getLineNumber(n, e.source)
	known := isInputFence(language) || isAssertionFence(language)

	if e.current == nil {
		switch {
		case language == "":
			// Plain code blocks are documentation.
			return nil
		case known:
			return fmt.Errorf("line %d: %s fence found outside of test case", lineNum, language)
		default:
			return fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", lineNum, language)
		}
	}

	tc := e.current
	switch {
	case language == "":
		return nil

	case !known:
		return fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", lineNum, language, tc.Name)

	case isInputFence(language):
		if tc.Input != "" {
			return fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, tc.Name)
		}
		tc.Input = strings.TrimRight(content, "\n")
		tc.InputType = InputType(language)

	case AssertionType(language) == AssertionTypeInput:
		if tc.InputData != "" {
			return fmt.Errorf("line %d: multiple input fences found in test '%s'", lineNum, tc.Name)
		}
		tc.InputData = content

	default:
		assertion := Assertion{
			Type:    AssertionType(language),
			Content: strings.TrimRight(content, "\n"),
		}
		if assertion.Type == AssertionTypeAST {
			parsed, err := Parse(assertion.Content)
			if err != nil {
				return fmt.Errorf("line %d: failed to parse Sexy assertion in test '%s': %w", lineNum, tc.Name, err)
			}
			assertion.ParsedSexy = parsed
		}
		tc.Assertions = append(tc.Assertions, assertion)
	}
	return nil
}

// finish validates and saves the test case in progress, if any.
func (e *extractor) finish() error {
	if e.current == nil {
		return nil
	}
	if err := validateTestCase(e.current); err != nil {
		return err
	}
	e.cases = append(e.cases, *e.current)
	e.current = nil
	return nil
}

// extractTextFromNode extracts plain text content from a markdown node
func extractTextFromNode(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

// extractCodeBlockContent extracts the content from a fenced code block
func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}

	return buf.String()
}

func isInputFence(language string) bool {
	switch InputType(language) {
	case InputTypeSmallProgram, InputTypeSmallExpr, InputTypeSmallBool:
		return true
	default:
		return false
	}
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeAST, AssertionTypeExecute, AssertionTypeCompileError,
		AssertionTypeJasmin, AssertionTypeInput:
		return true
	default:
		return false
	}
}

// validateTestCase ensures a test case has both input and at least one assertion
func validateTestCase(testCase *TestCase) error {
	if testCase.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", testCase.Name)
	}
	if len(testCase.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", testCase.Name)
	}
	return nil
}

// getLineNumber calculates the line number of a given AST node
func getLineNumber(node ast.Node, source []byte) int {
	var startPos int
	switch {
	case node.Lines().Len() > 0:
		startPos = node.Lines().At(0).Start
	case node.Type() == ast.TypeBlock && node.FirstChild() != nil:
		if t, ok := node.FirstChild().(*ast.Text); ok {
			startPos = t.Segment.Start
		}
	}
	return bytes.Count(source[:min(startPos, len(source))], []byte("\n")) + 1
}
