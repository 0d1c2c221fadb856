package markup

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result is the outcome of a structural comparison.
type Result struct {
	Equal bool
	// Actual and Expected hold the beautified markup that was compared
	Actual   string
	Expected string
	// Diff is empty when Equal is true
	Diff string
}

// Comparator checks two markup documents for structural equivalence.
type Comparator interface {
	Compare(actual, expected string, opts Options) (Result, error)
}

// Beautified is the default Comparator: both sides are normalized with Normalize and
// compared line by line.
type Beautified struct{}

var _ Comparator = Beautified{}

func (Beautified) Compare(actual, expected string, opts Options) (Result, error) {
	a, err := Normalize(actual, opts)
	if err != nil {
		return Result{}, fmt.Errorf("actual: %w", err)
	}
	e, err := Normalize(expected, opts)
	if err != nil {
		return Result{}, fmt.Errorf("expected: %w", err)
	}

	result := Result{Equal: a == e, Actual: a, Expected: e}
	if !result.Equal {
		result.Diff = Diff(e, a)
	}
	return result, nil
}

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// Diff renders a line diff between expected and actual. Removed expected lines are
// prefixed with "-", added actual lines with "+" and context lines with a space.
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for i, diff := range diffs {
		text := splitLines(diff.Text)
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range text {
				out.WriteString("-" + line + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range text {
				out.WriteString("+" + line + "\n")
			}
		case diffmatchpatch.DiffEqual:
			for _, line := range contextLines(text, i == 0, i == len(diffs)-1) {
				out.WriteString(" " + line + "\n")
			}
		}
	}
	return strings.TrimRight(out.String(), "\n")
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// contextLines keeps the lines of an unchanged block that sit next to a change.
func contextLines(lines []string, first, last bool) []string {
	if len(lines) <= 2*diffContext {
		switch {
		case first && len(lines) > diffContext:
			return lines[len(lines)-diffContext:]
		case last && len(lines) > diffContext:
			return lines[:diffContext]
		}
		return lines
	}

	var kept []string
	if !first {
		kept = append(kept, lines[:diffContext]...)
	}
	if !first && !last {
		kept = append(kept, "...")
	}
	if !last {
		kept = append(kept, lines[len(lines)-diffContext:]...)
	}
	return kept
}
