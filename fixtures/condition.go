package fixtures

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// caseCondition is a compiled CEL expression selecting suite cases. Expressions see the
// variables name, wordVersion, browser and raw, e.g.
//
//	browser != "safari" && wordVersion.startsWith("20")
type caseCondition struct {
	expression string
	program    cel.Program
}

// compileCondition returns nil for an empty or constant true expression; a nil condition
// matches every case.
func compileCondition(expression string) (*caseCondition, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" || expression == "true" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("wordVersion", cel.StringType),
		cel.Variable("browser", cel.StringType),
		cel.Variable("raw", cel.BoolType),
		cel.StdLib(),
		ext.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile CEL expression %q: %w", expression, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}
	return &caseCondition{expression: expression, program: prg}, nil
}

func (c *caseCondition) Match(d Descriptor) (bool, error) {
	if c == nil {
		return true, nil
	}

	out, _, err := c.program.Eval(map[string]any{
		"name":        d.Name,
		"wordVersion": d.WordVersion,
		"browser":     d.Browser,
		"raw":         d.CompareRawData,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression %q: %w", c.expression, err)
	}

	if result, ok := out.Value().(bool); ok {
		return result, nil
	}
	return false, fmt.Errorf("CEL expression %q did not return a boolean: got %T(%v)", c.expression, out.Value(), out.Value())
}
