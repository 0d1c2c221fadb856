package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/wordpaste/markup"
	"github.com/flanksource/wordpaste/paste"
)

// Inputs are the fixtures of a case that is ready to be compared.
type Inputs struct {
	Markup   string
	Binary   string
	Expected string
	// ExpectedPath is the fixture Expected was loaded from
	ExpectedPath string
}

// Decide applies the case rules to the loaded fixtures, in order:
//
//   - neither input exists: Skipped
//   - exactly one input exists: MissingFixture naming the other one
//   - no expected output exists: Failed with ErrExpectedMissing
//   - otherwise Ready, using the environment expectation when it exists
//
// Inputs is only returned for Ready.
func Decide(paths ResolvedPaths, fetched Fetched) (Outcome, *Inputs) {
	outcome := Outcome{Paths: paths}
	html, rtf := fetched.InputMarkup(), fetched.InputBinary()

	expected, expectedPath := fetched.DefaultExpected(), paths.DefaultExpected
	if env := fetched.EnvironmentExpected(); env.Present() {
		expected, expectedPath = env, paths.EnvironmentExpected
	}

	switch {
	case !html.Present() && !rtf.Present():
		outcome.Kind = Skipped
		outcome.Message = "no input fixtures for this environment"
		return outcome, nil
	case !html.Present():
		return outcome.missing(paths.InputMarkup), nil
	case !rtf.Present():
		return outcome.missing(paths.InputBinary), nil
	case !expected.Present():
		outcome = outcome.fail(ErrExpectedMissing)
		outcome.Path = paths.DefaultExpected
		return outcome, nil
	}

	outcome.Kind = Ready
	outcome.Path = expectedPath
	return outcome, &Inputs{
		Markup:       html.Content,
		Binary:       rtf.Content,
		Expected:     expected.Content,
		ExpectedPath: expectedPath,
	}
}

// Evaluator runs paste cases against an editor.
type Evaluator struct {
	Layout Layout
	Loader Loader
	// Comparator defaults to markup.Beautified
	Comparator markup.Comparator
}

// NewEvaluator creates an evaluator loading fixtures with resources
func NewEvaluator(layout Layout, resources ResourceLoader) *Evaluator {
	return &Evaluator{
		Layout: layout,
		Loader: Loader{Resources: resources},
	}
}

// Inspect resolves and loads the fixtures of a case without touching an editor. The
// returned outcome is Ready when the case can be compared, a terminal outcome otherwise.
func (e *Evaluator) Inspect(ctx context.Context, d Descriptor) (Outcome, *Inputs) {
	paths := e.Layout.Resolve(d)
	logger.V(3).Infof("Loading fixtures for %s", d)

	fetched, err := e.Loader.LoadAll(ctx, paths)
	if err != nil {
		logger.Errorf("%s: %v", d, err)
		outcome := Outcome{Descriptor: d, Paths: paths}
		return outcome.errored(err), nil
	}

	outcome, inputs := Decide(paths, fetched)
	outcome.Descriptor = d
	return outcome, inputs
}

// Run evaluates a single case. The bridge is suspended when the case starts and resumed
// exactly once with the outcome, whatever path the case takes.
func (e *Evaluator) Run(ctx context.Context, d Descriptor, editor paste.Editor, bridge Bridge) (outcome Outcome) {
	start := time.Now()
	b := guard(bridge)
	b.Suspend()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic evaluating %s: %v", d, r)
			logger.Errorf("%v", err)
			outcome = Outcome{Descriptor: d, Paths: e.Layout.Resolve(d)}.errored(err)
		}
		outcome.Duration = time.Since(start)
		b.Resume(outcome.Report)
	}()

	outcome, inputs := e.Inspect(ctx, d)
	if inputs == nil {
		return outcome
	}
	return e.compare(ctx, d, outcome, inputs, editor)
}

func (e *Evaluator) compare(ctx context.Context, d Descriptor, outcome Outcome, in *Inputs, editor paste.Editor) Outcome {
	if editor == nil {
		return outcome.fail(&FilterError{Err: fmt.Errorf("no editor configured")})
	}

	listener := InstallWhitespaceCompat(editor, d.Browser)
	actual, expected, err := editor.FilterPaste(ctx, paste.Input{
		Markup:   in.Markup,
		Binary:   in.Binary,
		Expected: in.Expected,
		Raw:      d.CompareRawData,
	})
	// the interception is one-shot, drop it even if no paste event was fired
	listener.Remove()
	if err != nil {
		err = &FilterError{Err: err}
		logger.Errorf("%s: %v", d, err)
		return outcome.fail(err)
	}

	comparator := e.Comparator
	if comparator == nil {
		comparator = markup.Beautified{}
	}
	result, err := comparator.Compare(actual, expected, markup.Options{
		FixStyles:      true,
		SortAttributes: true,
		Filters:        d.Filters,
	})
	if err != nil {
		logger.Errorf("%s: failed to compare: %v", d, err)
		return outcome.fail(fmt.Errorf("failed to compare with %s: %w", in.ExpectedPath, err))
	}

	if result.Equal {
		outcome.Kind = Passed
		outcome.Message = ""
		return outcome
	}
	outcome.Kind = Failed
	outcome.Message = fmt.Sprintf("output does not match %s", in.ExpectedPath)
	outcome.Diff = result.Diff
	return outcome
}
