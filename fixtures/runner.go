package fixtures

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/flanksource/clicky"
	"github.com/flanksource/clicky/task"
	flanksourceContext "github.com/flanksource/commons/context"
	"github.com/flanksource/commons/logger"
	"github.com/flanksource/gomplate/v3"
	"github.com/samber/lo"

	"github.com/flanksource/wordpaste/markup"
	"github.com/flanksource/wordpaste/paste"
)

// EditorFactory creates the editor a case runs against. Editors hold the listeners of a
// single case, so every case gets its own.
type EditorFactory func(suite *Suite, d Descriptor) (paste.Editor, error)

// ExecEditors runs every case against the suite's external filter command.
func ExecEditors(suite *Suite, _ Descriptor) (paste.Editor, error) {
	if suite.Command == "" {
		return nil, fmt.Errorf("suite %s has no filter command, set exec in the suite or pass --exec", suite.Name)
	}
	return paste.NewExecEditor(suite.ExecOptions), nil
}

// RunnerOptions configures the case runner
type RunnerOptions struct {
	Suites []*Suite
	// Filter selects cases by "name/wordVersion/browser" (glob)
	Filter string
	// Registry resolves filter names, defaults to markup.DefaultRegistry
	Registry *markup.Registry
	// Editors defaults to ExecEditors
	Editors EditorFactory
	// Timeout per case
	Timeout time.Duration
	// ShowSkipped keeps skipped cases in the result tree
	ShowSkipped bool
}

// Runner runs suites of paste cases as typed tasks
type Runner struct {
	options RunnerOptions
	tree    *FixtureNode
}

// NewRunner creates a new case runner
func NewRunner(opts RunnerOptions) *Runner {
	if opts.Editors == nil {
		opts.Editors = ExecEditors
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	return &Runner{
		options: opts,
		tree:    &FixtureNode{Name: "Suites", Type: SuiteNode},
	}
}

// Run executes all suites, prints the result tree and fails when any case failed
func (r *Runner) Run() error {
	tree, err := r.Execute()
	if err != nil {
		return err
	}

	clicky.WaitForGlobalCompletion()

	for _, child := range tree.Children {
		fmt.Println(clicky.MustFormat(*child))
	}

	stats := tree.GetStats()
	logger.Infof("%s", stats.String())
	if stats.HasFailures() {
		return fmt.Errorf("paste cases failed: %s", stats.String())
	}
	return nil
}

// Execute runs all cases and returns the result tree
func (r *Runner) Execute() (*FixtureNode, error) {
	type job struct {
		suite     *Suite
		evaluator *Evaluator
		node      *FixtureNode
	}

	var jobs []job
	for _, suite := range r.options.Suites {
		descriptors, err := suite.Descriptors(r.options.Registry)
		if err != nil {
			return nil, err
		}
		descriptors = r.filter(descriptors)
		if len(descriptors) == 0 {
			logger.Warnf("No cases selected from suite %s", suite.Name)
			continue
		}

		node := NewSuiteNode(suite.Name, descriptors)
		r.tree.AddChild(node)
		evaluator := suite.Evaluator()
		node.Walk(func(c *FixtureNode) {
			jobs = append(jobs, job{suite: suite, evaluator: evaluator, node: c})
		})
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no cases found")
	}
	logger.Infof("Running %d cases from %d suites", len(jobs), len(r.tree.Children))

	builds := map[*Suite]*clicky.Task{}
	for _, suite := range r.options.Suites {
		if suite.Build == "" {
			continue
		}
		build := clicky.StartTask[bool](
			fmt.Sprintf("Build: %s", suite.Build),
			func(ctx flanksourceContext.Context, t *task.Task) (bool, error) {
				err := executeBuildCommand(ctx, suite)
				return err == nil, err
			},
			clicky.WithTaskTimeout(5*time.Minute),
		)
		builds[suite] = build.Task
	}

	group := task.StartGroup[FixtureResult]("Paste Cases")
	taskToNode := make(map[task.TypedTask[FixtureResult]]*FixtureNode)
	for _, j := range jobs {
		typedTask := group.Add(j.node.Name, func(ctx flanksourceContext.Context, t *task.Task) (FixtureResult, error) {
			return r.runCase(ctx, j.suite, j.evaluator, *j.node.Case), nil
		}, clicky.WithDependencies(builds[j.suite]), clicky.WithTaskTimeout(r.options.Timeout))
		taskToNode[typedTask] = j.node
	}

	groupResult := group.WaitFor()
	if groupResult.Error != nil {
		logger.Warnf("Some paste cases failed: %v", groupResult.Error)
	}

	results, err := group.GetResults()
	if err != nil {
		return nil, fmt.Errorf("failed to get case results: %w", err)
	}
	for typedTask, result := range results {
		if node, ok := taskToNode[typedTask]; ok {
			node.Results = &result
		} else {
			logger.Warnf("No tree node found for task: %s", typedTask.Name())
		}
	}

	if !r.options.ShowSkipped {
		r.tree.PruneSkipped()
	}
	r.tree.UpdateStats()
	return r.tree, nil
}

func (r *Runner) filter(descriptors []Descriptor) []Descriptor {
	if r.options.Filter == "" {
		return descriptors
	}
	return lo.Filter(descriptors, func(d Descriptor, _ int) bool {
		match, err := doublestar.Match(r.options.Filter, d.String())
		if err != nil {
			logger.Warnf("Invalid filter pattern '%s': %v", r.options.Filter, err)
		}
		return match
	})
}

// runCase evaluates a single case against a fresh editor
func (r *Runner) runCase(ctx context.Context, suite *Suite, evaluator *Evaluator, d Descriptor) FixtureResult {
	start := time.Now()
	bridge := &RecordingBridge{}

	editor, err := r.options.Editors(suite, d)
	var outcome Outcome
	if err != nil {
		outcome = Outcome{Descriptor: d, Paths: evaluator.Layout.Resolve(d)}.errored(err)
		outcome.Report(bridge)
	} else {
		outcome = evaluator.Run(ctx, d, editor, bridge)
	}

	if bridge.Resumed != 1 {
		logger.Warnf("%s: resumed %d times", d, bridge.Resumed)
	}

	result := NewFixtureResult(outcome)
	result.Start = &start
	return result
}

// executeBuildCommand runs the suite's build command with gomplate templating
func executeBuildCommand(ctx flanksourceContext.Context, suite *Suite) error {
	data := map[string]any{
		"suiteDir": suite.Dir,
		"workDir":  suite.Dir,
		"name":     suite.Name,
	}
	buildCmd, err := gomplate.RunTemplate(data, gomplate.Template{Template: suite.Build})
	if err != nil {
		ctx.Errorf("Failed to template build command: %v", err)
		return fmt.Errorf("failed to template build command: %w", err)
	}

	ctx.Logger.V(4).Infof("🔨 Build command: %s", buildCmd)

	cmd := exec.CommandContext(ctx, "sh", "-c", buildCmd)
	cmd.Dir = suite.Dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		ctx.Errorf("Build failed: %v\nOutput: %s", err, out.String())
		return fmt.Errorf("build command failed: %v\nOutput: %s", err, out.String())
	}
	if out.Len() > 0 {
		ctx.Logger.V(5).Infof("Build output: %s", out.String())
	}
	return nil
}
