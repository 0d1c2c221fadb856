package paste

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/gomplate/v3"
	"github.com/samber/lo"
)

// ExecOptions configures an external paste filter process. The process receives a JSON
// request on stdin:
//
//	{"html": "...", "rtf": "...", "expected": "...", "raw": false}
//
// and must answer on stdout with
//
//	{"actual": "...", "expected": "..."}
//
// where "expected" is optional and defaults to the request's expected value.
type ExecOptions struct {
	Command string `yaml:"exec,omitempty" json:"exec,omitempty"`
	// Args are gomplate templates, rendered with .raw and .workDir
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`
	// Dir is the working directory of the process
	Dir     string            `yaml:"cwd,omitempty" json:"cwd,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Timeout time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ExecEditor is an Editor backed by an external filter command, e.g. a node script that
// drives the real editor. Listeners run in-process on the captured event before the
// command is started.
type ExecEditor struct {
	Pipeline
	Options ExecOptions
}

var _ Editor = (*ExecEditor)(nil)

type execRequest struct {
	HTML     string `json:"html"`
	RTF      string `json:"rtf"`
	Expected string `json:"expected"`
	Raw      bool   `json:"raw"`
}

type execResponse struct {
	Actual   string  `json:"actual"`
	Expected *string `json:"expected,omitempty"`
}

// NewExecEditor creates an editor that shells out to opts.Command
func NewExecEditor(opts ExecOptions) *ExecEditor {
	return &ExecEditor{Options: opts}
}

func (e *ExecEditor) OncePaste(priority int, fn func(*Event)) Listener {
	return e.Once(priority, fn)
}

func (e *ExecEditor) FilterPaste(ctx context.Context, in Input) (string, string, error) {
	ev := Capture(in)
	e.Fire(&ev)

	if e.Options.Command == "" {
		return "", "", fmt.Errorf("no filter command specified")
	}

	if e.Options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Options.Timeout)
		defer cancel()
	}

	args, err := e.templateArgs(in)
	if err != nil {
		return "", "", err
	}

	request, err := json.Marshal(execRequest{
		HTML:     ev.DataValue,
		RTF:      in.Binary,
		Expected: in.Expected,
		Raw:      in.Raw,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to encode filter request: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.Options.Command, args...)
	cmd.Dir = e.Options.Dir
	cmd.Env = append(os.Environ(), lo.MapToSlice(e.Options.Env, func(k, v string) string {
		return k + "=" + v
	})...)
	cmd.Stdin = bytes.NewReader(request)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.V(4).Infof("Paste filter: %s %s", e.Options.Command, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return "", "", fmt.Errorf("filter command failed: %w\nOutput: %s", err, stderr.String())
	}

	var response execResponse
	if err := json.Unmarshal(stdout.Bytes(), &response); err != nil {
		return "", "", fmt.Errorf("failed to decode filter response: %w\nOutput: %s", err, stdout.String())
	}

	expected := in.Expected
	if response.Expected != nil {
		expected = *response.Expected
	}
	return response.Actual, expected, nil
}

func (e *ExecEditor) templateArgs(in Input) ([]string, error) {
	data := map[string]any{
		"raw":     in.Raw,
		"workDir": e.Options.Dir,
	}

	args := make([]string, len(e.Options.Args))
	for i, arg := range e.Options.Args {
		out, err := gomplate.RunTemplate(data, gomplate.Template{
			Template: arg,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to template argument %q: %w", arg, err)
		}
		args[i] = out
	}
	return args, nil
}
