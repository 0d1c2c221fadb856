package fixtures

import (
	"fmt"
	"time"

	"github.com/flanksource/clicky/task"
)

// Kind is the state a case ended in.
type Kind int

const (
	// Ready means the inputs are present and the case can be compared; it is never terminal
	Ready Kind = iota
	// Skipped means neither input fixture exists for the environment
	Skipped
	// MissingFixture means exactly one input fixture exists
	MissingFixture
	Passed
	// Failed covers mismatches, missing expected output and filter failures
	Failed
	// Errored means a fixture could not be loaded
	Errored
)

func (k Kind) String() string {
	switch k {
	case Ready:
		return "ready"
	case Skipped:
		return "skipped"
	case MissingFixture:
		return "missing fixture"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single case.
type Outcome struct {
	Descriptor Descriptor    `json:"descriptor"`
	Paths      ResolvedPaths `json:"paths"`
	Kind       Kind          `json:"kind"`
	// Path is the missing input for MissingFixture, otherwise the expected fixture used
	Path     string        `json:"path,omitempty"`
	Message  string        `json:"message,omitempty"`
	Diff     string        `json:"diff,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Status maps the outcome onto a task status.
func (o Outcome) Status() task.Status {
	switch o.Kind {
	case Passed:
		return task.StatusPASS
	case Skipped:
		return task.StatusSKIP
	case MissingFixture, Failed:
		return task.StatusFAIL
	case Errored:
		return task.StatusERR
	default:
		return task.StatusPending
	}
}

// Detail is the human readable failure text, including the diff for mismatches.
func (o Outcome) Detail() string {
	if o.Diff == "" {
		return o.Message
	}
	return o.Message + "\n" + o.Diff
}

// Report forwards the outcome to a runner. Skipped cases stay silent apart from the skip.
func (o Outcome) Report(r Reporter) {
	switch o.Kind {
	case Passed:
		r.Pass()
	case Skipped:
		r.Skip(o.Message)
	default:
		r.Fail(fmt.Sprintf("%s: %s", o.Descriptor, o.Detail()))
	}
}

func (o Outcome) missing(path string) Outcome {
	o.Kind = MissingFixture
	o.Path = path
	o.Message = fmt.Sprintf("%q file is missing", path)
	return o
}

func (o Outcome) fail(err error) Outcome {
	o.Kind = Failed
	o.Err = err
	o.Message = err.Error()
	return o
}

func (o Outcome) errored(err error) Outcome {
	o.Kind = Errored
	o.Err = err
	o.Message = err.Error()
	return o
}
