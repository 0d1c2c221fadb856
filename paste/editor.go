package paste

import (
	"context"
	"fmt"
)

// Input is what a paste case feeds into the editor's filtering entry point.
type Input struct {
	// Markup is the captured HTML flavour of the clipboard
	Markup string
	// Binary is the captured rich-binary (RTF) flavour
	Binary string
	// Expected is handed through so editors that post-process the expectation can do so
	Expected string
	// Raw requests the captured paste data instead of the editor-visible output
	Raw bool
}

// Editor is the system under test: a paste pipeline that accepts one-shot interceptions and
// a filtering entry point.
type Editor interface {
	// OncePaste registers a listener that sees the next captured paste event before it is
	// filtered, provided its priority is lower than PriorityDefault.
	OncePaste(priority int, fn func(*Event)) Listener
	// FilterPaste pastes the input and returns the actual and the expected output.
	FilterPaste(ctx context.Context, in Input) (actual string, expected string, err error)
}

// FilterFunc turns a captured paste event into the filtered paste data.
type FilterFunc func(ctx context.Context, ev Event, in Input) (string, error)

// RenderFunc turns filtered paste data into the editor-visible output.
type RenderFunc func(ctx context.Context, data string) (string, error)

// FuncEditor is an in-process Editor: captured events go through the pipeline, then
// Filter, then Render unless raw data was requested.
type FuncEditor struct {
	Pipeline
	Filter FilterFunc
	// Render is optional, the filtered data is the editor output when it is nil
	Render RenderFunc
}

var _ Editor = (*FuncEditor)(nil)

// NewFuncEditor creates an editor around a filter function
func NewFuncEditor(filter FilterFunc) *FuncEditor {
	return &FuncEditor{Filter: filter}
}

func (e *FuncEditor) OncePaste(priority int, fn func(*Event)) Listener {
	return e.Once(priority, fn)
}

func (e *FuncEditor) FilterPaste(ctx context.Context, in Input) (string, string, error) {
	ev := Capture(in)
	e.Fire(&ev)

	data := ev.DataValue
	if e.Filter != nil {
		var err error
		if data, err = e.Filter(ctx, ev, in); err != nil {
			return "", "", fmt.Errorf("paste filter failed: %w", err)
		}
	}
	if in.Raw || e.Render == nil {
		return data, in.Expected, nil
	}

	out, err := e.Render(ctx, data)
	if err != nil {
		return "", "", fmt.Errorf("render failed: %w", err)
	}
	return out, in.Expected, nil
}

// Capture builds the paste event the clipboard would produce for the input.
func Capture(in Input) Event {
	return Event{Type: "html", DataValue: in.Markup}
}
