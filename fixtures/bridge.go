package fixtures

import (
	"sync"
	"testing"
)

// Reporter receives the verdict of a case.
type Reporter interface {
	Skip(reason string)
	Fail(message string)
	Pass()
}

// Bridge hands control between a case and the test runner. A case calls Suspend when it
// starts and Resume exactly once when its outcome is known; the runner stalls until then.
type Bridge interface {
	Suspend()
	Resume(report func(Reporter))
}

// guardedBridge makes sure the wrapped bridge is resumed at most once.
type guardedBridge struct {
	bridge Bridge
	once   sync.Once
}

func guard(b Bridge) *guardedBridge {
	if g, ok := b.(*guardedBridge); ok {
		return g
	}
	return &guardedBridge{bridge: b}
}

func (g *guardedBridge) Suspend() {
	if g.bridge != nil {
		g.bridge.Suspend()
	}
}

func (g *guardedBridge) Resume(report func(Reporter)) {
	g.once.Do(func() {
		if g.bridge != nil {
			g.bridge.Resume(report)
		}
	})
}

// TestingBridge reports cases to a go test: skipped cases call t.Skip and failures t.Error.
func TestingBridge(t testing.TB) Bridge {
	return &testingBridge{t: t}
}

type testingBridge struct {
	t testing.TB
}

func (b *testingBridge) Suspend() {}

func (b *testingBridge) Resume(report func(Reporter)) {
	b.t.Helper()
	report(b)
}

func (b *testingBridge) Skip(reason string) {
	b.t.Helper()
	b.t.Skip(reason)
}

func (b *testingBridge) Fail(message string) {
	b.t.Helper()
	b.t.Error(message)
}

func (b *testingBridge) Pass() {}

// RecordingBridge records what a case reported. The runner uses it to collect results.
type RecordingBridge struct {
	mu         sync.Mutex
	Suspended  int
	Resumed    int
	Skipped    bool
	SkipReason string
	Passed     bool
	Failures   []string
}

var (
	_ Bridge   = (*RecordingBridge)(nil)
	_ Reporter = (*RecordingBridge)(nil)
)

func (r *RecordingBridge) Suspend() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Suspended++
}

func (r *RecordingBridge) Resume(report func(Reporter)) {
	r.mu.Lock()
	r.Resumed++
	r.mu.Unlock()
	report(r)
}

func (r *RecordingBridge) Skip(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = true
	r.SkipReason = reason
}

func (r *RecordingBridge) Fail(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, message)
}

func (r *RecordingBridge) Pass() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Passed = true
}
