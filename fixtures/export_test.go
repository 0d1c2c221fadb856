package fixtures

import "context"

// RunCase exposes runCase for testing.
func (r *Runner) RunCase(ctx context.Context, suite *Suite, evaluator *Evaluator, d Descriptor) FixtureResult {
	return r.runCase(ctx, suite, evaluator, d)
}

// Filter exposes filter for testing.
func (r *Runner) Filter(descriptors []Descriptor) []Descriptor {
	return r.filter(descriptors)
}
