package fixtures_test

import (
	"context"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flanksource/clicky/task"

	"github.com/flanksource/wordpaste/fixtures"
	"github.com/flanksource/wordpaste/paste"
)

func identityEditors(*fixtures.Suite, fixtures.Descriptor) (paste.Editor, error) {
	return paste.NewFuncEditor(func(_ context.Context, ev paste.Event, _ paste.Input) (string, error) {
		return ev.DataValue, nil
	}), nil
}

var _ = Describe("Runner", func() {
	fsys := fstest.MapFS{
		"_fixtures/table/2016/chrome.html": {Data: []byte("<p>a b</p>")},
		"_fixtures/table/2016/chrome.rtf":  {Data: []byte(`{\rtf1}`)},
		"_fixtures/table/expected.html":    {Data: []byte("<p>a&nbsp;b</p>")},
	}
	suite := &fixtures.Suite{
		Name:         "paste",
		Layout:       fixtures.DefaultLayout,
		WordVersions: []string{"2016"},
		Browsers:     []string{"chrome", "ie"},
		Cases:        []fixtures.SuiteCase{{Name: "table"}},
	}
	evaluator := fixtures.NewEvaluator(suite.Layout, fixtures.FileLoader{FS: fsys})

	It("runs a case against a fresh editor", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{Suites: []*fixtures.Suite{suite}, Editors: identityEditors})

		result := r.RunCase(context.Background(), suite, evaluator, fixtures.Descriptor{Name: "table", WordVersion: "2016", Browser: "chrome"})
		Expect(result.Status).To(Equal(task.StatusPASS), result.Error)
		Expect(result.Start).NotTo(BeNil())

		result = r.RunCase(context.Background(), suite, evaluator, fixtures.Descriptor{Name: "table", WordVersion: "2016", Browser: "ie"})
		Expect(result.Status).To(Equal(task.StatusSKIP))
	})

	It("errors cases when no editor can be created", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{Suites: []*fixtures.Suite{suite}})

		result := r.RunCase(context.Background(), suite, evaluator, fixtures.Descriptor{Name: "table", WordVersion: "2016", Browser: "chrome"})
		Expect(result.Status).To(Equal(task.StatusERR))
		Expect(result.Error).To(ContainSubstring("no filter command"))
	})

	It("filters cases by glob", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{Filter: "table/*/chrome"})
		selected := r.Filter([]fixtures.Descriptor{
			{Name: "table", WordVersion: "2016", Browser: "chrome"},
			{Name: "table", WordVersion: "2016", Browser: "ie"},
			{Name: "lists", WordVersion: "2016", Browser: "chrome"},
		})
		Expect(selected).To(HaveLen(1))
		Expect(selected[0].Browser).To(Equal("chrome"))
	})
})

var _ = Describe("Runner Execute", func() {
	// table passes, lists differs from its expectation and image has no inputs
	newSuite := func() *fixtures.Suite {
		return &fixtures.Suite{
			Name:         "word",
			WordVersions: []string{"2016"},
			Browsers:     []string{"chrome"},
			Cases:        []fixtures.SuiteCase{{Name: "table"}, {Name: "lists"}, {Name: "image"}},
			FS: fstest.MapFS{
				"_fixtures/table/2016/chrome.html": {Data: []byte("<table><tr><td>1</td></tr></table>")},
				"_fixtures/table/2016/chrome.rtf":  {Data: []byte(`{\rtf1}`)},
				"_fixtures/table/expected.html":    {Data: []byte("<table><tr><td>1</td></tr></table>")},
				"_fixtures/lists/2016/chrome.html": {Data: []byte("<ul><li>one</li></ul>")},
				"_fixtures/lists/2016/chrome.rtf":  {Data: []byte(`{\rtf1}`)},
				"_fixtures/lists/expected.html":    {Data: []byte("<ol><li>one</li></ol>")},
				"_fixtures/image/expected.html":    {Data: []byte("<img>")},
			},
		}
	}

	It("maps case results back to the tree and prunes skipped cases", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{Suites: []*fixtures.Suite{newSuite()}, Editors: identityEditors})

		tree, err := r.Execute()
		Expect(err).NotTo(HaveOccurred())
		Expect(tree.Children).To(HaveLen(1))

		suiteNode := tree.Children[0]
		Expect(suiteNode.Name).To(Equal("word"))
		Expect(suiteNode.Children).To(HaveLen(2), "image only has skipped cases")

		statuses := map[string]task.Status{}
		for _, result := range tree.AllResults() {
			statuses[result.Name] = result.Status
		}
		Expect(statuses).To(Equal(map[string]task.Status{
			"table/2016/chrome": task.StatusPASS,
			"lists/2016/chrome": task.StatusFAIL,
		}))
		Expect(*tree.Stats).To(Equal(fixtures.Stats{Total: 2, Passed: 1, Failed: 1}))
		Expect(*suiteNode.Stats).To(Equal(*tree.Stats))
	})

	It("keeps skipped cases when asked to", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{
			Suites:      []*fixtures.Suite{newSuite()},
			Editors:     identityEditors,
			ShowSkipped: true,
		})

		tree, err := r.Execute()
		Expect(err).NotTo(HaveOccurred())
		Expect(*tree.Stats).To(Equal(fixtures.Stats{Total: 3, Passed: 1, Failed: 1, Skipped: 1}))
	})

	It("fails the run when any case failed", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{Suites: []*fixtures.Suite{newSuite()}, Editors: identityEditors})
		Expect(r.Run()).To(MatchError(ContainSubstring("paste cases failed")))
	})

	It("passes the run when the selected cases pass", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{
			Suites:  []*fixtures.Suite{newSuite()},
			Editors: identityEditors,
			Filter:  "table/**",
		})
		Expect(r.Run()).To(Succeed())
	})

	It("errors when no case is selected", func() {
		r := fixtures.NewRunner(fixtures.RunnerOptions{
			Suites:  []*fixtures.Suite{newSuite()},
			Editors: identityEditors,
			Filter:  "nothing/**",
		})
		_, err := r.Execute()
		Expect(err).To(MatchError("no cases found"))
	})
})
