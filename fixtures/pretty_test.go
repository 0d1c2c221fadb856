package fixtures_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flanksource/clicky"
	"github.com/flanksource/clicky/task"

	"github.com/flanksource/wordpaste/fixtures"
)

var _ = Describe("Fixture Result Pretty", func() {
	DescribeTable("should format case results",
		func(result fixtures.FixtureResult, expectedContains []string) {
			output, err := clicky.Format(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(output).NotTo(BeEmpty())

			plain := result.Pretty().String()
			for _, s := range expectedContains {
				Expect(plain).To(ContainSubstring(s))
			}
		},
		Entry("passing case",
			fixtures.FixtureResult{
				Name:     "table/2016/chrome",
				Status:   task.StatusPASS,
				Duration: 1200 * time.Millisecond,
			},
			[]string{"table/2016/chrome", "1.2s"}),

		Entry("mismatch with diff",
			fixtures.FixtureResult{
				Name:   "table/2016/chrome",
				Status: task.StatusFAIL,
				Path:   "_fixtures/table/expected.html",
				Error:  "output does not match _fixtures/table/expected.html",
				Diff:   "-  a\n+  b",
			},
			[]string{"_fixtures/table/expected.html", "-  a", "+  b"}),

		Entry("skipped case",
			fixtures.FixtureResult{
				Name:   "table/2016/safari",
				Status: task.StatusSKIP,
				Skip:   "no input fixtures for this environment",
			},
			[]string{"table/2016/safari", "no input fixtures"}),
	)

	It("converts outcomes", func() {
		d := fixtures.Descriptor{Name: "lists", WordVersion: "2013", Browser: "firefox"}
		missing := fixtures.Outcome{
			Descriptor: d,
			Kind:       fixtures.MissingFixture,
			Path:       "_fixtures/lists/2013/firefox.rtf",
			Message:    `"_fixtures/lists/2013/firefox.rtf" file is missing`,
		}

		result := fixtures.NewFixtureResult(missing)
		Expect(result.Name).To(Equal("lists/2013/firefox"))
		Expect(result.Status).To(Equal(task.StatusFAIL))
		Expect(result.Kind).To(Equal("missing fixture"))
		Expect(result.Path).To(Equal("_fixtures/lists/2013/firefox.rtf"))
		Expect(result.Error).To(ContainSubstring("file is missing"))

		skipped := fixtures.NewFixtureResult(fixtures.Outcome{Descriptor: d, Kind: fixtures.Skipped, Message: "nothing here"})
		Expect(skipped.Status).To(Equal(task.StatusSKIP))
		Expect(skipped.Skip).To(Equal("nothing here"))
		Expect(skipped.Error).To(BeEmpty())

		errored := fixtures.NewFixtureResult(fixtures.Outcome{Descriptor: d, Kind: fixtures.Errored, Err: errors.New("reset"), Message: "reset"})
		Expect(errored.Status).To(Equal(task.StatusERR))
		Expect(errored.Error).To(Equal("reset"))
	})
})

var _ = Describe("Fixture Node", func() {
	descriptors := []fixtures.Descriptor{
		{Name: "table", WordVersion: "2013", Browser: "chrome"},
		{Name: "table", WordVersion: "2016", Browser: "chrome"},
		{Name: "lists", WordVersion: "2016", Browser: "safari"},
	}

	It("groups cases by name", func() {
		root := fixtures.NewSuiteNode("paste", descriptors)
		Expect(root.Type).To(Equal(fixtures.SuiteNode))
		Expect(root.Children).To(HaveLen(2))
		Expect(root.Children[0].Name).To(Equal("table"))
		Expect(root.Children[0].Children).To(HaveLen(2))
		Expect(root.Children[0].Children[1].Case.WordVersion).To(Equal("2016"))
		Expect(root.Children[1].Children[0].Parent).To(Equal(root.Children[1]))
	})

	It("aggregates stats and prunes skipped cases", func() {
		root := fixtures.NewSuiteNode("paste", descriptors)
		statuses := []task.Status{task.StatusPASS, task.StatusFAIL, task.StatusSKIP}
		i := 0
		root.Walk(func(n *fixtures.FixtureNode) {
			n.Results = &fixtures.FixtureResult{Name: n.Name, Status: statuses[i]}
			i++
		})

		root.UpdateStats()
		Expect(*root.Stats).To(Equal(fixtures.Stats{Total: 3, Passed: 1, Failed: 1, Skipped: 1}))
		Expect(root.Stats.Health()).To(Equal(task.HealthError))
		Expect(root.Children[0].Stats.String()).To(Equal("1/2"))

		root.PruneSkipped()
		Expect(root.Children).To(HaveLen(1))
		Expect(root.AllResults()).To(HaveLen(2))

		output, err := clicky.Format(*root)
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(ContainSubstring("table"))
	})
})

var _ = Describe("Stats Has Failures", func() {
	DescribeTable("should detect failures correctly",
		func(results fixtures.Stats, expected bool) {
			Expect(results.HasFailures()).To(Equal(expected))
			Expect(results.IsOK()).To(Equal(!expected))
		},
		Entry("no failures", fixtures.Stats{Total: 3, Passed: 3}, false),
		Entry("has failures", fixtures.Stats{Total: 3, Passed: 2, Failed: 1}, true),
		Entry("has errors", fixtures.Stats{Total: 1, Error: 1}, true),
	)
})
