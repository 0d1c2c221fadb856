package fixtures_test

import (
	"context"
	"os"
	"path/filepath"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flanksource/wordpaste/fixtures"
	"github.com/flanksource/wordpaste/markup"
)

func names(descriptors []fixtures.Descriptor) []string {
	var out []string
	for _, d := range descriptors {
		out = append(out, d.String())
	}
	return out
}

var _ = Describe("Suite", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	It("parses a markdown suite with front-matter and a case table", func() {
		path := write("paste.md", `---
root: _fixtures
wordVersions: ["2013", "2016"]
browsers: [chrome, firefox]
filters: [comments]
exec: node
args: ["filter.js", "{{.raw}}"]
---

# Paste from Word

| Name    | Word Versions | Browsers | Raw  | Filters |
|---------|---------------|----------|------|---------|
| table   | -             | -        |      | font    |
| lists   | 2016          | safari   | true |         |
`)

		suite, err := fixtures.ParseSuiteFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(suite.Name).To(Equal("Paste from Word"))
		Expect(suite.Root).To(Equal("_fixtures"))
		Expect(suite.Base).To(Equal(dir))
		Expect(suite.Command).To(Equal("node"))
		Expect(suite.Args).To(Equal([]string{"filter.js", "{{.raw}}"}))
		Expect(suite.Dir).To(Equal(dir))
		Expect(suite.Cases).To(HaveLen(2))

		descriptors, err := suite.Descriptors(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(descriptors)).To(Equal([]string{
			"lists/2016/safari",
			"table/2013/chrome",
			"table/2013/firefox",
			"table/2016/chrome",
			"table/2016/firefox",
		}))

		lists := descriptors[0]
		Expect(lists.CompareRawData).To(BeTrue())
		Expect(lists.FilterNames).To(Equal([]string{"comments"}))
		Expect(lists.Filters).To(HaveLen(1))
		Expect(descriptors[1].FilterNames).To(Equal([]string{"comments", "font"}))
		Expect(descriptors[1].CompareRawData).To(BeFalse())
	})

	It("parses a YAML suite and templates its settings", func() {
		path := write("suite.yaml", `
name: yaml suite
base: "{{.suiteDir}}/site"
wordVersions: ["2007", "2016", "2010"]
browsers: [edge]
when: 'wordVersion != "2007"'
timeout: 30s
cases:
  - name: image
  - name: table
    browsers: [chrome, edge]
    when: browser == "chrome"
    compareRawData: true
`)

		suite, err := fixtures.ParseSuiteFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(suite.Base).To(Equal(filepath.Join(dir, "site")))
		Expect(suite.Timeout.String()).To(Equal("30s"))

		descriptors, err := suite.Descriptors(markup.DefaultRegistry)
		Expect(err).NotTo(HaveOccurred())
		Expect(names(descriptors)).To(Equal([]string{
			"image/2010/edge",
			"image/2016/edge",
			"table/2010/chrome",
			"table/2016/chrome",
		}))
		Expect(descriptors[2].CompareRawData).To(BeTrue())
	})

	DescribeTable("reads fixtures through any spelling of the root",
		func(root string) {
			for name, content := range map[string]string{
				"_fixtures/table/2016/chrome.html": "<p>a</p>",
				"_fixtures/table/2016/chrome.rtf":  `{\rtf1}`,
				"_fixtures/table/expected.html":    "<p>a</p>",
			} {
				Expect(os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755)).To(Succeed())
				write(name, content)
			}
			path := write("suite.yaml", "root: "+root+"\nwordVersions: [\"2016\"]\nbrowsers: [chrome]\ncases:\n  - name: table\n")

			suite, err := fixtures.ParseSuiteFile(path)
			Expect(err).NotTo(HaveOccurred())

			outcome, inputs := suite.Evaluator().Inspect(context.Background(),
				fixtures.Descriptor{Name: "table", WordVersion: "2016", Browser: "chrome"})
			Expect(outcome.Kind).To(Equal(fixtures.Ready), outcome.Message)
			Expect(inputs.ExpectedPath).To(HaveSuffix("_fixtures/table/expected.html"))

			outcome, _ = suite.Evaluator().Inspect(context.Background(),
				fixtures.Descriptor{Name: "table", WordVersion: "2013", Browser: "chrome"})
			Expect(outcome.Kind).To(Equal(fixtures.Skipped))
		},
		Entry("plain", "_fixtures"),
		Entry("dot prefixed", "./_fixtures"),
		Entry("trailing slash", "_fixtures/"),
		Entry("templated suite directory", `"{{.suiteDir}}/_fixtures"`),
	)

	It("makes absolute roots inside the base relative", func() {
		path := write("suite.yaml", "root: "+filepath.Join(dir, "_fixtures")+"\ncases: []\n")

		suite, err := fixtures.ParseSuiteFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(suite.Root).To(Equal("_fixtures"))
	})

	It("rejects unknown filters", func() {
		suite := &fixtures.Suite{
			Name:         "bad",
			WordVersions: []string{"2016"},
			Browsers:     []string{"chrome"},
			Cases:        []fixtures.SuiteCase{{Name: "table", Filters: []string{"nope"}}},
		}
		_, err := suite.Descriptors(nil)
		Expect(err).To(MatchError(ContainSubstring("unknown filter 'nope'")))
	})

	It("rejects cases without environments", func() {
		suite := &fixtures.Suite{Name: "bad", Cases: []fixtures.SuiteCase{{Name: "table"}}}
		_, err := suite.Descriptors(nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects invalid conditions", func() {
		suite := &fixtures.Suite{
			Name:         "bad",
			WordVersions: []string{"2016"},
			Browsers:     []string{"chrome"},
			When:         "browser ==",
			Cases:        []fixtures.SuiteCase{{Name: "table"}},
		}
		_, err := suite.Descriptors(nil)
		Expect(err).To(MatchError(ContainSubstring("failed to compile CEL expression")))
	})

	It("rejects unsupported files", func() {
		_, err := fixtures.ParseSuiteFile(write("suite.txt", "name: x"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Discover", func() {
	It("builds one case per fixture name", func() {
		fsys := fstest.MapFS{
			"_fixtures/table/expected.html":               {},
			"_fixtures/table/2016/chrome.html":            {},
			"_fixtures/table/2016/chrome.rtf":             {},
			"_fixtures/table/2016/expected_chrome.html":   {},
			"_fixtures/table/2013/safari.html":            {},
			"_fixtures/table/2007/chrome.rtf":             {},
			"_fixtures/lists/2016/firefox.html":           {},
			"_fixtures/lists/2016/notes.txt":              {},
			"_fixtures/lists/2016/nested/deep/chrome.rtf": {},
		}

		suite, err := fixtures.Discover(fsys, fixtures.Layout{})
		Expect(err).NotTo(HaveOccurred())
		Expect(suite.Name).To(Equal("_fixtures"))
		Expect(suite.Cases).To(Equal([]fixtures.SuiteCase{
			{Name: "lists", WordVersions: []string{"2016"}, Browsers: []string{"firefox"}},
			{Name: "table", WordVersions: []string{"2007", "2013", "2016"}, Browsers: []string{"chrome", "safari"}},
		}))
	})
})

var _ = Describe("Discover roots", func() {
	fsys := fstest.MapFS{
		"_fixtures/table/2016/chrome.html": {},
		"table/2016/chrome.html":           {},
	}

	DescribeTable("cleans the root before globbing",
		func(root string) {
			suite, err := fixtures.Discover(fsys, fixtures.Layout{Root: root})
			Expect(err).NotTo(HaveOccurred())
			Expect(suite.Cases).To(HaveLen(1))
			Expect(suite.Cases[0].Name).To(Equal("table"))
		},
		Entry("dot prefixed", "./_fixtures"),
		Entry("trailing slash", "_fixtures/"),
		Entry("filesystem root", "."),
	)

	It("rejects roots outside the filesystem", func() {
		_, err := fixtures.Discover(fsys, fixtures.Layout{Root: "/srv/_fixtures"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("SortVersions", func() {
	It("orders numeric versions before free-form tags", func() {
		Expect(fixtures.SortVersions([]string{"online", "2016", "2007", "16.0", "2010"})).
			To(Equal([]string{"16.0", "2007", "2010", "2016", "online"}))
	})
})
