// Package fixtures turns recorded clipboard captures into paste test cases.
//
// A case is identified by a fixture name, the word version that produced the clipboard
// content and the browser it was captured in. Its fixtures live in a fixed layout:
//
//	_fixtures/{name}/{wordVersion}/{browser}.html           captured HTML flavour
//	_fixtures/{name}/{wordVersion}/{browser}.rtf            captured RTF flavour
//	_fixtures/{name}/expected.html                          expected editor output
//	_fixtures/{name}/{wordVersion}/expected_{browser}.html  per-environment override
//
// # Evaluation
//
// The Evaluator loads all four fixtures concurrently, each with its own cache-defeating
// token, and decides:
//
//   - neither input exists: the case is skipped without failing
//   - only one input exists: the case fails naming the missing file
//   - no expected output exists: the case fails with ErrExpectedMissing
//   - otherwise the inputs are pasted and the output compared with the expectation
//
// Before pasting, a one-shot listener is registered ahead of the editor's filters that
// rewrites literal spaces to &nbsp; unless the browser encodes them itself (see
// SelfEncodingBrowsers). The comparison beautifies both sides with markup.Normalize.
//
// The outcome is handed to a Bridge exactly once. TestingBridge reports to a go test:
//
//	func TestPaste(t *testing.T) {
//		eval := fixtures.NewEvaluator(fixtures.DefaultLayout, fixtures.NewFileLoader("testdata"))
//		d := fixtures.Descriptor{Name: "table", WordVersion: "2016", Browser: "chrome"}
//		eval.Run(context.Background(), d, editor, fixtures.TestingBridge(t))
//	}
//
// # Suites
//
// Suites expand into the matrix of cases. They are YAML files or markdown files with a
// front-matter and a case table:
//
//	---
//	wordVersions: ["2013", "2016"]
//	browsers: [chrome, firefox, safari, edge]
//	exec: node
//	args: [paste-filter.js]
//	when: '!(browser == "safari" && wordVersion == "2013")'
//	---
//
//	| Name  | Word Versions | Browsers | Raw  | Filters |
//	|-------|---------------|----------|------|---------|
//	| table | -             | -        |      | font    |
//	| lists | 2016          | chrome   | true |         |
//
// Discover builds a suite from the fixture tree itself. The Runner runs suites as clicky
// task groups against an EditorFactory, by default the suite's external filter command.
package fixtures
