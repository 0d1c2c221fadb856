package fixtures

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/flanksource/wordpaste/markup"
	"github.com/flanksource/wordpaste/paste"
)

// Suite is a matrix of paste cases: every case runs for each of its word versions and
// browsers. Suites are read from YAML files or from markdown files with a YAML front-matter
// and a case table.
type Suite struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Base is the directory or http(s) URL fixture paths are resolved against, it defaults
	// to the directory of the suite file
	Base   string `yaml:"base,omitempty" json:"base,omitempty"`
	Layout `yaml:",inline" json:",inline"`

	// Defaults for cases that don't list their own
	WordVersions   []string `yaml:"wordVersions,omitempty" json:"wordVersions,omitempty"`
	Browsers       []string `yaml:"browsers,omitempty" json:"browsers,omitempty"`
	CompareRawData bool     `yaml:"compareRawData,omitempty" json:"compareRawData,omitempty"`
	// Filters are applied to every case, case filters are added to them
	Filters []string `yaml:"filters,omitempty" json:"filters,omitempty"`
	// When is a CEL expression over name, wordVersion, browser and raw selecting the cases to run
	When string `yaml:"when,omitempty" json:"when,omitempty"`

	// Build runs once before any case, e.g. to bundle the editor
	Build string `yaml:"build,omitempty" json:"build,omitempty"`
	// ExecOptions configure the external paste filter the cases run against
	paste.ExecOptions `yaml:",inline" json:",inline"`

	Cases []SuiteCase `yaml:"cases,omitempty" json:"cases,omitempty"`

	// Path of the file the suite was read from
	Path string `yaml:"-" json:"path,omitempty"`
	// FS overrides the filesystem fixtures are read from when Base is a directory
	FS fs.FS `yaml:"-" json:"-"`
}

// SuiteCase is a single named test; empty fields inherit the suite defaults.
type SuiteCase struct {
	Name           string   `yaml:"name" json:"name"`
	WordVersions   []string `yaml:"wordVersions,omitempty" json:"wordVersions,omitempty"`
	Browsers       []string `yaml:"browsers,omitempty" json:"browsers,omitempty"`
	CompareRawData *bool    `yaml:"compareRawData,omitempty" json:"compareRawData,omitempty"`
	Filters        []string `yaml:"filters,omitempty" json:"filters,omitempty"`
	When           string   `yaml:"when,omitempty" json:"when,omitempty"`
}

// Resources returns the loader for the suite's Base: an HTTPLoader for URLs, a FileLoader otherwise.
func (s *Suite) Resources() ResourceLoader {
	if isURL(s.Base) {
		return NewHTTPLoader(s.Base)
	}
	if s.FS != nil {
		return FileLoader{FS: s.FS, Dir: s.Base}
	}
	if s.Base == "" {
		return NewFileLoader(".")
	}
	return NewFileLoader(s.Base)
}

// Evaluator returns an evaluator for the suite's layout and resources.
func (s *Suite) Evaluator() *Evaluator {
	return NewEvaluator(s.Layout, s.Resources())
}

// Descriptors expands the suite into its cases, ordered by name, word version and browser.
// Filter names are resolved against filters, or the default registry when it is nil.
func (s *Suite) Descriptors(filters *markup.Registry) ([]Descriptor, error) {
	if filters == nil {
		filters = markup.DefaultRegistry
	}
	suiteWhen, err := compileCondition(s.When)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", s.Name, err)
	}

	var descriptors []Descriptor
	for _, c := range s.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("suite %s: case without a name", s.Name)
		}
		versions := lo.Ternary(len(c.WordVersions) > 0, c.WordVersions, s.WordVersions)
		browsers := lo.Ternary(len(c.Browsers) > 0, c.Browsers, s.Browsers)
		if len(versions) == 0 || len(browsers) == 0 {
			return nil, fmt.Errorf("suite %s: case %q needs at least one word version and browser", s.Name, c.Name)
		}

		raw := s.CompareRawData
		if c.CompareRawData != nil {
			raw = *c.CompareRawData
		}

		names := lo.Uniq(append(append([]string{}, s.Filters...), c.Filters...))
		resolved, err := filters.Lookup(names...)
		if err != nil {
			return nil, fmt.Errorf("suite %s: case %q: %w", s.Name, c.Name, err)
		}

		caseWhen, err := compileCondition(c.When)
		if err != nil {
			return nil, fmt.Errorf("suite %s: case %q: %w", s.Name, c.Name, err)
		}

		for _, version := range versions {
			for _, browser := range browsers {
				d := Descriptor{
					Name:           c.Name,
					WordVersion:    version,
					Browser:        browser,
					CompareRawData: raw,
					Filters:        resolved,
					FilterNames:    names,
				}
				ok, err := matchAll(d, suiteWhen, caseWhen)
				if err != nil {
					return nil, fmt.Errorf("suite %s: %s: %w", s.Name, d, err)
				}
				if ok {
					descriptors = append(descriptors, d)
				}
			}
		}
	}

	descriptors = lo.UniqBy(descriptors, Descriptor.String)
	SortDescriptors(descriptors)
	return descriptors, nil
}

func matchAll(d Descriptor, conditions ...*caseCondition) (bool, error) {
	for _, c := range conditions {
		ok, err := c.Match(d)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// SortDescriptors orders descriptors by name, word version (semver aware) and browser.
func SortDescriptors(descriptors []Descriptor) {
	sort.SliceStable(descriptors, func(i, j int) bool {
		a, b := descriptors[i], descriptors[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if c := compareVersions(a.WordVersion, b.WordVersion); c != 0 {
			return c < 0
		}
		return a.Browser < b.Browser
	})
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
