package fixtures

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/flanksource/wordpaste/markup"
)

const (
	DefaultRoot      = "_fixtures"
	DefaultMarkupExt = ".html"
	DefaultBinaryExt = ".rtf"
)

// Descriptor identifies a single paste case. It is built by the caller and never mutated.
type Descriptor struct {
	// Name of the fixture group, e.g. "table"
	Name string `json:"name" yaml:"name"`
	// WordVersion of the generator that produced the input, e.g. "2016"
	WordVersion string `json:"wordVersion" yaml:"wordVersion"`
	// Browser the input was captured in, e.g. "chrome"
	Browser string `json:"browser" yaml:"browser"`
	// CompareRawData compares the captured paste data instead of the editor output
	CompareRawData bool `json:"compareRawData,omitempty" yaml:"compareRawData,omitempty"`
	// Filters are applied to both sides before comparison
	Filters []markup.Filter `json:"-" yaml:"-"`
	// FilterNames records the registry names Filters were resolved from
	FilterNames []string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

func (d Descriptor) String() string {
	return strings.Join([]string{d.Name, d.WordVersion, d.Browser}, "/")
}

// ResolvedPaths are the four fixture locations of a Descriptor.
type ResolvedPaths struct {
	InputMarkup         string `json:"inputMarkup"`
	InputBinary         string `json:"inputBinary"`
	DefaultExpected     string `json:"defaultExpected"`
	EnvironmentExpected string `json:"environmentExpected"`
}

// All returns the paths in load order: markup, binary, default expected, environment expected.
func (p ResolvedPaths) All() [4]string {
	return [4]string{p.InputMarkup, p.InputBinary, p.DefaultExpected, p.EnvironmentExpected}
}

// Layout describes where fixtures live. Empty fields fall back to the defaults. Root is
// cleaned, so "./_fixtures" and "_fixtures/" both resolve to "_fixtures" paths.
type Layout struct {
	Root      string `json:"root,omitempty" yaml:"root,omitempty"`
	MarkupExt string `json:"markupExt,omitempty" yaml:"markupExt,omitempty"`
	BinaryExt string `json:"binaryExt,omitempty" yaml:"binaryExt,omitempty"`
}

// DefaultLayout is "_fixtures" with .html markup and .rtf binary inputs.
var DefaultLayout = Layout{Root: DefaultRoot, MarkupExt: DefaultMarkupExt, BinaryExt: DefaultBinaryExt}

func (l Layout) withDefaults() Layout {
	if l.Root == "" {
		l.Root = DefaultRoot
	}
	l.Root = path.Clean(filepath.ToSlash(l.Root))
	if l.MarkupExt == "" {
		l.MarkupExt = DefaultMarkupExt
	}
	if l.BinaryExt == "" {
		l.BinaryExt = DefaultBinaryExt
	}
	return l
}

// Resolve maps a descriptor to its fixture paths. It performs no I/O; whether the
// fixtures exist is only discovered when they are loaded.
//
//	{root}/{name}/{wordVersion}/{browser}.html
//	{root}/{name}/{wordVersion}/{browser}.rtf
//	{root}/{name}/expected.html
//	{root}/{name}/{wordVersion}/expected_{browser}.html
func (l Layout) Resolve(d Descriptor) ResolvedPaths {
	l = l.withDefaults()
	dir := join(l.Root, d.Name, d.WordVersion)
	return ResolvedPaths{
		InputMarkup:         dir + "/" + d.Browser + l.MarkupExt,
		InputBinary:         dir + "/" + d.Browser + l.BinaryExt,
		DefaultExpected:     join(l.Root, d.Name, "expected") + l.MarkupExt,
		EnvironmentExpected: dir + "/expected_" + d.Browser + l.MarkupExt,
	}
}

// join joins with "/" without cleaning, so names are never rewritten. A "." root adds no
// prefix.
func join(root string, parts ...string) string {
	if root == "." {
		return strings.Join(parts, "/")
	}
	return strings.Join(append([]string{root}, parts...), "/")
}
