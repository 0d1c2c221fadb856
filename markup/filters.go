package markup

import (
	"regexp"
	"strings"
)

// Filter rewrites beautified markup before comparison. Filters are applied identically
// to both sides.
type Filter func(markup string) string

var (
	fontFamilyRegex = regexp.MustCompile(`(?i)font-family\s*:((?:&#34;|&#39;|&quot;|[^;"])*)`)
	commentRegex    = regexp.MustCompile(`(?m)^[ \t]*<!--[\s\S]*?-->\n?`)
)

// Font canonicalizes font-family declarations: quotes around family names are dropped,
// names are lower-cased and the list separator loses its padding, so
// font-family:&#34;Times New Roman&#34;, Serif becomes font-family:times new roman,serif.
func Font(markup string) string {
	return fontFamilyRegex.ReplaceAllStringFunc(markup, func(match string) string {
		value := fontFamilyRegex.FindStringSubmatch(match)[1]
		for _, quote := range []string{"&#34;", "&#39;", "&quot;", "'"} {
			value = strings.ReplaceAll(value, quote, "")
		}
		families := strings.Split(value, ",")
		for i, family := range families {
			families[i] = strings.ToLower(collapseWhitespace(family))
		}
		return "font-family:" + strings.Join(families, ",")
	})
}

// Comments removes comment lines, e.g. the conditional comments Word emits.
func Comments(markup string) string {
	return strings.TrimRight(commentRegex.ReplaceAllString(markup, ""), "\n")
}
