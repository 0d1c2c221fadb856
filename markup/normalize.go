package markup

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Options controls how markup is normalized before two documents are compared.
type Options struct {
	// FixStyles rewrites inline style attributes into a canonical declaration list
	FixStyles bool
	// SortAttributes orders element attributes by name
	SortAttributes bool
	// Filters run over the beautified markup of both sides
	Filters []Filter
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// Normalize parses an HTML fragment and renders it one node per line with two space
// indentation. Runs of ASCII whitespace in text collapse to a single space, non-breaking
// spaces survive as &nbsp; and text is NFC normalized.
func Normalize(input string, opts Options) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), context)
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}

	var b strings.Builder
	for _, n := range nodes {
		beautify(&b, n, 0, opts)
	}
	out := strings.TrimRight(b.String(), "\n")

	for _, filter := range opts.Filters {
		if filter != nil {
			out = filter(out)
		}
	}
	return out, nil
}

func beautify(b *strings.Builder, n *html.Node, depth int, opts Options) {
	indent := strings.Repeat("  ", depth)

	switch n.Type {
	case html.TextNode:
		text := collapseWhitespace(n.Data)
		if text == "" {
			return
		}
		b.WriteString(indent)
		b.WriteString(escapeText(norm.NFC.String(text)))
		b.WriteString("\n")

	case html.CommentNode:
		b.WriteString(indent)
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->\n")

	case html.ElementNode:
		b.WriteString(indent)
		b.WriteString("<")
		b.WriteString(n.Data)
		for _, attr := range attributes(n, opts) {
			b.WriteString(" ")
			b.WriteString(attr.Key)
			b.WriteString(`="`)
			b.WriteString(escapeText(attr.Val))
			b.WriteString(`"`)
		}
		b.WriteString(">\n")

		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			beautify(b, c, depth+1, opts)
		}
		b.WriteString(indent)
		b.WriteString("</")
		b.WriteString(n.Data)
		b.WriteString(">\n")

	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			beautify(b, c, depth, opts)
		}
	}
}

func attributes(n *html.Node, opts Options) []html.Attribute {
	attrs := make([]html.Attribute, 0, len(n.Attr))
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if attr.Namespace != "" {
			key = attr.Namespace + ":" + key
		}
		val := attr.Val
		if opts.FixStyles && key == "style" {
			val = NormalizeStyle(val)
			if val == "" {
				continue
			}
		}
		attrs = append(attrs, html.Attribute{Key: key, Val: val})
	}
	if opts.SortAttributes {
		sort.SliceStable(attrs, func(i, j int) bool {
			return attrs[i].Key < attrs[j].Key
		})
	}
	return attrs
}

// NormalizeStyle lower-cases property names, trims values and orders the declarations
// of an inline style, e.g. "COLOR: red;font-size:12pt;" becomes "color:red; font-size:12pt".
func NormalizeStyle(style string) string {
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = collapseWhitespace(value)
		if prop == "" || value == "" {
			continue
		}
		decls = append(decls, prop+":"+value)
	}
	sort.Strings(decls)
	return strings.Join(decls, "; ")
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\u00a0", "&nbsp;")
}

// EncodeSpaces rewrites every literal space into its non-breaking entity.
func EncodeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "&nbsp;")
}
