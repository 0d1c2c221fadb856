package fixtures

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/gomplate/v3"
	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ParseSuiteFile reads a suite from a .yaml/.yml file or a markdown file. Markdown suites
// carry the suite settings in a YAML front-matter and list their cases in a table:
//
//	| Name  | Word Versions | Browsers       | Raw | Filters |
//	|-------|---------------|----------------|-----|---------|
//	| table | 2013 2016     | chrome, safari |     | font    |
//
// Empty cells and "-" inherit the front-matter defaults.
func ParseSuiteFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open suite file: %w", err)
	}

	var suite *Suite
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		suite = &Suite{}
		if err := yaml.Unmarshal(data, suite); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".md", ".markdown":
		if suite, err = parseMarkdownSuite(string(data)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported suite file %s, expected .yaml or .md", path)
	}

	suite.Path = path
	if suite.Name == "" {
		base := filepath.Base(path)
		suite.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := suite.resolve(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	logger.Debugf("Parsed suite %s with %d cases from %s", suite.Name, len(suite.Cases), path)
	return suite, nil
}

// resolve templates the suite settings with .suiteDir and .workDir and makes relative
// directories relative to the suite file.
func (s *Suite) resolve(suiteDir string) error {
	wd, _ := os.Getwd()
	data := map[string]any{
		"suiteDir": suiteDir,
		"workDir":  wd,
	}

	for _, field := range []*string{&s.Base, &s.Root, &s.Build, &s.Command, &s.Dir} {
		if !strings.Contains(*field, "{{") {
			continue
		}
		out, err := gomplate.RunTemplate(data, gomplate.Template{Template: *field})
		if err != nil {
			return fmt.Errorf("failed to template %q: %w", *field, err)
		}
		*field = out
	}

	if s.Base == "" {
		s.Base = suiteDir
	} else if !isURL(s.Base) && !filepath.IsAbs(s.Base) {
		s.Base = filepath.Join(suiteDir, s.Base)
	}

	if !isURL(s.Base) && filepath.IsAbs(s.Root) {
		if rel, err := filepath.Rel(s.Base, s.Root); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			s.Root = filepath.ToSlash(rel)
		}
	}

	if s.Dir == "" {
		s.Dir = suiteDir
	} else if !filepath.IsAbs(s.Dir) {
		s.Dir = filepath.Join(suiteDir, s.Dir)
	}
	return nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the markdown body.
func splitFrontMatter(content string) (string, string) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return "", content
	}

	var frontMatter, body []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if !closed && strings.TrimSpace(line) == "---" {
			closed = true
			continue
		}
		if closed {
			body = append(body, line)
		} else {
			frontMatter = append(frontMatter, line)
		}
	}
	return strings.Join(frontMatter, "\n"), strings.Join(body, "\n")
}

func parseMarkdownSuite(content string) (*Suite, error) {
	frontMatter, body := splitFrontMatter(content)

	suite := &Suite{}
	if frontMatter != "" {
		if err := yaml.Unmarshal([]byte(frontMatter), suite); err != nil {
			return nil, fmt.Errorf("failed to parse YAML front-matter: %w", err)
		}
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if suite.Name == "" && node.Level == 1 {
				suite.Name = strings.TrimSpace(extractNodeText(node, source))
			}
		case *extast.Table:
			cases, err := parseCaseTable(node, source)
			if err != nil {
				return ast.WalkStop, err
			}
			suite.Cases = append(suite.Cases, cases...)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking AST: %w", err)
	}
	return suite, nil
}

func parseCaseTable(table *extast.Table, source []byte) ([]SuiteCase, error) {
	var headers []string
	var cases []SuiteCase

	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *extast.TableHeader:
			headers = tableCells(row, source)
		case *extast.TableRow:
			values := tableCells(row, source)
			if len(headers) == 0 || len(values) != len(headers) {
				continue
			}
			c, err := parseCaseRow(headers, values)
			if err != nil {
				return nil, err
			}
			if c.Name != "" {
				cases = append(cases, c)
			}
		}
	}
	return cases, nil
}

func tableCells(row ast.Node, source []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			cells = append(cells, strings.TrimSpace(extractNodeText(cell, source)))
		}
	}
	return cells
}

// parseCaseRow converts a table row into a SuiteCase
func parseCaseRow(headers, values []string) (SuiteCase, error) {
	var c SuiteCase
	for i, header := range headers {
		value := values[i]
		if value == "-" {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(header)) {
		case "name", "test name", "test":
			c.Name = value
		case "word versions", "word version", "versions", "version", "word":
			c.WordVersions = splitList(value)
		case "browsers", "browser":
			c.Browsers = splitList(value)
		case "raw", "compare raw data", "raw data":
			if value == "" {
				continue
			}
			raw, err := strconv.ParseBool(value)
			if err != nil {
				return c, fmt.Errorf("invalid raw value %q for %s", value, c.Name)
			}
			c.CompareRawData = &raw
		case "filters", "filter":
			c.Filters = splitList(value)
		case "when", "condition":
			c.When = value
		default:
			logger.V(4).Infof("Ignoring unknown column %q", header)
		}
	}
	return c, nil
}

// splitList splits a cell on commas and whitespace
func splitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// extractNodeText extracts plain text content from an AST node
func extractNodeText(node ast.Node, source []byte) string {
	var buf strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}
