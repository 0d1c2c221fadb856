package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/flanksource/commons/logger"

	"github.com/flanksource/wordpaste/fixtures"
)

// loadSuites parses the suite files matching patterns, or discovers the fixture tree under
// the working directory when there are none. Relative patterns are matched from --cwd.
func loadSuites(patterns []string, layout fixtures.Layout) ([]*fixtures.Suite, error) {
	if len(patterns) == 0 {
		root := layout.Root
		if root == "" {
			root = fixtures.DefaultRoot
		}
		if !filepath.IsAbs(root) {
			root = filepath.Join(workDir, root)
		}
		layout.Root = "."
		suite, err := fixtures.Discover(os.DirFS(root), layout)
		if err != nil {
			return nil, err
		}
		suite.Name = filepath.Base(root)
		suite.Base = root
		suite.Dir = workDir
		return []*fixtures.Suite{suite}, nil
	}

	var suites []*fixtures.Suite
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(workDir, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if len(matches) == 0 {
			logger.Warnf("No files matched pattern: %s", pattern)
			continue
		}
		for _, path := range matches {
			suite, err := fixtures.ParseSuiteFile(path)
			if err != nil {
				return nil, err
			}
			suites = append(suites, suite)
		}
	}
	if len(suites) == 0 {
		return nil, fmt.Errorf("no suites found")
	}
	return suites, nil
}
