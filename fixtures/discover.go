package fixtures

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
)

// Discover builds a suite from the input fixtures found under layout.Root in fsys. There is
// one case per fixture name, covering every word version and browser recorded for it, so
// environments that only have one of the two inputs show up as missing fixtures.
func Discover(fsys fs.FS, layout Layout) (*Suite, error) {
	layout = layout.withDefaults()
	root := layout.Root
	if !fs.ValidPath(root) {
		return nil, fmt.Errorf("fixture root %s is not inside the discovered filesystem", root)
	}
	pattern := path.Join(root, "*", "*", "*{"+layout.MarkupExt+","+layout.BinaryExt+"}")

	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
	}

	versions := map[string][]string{}
	browsers := map[string][]string{}
	for _, match := range matches {
		parts := strings.Split(strings.TrimPrefix(match, root+"/"), "/")
		if len(parts) != 3 {
			continue
		}
		name, version, file := parts[0], parts[1], parts[2]

		browser := strings.TrimSuffix(strings.TrimSuffix(file, layout.MarkupExt), layout.BinaryExt)
		if browser == "" || browser == file || strings.HasPrefix(browser, "expected") {
			continue
		}
		versions[name] = append(versions[name], version)
		browsers[name] = append(browsers[name], browser)
	}

	suite := &Suite{Name: path.Base(root), Layout: layout}
	names := lo.Keys(versions)
	sort.Strings(names)
	for _, name := range names {
		b := lo.Uniq(browsers[name])
		sort.Strings(b)
		suite.Cases = append(suite.Cases, SuiteCase{
			Name:         name,
			WordVersions: SortVersions(lo.Uniq(versions[name])),
			Browsers:     b,
		})
	}

	logger.Debugf("Discovered %d fixture names under %s", len(suite.Cases), root)
	return suite, nil
}
