package fixtures

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SortVersions returns the word versions in ascending order. Numeric tags such as "2007",
// "2016" or "16.0" compare as versions and sort before free-form tags like "online".
func SortVersions(versions []string) []string {
	sorted := append([]string{}, versions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareVersions(sorted[i], sorted[j]) < 0
	})
	return sorted
}

func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
