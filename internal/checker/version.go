package checker

import (
	"regexp"
	"strings"
)

var digitGroups = regexp.MustCompile(`\d+`)

// CompareVersions orders two version strings by their digit groups.
// Leading markers such as "v" are ignored and the shorter list is padded
// with zeros, so "4.0" equals "v4.0.0". It returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	ga := digitGroups.FindAllString(a, -1)
	gb := digitGroups.FindAllString(b, -1)

	n := max(len(ga), len(gb))
	for i := 0; i < n; i++ {
		if c := compareGroup(groupAt(ga, i), groupAt(gb, i)); c != 0 {
			return c
		}
	}
	return 0
}

func groupAt(groups []string, i int) string {
	if i < len(groups) {
		return groups[i]
	}
	return "0"
}

// compareGroup compares decimal strings of any length.
func compareGroup(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
