package scanner

import (
	"path/filepath"
	"strings"
)

// testMarkers are substrings that mark a path as test code. They also cover
// the .test./.spec. infixes and the __tests__/tests/spec directory segments.
var testMarkers = []string{"test", "spec"}

// IsTestFile reports whether rel, a path relative to the scan root, looks like
// a test file. Matching is case-insensitive over the whole relative path.
func IsTestFile(rel string) bool {
	p := strings.ToLower(filepath.ToSlash(rel))
	for _, m := range testMarkers {
		if strings.Contains(p, m) {
			return true
		}
	}
	return false
}
