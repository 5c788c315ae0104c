// Package pathutil normalizes request paths for use as metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/u/[^/]+/birthdays\.ics$`), Template: "/u/:username/birthdays.ics"},
	{Pattern: regexp.MustCompile(`^/u/[^/]+$`), Template: "/u/:username"},
}

// staticPaths are the routes served without path parameters.
var staticPaths = map[string]struct{}{
	"/":              {},
	"/cal":           {},
	"/ics":           {},
	"/api/birthdays": {},
	"/health":        {},
	"/live":          {},
	"/metrics":       {},
}

// otherPath is the label used for paths that match no route.
const otherPath = "/other"

// NormalizePath normalizes dynamic URL paths to prevent metrics label cardinality explosion.
// Usernames are replaced by a placeholder and unknown paths collapse into a
// single label, so arbitrary client input never reaches a label value.
//
// Examples:
//
//	NormalizePath("/u/alice")                 // "/u/:username"
//	NormalizePath("/u/alice/birthdays.ics")   // "/u/:username/birthdays.ics"
//	NormalizePath("/cal")                     // "/cal" (unchanged)
//	NormalizePath("/health/")                 // "/health"
//	NormalizePath("/wp-admin.php")            // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	return otherPath
}

// GetExpectedCardinality returns the number of distinct path labels
// NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(pathPatterns) + 1
}
