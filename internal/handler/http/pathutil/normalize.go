// Package pathutil maps request paths onto a bounded set of route templates
// for use as metric labels and span names.
package pathutil

import (
	"strings"
)

// SectionTemplate is the label every feed request collapses to.
const SectionTemplate = "/:section"

// staticRoutes are the operational endpoints served next to the feed route.
// Any other path is a section request, valid or not.
var staticRoutes = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/ready":   {},
	"/live":    {},
	"/metrics": {},
}

// swaggerPrefix groups every API documentation asset under one label.
const swaggerPrefix = "/swagger"

// NormalizePath normalizes a request path to prevent metrics label cardinality explosion.
// Operational endpoints keep their path; every section request becomes "/:section"
// regardless of whether the section name is valid.
//
// Examples:
//
//	NormalizePath("/business")           // "/:section"
//	NormalizePath("/uk-news?x=1")        // "/:section"
//	NormalizePath("/Not/A/Section")      // "/:section"
//	NormalizePath("/health")             // "/health"
//	NormalizePath("/metrics/")           // "/metrics"
//	NormalizePath("/swagger/index.html") // "/swagger"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticRoutes[path]; ok {
		return path
	}

	if path == swaggerPrefix || strings.HasPrefix(path, swaggerPrefix+"/") {
		return swaggerPrefix
	}

	return SectionTemplate
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(staticRoutes) + 2 // swagger + section
}
