package pathutil_test

import (
	"fmt"

	"guardian-rss/internal/handler/http/pathutil"
)

// ExampleNormalizePath shows that every section collapses onto one metric label.
func ExampleNormalizePath() {
	fmt.Println(pathutil.NormalizePath("/business"))
	fmt.Println(pathutil.NormalizePath("/uk-news"))
	fmt.Println(pathutil.NormalizePath("/health"))

	// Output:
	// /:section
	// /:section
	// /health
}
