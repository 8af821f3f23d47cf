package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag from user supplied prose. Reviews, comments and
// descriptions are stored as plain text.
var textPolicy = bluemonday.StrictPolicy()

// cleanText removes markup and surrounding whitespace. Entities escaped by
// the sanitizer are decoded again so "&" survives as "&".
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
