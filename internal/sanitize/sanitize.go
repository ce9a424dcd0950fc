// Package sanitize cleans admin-entered text before it reaches the mini app.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Text strips every tag and returns plain text. Entities produced by the
// policy are decoded again since the client escapes plain text itself.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Rich keeps basic formatting markup and drops scripts, handlers and unsafe links
func Rich(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}
