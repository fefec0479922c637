// Package htmlsanitize cleans user-supplied text before it is written into
// an HTML response outside of html/template.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// PlainText strips all markup and escapes what remains.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}
