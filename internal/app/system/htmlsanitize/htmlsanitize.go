// Package htmlsanitize cleans user-supplied rich text before it is stored
// and re-served (project descriptions, update text). One policy for the
// whole app; handlers never construct their own.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize removes scripts, event handlers, and unsafe URLs while keeping
// basic formatting tags.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// StripTags removes all markup, leaving plain text. Used for fields that
// must never contain HTML (names, titles, search queries).
func StripTags(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
