// Package htmlsanitize sanitizes user-generated HTML before it is stored.
//
// Chat message content arrives from the SPA's rich-text editor and may
// contain markup. Everything is run through a bluemonday UGC policy so
// scripts, event handlers, and javascript: URLs never reach the database
// or other members' screens.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ugc is built once; bluemonday policies are safe for concurrent use.
var ugc = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// The editor emits class-annotated tables; classes are inert without
	// attacker-controlled CSS, so allow them on table elements only.
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
	return p
}

// Sanitize returns s with all unsafe HTML removed. Safe formatting
// (paragraphs, emphasis, lists, tables, code blocks, links) is preserved;
// links gain rel="nofollow".
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// IsPlainText reports whether s contains no HTML tags at all.
// A lone '<' or '>' (e.g. "5 < 10") does not count as markup.
func IsPlainText(s string) bool {
	lt := strings.IndexByte(s, '<')
	if lt < 0 {
		return true
	}
	return strings.IndexByte(s[lt:], '>') < 0
}
