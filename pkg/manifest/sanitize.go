package manifest

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

// sanitizeLabel strips markup from display strings so tables and prompts only
// ever print plain text. Labels without known HTML elements, such as
// "List<T>", are returned as written.
func sanitizeLabel(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !containsMarkup(trimmed) {
		return trimmed
	}
	labelPolicyOnce.Do(func() {
		labelPolicy = bluemonday.StrictPolicy()
	})
	cleaned := labelPolicy.Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// containsMarkup reports whether s holds at least one tag naming a known
// HTML element, or a comment.
func containsMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return false
		case xhtml.StartTagToken, xhtml.EndTagToken, xhtml.SelfClosingTagToken:
			if z.Token().DataAtom != 0 {
				return true
			}
		case xhtml.CommentToken:
			return true
		}
	}
}
