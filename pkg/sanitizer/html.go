package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// StripHTML removes every tag, returning escaped text.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// Field cleans a value typed into a signature form field.
// Markup is removed, entities are decoded back to plain characters, the
// result is NFC-normalized so composed and decomposed accents compare equal,
// and surrounding whitespace is trimmed. Interior whitespace runs collapse to
// a single space.
func Field(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(StripHTML(s))
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
