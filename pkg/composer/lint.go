package composer

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Severity grades a lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is an email-client compatibility problem found in a fragment.
type Issue struct {
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return string(i.Severity) + ": " + i.Message
}

var unsupportedCSS = regexp.MustCompile(`(?i)(display\s*:\s*(flex|grid|inline-flex)|position\s*:|float\s*:|background-image)`)

// Lint checks an HTML fragment for constructs that mail clients strip or render
// unreliably. Signature output is expected to produce no errors.
func Lint(fragment string) []Issue {
	var issues []Issue
	report := func(sev Severity, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	lower := strings.ToLower(fragment)
	if !strings.Contains(lower, "<table") {
		report(SeverityError, "layout must use tables")
	}
	if !strings.Contains(lower, "border-collapse: collapse") && !strings.Contains(lower, "border-collapse:collapse") {
		report(SeverityWarning, "missing border-collapse for table compatibility")
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				report(SeverityError, "unparseable markup: %v", err)
			}
			return issues
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		switch tok.Data {
		case "style":
			report(SeverityError, "<style> blocks are stripped by mail clients")
		case "script":
			report(SeverityError, "<script> is not allowed")
		case "link":
			report(SeverityError, "external stylesheets are not allowed")
		}
		for _, a := range tok.Attr {
			switch a.Key {
			case "class":
				report(SeverityError, "<%s> uses class; styles must be inline", tok.Data)
			case "style":
				if m := unsupportedCSS.FindString(a.Val); m != "" {
					report(SeverityWarning, "<%s> uses unsupported CSS %q", tok.Data, m)
				}
			case "src", "href":
				if !absolute(a.Val) {
					report(SeverityError, "<%s %s=%q> must be an absolute URL", tok.Data, a.Key, a.Val)
				}
			}
			if strings.HasPrefix(a.Key, "on") {
				report(SeverityError, "<%s> has event handler %s", tok.Data, a.Key)
			}
		}
	}
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func absolute(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return u.Host != ""
	case "mailto", "tel":
		return u.Opaque != ""
	}
	return false
}
