// Package views renders the editor pages and the HTMX partials swapped into them.
//
// Components are plain templ.Component values built with templ.ComponentFunc,
// so they plug straight into Context.Render and htmx.WithOOB.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/disc-ucn/firma/pkg/i18n"
)

// HTMXScript is where the htmx runtime is loaded from.
const HTMXScript = "https://unpkg.com/htmx.org@2.0.4"

// AlertsTarget is the page slot HTMX errors are swapped into.
const AlertsTarget = "#alerts"

// Translate looks up a message in the request language.
type Translate func(key string, placeholders ...i18n.M) string

// Page carries what every page needs besides its body.
type Page struct {
	T         Translate
	Lang      string
	Title     string
	Languages []string
}

func (p Page) t(key string, placeholders ...i18n.M) string {
	if p.T == nil {
		return key
	}
	return p.T(key, placeholders...)
}

type writer struct {
	w   io.Writer
	err error
}

func (b *writer) raw(parts ...string) {
	for _, p := range parts {
		if b.err != nil {
			return
		}
		_, b.err = io.WriteString(b.w, p)
	}
}

func (b *writer) text(s string) {
	b.raw(templ.EscapeString(s))
}

func (b *writer) render(ctx context.Context, c templ.Component) {
	if b.err != nil {
		return
	}
	b.err = c.Render(ctx, b.w)
}

func component(fn func(ctx context.Context, b *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &writer{w: w}
		fn(ctx, b)
		return b.err
	})
}

// attr renders name="value" with a leading space.
func attr(name, value string) string {
	return " " + name + `="` + templ.EscapeString(value) + `"`
}

// flag renders a boolean attribute when on is true.
func flag(name string, on bool) string {
	if !on {
		return ""
	}
	return " " + name
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// layout wraps body in the document shell.
func layout(p Page, body templ.Component) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		title := p.t("editor.title")
		if p.Title != "" && p.Title != title {
			title = p.Title + " · " + title
		}

		b.raw("<!DOCTYPE html>\n<html", attr("lang", p.Lang), ">\n<head>\n")
		b.raw(`<meta charset="utf-8">`, "\n", `<meta name="viewport" content="width=device-width, initial-scale=1">`, "\n")
		b.raw("<title>")
		b.text(title)
		b.raw("</title>\n")
		b.raw(`<link rel="stylesheet" href="/static/app.css">`, "\n")
		b.raw(`<script src="`, HTMXScript, `"></script>`, "\n")
		b.raw(`<script src="/static/app.js" defer></script>`, "\n")
		b.raw("</head>\n<body>\n")

		b.raw(`<header class="topbar">`, `<a class="brand" href="/">`)
		b.text(p.t("editor.title"))
		b.raw("</a>")
		if len(p.Languages) > 1 {
			b.raw(`<nav class="languages"`, attr("aria-label", p.t("editor.status.language")), ">")
			for _, lang := range p.Languages {
				b.raw("<a", attr("href", "?lang="+lang), attr("hreflang", lang), flag(`aria-current="true"`, lang == p.Lang), ">")
				b.text(lang)
				b.raw("</a>")
			}
			b.raw("</nav>")
		}
		b.raw("</header>\n<main>\n")
		b.raw(`<div id="alerts" aria-live="polite"></div>`, "\n")
		b.render(ctx, body)
		b.raw("\n</main>\n</body>\n</html>\n")
	})
}
