package views

import (
	"context"

	"github.com/a-h/templ"
)

// InstructionsPage renders the installation guide. body is trusted HTML
// produced from the embedded markdown.
func InstructionsPage(p Page, body string) templ.Component {
	if p.Title == "" {
		p.Title = p.t("instructions.title")
	}
	return layout(p, component(func(_ context.Context, b *writer) {
		b.raw(`<article class="instructions">`, "\n", body, "\n")
		b.raw(`<p><a class="button" href="/">`)
		b.text(p.t("error.back"))
		b.raw("</a></p>\n</article>")
	}))
}

// ErrorPage renders a full page error with a link back to the editor.
func ErrorPage(p Page, code int, message string) templ.Component {
	return layout(p, ErrorPanel(p, code, message))
}

// ErrorPanel is the error body on its own, for HTMX swaps.
func ErrorPanel(p Page, code int, message string) templ.Component {
	return component(func(_ context.Context, b *writer) {
		b.raw(`<section class="error-panel" role="alert"`, attr("data-status", itoa(code)), "><h1>")
		b.text(itoa(code))
		b.raw("</h1><p>")
		b.text(message)
		b.raw(`</p><p><a href="/">`)
		b.text(p.t("error.back"))
		b.raw("</a></p></section>")
	})
}
