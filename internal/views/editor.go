package views

import (
	"context"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/disc-ucn/firma/pkg/i18n"
	"github.com/disc-ucn/firma/pkg/signature"
	"github.com/disc-ucn/firma/pkg/validator"
)

// Notice kinds.
const (
	NoticeInfo  = "info"
	NoticeError = "error"
)

// Notice is a one-off message shown above the editor actions.
type Notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// EditorView is everything the editor page and its partials render from.
// Errors and Warnings hold already translated messages.
type EditorView struct {
	Page
	Notice      Notice
	Preview     string
	Errors      validator.ValidationErrors
	Warnings    validator.ValidationErrors
	Data        signature.Data
	CopiedFor   time.Duration
	LogoSize    int
	Valid       bool
	Copied      bool
	MailEnabled bool
	// Quiet hides "required" errors of blank fields, so a fresh form is
	// not covered in red before anything was typed.
	Quiet bool
}

// FieldSpec describes how one settable field is presented.
type FieldSpec struct {
	Field signature.Field
	// Key is the validation key and the suffix of the label message.
	Key  string
	Type string
}

// Sections group the settable fields in form order. Positions are rendered
// between the personal and contact sections.
var (
	personalFields = []FieldSpec{
		{Field: signature.FieldFullName, Key: "fullName", Type: "text"},
	}
	contactFields = []FieldSpec{
		{Field: signature.FieldEmail, Key: "email", Type: "email"},
		{Field: signature.FieldPhone, Key: "phone", Type: "tel"},
	}
	linkFields = []FieldSpec{
		{Field: signature.FieldORCID, Key: "orcid", Type: "url"},
		{Field: signature.FieldWebsite, Key: "website", Type: "url"},
		{Field: signature.FieldLinkedIn, Key: "linkedin", Type: "url"},
		{Field: signature.FieldGoogleScholar, Key: "googleScholar", Type: "url"},
	}
	extraFields = []FieldSpec{
		{Field: signature.FieldAdditionalLink, Key: "additionalLink", Type: "url"},
		{Field: signature.FieldAdditionalLinkText, Key: "additionalLinkText", Type: "text"},
		{Field: signature.FieldCiaraMember, Key: "ciaraMember", Type: "checkbox"},
	}
)

// Spec returns the presentation of f.
func Spec(f signature.Field) (FieldSpec, bool) {
	for _, group := range [][]FieldSpec{personalFields, contactFields, linkFields, extraFields} {
		for _, s := range group {
			if s.Field == f {
				return s, true
			}
		}
	}
	return FieldSpec{}, false
}

// Value returns the current form value of f in d.
func Value(d signature.Data, f signature.Field) string {
	switch f {
	case signature.FieldFullName:
		return d.FullName
	case signature.FieldEmail:
		return d.Email
	case signature.FieldPhone:
		return d.Phone.String()
	case signature.FieldORCID:
		return d.ORCID.String()
	case signature.FieldWebsite:
		return d.Website.String()
	case signature.FieldLinkedIn:
		return d.Social.LinkedIn.String()
	case signature.FieldGoogleScholar:
		return d.Social.GoogleScholar.String()
	case signature.FieldAdditionalLink:
		return d.AdditionalLink.String()
	case signature.FieldAdditionalLinkText:
		return d.AdditionalLinkText.String()
	case signature.FieldCiaraMember:
		if d.CiaraMember {
			return "true"
		}
	}
	return ""
}

// EditorPage is the full editor.
func EditorPage(v EditorView) templ.Component {
	return layout(v.Page, editorBody(v))
}

func editorBody(v EditorView) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<div class="editor">`, "\n")

		b.raw(`<section class="intro"><h1>`)
		b.text(v.t("editor.title"))
		b.raw("</h1><p>")
		b.text(v.t("editor.subtitle"))
		b.raw("</p></section>\n")

		b.raw(`<form id="signature-form" class="form" action="/" method="get" onsubmit="return false;">`, "\n")
		section := func(key string, body func()) {
			b.raw(`<fieldset><legend>`)
			b.text(v.t("editor.section." + key))
			b.raw("</legend>\n")
			body()
			b.raw("</fieldset>\n")
		}
		fields := func(specs []FieldSpec) func() {
			return func() {
				for _, s := range specs {
					b.render(ctx, field(v, s))
				}
			}
		}
		section("personal", fields(personalFields))
		section("positions", func() { b.render(ctx, Positions(v, false)) })
		section("contact", fields(contactFields))
		section("links", fields(linkFields))
		section("extra", fields(extraFields))
		b.raw("</form>\n")

		b.raw(`<section class="output"><h2>`)
		b.text(v.t("editor.preview"))
		b.raw("</h2>\n")
		b.render(ctx, Preview(v, false))
		b.render(ctx, Status(v, false))
		b.raw(`<p class="help"><a href="/instructions">`)
		b.text(v.t("editor.action.instructions"))
		b.raw("</a></p>\n</section>\n</div>")
	})
}

func field(v EditorView, s FieldSpec) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		name := s.Field.String()
		id := "in-" + name
		value := Value(v.Data, s.Field)
		target := "#msg-" + s.Key

		b.raw(`<div class="field field-`, s.Type, `">`)
		if s.Type == "checkbox" {
			b.raw(`<label`, attr("for", id), ">")
			b.raw(`<input`, attr("id", id), ` name="value" type="checkbox" value="true"`, flag("checked", value == "true"),
				attr("hx-post", "/fields/"+name), ` hx-trigger="change"`, attr("hx-target", target), ` hx-swap="outerHTML">`)
			b.raw(" ")
			b.text(v.label(s))
			b.raw("</label>")
		} else {
			b.raw(`<label`, attr("for", id), ">")
			b.text(v.label(s))
			if s.Field == signature.FieldFullName || s.Field == signature.FieldEmail {
				b.raw(` <span class="required" aria-hidden="true">*</span>`)
			}
			b.raw("</label>")
			b.raw(`<input`, attr("id", id), ` name="value"`, attr("type", s.Type), attr("value", value),
				attr("maxlength", itoa(inputCap(s.Field))), ` autocomplete="off"`,
				attr("hx-post", "/fields/"+name), ` hx-trigger="input changed delay:300ms, change"`,
				attr("hx-target", target), ` hx-swap="outerHTML"`, attr("aria-describedby", "msg-"+s.Key), ">")
		}
		b.render(ctx, Message(v, s.Key, false))
		b.raw("</div>\n")
	})
}

func inputCap(f signature.Field) int {
	if f == signature.FieldFullName {
		return signature.FullNameInputCap
	}
	return signature.TextInputCap
}

func (v EditorView) label(s FieldSpec) string {
	return v.t("editor.field." + s.Key)
}

// Message is the inline error or warning under the input reported as key.
// With oob set the element replaces its counterpart out of band.
func Message(v EditorView, key string, oob bool) templ.Component {
	return component(func(_ context.Context, b *writer) {
		text, class := v.message(key)
		b.raw(`<p`, attr("id", "msg-"+key), attr("class", strings.TrimSpace("message "+class)))
		if class == "error" {
			b.raw(` role="alert"`)
		}
		if oob {
			b.raw(` hx-swap-oob="true"`)
		}
		b.raw(">")
		b.text(text)
		b.raw("</p>")
	})
}

func (v EditorView) message(key string) (text, class string) {
	for _, e := range v.Errors {
		if e.Field != key {
			continue
		}
		if v.Quiet && strings.Contains(e.TranslationKey, ".required") {
			break
		}
		return e.Message, "error"
	}
	if w := v.Warnings.First(key); w != "" {
		return w, "warning"
	}
	return "", ""
}

// Positions is the list of position slots with their add and remove controls.
func Positions(v EditorView, oob bool) templ.Component {
	return component(func(ctx context.Context, b *writer) {
		b.raw(`<div id="positions" class="positions"`)
		if oob {
			b.raw(` hx-swap-oob="true"`)
		}
		b.raw(">\n")

		slots := v.Data.Positions
		for i, p := range slots {
			key := validator.PositionKey(i)
			id := "in-" + key
			b.raw(`<div class="field position">`)
			b.raw(`<label`, attr("for", id), ">")
			b.text(v.t("editor.field.position", i18n.M{"n": i + 1}))
			if i == 0 {
				b.raw(` <span class="required" aria-hidden="true">*</span>`)
			}
			b.raw("</label>")
			b.raw(`<div class="row">`)
			b.raw(`<input`, attr("id", id), ` name="value" type="text"`, attr("value", p),
				attr("maxlength", itoa(signature.PositionInputCap)), ` autocomplete="off"`,
				attr("hx-put", "/positions/"+itoa(i)), ` hx-trigger="input changed delay:300ms, change"`,
				attr("hx-target", "#msg-"+key), ` hx-swap="outerHTML"`, attr("aria-describedby", "msg-"+key), ">")
			if len(slots) > 1 {
				b.raw(`<button type="button" class="link"`, attr("hx-delete", "/positions/"+itoa(i)),
					` hx-target="#positions" hx-swap="outerHTML">`)
				b.text(v.t("editor.action.removePosition"))
				b.raw("</button>")
			}
			b.raw("</div>")
			b.render(ctx, Message(v, key, false))
			b.raw("</div>\n")
		}

		full := len(slots) >= signature.MaxPositions
		b.raw(`<button type="button" class="secondary" hx-post="/positions" hx-target="#positions" hx-swap="outerHTML"`,
			flag("disabled", full), attr("title", v.t("editor.notice.maxPositions", i18n.M{"max": signature.MaxPositions})), ">")
		b.text(v.t("editor.action.addPosition"))
		b.raw("</button>\n")
		b.render(ctx, Message(v, "positions", false))
		b.raw("\n</div>")
	})
}

// Preview is the live signature rendition. The composed HTML is inserted verbatim.
func Preview(v EditorView, oob bool) templ.Component {
	return component(func(_ context.Context, b *writer) {
		b.raw(`<div id="preview" class="preview"`, attr("data-logo-size", itoa(v.LogoSize)))
		if oob {
			b.raw(` hx-swap-oob="true"`)
		}
		b.raw(">\n", v.Preview, "\n</div>\n")
	})
}

// Status holds the copy button, the downloads and the current notice.
func Status(v EditorView, oob bool) templ.Component {
	return component(func(_ context.Context, b *writer) {
		b.raw(`<div id="status" class="status"`, attr("data-valid", boolString(v.Valid)), attr("data-copied", boolString(v.Copied)))
		if oob {
			b.raw(` hx-swap-oob="true"`)
		}
		b.raw(">\n")

		if v.Notice.Text != "" {
			b.raw(`<p class="notice notice-`, templ.EscapeString(v.Notice.Kind), `" role="status">`)
			b.text(v.Notice.Text)
			b.raw("</p>\n")
		}

		b.raw(`<div class="actions">`)
		label := v.t("editor.action.copy")
		if v.Copied {
			label = v.t("editor.action.copied")
		}
		b.raw(`<button type="button" id="copy" class="primary" hx-post="/copy" hx-target="#status" hx-swap="outerHTML"`,
			flag("disabled", !v.Valid), ">")
		b.text(label)
		b.raw("</button>")

		if v.Valid {
			b.raw(`<a class="button" href="/signature.html" download>`)
			b.text(v.t("editor.action.download"))
			b.raw(`</a><a class="button" href="/signature.txt" download>`)
			b.text(v.t("editor.action.downloadText"))
			b.raw("</a>")
			if v.MailEnabled {
				b.raw(`<button type="button" class="secondary" hx-post="/send" hx-target="#status" hx-swap="outerHTML">`)
				b.text(v.t("editor.action.send"))
				b.raw("</button>")
			}
		}

		b.raw(`<form method="post" action="/reset" class="inline"><button type="submit" class="link">`)
		b.text(v.t("editor.action.reset"))
		b.raw("</button></form>")
		b.raw("</div>\n")

		b.raw(`<p class="meta">`)
		b.text(v.t("editor.status.logo", i18n.M{"size": v.LogoSize}))
		b.raw("</p>\n")

		// Poll once when the copied flag lapses so the button label resets.
		if v.Copied && v.CopiedFor > 0 {
			b.raw(`<span hx-get="/status"`, attr("hx-trigger", "load delay:"+itoa(int(v.CopiedFor.Milliseconds()))+"ms"),
				` hx-target="#status" hx-swap="outerHTML"></span>`, "\n")
		}
		b.raw("</div>\n")
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
