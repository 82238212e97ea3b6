// Package mailer renders markdown mail templates and delivers them through a
// Sender. Its main use is sending users a copy of their composed signature.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"
)

//go:embed templates
var templates embed.FS

// Templates returns the embedded mail templates rooted at their directory.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Mailer renders templates and hands the result to a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a Mailer. A nil renderer uses the embedded templates.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	if renderer == nil {
		renderer = NewRenderer(Templates(), "layouts")
	}
	if cfg.DefaultLayout == "" {
		cfg.DefaultLayout = "base.html"
	}
	return &Mailer{sender: sender, renderer: renderer, config: cfg}
}

// SendParams describes one templated email.
type SendParams struct {
	Data        any
	To          string
	Template    string
	Subject     string
	Layout      string
	ReplyTo     string
	Text        string // appended to the rendered plain text
	Tags        Tags
	Attachments []Attachment
}

// Send renders a template and sends it.
// Subject resolution: params.Subject, then template metadata, then config fallback.
func (m *Mailer) Send(ctx context.Context, params SendParams) error {
	if params.To == "" {
		return ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		if s, ok := result.Metadata["Subject"].(string); ok {
			subject = s
		} else {
			subject = m.config.FallbackSubject
		}
	}

	subject, err = executeSubject(subject, params.Data)
	if err != nil {
		return errors.Join(ErrRenderFailed, err)
	}

	text := result.Text
	if params.Text != "" {
		text = strings.TrimRight(text, "\n") + "\n\n--\n" + params.Text
	}

	return m.SendRaw(ctx, &Email{
		To:          []string{params.To},
		Subject:     subject,
		HTML:        result.HTML,
		Text:        text,
		ReplyTo:     params.ReplyTo,
		Tags:        params.Tags,
		Attachments: params.Attachments,
	})
}

// SendRaw sends a pre-built email without template rendering.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipient
	}
	if email.Subject == "" {
		return ErrNoSubject
	}
	if email.HTML == "" {
		return ErrNoContent
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	return nil
}

// SignatureMail is the data for the signature test email.
type SignatureMail struct {
	To        string
	Name      string
	Lang      string
	Signature string // composed HTML fragment
	Text      string // plain text rendition
}

type signatureData struct {
	Name            string
	Lang            string
	InstructionsURL string
	Signature       template.HTML
}

// SendSignature emails a composed signature to its owner, embedded in the
// body and attached as firma.html.
func (m *Mailer) SendSignature(ctx context.Context, msg SignatureMail) error {
	if msg.Signature == "" {
		return ErrNoContent
	}

	lang := msg.Lang
	name := "signature_" + lang + ".md"
	if lang == "" || !m.renderer.Exists(name) {
		lang = "es"
		name = "signature_es.md"
	}

	return m.Send(ctx, SendParams{
		To:       msg.To,
		Template: name,
		Data: signatureData{
			Name:            msg.Name,
			Lang:            lang,
			InstructionsURL: strings.TrimRight(m.config.BaseURL, "/") + "/instructions",
			// Composer output escapes all user input.
			Signature: template.HTML(msg.Signature),
		},
		Text: msg.Text,
		Tags: Tags{"kind": "signature-test"},
		Attachments: []Attachment{{
			Filename:    "firma.html",
			ContentType: "text/html; charset=utf-8",
			Content:     []byte(msg.Signature),
		}},
	})
}

func executeSubject(subject string, data any) (string, error) {
	if !strings.Contains(subject, "{{") {
		return subject, nil
	}
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
