package mailer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/mailer"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email *mailer.Email) error {
	return m.Called(ctx, email).Error(0)
}

const signatureHTML = `<table role="presentation" style="border-collapse:collapse;"><tr><td>Ana Pérez</td></tr></table>`

// --- Send ---

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`<html><body>{{.Content}}</body></html>`)},
		"welcome.md":        {Data: []byte("---\nSubject: Hola {{.Name}}\n---\nHola **{{.Name}}**\n")},
		"plain.md":          {Data: []byte("Sin asunto\n")},
	}

	t.Run("subject from front matter", func(t *testing.T) {
		t.Parallel()

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
			return e.To[0] == "ana@ucn.cl" &&
				e.Subject == "Hola Ana" &&
				strings.Contains(e.HTML, "<strong>Ana</strong>") &&
				strings.Contains(e.Text, "Hola **Ana**")
		})).Return(nil).Once()

		m := mailer.New(sender, mailer.NewRenderer(fsys, "layouts"), mailer.Config{})
		require.NoError(t, m.Send(context.Background(), mailer.SendParams{
			To:       "ana@ucn.cl",
			Template: "welcome.md",
			Data:     map[string]string{"Name": "Ana"},
		}))
		sender.AssertExpectations(t)
	})

	t.Run("fallback subject", func(t *testing.T) {
		t.Parallel()

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
			return e.Subject == "Firma" && strings.HasSuffix(e.Text, "--\nextra")
		})).Return(nil).Once()

		m := mailer.New(sender, mailer.NewRenderer(fsys, "layouts"), mailer.Config{FallbackSubject: "Firma"})
		require.NoError(t, m.Send(context.Background(), mailer.SendParams{
			To:       "ana@ucn.cl",
			Template: "plain.md",
			Text:     "extra",
		}))
		sender.AssertExpectations(t)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("boom"))
		m := mailer.New(sender, mailer.NewRenderer(fsys, "layouts"), mailer.Config{})

		require.ErrorIs(t, m.Send(context.Background(), mailer.SendParams{Template: "plain.md"}), mailer.ErrNoRecipient)

		err := m.Send(context.Background(), mailer.SendParams{To: "a@ucn.cl", Template: "missing.md"})
		require.ErrorIs(t, err, mailer.ErrRenderFailed)
		require.ErrorIs(t, err, mailer.ErrTemplateNotFound)

		err = m.Send(context.Background(), mailer.SendParams{To: "a@ucn.cl", Template: "plain.md", Layout: "none.html"})
		require.ErrorIs(t, err, mailer.ErrLayoutNotFound)

		err = m.Send(context.Background(), mailer.SendParams{To: "a@ucn.cl", Template: "welcome.md", Data: map[string]string{"Name": "x"}})
		require.ErrorIs(t, err, mailer.ErrSendFailed)
	})
}

func TestMailer_SendRaw(t *testing.T) {
	t.Parallel()

	m := mailer.New(&mockSender{}, nil, mailer.Config{})
	ctx := context.Background()

	require.ErrorIs(t, m.SendRaw(ctx, &mailer.Email{}), mailer.ErrNoRecipient)
	require.ErrorIs(t, m.SendRaw(ctx, &mailer.Email{To: []string{"a@ucn.cl"}}), mailer.ErrNoSubject)
	require.ErrorIs(t, m.SendRaw(ctx, &mailer.Email{To: []string{"a@ucn.cl"}, Subject: "s"}), mailer.ErrNoContent)
}

// --- Signature ---

func TestMailer_SendSignature(t *testing.T) {
	t.Parallel()

	var sent *mailer.Email
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(*mailer.Email)
	}).Return(nil)

	m := mailer.New(sender, nil, mailer.Config{BaseURL: "https://firmas.ucn.cl/"})
	require.NoError(t, m.SendSignature(context.Background(), mailer.SignatureMail{
		To:        "ana@ucn.cl",
		Name:      "Ana Pérez",
		Lang:      "pt",
		Signature: signatureHTML,
		Text:      "Ana Pérez\nProfesora",
	}))

	require.NotNil(t, sent)
	assert.Equal(t, []string{"ana@ucn.cl"}, sent.To)
	assert.Equal(t, "Tu firma de correo UCN, Ana Pérez", sent.Subject)
	assert.Contains(t, sent.HTML, signatureHTML)
	assert.Contains(t, sent.HTML, `lang="es"`)
	assert.Contains(t, sent.HTML, `href="https://firmas.ucn.cl/instructions"`)
	assert.Contains(t, sent.HTML, mailer.ButtonStyle)
	assert.True(t, strings.HasSuffix(sent.Text, "--\nAna Pérez\nProfesora"))
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "firma.html", sent.Attachments[0].Filename)
	assert.Equal(t, signatureHTML, string(sent.Attachments[0].Content))
	assert.Equal(t, "signature-test", sent.Tags["kind"])
}

func TestMailer_SendSignature_English(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
		return e.Subject == "Your UCN email signature, Ana" && strings.Contains(e.HTML, `lang="en"`)
	})).Return(nil).Once()

	m := mailer.New(sender, nil, mailer.Config{})
	require.NoError(t, m.SendSignature(context.Background(), mailer.SignatureMail{
		To: "ana@ucn.cl", Name: "Ana", Lang: "en", Signature: signatureHTML,
	}))
	sender.AssertExpectations(t)

	require.ErrorIs(t, m.SendSignature(context.Background(), mailer.SignatureMail{To: "ana@ucn.cl"}), mailer.ErrNoContent)
}

// --- Templates ---

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tmpl, err := mailer.ParseTemplate([]byte("---\nSubject: Hola\n---\r\nCuerpo"))
	require.NoError(t, err)
	assert.Equal(t, "Hola", tmpl.Metadata["Subject"])
	assert.Equal(t, "Cuerpo", tmpl.Body)

	tmpl, err = mailer.ParseTemplate([]byte("Solo cuerpo"))
	require.NoError(t, err)
	assert.Empty(t, tmpl.Metadata)

	for _, bad := range []string{"---", "---\nSubject: x\n", "---\n: [\n---\nbody"} {
		_, err = mailer.ParseTemplate([]byte(bad))
		require.ErrorIs(t, err, mailer.ErrInvalidFrontmatter, bad)
	}
}

func TestButtonExtension(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	require.NoError(t, mailer.NewMarkdown().Convert([]byte("[!button|Ver](https://firmas.ucn.cl/instructions)"), &buf))
	assert.Contains(t, buf.String(), `<a href="https://firmas.ucn.cl/instructions" style="`)
	assert.Contains(t, buf.String(), ">Ver</a>")

	buf.Reset()
	require.NoError(t, mailer.NewMarkdown().Convert([]byte("[normal](https://ucn.cl)"), &buf))
	assert.Contains(t, buf.String(), `<a href="https://ucn.cl">normal</a>`)
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@ucn.cl", mailer.Recipient("", "a@ucn.cl"))
	assert.Equal(t, `"Ana" <a@ucn.cl>`, mailer.Recipient("Ana", "a@ucn.cl"))
}
