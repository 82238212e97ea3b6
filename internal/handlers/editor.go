// Package handlers holds the HTTP handlers of the signature editor.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/disc-ucn/firma/internal"
	"github.com/disc-ucn/firma/internal/editor"
	"github.com/disc-ucn/firma/internal/views"
	"github.com/disc-ucn/firma/pkg/htmx"
	"github.com/disc-ucn/firma/pkg/i18n"
	"github.com/disc-ucn/firma/pkg/mailer"
	"github.com/disc-ucn/firma/pkg/session"
	"github.com/disc-ucn/firma/pkg/signature"
	"github.com/disc-ucn/firma/pkg/validator"
)

// Client events announced through HX-Trigger. EventCopyReady asks the
// browser to write #preview to its clipboard and report the outcome to
// POST /copy/confirm, which answers with EventCopied or EventCopyFailed.
const (
	EventCopyReady  = "signature-copy-ready"
	EventCopied     = "signature-copied"
	EventCopyFailed = "signature-copy-failed"
)

// Outcomes reported by the browser to POST /copy/confirm.
const (
	CopyResultOK     = "ok"
	CopyResultFailed = "failed"
)

const noticeFlash = "notice"

// Mailer sends a composed signature by e-mail. *mailer.Mailer satisfies it.
type Mailer interface {
	SendSignature(ctx context.Context, msg mailer.SignatureMail) error
}

// Editor serves the signature editor. Every request restores an
// editor.Editor from the caller's session and writes it back afterwards.
type Editor struct {
	svc       *editor.Service
	mail      Mailer
	guide     map[string]string
	now       func() time.Time
	languages []string
	fallback  string
}

// EditorOption configures an Editor handler.
type EditorOption func(*Editor)

// WithMailer enables POST /send.
func WithMailer(m Mailer) EditorOption {
	return func(h *Editor) {
		h.mail = m
	}
}

// WithClock replaces time.Now for the copied countdown.
func WithClock(now func() time.Time) EditorOption {
	return func(h *Editor) {
		if now != nil {
			h.now = now
		}
	}
}

// NewEditor creates the editor handler. catalog provides the language list
// shown in the page header.
func NewEditor(svc *editor.Service, catalog *i18n.I18n, opts ...EditorOption) (*Editor, error) {
	guide, err := renderGuide()
	if err != nil {
		return nil, err
	}

	h := &Editor{
		svc:       svc,
		guide:     guide,
		now:       time.Now,
		languages: catalog.Languages(),
		fallback:  catalog.DefaultLanguage(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Routes declares the editor routes.
func (h *Editor) Routes(r internal.Router) {
	r.GET("/", h.index)
	r.GET("/status", h.status)
	r.GET("/instructions", h.instructions)
	r.GET("/signature.html", h.downloadHTML)
	r.GET("/signature.txt", h.downloadText)

	r.POST("/fields/{field}", h.setField)
	r.POST("/positions", h.addPosition)
	r.PUT("/positions/{index}", h.setPosition)
	r.DELETE("/positions/{index}", h.removePosition)
	r.POST("/preview/height", h.observeHeight)
	r.POST("/copy", h.copy)
	r.POST("/copy/confirm", h.confirmCopy)
	r.POST("/send", h.send)
	r.POST("/reset", h.reset)
}

// --- Session state ---

func (h *Editor) load(c internal.Context) (*session.Session, *editor.Editor, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, nil, err
	}
	ed := h.svc.Restore(editor.State{
		Owner:        sess.ID,
		Draft:        sess.Draft,
		LogoSize:     sess.LogoSize,
		LogoObserved: sess.LogoObserved,
		CopiedUntil:  sess.CopiedUntil,
	})
	return sess, ed, nil
}

func save(sess *session.Session, ed *editor.Editor) {
	st := ed.State()
	sess.SetDraft(st.Draft)
	sess.LogoSize = st.LogoSize
	sess.LogoObserved = st.LogoObserved
	sess.CopiedUntil = st.CopiedUntil
}

func (h *Editor) page(c internal.Context) views.Page {
	lang := c.Language()
	if lang == "" {
		lang = h.fallback
	}
	return views.Page{T: c.T, Lang: lang, Languages: h.languages}
}

func (h *Editor) view(c internal.Context, ed *editor.Editor) views.EditorView {
	rep := ed.Report()
	errs := slices.Clone(rep.Errors)
	warns := slices.Clone(rep.Warnings)
	if tr := c.Translator(); tr != nil {
		errs.Translate(tr.TranslateMessage)
		warns.Translate(tr.TranslateMessage)
	}

	v := views.EditorView{
		Page:        h.page(c),
		Data:        ed.Data(),
		Errors:      errs,
		Warnings:    warns,
		Preview:     ed.Preview(),
		LogoSize:    ed.LogoSize(),
		Valid:       rep.Valid(),
		Copied:      ed.Copied(),
		MailEnabled: h.mail != nil,
	}
	if v.Copied {
		v.CopiedFor = ed.CopiedUntil().Sub(h.now())
	}
	return v
}

// update answers an HTMX edit with the message for key plus fresh preview
// and status. Plain form posts are redirected back to the editor.
func (h *Editor) update(c internal.Context, v views.EditorView, key string) error {
	if !c.IsHTMX() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	oob := []htmx.Renderable{views.Preview(v, true), views.Status(v, true)}
	if strings.HasPrefix(key, "position-") {
		oob = append(oob, views.Message(v, "positions", true))
	}
	return c.Render(http.StatusOK, views.Message(v, key, false), htmx.WithOOB(oob...))
}

// --- Pages ---

func (h *Editor) index(c internal.Context) error {
	_, ed, err := h.load(c)
	if err != nil {
		return err
	}
	v := h.view(c, ed)
	v.Quiet = true

	var notice views.Notice
	if err := c.Flash(noticeFlash, &notice); err == nil {
		v.Notice = notice
	}
	return c.Render(http.StatusOK, views.EditorPage(v))
}

func (h *Editor) status(c internal.Context) error {
	_, ed, err := h.load(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.Status(h.view(c, ed), false))
}

func (h *Editor) instructions(c internal.Context) error {
	p := h.page(c)
	body, ok := h.guide[p.Lang]
	if !ok {
		body = h.guide[h.fallback]
	}
	return c.Render(http.StatusOK, views.InstructionsPage(p, body))
}

// --- Edits ---

func (h *Editor) setField(c internal.Context) error {
	f, err := signature.ParseField(c.Param("field"))
	if err != nil {
		return internal.ErrNotFound(c.T("error.notFound"), internal.WithError(err))
	}
	spec, _ := views.Spec(f)

	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}
	if err := ed.SetField(f, c.Form("value")); err != nil {
		return internal.ErrBadRequest(err.Error(), internal.WithError(err))
	}
	save(sess, ed)

	return h.update(c, h.view(c, ed), spec.Key)
}

func (h *Editor) setPosition(c internal.Context) error {
	i, ok := internal.Param[int](c, "index")
	if !ok {
		return internal.ErrBadRequest("invalid position index")
	}

	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}
	if err := ed.SetPosition(i, c.Form("value")); err != nil {
		return positionError(c, err)
	}
	save(sess, ed)

	return h.update(c, h.view(c, ed), validator.PositionKey(i))
}

func (h *Editor) addPosition(c internal.Context) error {
	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}

	code := http.StatusOK
	addErr := ed.AddPosition()
	switch {
	case errors.Is(addErr, signature.ErrTooManyPositions):
		code = http.StatusConflict
	case addErr != nil:
		return addErr
	default:
		save(sess, ed)
	}

	v := h.view(c, ed)
	if code == http.StatusConflict {
		v.Notice = views.Notice{Kind: views.NoticeError, Text: c.T("editor.notice.maxPositions", i18n.M{"max": signature.MaxPositions})}
	}
	return h.positions(c, code, v)
}

func (h *Editor) removePosition(c internal.Context) error {
	i, ok := internal.Param[int](c, "index")
	if !ok {
		return internal.ErrBadRequest("invalid position index")
	}

	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}

	code := http.StatusOK
	removeErr := ed.RemovePosition(i)
	switch {
	case errors.Is(removeErr, signature.ErrLastPosition):
		code = http.StatusConflict
	case removeErr != nil:
		return positionError(c, removeErr)
	default:
		save(sess, ed)
	}
	return h.positions(c, code, h.view(c, ed))
}

func (h *Editor) positions(c internal.Context, code int, v views.EditorView) error {
	if !c.IsHTMX() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(code, views.Positions(v, false), htmx.WithOOB(views.Preview(v, true), views.Status(v, true)))
}

func positionError(c internal.Context, err error) error {
	if errors.Is(err, signature.ErrIndexOutOfRange) {
		return internal.ErrNotFound(c.T("error.notFound"), internal.WithError(err))
	}
	return err
}

func (h *Editor) observeHeight(c internal.Context) error {
	height, err := strconv.ParseFloat(strings.TrimSpace(c.Form("height")), 64)
	if err != nil {
		return internal.ErrBadRequest("invalid height", internal.WithError(err))
	}

	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}
	if _, changed := ed.ObserveHeight(height); !changed {
		return c.NoContent(http.StatusNoContent)
	}
	save(sess, ed)

	v := h.view(c, ed)
	return c.Render(http.StatusOK, views.Preview(v, false), htmx.WithOOB(views.Status(v, true)))
}

func (h *Editor) reset(c internal.Context) error {
	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}
	ed.Reset()
	save(sess, ed)

	notice := views.Notice{Kind: views.NoticeInfo, Text: c.T("editor.notice.reset")}
	if err := c.SetFlash(noticeFlash, notice); err != nil {
		c.LogWarn("flash not set", "error", err)
	}
	if c.IsHTMX() {
		htmx.RedirectWithStatus(c.Response(), c.Request(), "/", http.StatusSeeOther)
		return nil
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// --- Output ---

func (h *Editor) copy(c internal.Context) error {
	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}

	// Only the page script can reach the browser clipboard.
	if !c.IsHTMX() {
		key := "editor.notice.copyScript"
		if !ed.Valid() {
			key = "editor.notice.invalid"
		}
		if err := c.SetFlash(noticeFlash, views.Notice{Kind: views.NoticeError, Text: c.T(key)}); err != nil {
			c.LogWarn("flash not set", "error", err)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}

	if !ed.Copy(c.Context()) {
		key := "editor.notice.invalid"
		if ed.Valid() {
			c.LogWarn("signature copy failed")
			key = "editor.notice.copyFailed"
		}
		return h.copyFailed(c, sess, ed, key)
	}
	// The flag waits for the browser to confirm its own write.
	ed.CopyFailed()
	save(sess, ed)

	return c.Render(http.StatusOK, views.Status(h.view(c, ed), false), htmx.WithTrigger(EventCopyReady))
}

// confirmCopy records the outcome of the browser clipboard write. Only a
// reported success on a valid draft turns the copied flag on.
func (h *Editor) confirmCopy(c internal.Context) error {
	sess, ed, err := h.load(c)
	if err != nil {
		return err
	}

	switch c.Form("result") {
	case CopyResultOK:
		if !ed.ConfirmCopy() {
			return h.copyFailed(c, sess, ed, "editor.notice.invalid")
		}
	case CopyResultFailed:
		c.LogWarn("browser clipboard write failed")
		return h.copyFailed(c, sess, ed, "editor.notice.copyFailed")
	default:
		return internal.ErrBadRequest("invalid copy result")
	}
	save(sess, ed)

	if !c.IsHTMX() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, views.Status(h.view(c, ed), false), htmx.WithTrigger(EventCopied))
}

func (h *Editor) copyFailed(c internal.Context, sess *session.Session, ed *editor.Editor, key string) error {
	ed.CopyFailed()
	save(sess, ed)

	v := h.view(c, ed)
	v.Notice = views.Notice{Kind: views.NoticeError, Text: c.T(key)}
	if !c.IsHTMX() {
		if err := c.SetFlash(noticeFlash, v.Notice); err != nil {
			c.LogWarn("flash not set", "error", err)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, views.Status(v, false), htmx.WithTrigger(EventCopyFailed))
}

// document wraps a composed fragment so the downloaded file opens with the
// right encoding.
func document(fragment string) string {
	return "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Firma</title>\n</head>\n<body>\n" +
		fragment + "\n</body>\n</html>\n"
}

func (h *Editor) export(c internal.Context) (html, text string, err error) {
	_, ed, err := h.load(c)
	if err != nil {
		return "", "", err
	}
	html, text, err = ed.Export()
	if err != nil {
		return "", "", internal.ErrUnprocessable(c.T("editor.notice.invalid"), internal.WithError(err))
	}
	return html, text, nil
}

func (h *Editor) downloadHTML(c internal.Context) error {
	html, _, err := h.export(c)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/html; charset=utf-8", "firma.html", []byte(document(html)))
}

func (h *Editor) downloadText(c internal.Context) error {
	_, text, err := h.export(c)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", "firma.txt", []byte(text))
}

func (h *Editor) send(c internal.Context) error {
	_, ed, err := h.load(c)
	if err != nil {
		return err
	}
	v := h.view(c, ed)

	code := http.StatusOK
	switch {
	case h.mail == nil:
		code = http.StatusServiceUnavailable
		v.Notice = views.Notice{Kind: views.NoticeError, Text: c.T("editor.notice.mailDisabled")}
	case !v.Valid:
		code = http.StatusUnprocessableEntity
		v.Notice = views.Notice{Kind: views.NoticeError, Text: c.T("editor.notice.invalid")}
	default:
		html, text, exportErr := ed.Export()
		if exportErr == nil {
			exportErr = h.mail.SendSignature(c.Context(), mailer.SignatureMail{
				To:        v.Data.Email,
				Name:      strings.TrimSpace(v.Data.FullName),
				Lang:      v.Lang,
				Signature: html,
				Text:      text,
			})
		}
		if exportErr != nil {
			c.LogError("signature mail failed", "email", v.Data.Email, "error", exportErr)
			code = http.StatusBadGateway
			v.Notice = views.Notice{Kind: views.NoticeError, Text: c.T("editor.notice.sendFailed")}
			break
		}
		c.LogInfo("signature mailed", "email", v.Data.Email)
		v.Notice = views.Notice{Kind: views.NoticeInfo, Text: c.T("editor.notice.sent", i18n.M{"email": v.Data.Email})}
	}

	if !c.IsHTMX() {
		if err := c.SetFlash(noticeFlash, v.Notice); err != nil {
			c.LogWarn("flash not set", "error", err)
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(code, views.Status(v, false))
}
