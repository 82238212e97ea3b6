// Package editor holds the signature editing controller. An Editor owns one
// draft with its validation report, logo sizer and transient copied flag. It
// is rebuilt from a State for every request and written back afterwards.
package editor

import (
	"context"
	"errors"
	"time"

	"github.com/disc-ucn/firma/pkg/composer"
	"github.com/disc-ucn/firma/pkg/logosize"
	"github.com/disc-ucn/firma/pkg/signature"
	"github.com/disc-ucn/firma/pkg/validator"
)

// DefaultCopiedWindow is how long the copied flag stays on after a copy.
const DefaultCopiedWindow = 3 * time.Second

// ErrInvalid is returned by operations that need a valid form.
var ErrInvalid = errors.New("editor: signature form is invalid")

// Publisher places composed HTML on a clipboard on behalf of an owner.
// Overlapping publishes are only serialised per owner. *clipboard.Pool
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, owner, html string) bool
}

// Metrics receives editor events. *metrics.Metrics satisfies it.
type Metrics interface {
	IncrementCompositions()
	IncrementValidationFailure(field string)
	IncrementLogoResizes()
}

// Service carries the dependencies shared by all editors.
type Service struct {
	publisher    Publisher
	metrics      Metrics
	now          func() time.Time
	copiedWindow time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCopiedWindow sets how long Copied reports true after a copy.
func WithCopiedWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.copiedWindow = d
		}
	}
}

// WithMetrics reports editor events to m.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a Service publishing through p.
func NewService(p Publisher, opts ...Option) *Service {
	s := &Service{
		publisher:    p,
		metrics:      nopMetrics{},
		now:          time.Now,
		copiedWindow: DefaultCopiedWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State is the persisted part of an Editor. Owner identifies the session
// and scopes clipboard publishes.
type State struct {
	CopiedUntil  time.Time
	Owner        string
	Draft        signature.Data
	LogoSize     int
	LogoObserved bool
}

// New returns an Editor with an empty draft.
func (s *Service) New() *Editor {
	return s.Restore(State{Draft: signature.Empty()})
}

// Restore rebuilds an Editor from a saved State.
func (s *Service) Restore(st State) *Editor {
	sizer := logosize.NewSizer()
	if st.LogoObserved {
		sizer = logosize.Restore(st.LogoSize, true)
	}
	return &Editor{
		svc:         s,
		owner:       st.Owner,
		draft:       st.Draft.Clone(),
		sizer:       sizer,
		copiedUntil: st.CopiedUntil,
	}
}

// Editor is the controller for one editing session. It is not safe for
// concurrent use; the session layer serialises requests per session.
type Editor struct {
	svc         *Service
	sizer       *logosize.Sizer
	report      *validator.Report
	copiedUntil time.Time
	owner       string
	draft       signature.Data
}

// State returns the persisted form of e.
func (e *Editor) State() State {
	return State{
		Owner:        e.owner,
		Draft:        e.draft.Clone(),
		LogoSize:     e.sizer.Size(),
		LogoObserved: e.sizer.Observed(),
		CopiedUntil:  e.copiedUntil,
	}
}

// Data returns a copy of the draft.
func (e *Editor) Data() signature.Data {
	return e.draft.Clone()
}

// SetField sets one scalar field.
func (e *Editor) SetField(f signature.Field, value string) error {
	return e.apply(func(d signature.Data) (signature.Data, error) {
		return d.SetField(f, value)
	})
}

// SetPosition sets position slot i.
func (e *Editor) SetPosition(i int, value string) error {
	return e.apply(func(d signature.Data) (signature.Data, error) {
		return d.SetPosition(i, value)
	})
}

// AddPosition appends a blank position slot.
func (e *Editor) AddPosition() error {
	return e.apply(signature.Data.AddPosition)
}

// RemovePosition removes slot i.
func (e *Editor) RemovePosition(i int) error {
	return e.apply(func(d signature.Data) (signature.Data, error) {
		return d.RemovePosition(i)
	})
}

// Reset clears the draft, the copied flag and any logo measurement.
func (e *Editor) Reset() {
	e.draft = e.draft.Reset()
	e.report = nil
	e.copiedUntil = time.Time{}
	e.sizer.Reset()
}

func (e *Editor) apply(op func(signature.Data) (signature.Data, error)) error {
	next, err := op(e.draft)
	if err != nil {
		return err
	}
	e.draft = next
	e.report = nil
	return nil
}

// ObserveHeight applies a measured text block height to the logo size.
func (e *Editor) ObserveHeight(h float64) (size int, changed bool) {
	size, changed = e.sizer.Observe(h)
	if changed {
		e.svc.metrics.IncrementLogoResizes()
	}
	return size, changed
}

// LogoSize is the measured size once a height was observed, otherwise the
// analytic size for the filled positions.
func (e *Editor) LogoSize() int {
	if e.sizer.Observed() {
		return e.sizer.Size()
	}
	return logosize.ForPositions(len(e.draft.FilledPositions()))
}

// Report validates the draft. The result is cached until the next change.
func (e *Editor) Report() validator.Report {
	if e.report == nil {
		r := validator.ValidateForm(e.draft)
		e.report = &r
	}
	return *e.report
}

// Valid reports whether the draft can be copied.
func (e *Editor) Valid() bool {
	return e.Report().Valid()
}

// Preview renders the draft. It always renders, even for invalid drafts.
func (e *Editor) Preview() string {
	e.svc.metrics.IncrementCompositions()
	return composer.Compose(e.draft, e.LogoSize())
}

// PlainText renders the text-only rendition of the draft.
func (e *Editor) PlainText() string {
	return composer.PlainText(e.draft)
}

// Copied reports whether a copy succeeded within the copied window.
func (e *Editor) Copied() bool {
	return !e.copiedUntil.IsZero() && e.svc.now().Before(e.copiedUntil)
}

// CopiedUntil returns when the copied flag turns off. Zero means off.
func (e *Editor) CopiedUntil() time.Time {
	if !e.Copied() {
		return time.Time{}
	}
	return e.copiedUntil
}

// Copy publishes the composed draft. An invalid form is never published;
// its reported errors are counted and Copy returns false.
//
// A successful publish does not turn the copied flag on. The browser writes
// its own clipboard afterwards and reports the outcome through ConfirmCopy
// or CopyFailed.
func (e *Editor) Copy(ctx context.Context) bool {
	report := e.Report()
	if !report.Valid() {
		for _, fe := range report.Errors {
			e.svc.metrics.IncrementValidationFailure(fe.Field)
		}
		return false
	}

	return e.svc.publisher.Publish(ctx, e.owner, e.Preview())
}

// ConfirmCopy turns the copied flag on for the copied window once the
// clipboard write is known to have succeeded. It returns false and leaves
// the flag off when the draft is invalid.
func (e *Editor) ConfirmCopy() bool {
	if !e.Valid() {
		return false
	}
	e.copiedUntil = e.svc.now().Add(e.svc.copiedWindow)
	return true
}

// CopyFailed turns the copied flag off.
func (e *Editor) CopyFailed() {
	e.copiedUntil = time.Time{}
}

// Export returns the composed HTML and text of a valid draft.
func (e *Editor) Export() (html, text string, err error) {
	if err := e.Report().Err(); err != nil {
		return "", "", errors.Join(ErrInvalid, err)
	}
	return e.Preview(), e.PlainText(), nil
}

type nopMetrics struct{}

func (nopMetrics) IncrementCompositions() {}
func (nopMetrics) IncrementValidationFailure(string) {}
func (nopMetrics) IncrementLogoResizes() {}
