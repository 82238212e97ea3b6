package validator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/disc-ucn/firma/pkg/signature"
)

// Length limits for required text fields.
const (
	FullNameMaxLen = 60
	PositionMaxLen = 80
)

// InstitutionalDomain is the recommended email domain.
const InstitutionalDomain = "ucn.cl"

var (
	fullNameRegex = regexp.MustCompile(`^[\p{L}\p{M} '\-.]+$`)
	positionRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N} '.,()/\-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
	httpURLRegex  = regexp.MustCompile("^https?://[^\\s<>\"{}|\\\\^`\\[\\]]+$")
	orcidRegex    = regexp.MustCompile(`^https?://(www\.)?orcid\.org/\d{4}-\d{4}-\d{4}-\d{3}[\dX]/?$`)
)

// Kind identifies which rule set applies to a raw input value.
type Kind int

const (
	FullName Kind = iota
	Position
	Email
	Phone
	ORCID
	Website
	LinkedIn
	GoogleScholar
	AdditionalLink
)

// Key returns the form key errors for this kind are reported under.
func (k Kind) Key() string {
	switch k {
	case FullName:
		return "fullName"
	case Position:
		return "position"
	case Email:
		return "email"
	case Phone:
		return "phone"
	case ORCID:
		return "orcid"
	case Website:
		return "website"
	case LinkedIn:
		return "linkedin"
	case GoogleScholar:
		return "googleScholar"
	case AdditionalLink:
		return "additionalLink"
	default:
		return "unknown"
	}
}

// Required reports whether an empty value is an error for this kind.
func (k Kind) Required() bool {
	return k == FullName || k == Position || k == Email
}

// Result is the outcome of validating one value.
// Issue is nil when the value is valid. Warning never affects validity.
type Result struct {
	Issue   *ValidationError
	Warning *ValidationError
}

// Valid reports whether the value passed every blocking rule.
func (r Result) Valid() bool {
	return r.Issue == nil
}

// Validate checks a raw input value against the rules for kind.
// It is pure and accepts any string, including the empty one.
func Validate(kind Kind, raw string) Result {
	field := kind.Key()
	value := strings.TrimSpace(raw)

	if value == "" {
		if !kind.Required() {
			return Result{}
		}
		issue := First(RequiredString(field, value, requiredMessage(kind)))
		issue.TranslationKey += "." + field
		return Result{Issue: issue}
	}

	switch kind {
	case FullName:
		return Result{Issue: First(
			MaxRunes(field, value, FullNameMaxLen),
			MatchesRegex(field, value, fullNameRegex, "validation.full_name.charset",
				"Solo letras, espacios, guiones y apóstrofes. Máximo 60 caracteres."),
		)}
	case Position:
		return Result{Issue: First(
			MaxRunes(field, value, PositionMaxLen),
			MatchesRegex(field, value, positionRegex, "validation.position.charset",
				"Solo letras, espacios y signos de puntuación básicos. Máximo 80 caracteres."),
		)}
	case Email:
		res := Result{Issue: First(ValidEmail(field, value))}
		if res.Issue == nil && !institutional(value) {
			res.Warning = &ValidationError{
				Field:             field,
				Message:           "Se recomienda usar email institucional @" + InstitutionalDomain,
				TranslationKey:    "validation.email.domain",
				TranslationValues: map[string]any{"field": field, "domain": InstitutionalDomain},
			}
		}
		return res
	case Phone:
		return Result{Issue: First(
			MatchesRegex(field, value, phoneRegex, "validation.phone",
				"Formato: +56 9 1234 5678 o similar (7-20 caracteres)"),
		)}
	case LinkedIn:
		return Result{Issue: First(
			ValidHTTPURL(field, value),
			ContainsSubstring(field, value, "linkedin.com", "validation.url.linkedin",
				"Debe ser un enlace de LinkedIn (linkedin.com)"),
		)}
	case GoogleScholar:
		return Result{Issue: First(
			ValidHTTPURL(field, value),
			ContainsSubstring(field, value, "scholar.google.", "validation.url.scholar",
				"Debe ser un enlace de Google Scholar (scholar.google.com)"),
		)}
	case ORCID:
		return Result{Issue: First(
			ValidHTTPURL(field, value),
			MatchesRegex(field, value, orcidRegex, "validation.url.orcid",
				"Debe tener el formato https://orcid.org/0000-0000-0000-0000"),
		)}
	case Website, AdditionalLink:
		return Result{Issue: First(ValidHTTPURL(field, value))}
	default:
		return Result{}
	}
}

func requiredMessage(kind Kind) string {
	switch kind {
	case FullName:
		return "El nombre completo es obligatorio"
	case Position:
		return "El cargo es obligatorio"
	default:
		return "El email es obligatorio"
	}
}

// Report is the validation state of a whole signature form.
type Report struct {
	Errors   ValidationErrors
	Warnings ValidationErrors
	blocking bool
}

// Valid reports whether the form can be composed and copied.
// Errors on optional fields are reported but never make the form invalid.
func (r Report) Valid() bool {
	return !r.blocking
}

// Message returns the first error message for key, or an empty string.
func (r Report) Message(key string) string {
	return r.Errors.First(key)
}

// Warning returns the first warning message for key, or an empty string.
func (r Report) Warning(key string) string {
	return r.Warnings.First(key)
}

// Err returns ErrInvalidForm joined with the errors when the form is invalid.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	return &FormError{Errors: r.Errors}
}

// FormError wraps the errors of an invalid form.
type FormError struct {
	Errors ValidationErrors
}

func (e *FormError) Error() string { return e.Errors.Error() }

// Unwrap exposes both the sentinel and the collected errors to errors.Is and errors.As.
func (e *FormError) Unwrap() []error { return []error{ErrInvalidForm, e.Errors} }

// PositionKey returns the form key for the position slot at index i.
func PositionKey(i int) string {
	return "position-" + strconv.Itoa(i)
}

// ValidateForm validates every field of d.
// Position errors are keyed by slot index; a form with no filled slot gets a "positions" error.
func ValidateForm(d signature.Data) Report {
	var rep Report

	record := func(key string, res Result, blocking bool) {
		if res.Issue != nil {
			e := *res.Issue
			e.Field = key
			rep.Errors.Add(e)
			if blocking {
				rep.blocking = true
			}
		}
		if res.Warning != nil {
			w := *res.Warning
			w.Field = key
			rep.Warnings.Add(w)
		}
	}

	record(FullName.Key(), Validate(FullName, d.FullName), true)

	if len(d.FilledPositions()) == 0 {
		rep.Errors.Add(ValidationError{
			Field:          "positions",
			Message:        "Al menos un cargo es obligatorio",
			TranslationKey: "validation.positions.required",
		})
		rep.blocking = true
	} else {
		for i, p := range d.Positions {
			if strings.TrimSpace(p) == "" {
				continue
			}
			record(PositionKey(i), Validate(Position, p), true)
		}
	}

	record(Email.Key(), Validate(Email, d.Email), true)

	optional := []struct {
		kind  Kind
		value signature.Optional
	}{
		{Phone, d.Phone},
		{GoogleScholar, d.Social.GoogleScholar},
		{LinkedIn, d.Social.LinkedIn},
		{ORCID, d.ORCID},
		{Website, d.Website},
		{AdditionalLink, d.AdditionalLink},
	}
	for _, o := range optional {
		record(o.kind.Key(), Validate(o.kind, o.value.String()), false)
	}

	return rep
}

// institutional reports whether the address belongs to the university domain
// or one of its subdomains.
func institutional(email string) bool {
	at := strings.LastIndexByte(email, '@')
	domain := strings.ToLower(email[at+1:])
	return domain == InstitutionalDomain || strings.HasSuffix(domain, "."+InstitutionalDomain)
}
