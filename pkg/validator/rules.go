package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value, message string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        message,
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// MaxRunes validates that a string has at most max characters.
// Characters are counted as runes so accented letters count once.
func MaxRunes(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("Máximo %d caracteres", max),
			TranslationKey: "validation.max_length",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}

// MatchesRegex validates value against a precompiled pattern.
func MatchesRegex(field, value string, re *regexp.Regexp, key, message string) Rule {
	return Rule{
		Check: func() bool {
			return re.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        message,
			TranslationKey: key,
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidEmail validates the permissive local@domain.tld shape used by the
// signature form. Dotted runs in the local part are accepted.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return emailRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "Formato de email inválido",
			TranslationKey: "validation.email.format",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidHTTPURL validates that a string is an absolute http or https URL with a host.
func ValidHTTPURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if !httpURLRegex.MatchString(value) {
				return false
			}
			u, err := url.Parse(value)
			if err != nil {
				return false
			}
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        "Debe ser una URL válida que comience con http:// o https://",
			TranslationKey: "validation.url.format",
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ContainsSubstring validates that value contains substr, ignoring case.
func ContainsSubstring(field, value, substr, key, message string) Rule {
	return Rule{
		Check: func() bool {
			return strings.Contains(strings.ToLower(value), strings.ToLower(substr))
		},
		Error: ValidationError{
			Field:          field,
			Message:        message,
			TranslationKey: key,
			TranslationValues: map[string]any{
				"field":  field,
				"substr": substr,
			},
		},
	}
}
