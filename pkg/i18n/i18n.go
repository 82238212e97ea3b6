// Package i18n holds the editor's message catalogs and resolves the language
// of a request. Spanish is the default and complete catalog; other languages
// fall back to it key by key.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"maps"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLang is the catalog every lookup falls back to.
const DefaultLang = "es"

//go:embed locales/*.yaml
var locales embed.FS

// I18n is immutable after creation and safe for concurrent use.
type I18n struct {
	translations      map[string]map[string]string
	missingKeyHandler func(lang, key string)
	matcher           language.Matcher
	defaultLang       string
	languages         []string
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates an I18n instance. The default language must have translations.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]map[string]string),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if _, ok := i.translations[i.defaultLang]; !ok {
		return nil, ErrNoCatalog
	}

	i.languages = []string{i.defaultLang}
	others := make([]string, 0, len(i.translations))
	for lang := range i.translations {
		if lang != i.defaultLang {
			others = append(others, lang)
		}
	}
	sort.Strings(others)
	i.languages = append(i.languages, others...)

	tags := make([]language.Tag, 0, len(i.languages))
	for _, lang := range i.languages {
		tags = append(tags, language.Make(lang))
	}
	i.matcher = language.NewMatcher(tags)

	return i, nil
}

// Default loads the embedded catalogs.
func Default() (*I18n, error) {
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return nil, err
	}
	return New(WithYAMLDir(sub))
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithTranslations adds nested translations for one language.
func WithTranslations(lang string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.add(lang, translations)
		return nil
	}
}

// WithMissingKeyHandler is called when a key is missing in every catalog.
func WithMissingKeyHandler(handler func(lang, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

func (i *I18n) add(lang string, translations map[string]any) {
	flat, ok := i.translations[lang]
	if !ok {
		flat = make(map[string]string)
		i.translations[lang] = flat
	}
	maps.Copy(flat, flatten(translations, ""))
}

// T returns the translation of key for lang, falling back to the default
// language and finally to the key itself.
func (i *I18n) T(lang, key string, placeholders ...M) string {
	for _, l := range []string{lang, baseLanguage(lang), i.defaultLang} {
		if tr, ok := i.translations[l][key]; ok {
			return replaceMerged(tr, placeholders...)
		}
	}

	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, key)
	}
	return key
}

// Has reports whether key exists in any catalog.
func (i *I18n) Has(key string) bool {
	for _, flat := range i.translations {
		if _, ok := flat[key]; ok {
			return true
		}
	}
	return false
}

// Match picks the best supported language for an Accept-Language header.
func (i *I18n) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return i.defaultLang
	}
	_, idx, conf := i.matcher.Match(tags...)
	if conf == language.No {
		return i.defaultLang
	}
	return i.languages[idx]
}

// Supports reports whether lang has a catalog.
func (i *I18n) Supports(lang string) bool {
	_, ok := i.translations[lang]
	return ok
}

// Languages returns the default language followed by the others sorted.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func flatten(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flatten(v, fullKey))
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}

func replaceMerged(template string, placeholders ...M) string {
	if len(placeholders) == 0 {
		return template
	}
	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return ReplacePlaceholders(template, merged)
}

// baseLanguage strips the region from a language tag ("en-US" to "en").
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}
