package middlewares

import (
	"strings"

	"github.com/disc-ucn/firma/internal"
	"github.com/disc-ucn/firma/pkg/i18n"
)

// LanguageCookie holds an explicit language choice made with ?lang=.
const LanguageCookie = "lang"

const languageCookieMaxAge = 365 * 24 * 60 * 60

// I18nConfig configures the I18n middleware.
type I18nConfig struct {
	Extractor    internal.Extractor
	extractorSet bool
	persist      bool
}

// I18nOption configures I18nConfig.
type I18nOption func(*I18nConfig)

// WithI18nExtractor sets a custom language extractor chain.
func WithI18nExtractor(ext internal.Extractor) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithoutLanguageCookie stops the middleware from remembering a ?lang= choice.
func WithoutLanguageCookie() I18nOption {
	return func(cfg *I18nConfig) {
		cfg.persist = false
	}
}

// FromAcceptLanguage returns an ExtractorSource that matches the
// Accept-Language header against the catalog languages.
func FromAcceptLanguage(svc *i18n.I18n) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		header := c.Header("Accept-Language")
		if header == "" {
			return "", false
		}
		return svc.Match(header), true
	}
}

// I18n returns middleware that resolves the user's language, creates a Translator,
// and stores both in the request context.
//
// The default chain is ?lang=, then the lang cookie, then Accept-Language.
// Unsupported values are skipped, so ?lang=fr falls through to the cookie.
// A supported ?lang= value is remembered in the lang cookie.
func I18n(svc *i18n.I18n, opts ...I18nOption) internal.Middleware {
	cfg := &I18nConfig{persist: true}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromQuery(LanguageCookie),
			internal.FromCookie(LanguageCookie),
			FromAcceptLanguage(svc),
		)
	}

	supported := func(v string) (string, bool) {
		v = strings.ToLower(strings.TrimSpace(v))
		return v, svc.Supports(v)
	}
	ext := cfg.Extractor.Accepting(supported)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			lang, ok := ext.Extract(c)
			if !ok {
				lang = svc.DefaultLanguage()
			}

			if cfg.persist {
				if q, ok := supported(c.Query(LanguageCookie)); ok {
					c.SetCookie(LanguageCookie, q, languageCookieMaxAge)
				}
			}

			c.Set(internal.TranslatorKey{}, i18n.NewTranslator(svc, lang))
			c.Set(internal.LanguageKey{}, lang)

			return next(c)
		}
	}
}

// GetTranslator extracts the Translator from the context.
// Returns nil if the I18n middleware is not used.
func GetTranslator(c internal.Context) *i18n.Translator {
	if v, ok := c.Get(internal.TranslatorKey{}).(*i18n.Translator); ok {
		return v
	}
	return nil
}

// GetLanguage extracts the resolved language from the context.
// Returns an empty string if the I18n middleware is not used.
func GetLanguage(c internal.Context) string {
	if v, ok := c.Get(internal.LanguageKey{}).(string); ok {
		return v
	}
	return ""
}
