package i18n

// Translator binds an I18n instance to one language.
type Translator struct {
	i18n     *I18n
	language string
}

// NewTranslator creates a Translator. An empty or unsupported language
// uses the default language.
func NewTranslator(i18n *I18n, language string) *Translator {
	if i18n == nil {
		panic("i18n: service is not provided")
	}
	if language == "" || !i18n.Supports(language) {
		language = i18n.DefaultLanguage()
	}
	return &Translator{i18n: i18n, language: language}
}

// T translates key.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.i18n.T(t.language, key, placeholders...)
}

// TranslateMessage has the signature ValidationErrors.Translate expects:
//
//	report.Errors.Translate(tr.TranslateMessage)
func (t *Translator) TranslateMessage(key string, values map[string]any) string {
	return t.i18n.T(t.language, key, values)
}

// Language returns the translator's language.
func (t *Translator) Language() string {
	return t.language
}
