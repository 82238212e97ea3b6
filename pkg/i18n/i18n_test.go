package i18n_test

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/i18n"
	"github.com/disc-ucn/firma/pkg/signature"
	"github.com/disc-ucn/firma/pkg/validator"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	svc, err := i18n.Default()
	require.NoError(t, err)

	assert.Equal(t, "es", svc.DefaultLanguage())
	assert.Equal(t, []string{"es", "en"}, svc.Languages())
	assert.Equal(t, "Copiar firma", svc.T("es", "editor.action.copy"))
	assert.Equal(t, "Copy signature", svc.T("en", "editor.action.copy"))
	assert.Equal(t, "Cargo 2", svc.T("es", "editor.field.position", i18n.M{"n": 2}))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var missing []string
	svc, err := i18n.Default()
	require.NoError(t, err)

	strict, err := i18n.New(
		i18n.WithTranslations("es", map[string]any{"k": "v"}),
		i18n.WithMissingKeyHandler(func(lang, key string) {
			mu.Lock()
			missing = append(missing, lang+":"+key)
			mu.Unlock()
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "absent", strict.T("en", "absent"))
	assert.Equal(t, []string{"en:absent"}, missing)

	for _, key := range []string{
		"validation.required.fullName",
		"validation.required.position",
		"validation.required.email",
		"validation.positions.required",
		"validation.max_length",
		"validation.email.domain",
		"validation.url.orcid",
		"editor.notice.maxPositions",
		"mail.subject",
	} {
		assert.NotEqual(t, key, svc.T("es", key), key)
		assert.NotEqual(t, svc.T("es", key), svc.T("en", key), key)
	}
}

func TestFallback(t *testing.T) {
	t.Parallel()

	svc, err := i18n.New(
		i18n.WithTranslations("es", map[string]any{
			"greeting": "Hola {{name}}",
			"only":     map[string]any{"es": "solo español"},
		}),
		i18n.WithTranslations("en", map[string]any{"greeting": "Hello {{name}}"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "Hello Ana", svc.T("en-US", "greeting", i18n.M{"name": "Ana"}))
	assert.Equal(t, "solo español", svc.T("en", "only.es"))
	assert.Equal(t, "Hola {{name}}", svc.T("fr", "greeting"))
	assert.Equal(t, "missing.key", svc.T("es", "missing.key"))
	assert.True(t, svc.Has("only.es"))
	assert.False(t, svc.Has("only"))
}

func TestNew_RequiresDefaultCatalog(t *testing.T) {
	t.Parallel()

	_, err := i18n.New(i18n.WithTranslations("en", map[string]any{"a": "b"}))
	require.ErrorIs(t, err, i18n.ErrNoCatalog)

	_, err = i18n.New(i18n.WithDefaultLanguage(""))
	require.ErrorIs(t, err, i18n.ErrEmptyLanguage)

	_, err = i18n.New(i18n.WithYAMLDir(fstest.MapFS{
		"es.yaml": {Data: []byte("a: [unclosed")},
	}))
	require.ErrorIs(t, err, i18n.ErrInvalidFile)
}

func TestWithYAMLDir_RejectsMalformedCatalogs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "not a language", fsys: fstest.MapFS{
			"es.yaml":       {Data: []byte("a: b\n")},
			"spanish!.yaml": {Data: []byte("a: b\n")},
		}},
		{name: "two files for one language", fsys: fstest.MapFS{
			"es.yaml": {Data: []byte("a: b\n")},
			"es.yml":  {Data: []byte("a: c\n")},
		}},
		{name: "list value", fsys: fstest.MapFS{
			"es.yaml": {Data: []byte("editor:\n  action:\n    copy: [Copiar, Copiada]\n")},
		}},
		{name: "empty value", fsys: fstest.MapFS{
			"es.yaml": {Data: []byte("editor:\n  notice:\n    reset:\n")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := i18n.New(i18n.WithYAMLDir(tt.fsys))
			require.ErrorIs(t, err, i18n.ErrInvalidFile)
		})
	}
}

func TestWithYAMLDir_SkipsOtherFiles(t *testing.T) {
	t.Parallel()

	svc, err := i18n.New(i18n.WithYAMLDir(fstest.MapFS{
		"es.yml":     {Data: []byte("editor:\n  action:\n    copy: Copiar firma\n")},
		"README.md":  {Data: []byte("# catalogs")},
		"en/old.yml": {Data: []byte("a: b\n")},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"es"}, svc.Languages())
	assert.Equal(t, "Copiar firma", svc.T("es", "editor.action.copy"))
}

func TestMatch(t *testing.T) {
	t.Parallel()

	svc, err := i18n.Default()
	require.NoError(t, err)

	tests := []struct {
		header string
		want   string
	}{
		{"", "es"},
		{"es-CL,es;q=0.9", "es"},
		{"en-GB,en;q=0.8", "en"},
		{"de-DE", "es"},
		{"fr;q=0.9, en;q=0.5", "en"},
		{"!!garbage", "es"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.Match(tt.header), tt.header)
	}
}

func TestTranslator(t *testing.T) {
	t.Parallel()

	svc, err := i18n.Default()
	require.NoError(t, err)

	tr := i18n.NewTranslator(svc, "pt")
	assert.Equal(t, "es", tr.Language())

	tr = i18n.NewTranslator(svc, "en")
	report := validator.ValidateForm(signature.Empty())
	report.Errors.Translate(tr.TranslateMessage)

	assert.Equal(t, "Full name is required", report.Message("fullName"))
	assert.Equal(t, "Email is required", report.Message("email"))
	assert.Equal(t, "Enter at least one position", report.Message("positions"))

	assert.Panics(t, func() { i18n.NewTranslator(nil, "es") })
}
