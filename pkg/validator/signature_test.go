package validator_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/signature"
	"github.com/disc-ucn/firma/pkg/validator"
)

// --- Validate ---

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kind  validator.Kind
		value string
		valid bool
	}{
		{"full name with accents", validator.FullName, "Ana Pérez", true},
		{"full name with apostrophe and hyphen", validator.FullName, "María-José O'Higgins", true},
		{"full name empty", validator.FullName, "", false},
		{"full name blank", validator.FullName, "   ", false},
		{"full name digits", validator.FullName, "Ana 2", false},
		{"full name markup", validator.FullName, "<b>Ana</b>", false},
		{"full name at limit", validator.FullName, strings.Repeat("á", 60), true},
		{"full name over limit", validator.FullName, strings.Repeat("a", 61), false},
		{"position", validator.Position, "Académica (jornada completa), DISC/UCN", true},
		{"position digits", validator.Position, "Profesor Asistente 2", true},
		{"position over limit", validator.Position, strings.Repeat("b", 81), false},
		{"position symbols", validator.Position, "Jefa @ DISC", false},
		{"email institutional", validator.Email, "ana@ucn.cl", true},
		{"email external", validator.Email, "ana@gmail.com", true},
		{"email malformed", validator.Email, "ana@", false},
		{"email dotted local part", validator.Email, "a..b@ucn.cl", true},
		{"email trailing dot local part", validator.Email, "ana.@ucn.cl", true},
		{"email empty", validator.Email, "", false},
		{"phone", validator.Phone, "+56 9 1234 5678", true},
		{"phone parens", validator.Phone, "(55) 235-5000", true},
		{"phone letters", validator.Phone, "call me", false},
		{"phone too short", validator.Phone, "123", false},
		{"phone empty optional", validator.Phone, "", true},
		{"linkedin", validator.LinkedIn, "https://www.linkedin.com/in/ana", true},
		{"linkedin not a url", validator.LinkedIn, "not-a-url", false},
		{"linkedin wrong domain", validator.LinkedIn, "https://example.com/ana", false},
		{"scholar", validator.GoogleScholar, "https://scholar.google.com/citations?user=abc", true},
		{"scholar wrong domain", validator.GoogleScholar, "https://google.com/abc", false},
		{"orcid", validator.ORCID, "https://orcid.org/0000-0002-1825-009X", true},
		{"orcid bad shape", validator.ORCID, "https://orcid.org/ana", false},
		{"website", validator.Website, "http://disc.ucn.cl", true},
		{"website ftp", validator.Website, "ftp://disc.ucn.cl", false},
		{"website with space", validator.Website, "https://disc ucn.cl", false},
		{"additional link", validator.AdditionalLink, "https://ciara.ucn.cl/equipo", true},
		{"website empty optional", validator.Website, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := validator.Validate(tt.kind, tt.value)
			assert.Equal(t, tt.valid, res.Valid(), "issue: %+v", res.Issue)
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	t.Parallel()

	res := validator.Validate(validator.FullName, "")
	require.NotNil(t, res.Issue)
	assert.Equal(t, "El nombre completo es obligatorio", res.Issue.Message)
	assert.Equal(t, "fullName", res.Issue.Field)

	res = validator.Validate(validator.Position, strings.Repeat("x", 81))
	require.NotNil(t, res.Issue)
	assert.Equal(t, "Máximo 80 caracteres", res.Issue.Message)

	res = validator.Validate(validator.Website, "disc.ucn.cl")
	require.NotNil(t, res.Issue)
	assert.Equal(t, "Debe ser una URL válida que comience con http:// o https://", res.Issue.Message)
}

func TestValidate_EmailDomainWarning(t *testing.T) {
	t.Parallel()

	res := validator.Validate(validator.Email, "ana@gmail.com")
	require.True(t, res.Valid())
	require.NotNil(t, res.Warning)
	assert.Equal(t, "Se recomienda usar email institucional @ucn.cl", res.Warning.Message)

	res = validator.Validate(validator.Email, "Ana@UCN.cl")
	require.True(t, res.Valid())
	require.Nil(t, res.Warning)

	for _, addr := range []string{"ana@disc.ucn.cl", "ana@DISC.UCN.CL"} {
		res = validator.Validate(validator.Email, addr)
		require.True(t, res.Valid(), addr)
		assert.Nil(t, res.Warning, addr)
	}

	for _, addr := range []string{"ana@notucn.cl", "ana@ucn.cl.example.com"} {
		res = validator.Validate(validator.Email, addr)
		require.True(t, res.Valid(), addr)
		assert.NotNil(t, res.Warning, addr)
	}
}

// --- ValidateForm ---

func validData() signature.Data {
	return signature.Data{
		FullName:  "Ana Pérez",
		Positions: []string{"Académica"},
		Email:     "ana@ucn.cl",
	}
}

func TestValidateForm(t *testing.T) {
	t.Parallel()

	t.Run("minimal valid record", func(t *testing.T) {
		t.Parallel()

		rep := validator.ValidateForm(validData())
		require.True(t, rep.Valid())
		require.True(t, rep.Errors.IsEmpty())
		require.NoError(t, rep.Err())
	})

	t.Run("empty record is invalid", func(t *testing.T) {
		t.Parallel()

		rep := validator.ValidateForm(signature.Empty())
		require.False(t, rep.Valid())
		assert.Equal(t, []string{"fullName", "positions", "email"}, rep.Errors.Fields())
		assert.Equal(t, "Al menos un cargo es obligatorio", rep.Message("positions"))

		err := rep.Err()
		require.ErrorIs(t, err, validator.ErrInvalidForm)
		require.True(t, validator.IsValidationError(err))
	})

	t.Run("over-length position blocks despite valid name and email", func(t *testing.T) {
		t.Parallel()

		d := validData()
		d.Positions = []string{"Académica", strings.Repeat("p", 81)}
		rep := validator.ValidateForm(d)
		require.False(t, rep.Valid())
		require.True(t, rep.Errors.Has("position-1"))
		require.False(t, rep.Errors.Has("position-0"))
	})

	t.Run("blank slots are ignored when another is filled", func(t *testing.T) {
		t.Parallel()

		d := validData()
		d.Positions = []string{"", "Académica", " "}
		rep := validator.ValidateForm(d)
		require.True(t, rep.Valid())
	})

	t.Run("invalid optional field never blocks", func(t *testing.T) {
		t.Parallel()

		d := validData()
		d.Social.LinkedIn = signature.Some("not-a-url")
		d.Phone = signature.Some("abc")
		rep := validator.ValidateForm(d)
		require.True(t, rep.Valid())
		require.True(t, rep.Errors.Has("linkedin"))
		require.True(t, rep.Errors.Has("phone"))
		require.NoError(t, rep.Err())
	})

	t.Run("domain warning does not block", func(t *testing.T) {
		t.Parallel()

		d := validData()
		d.Email = "ana@gmail.com"
		rep := validator.ValidateForm(d)
		require.True(t, rep.Valid())
		require.NotEmpty(t, rep.Warning("email"))
	})

	t.Run("form error exposes collected errors", func(t *testing.T) {
		t.Parallel()

		d := validData()
		d.Email = "nope"
		var ve validator.ValidationErrors
		require.True(t, errors.As(validator.ValidateForm(d).Err(), &ve))
		require.True(t, ve.Has("email"))
	})
}
