package signature_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/disc-ucn/firma/pkg/signature"
	"github.com/disc-ucn/firma/pkg/validator"
)

// --- Lifecycle ---

func TestEmpty(t *testing.T) {
	t.Parallel()

	d := signature.Empty()
	require.Equal(t, []string{""}, d.Positions)
	require.Empty(t, d.FullName)
	require.Empty(t, d.Email)
	require.False(t, d.HasSocialRow())
	require.Empty(t, d.FilledPositions())
}

func TestReset(t *testing.T) {
	t.Parallel()

	d := signature.Empty()
	d, err := d.SetField(signature.FieldFullName, "Ana Pérez")
	require.NoError(t, err)
	d, err = d.AddPosition()
	require.NoError(t, err)
	d, err = d.SetField(signature.FieldCiaraMember, "on")
	require.NoError(t, err)

	require.Equal(t, signature.Empty(), d.Reset())
}

// --- SetField ---

func TestSetField(t *testing.T) {
	t.Parallel()

	t.Run("does not mutate receiver", func(t *testing.T) {
		t.Parallel()

		orig := signature.Empty()
		next, err := orig.SetField(signature.FieldEmail, "ana@ucn.cl")
		require.NoError(t, err)
		require.Empty(t, orig.Email)
		require.Equal(t, "ana@ucn.cl", next.Email)
	})

	t.Run("blank optional becomes absent", func(t *testing.T) {
		t.Parallel()

		d, err := signature.Empty().SetField(signature.FieldLinkedIn, "https://linkedin.com/in/ana")
		require.NoError(t, err)
		require.True(t, d.HasLinkedIn())

		d, err = d.SetField(signature.FieldLinkedIn, "   ")
		require.NoError(t, err)
		require.False(t, d.HasLinkedIn())
		require.False(t, d.Social.LinkedIn.Valid)
	})

	t.Run("caps full name at input limit", func(t *testing.T) {
		t.Parallel()

		d, err := signature.Empty().SetField(signature.FieldFullName, strings.Repeat("á", 100))
		require.NoError(t, err)
		require.Equal(t, signature.FullNameInputCap, len([]rune(d.FullName)))
	})

	t.Run("parses ciara checkbox", func(t *testing.T) {
		t.Parallel()

		for _, v := range []string{"on", "true", "1", "Sí"} {
			d, err := signature.Empty().SetField(signature.FieldCiaraMember, v)
			require.NoError(t, err)
			assert.True(t, d.IsCiaraMember(), v)
		}
		d, err := signature.Empty().SetField(signature.FieldCiaraMember, "")
		require.NoError(t, err)
		require.False(t, d.IsCiaraMember())
	})

	t.Run("strips markup and normalizes accents", func(t *testing.T) {
		t.Parallel()

		d, err := signature.Empty().SetField(signature.FieldFullName, "<b>Ana</b>  Pe\u0301rez")
		require.NoError(t, err)
		require.Equal(t, "Ana Pérez", d.FullName)
		require.True(t, validator.Validate(validator.FullName, d.FullName).Valid())

		d, err = d.SetField(signature.FieldGoogleScholar, "https://scholar.google.com/citations?user=x&amp;hl=es")
		require.NoError(t, err)
		require.Equal(t, "https://scholar.google.com/citations?user=x&hl=es", d.Social.GoogleScholar.Value)

		d, err = d.SetField(signature.FieldPhone, "<i></i>")
		require.NoError(t, err)
		require.False(t, d.HasPhone())
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := signature.Empty().SetField(signature.Field("nickname"), "x")
		require.ErrorIs(t, err, signature.ErrUnknownField)
	})
}

func TestParseField(t *testing.T) {
	t.Parallel()

	f, err := signature.ParseField("google-scholar")
	require.NoError(t, err)
	require.Equal(t, signature.FieldGoogleScholar, f)

	_, err = signature.ParseField("avatar")
	require.ErrorIs(t, err, signature.ErrUnknownField)
}

// --- Positions ---

func TestAddPosition(t *testing.T) {
	t.Parallel()

	d := signature.Empty()
	var err error
	for range signature.MaxPositions - 1 {
		d, err = d.AddPosition()
		require.NoError(t, err)
	}
	require.Len(t, d.Positions, signature.MaxPositions)

	same, err := d.AddPosition()
	require.ErrorIs(t, err, signature.ErrTooManyPositions)
	require.Len(t, same.Positions, signature.MaxPositions)
}

func TestSetPosition(t *testing.T) {
	t.Parallel()

	d, err := signature.Empty().SetPosition(0, "Académica")
	require.NoError(t, err)
	require.Equal(t, []string{"Académica"}, d.Positions)

	_, err = d.SetPosition(1, "x")
	require.ErrorIs(t, err, signature.ErrIndexOutOfRange)

	_, err = d.SetPosition(-1, "x")
	require.ErrorIs(t, err, signature.ErrIndexOutOfRange)

	long, err := d.SetPosition(0, strings.Repeat("a", 200))
	require.NoError(t, err)
	require.Len(t, long.Positions[0], signature.PositionInputCap)

	clean, err := d.SetPosition(0, "<em>Acade\u0301mica</em>")
	require.NoError(t, err)
	require.Equal(t, "Académica", clean.Positions[0])
}

func TestRemovePosition(t *testing.T) {
	t.Parallel()

	t.Run("reindexes contiguously", func(t *testing.T) {
		t.Parallel()

		d := signature.Data{Positions: []string{"A", "B", "C"}}
		next, err := d.RemovePosition(1)
		require.NoError(t, err)
		require.Equal(t, []string{"A", "C"}, next.Positions)
		require.Equal(t, []string{"A", "B", "C"}, d.Positions)
	})

	t.Run("keeps at least one slot", func(t *testing.T) {
		t.Parallel()

		d := signature.Data{Positions: []string{"A", "B"}}
		d, err := d.RemovePosition(0)
		require.NoError(t, err)
		require.Equal(t, []string{"B"}, d.Positions)

		d, err = d.RemovePosition(0)
		require.ErrorIs(t, err, signature.ErrLastPosition)
		require.Equal(t, []string{"B"}, d.Positions)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		_, err := signature.Data{Positions: []string{"A", "B"}}.RemovePosition(5)
		require.ErrorIs(t, err, signature.ErrIndexOutOfRange)
	})
}

func TestFilledPositions(t *testing.T) {
	t.Parallel()

	d := signature.Data{Positions: []string{" ", "Académica", "", " Directora "}}
	require.Equal(t, []string{"Académica", "Directora"}, d.FilledPositions())
}

// --- Capabilities ---

func TestHasSocialRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data signature.Data
		want bool
	}{
		{"none", signature.Empty(), false},
		{"linkedin", signature.Data{Social: signature.Social{LinkedIn: signature.Some("https://linkedin.com/in/x")}}, true},
		{"scholar", signature.Data{Social: signature.Social{GoogleScholar: signature.Some("https://scholar.google.com/x")}}, true},
		{"orcid", signature.Data{ORCID: signature.Some("https://orcid.org/0000-0002-1825-0097")}, true},
		{"website", signature.Data{Website: signature.Some("https://ucn.cl")}, true},
		{"ciara", signature.Data{CiaraMember: true}, true},
		{"phone only", signature.Data{Phone: signature.Some("+56 9 1234 5678")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.data.HasSocialRow())
		})
	}
}

// --- Encoding ---

func TestDataDecoding(t *testing.T) {
	t.Parallel()

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		src := `
full_name: Ana Pérez
positions: [Académica]
email: ana@ucn.cl
orcid: https://orcid.org/0000-0002-1825-0097
social:
  linkedin: https://www.linkedin.com/in/ana
ciara_member: true
`
		var d signature.Data
		require.NoError(t, yaml.Unmarshal([]byte(src), &d))
		require.Equal(t, "Ana Pérez", d.FullName)
		require.True(t, d.HasORCID())
		require.True(t, d.HasLinkedIn())
		require.False(t, d.HasScholar())
		require.True(t, d.IsCiaraMember())
	})

	t.Run("json null optional", func(t *testing.T) {
		t.Parallel()

		var d signature.Data
		require.NoError(t, json.Unmarshal([]byte(`{"full_name":"Ana","positions":["x"],"phone":null,"website":"https://ucn.cl"}`), &d))
		require.False(t, d.HasPhone())
		require.True(t, d.HasWebsite())

		out, err := json.Marshal(d)
		require.NoError(t, err)
		require.Contains(t, string(out), `"phone":null`)
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	d := signature.Data{
		FullName:  " <b>Ana</b>\tPe\u0301rez ",
		Email:     " ana@ucn.cl ",
		Website:   signature.Some("<a href=x>https://ana.cl</a>"),
		Phone:     signature.Optional{Value: "  ", Valid: true},
		Positions: []string{"<i>Académica</i>", strings.Repeat("p", 200)},
	}

	n := d.Normalize()
	assert.Equal(t, "Ana Pérez", n.FullName)
	assert.Equal(t, "ana@ucn.cl", n.Email)
	assert.Equal(t, "https://ana.cl", n.Website.Value)
	assert.False(t, n.Phone.Valid)
	assert.Equal(t, "Académica", n.Positions[0])
	assert.Len(t, []rune(n.Positions[1]), signature.PositionInputCap)
	assert.Equal(t, " <b>Ana</b>\tPe\u0301rez ", d.FullName, "receiver untouched")

	assert.Equal(t, []string{""}, signature.Data{}.Normalize().Positions)
}
