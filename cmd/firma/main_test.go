package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/signature"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "firma.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validYAML = `full_name: Ana Pérez
email: ana@ucn.cl
positions:
  - Académica
  - Directora de Magíster
phone: "+56 55 235 5000"
`

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "firma "+version+"\n", out)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid flags", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "validate", "--name", "Ana Pérez", "--position", "Académica", "--email", "ana@ucn.cl")
		require.NoError(t, err)
		assert.Contains(t, out, "La firma es válida.")
	})

	t.Run("english messages", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "validate", "--lang", "en", "--name", "Ana Pérez", "--position", "Académica", "--email", "ana@ucn.cl")
		require.NoError(t, err)
		assert.Contains(t, out, "The signature is valid.")
	})

	t.Run("missing required fields", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "validate", "--email", "ana@ucn.cl")
		require.ErrorIs(t, err, errInvalid)
		assert.Contains(t, out, "fullName")
		assert.Contains(t, out, "positions")
		assert.NotContains(t, out, "La firma es válida.")
	})

	t.Run("warnings do not fail", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "validate", "--name", "Ana Pérez", "--position", "Académica", "--email", "ana@gmail.com")
		require.NoError(t, err)
		assert.Contains(t, out, "warning")
		assert.Contains(t, out, "email")
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, "", "validate", "-f", writeFile(t, validYAML))
		require.NoError(t, err)
	})

	t.Run("stdin", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, validYAML, "validate", "-f", "-")
		require.NoError(t, err)
	})

	t.Run("unknown key in file", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, "", "validate", "-f", writeFile(t, "full_name: Ana\nnickname: ana\n"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, errInvalid)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, "", "validate", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("html", func(t *testing.T) {
		t.Parallel()

		out, errOut, err := run(t, "", "compose", "-f", writeFile(t, validYAML), "--lint")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "<table"))
		assert.Contains(t, out, "Ana Pérez")
		assert.Contains(t, out, "Directora de Magíster")
		assert.Empty(t, errOut)
	})

	t.Run("flags override file", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "compose", "-f", writeFile(t, validYAML), "--name", "Juan Soto", "--position", "Jefe de Carrera")
		require.NoError(t, err)
		assert.Contains(t, out, "Juan Soto")
		assert.Contains(t, out, "Jefe de Carrera")
		assert.NotContains(t, out, "Ana Pérez")
		assert.NotContains(t, out, "Directora de Magíster")
	})

	t.Run("logo size", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "compose", "-f", writeFile(t, validYAML), "--logo-size", "143")
		require.NoError(t, err)
		assert.Contains(t, out, `width="143"`)
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "compose", "-f", writeFile(t, validYAML), "--text")
		require.NoError(t, err)
		assert.NotContains(t, out, "<")
		assert.True(t, strings.HasPrefix(out, "Ana Pérez\nAcadémica\n"))
	})

	t.Run("invalid draft still prints", func(t *testing.T) {
		t.Parallel()

		out, errOut, err := run(t, "", "compose", "--name", "Ana Pérez")
		require.NoError(t, err)
		assert.Contains(t, out, "Ana Pérez")
		assert.Contains(t, errOut, "email")
	})

	t.Run("file values are cleaned", func(t *testing.T) {
		t.Parallel()

		out, _, err := run(t, "", "compose", "--text", "-f", writeFile(t, "full_name: \"<b>Ana</b>  Pe\\u0301rez\"\nemail: ana@ucn.cl\npositions: [\"<i>Académica</i>\"]\n"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Ana Pérez\nAcadémica\n"), out)
	})

	t.Run("too many positions", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, "", "compose",
			"--position", "a", "--position", "b", "--position", "c", "--position", "d")
		require.ErrorIs(t, err, signature.ErrTooManyPositions)
	})
}

func TestCopy_InvalidDataNeverTouchesClipboard(t *testing.T) {
	t.Parallel()

	_, errOut, err := run(t, "", "copy", "--name", "Ana Pérez")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, errOut, "email")
}

func TestLoadData_CiaraFlag(t *testing.T) {
	t.Parallel()

	cmd := composeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--ciara", "--name", "Ana", "--position", "Académica"}))

	d, err := loadData(cmd)
	require.NoError(t, err)
	assert.True(t, d.CiaraMember)
	assert.Equal(t, "Ana", d.FullName)
	assert.Equal(t, []string{"Académica"}, d.Positions)
}
