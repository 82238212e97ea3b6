package clipboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidates(t *testing.T) {
	t.Parallel()

	names := func(cmds []command) []string {
		out := make([]string, 0, len(cmds))
		for _, c := range cmds {
			out = append(out, c.name)
		}
		return out
	}

	require.Equal(t, []string{"pbcopy"}, names(candidates("darwin", false)))
	require.Equal(t, []string{"clip.exe"}, names(candidates("windows", false)))
	require.Equal(t, []string{"xclip", "xsel"}, names(candidates("linux", false)))
	require.Equal(t, []string{"wl-copy", "xclip", "xsel"}, names(candidates("linux", true)))
}
