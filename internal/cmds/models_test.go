package cmds

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	require.Equal(t, []string{"unix", "files"}, NormalizeTags([]string{" unix ", "", "files"}))
	require.Equal(t, []string{"a", "a"}, NormalizeTags([]string{"a", " a", "   "}))

	out := NormalizeTags(nil)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestPatchIsEmpty(t *testing.T) {
	require.True(t, Patch{}.IsEmpty())
	title := "x"
	require.False(t, Patch{Title: &title}.IsEmpty())
	tags := []string{}
	require.False(t, Patch{Tags: &tags}.IsEmpty())
}

func TestCmdMatchesAndHasTag(t *testing.T) {
	c := &Cmd{Title: "ls -la", Content: "List Files", Tags: []string{"unix", "Shell"}}

	require.True(t, c.HasTag("unix"))
	require.False(t, c.HasTag("shell"))

	require.True(t, c.Matches("LS"))
	require.True(t, c.Matches("files"))
	require.True(t, c.Matches("shell"))
	require.False(t, c.Matches("docker"))
}
