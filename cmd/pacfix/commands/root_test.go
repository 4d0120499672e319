package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootRejectsFixWithPackage(t *testing.T) {
	cmd := newRootCommand("test", "none", "now")
	cmd.SetArgs([]string{"--fix", "somepkg"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
}

func TestRootRejectsNoTarget(t *testing.T) {
	cmd := newRootCommand("test", "none", "now")
	cmd.SetArgs([]string{})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
}

func TestRootRejectsTooManyArgs(t *testing.T) {
	cmd := newRootCommand("test", "none", "now")
	cmd.SetArgs([]string{"pkgA", "pkgB"})
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
}
