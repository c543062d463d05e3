package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/contact-dashboard/internal/auth"
)

func TestPrompt(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		got := prompt(strings.NewReader(tc.in), &out, "Delete? ")
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, "Delete? ", out.String())
	}
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "1 2 3", joinInts([]int{1, 2, 3}))
	assert.Equal(t, "", joinInts(nil))
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "cli-test-secret")
	t.Setenv("AUTH_JWT_ISSUER", "cli-test")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"token", "--sub", "ops-1", "--role", "admin", "--env-file", t.TempDir() + "/missing.env"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	id, err := auth.NewVerifier("cli-test-secret", "cli-test").Verify(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops-1", id.UserID)
	assert.Equal(t, auth.RoleAdmin, id.Role)
	assert.True(t, id.SignedIn)
}
