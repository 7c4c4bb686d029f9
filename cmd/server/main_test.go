package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediai/backend/internal/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := execute(t, "token", "--user", "alice", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.NewTokens("cli-secret").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
}

func TestMigrateCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "data", "mediai.db")
	t.Setenv("DATABASE_PATH", dbPath)

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, dbPath)
}
