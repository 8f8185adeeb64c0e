package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"reactbot/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"rosterctl", "--storage", path}, args...))
	return out.String(), err
}

func TestRosterLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botdata.json")

	out, err := runApp(t, path, "show")
	require.NoError(t, err)
	assert.Equal(t, "users: none\nroles: none\n", out)

	out, err = runApp(t, path, "allow-user", "111", "222", "111")
	require.NoError(t, err)
	assert.Equal(t, "user 111 allowed\nuser 222 allowed\nuser 111 unchanged\n", out)

	_, err = runApp(t, path, "allow-role", "333")
	require.NoError(t, err)
	_, err = runApp(t, path, "remove-user", "222")
	require.NoError(t, err)

	out, err = runApp(t, path, "show")
	require.NoError(t, err)
	assert.Equal(t, "users: 111\nroles: 333\n", out)

	store, err := storage.New(path, storage.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer store.Close()
	assert.True(t, store.IsAuthorized(storage.Principal{UserID: "999", RoleIDs: []string{"333"}}))
	assert.True(t, store.IsCommandUser("111"))
}

func TestRosterRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botdata.json")

	_, err := runApp(t, path, "allow-user")
	assert.Error(t, err)

	_, err = runApp(t, path, "allow-role", "admins")
	assert.ErrorIs(t, err, storage.ErrInvalidID)
}
