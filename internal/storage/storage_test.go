package storage

import (
	"os"
	"path/filepath"
	"testing"

	"reactbot/internal/mock"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "botdata.json")
	s, err := New(path, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func reopen(t *testing.T, s *Storage, path string) *Storage {
	t.Helper()
	require.NoError(t, s.Close())
	r, err := New(path, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestAddEmojiIsIdempotent(t *testing.T) {
	s, _ := newTestStorage(t)

	added, err := s.AddEmoji("42", "🔥")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddEmoji("42", "🔥")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, []string{"🔥"}, s.Emojis("42"))
}

func TestEmojiOrderAndRemoval(t *testing.T) {
	s, _ := newTestStorage(t)

	for _, tok := range []string{"🔥", "🙂", "👀"} {
		_, err := s.AddEmoji("42", tok)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"🔥", "🙂", "👀"}, s.Emojis("42"))

	removed, err := s.RemoveEmoji("42", "🙂")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"🔥", "👀"}, s.Emojis("42"))

	removed, err = s.RemoveEmoji("42", "🙂")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = s.RemoveEmoji("7", "🔥")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEmojisReturnsCopy(t *testing.T) {
	s, _ := newTestStorage(t)
	_, err := s.AddEmoji("42", "🔥")
	require.NoError(t, err)

	got := s.Emojis("42")
	got[0] = "x"
	assert.Equal(t, []string{"🔥"}, s.Emojis("42"))
	assert.Empty(t, s.Emojis("unknown"))
}

func TestSetMockValidation(t *testing.T) {
	s, _ := newTestStorage(t)

	require.NoError(t, s.SetMock("42", 2))

	err := s.SetMock("42", 4)
	assert.ErrorIs(t, err, mock.ErrInvalidMode)

	mode, ok := s.MockMode("42")
	require.True(t, ok)
	assert.Equal(t, mock.AlternatingCase, mode)

	assert.ErrorIs(t, s.SetMock("7", 0), mock.ErrInvalidMode)
	_, ok = s.MockMode("7")
	assert.False(t, ok)
}

func TestMocksKeepInsertionOrder(t *testing.T) {
	s, path := newTestStorage(t)

	require.NoError(t, s.SetMock("30", 1))
	require.NoError(t, s.SetMock("10", 3))
	require.NoError(t, s.SetMock("20", 2))
	require.NoError(t, s.SetMock("30", 3))

	want := []MockAssignment{
		{UserID: "30", Mode: mock.Leetspeak},
		{UserID: "10", Mode: mock.Leetspeak},
		{UserID: "20", Mode: mock.AlternatingCase},
	}
	assert.Equal(t, want, s.Mocks())

	r := reopen(t, s, path)
	assert.Equal(t, want, r.Mocks())
}

func TestClearMock(t *testing.T) {
	s, _ := newTestStorage(t)
	require.NoError(t, s.SetMock("42", 1))

	cleared, err := s.ClearMock("42")
	require.NoError(t, err)
	assert.True(t, cleared)

	cleared, err = s.ClearMock("42")
	require.NoError(t, err)
	assert.False(t, cleared)

	assert.Empty(t, s.Mocks())
}

func TestFailClosedRoster(t *testing.T) {
	s, _ := newTestStorage(t)

	assert.False(t, s.IsAuthorized(Principal{UserID: "1"}))
	assert.False(t, s.IsAuthorized(Principal{UserID: "1", RoleIDs: []string{"2", "3"}}))

	for _, op := range []func(Principal, string) (bool, error){s.GrantUser, s.RevokeUser, s.GrantRole, s.RevokeRole} {
		changed, err := op(Principal{UserID: "1"}, "1")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.False(t, changed)
	}

	r := s.Roster()
	assert.Empty(t, r.Users)
	assert.Empty(t, r.Roles)
}

func TestGrantRoleAuthorizesHolders(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.SetUserAllowed("100", true)
	require.NoError(t, err)

	owner := Principal{UserID: "100"}
	holder := Principal{UserID: "200", RoleIDs: []string{"555"}}

	assert.False(t, s.IsAuthorized(holder))

	changed, err := s.GrantRole(owner, "555")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.IsAuthorized(holder))

	// Role holders are authorized for commands but cannot edit the roster.
	_, err = s.GrantUser(holder, "300")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, s.IsCommandUser("300"))
}

func TestGrantAndRevokeAreNoOpsWhenUnchanged(t *testing.T) {
	s, _ := newTestStorage(t)
	_, err := s.SetUserAllowed("100", true)
	require.NoError(t, err)
	owner := Principal{UserID: "100"}

	changed, err := s.GrantUser(owner, "100")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.RevokeRole(owner, "9")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.GrantUser(owner, "200")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.RevokeUser(owner, "200")
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Equal(t, []string{"100"}, s.Roster().Users)
}

func TestGrantRejectsInvalidID(t *testing.T) {
	s, _ := newTestStorage(t)
	_, err := s.SetUserAllowed("100", true)
	require.NoError(t, err)

	_, err = s.GrantRole(Principal{UserID: "100"}, "not-a-number")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = s.SetUserAllowed("-5", true)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestSeedUsersOnlyWhenEmpty(t *testing.T) {
	s, _ := newTestStorage(t)

	n, err := s.SeedUsers([]string{"100", "200", "100"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.SeedUsers([]string{"300"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, []string{"100", "200"}, s.Roster().Users)

	fresh, _ := newTestStorage(t)
	_, err = fresh.SeedUsers([]string{"abc"})
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Empty(t, fresh.Roster().Users)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, path := newTestStorage(t)

	_, err := s.SetUserAllowed("100", true)
	require.NoError(t, err)
	_, err = s.SetRoleAllowed("555", true)
	require.NoError(t, err)
	_, err = s.AddEmoji("42", "🔥")
	require.NoError(t, err)
	_, err = s.AddEmoji("42", "🙂")
	require.NoError(t, err)
	require.NoError(t, s.SetMock("42", 3))

	r := reopen(t, s, path)
	assert.Equal(t, []string{"🔥", "🙂"}, r.Emojis("42"))
	assert.Equal(t, Roster{Users: []string{"100"}, Roles: []string{"555"}}, r.Roster())
	assert.Equal(t, []MockAssignment{{UserID: "42", Mode: mock.Leetspeak}}, r.Mocks())
}

func TestSnapshotFileFormat(t *testing.T) {
	s, path := newTestStorage(t)
	_, err := s.SetUserAllowed("100", true)
	require.NoError(t, err)
	_, err = s.AddEmoji("42", "🔥")
	require.NoError(t, err)
	require.NoError(t, s.SetMock("42", 2))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"user_emojis": {"42": ["🔥"]},
		"command_users": [100],
		"command_roles": [],
		"mock_targets": {"42": 2}
	}`, string(raw))
}

func TestLoadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botdata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"user_emojis": {"42": ["🔥", "🙂"]},
		"command_users": [123456789012345678],
		"command_roles": [876543210987654321],
		"mock_targets": {"42": 3, "7": 1}
	}`), 0644))

	s, err := New(path, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{"🔥", "🙂"}, s.Emojis("42"))
	assert.True(t, s.IsAuthorized(Principal{UserID: "123456789012345678"}))
	assert.True(t, s.IsAuthorized(Principal{UserID: "1", RoleIDs: []string{"876543210987654321"}}))
	assert.Equal(t, []MockAssignment{
		{UserID: "42", Mode: mock.Leetspeak},
		{UserID: "7", Mode: mock.Verbatim},
	}, s.Mocks())
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botdata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	s, err := New(path, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer s.Close()

	assert.Empty(t, s.Roster().Users)
	assert.Empty(t, s.Mocks())
	assert.Empty(t, s.Emojis("42"))
}

func TestMalformedFieldResetsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botdata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"user_emojis": {"42": ["🔥"]},
		"command_users": "oops"
	}`), 0644))

	s, err := New(path, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer s.Close()

	assert.Empty(t, s.Emojis("42"))
	assert.Empty(t, s.Roster().Users)
}

func TestMissingFieldsDefaultEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "botdata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"command_users": [5]}`), 0644))

	s, err := New(path, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{"5"}, s.Roster().Users)
	added, err := s.AddEmoji("1", "👍")
	require.NoError(t, err)
	assert.True(t, added)
	require.NoError(t, s.SetMock("1", 1))
}
