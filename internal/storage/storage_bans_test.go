package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetAndRemoveBan(t *testing.T) {
	s := newTestStorage(t)

	s.SetBan("42", BanRecord{Reason: "spam", BannedBy: "1"})

	banned, rec := s.IsBanned("42")
	require.True(t, banned)
	assert.Equal(t, "spam", rec.Reason)
	assert.Nil(t, rec.Until)

	assert.True(t, s.RemoveBan("42"))
	assert.False(t, s.RemoveBan("42"))

	banned, _ = s.IsBanned("42")
	assert.False(t, banned)
}

func TestExpiredBanIsPruned(t *testing.T) {
	s := newTestStorage(t)

	past := time.Now().UTC().Add(-time.Minute)
	s.SetBan("42", BanRecord{Until: &past, Reason: "timeout", BannedBy: "1"})

	banned, rec := s.IsBanned("42")
	assert.False(t, banned)
	assert.Nil(t, rec)

	// the expired entry must be gone from the persisted set too
	assert.Empty(t, s.Bans())
}

func TestTimedBanStillActive(t *testing.T) {
	s := newTestStorage(t)

	future := time.Now().UTC().Add(time.Hour)
	s.SetBan("42", BanRecord{Until: &future, Reason: "cooldown", BannedBy: "1"})

	banned, rec := s.IsBanned("42")
	require.True(t, banned)
	require.NotNil(t, rec.Until)
	assert.WithinDuration(t, future, *rec.Until, time.Second)
}

func TestBansSortedAndClear(t *testing.T) {
	s := newTestStorage(t)

	s.SetBan("30", BanRecord{Reason: "b", BannedBy: "1"})
	s.SetBan("10", BanRecord{Reason: "a", BannedBy: "1"})
	s.SetBan("20", BanRecord{Reason: "c", BannedBy: "1"})

	entries := s.Bans()
	require.Len(t, entries, 3)
	assert.Equal(t, "10", entries[0].UserID)
	assert.Equal(t, "20", entries[1].UserID)
	assert.Equal(t, "30", entries[2].UserID)

	s.ClearBans()
	assert.Empty(t, s.Bans())
}
