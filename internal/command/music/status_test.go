package musiccmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbatista/jukebot/internal/music"
)

func TestStatusSummaryShowsPlaylistProgress(t *testing.T) {
	s := music.NewSession("g1")
	s.BeginPlaylist(music.Requester{ID: "u1", Name: "alice"}, []string{"a", "b", "c", "d"}, nil)
	require.True(t, s.EnqueuePlaylistTrack(music.Track{Title: "a"}))
	require.True(t, s.EnqueuePlaylistTrack(music.Track{Title: "b"}))
	s.SetCurrent(music.Track{Title: "a"})

	summary := StatusSummary([]*music.Session{s}, "g1")

	assert.Contains(t, summary, "Active sessions: 1")
	assert.Contains(t, summary, "This server: **a**, 2 queued")
	assert.Contains(t, summary, "Playlist: 2/4 loaded, 4 pending")
	assert.Contains(t, summary, "requested by alice")
}

func TestStatusSummaryOmitsOtherGuildDetails(t *testing.T) {
	other := music.NewSession("g2")
	other.BeginPlaylist(music.Requester{ID: "u2", Name: "bob"}, []string{"x", "y"}, nil)
	require.NoError(t, other.Enqueue(music.Track{Title: "x"}))
	other.SetCurrent(music.Track{Title: "x"})

	summary := StatusSummary([]*music.Session{other}, "g1")

	assert.Contains(t, summary, "Playing now: 1")
	assert.Contains(t, summary, "Tracks queued: 1")
	assert.NotContains(t, summary, "This server")
	assert.NotContains(t, summary, "Playlist:")
}
