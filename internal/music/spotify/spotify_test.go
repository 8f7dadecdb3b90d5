package spotify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPlaylistURL(t *testing.T) {
	assert.True(t, IsPlaylistURL("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M"))
	assert.True(t, IsPlaylistURL("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123"))

	assert.False(t, IsPlaylistURL("https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT"))
	assert.False(t, IsPlaylistURL("https://open.spotify.com/album/2up3OPMp9Tb4dAKM2erWXQ"))
	assert.False(t, IsPlaylistURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, IsPlaylistURL("never gonna give you up"))
}

func TestPlaylistID(t *testing.T) {
	id, ok := PlaylistID("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=xyz")
	require.True(t, ok)
	assert.Equal(t, "37i9dQZF1DXcBWIGoYBM5M", id)

	_, ok = PlaylistID("https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT")
	assert.False(t, ok)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(context.Background(), "id-only", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
