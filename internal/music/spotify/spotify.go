package spotify

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

var playlistPattern = regexp.MustCompile(`https://open\.spotify\.com/playlist/([a-zA-Z0-9]+)`)

// ErrNotConfigured is returned by the constructor when credentials are absent.
var ErrNotConfigured = errors.New("spotify credentials not configured")

const pageLimit = 100

// Client reads playlist metadata through the client-credentials flow. It is
// metadata-only: playback always goes through YouTube search, Spotify just
// supplies the track names.
type Client struct {
	api *spotify.Client
}

// New authenticates with the client-credentials grant. The returned client
// refreshes its token transparently.
func New(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrNotConfigured
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Client{api: spotify.New(httpClient)}, nil
}

// IsPlaylistURL reports whether input is a shareable Spotify playlist link.
func IsPlaylistURL(input string) bool {
	return playlistPattern.MatchString(input)
}

// PlaylistID extracts the playlist identifier from a share link.
func PlaylistID(input string) (string, bool) {
	m := playlistPattern.FindStringSubmatch(input)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// PlaylistQueries fetches every track of a playlist and renders each as a
// "title artist" search query. Local files and podcast episodes carry no
// track payload and are skipped.
func (c *Client) PlaylistQueries(ctx context.Context, playlistURL string) ([]string, error) {
	id, ok := PlaylistID(playlistURL)
	if !ok {
		return nil, fmt.Errorf("not a spotify playlist link: %s", playlistURL)
	}

	var queries []string
	for offset := 0; ; offset += pageLimit {
		page, err := c.api.GetPlaylistItems(ctx, spotify.ID(id),
			spotify.Limit(pageLimit), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("playlist items: %w", err)
		}

		for _, item := range page.Items {
			track := item.Track.Track
			if track == nil {
				continue
			}
			query := track.Name
			if len(track.Artists) > 0 {
				query += " " + track.Artists[0].Name
			}
			queries = append(queries, query)
		}

		if len(page.Items) < pageLimit {
			break
		}
	}

	if len(queries) == 0 {
		return nil, errors.New("playlist has no playable tracks")
	}
	return queries, nil
}

// Ping performs a trivial lookup so operators can verify credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.GetArtist(ctx, "1dfeR4HaWDbWqFHLkxsg1d")
	return err
}
