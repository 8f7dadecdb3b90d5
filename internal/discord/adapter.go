package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dbatista/jukebot/internal/music"
	"github.com/dbatista/jukebot/internal/music/spotify"
	"github.com/dbatista/jukebot/internal/music/stream"
	"github.com/dbatista/jukebot/pkg/jobmgr"
)

// Job names enforce one player loop and one playlist loader per guild: the
// job manager rejects a duplicate name, so a second start is impossible by
// construction.
func playerJob(guildID string) string { return "player:" + guildID }
func loaderJob(guildID string) string { return "loader:" + guildID }

func (b *Bot) Sessions() *music.Registry {
	return b.sessions
}

// FindUserVoiceChannel returns the voice channel the user currently sits in.
func (b *Bot) FindUserVoiceChannel(guildID, userID string) (string, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("error retrieving guild: %w", err)
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", errors.New("user not in any voice channel")
}

func (b *Bot) ResolveTrack(ctx context.Context, query string, requester music.Requester) (music.Track, error) {
	return b.resolver.Resolve(ctx, query, requester)
}

// EnsurePlaying joins the voice channel and starts the player loop unless one
// is already running for the guild. Calls are serialized so two racing play
// commands cannot both join voice and overwrite each other's output.
func (b *Bot) EnsurePlaying(guildID, voiceChannelID string) error {
	b.startMu.Lock()
	defer b.startMu.Unlock()

	if b.jobs.IsRunning(playerJob(guildID)) {
		return nil
	}

	vc, err := b.dg.ChannelVoiceJoin(guildID, voiceChannelID, false, true)
	if err != nil {
		return fmt.Errorf("voice join: %w", err)
	}

	out := stream.NewVoiceOutput(vc, b.opener)
	b.mu.Lock()
	b.outputs[guildID] = out
	b.mu.Unlock()

	session := b.sessions.GetOrCreate(guildID)
	cleanup := func() {
		_ = b.jobs.Stop(loaderJob(guildID))
		b.mu.Lock()
		delete(b.outputs, guildID)
		b.mu.Unlock()
		b.sessions.Remove(guildID)
	}

	player := music.NewPlayer(session, out, b, cleanup)
	b.mu.Lock()
	b.players[guildID] = player
	b.mu.Unlock()

	err = b.jobs.StartAsync(playerJob(guildID), func(ctx context.Context) error {
		defer func() {
			b.mu.Lock()
			delete(b.players, guildID)
			b.mu.Unlock()
		}()
		return player.Run(ctx)
	})
	if err != nil && !errors.Is(err, jobmgr.ErrAlreadyRunning) {
		return err
	}
	return nil
}

// StartPlaylist swaps in a new playlist load: the previous loader is stopped
// through the session's stop hook, then a fresh loader job starts.
func (b *Bot) StartPlaylist(guildID, voiceChannelID string, requester music.Requester, queries []string, onFirst func(music.Track, bool)) error {
	session := b.sessions.GetOrCreate(guildID)

	session.BeginPlaylist(requester, queries, func() {
		_ = b.jobs.Stop(loaderJob(guildID))
	})

	loader := music.NewLoader(session, b.resolver, b)
	loader.OnFirst = onFirst

	if err := b.jobs.StartAsync(loaderJob(guildID), loader.Run); err != nil {
		session.ResetPlaylist()
		return fmt.Errorf("start loader: %w", err)
	}

	return b.EnsurePlaying(guildID, voiceChannelID)
}

// Stop tears the guild's session down: queued work is dropped, the player
// loop is cancelled, and its cleanup disconnects voice and retires the panel.
func (b *Bot) Stop(guildID string) {
	session, ok := b.sessions.Get(guildID)
	if !ok {
		return
	}

	// Loop off first, so the cut track is not immediately requeued.
	session.SetLoop(music.LoopOff)
	session.ResetPlaylist()

	if err := b.jobs.Stop(playerJob(guildID)); err != nil {
		// No live player loop; retire whatever panel is left ourselves.
		b.retireMenu(session)
		b.sessions.Remove(guildID)
	}
}

func (b *Bot) Skip(guildID string) {
	b.mu.Lock()
	player := b.players[guildID]
	b.mu.Unlock()

	if player != nil {
		player.Skip()
	}
}

// TogglePause flips pause on the guild's audio output. ok is false when
// nothing is playing.
func (b *Bot) TogglePause(guildID string) (bool, bool) {
	b.mu.Lock()
	out := b.outputs[guildID]
	b.mu.Unlock()

	if out == nil {
		return false, false
	}
	session, ok := b.sessions.Get(guildID)
	if !ok {
		return false, false
	}
	if _, _, playing := session.Current(); !playing {
		return false, false
	}

	paused := !out.Paused()
	out.SetPaused(paused)
	b.UpdateMenu(session)
	return paused, true
}

func (b *Bot) SpotifyEnabled() bool {
	return b.spotify != nil
}

func (b *Bot) SpotifyPing(ctx context.Context) error {
	if b.spotify == nil {
		return spotify.ErrNotConfigured
	}
	return b.spotify.Ping(ctx)
}

func (b *Bot) PlaylistQueries(ctx context.Context, playlistURL string) ([]string, error) {
	if b.spotify == nil {
		return nil, spotify.ErrNotConfigured
	}
	return b.spotify.PlaylistQueries(ctx, playlistURL)
}

// Events below are invoked from the player and loader goroutines.

func (b *Bot) MenuUpdate(s *music.Session) {
	b.UpdateMenu(s)
}

func (b *Bot) PlaybackFailed(s *music.Session, t music.Track) {
	if menu := s.Menu(); menu != nil {
		_, _ = b.dg.ChannelMessageSend(menu.ChannelID,
			fmt.Sprintf("Could not play **%s**, skipping it.", t.Title))
	}
}

func (b *Bot) IdleTimeout(s *music.Session) {
	log.Printf("[INFO] %s: idle timeout, leaving voice", s.GuildID)
	if menu := s.Menu(); menu != nil {
		_, _ = b.dg.ChannelMessageSend(menu.ChannelID, "Nothing to play, leaving the voice channel.")
	}
}

func (b *Bot) PlayerClosed(s *music.Session) {
	b.retireMenu(s)
}
