package musiccmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/music"
	"github.com/dbatista/jukebot/internal/music/spotify"
)

type PlaylistCommand struct {
	Bot command.MusicBot
}

func (c *PlaylistCommand) Name() string        { return "playlist" }
func (c *PlaylistCommand) Description() string { return "Queue a Spotify playlist" }
func (c *PlaylistCommand) Aliases() []string   { return []string{"pl"} }

func (c *PlaylistCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "url",
				Description: "Spotify playlist link",
				Required:    true,
			},
		},
	}
}

func (c *PlaylistCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	url := strings.TrimSpace(strings.Join(origin.Args, " "))
	if !spotify.IsPlaylistURL(url) {
		return command.Reply(ctx, "Give me a Spotify playlist link (https://open.spotify.com/playlist/...).")
	}
	if !origin.Bot.SpotifyEnabled() {
		return command.Reply(ctx, "Spotify support is not configured on this bot.")
	}

	voiceChannelID, err := origin.Bot.FindUserVoiceChannel(origin.GuildID, origin.User.ID)
	if err != nil {
		return command.Reply(ctx, "You need to be in a voice channel first.")
	}

	if err := command.Defer(ctx); err != nil {
		return fmt.Errorf("defer response: %w", err)
	}

	rctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	queries, err := origin.Bot.PlaylistQueries(rctx, url)
	if err != nil {
		return command.Followup(ctx, fmt.Sprintf("Could not read that playlist: %v", err))
	}

	// The first hit reports back through the loader so the user sees playback
	// begin before the rest of the playlist trickles in.
	onFirst := func(t music.Track, ok bool) {
		if ok {
			_ = command.Followup(ctx, fmt.Sprintf("Loading %d tracks, starting with **%s**.", len(queries), t.Title))
		} else {
			_ = command.Followup(ctx, fmt.Sprintf("Loading %d tracks. The first one was not found, moving on.", len(queries)))
		}
	}

	if err := origin.Bot.StartPlaylist(origin.GuildID, voiceChannelID, origin.Requester(), queries, onFirst); err != nil {
		return command.Followup(ctx, fmt.Sprintf("Could not start the playlist: %v", err))
	}
	return nil
}
