package musiccmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/music"
	"github.com/dbatista/jukebot/internal/music/resolver"
)

const resolveTimeout = 30 * time.Second

type PlayCommand struct {
	Bot command.MusicBot
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Queue a song by name or YouTube link" }
func (c *PlayCommand) Aliases() []string   { return []string{"p"} }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Song name or YouTube link",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(origin.Args, " "))
	if query == "" {
		return command.Reply(ctx, "Tell me what to play.")
	}

	session := origin.Bot.Sessions().GetOrCreate(origin.GuildID)
	if session.Playlist().Active {
		return command.Reply(ctx, "A playlist is loading right now; stop it first if you want to queue something else.")
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

	track, err := origin.Bot.ResolveTrack(rctx, query, origin.Requester())
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return command.Followup(ctx, fmt.Sprintf("No results for **%s**.", query))
		}
		return command.Followup(ctx, fmt.Sprintf("Could not resolve **%s**: %v", query, err))
	}

	if err := session.Enqueue(track); err != nil {
		if errors.Is(err, music.ErrQueueFull) {
			return command.Followup(ctx, fmt.Sprintf("Queue is full (%d tracks), try again later.", music.QueueCapacity))
		}
		return command.Followup(ctx, fmt.Sprintf("Could not queue the track: %v", err))
	}

	if err := origin.Bot.EnsurePlaying(origin.GuildID, voiceChannelID); err != nil {
		return command.Followup(ctx, fmt.Sprintf("Could not join your voice channel: %v", err))
	}

	// First play in a fresh session brings up the control panel without a
	// separate menu invocation.
	if session.Menu() == nil {
		if err := origin.Bot.SendMenu(origin.GuildID, origin.ChannelID); err != nil {
			log.Printf("[WARN] Could not post the player panel: %v", err)
		}
	}

	return command.Followup(ctx, fmt.Sprintf("Queued **%s** (%s).", track.Title, formatDuration(track.Duration)))
}

// formatDuration shows a track length, with zero meaning a live stream.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "live"
	}
	return clock(d)
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
