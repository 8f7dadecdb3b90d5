package musiccmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/music"
)

const progressBlocks = 20

type NowPlayingCommand struct {
	Bot command.MusicBot
}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the current track and position" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *NowPlayingCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	session, ok := origin.Bot.Sessions().Get(origin.GuildID)
	if !ok {
		return command.Reply(ctx, "Nothing is playing.")
	}
	track, startedAt, playing := session.Current()
	if !playing {
		return command.Reply(ctx, "Nothing is playing.")
	}

	elapsed := time.Since(startedAt)
	embed := &discordgo.MessageEmbed{
		Title:       "Now playing",
		Description: fmt.Sprintf("**%s**\n%s", track.Title, ProgressBar(elapsed, track.Duration)),
		Color:       0x1db954,
	}
	if track.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail}
	}
	if track.Requester != (music.Requester{}) {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Requested by " + track.Requester.Name,
		}
	}
	return command.ReplyEmbed(ctx, embed)
}

// ProgressBar renders elapsed position as a fixed-width block bar, like
// `▰▰▰▰▱▱... 1:23 / 3:20`. Unknown durations render without a bar.
func ProgressBar(elapsed, total time.Duration) string {
	if total <= 0 {
		return clock(elapsed) + " / live"
	}
	if elapsed > total {
		elapsed = total
	}

	filled := int(float64(progressBlocks) * elapsed.Seconds() / total.Seconds())
	if filled > progressBlocks {
		filled = progressBlocks
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("▰", filled))
	b.WriteString(strings.Repeat("▱", progressBlocks-filled))
	fmt.Fprintf(&b, " %s / %s", clock(elapsed), clock(total))
	return b.String()
}
