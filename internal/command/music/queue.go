package musiccmd

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/music"
)

// queuePreview is how many upcoming tracks the queue embed lists.
const queuePreview = 10

type QueueCommand struct {
	Bot command.MusicBot
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the upcoming tracks" }
func (c *QueueCommand) Aliases() []string   { return []string{"q"} }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *QueueCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	session, ok := origin.Bot.Sessions().Get(origin.GuildID)
	if !ok {
		return command.Reply(ctx, "Nothing is queued.")
	}

	return command.ReplyEmbed(ctx, QueueEmbed(session))
}

// QueueEmbed renders the current track, the next tracks and playlist load
// progress. Shared with the player panel's queue button.
func QueueEmbed(session *music.Session) *discordgo.MessageEmbed {
	var b strings.Builder

	if current, _, playing := session.Current(); playing {
		fmt.Fprintf(&b, "**Now playing:** %s (%s)\n\n", current.Title, formatDuration(current.Duration))
	}

	tracks := session.QueueSnapshot()
	if len(tracks) == 0 {
		b.WriteString("The queue is empty.")
	} else {
		shown := tracks
		if len(shown) > queuePreview {
			shown = shown[:queuePreview]
		}
		for i, t := range shown {
			fmt.Fprintf(&b, "`%2d.` %s (%s)\n", i+1, t.Title, formatDuration(t.Duration))
		}
		if rest := len(tracks) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "... and %d more\n", rest)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: b.String(),
		Color:       0x1db954,
	}

	if pl := session.Playlist(); pl.Active {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Playlist loading: %d/%d resolved, %d pending", pl.Loaded, pl.Total, pl.Pending),
		}
	}
	return embed
}
