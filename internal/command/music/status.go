package musiccmd

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/music"
)

type StatusCommand struct {
	Bot command.MusicBot
}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Show playback activity across servers" }
func (c *StatusCommand) Aliases() []string   { return []string{} }

func (c *StatusCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *StatusCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	summary := StatusSummary(origin.Bot.Sessions().All(), origin.GuildID)

	return command.ReplyEmbed(ctx, &discordgo.MessageEmbed{
		Title:       "Status",
		Description: summary,
		Color:       0x5865f2,
	})
}

// StatusSummary renders the cross-guild totals plus the invoking guild's own
// playback and playlist loading progress.
func StatusSummary(sessions []*music.Session, guildID string) string {
	playing := 0
	queued := 0
	var lines []string
	for _, s := range sessions {
		n := s.QueueLen()
		queued += n
		track, _, ok := s.Current()
		if ok {
			playing++
		}
		if s.GuildID != guildID {
			continue
		}
		if ok {
			lines = append(lines, fmt.Sprintf("This server: **%s**, %d queued", track.Title, n))
		}
		if pl := s.Playlist(); pl.Active {
			line := fmt.Sprintf("Playlist: %d/%d loaded, %d pending", pl.Loaded, pl.Total, pl.Pending)
			if pl.Requester.Name != "" {
				line += fmt.Sprintf(" (requested by %s)", pl.Requester.Name)
			}
			lines = append(lines, line)
		}
	}

	summary := fmt.Sprintf("Active sessions: %d\nPlaying now: %d\nTracks queued: %d", len(sessions), playing, queued)
	if len(lines) > 0 {
		summary += "\n" + strings.Join(lines, "\n")
	}
	return summary
}
