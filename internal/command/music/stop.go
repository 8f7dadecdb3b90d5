package musiccmd

import (
	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
)

type StopCommand struct {
	Bot command.MusicBot
}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue" }
func (c *StopCommand) Aliases() []string   { return []string{} }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	origin.Bot.Stop(origin.GuildID)
	return command.Reply(ctx, "Stopped. The queue is cleared.")
}
