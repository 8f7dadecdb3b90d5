package musiccmd

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
)

type VolumeCommand struct {
	Bot command.MusicBot
}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Show or set the playback volume (1-150)" }
func (c *VolumeCommand) Aliases() []string   { return []string{"vol"} }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	var min float64 = 1
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "percent",
				Description: "New volume in percent",
				Required:    false,
				MinValue:    &min,
				MaxValue:    150,
			},
		},
	}
}

func (c *VolumeCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	session := origin.Bot.Sessions().GetOrCreate(origin.GuildID)

	if len(origin.Args) == 0 {
		return command.Reply(ctx, fmt.Sprintf("Volume is at %d%%.", int(session.Volume()*100)))
	}

	percent, err := strconv.Atoi(origin.Args[0])
	if err != nil || percent < 1 || percent > 150 {
		return command.Reply(ctx, "Volume must be a number between 1 and 150.")
	}

	session.SetVolume(float64(percent) / 100)
	origin.Bot.UpdateMenu(session)
	return command.Reply(ctx, fmt.Sprintf("Volume set to %d%%.", percent))
}
