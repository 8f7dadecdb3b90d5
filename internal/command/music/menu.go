package musiccmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/music"
	"github.com/dbatista/jukebot/pkg/pagination"
)

// jumpPageSize is how many queue entries one page of the reorder menu shows.
const jumpPageSize = 5

// MenuCommand posts the interactive player panel and owns its buttons under
// the "player" component namespace.
type MenuCommand struct {
	Bot command.MusicBot
}

func (c *MenuCommand) Name() string        { return "menu" }
func (c *MenuCommand) Description() string { return "Open the player control panel" }
func (c *MenuCommand) Aliases() []string   { return []string{} }

func (c *MenuCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *MenuCommand) ComponentNamespace() string { return "player" }

func (c *MenuCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	if err := origin.Bot.SendMenu(origin.GuildID, origin.ChannelID); err != nil {
		return command.Reply(ctx, fmt.Sprintf("Could not post the panel: %v", err))
	}
	return command.Reply(ctx, "Panel posted.")
}

func (c *MenuCommand) Component(ctx *command.ComponentContext) error {
	session, ok := ctx.Bot.Sessions().Get(ctx.Event.GuildID)
	if !ok {
		return respondEphemeral(ctx, "No active player in this server.")
	}

	action, arg := splitAction(ctx.Data)
	switch action {
	case "pause":
		if _, ok := ctx.Bot.TogglePause(ctx.Event.GuildID); !ok {
			return respondEphemeral(ctx, "Nothing is playing.")
		}
		if err := ackUpdate(ctx); err != nil {
			return err
		}
		ctx.Bot.UpdateMenu(session)
		return nil

	case "skip":
		if err := ackUpdate(ctx); err != nil {
			return err
		}
		ctx.Bot.Skip(ctx.Event.GuildID)
		return nil

	case "stop":
		if err := ackUpdate(ctx); err != nil {
			return err
		}
		ctx.Bot.Stop(ctx.Event.GuildID)
		return nil

	case "loop":
		mode := session.CycleLoop()
		if err := ackUpdate(ctx); err != nil {
			return err
		}
		ctx.Bot.UpdateMenu(session)
		return respondFollowupEphemeral(ctx, fmt.Sprintf("Loop mode: %s.", mode))

	case "clear":
		session.ClearQueue()
		if err := ackUpdate(ctx); err != nil {
			return err
		}
		ctx.Bot.UpdateMenu(session)
		return nil

	case "queue":
		return respondEphemeralEmbed(ctx, QueueEmbed(session))

	case "jumplist":
		if !isManager(ctx) {
			return respondEphemeral(ctx, "Reordering is for users with Manage Server.")
		}
		page, _ := strconv.Atoi(arg)
		content, components := jumpPage(session, page)
		return respondEphemeralComponents(ctx, content, components)

	case "jump":
		if !isManager(ctx) {
			return respondEphemeral(ctx, "Reordering is for users with Manage Server.")
		}
		index, err := strconv.Atoi(arg)
		if err != nil {
			return respondEphemeral(ctx, "That button has gone stale.")
		}
		track, err := session.MoveToFront(index)
		if err != nil {
			return respondEphemeral(ctx, "That track is no longer in the queue.")
		}
		ctx.Bot.UpdateMenu(session)
		return respondEphemeral(ctx, fmt.Sprintf("**%s** plays next.", track.Title))
	}

	return respondEphemeral(ctx, "Unknown control.")
}

// jumpPage builds one page of the admin reorder menu: a button per queued
// track plus prev/next navigation.
func jumpPage(session *music.Session, page int) (string, []discordgo.MessageComponent) {
	tracks := session.QueueSnapshot()
	if len(tracks) == 0 {
		return "The queue is empty.", nil
	}

	page = pagination.Clamp(page, len(tracks), jumpPageSize)
	start, end := pagination.Bounds(page, len(tracks), jumpPageSize)
	last := pagination.TotalPages(len(tracks), jumpPageSize)

	var b strings.Builder
	fmt.Fprintf(&b, "Pick the track to play next (page %d/%d):\n", page+1, last+1)

	var row discordgo.ActionsRow
	for i := start; i < end; i++ {
		fmt.Fprintf(&b, "`%d.` %s\n", i+1, tracks[i].Title)
		row.Components = append(row.Components, discordgo.Button{
			Label:    strconv.Itoa(i + 1),
			Style:    discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("player:jump:%d", i),
		})
	}

	components := []discordgo.MessageComponent{row}
	if last > 0 {
		nav := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Prev",
				Style:    discordgo.PrimaryButton,
				CustomID: fmt.Sprintf("player:jumplist:%d", page-1),
				Disabled: page == 0,
			},
			discordgo.Button{
				Label:    "Next",
				Style:    discordgo.PrimaryButton,
				CustomID: fmt.Sprintf("player:jumplist:%d", page+1),
				Disabled: page == last,
			},
		}}
		components = append(components, nav)
	}
	return b.String(), components
}

func splitAction(data string) (string, string) {
	if i := strings.Index(data, ":"); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}

func isManager(ctx *command.ComponentContext) bool {
	return ctx.Event.Member != nil &&
		ctx.Event.Member.Permissions&discordgo.PermissionManageGuild != 0
}

func ackUpdate(ctx *command.ComponentContext) error {
	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func respondEphemeral(ctx *command.ComponentContext, content string) error {
	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondEphemeralEmbed(ctx *command.ComponentContext, embed *discordgo.MessageEmbed) error {
	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondEphemeralComponents(ctx *command.ComponentContext, content string, components []discordgo.MessageComponent) error {
	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondFollowupEphemeral(ctx *command.ComponentContext, content string) error {
	_, err := ctx.Session.FollowupMessageCreate(ctx.Event.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}
