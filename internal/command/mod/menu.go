package modcmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/command"
	"github.com/dbatista/jukebot/internal/storage"
	"github.com/dbatista/jukebot/pkg/pagination"
)

// modPageSize is how many ban entries one page of the moderation menu shows.
const modPageSize = 4

// ModMenuCommand lists the ban list as a paginated panel with per-entry
// unban buttons, under the "mod" component namespace.
type ModMenuCommand struct {
	Bot command.MusicBot
}

func (c *ModMenuCommand) Name() string        { return "modmenu" }
func (c *ModMenuCommand) Description() string { return "Browse and manage the bot ban list" }
func (c *ModMenuCommand) Aliases() []string   { return []string{} }

func (c *ModMenuCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *ModMenuCommand) ComponentNamespace() string { return "mod" }

func (c *ModMenuCommand) Run(ctx interface{}) error {
	origin, err := command.OriginOf(ctx)
	if err != nil {
		return err
	}

	content, components := banPage(origin.Storage, 0)
	switch v := ctx.(type) {
	case *command.SlashContext:
		return v.Session.InteractionRespond(v.Event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    content,
				Components: components,
			},
		})
	case *command.MessageContext:
		_, err := v.Session.ChannelMessageSendComplex(v.Event.ChannelID, &discordgo.MessageSend{
			Content:    content,
			Components: components,
		})
		return err
	}
	return fmt.Errorf("wrong context type")
}

func (c *ModMenuCommand) Component(ctx *command.ComponentContext) error {
	action, arg := splitAction(ctx.Data)

	switch action {
	case "page":
		page, _ := strconv.Atoi(arg)
		content, components := banPage(ctx.Storage, page)
		return updateMessage(ctx, content, components)

	case "unban":
		// arg is "<userID>:<page>" so the panel stays on the same page.
		userID, pageArg := splitAction(arg)
		page, _ := strconv.Atoi(pageArg)
		ctx.Storage.RemoveBan(userID)
		content, components := banPage(ctx.Storage, page)
		return updateMessage(ctx, content, components)

	case "massunban":
		switch arg {
		case "confirm":
			ctx.Storage.ClearBans()
			content, components := banPage(ctx.Storage, 0)
			return updateMessage(ctx, content, components)
		case "cancel":
			content, components := banPage(ctx.Storage, 0)
			return updateMessage(ctx, content, components)
		default:
			return updateMessage(ctx, "Unban everyone?", []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Yes, unban all",
						Style:    discordgo.DangerButton,
						CustomID: "mod:massunban:confirm",
					},
					discordgo.Button{
						Label:    "Cancel",
						Style:    discordgo.SecondaryButton,
						CustomID: "mod:massunban:cancel",
					},
				}},
			})
		}
	}

	return updateMessage(ctx, "Unknown control.", nil)
}

// banPage renders one page of the ban list with its controls.
func banPage(st *storage.Storage, page int) (string, []discordgo.MessageComponent) {
	bans := st.Bans()
	if len(bans) == 0 {
		// An empty (non-nil) slice clears the buttons of an edited panel.
		return "Nobody is banned.", []discordgo.MessageComponent{}
	}

	page = pagination.Clamp(page, len(bans), modPageSize)
	start, end := pagination.Bounds(page, len(bans), modPageSize)
	last := pagination.TotalPages(len(bans), modPageSize)

	var b strings.Builder
	fmt.Fprintf(&b, "Banned users (page %d/%d):\n", page+1, last+1)

	var unbanRow discordgo.ActionsRow
	for i := start; i < end; i++ {
		entry := bans[i]
		fmt.Fprintf(&b, "`%d.` <@%s>", i+1, entry.UserID)
		if entry.Until != nil {
			fmt.Fprintf(&b, " until %s", entry.Until.Format(time.RFC1123))
		} else {
			b.WriteString(" permanently")
		}
		if entry.Reason != "" {
			fmt.Fprintf(&b, " for: %s", entry.Reason)
		}
		b.WriteString("\n")

		unbanRow.Components = append(unbanRow.Components, discordgo.Button{
			Label:    fmt.Sprintf("Unban %d", i+1),
			Style:    discordgo.SuccessButton,
			CustomID: fmt.Sprintf("mod:unban:%s:%d", entry.UserID, page),
		})
	}

	components := []discordgo.MessageComponent{unbanRow}

	nav := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Prev",
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("mod:page:%d", page-1),
			Disabled: page == 0,
		},
		discordgo.Button{
			Label:    "Next",
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("mod:page:%d", page+1),
			Disabled: page == last,
		},
		discordgo.Button{
			Label:    "Unban all",
			Style:    discordgo.DangerButton,
			CustomID: "mod:massunban",
		},
	}}
	components = append(components, nav)

	return b.String(), components
}

func splitAction(data string) (string, string) {
	if i := strings.Index(data, ":"); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, ""
}

func updateMessage(ctx *command.ComponentContext, content string, components []discordgo.MessageComponent) error {
	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
}
