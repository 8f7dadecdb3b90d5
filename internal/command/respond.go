package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Reply sends a plain response through whichever entry point invoked the
// command: an interaction response for slash, a channel message for prefix.
func Reply(ctx interface{}, content string) error {
	switch v := ctx.(type) {
	case *SlashContext:
		return v.Session.InteractionRespond(v.Event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: content},
		})
	case *MessageContext:
		_, err := v.Session.ChannelMessageSend(v.Event.ChannelID, content)
		return err
	}
	return fmt.Errorf("wrong context type")
}

// ReplyEmbed sends an embed response.
func ReplyEmbed(ctx interface{}, embed *discordgo.MessageEmbed) error {
	switch v := ctx.(type) {
	case *SlashContext:
		return v.Session.InteractionRespond(v.Event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
		})
	case *MessageContext:
		_, err := v.Session.ChannelMessageSendEmbed(v.Event.ChannelID, embed)
		return err
	}
	return fmt.Errorf("wrong context type")
}

// Defer acknowledges a slash interaction before slow work ("thinking…").
// Prefix invocations need no acknowledgement.
func Defer(ctx interface{}) error {
	if v, ok := ctx.(*SlashContext); ok {
		return v.Session.InteractionRespond(v.Event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		})
	}
	return nil
}

// Followup completes a deferred slash interaction, or just sends a channel
// message for prefix invocations.
func Followup(ctx interface{}, content string) error {
	switch v := ctx.(type) {
	case *SlashContext:
		_, err := v.Session.FollowupMessageCreate(v.Event.Interaction, true, &discordgo.WebhookParams{
			Content: content,
		})
		return err
	case *MessageContext:
		_, err := v.Session.ChannelMessageSend(v.Event.ChannelID, content)
		return err
	}
	return fmt.Errorf("wrong context type")
}
