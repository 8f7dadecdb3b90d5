package discord

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/music"
)

// menuView renders the player panel for a session's current state.
func menuView(b *Bot, s *music.Session) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	var description string
	track, startedAt, playing := s.Current()
	if playing {
		elapsed := time.Duration(0)
		if !startedAt.IsZero() {
			elapsed = time.Since(startedAt)
		}
		description = fmt.Sprintf("**%s**\n%s", track.Title, progressLine(elapsed, track.Duration))
	} else {
		description = "Nothing is playing."
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Player",
		Description: description,
		Color:       0x1db954,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Queue", Value: fmt.Sprintf("%d tracks", s.QueueLen()), Inline: true},
			{Name: "Volume", Value: fmt.Sprintf("%d%%", int(s.Volume()*100)), Inline: true},
			{Name: "Loop", Value: s.Loop().String(), Inline: true},
		},
	}
	if playing && track.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail}
	}
	if pl := s.Playlist(); pl.Active {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Playlist loading: %d/%d", pl.Loaded, pl.Total),
		}
	}

	pauseLabel := "Pause"
	if out := b.output(s.GuildID); out != nil && out.Paused() {
		pauseLabel = "Resume"
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: pauseLabel, Style: discordgo.PrimaryButton, CustomID: "player:pause"},
			discordgo.Button{Label: "Skip", Style: discordgo.SecondaryButton, CustomID: "player:skip"},
			discordgo.Button{Label: "Stop", Style: discordgo.DangerButton, CustomID: "player:stop"},
			discordgo.Button{Label: "Loop", Style: discordgo.SecondaryButton, CustomID: "player:loop"},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Queue", Style: discordgo.SecondaryButton, CustomID: "player:queue"},
			discordgo.Button{Label: "Clear", Style: discordgo.SecondaryButton, CustomID: "player:clear"},
			discordgo.Button{Label: "Reorder", Style: discordgo.SecondaryButton, CustomID: "player:jumplist:0"},
		}},
	}
	return embed, components
}

func progressLine(elapsed, total time.Duration) string {
	format := func(d time.Duration) string {
		t := int(d.Seconds())
		if t < 0 {
			t = 0
		}
		if t >= 3600 {
			return fmt.Sprintf("%d:%02d:%02d", t/3600, (t%3600)/60, t%60)
		}
		return fmt.Sprintf("%d:%02d", t/60, t%60)
	}
	if total <= 0 {
		return format(elapsed) + " / live"
	}
	if elapsed > total {
		elapsed = total
	}
	return format(elapsed) + " / " + format(total)
}

func (b *Bot) output(guildID string) interface{ Paused() bool } {
	b.mu.Lock()
	defer b.mu.Unlock()
	if out, ok := b.outputs[guildID]; ok {
		return out
	}
	return nil
}

// SendMenu posts a fresh control panel to the channel and remembers it for
// later edits. Any previous panel is retired first so buttons never pile up.
func (b *Bot) SendMenu(guildID, channelID string) error {
	session := b.sessions.GetOrCreate(guildID)
	b.retireMenu(session)

	embed, components := menuView(b, session)
	msg, err := b.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("send panel: %w", err)
	}

	session.SetMenu(&music.MenuRef{ChannelID: channelID, MessageID: msg.ID})
	return nil
}

// UpdateMenu re-renders the panel in place. A deleted panel message just
// drops the reference.
func (b *Bot) UpdateMenu(s *music.Session) {
	menu := s.Menu()
	if menu == nil {
		return
	}

	embed, components := menuView(b, s)
	_, err := b.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    menu.ChannelID,
		ID:         menu.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		log.Printf("[WARN] panel edit failed for %s: %v", s.GuildID, err)
		s.SetMenu(nil)
	}
}

// retireMenu strips the buttons off an old panel so stale controls cannot be
// clicked after the player is gone.
func (b *Bot) retireMenu(s *music.Session) {
	menu := s.Menu()
	if menu == nil {
		return
	}
	s.SetMenu(nil)

	empty := []discordgo.MessageComponent{}
	embed := &discordgo.MessageEmbed{
		Title:       "Player",
		Description: "Session ended.",
		Color:       0x99aab5,
	}
	_, err := b.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    menu.ChannelID,
		ID:         menu.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &empty,
	})
	if err != nil {
		log.Printf("[WARN] panel retire failed for %s: %v", s.GuildID, err)
	}
}
