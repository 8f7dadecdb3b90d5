package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/config"
	"github.com/dbatista/jukebot/internal/music"
	"github.com/dbatista/jukebot/internal/storage"
)

// Origin is the shared shape of a slash or prefix invocation, so command
// bodies parse arguments once instead of switching on context types.
type Origin struct {
	Session   *discordgo.Session
	GuildID   string
	ChannelID string
	User      *discordgo.User
	Args      []string
	Storage   *storage.Storage
	Config    *config.Config
	Bot       MusicBot
}

func OriginOf(ctx interface{}) (*Origin, error) {
	switch v := ctx.(type) {
	case *SlashContext:
		user := v.Event.User
		if v.Event.Member != nil {
			user = v.Event.Member.User
		}
		return &Origin{
			Session:   v.Session,
			GuildID:   v.Event.GuildID,
			ChannelID: v.Event.ChannelID,
			User:      user,
			Args:      v.Args,
			Storage:   v.Storage,
			Config:    v.Config,
			Bot:       v.Bot,
		}, nil
	case *MessageContext:
		return &Origin{
			Session:   v.Session,
			GuildID:   v.Event.GuildID,
			ChannelID: v.Event.ChannelID,
			User:      v.Event.Author,
			Args:      v.Args,
			Storage:   v.Storage,
			Config:    v.Config,
			Bot:       v.Bot,
		}, nil
	}
	return nil, fmt.Errorf("wrong context type")
}

// Requester names the invoking user for track attribution.
func (o *Origin) Requester() music.Requester {
	if o.User == nil {
		return music.Requester{}
	}
	return music.Requester{ID: o.User.ID, Name: o.User.Username}
}
