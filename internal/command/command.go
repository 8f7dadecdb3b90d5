package command

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/dbatista/jukebot/internal/config"
	"github.com/dbatista/jukebot/internal/music"
	"github.com/dbatista/jukebot/internal/storage"
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Run(ctx interface{}) error
}

// SlashProvider is implemented by commands that register a slash definition.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ComponentHandler is implemented by commands that own message components.
// The namespace is the segment before the first colon of a custom ID; routing
// matches it exactly, never by prefix.
type ComponentHandler interface {
	ComponentNamespace() string
	Component(ctx *ComponentContext) error
}

type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Args    []string
	Storage *storage.Storage
	Config  *config.Config
	Bot     MusicBot
}

type MessageContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Args    []string
	Storage *storage.Storage
	Config  *config.Config
	Bot     MusicBot
}

type ComponentContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	// Data is the custom ID with the namespace stripped.
	Data    string
	Storage *storage.Storage
	Config  *config.Config
	Bot     MusicBot
}

// MusicBot is the surface commands use to drive playback and command sync.
// The gateway adapter implements it; commands never touch voice connections
// or the job manager directly.
type MusicBot interface {
	Sessions() *music.Registry
	FindUserVoiceChannel(guildID, userID string) (string, error)
	ResolveTrack(ctx context.Context, query string, requester music.Requester) (music.Track, error)

	// EnsurePlaying joins the voice channel if needed and starts the player
	// loop when none is running.
	EnsurePlaying(guildID, voiceChannelID string) error
	// StartPlaylist begins an incremental playlist load, replacing any
	// previous one, and ensures playback is running.
	StartPlaylist(guildID, voiceChannelID string, requester music.Requester, queries []string, onFirst func(music.Track, bool)) error
	Stop(guildID string)
	Skip(guildID string)
	TogglePause(guildID string) (paused, ok bool)
	UpdateMenu(session *music.Session)
	SendMenu(guildID, channelID string) error

	SpotifyEnabled() bool
	SpotifyPing(ctx context.Context) error
	PlaylistQueries(ctx context.Context, playlistURL string) ([]string, error)

	SyncCommands(guildID string) error
	UnsyncCommands(guildID string) error
}
