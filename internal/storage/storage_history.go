package storage

import (
	"log"
	"time"
)

// CommandHistoryRecord is one logged command execution.
type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Datetime  time.Time `json:"datetime"`
}

// guildRecord is the per-guild datastore payload.
type guildRecord struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

func (s *Storage) loadGuildRecord(guildID string) *guildRecord {
	var rec guildRecord
	if ok, err := s.ds.Get(guildID, &rec); err != nil || !ok {
		return &guildRecord{}
	}
	if len(rec.CommandsHistoryList) > commandHistoryLimit {
		rec.CommandsHistoryList = rec.CommandsHistoryList[len(rec.CommandsHistoryList)-commandHistoryLimit:]
	}
	return &rec
}

// AppendCommandToHistory records a command execution for a guild, keeping
// only the most recent entries.
func (s *Storage) AppendCommandToHistory(guildID string, record CommandHistoryRecord) {
	rec := s.loadGuildRecord(guildID)
	rec.CommandsHistoryList = append(rec.CommandsHistoryList, record)
	if len(rec.CommandsHistoryList) > commandHistoryLimit {
		rec.CommandsHistoryList = rec.CommandsHistoryList[len(rec.CommandsHistoryList)-commandHistoryLimit:]
	}
	if err := s.ds.Set(guildID, rec); err != nil {
		log.Printf("[ERR] Failed to persist command history for %s: %v", guildID, err)
	}
}

// FetchCommandHistory returns the logged commands for a guild.
func (s *Storage) FetchCommandHistory(guildID string) []CommandHistoryRecord {
	return s.loadGuildRecord(guildID).CommandsHistoryList
}
