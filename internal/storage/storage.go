package storage

import (
	"context"

	"github.com/keshon/datastore"
)

// banlistKey is the datastore key holding the ban list. Bans apply bot-wide,
// matching the single banlist file the bot has always shipped with, so they
// live outside the per-guild records.
const banlistKey = "banlist"

const commandHistoryLimit = 20

// Storage wraps the JSON-file datastore. The file is written as a whole;
// concurrent writers are last-writer-wins.
type Storage struct {
	ds *datastore.DataStore
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(context.Background(), filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}
