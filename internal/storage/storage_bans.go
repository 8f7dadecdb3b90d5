package storage

import (
	"log"
	"sort"
	"time"
)

// BanRecord describes one banned user. Until is nil for permanent bans.
type BanRecord struct {
	Until    *time.Time `json:"until,omitempty"`
	Reason   string     `json:"reason"`
	BannedBy string     `json:"banned_by"`
}

// Expired reports whether a timed ban has run out.
func (r BanRecord) Expired(now time.Time) bool {
	return r.Until != nil && now.After(*r.Until)
}

func (s *Storage) loadBans() map[string]BanRecord {
	bans := map[string]BanRecord{}
	if ok, err := s.ds.Get(banlistKey, &bans); err != nil || !ok {
		return map[string]BanRecord{}
	}
	return bans
}

func (s *Storage) saveBans(bans map[string]BanRecord) {
	if err := s.ds.Set(banlistKey, bans); err != nil {
		log.Printf("[ERR] Failed to persist ban list: %v", err)
	}
}

// SetBan records a ban for a user, replacing any existing entry.
func (s *Storage) SetBan(userID string, rec BanRecord) {
	bans := s.loadBans()
	bans[userID] = rec
	s.saveBans(bans)
}

// RemoveBan deletes a user's ban entry. Returns false if none existed.
func (s *Storage) RemoveBan(userID string) bool {
	bans := s.loadBans()
	if _, ok := bans[userID]; !ok {
		return false
	}
	delete(bans, userID)
	s.saveBans(bans)
	return true
}

// ClearBans removes every ban entry.
func (s *Storage) ClearBans() {
	s.saveBans(map[string]BanRecord{})
}

// IsBanned checks whether a user is currently banned. Entries whose Until
// has passed count as not banned and are pruned from the persisted set.
func (s *Storage) IsBanned(userID string) (bool, *BanRecord) {
	bans := s.loadBans()
	rec, ok := bans[userID]
	if !ok {
		return false, nil
	}
	if rec.Expired(time.Now().UTC()) {
		delete(bans, userID)
		s.saveBans(bans)
		return false, nil
	}
	return true, &rec
}

// BanEntry pairs a user ID with their ban record for listing.
type BanEntry struct {
	UserID string
	BanRecord
}

// Bans returns all ban entries sorted by user ID for stable menu pages.
func (s *Storage) Bans() []BanEntry {
	bans := s.loadBans()
	out := make([]BanEntry, 0, len(bans))
	for id, rec := range bans {
		out = append(out, BanEntry{UserID: id, BanRecord: rec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
