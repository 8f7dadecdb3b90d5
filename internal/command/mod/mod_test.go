package modcmd

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbatista/jukebot/internal/storage"
)

func testStorage(t *testing.T) *storage.Storage {
	t.Helper()
	st, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestParseMention(t *testing.T) {
	id, ok := parseMention("<@123456789>")
	require.True(t, ok)
	assert.Equal(t, "123456789", id)

	id, ok = parseMention("<@!123456789>")
	require.True(t, ok)
	assert.Equal(t, "123456789", id)

	id, ok = parseMention("123456789")
	require.True(t, ok)
	assert.Equal(t, "123456789", id)

	_, ok = parseMention("@someone")
	assert.False(t, ok)
	_, ok = parseMention("<#123>")
	assert.False(t, ok)
}

func TestBanPagePagination(t *testing.T) {
	st := testStorage(t)
	until := time.Now().UTC().Add(time.Hour)
	for i := 0; i < 9; i++ {
		rec := storage.BanRecord{Reason: "spam", BannedBy: "mod"}
		if i%2 == 0 {
			rec.Until = &until
		}
		st.SetBan(fmt.Sprintf("user%02d", i), rec)
	}

	// 9 entries at 4 per page: pages 0, 1, 2 with 4, 4, 1 buttons.
	_, comps := banPage(st, 0)
	require.Len(t, comps, 2)
	assert.Len(t, comps[0].(discordgo.ActionsRow).Components, 4)

	_, comps = banPage(st, 1)
	assert.Len(t, comps[0].(discordgo.ActionsRow).Components, 4)

	_, comps = banPage(st, 2)
	assert.Len(t, comps[0].(discordgo.ActionsRow).Components, 1)

	// Next from the last page clamps instead of going blank.
	_, comps = banPage(st, 3)
	assert.Len(t, comps[0].(discordgo.ActionsRow).Components, 1)
}

func TestBanPageUnbanIDsCarryPage(t *testing.T) {
	st := testStorage(t)
	for i := 0; i < 5; i++ {
		st.SetBan(fmt.Sprintf("user%02d", i), storage.BanRecord{BannedBy: "mod"})
	}

	_, comps := banPage(st, 1)
	row := comps[0].(discordgo.ActionsRow)
	btn := row.Components[0].(discordgo.Button)
	assert.Equal(t, "mod:unban:user04:1", btn.CustomID)
}

func TestBanPageEmpty(t *testing.T) {
	st := testStorage(t)
	content, comps := banPage(st, 0)
	assert.Equal(t, "Nobody is banned.", content)
	assert.NotNil(t, comps)
	assert.Empty(t, comps)
}
