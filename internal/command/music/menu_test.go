package musiccmd

import (
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbatista/jukebot/internal/music"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "live", formatDuration(0))
	assert.Equal(t, "0:05", formatDuration(5*time.Second))
	assert.Equal(t, "3:20", formatDuration(3*time.Minute+20*time.Second))
	assert.Equal(t, "1:02:45", formatDuration(time.Hour+2*time.Minute+45*time.Second))
}

func TestProgressBar(t *testing.T) {
	bar := ProgressBar(90*time.Second, 180*time.Second)
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰▱▱▱▱▱▱▱▱▱▱ 1:30 / 3:00", bar)

	assert.Equal(t, "▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱ 0:00 / 3:00", ProgressBar(0, 180*time.Second))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰▰▰▰▰▰▰▰▰▰▰ 3:00 / 3:00", ProgressBar(200*time.Second, 180*time.Second))
	assert.Equal(t, "0:42 / live", ProgressBar(42*time.Second, 0))
}

func TestSplitAction(t *testing.T) {
	action, arg := splitAction("jump:3")
	assert.Equal(t, "jump", action)
	assert.Equal(t, "3", arg)

	action, arg = splitAction("pause")
	assert.Equal(t, "pause", action)
	assert.Equal(t, "", arg)

	action, arg = splitAction("jumplist:2:extra")
	assert.Equal(t, "jumplist", action)
	assert.Equal(t, "2:extra", arg)
}

func TestJumpPagePagination(t *testing.T) {
	s := music.NewSession("g1")
	for i := 0; i < 9; i++ {
		require.NoError(t, s.Enqueue(music.Track{Title: fmt.Sprintf("track %d", i)}))
	}

	// 9 tracks at 5 per page: pages 0 and 1 with 5 and 4 buttons.
	_, comps := jumpPage(s, 0)
	require.Len(t, comps, 2) // buttons + nav
	assert.Len(t, comps[0].(discordgo.ActionsRow).Components, 5)

	_, comps = jumpPage(s, 1)
	assert.Len(t, comps[0].(discordgo.ActionsRow).Components, 4)

	// Out-of-range pages clamp to the last page.
	_, comps = jumpPage(s, 7)
	row := comps[0].(discordgo.ActionsRow)
	assert.Len(t, row.Components, 4)
	assert.Equal(t, "player:jump:5", row.Components[0].(discordgo.Button).CustomID)
}

func TestJumpPageEmptyQueue(t *testing.T) {
	s := music.NewSession("g1")
	content, comps := jumpPage(s, 0)
	assert.Equal(t, "The queue is empty.", content)
	assert.Nil(t, comps)
}

func TestQueueEmbedPreviewCap(t *testing.T) {
	s := music.NewSession("g1")
	for i := 0; i < 14; i++ {
		require.NoError(t, s.Enqueue(music.Track{Title: fmt.Sprintf("track %d", i), Duration: time.Minute}))
	}

	embed := QueueEmbed(s)
	assert.Contains(t, embed.Description, "track 9")
	assert.NotContains(t, embed.Description, "track 10")
	assert.Contains(t, embed.Description, "and 4 more")
}
