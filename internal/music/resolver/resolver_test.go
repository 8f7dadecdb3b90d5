package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"0:42", 42 * time.Second},
		{"3:20", 3*time.Minute + 20*time.Second},
		{"1:02:45", time.Hour + 2*time.Minute + 45*time.Second},
		{"45", 45 * time.Second},
		{"", 0},
		{"live", 0},
		{"1:2:3:4", 0},
		{"-1:00", 0},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, parseClock(c.in), "input %q", c.in)
	}
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", watchURL("dQw4w9WgXcQ"))
}
