package music

import "time"

// Requester identifies the user a track or playlist was queued for.
type Requester struct {
	ID   string
	Name string
}

// Track is an immutable playable track descriptor. SourceLocator is what the
// audio layer opens (a YouTube video ID); PageURL is the human-facing link.
type Track struct {
	SourceLocator string
	Title         string
	Thumbnail     string
	Duration      time.Duration
	Requester     Requester
	PageURL       string
}

// LoopMode controls what happens to a track after it finishes.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopTrack
	LoopQueue
)

func (m LoopMode) String() string {
	switch m {
	case LoopTrack:
		return "Track"
	case LoopQueue:
		return "Queue"
	default:
		return "Off"
	}
}

// Cycle returns the next mode in the Off -> Track -> Queue -> Off rotation.
func (m LoopMode) Cycle() LoopMode {
	return (m + 1) % 3
}
