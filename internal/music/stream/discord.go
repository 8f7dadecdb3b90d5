package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"

	"github.com/dbatista/jukebot/internal/music"
)

// openTimeout bounds the metadata fetch before ffmpeg takes over.
const openTimeout = 30 * time.Second

// VoiceOutput pushes opus frames for one guild's voice connection. It owns
// the encode loop; the player only sees start, stop, pause and disconnect.
type VoiceOutput struct {
	vc     *discordgo.VoiceConnection
	opener *Opener
	paused atomic.Bool
}

func NewVoiceOutput(vc *discordgo.VoiceConnection, opener *Opener) *VoiceOutput {
	return &VoiceOutput{vc: vc, opener: opener}
}

func (v *VoiceOutput) Connected() bool {
	return v.vc != nil && v.vc.Ready
}

// Play opens the track's PCM stream and encodes it to the voice connection in
// a background goroutine. done fires exactly once when the stream ends, is
// stopped, or fails mid-flight; a clean end of stream is not an error.
func (v *VoiceOutput) Play(track music.Track, volume func() float64, done func(error)) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	pcm, cleanup, err := v.opener.Open(ctx, track.SourceLocator)
	if err != nil {
		return nil, err
	}

	stopCh := make(chan struct{})
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() { close(stopCh) })
	}

	go func() {
		err := v.encodeLoop(pcm, volume, stopCh)
		pcm.Close()
		cleanup()
		done(err)
	}()

	return stop, nil
}

func (v *VoiceOutput) encodeLoop(pcm io.Reader, volume func() float64, stop <-chan struct{}) error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("opus encoder: %w", err)
	}

	if err := v.vc.Speaking(true); err != nil {
		return fmt.Errorf("speaking on: %w", err)
	}
	defer func() { _ = v.vc.Speaking(false) }()

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if v.paused.Load() {
			select {
			case <-stop:
				return nil
			case <-time.After(20 * time.Millisecond):
			}
			continue
		}

		if _, err := io.ReadFull(pcm, pcmBuf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil // stream drained, track over
			}
			return fmt.Errorf("pcm read: %w", err)
		}

		vol := volume()
		for i := range intBuf {
			sample := float64(int16(binary.LittleEndian.Uint16(pcmBuf[i*2:i*2+2]))) * vol
			switch {
			case sample > 32767:
				sample = 32767
			case sample < -32768:
				sample = -32768
			}
			intBuf[i] = int16(sample)
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("opus encode: %w", err)
		}

		select {
		case <-stop:
			return nil
		case v.vc.OpusSend <- opus:
		}
	}
}

func (v *VoiceOutput) SetPaused(paused bool) {
	v.paused.Store(paused)
}

func (v *VoiceOutput) Paused() bool {
	return v.paused.Load()
}

func (v *VoiceOutput) Disconnect() {
	if v.vc != nil {
		_ = v.vc.Disconnect()
	}
}
