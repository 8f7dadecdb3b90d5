package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"time"

	yt "github.com/kkdai/youtube/v2"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// Opener turns a video ID into a raw PCM stream: the video page yields a
// direct audio URL, ffmpeg pulls it and decodes to s16le on stdout.
type Opener struct {
	client *yt.Client
}

func NewOpener() *Opener {
	return &Opener{
		client: &yt.Client{
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
		},
	}
}

// Open returns the PCM reader plus a cleanup that kills the decoder process.
// ctx bounds the metadata fetch only; the stream itself lives until cleanup.
func (o *Opener) Open(ctx context.Context, videoID string) (io.ReadCloser, func(), error) {
	video, err := o.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("get video: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, nil, errors.New("no audio formats available")
	}

	link, err := o.client.GetStreamURL(video, &formats[0])
	if err != nil {
		return nil, nil, fmt.Errorf("get stream URL: %w", err)
	}

	ffmpeg := exec.Command("ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", link,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	reader, err := ffmpeg.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := ffmpeg.Start(); err != nil {
		return nil, nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	cleanup := func() {
		_ = ffmpeg.Process.Kill()
		_ = ffmpeg.Wait()
	}
	return reader, cleanup, nil
}
