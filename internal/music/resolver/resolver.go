package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	yt "github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"
	"golang.org/x/sync/semaphore"

	"github.com/dbatista/jukebot/internal/music"
)

// ErrNotFound is returned when a query yields no playable video.
var ErrNotFound = errors.New("no video found for query")

// maxConcurrent bounds how many metadata extractions run at once across all
// guilds; YouTube throttles aggressively past that.
const maxConcurrent = 2

// TrackResolver turns free-text queries and YouTube URLs into tracks. A
// search picks the first hit, then the video page supplies the exact
// title, duration and thumbnail.
type TrackResolver struct {
	search  *ytsearch.Client
	youtube *yt.Client
	sem     *semaphore.Weighted
}

func New() *TrackResolver {
	return &TrackResolver{
		search: ytsearch.NewClient(nil),
		youtube: &yt.Client{
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
		},
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

func (r *TrackResolver) Resolve(ctx context.Context, query string, requester music.Requester) (music.Track, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return music.Track{}, err
	}
	defer r.sem.Release(1)

	query = strings.TrimSpace(query)

	// A pasted video URL skips the search round-trip.
	if id, err := yt.ExtractVideoID(query); err == nil {
		return r.fromVideoID(ctx, id, requester, music.Track{})
	}

	res, err := r.search.Search(ctx, query)
	if err != nil {
		return music.Track{}, fmt.Errorf("youtube search: %w", err)
	}
	if len(res.Results) == 0 {
		return music.Track{}, ErrNotFound
	}

	hit := res.Results[0]
	fallback := music.Track{
		SourceLocator: hit.VideoID,
		Title:         hit.Title,
		Duration:      parseClock(hit.Duration),
		Requester:     requester,
		PageURL:       watchURL(hit.VideoID),
	}
	return r.fromVideoID(ctx, hit.VideoID, requester, fallback)
}

// fromVideoID fetches full metadata for a video. When extraction fails but a
// search result already gave us usable metadata, the search data wins over a
// hard failure.
func (r *TrackResolver) fromVideoID(ctx context.Context, id string, requester music.Requester, fallback music.Track) (music.Track, error) {
	video, err := r.youtube.GetVideoContext(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return music.Track{}, ctx.Err()
		}
		if fallback.SourceLocator != "" {
			log.Printf("[WARN] [Resolver] metadata fetch for %s failed, using search result: %v", id, err)
			return fallback, nil
		}
		return music.Track{}, fmt.Errorf("video metadata: %w", err)
	}

	track := music.Track{
		SourceLocator: id,
		Title:         video.Title,
		Duration:      video.Duration,
		Requester:     requester,
		PageURL:       watchURL(id),
	}
	if len(video.Thumbnails) > 0 {
		track.Thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}
	return track, nil
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// parseClock converts a colon-separated duration ("3:20", "1:02:45") to a
// time.Duration. Malformed input yields zero, which renders as an unknown
// duration.
func parseClock(s string) time.Duration {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0
	}

	var total int64
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}
