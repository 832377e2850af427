// Package tvsearch discovers TV show appearances through yt-dlp's YouTube
// search, invoked as an external command.
package tvsearch

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/yangclinic/mediakit/internal/config"
	"github.com/yangclinic/mediakit/internal/dataset"
)

const resultsPerQuery = 5

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// Result holds the outcome of one discovery run.
type Result struct {
	Added   bool
	Count   int
	Skipped bool
}

// videoResult is one line of yt-dlp --dump-json output.
type videoResult struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	UploadDate string `json:"upload_date"`
}

// Searcher queries YouTube once per registered show.
type Searcher struct {
	shows       []config.TVShow
	searchNames []string
	primaryName string
	timeout     time.Duration
	run         Runner
}

// New creates a searcher. A nil runner falls back to exec'ing the real
// yt-dlp binary.
func New(cfg *config.Config, run Runner) *Searcher {
	if run == nil {
		run = execRunner
	}
	return &Searcher{
		shows:       cfg.TVShows,
		searchNames: cfg.SearchNames,
		primaryName: cfg.PrimaryName(),
		timeout:     cfg.Timeouts.Search.Std(),
		run:         run,
	}
}

// Discover searches for each registered show and appends new appearances.
// If yt-dlp is unavailable (even after an install attempt) the whole stage
// is skipped without error.
func (s *Searcher) Discover(ctx context.Context, data *dataset.Dataset, idx *dataset.URLIndex) Result {
	log.Println("[YT] Searching YouTube for new TV appearances...")

	if !s.ensureAvailable(ctx) {
		log.Println("[YT] yt-dlp unavailable, skipping YouTube search")
		return Result{Skipped: true}
	}

	var r Result
	for _, show := range s.shows {
		// Only the primary name per show, to bound external query volume.
		query := show.Name + " " + s.primaryName
		added, err := s.searchShow(ctx, show, query, data, idx)
		if err != nil {
			log.Printf("[YT] Error searching for %q: %v", query, err)
			continue
		}
		r.Count += added
	}

	r.Added = r.Count > 0
	log.Printf("[YT] Found %d new TV appearances", r.Count)
	return r
}

// ensureAvailable probes for yt-dlp and makes one opportunistic install
// attempt when the probe fails.
func (s *Searcher) ensureAvailable(ctx context.Context) bool {
	if _, err := s.run(ctx, "yt-dlp", "--version"); err == nil {
		return true
	}

	log.Println("[YT] yt-dlp not installed, trying pip install...")
	if _, err := s.run(ctx, "python3", "-m", "pip", "install", "yt-dlp"); err != nil {
		return false
	}
	_, err := s.run(ctx, "yt-dlp", "--version")
	return err == nil
}

func (s *Searcher) searchShow(ctx context.Context, show config.TVShow, query string, data *dataset.Dataset, idx *dataset.URLIndex) (int, error) {
	searchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.run(searchCtx, "yt-dlp",
		"ytsearch"+strconv.Itoa(resultsPerQuery)+":"+query,
		"--dump-json",
		"--no-download",
		"--flat-playlist",
	)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var video videoResult
		if err := json.Unmarshal([]byte(line), &video); err != nil {
			continue // one malformed result must not sink the batch
		}
		if video.ID == "" {
			continue
		}

		videoURL := "https://youtu.be/" + video.ID
		if idx.Has(video.ID) || idx.Has(videoURL) {
			continue
		}
		if !s.relevant(video.Title, show.Name) {
			continue
		}

		appearance := dataset.Appearance{
			ID:          dataset.MakeID("tv", show.Name, video.Title),
			Show:        show.Name,
			ShowNetwork: show.Network,
			Title:       video.Title,
			Date:        parseUploadDate(video.UploadDate),
			URL:         videoURL,
			Source:      "auto_search",
			AddedDate:   dataset.Today(),
		}
		data.TVShows = append(data.TVShows, appearance)
		idx.Add(videoURL)
		added++
		log.Printf("  [+] [%s] %s", show.Name, truncate(video.Title, 60))
	}

	return added, nil
}

func (s *Searcher) relevant(title, showName string) bool {
	for _, name := range s.searchNames {
		if strings.Contains(title, name) {
			return true
		}
	}
	return strings.Contains(title, showName)
}

// parseUploadDate converts yt-dlp's 8-digit upload date into YYYY-MM-DD,
// or "" when absent or malformed.
func parseUploadDate(raw string) string {
	if len(raw) != 8 {
		return ""
	}
	if _, err := time.Parse("20060102", raw); err != nil {
		return ""
	}
	return raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
