package tvsearch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yangclinic/mediakit/internal/config"
	"github.com/yangclinic/mediakit/internal/dataset"
)

func testConfig() *config.Config {
	return &config.Config{
		SearchNames: []string{"楊智鈞", "俠醫楊智鈞"},
		TVShows: []config.TVShow{
			{Name: "健康2.0", Network: "TVBS"},
			{Name: "醫師好辣", Network: "東森"},
		},
		Timeouts: config.Timeouts{Search: config.Duration(5 * time.Second)},
	}
}

// fakeRunner answers the version probe and returns canned search output.
func fakeRunner(searchOut map[string]string, searchErr error) Runner {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		if name == "yt-dlp" && len(args) == 1 && args[0] == "--version" {
			return "2026.01.01", nil
		}
		if searchErr != nil {
			return "", searchErr
		}
		for q, out := range searchOut {
			if strings.Contains(args[0], q) {
				return out, nil
			}
		}
		return "", nil
	}
}

func TestDiscoverAddsAppearance(t *testing.T) {
	out := `{"id": "abc123def45", "title": "健康2.0 楊智鈞談靜脈曲張", "upload_date": "20260110"}
{"id": "zzz999zzz99", "title": "完全無關的影片", "upload_date": "20260111"}`

	s := New(testConfig(), fakeRunner(map[string]string{"健康2.0": out}, nil))
	data := dataset.New()
	r := s.Discover(context.Background(), data, dataset.BuildIndex(data))

	if r.Skipped {
		t.Fatal("stage should not be skipped when yt-dlp is available")
	}
	if r.Count != 1 {
		t.Fatalf("Count = %d, want 1 (irrelevant title must be filtered)", r.Count)
	}
	a := data.TVShows[0]
	if a.Show != "健康2.0" || a.ShowNetwork != "TVBS" {
		t.Errorf("show = %q network = %q", a.Show, a.ShowNetwork)
	}
	if a.URL != "https://youtu.be/abc123def45" {
		t.Errorf("url = %q", a.URL)
	}
	if a.Date != "2026-01-10" {
		t.Errorf("date = %q, want 2026-01-10", a.Date)
	}
	if !strings.HasPrefix(a.ID, "tv-") {
		t.Errorf("id = %q, want tv- prefix", a.ID)
	}
}

func TestDiscoverShowNameAloneIsRelevant(t *testing.T) {
	out := `{"id": "show0nly0000", "title": "醫師好辣精華回顧", "upload_date": ""}`

	s := New(testConfig(), fakeRunner(map[string]string{"醫師好辣": out}, nil))
	data := dataset.New()
	s.Discover(context.Background(), data, dataset.BuildIndex(data))

	if len(data.TVShows) != 1 {
		t.Fatalf("tv_shows len = %d, want 1", len(data.TVShows))
	}
	if data.TVShows[0].Date != "" {
		t.Errorf("date = %q, want empty for missing upload_date", data.TVShows[0].Date)
	}
}

func TestDiscoverDedupsByVideoID(t *testing.T) {
	out := `{"id": "abc123def45", "title": "健康2.0 楊智鈞談靜脈曲張", "upload_date": "20260110"}`

	s := New(testConfig(), fakeRunner(map[string]string{"健康2.0": out}, nil))
	data := dataset.New()
	// Same video already stored under the canonical watch-link shape.
	data.TVShows = append(data.TVShows, dataset.Appearance{
		URL: "https://www.youtube.com/watch?v=abc123def45",
	})

	r := s.Discover(context.Background(), data, dataset.BuildIndex(data))
	if r.Count != 0 {
		t.Errorf("Count = %d, want 0 for already-known video id", r.Count)
	}
	if len(data.TVShows) != 1 {
		t.Errorf("tv_shows len = %d, want 1", len(data.TVShows))
	}
}

func TestDiscoverMalformedLineSkipped(t *testing.T) {
	out := `not json at all
{"id": "abc123def45", "title": "健康2.0 特輯", "upload_date": "not8digit"}`

	s := New(testConfig(), fakeRunner(map[string]string{"健康2.0": out}, nil))
	data := dataset.New()
	r := s.Discover(context.Background(), data, dataset.BuildIndex(data))

	if r.Count != 1 {
		t.Fatalf("Count = %d, want 1", r.Count)
	}
	if data.TVShows[0].Date != "" {
		t.Errorf("date = %q, want empty for malformed upload_date", data.TVShows[0].Date)
	}
}

func TestDiscoverSkipsWhenUnavailable(t *testing.T) {
	run := func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("executable file not found")
	}
	s := New(testConfig(), run)
	data := dataset.New()
	r := s.Discover(context.Background(), data, dataset.BuildIndex(data))

	if !r.Skipped {
		t.Error("expected stage to be skipped when yt-dlp cannot be installed")
	}
	if len(data.TVShows) != 0 {
		t.Error("expected no appearances when stage is skipped")
	}
}

func TestDiscoverQueryErrorContinues(t *testing.T) {
	calls := 0
	run := func(ctx context.Context, name string, args ...string) (string, error) {
		if len(args) == 1 && args[0] == "--version" {
			return "2026.01.01", nil
		}
		calls++
		if calls == 1 {
			return "", errors.New("timeout")
		}
		return `{"id": "ok1234567ab", "title": "醫師好辣 楊智鈞", "upload_date": "20260201"}`, nil
	}

	s := New(testConfig(), run)
	data := dataset.New()
	r := s.Discover(context.Background(), data, dataset.BuildIndex(data))

	if r.Count != 1 {
		t.Errorf("Count = %d, want 1 (second show must still run after first fails)", r.Count)
	}
}

func TestParseUploadDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"20260110", "2026-01-10"},
		{"", ""},
		{"2026011", ""},
		{"abcdefgh", ""},
		{"20261345", ""},
	}
	for _, tt := range tests {
		if got := parseUploadDate(tt.raw); got != tt.want {
			t.Errorf("parseUploadDate(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
