// Package rating scrapes the clinic's Google rating from a localized search
// results page.
package rating

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yangclinic/mediakit/internal/dataset"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Ordered rating patterns; the first in-bounds match wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d\.\d)\s*顆星`),
	regexp.MustCompile(`rating["\s:]+(\d\.\d)`),
	regexp.MustCompile(`(\d\.\d)</span>\s*<span[^>]*>\s*\(\d`),
}

var spanRating = regexp.MustCompile(`^(\d\.\d)$`)

// Fetcher updates the google_rating stat from one search request.
type Fetcher struct {
	placeQuery string
	baseURL    string
	client     *http.Client
}

// New creates a rating fetcher. baseURL overrides the Google endpoint in
// tests; empty means the real one.
func New(placeQuery, baseURL string, timeout time.Duration) *Fetcher {
	if baseURL == "" {
		baseURL = "https://www.google.com/search"
	}
	return &Fetcher{
		placeQuery: placeQuery,
		baseURL:    baseURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Update issues the search request and overwrites the stored score when a
// plausible rating is found. Failures are logged and reported as no change.
func (f *Fetcher) Update(ctx context.Context, d *dataset.Dataset) bool {
	log.Println("[GOOGLE] Fetching Google rating...")

	body, err := f.fetch(ctx)
	if err != nil {
		log.Printf("[GOOGLE] Error: %v", err)
		return false
	}

	rating, ok := extractRating(body)
	if !ok {
		log.Println("[GOOGLE] Could not extract rating from search results")
		return false
	}

	stat := d.Stats[dataset.StatRating]
	old := stat.Score
	stat.Score = rating
	log.Printf("[GOOGLE] Updated rating: %v -> %v", old, rating)
	return true
}

func (f *Fetcher) fetch(ctx context.Context) (string, error) {
	searchURL := f.baseURL + "?q=" + url.QueryEscape(f.placeQuery+" 評價") + "&hl=zh-TW"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractRating scans the raw body against the ordered pattern list, then
// falls back to span texts in the parsed document. Values must be within
// the 1.0-5.0 rating bound.
func extractRating(body string) (float64, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(body); m != nil {
			if v, ok := parseBounded(m[1]); ok {
				return v, true
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return 0, false
	}
	var found float64
	var ok bool
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if m := spanRating.FindStringSubmatch(text); m != nil {
			if v, valid := parseBounded(m[1]); valid {
				found, ok = v, true
				return false
			}
		}
		return true
	})
	return found, ok
}

func parseBounded(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if v < 1.0 || v > 5.0 {
		return 0, false
	}
	return v, true
}
