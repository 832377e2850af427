// Package followers reads the Facebook page follower count. The count is
// rendered client-side, so the page is fetched through a headless browser.
package followers

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yangclinic/mediakit/internal/dataset"
)

// RenderFunc fetches the fully rendered content of a page as a string.
type RenderFunc func(ctx context.Context, pageURL string) (string, error)

// pattern pairs a count regex with whether the captured number is in 萬
// (ten-thousands). Order matters: the first match wins.
type pattern struct {
	re  *regexp.Regexp
	wan bool
}

var patterns = []pattern{
	{re: regexp.MustCompile(`([\d,]+)\s*位追蹤者`)},
	{re: regexp.MustCompile(`([\d.]+)\s*萬\s*位?追蹤者`), wan: true},
	{re: regexp.MustCompile(`([\d,]+)\s*followers`)},
	{re: regexp.MustCompile(`"follower_count":\s*(\d+)`)},
	{re: regexp.MustCompile(`([\d,]+)\s*人追蹤`)},
}

// Fetcher updates the follower-count stat from the configured page.
type Fetcher struct {
	pageURL  string
	minCount int
	render   RenderFunc
	timeout  time.Duration
}

// New creates a follower-count fetcher. A nil render falls back to the
// chromedp-backed implementation.
func New(pageURL string, minFollowers int, timeout time.Duration, render RenderFunc) *Fetcher {
	if render == nil {
		render = renderPage
	}
	return &Fetcher{pageURL: pageURL, minCount: minFollowers, render: render, timeout: timeout}
}

// Update fetches the page and overwrites the follower stat on success.
// Every failure is logged and reported as "no change"; it never aborts the
// surrounding run.
func (f *Fetcher) Update(ctx context.Context, d *dataset.Dataset) bool {
	log.Println("[FB] Fetching follower count...")

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	content, err := f.render(ctx, f.pageURL)
	if err != nil {
		log.Printf("[FB] Error: %v", err)
		return false
	}

	count, err := parseCount(content)
	if err != nil {
		log.Printf("[FB] %v", err)
		return false
	}
	if count <= f.minCount {
		log.Printf("[FB] Parsed count %d below plausibility floor %d, ignoring", count, f.minCount)
		return false
	}

	stat := d.Stats[dataset.StatFollowers]
	old := stat.Count
	stat.Count = count
	stat.Display = FormatCount(count)
	log.Printf("[FB] Updated: %d -> %d (%s)", old, count, stat.Display)
	return true
}

// parseCount scans the rendered page against the ordered pattern list and
// returns the first match converted to an absolute count.
func parseCount(content string) (int, error) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		raw := m[1]
		if p.wan {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			return int(v * 10000), nil
		}
		v, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			continue
		}
		return v, nil
	}
	return 0, fmt.Errorf("could not extract follower count from page")
}

// FormatCount renders a count in the Chinese abbreviated style:
// 49234 -> "4.9萬+", 50000 -> "5萬+", 800 -> "800+".
func FormatCount(count int) string {
	if count >= 10000 {
		wan := float64(count) / 10000
		if wan == float64(int(wan)) {
			return fmt.Sprintf("%d萬+", int(wan))
		}
		return fmt.Sprintf("%.1f萬+", wan)
	}
	return groupThousands(count) + "+"
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
