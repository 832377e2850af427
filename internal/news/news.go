// Package news discovers newly published articles through the Google News
// RSS search feed, classifies them by outlet, and appends them to the
// dataset.
package news

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/yangclinic/mediakit/internal/config"
	"github.com/yangclinic/mediakit/internal/dataset"
)

const defaultFeedBase = "https://news.google.com/rss/search"

// Result holds the outcome of one discovery run.
type Result struct {
	Added int
}

// Discoverer searches the news feed for each configured name and merges new
// articles into the dataset.
type Discoverer struct {
	searchNames   []string
	maxPerTerm    int
	newsOutlets   []config.Outlet
	healthOutlets []config.Outlet
	feedBase      string
	parser        *gofeed.Parser
	resolver      *http.Client
	httpTimeout   time.Duration
}

// Option tweaks a Discoverer, used by tests to point at fake servers.
type Option func(*Discoverer)

// WithFeedBase overrides the feed endpoint.
func WithFeedBase(base string) Option {
	return func(d *Discoverer) { d.feedBase = base }
}

// New creates a news discoverer from the configured tables.
func New(cfg *config.Config, opts ...Option) *Discoverer {
	d := &Discoverer{
		searchNames:   cfg.SearchNames,
		maxPerTerm:    cfg.News.MaxPerTerm,
		newsOutlets:   cfg.NewsOutlets,
		healthOutlets: cfg.HealthOutlets,
		feedBase:      defaultFeedBase,
		parser:        gofeed.NewParser(),
		resolver:      &http.Client{Timeout: cfg.Timeouts.Resolve.Std()},
		httpTimeout:   cfg.Timeouts.HTTP.Std(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover queries the feed once per search name and appends every new,
// relevant entry to the matching collection. A failure on one name is
// logged and does not abort the remaining names.
func (d *Discoverer) Discover(ctx context.Context, data *dataset.Dataset, idx *dataset.URLIndex) Result {
	log.Println("[NEWS] Searching news feed...")
	var r Result

	for _, name := range d.searchNames {
		if err := d.discoverTerm(ctx, name, data, idx, &r); err != nil {
			log.Printf("[NEWS] Feed error for %q: %v", name, err)
		}
	}

	log.Printf("[NEWS] Found %d new articles", r.Added)
	return r
}

func (d *Discoverer) discoverTerm(ctx context.Context, name string, data *dataset.Dataset, idx *dataset.URLIndex, r *Result) error {
	feedURL := d.feedBase + "?q=" + url.QueryEscape(name) + "&hl=zh-TW&gl=TW&ceid=TW:zh-Hant"

	feedCtx, cancel := context.WithTimeout(ctx, d.httpTimeout)
	defer cancel()

	feed, err := d.parser.ParseURLWithContext(feedURL, feedCtx)
	if err != nil {
		return err
	}

	items := feed.Items
	if len(items) > d.maxPerTerm {
		items = items[:d.maxPerTerm]
	}

	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		link := item.Link
		if title == "" || link == "" {
			continue
		}

		// Feed links bounce through a redirect; prefer the canonical URL
		// but fall back to the feed link when resolution fails.
		actualURL := d.resolveURL(ctx, link)
		if actualURL == "" {
			actualURL = link
		}

		if idx.Has(actualURL) || idx.Has(link) {
			continue
		}
		if !containsAny(title, d.searchNames) {
			continue
		}

		var pubDate string
		if item.PublishedParsed != nil {
			pubDate = item.PublishedParsed.Format("2006-01-02")
		}

		// The feed embeds the source as a "Title - Source" suffix.
		title, sourceName := splitSourceSuffix(title)

		outlet := d.classifyOutlet(actualURL, sourceName)
		health, role := d.healthLookup(outlet)

		article := dataset.Article{
			Outlet:    outlet,
			Title:     title,
			Date:      pubDate,
			URL:       actualURL,
			Source:    "auto_search",
			AddedDate: dataset.Today(),
		}
		if health {
			article.ID = dataset.MakeID("he", outlet, title)
			article.OutletRole = role
			data.HealthMedia = append(data.HealthMedia, article)
		} else {
			article.ID = dataset.MakeID("ne", outlet, title)
			data.NewsMedia = append(data.NewsMedia, article)
		}

		idx.Add(actualURL)
		r.Added++
		log.Printf("  [+] [%s] %s", outlet, truncate(title, 60))
	}

	return nil
}

// resolveURL follows the feed link's redirects and strips the query string
// when the final URL looks like a plain article URL. An empty return means
// resolution failed and the caller should keep the feed link.
func (d *Discoverer) resolveURL(ctx context.Context, feedLink string) string {
	reqCtx, cancel := context.WithTimeout(ctx, d.resolver.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, feedLink, nil)
	if err != nil {
		return ""
	}
	resp, err := d.resolver.Do(req)
	if err != nil {
		return ""
	}
	resp.Body.Close()

	final := resp.Request.URL.String()
	if i := strings.Index(final, "?"); i >= 0 {
		base := final[:i]
		for _, marker := range []string{".html", ".htm", "/article/", "/news/"} {
			if strings.Contains(base, marker) {
				return base
			}
		}
	}
	return final
}

// classifyOutlet resolves a URL and feed source label to an outlet name.
// The fallback order (domain match, then normalized name containment, then
// the raw label, then the bare host) is deliberate and load-bearing: a name
// that ambiguously matches two tables resolves to whichever check fires
// first.
func (d *Discoverer) classifyOutlet(articleURL, sourceName string) string {
	for _, outlet := range d.newsOutlets {
		for _, domain := range outlet.Domains {
			if strings.Contains(articleURL, domain) {
				return outlet.Name
			}
		}
	}
	for _, outlet := range d.healthOutlets {
		for _, domain := range outlet.Domains {
			if strings.Contains(articleURL, domain) {
				return outlet.Name
			}
		}
	}

	if sourceName != "" {
		compact := strings.ReplaceAll(sourceName, " ", "")
		for _, outlet := range append(append([]config.Outlet{}, d.newsOutlets...), d.healthOutlets...) {
			key := strings.NewReplacer("／", "", "　", "").Replace(outlet.Name)
			if key != "" && strings.Contains(compact, key) {
				return outlet.Name
			}
		}
		return sourceName
	}

	if u, err := url.Parse(articleURL); err == nil && u.Host != "" {
		return strings.TrimPrefix(u.Host, "www.")
	}
	return "其他媒體"
}

// healthLookup reports whether an outlet belongs to the health table and
// returns its editorial role if one is defined.
func (d *Discoverer) healthLookup(outlet string) (bool, string) {
	for _, h := range d.healthOutlets {
		if h.Name == outlet {
			return true, h.Role
		}
	}
	return false, ""
}

// splitSourceSuffix splits a trailing " - Source" off a feed title.
func splitSourceSuffix(title string) (string, string) {
	if i := strings.LastIndex(title, " - "); i >= 0 {
		return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
	}
	return title, ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
