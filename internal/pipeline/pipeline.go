// Package pipeline runs the sequential refresh: load, fetch stats, discover
// articles and appearances, recalculate counters, save.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/yangclinic/mediakit/internal/config"
	"github.com/yangclinic/mediakit/internal/dataset"
	"github.com/yangclinic/mediakit/internal/followers"
	"github.com/yangclinic/mediakit/internal/news"
	"github.com/yangclinic/mediakit/internal/rating"
	"github.com/yangclinic/mediakit/internal/stats"
	"github.com/yangclinic/mediakit/internal/tvsearch"
)

// StatUpdater overwrites a single stat and reports whether it changed.
type StatUpdater interface {
	Update(ctx context.Context, d *dataset.Dataset) bool
}

// ArticleDiscoverer appends newly found articles to the dataset.
type ArticleDiscoverer interface {
	Discover(ctx context.Context, d *dataset.Dataset, idx *dataset.URLIndex) news.Result
}

// AppearanceDiscoverer appends newly found TV appearances to the dataset.
type AppearanceDiscoverer interface {
	Discover(ctx context.Context, d *dataset.Dataset, idx *dataset.URLIndex) tvsearch.Result
}

// StepResult holds the result of a single pipeline step. Stage failures are
// folded into Summary as "no change" by the stages themselves; only load
// and save surface errors.
type StepResult struct {
	Name    string
	Summary string
	Changed bool
}

// Result holds the results of a full run.
type Result struct {
	Steps   []StepResult
	Changed bool
}

// Pipeline owns the stages and the store. Stage failures never abort the
// run; the caller always exits successfully and schedulers are expected to
// diff the data file instead of branching on exit status.
type Pipeline struct {
	store     *dataset.Store
	followers StatUpdater
	rating    StatUpdater
	articles  ArticleDiscoverer
	shows     AppearanceDiscoverer
}

// Option replaces a stage, used by tests.
type Option func(*Pipeline)

func WithFollowers(s StatUpdater) Option      { return func(p *Pipeline) { p.followers = s } }
func WithRating(s StatUpdater) Option         { return func(p *Pipeline) { p.rating = s } }
func WithArticles(s ArticleDiscoverer) Option { return func(p *Pipeline) { p.articles = s } }
func WithShows(s AppearanceDiscoverer) Option { return func(p *Pipeline) { p.shows = s } }

// New wires the default stages from the configuration.
func New(cfg *config.Config, store *dataset.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     store,
		followers: followers.New(cfg.Facebook.PageURL, cfg.Facebook.MinFollowers, cfg.Timeouts.Render.Std(), nil),
		rating:    rating.New(cfg.Google.PlaceQuery, "", cfg.Timeouts.HTTP.Std()),
		articles:  news.New(cfg),
		shows:     tvsearch.New(cfg, nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full refresh. The returned error is fatal only: the
// dataset could not be loaded or written back.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	data, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	r := &Result{}

	changed := p.followers.Update(ctx, data)
	r.addStep("Followers", statSummary(changed, data.Stats[dataset.StatFollowers].Display), changed)

	changed = p.rating.Update(ctx, data)
	r.addStep("Rating", statSummary(changed, fmt.Sprintf("%v", data.Stats[dataset.StatRating].Score)), changed)

	// The index is rebuilt before each discovery stage so records added by
	// an earlier stage in the same run are already visible.
	newsResult := p.articles.Discover(ctx, data, dataset.BuildIndex(data))
	r.addStep("Articles", fmt.Sprintf("%d new articles", newsResult.Added), newsResult.Added > 0)

	tvResult := p.shows.Discover(ctx, data, dataset.BuildIndex(data))
	if tvResult.Skipped {
		r.addStep("Appearances", "skipped (yt-dlp unavailable)", false)
	} else {
		r.addStep("Appearances", fmt.Sprintf("%d new TV appearances", tvResult.Count), tvResult.Added)
	}

	stats.Recalculate(data)
	r.addStep("Stats", fmt.Sprintf("media exposure %s", data.Stats[dataset.StatMediaExposure].Display), false)

	if err := p.store.Save(data); err != nil {
		return r, fmt.Errorf("saving dataset: %w", err)
	}

	if r.Changed {
		log.Println("[DONE] Data updated with new content.")
	} else {
		log.Println("[DONE] No new content found, timestamp updated.")
	}
	return r, nil
}

func (r *Result) addStep(name, summary string, changed bool) {
	r.Steps = append(r.Steps, StepResult{Name: name, Summary: summary, Changed: changed})
	if changed {
		r.Changed = true
	}
}

func statSummary(changed bool, value string) string {
	if changed {
		return "updated to " + value
	}
	return "no change"
}
