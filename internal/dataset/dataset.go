// Package dataset defines the persisted media-kit data structure and its
// JSON file store.
package dataset

import (
	"crypto/md5"
	"fmt"
	"time"
)

// Stat key names. A loaded dataset always carries all four.
const (
	StatFollowers     = "facebook_followers"
	StatRating        = "google_rating"
	StatTVEpisodes    = "tv_episodes"
	StatMediaExposure = "media_exposure"
)

// Taipei is the fixed zone used for all timestamps in the data file.
var Taipei = time.FixedZone("UTC+8", 8*60*60)

// Dataset is the full persisted aggregate.
type Dataset struct {
	LastUpdated string           `json:"last_updated"`
	Stats       map[string]*Stat `json:"stats"`
	TVShows     []Appearance     `json:"tv_shows"`
	HealthMedia []Article        `json:"health_media"`
	NewsMedia   []Article        `json:"news_media"`
}

// Stat is a single named counter or score plus its display string.
type Stat struct {
	Count   int     `json:"count,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Display string  `json:"display,omitempty"`
}

// Article is a discovered news or health-media piece.
type Article struct {
	ID         string `json:"id"`
	Outlet     string `json:"outlet"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	URL        string `json:"url"`
	Source     string `json:"source"`
	AddedDate  string `json:"added_date"`
	OutletRole string `json:"outlet_role,omitempty"`
}

// Appearance is a discovered TV episode appearance.
type Appearance struct {
	ID          string `json:"id"`
	Show        string `json:"show"`
	ShowNetwork string `json:"show_network"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	AddedDate   string `json:"added_date"`
}

// New returns an empty dataset with all stat keys present.
func New() *Dataset {
	d := &Dataset{
		Stats:       map[string]*Stat{},
		TVShows:     []Appearance{},
		HealthMedia: []Article{},
		NewsMedia:   []Article{},
	}
	d.EnsureStats()
	return d
}

// EnsureStats guarantees the four known stat keys exist, so fetchers and the
// recalculator can write through without nil checks.
func (d *Dataset) EnsureStats() {
	if d.Stats == nil {
		d.Stats = map[string]*Stat{}
	}
	for _, key := range []string{StatFollowers, StatRating, StatTVEpisodes, StatMediaExposure} {
		if d.Stats[key] == nil {
			d.Stats[key] = &Stat{}
		}
	}
}

// MakeID builds the deterministic record fingerprint: a short category tag
// plus the first 8 hex chars of md5("category|outlet|title"). It only needs
// to be collision-tolerant, not unique.
func MakeID(category, outlet, title string) string {
	sum := md5.Sum([]byte(category + "|" + outlet + "|" + title))
	return fmt.Sprintf("%s-%x", category, sum[:4])
}

// Today returns the current date in the data file's fixed zone.
func Today() string {
	return time.Now().In(Taipei).Format("2006-01-02")
}
