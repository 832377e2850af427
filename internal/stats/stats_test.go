package stats

import (
	"testing"

	"github.com/yangclinic/mediakit/internal/dataset"
)

func TestRecalculate(t *testing.T) {
	d := dataset.New()
	d.TVShows = make([]dataset.Appearance, 3)
	d.NewsMedia = make([]dataset.Article, 5)
	d.HealthMedia = make([]dataset.Article, 2)

	Recalculate(d)

	if got := d.Stats[dataset.StatTVEpisodes].Count; got != 3 {
		t.Errorf("tv_episodes.count = %d, want 3", got)
	}
	if got := d.Stats[dataset.StatTVEpisodes].Display; got != "3+" {
		t.Errorf("tv_episodes.display = %q, want 3+", got)
	}
	if got := d.Stats[dataset.StatMediaExposure].Count; got != 10 {
		t.Errorf("media_exposure.count = %d, want 10", got)
	}
	if got := d.Stats[dataset.StatMediaExposure].Display; got != "10+" {
		t.Errorf("media_exposure.display = %q, want 10+", got)
	}
}

func TestRecalculateExposureIdentity(t *testing.T) {
	// media_exposure.count must always equal tv + news + health, for any
	// collection sizes.
	for _, sizes := range [][3]int{{0, 0, 0}, {1, 0, 0}, {0, 7, 2}, {12, 34, 5}} {
		d := dataset.New()
		d.TVShows = make([]dataset.Appearance, sizes[0])
		d.NewsMedia = make([]dataset.Article, sizes[1])
		d.HealthMedia = make([]dataset.Article, sizes[2])

		Recalculate(d)

		want := sizes[0] + sizes[1] + sizes[2]
		if got := d.Stats[dataset.StatMediaExposure].Count; got != want {
			t.Errorf("sizes %v: media_exposure.count = %d, want %d", sizes, got, want)
		}
	}
}
