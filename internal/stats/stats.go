// Package stats derives the aggregate counters from the dataset collections.
package stats

import (
	"fmt"
	"log"

	"github.com/yangclinic/mediakit/internal/dataset"
)

// Recalculate rewrites the derived counters as pure functions of the
// current collection sizes.
func Recalculate(d *dataset.Dataset) {
	tvCount := len(d.TVShows)
	mediaCount := len(d.NewsMedia) + len(d.HealthMedia)

	d.Stats[dataset.StatTVEpisodes].Count = tvCount
	d.Stats[dataset.StatTVEpisodes].Display = fmt.Sprintf("%d+", tvCount)
	d.Stats[dataset.StatMediaExposure].Count = tvCount + mediaCount
	d.Stats[dataset.StatMediaExposure].Display = fmt.Sprintf("%d+", tvCount+mediaCount)

	log.Printf("[STATS] TV episodes: %d+, Media exposure: %d+", tvCount, tvCount+mediaCount)
}
