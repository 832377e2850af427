package dataset

import "strings"

// URLIndex is the dedup set of known URLs and YouTube video ids. It is
// rebuilt from the dataset at the start of each discovery stage so that
// records added earlier in the same run are visible to later stages.
type URLIndex struct {
	seen map[string]struct{}
}

// BuildIndex collects every record URL across all three collections, plus
// the normalized video id for YouTube URLs in either recognized shape.
func BuildIndex(d *Dataset) *URLIndex {
	idx := &URLIndex{seen: map[string]struct{}{}}
	for _, a := range d.TVShows {
		idx.Add(a.URL)
	}
	for _, a := range d.HealthMedia {
		idx.Add(a.URL)
	}
	for _, a := range d.NewsMedia {
		idx.Add(a.URL)
	}
	return idx
}

// Add records a URL and, for YouTube links, its native video id.
func (idx *URLIndex) Add(url string) {
	if url == "" {
		return
	}
	idx.seen[url] = struct{}{}
	if id := VideoID(url); id != "" {
		idx.seen[id] = struct{}{}
	}
}

// Has reports whether the URL (or a YouTube video id) is already known.
func (idx *URLIndex) Has(key string) bool {
	if key == "" {
		return false
	}
	if _, ok := idx.seen[key]; ok {
		return true
	}
	if id := VideoID(key); id != "" {
		if _, ok := idx.seen[id]; ok {
			return true
		}
	}
	return false
}

// VideoID extracts the YouTube video id from a short-link (youtu.be/<id>)
// or canonical watch-link (youtube.com/watch?v=<id>) URL, or "" otherwise.
func VideoID(url string) string {
	if i := strings.Index(url, "youtu.be/"); i >= 0 {
		id := url[i+len("youtu.be/"):]
		if j := strings.IndexAny(id, "?&"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	if strings.Contains(url, "youtube.com/watch") {
		if i := strings.Index(url, "v="); i >= 0 {
			id := url[i+len("v="):]
			if j := strings.IndexAny(id, "&?"); j >= 0 {
				id = id[:j]
			}
			return id
		}
	}
	return ""
}
