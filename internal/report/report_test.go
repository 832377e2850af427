package report

import (
	"strings"
	"testing"

	"github.com/yangclinic/mediakit/internal/dataset"
)

func sampleDataset() *dataset.Dataset {
	d := dataset.New()
	d.LastUpdated = "2026-02-01T08:00:00+08:00"
	d.Stats[dataset.StatFollowers].Display = "4.9萬+"
	d.Stats[dataset.StatRating].Score = 4.9
	d.Stats[dataset.StatTVEpisodes].Display = "2+"
	d.Stats[dataset.StatMediaExposure].Display = "3+"
	d.TVShows = []dataset.Appearance{
		{Show: "健康2.0", Title: "血管保養特輯", Date: "2026-01-10"},
		{Show: "醫師好辣", Title: "靜脈曲張怎麼辦"},
	}
	d.HealthMedia = []dataset.Article{
		{Outlet: "早安健康", Title: "護心專欄", OutletRole: "專欄作者"},
	}
	return d
}

func TestMarkdownSections(t *testing.T) {
	out := Markdown(sampleDataset())

	for _, want := range []string{
		"# 媒體曝光總覽",
		"## 數據",
		"Facebook 追蹤者：4.9萬+",
		"Google 評分：4.9",
		"## 電視節目",
		"[健康2.0] 血管保養特輯 (2026-01-10)",
		"## 健康媒體",
		"（專欄作者）",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	if strings.Contains(out, "## 新聞報導") {
		t.Error("empty news collection should not produce a section")
	}
}

func TestHTML(t *testing.T) {
	html, err := HTML(sampleDataset())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "媒體曝光總覽") {
		t.Errorf("unexpected HTML output: %s", html)
	}
}
