// Package report renders a human-readable digest of the media-kit dataset.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/yangclinic/mediakit/internal/dataset"
)

var md = goldmark.New()

// Markdown renders the dataset as a Markdown digest.
func Markdown(d *dataset.Dataset) string {
	var b strings.Builder

	b.WriteString("# 媒體曝光總覽\n\n")
	if d.LastUpdated != "" {
		fmt.Fprintf(&b, "更新時間：%s\n\n", d.LastUpdated)
	}

	b.WriteString("## 數據\n\n")
	writeStat(&b, "Facebook 追蹤者", d.Stats[dataset.StatFollowers])
	if s := d.Stats[dataset.StatRating]; s != nil && s.Score > 0 {
		fmt.Fprintf(&b, "- Google 評分：%.1f\n", s.Score)
	}
	writeStat(&b, "電視節目集數", d.Stats[dataset.StatTVEpisodes])
	writeStat(&b, "媒體曝光總數", d.Stats[dataset.StatMediaExposure])
	b.WriteString("\n")

	if len(d.TVShows) > 0 {
		b.WriteString("## 電視節目\n\n")
		for _, a := range d.TVShows {
			fmt.Fprintf(&b, "- [%s] %s", a.Show, a.Title)
			if a.Date != "" {
				fmt.Fprintf(&b, " (%s)", a.Date)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	writeArticles(&b, "健康媒體", d.HealthMedia)
	writeArticles(&b, "新聞報導", d.NewsMedia)

	return b.String()
}

// HTML renders the digest as an HTML fragment.
func HTML(d *dataset.Dataset) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(d)), &buf); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

func writeStat(b *strings.Builder, label string, s *dataset.Stat) {
	if s == nil || s.Display == "" {
		return
	}
	fmt.Fprintf(b, "- %s：%s\n", label, s.Display)
}

func writeArticles(b *strings.Builder, heading string, articles []dataset.Article) {
	if len(articles) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, a := range articles {
		fmt.Fprintf(b, "- [%s] %s", a.Outlet, a.Title)
		if a.Date != "" {
			fmt.Fprintf(b, " (%s)", a.Date)
		}
		if a.OutletRole != "" {
			fmt.Fprintf(b, "（%s）", a.OutletRole)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
