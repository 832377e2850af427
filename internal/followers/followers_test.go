package followers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yangclinic/mediakit/internal/dataset"
)

func fakeRender(content string, err error) RenderFunc {
	return func(ctx context.Context, pageURL string) (string, error) {
		return content, err
	}
}

func newTestFetcher(content string, err error) *Fetcher {
	return New("https://www.facebook.com/good.leg.clinic/", 1000, 5*time.Second, fakeRender(content, err))
}

func TestUpdateLiteralCount(t *testing.T) {
	d := dataset.New()
	f := newTestFetcher(`<div>49,234 位追蹤者</div>`, nil)

	if !f.Update(context.Background(), d) {
		t.Fatal("expected update to report a change")
	}
	stat := d.Stats[dataset.StatFollowers]
	if stat.Count != 49234 {
		t.Errorf("count = %d, want 49234", stat.Count)
	}
	if stat.Display != "4.9萬+" {
		t.Errorf("display = %q, want 4.9萬+", stat.Display)
	}
}

func TestUpdateWanCount(t *testing.T) {
	d := dataset.New()
	f := newTestFetcher(`<span>4.9萬位追蹤者</span>`, nil)

	if !f.Update(context.Background(), d) {
		t.Fatal("expected update to report a change")
	}
	if got := d.Stats[dataset.StatFollowers].Count; got != 49000 {
		t.Errorf("count = %d, want 49000", got)
	}
}

func TestUpdateEmbeddedJSONCount(t *testing.T) {
	d := dataset.New()
	f := newTestFetcher(`{"follower_count": 51200}`, nil)

	if !f.Update(context.Background(), d) {
		t.Fatal("expected update to report a change")
	}
	if got := d.Stats[dataset.StatFollowers].Count; got != 51200 {
		t.Errorf("count = %d, want 51200", got)
	}
}

func TestUpdateRejectsImplausibleCount(t *testing.T) {
	d := dataset.New()
	d.Stats[dataset.StatFollowers].Count = 49000
	f := newTestFetcher(`<div>7 位追蹤者</div>`, nil)

	if f.Update(context.Background(), d) {
		t.Error("expected tiny count to be rejected")
	}
	if d.Stats[dataset.StatFollowers].Count != 49000 {
		t.Error("expected stored count to be untouched")
	}
}

func TestUpdateNoMatchIsNoChange(t *testing.T) {
	d := dataset.New()
	f := newTestFetcher(`<html>nothing here</html>`, nil)
	if f.Update(context.Background(), d) {
		t.Error("expected no change when no pattern matches")
	}
}

func TestUpdateRenderErrorIsNoChange(t *testing.T) {
	d := dataset.New()
	f := newTestFetcher("", errors.New("browser unavailable"))
	if f.Update(context.Background(), d) {
		t.Error("expected render failure to report no change")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{49234, "4.9萬+"},
		{50000, "5萬+"},
		{800, "800+"},
		{1234, "1,234+"},
		{128000, "12.8萬+"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.count); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
