package model

import (
	"encoding/json"
	"testing"
)

func TestParsePageType(t *testing.T) {
	t.Parallel()

	for _, pt := range []PageType{PageTypeHomepage, PageTypeTeam, PageTypeAbout, PageTypeContact, PageTypeOther} {
		got, err := ParsePageType(pt.String())
		if err != nil {
			t.Errorf("ParsePageType(%q) error: %v", pt, err)
		}
		if got != pt {
			t.Errorf("ParsePageType(%q) = %q", pt, got)
		}
	}

	if _, err := ParsePageType("Team"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestNewCrawlResult(t *testing.T) {
	t.Parallel()

	t.Run("joins sections in order", func(t *testing.T) {
		t.Parallel()

		r := NewCrawlResult("https://acme.com", []PageRecord{
			{Path: "/", Text: "Welcome", Type: PageTypeHomepage},
			{Path: "/team", Text: "Jane", Type: PageTypeTeam},
		})

		want := "[/]\nWelcome\n\n[/team]\nJane"
		if r.Text != want {
			t.Errorf("Text = %q, want %q", r.Text, want)
		}
		if r.PagesCrawled != 2 {
			t.Errorf("PagesCrawled = %d, want 2", r.PagesCrawled)
		}
		if r.TotalChars != len(want) {
			t.Errorf("TotalChars = %d, want %d", r.TotalChars, len(want))
		}
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()

		r := NewCrawlResult("https://café.fr", []PageRecord{
			{Path: "/", Text: "café", Type: PageTypeHomepage},
		})
		// "[/]\n" + "café"
		if r.TotalChars != 8 {
			t.Errorf("TotalChars = %d, want 8", r.TotalChars)
		}
	})

	t.Run("nil pages encode as empty array", func(t *testing.T) {
		t.Parallel()

		r := NewCrawlResult("https://acme.com", nil)
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		want := `{"url":"https://acme.com","text":"","pages":[],"pagesCrawled":0,"totalChars":0}`
		if string(data) != want {
			t.Errorf("got %s, want %s", data, want)
		}
	})
}

func TestPageTypeCounts(t *testing.T) {
	t.Parallel()

	r := NewCrawlResult("https://acme.com", []PageRecord{
		{Path: "/", Type: PageTypeHomepage},
		{Path: "/team", Type: PageTypeTeam},
		{Path: "/leadership", Type: PageTypeTeam},
	})
	counts := r.PageTypeCounts()
	if counts[PageTypeTeam] != 2 || counts[PageTypeHomepage] != 1 || counts[PageTypeAbout] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"ééééé", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestCrawlReport(t *testing.T) {
	t.Parallel()

	r := NewCrawlReport("acme.com")
	if r.HasResult() {
		t.Error("new report should have no result")
	}
	if r.CrawledAt.IsZero() {
		t.Error("CrawledAt should be set")
	}
	r.Result = NewCrawlResult("https://acme.com", nil)
	if !r.HasResult() {
		t.Error("expected result")
	}
}
