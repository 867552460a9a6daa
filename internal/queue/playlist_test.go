package queue

import (
	"testing"

	"github.com/ytqueue/ytq/internal/ytdl"
)

func entries(n int) []ytdl.Entry {
	out := make([]ytdl.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ytdl.Entry{ID: string(rune('a' + i)), Title: "Video " + string(rune('A'+i))})
	}
	return out
}

func prefixes(batch []PlaylistItem) []string {
	out := make([]string, 0, len(batch))
	for _, p := range batch {
		out = append(out, p.Prefix)
	}
	return out
}

func TestBuildPlaylistBatchNumbersInListingOrder(t *testing.T) {
	batch := BuildPlaylistBatch(entries(3), 1, false)
	got := prefixes(batch)
	want := []string{"1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prefixes = %v, want %v", got, want)
		}
	}
}

func TestBuildPlaylistBatchFirstCutoffKeepsOriginalNumbers(t *testing.T) {
	batch := BuildPlaylistBatch(entries(5), 3, false)
	if len(batch) != 3 {
		t.Fatalf("expected 3 entries past the cutoff, got %d", len(batch))
	}
	got := prefixes(batch)
	want := []string{"3", "4", "5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prefixes = %v, want %v", got, want)
		}
	}
}

func TestBuildPlaylistBatchReverseMirrorsFullList(t *testing.T) {
	// Reversal maps index i to n+1-i over the full listing, so a cutoff
	// applied together with reverse still numbers against the whole
	// list: entries 3..5 of 5 become 3, 2, 1.
	batch := BuildPlaylistBatch(entries(5), 3, true)
	got := prefixes(batch)
	want := []string{"3", "2", "1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prefixes = %v, want %v", got, want)
		}
	}
}

func TestBuildPlaylistBatchReverseCenterIsFixed(t *testing.T) {
	batch := BuildPlaylistBatch(entries(5), 1, true)
	if batch[2].Prefix != "3" {
		t.Fatalf("expected the center entry to keep its number, got %q", batch[2].Prefix)
	}
}

func TestBuildPlaylistBatchZeroPadsToListWidth(t *testing.T) {
	batch := BuildPlaylistBatch(entries(12), 1, false)
	if batch[0].Prefix != "01" || batch[9].Prefix != "10" || batch[11].Prefix != "12" {
		t.Fatalf("expected two-digit prefixes, got %v", prefixes(batch))
	}
}

func TestBuildPlaylistBatchFirstBelowOneMeansAll(t *testing.T) {
	if got := len(BuildPlaylistBatch(entries(3), 0, false)); got != 3 {
		t.Fatalf("expected the full list, got %d entries", got)
	}
}

func TestPlaylistItemDerivedFields(t *testing.T) {
	p := PlaylistItem{Prefix: "04", Entry: ytdl.Entry{ID: "abc123", Title: "Some Video"}}
	if got := p.PlaylistTitle(); got != "04 Some Video" {
		t.Fatalf("title = %q", got)
	}
	if got := p.OutputPattern(); got != "04 - %(title)s.%(ext)s" {
		t.Fatalf("output pattern = %q", got)
	}
	if got := p.EntryURL(); got != "https://www.youtube.com/watch?v=abc123" {
		t.Fatalf("url = %q", got)
	}

	p.Entry.Title = ""
	if got := p.PlaylistTitle(); got != "04 abc123" {
		t.Fatalf("expected the id fallback title, got %q", got)
	}
	p.Entry.URL = "https://example.com/watch/abc123"
	if got := p.EntryURL(); got != "https://example.com/watch/abc123" {
		t.Fatalf("expected the listing url preferred, got %q", got)
	}
}
