package queue

import (
	"fmt"
	"strconv"

	"github.com/ytqueue/ytq/internal/ytdl"
)

// PlaylistItem is one expanded playlist entry, carrying the shared
// zero-padded prefix that keeps downloaded files in playback order.
type PlaylistItem struct {
	Prefix string
	Entry  ytdl.Entry
}

// BuildPlaylistBatch turns a flat listing into the enqueue batch.
// Entries are numbered 1..n in listing order. Entries with an original
// index below first are dropped. With reverse, index i is renumbered to
// n+1-i over the original full list, independent of the first cutoff.
// Prefixes are zero-padded to the digit count of n.
func BuildPlaylistBatch(entries []ytdl.Entry, first int, reverse bool) []PlaylistItem {
	n := len(entries)
	width := len(strconv.Itoa(n))
	if first < 1 {
		first = 1
	}
	var out []PlaylistItem
	for i, e := range entries {
		index := i + 1
		if index < first {
			continue
		}
		if reverse {
			index = n + 1 - index
		}
		out = append(out, PlaylistItem{
			Prefix: fmt.Sprintf("%0*d", width, index),
			Entry:  e,
		})
	}
	return out
}

// PlaylistTitle is the display title for an expanded entry.
func (p PlaylistItem) PlaylistTitle() string {
	title := p.Entry.Title
	if title == "" {
		title = p.Entry.ID
	}
	return p.Prefix + " " + title
}

// OutputPattern is the per-entry destination pattern: the prefix glued
// to the tool's title/extension template.
func (p PlaylistItem) OutputPattern() string {
	return p.Prefix + " - %(title)s.%(ext)s"
}

// EntryURL prefers the listing's own URL and falls back to the
// canonical watch URL for the entry id.
func (p PlaylistItem) EntryURL() string {
	if p.Entry.URL != "" {
		return p.Entry.URL
	}
	return ytdl.WatchURL(p.Entry.ID)
}
