package queue

import (
	"time"

	"github.com/ytqueue/ytq/internal/ytdl"
)

// Item is one requested download and its mutable state. All mutation
// happens on the scheduler goroutine; callers only ever see ItemView
// snapshots.
type Item struct {
	ID            string
	URL           string
	VideoID       string
	Title         string
	Dir           string
	OutputPattern string

	Priority     int
	FailureCount int
	Paused       bool
	Slow         bool

	ProgressPercent string
	ProgressTotal   string
	Log             []string

	CreatedAt time.Time
}

// Score is the selection ranking value.
func (it *Item) Score() int {
	return it.Priority - it.FailureCount
}

// ItemView is a light snapshot for API/CLI.
type ItemView struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	VideoID         string `json:"video_id,omitempty"`
	ShortURL        string `json:"short_url,omitempty"`
	Title           string `json:"title,omitempty"`
	Dir             string `json:"dir"`
	OutputPattern   string `json:"output,omitempty"`
	Priority        int    `json:"priority"`
	FailureCount    int    `json:"failures"`
	Paused          bool   `json:"paused"`
	Slow            bool   `json:"slow"`
	Running         bool   `json:"running"`
	Excluded        bool   `json:"excluded"`
	ProgressPercent string `json:"progress_percent,omitempty"`
	ProgressTotal   string `json:"progress_total,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func toView(it *Item, running bool, maxFailures int) ItemView {
	v := ItemView{
		ID:              it.ID,
		URL:             it.URL,
		VideoID:         it.VideoID,
		Title:           it.Title,
		Dir:             it.Dir,
		OutputPattern:   it.OutputPattern,
		Priority:        it.Priority,
		FailureCount:    it.FailureCount,
		Paused:          it.Paused,
		Slow:            it.Slow,
		Running:         running,
		Excluded:        it.FailureCount >= maxFailures,
		ProgressPercent: it.ProgressPercent,
		ProgressTotal:   it.ProgressTotal,
		CreatedAt:       it.CreatedAt.UTC().Format(time.RFC3339),
	}
	if it.VideoID != "" {
		v.ShortURL = ytdl.ShortURL(it.VideoID)
	}
	return v
}
