package main

// itemView mirrors the daemon's queue snapshot JSON.
type itemView struct {
	ID              string `json:"id"`
	URL             string `json:"url"`
	VideoID         string `json:"video_id"`
	ShortURL        string `json:"short_url"`
	Title           string `json:"title"`
	Dir             string `json:"dir"`
	OutputPattern   string `json:"output"`
	Priority        int    `json:"priority"`
	FailureCount    int    `json:"failures"`
	Paused          bool   `json:"paused"`
	Slow            bool   `json:"slow"`
	Running         bool   `json:"running"`
	Excluded        bool   `json:"excluded"`
	ProgressPercent string `json:"progress_percent"`
	ProgressTotal   string `json:"progress_total"`
	CreatedAt       string `json:"created_at"`
}

type historyEntry struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Dir        string `json:"dir"`
	Status     string `json:"status"`
	Failures   int    `json:"failures"`
	QueuedAt   string `json:"queued_at"`
	FinishedAt string `json:"finished_at"`
}
