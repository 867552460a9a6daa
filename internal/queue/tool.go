package queue

import (
	"context"

	"github.com/ytqueue/ytq/internal/history"
	"github.com/ytqueue/ytq/internal/ytdl"
)

// Tool is the external downloader surface the queue consumes.
type Tool interface {
	VideoID(ctx context.Context, url string) (string, error)
	DestFilename(ctx context.Context, url, pattern string) (string, error)
	FlatPlaylist(ctx context.Context, url string) ([]ytdl.Entry, error)
	Start(req ytdl.DownloadRequest, token uint64, events chan<- ytdl.ProcessEvent) (ytdl.Process, error)
}

var _ Tool = (*ytdl.Client)(nil)

// History receives terminal outcomes; nil disables recording.
type History interface {
	Record(ctx context.Context, e history.Entry) error
}

var _ History = (*history.Store)(nil)
