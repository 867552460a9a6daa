package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ytqueue/ytq/internal/api"
	"github.com/ytqueue/ytq/internal/history"
	"github.com/ytqueue/ytq/internal/queue"
	"github.com/ytqueue/ytq/internal/ytdl"
)

// stubDownloader stands in for yt-dlp: it answers the metadata probes,
// streams a couple of progress lines, and drops a marker file into its
// working directory. URLs containing "fail" exit non-zero.
const stubDownloader = `#!/bin/sh
mode=download
url=""
for a in "$@"; do
  case "$a" in
    --get-id) mode=id ;;
    --get-filename) mode=filename ;;
    --flat-playlist) mode=playlist ;;
  esac
  url=$a
done
case "$mode" in
  id) echo "stub123"; exit 0 ;;
  filename) echo "Stub Video.webm"; exit 0 ;;
  playlist)
    echo '{"id":"p1","title":"First"}'
    echo '{"id":"p2","title":"Second"}'
    exit 0 ;;
esac
case "$url" in
  *fail*) echo "ERROR: unable to download video data"; exit 1 ;;
esac
echo "[download]   5.0% of 4.00MiB at 1.00MiB/s"
echo "[download] 100.0% of 4.00MiB at 1.00MiB/s"
: > "downloaded-$(basename "$url")"
exit 0
`

type harness struct {
	api       *httptest.Server
	hist      *history.Store
	downloads string
}

func newHarness(t *testing.T, maxFailures int) *harness {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub downloader is a shell script")
	}
	root := t.TempDir()
	program := filepath.Join(root, "yt-dlp-stub")
	if err := os.WriteFile(program, []byte(stubDownloader), 0o755); err != nil {
		t.Fatalf("write stub downloader: %v", err)
	}
	downloads := filepath.Join(root, "downloads")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		t.Fatalf("create download dir: %v", err)
	}

	hist, err := history.Open(filepath.Join(root, "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = hist.Close() })

	client := ytdl.NewClient(ytdl.Config{Program: program, RateLimit: "2M"})
	sched := queue.NewScheduler(client, hist, maxFailures)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go sched.Run(ctx)
	svc := queue.NewService(sched, client, downloads)

	ts := httptest.NewServer((&api.Server{Queue: svc, History: hist, Version: "itest"}).Handler())
	t.Cleanup(ts.Close)
	return &harness{api: ts, hist: hist, downloads: downloads}
}

func (h *harness) post(t *testing.T, path string, payload map[string]any, out any) int {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(h.api.URL+path, "application/json", strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return resp.StatusCode
}

func (h *harness) waitForHistory(t *testing.T, url, status string, timeout time.Duration) history.Entry {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		entries, err := h.hist.List(context.Background(), 0)
		if err != nil {
			t.Fatalf("list history: %v", err)
		}
		for _, e := range entries {
			if e.URL == url && e.Status == status {
				return e
			}
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s to finish with status %s", url, status)
	return history.Entry{}
}

func TestDownloadCompletesEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration test in -short mode")
	}
	h := newHarness(t, 8)

	var view queue.ItemView
	url := "https://example.com/ok-video"
	if code := h.post(t, "/items", map[string]any{"url": url}, &view); code != http.StatusOK {
		t.Fatalf("add returned %d", code)
	}
	if view.VideoID != "stub123" || view.Title != "Stub Video.webm" {
		t.Fatalf("metadata not resolved: %+v", view)
	}

	entry := h.waitForHistory(t, url, history.StatusCompleted, 10*time.Second)
	if entry.Failures != 0 {
		t.Fatalf("expected a clean completion, got %+v", entry)
	}
	marker := filepath.Join(h.downloads, "downloaded-ok-video")
	if _, err := os.Stat(marker); err != nil {
		t.Fatalf("expected the worker artifact at %s: %v", marker, err)
	}

	resp, err := http.Get(h.api.URL + "/items")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	var items []queue.ItemView
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected an empty queue, got %+v", items)
	}
}

func TestFailingDownloadHitsCeiling(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration test in -short mode")
	}
	h := newHarness(t, 2)

	url := "https://example.com/always-fail"
	if code := h.post(t, "/items", map[string]any{"url": url}, nil); code != http.StatusOK {
		t.Fatalf("add returned %d", code)
	}

	entry := h.waitForHistory(t, url, history.StatusFailed, 10*time.Second)
	if entry.Failures != 2 {
		t.Fatalf("expected the failure ceiling recorded, got %+v", entry)
	}

	// The item is parked, not removed: it stays visible as excluded.
	resp, err := http.Get(h.api.URL + "/items")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	var items []queue.ItemView
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 1 || !items[0].Excluded {
		t.Fatalf("expected one excluded item, got %+v", items)
	}
}

func TestPlaylistExpandsAndDownloads(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration test in -short mode")
	}
	h := newHarness(t, 8)

	var views []queue.ItemView
	code := h.post(t, "/playlist", map[string]any{"url": "https://example.com/playlist"}, &views)
	if code != http.StatusOK {
		t.Fatalf("playlist returned %d", code)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 expanded entries, got %+v", views)
	}
	if views[0].Title != "1 First" || views[1].Title != "2 Second" {
		t.Fatalf("prefixes missing: %q, %q", views[0].Title, views[1].Title)
	}
	if !strings.HasPrefix(views[0].OutputPattern, "1 - ") {
		t.Fatalf("output pattern = %q", views[0].OutputPattern)
	}

	for _, v := range views {
		h.waitForHistory(t, v.URL, history.StatusCompleted, 10*time.Second)
	}
}

func TestCancelQueuedViaAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration test in -short mode")
	}
	h := newHarness(t, 8)

	var a, b queue.ItemView
	h.post(t, "/items", map[string]any{"url": "https://example.com/first", "paused": true}, &a)
	h.post(t, "/items", map[string]any{"url": "https://example.com/second", "paused": true}, &b)

	if code := h.post(t, fmt.Sprintf("/items/%s/cancel", b.ID), map[string]any{}, nil); code != http.StatusOK {
		t.Fatalf("cancel returned %d", code)
	}
	h.waitForHistory(t, "https://example.com/second", history.StatusCanceled, 5*time.Second)

	resp, err := http.Get(h.api.URL + "/items/" + a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected the paused item still present, got %d", resp.StatusCode)
	}
}
