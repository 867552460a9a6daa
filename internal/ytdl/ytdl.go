// Package ytdl drives the external downloader executable. The rest of
// the system treats the tool as opaque: it only relies on the argument
// surface built here, exit status 0 as the success signal, and the
// line-oriented progress text streamed from the process.
package ytdl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

var ErrEmptyPlaylist = errors.New("playlist_empty")

// Config mirrors the daemon-level settings the tool invocations need.
type Config struct {
	Program    string
	BaseArgs   []string
	RateLimit  string
	Proxy      string
	ProxyHosts []string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Program == "" {
		cfg.Program = "yt-dlp"
	}
	return &Client{cfg: cfg}
}

// DownloadRequest describes one worker launch.
type DownloadRequest struct {
	URL           string
	Dir           string
	OutputPattern string
	Slow          bool
}

// Entry is one row of a flat playlist listing.
type Entry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ProcessEvent is delivered to the scheduler's event channel: zero or
// more chunk events followed by exactly one exit event per launch.
type ProcessEvent struct {
	Token uint64
	Chunk string
	Exit  bool
	Err   error
}

// Process is the handle the supervisor keeps for the running worker.
type Process interface {
	Kill()
}

// downloadArgs builds the worker argument list. Order matters to the
// tool: base args, proxy, rate limit, output pattern, terminator, URL.
func (c *Client) downloadArgs(req DownloadRequest) []string {
	args := append([]string{}, c.cfg.BaseArgs...)
	if c.cfg.Proxy != "" && hostMatches(req.URL, c.cfg.ProxyHosts) {
		args = append(args, "--proxy", c.cfg.Proxy)
	}
	if req.Slow && c.cfg.RateLimit != "" {
		args = append(args, "--rate-limit", c.cfg.RateLimit)
	}
	if req.OutputPattern != "" {
		args = append(args, "--output", req.OutputPattern)
	}
	return append(args, "--", req.URL)
}

func hostMatches(rawURL string, hosts []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Start launches the worker for req with its working directory created
// first. Output chunks and the final exit status are delivered on
// events tagged with token; the exit event is sent exactly once, after
// the output stream is drained.
func (c *Client) Start(req DownloadRequest, token uint64, events chan<- ProcessEvent) (Process, error) {
	if req.Dir != "" {
		if err := os.MkdirAll(req.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create download dir: %w", err)
		}
	}
	cmd := exec.Command(c.cfg.Program, c.downloadArgs(req)...)
	cmd.Dir = req.Dir
	configureCommandForTermination(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	go func() {
		buf := make([]byte, 4096)
		for {
			n, readErr := stdout.Read(buf)
			if n > 0 {
				events <- ProcessEvent{Token: token, Chunk: string(buf[:n])}
			}
			if readErr != nil {
				break
			}
		}
		events <- ProcessEvent{Token: token, Exit: true, Err: cmd.Wait()}
	}()
	return &process{cmd: cmd}, nil
}

type process struct {
	cmd *exec.Cmd
}

func (p *process) Kill() {
	terminateCommand(p.cmd)
}

// VideoID resolves the tool's notion of the video id for a URL. A
// failure degrades to an empty id; display falls back to the URL.
func (c *Client) VideoID(ctx context.Context, rawURL string) (string, error) {
	return c.singleLine(ctx, "--get-id", rawURL)
}

// DestFilename resolves the destination filename the tool would write
// for url under pattern.
func (c *Client) DestFilename(ctx context.Context, rawURL, pattern string) (string, error) {
	args := append([]string{}, c.cfg.BaseArgs...)
	args = append(args, "--get-filename")
	if pattern != "" {
		args = append(args, "--output", pattern)
	}
	args = append(args, "--", rawURL)
	out, err := exec.CommandContext(ctx, c.cfg.Program, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Client) singleLine(ctx context.Context, flag, rawURL string) (string, error) {
	args := append([]string{}, c.cfg.BaseArgs...)
	args = append(args, flag, "--", rawURL)
	out, err := exec.CommandContext(ctx, c.cfg.Program, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// FlatPlaylist lists playlist entries without downloading anything: one
// JSON object per line, consumed in order until the stream ends or a
// non-JSON line appears.
func (c *Client) FlatPlaylist(ctx context.Context, rawURL string) ([]Entry, error) {
	args := append([]string{}, c.cfg.BaseArgs...)
	args = append(args, "--flat-playlist", "--dump-json", "--", rawURL)
	out, err := exec.CommandContext(ctx, c.cfg.Program, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("playlist listing: %w", err)
	}
	entries, err := parsePlaylist(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return entries, nil
}

func parsePlaylist(r *bytes.Reader) ([]Entry, error) {
	var out []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			break
		}
		out = append(out, e)
	}
	return out, scanner.Err()
}

// WatchURL derives the canonical URL for a bare playlist entry id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ShortURL derives the shareable short link for a video id.
func ShortURL(id string) string {
	return "https://youtu.be/" + id
}
