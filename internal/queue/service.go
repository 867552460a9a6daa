package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ytqueue/ytq/internal/history"
)

var (
	ErrMissingURL = errors.New("missing_url")
	ErrNotFound   = errors.New("item_not_found")
)

// Service is the caller-facing surface: every mutating operation posts
// into the scheduler goroutine and ends with a reconciliation pass, so
// callers never touch queue state directly.
type Service struct {
	sched        *Scheduler
	tool         Tool
	downloadRoot string
}

func NewService(sched *Scheduler, tool Tool, downloadRoot string) *Service {
	return &Service{sched: sched, tool: tool, downloadRoot: downloadRoot}
}

type AddRequest struct {
	URL           string `json:"url"`
	Dir           string `json:"dir"`
	OutputPattern string `json:"output"`
	Title         string `json:"title"`
	Priority      int    `json:"priority"`
	Paused        bool   `json:"paused"`
	Slow          bool   `json:"slow"`
}

type PlaylistRequest struct {
	URL      string `json:"url"`
	First    int    `json:"first"`
	Reverse  bool   `json:"reverse"`
	Dir      string `json:"dir"`
	Priority int    `json:"priority"`
	Paused   bool   `json:"paused"`
	Slow     bool   `json:"slow"`
}

// Add resolves metadata for one URL and enqueues it. Metadata lookups
// run here, synchronously, once per item; a failed lookup degrades to
// an empty field rather than blocking the enqueue.
func (s *Service) Add(ctx context.Context, req AddRequest) (ItemView, error) {
	if req.URL == "" {
		return ItemView{}, ErrMissingURL
	}
	dir, err := cleanItemDir(req.Dir, s.downloadRoot)
	if err != nil {
		return ItemView{}, err
	}
	pattern, err := cleanOutputPattern(req.OutputPattern)
	if err != nil {
		return ItemView{}, err
	}

	videoID, _ := s.tool.VideoID(ctx, req.URL)
	title := req.Title
	if title == "" {
		title, _ = s.tool.DestFilename(ctx, req.URL, pattern)
	}

	item := &Item{
		ID:            uuid.NewString(),
		URL:           req.URL,
		VideoID:       videoID,
		Title:         title,
		Dir:           dir,
		OutputPattern: pattern,
		Priority:      req.Priority,
		Paused:        req.Paused,
		Slow:          req.Slow,
		CreatedAt:     time.Now(),
	}
	return s.enqueue(item), nil
}

// AddPlaylist expands one playlist URL into a batch of single-item
// enqueues sharing priority, dir and flag values. An empty listing is
// an error and enqueues nothing.
func (s *Service) AddPlaylist(ctx context.Context, req PlaylistRequest) ([]ItemView, error) {
	if req.URL == "" {
		return nil, ErrMissingURL
	}
	dir, err := cleanItemDir(req.Dir, s.downloadRoot)
	if err != nil {
		return nil, err
	}
	entries, err := s.tool.FlatPlaylist(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	batch := BuildPlaylistBatch(entries, req.First, req.Reverse)
	views := make([]ItemView, 0, len(batch))
	for _, p := range batch {
		item := &Item{
			ID:            uuid.NewString(),
			URL:           p.EntryURL(),
			VideoID:       p.Entry.ID,
			Title:         p.PlaylistTitle(),
			Dir:           dir,
			OutputPattern: p.OutputPattern(),
			Priority:      req.Priority,
			Paused:        req.Paused,
			Slow:          req.Slow,
			CreatedAt:     time.Now(),
		}
		views = append(views, s.enqueue(item))
	}
	return views, nil
}

func (s *Service) enqueue(item *Item) ItemView {
	var view ItemView
	s.sched.do(func() {
		s.sched.queue.Add(item)
		s.sched.reconcile()
		view = s.sched.view(item)
	})
	return view
}

// List snapshots the queue in insertion order.
func (s *Service) List() []ItemView {
	var out []ItemView
	s.sched.do(func() {
		items := s.sched.queue.Items()
		out = make([]ItemView, 0, len(items))
		for _, it := range items {
			out = append(out, s.sched.view(it))
		}
	})
	return out
}

func (s *Service) Get(id string) (ItemView, error) {
	var view ItemView
	err := s.sched.withItem(id, func(it *Item) {
		view = s.sched.view(it)
	})
	return view, err
}

// Log returns a copy of the item's accumulated worker output.
func (s *Service) Log(id string) ([]string, error) {
	var out []string
	err := s.sched.withItem(id, func(it *Item) {
		out = append(out, it.Log...)
	})
	return out, err
}

// Cancel removes the item; if it is currently running the worker is
// killed and the slot frees asynchronously on its exit event.
func (s *Service) Cancel(id string) error {
	return s.sched.withItem(id, func(it *Item) {
		wasRunning := s.sched.isRunning(it)
		s.sched.queue.Remove(it.ID)
		if wasRunning {
			if !s.sched.current.killed {
				s.sched.current.killed = true
				s.sched.current.proc.Kill()
			}
		} else {
			s.sched.record(it, history.StatusCanceled)
		}
		s.sched.reconcile()
	})
}

// TogglePause flips the paused flag and reconciles; pausing the
// running item interrupts it without charging its retry budget.
func (s *Service) TogglePause(id string) (ItemView, error) {
	var view ItemView
	err := s.sched.withItem(id, func(it *Item) {
		it.Paused = !it.Paused
		s.sched.reconcile()
		view = s.sched.view(it)
	})
	return view, err
}

// ToggleSlow flips the slow flag; if the item is running this forces
// exactly one relaunch so the rate-limit arguments take effect.
func (s *Service) ToggleSlow(id string) (ItemView, error) {
	var view ItemView
	err := s.sched.withItem(id, func(it *Item) {
		it.Slow = !it.Slow
		if s.sched.isRunning(it) && !s.sched.current.killed {
			s.sched.interruptCurrent()
		} else {
			s.sched.reconcile()
		}
		view = s.sched.view(it)
	})
	return view, err
}

// AdjustPriority shifts the item's priority by delta and reconciles.
func (s *Service) AdjustPriority(id string, delta int) (ItemView, error) {
	var view ItemView
	err := s.sched.withItem(id, func(it *Item) {
		it.Priority += delta
		s.sched.reconcile()
		view = s.sched.view(it)
	})
	return view, err
}

// withItem runs fn against the item with the given id on the scheduler
// goroutine, or reports ErrNotFound.
func (s *Scheduler) withItem(id string, fn func(*Item)) error {
	err := ErrNotFound
	s.do(func() {
		if it := s.queue.ByID(id); it != nil {
			err = nil
			fn(it)
		}
	})
	return err
}
