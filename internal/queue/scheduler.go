package queue

import (
	"context"
	"log"
	"time"

	"github.com/ytqueue/ytq/internal/history"
	"github.com/ytqueue/ytq/internal/ytdl"
)

// binding ties the single live worker process to the item it serves.
// It is the sole source of truth for "which item is running".
type binding struct {
	item  *Item
	proc  ytdl.Process
	token uint64
	// killed marks a teardown already requested; the slot is freed
	// only by the exit event, so reconcile must not fire twice.
	killed bool
}

// Scheduler owns the queue and the worker slot. A single goroutine
// (Run) is the only mutator: external operations arrive as closures on
// ops, worker output and termination arrive on events. Process exits
// are delivered exactly once per launch; stale events are fenced off by
// the launch token.
type Scheduler struct {
	maxFailures int
	tool        Tool
	history     History

	queue   *Queue
	current *binding

	ops       chan func()
	events    chan ytdl.ProcessEvent
	lastToken uint64
}

func NewScheduler(tool Tool, hist History, maxFailures int) *Scheduler {
	if maxFailures <= 0 {
		maxFailures = 8
	}
	return &Scheduler{
		maxFailures: maxFailures,
		tool:        tool,
		history:     hist,
		queue:       &Queue{},
		ops:         make(chan func()),
		events:      make(chan ytdl.ProcessEvent, 64),
	}
}

// Run consumes operations and process events until ctx is canceled,
// then tears down the live worker if any.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if s.current != nil && !s.current.killed {
				s.current.killed = true
				s.current.proc.Kill()
			}
			return
		case fn := <-s.ops:
			fn()
		case ev := <-s.events:
			s.handleProcessEvent(ev)
		}
	}
}

// do runs fn on the scheduler goroutine and waits for it to finish.
func (s *Scheduler) do(fn func()) {
	done := make(chan struct{})
	s.ops <- func() {
		fn()
		close(done)
	}
	<-done
}

func (s *Scheduler) handleProcessEvent(ev ytdl.ProcessEvent) {
	if s.current == nil || ev.Token != s.current.token {
		// Leftover from a superseded launch.
		return
	}
	item := s.current.item
	if !ev.Exit {
		item.Log = append(item.Log, ev.Chunk)
		if pct, total, ok := ParseProgress(ev.Chunk); ok {
			item.ProgressPercent = pct
			item.ProgressTotal = total
		}
		return
	}

	s.current = nil
	switch {
	case ev.Err == nil:
		s.queue.Remove(item.ID)
		s.record(item, history.StatusCompleted)
	case !s.queue.Contains(item.ID):
		// Canceled while running; the queue removal already happened.
		s.record(item, history.StatusCanceled)
	default:
		item.FailureCount++
		if item.FailureCount == s.maxFailures {
			s.record(item, history.StatusFailed)
		}
	}
	s.reconcile()
}

// reconcile recomputes the winning item and adjusts the worker slot to
// match. It is the only code path that starts or stops workers.
func (s *Scheduler) reconcile() {
	selected := s.queue.SelectNext(s.maxFailures)
	if s.current != nil {
		if selected == s.current.item || s.current.killed {
			return
		}
		s.interruptCurrent()
		return
	}
	if selected == nil {
		return
	}
	s.start(selected)
}

// interruptCurrent tears down the running worker for a reason that is
// not its own failure. The decrement compensates for the failure charge
// the forced kill will incur, keeping the item's retry budget intact.
func (s *Scheduler) interruptCurrent() {
	s.current.item.FailureCount--
	s.current.killed = true
	s.current.proc.Kill()
}

func (s *Scheduler) start(item *Item) {
	s.lastToken++
	token := s.lastToken
	req := ytdl.DownloadRequest{
		URL:           item.URL,
		Dir:           item.Dir,
		OutputPattern: item.OutputPattern,
		Slow:          item.Slow,
	}
	proc, err := s.tool.Start(req, token, s.events)
	if err != nil {
		item.Log = append(item.Log, "launch failed: "+err.Error()+"\n")
		item.FailureCount++
		if item.FailureCount == s.maxFailures {
			s.record(item, history.StatusFailed)
		}
		s.reconcile()
		return
	}
	s.current = &binding{item: item, proc: proc, token: token}
}

func (s *Scheduler) record(item *Item, status string) {
	if s.history == nil {
		return
	}
	e := history.Entry{
		URL:        item.URL,
		VideoID:    item.VideoID,
		Title:      item.Title,
		Dir:        item.Dir,
		Status:     status,
		Failures:   item.FailureCount,
		QueuedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		FinishedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.history.Record(context.Background(), e); err != nil {
		log.Printf("history record url=%q: %v", item.URL, err)
	}
}

func (s *Scheduler) isRunning(item *Item) bool {
	return s.current != nil && s.current.item == item
}

func (s *Scheduler) view(item *Item) ItemView {
	return toView(item, s.isRunning(item), s.maxFailures)
}
