package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ytqueue/ytq/internal/history"
	"github.com/ytqueue/ytq/internal/queue"
)

// Queue is the service surface the API exposes.
type Queue interface {
	Add(ctx context.Context, req queue.AddRequest) (queue.ItemView, error)
	AddPlaylist(ctx context.Context, req queue.PlaylistRequest) ([]queue.ItemView, error)
	List() []queue.ItemView
	Get(id string) (queue.ItemView, error)
	Log(id string) ([]string, error)
	Cancel(id string) error
	TogglePause(id string) (queue.ItemView, error)
	ToggleSlow(id string) (queue.ItemView, error)
	AdjustPriority(id string, delta int) (queue.ItemView, error)
}

// History is the finished-downloads surface; nil hides the endpoints.
type History interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Clear(ctx context.Context) error
}

type ItemView = queue.ItemView

type Server struct {
	Queue   Queue
	History History
	Version string
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/items", s.handleItems)
	mux.HandleFunc("/items/", s.handleItem)
	mux.HandleFunc("/playlist", s.handlePlaylist)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/history/clear", s.handleHistoryClear)
	mux.HandleFunc("/meta", s.handleMeta)
	return mux
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items := s.Queue.List()
		if items == nil {
			items = []queue.ItemView{}
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		var req queue.AddRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		view, err := s.Queue.Add(r.Context(), req)
		if err != nil {
			writeErr(w, statusFor(err), err)
			return
		}
		log.Printf("action=add id=%s url=%q priority=%d", view.ID, view.URL, view.Priority)
		writeJSON(w, http.StatusOK, view)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req queue.PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	views, err := s.Queue.AddPlaylist(r.Context(), req)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	log.Printf("action=playlist url=%q added=%d", req.URL, len(views))
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/items/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id := parts[0]
	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		view, err := s.Queue.Get(id)
		if err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}
	switch parts[1] {
	case "log":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		lines, err := s.Queue.Log(id)
		if err != nil {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		if lines == nil {
			lines = []string{}
		}
		writeJSON(w, http.StatusOK, lines)
	case "cancel":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := s.Queue.Cancel(id); err != nil {
			writeErr(w, statusFor(err), err)
			return
		}
		log.Printf("action=cancel id=%s", id)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case "pause":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		view, err := s.Queue.TogglePause(id)
		if err != nil {
			writeErr(w, statusFor(err), err)
			return
		}
		log.Printf("action=pause id=%s paused=%t", id, view.Paused)
		writeJSON(w, http.StatusOK, view)
	case "slow":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		view, err := s.Queue.ToggleSlow(id)
		if err != nil {
			writeErr(w, statusFor(err), err)
			return
		}
		log.Printf("action=slow id=%s slow=%t", id, view.Slow)
		writeJSON(w, http.StatusOK, view)
	case "priority":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Delta int `json:"delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		view, err := s.Queue.AdjustPriority(id, req.Delta)
		if err != nil {
			writeErr(w, statusFor(err), err)
			return
		}
		log.Printf("action=priority id=%s priority=%d", id, view.Priority)
		writeJSON(w, http.StatusOK, view)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.History == nil {
		writeJSON(w, http.StatusOK, []history.Entry{})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	entries, err := s.History.List(r.Context(), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.History != nil {
		if err := s.History.Clear(r.Context()); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
	}
	log.Printf("action=history_clear")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.Version,
		"items":   len(s.Queue.List()),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, queue.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, queue.ErrMissingURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
