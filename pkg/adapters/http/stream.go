package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/travspan/internal/logging"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamManager fans step events out to Server-Sent Events subscribers, per run.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates a StreamManager. Install its Hooks on the engines to feed it.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a buffered channel for runID and returns it with its cancel func.
func (sm *StreamManager) Subscribe(runID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 64)
	if _, ok := sm.subscribers[runID]; !ok {
		sm.subscribers[runID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[runID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[runID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, runID)
				}
			}
		})
	}
}

// Broadcast sends msg to every subscriber of runID. Slow subscribers lose messages.
func (sm *StreamManager) Broadcast(runID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[runID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "run_id", runID)
		}
	}
}

// Hooks broadcasts every step and finish event as JSON to the subscribers of the run.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	send := func(run string, v any) {
		if run == "" {
			return
		}
		b, err := json.Marshal(v)
		if err != nil {
			sm.logger.Error("SSE: encode failed", "error", err)
			return
		}
		sm.Broadcast(run, string(b))
	}
	return domain.LifecycleHooks{
		OnStep:   func(_ context.Context, e *domain.StepEvent) { send(e.Run, e) },
		OnFinish: func(_ context.Context, e *domain.RunEvent) { send(e.Run, e) },
	}
}

// SubscribeEvents handles GET /runs/{id}/events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, fmt.Errorf("streaming not supported"))
		return
	}
	runID := chi.URLParam(r, "id")
	if _, err := s.Runs.Snapshot(r.Context(), runID); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(runID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
