// Package telemetry provides the core's only observability surface: a
// plain stdlib logger for lifecycle events (the teacher carries no
// structured logging framework, so there is nothing in the corpus to
// reach for beyond "log") and a small gorilla/mux diagnostics server for
// liveness and last-known-state inspection.
package telemetry

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/mux"

	"pacbot/game"
)

// Logger wraps the standard library logger with the lifecycle events the
// three cooperative tasks report: connects, disconnects, emitted actions,
// exhausted frontiers, and dropped malformed updates.
type Logger struct {
	*log.Logger
}

// NewLogger returns a Logger writing to stderr with a timestamped prefix.
func NewLogger() *Logger {
	return &Logger{log.New(os.Stderr, "pacbotd: ", log.LstdFlags|log.Lmicroseconds)}
}

func (l *Logger) Connected()            { l.Println("arbiter connected") }
func (l *Logger) Disconnected(err error) { l.Printf("arbiter disconnected: %v", err) }
func (l *Logger) ActionEmitted(a game.Action) {
	l.Printf("emitted action dir=%v distance=%d target=(%d,%d) wait=%d",
		a.Direction, a.Distance, a.TargetRow, a.TargetCol, a.WaitTicks)
}
func (l *Logger) FrontierExhausted() { l.Println("planner frontier exhausted, falling back to best-seen node") }
func (l *Logger) MalformedUpdateDropped() { l.Println("dropped malformed update frame") }

// snapshot is the JSON-facing summary of a GameState; it exists because
// GameState itself is not safe to marshal directly (the pellet bitmap and
// internal lock/queue fields aren't meant for a diagnostics consumer).
type snapshot struct {
	CurrTicks uint16 `json:"currTicks"`
	GameMode  string `json:"gameMode"`
	Score     uint16 `json:"score"`
	Lives     uint8  `json:"lives"`
	Pellets   int    `json:"pelletsRemaining"`
	PacmanRow int8   `json:"pacmanRow"`
	PacmanCol int8   `json:"pacmanCol"`
}

// Server exposes /healthz and /state over HTTP for external inspection.
// Observe takes the state's own lock just long enough to copy out the
// scalar fields a diagnostics consumer cares about, and /state serves only
// that copy, so it can only ever see a complete, consistent snapshot. The
// Server also keeps the last observed *game.GameState, from which /healthz
// reads only the concurrency-safe Connected and Locked.
type Server struct {
	mu   sync.Mutex
	last *snapshot
	gs   *game.GameState
}

// NewServer builds a diagnostics Server; Router builds its mux.Router.
func NewServer() *Server {
	return &Server{}
}

// Observe takes s's own lock to copy out a consistent snapshot of the
// fields /state reports, then caches it. /healthz's connected/locked status
// is read live off s instead (GameState.Connected/Locked are themselves
// safe for concurrent use), since those should reflect the instant of the
// request rather than the last periodic observation.
func (srv *Server) Observe(s *game.GameState) {
	srv.mu.Lock()
	srv.gs = s
	srv.mu.Unlock()

	s.Lock()
	snap := snapshot{
		CurrTicks: s.CurrTicks,
		GameMode:  s.GameMode.String(),
		Score:     s.CurrScore,
		Lives:     s.CurrLives,
		Pellets:   s.NumPellets(),
		PacmanRow: s.PacmanLoc.Row,
		PacmanCol: s.PacmanLoc.Col,
	}
	s.Unlock()

	srv.mu.Lock()
	srv.last = &snap
	srv.mu.Unlock()
}

// Router returns the mux.Router serving this Server's diagnostics routes.
func (srv *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", srv.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/state", srv.handleState).Methods(http.MethodGet)
	return r
}

func (srv *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	srv.mu.Lock()
	s, last := srv.gs, srv.last
	srv.mu.Unlock()

	var connected, locked bool
	var currTicks uint16
	if s != nil {
		connected = s.Connected()
		locked = s.Locked()
	}
	if last != nil {
		currTicks = last.CurrTicks
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"connected": connected,
		"locked":    locked,
		"currTicks": currTicks,
	})
}

func (srv *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	srv.mu.Lock()
	snap := srv.last
	srv.mu.Unlock()

	if snap == nil {
		http.Error(w, "no state observed yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
