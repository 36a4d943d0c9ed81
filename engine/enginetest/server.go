// Package enginetest provides an in-memory game server for tests.
package enginetest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"aigo-board/engine/httpapi"
	"aigo-board/types"
)

// Request is one request observed by the server.
type Request struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

type failure struct {
	status int
	body   any
}

// Server mimics the game server's HTTP API. The AI answers every human move
// by taking the first empty cell in column-major order.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	board     types.Snapshot
	requests  []Request
	failures  map[string]failure
	moveGate  chan struct{}
	moveStart chan struct{}
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		board:    *types.NewSnapshot(),
		failures: make(map[string]failure),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get(httpapi.PathGetBoard, s.handleGetBoard)
	r.Post(httpapi.PathUpdateBoard, s.handleUpdateBoard)
	r.Post(httpapi.PathResetBoard, s.handleResetBoard)
	r.Post(httpapi.PathTrigger, s.handleTrigger)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetResult sets the game_result and is_player_turn fields served by /get-board.
func (s *Server) SetResult(result types.GameResult, playerTurn bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.GameResult = result
	s.board.IsPlayerTurn = playerTurn
}

// SetStone places a stone directly on the server board.
func (s *Server) SetStone(col, row int, c types.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Set(col, row, c, true)
}

// Fail makes every request to path answer with status and the JSON body.
// A nil body sends no payload.
func (s *Server) Fail(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, body: body}
}

// HoldMoves makes /update-board block until release is called. started is
// closed once a held move request has arrived.
func (s *Server) HoldMoves() (started <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.moveGate = gate
	s.moveStart = make(chan struct{})
	var once sync.Once
	return s.moveStart, func() { once.Do(func() { close(gate) }) }
}

// Snapshot returns a copy of the server board.
func (s *Server) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// Calls returns how many requests were made to path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Requests returns every request made to path, oldest first.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      body,
			RequestID: r.Header.Get(httpapi.RequestIDHeader),
		})
		f, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if failing {
			writeJSON(w, f.status, f.body)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (s *Server) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	gate, started := s.moveGate, s.moveStart
	s.mu.Unlock()
	if gate != nil {
		close(started)
		<-gate
		s.mu.Lock()
		s.moveGate, s.moveStart = nil, nil
		s.mu.Unlock()
	}

	var req httpapi.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !types.InBounds(req.X, req.Y) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "move out of bounds"})
		return
	}
	if _, ok := s.board.StoneAt(req.X, req.Y); ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "point already occupied"})
		return
	}
	human := types.Color(req.IsWhite)
	s.board.Set(req.X, req.Y, human, true)
	s.playAI(human.Opposite())
	writeJSON(w, http.StatusOK, map[string]any{"message": "stone placed", "board": s.board})
}

func (s *Server) handleResetBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.board = *types.NewSnapshot()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "board reset"})
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsPlayerTurn *int `json:"isPlayerTurn"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsPlayerTurn == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "isPlayerTurn missing"})
		return
	}
	if *req.IsPlayerTurn != 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "player's turn"})
		return
	}
	s.mu.Lock()
	s.playAI(types.Black)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "AI moved"})
}

// playAI must be called with the lock held.
func (s *Server) playAI(c types.Color) {
	for col := 0; col < types.BoardSize; col++ {
		for row := 0; row < types.BoardSize; row++ {
			if _, ok := s.board.StoneAt(col, row); !ok {
				s.board.Set(col, row, c, true)
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
