// Package authoritytest serves a scripted authority over HTTP for tests.
package authoritytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jask/wordrack/internal/authority"
	"github.com/jask/wordrack/internal/game"
)

// Server is an in-process authority. Responses are popped from per-endpoint
// scripts; when a script is empty a benign default is returned.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	state     game.Snapshot
	plays     []authority.PlayResult
	passes    []authority.PassResult
	moves     []authority.OpponentMove
	failState bool
	failSwap  bool
	failReset bool
	hits      map[string]int
	played    []authority.PlayRequest
	exchanged [][]string
	hold      chan struct{}
	holdPath  string
}

// New starts a server seeded with an empty 15×15 board.
func New() *Server {
	s := &Server{state: EmptySnapshot(game.BoardSize), hits: map[string]int{}}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.count)
	r.Get("/api/estado", s.handleState)
	r.Post("/api/jugada", s.handlePlay)
	r.Post("/api/pasar", s.handlePass)
	r.Post("/api/ia_juega", s.handleOpponent)
	r.Post("/api/cambiar_fichas", s.handleExchange)
	r.Post("/api/reiniciar", s.handleRestart)

	s.Server = httptest.NewServer(r)
	return s
}

// EmptySnapshot builds a size×size board with the centre marked as a double word.
func EmptySnapshot(size int) game.Snapshot {
	board := make([][]game.Cell, size)
	for r := range board {
		board[r] = make([]game.Cell, size)
	}
	board[size/2][size/2].Bonus = game.DoubleWord
	return game.Snapshot{
		Board:        board,
		Rack:         []string{"C", "A", "S", "A", "LL", "E", "O"},
		BagRemaining: 86,
	}
}

func (s *Server) SetState(snap game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snap
}

func (s *Server) QueuePlay(res authority.PlayResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays = append(s.plays, res)
}

func (s *Server) QueuePass(res authority.PassResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes = append(s.passes, res)
}

func (s *Server) QueueOpponent(m authority.OpponentMove) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves = append(s.moves, m)
}

// FailState makes GET /api/estado answer 500.
func (s *Server) FailState(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failState = fail
}

// FailExchange makes POST /api/cambiar_fichas answer 500.
func (s *Server) FailExchange(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSwap = fail
}

// FailRestart makes POST /api/reiniciar answer 500.
func (s *Server) FailRestart(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReset = fail
}

// Hold blocks requests to path until the returned func is called.
func (s *Server) Hold(path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.hold, s.holdPath = ch, path
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Played returns the play requests received so far.
func (s *Server) Played() []authority.PlayRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]authority.PlayRequest(nil), s.played...)
}

// Exchanged returns the letter lists received by the exchange endpoint.
func (s *Server) Exchanged() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.exchanged...)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		hold, holdPath := s.hold, s.holdPath
		s.mu.Unlock()
		if hold != nil && holdPath == r.URL.Path {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type wireCell struct {
	Letter *string `json:"letra"`
	Bonus  *string `json:"bono"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap, fail := s.state, s.failState
	s.mu.Unlock()
	if fail {
		http.Error(w, `{"error":"unavailable"}`, http.StatusInternalServerError)
		return
	}
	board := make([][]wireCell, len(snap.Board))
	for r, row := range snap.Board {
		board[r] = make([]wireCell, len(row))
		for c, cell := range row {
			if cell.Letter != "" {
				l := cell.Letter
				board[r][c].Letter = &l
			}
			if cell.Bonus != game.BonusNone {
				b := string(cell.Bonus)
				board[r][c].Bonus = &b
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tablero":        board,
		"atril":          snap.Rack,
		"puntos_usuario": snap.UserScore,
		"puntos_cpu":     snap.OpponentScore,
		"bolsa_restante": snap.BagRemaining,
	})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req authority.PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.played = append(s.played, req)
	res := authority.PlayResult{Status: authority.StatusSuccess, Points: 1}
	if len(s.plays) > 0 {
		res, s.plays = s.plays[0], s.plays[1:]
	}
	s.mu.Unlock()

	if !res.Accepted() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": res.Status, "mensaje": res.Message})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": res.Status, "puntos": res.Points})
}

func (s *Server) handlePass(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	res := authority.PassResult{Status: authority.StatusSuccess}
	if len(s.passes) > 0 {
		res, s.passes = s.passes[0], s.passes[1:]
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOpponent(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	m := authority.OpponentMove{Status: authority.StatusSuccess, Action: authority.ActionExchange, Message: "CPU cambió fichas"}
	if len(s.moves) > 0 {
		m, s.moves = s.moves[0], s.moves[1:]
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Letters []string `json:"fichas"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	fail := s.failSwap
	if !fail {
		s.exchanged = append(s.exchanged, body.Letters)
	}
	s.mu.Unlock()
	if fail {
		http.Error(w, `{"error":"exchange failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": authority.StatusSuccess})
}

func (s *Server) handleRestart(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	fail := s.failReset
	if !fail {
		s.state = EmptySnapshot(game.BoardSize)
	}
	s.mu.Unlock()
	if fail {
		http.Error(w, `{"error":"restart failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": authority.StatusSuccess})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
