// apps/go-solver/internal/httpserver/server.go
//
// HTTP wiring for the solver API (`serve` mode).
// Responsibilities:
//   - Router + middleware (JSON, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Session endpoints: POST /session/new, POST /session/feedback.
//   - Daily puzzle endpoint: GET /daily.
//
// Notes:
//   - One immutable candidate universe is loaded at startup and shared by
//     every session; sessions hold their own filtered-down live sets in the
//     store and never touch the universe.
//   - The estimator's rand source is guarded by a mutex: handlers run
//     concurrently but suggestion sampling shares one stream so a fixed seed
//     stays meaningful in tests.

package httpserver

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/daily"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/mask"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/session"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/solver"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/store"
)

// Config carries the server tunables.
type Config struct {
	SampleSize   int
	PreviewLimit int
	DailySalt    string
	Seed         int64 // non-zero pins the estimator's sampling
}

// Server bundles router, session store, and the shared universe.
type Server struct {
	r        *chi.Mux
	store    store.Store
	universe *candidates.Set
	cfg      Config

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, universe *candidates.Set, cfg Config) *Server {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = solver.DefaultSampleSize
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = session.DefaultPreviewLimit
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		universe: universe,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // entropy scans over big universes take a while
	s.r.Use(jsonContentType)                 // default JSON responses

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"nerdle-solver","endpoints":["/health","POST /session/new","POST /session/feedback","GET /daily"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/session/new", s.handleNewSession)
	s.r.Post("/session/feedback", s.handleFeedback)
	s.r.Get("/daily", s.handleDaily)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// suggest runs the estimator over one live set, serializing rng access.
func (s *Server) suggest(live *candidates.Set) (solver.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return solver.BestGuess(live, s.cfg.SampleSize, s.rng)
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ----------------------------- sessions ------------------------------------

type sessionRes struct {
	SessionID  string             `json:"sessionId"`
	State      string             `json:"state"` // "solving" | "solved" | "exhausted"
	Remaining  int                `json:"remaining"`
	Length     int                `json:"length"`
	Solution   string             `json:"solution,omitempty"`
	Suggestion *solver.Suggestion `json:"suggestion,omitempty"`
	Preview    []string           `json:"preview,omitempty"`
	Truncated  bool               `json:"truncated"`
}

// handleNewSession opens a session over the full universe and returns the
// first suggestion.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	sv := &store.Solve{
		ID:      store.NewID(),
		Live:    s.universe,
		Created: time.Now().UTC(),
	}
	if err := s.store.Save(r.Context(), sv); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	res, err := s.sessionState(sv)
	if err != nil {
		log.Error().Err(err).Str("sessionId", sv.ID).Msg("suggest")
		http.Error(w, `{"error":"suggest_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

type feedbackReq struct {
	SessionID string `json:"sessionId"`
	Guess     string `json:"guess"` // s and c accepted for ² and ³
	Mask      string `json:"mask"`  // G/2, P/1, B/0 per position
}

// handleFeedback applies one observed (guess, mask) pair to a session and
// returns the shrunken state plus the next suggestion.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sv, err := s.store.Get(r.Context(), req.SessionID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	guess := mask.NormalizeGuess(req.Guess)
	if err := mask.ValidateGuess(guess, s.universe.Length()); err != nil {
		http.Error(w, `{"error":"bad_guess","detail":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	observed, err := mask.Parse(req.Mask, s.universe.Length())
	if err != nil {
		http.Error(w, `{"error":"bad_mask","detail":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	live, err := sv.Live.Filter(guess, observed)
	if err != nil {
		log.Error().Err(err).Str("sessionId", sv.ID).Msg("filter")
		http.Error(w, `{"error":"filter_failed"}`, http.StatusInternalServerError)
		return
	}
	sv.Live = live
	sv.Steps = append(sv.Steps, session.Step{Guess: guess, Mask: observed})
	if err := s.store.Save(r.Context(), sv); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	res, err := s.sessionState(sv)
	if err != nil {
		log.Error().Err(err).Str("sessionId", sv.ID).Msg("suggest")
		http.Error(w, `{"error":"suggest_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// sessionState renders the common response shape for a session.
func (s *Server) sessionState(sv *store.Solve) (sessionRes, error) {
	res := sessionRes{
		SessionID: sv.ID,
		State:     "solving",
		Remaining: sv.Live.Len(),
		Length:    s.universe.Length(),
	}
	switch sv.Live.Len() {
	case 0:
		res.State = "exhausted"
		return res, nil
	case 1:
		res.State = "solved"
		res.Solution = sv.Live.At(0)
	}
	sugg, err := s.suggest(sv.Live)
	if err != nil {
		return res, err
	}
	res.Suggestion = &sugg
	res.Preview, res.Truncated = sv.Live.Preview(s.cfg.PreviewLimit)
	return res, nil
}

// ------------------------------ daily --------------------------------------

type dailyRes struct {
	Date     string `json:"date"`
	Index    int    `json:"index"`
	Equation string `json:"equation"`
	Options  int    `json:"options"`
}

// handleDaily returns the deterministic puzzle for a date (default: today).
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		var err error
		date, err = time.Parse("2006-01-02", q)
		if err != nil {
			http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
			return
		}
	}
	idx := daily.EquationIndex(date, s.cfg.DailySalt, s.universe.Len())
	_ = json.NewEncoder(w).Encode(dailyRes{
		Date:     daily.DateKey(date),
		Index:    idx,
		Equation: s.universe.At(idx),
		Options:  s.universe.Len(),
	})
}
