// Package api exposes one game session over HTTP. It is a thin front-end:
// every handler serializes access to the single State/Simulator pair and
// enforces the begin-act-end day ordering with 409s.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"log/slog"

	"github.com/TMHSDigital/2D-Tycoon/internal/config"
	"github.com/TMHSDigital/2D-Tycoon/internal/game"
	"github.com/TMHSDigital/2D-Tycoon/internal/save"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type dayPhase int

const (
	phaseIdle dayPhase = iota
	phaseActing
)

type Server struct {
	cfg config.APIConfig
	log *slog.Logger
	mux *chi.Mux

	mu       sync.Mutex
	state    *game.State
	sim      *game.Simulator
	savePath string
	phase    dayPhase
}

func New(cfg config.APIConfig, logger *slog.Logger, st *game.State, sim *game.Simulator, savePath string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		mux:      chi.NewRouter(),
		state:    st,
		sim:      sim,
		savePath: savePath,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/research", s.handleResearchList)

		r.Post("/day/begin", s.handleDayBegin)
		r.Post("/day/end", s.handleDayEnd)

		r.Route("/actions", func(r chi.Router) {
			r.Post("/supplies/buy", s.handleBuySupplies)
			r.Post("/work", s.handleWork)
			r.Post("/rest", s.handleRest)
			r.Post("/employees/hire", s.handleHire)
			r.Post("/employees/fire", s.handleFire)
			r.Post("/upgrades/buy", s.handleBuyUpgrade)
			r.Post("/loans/take", s.handleTakeLoan)
			r.Post("/loans/repay", s.handleRepayLoan)
			r.Post("/research/start", s.handleStartResearch)
		})

		r.Post("/save", s.handleSave)
		r.Post("/load", s.handleLoad)
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	status := s.state.Status()
	gameOver := s.state.IsGameOver()
	win := s.state.IsWin()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"game_over": gameOver,
		"win":       win,
	})
}

func (s *Server) handleResearchList(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	active := s.state.ActiveResearch
	completed := append([]string(nil), s.state.CompletedResearch...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"projects":  game.ResearchCatalog(),
		"active":    active,
		"completed": completed,
	})
}

func (s *Server) handleDayBegin(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseIdle {
		writeError(w, http.StatusConflict, "day already in progress")
		return
	}
	if s.state.IsGameOver() {
		writeError(w, http.StatusConflict, "game is over")
		return
	}
	start := game.BeginDay(s.state, s.sim)
	s.phase = phaseActing
	s.log.Info("day started",
		slog.Int("day", s.state.Day),
		slog.Float64("trend", start.Update.Trend),
		slog.Float64("demand", start.Update.Demand))
	writeJSON(w, http.StatusOK, map[string]any{
		"market":             start.Update,
		"competitor_message": start.CompetitorMessage,
		"event":              start.Event,
		"status":             s.state.Status(),
	})
}

func (s *Server) handleDayEnd(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseActing {
		writeError(w, http.StatusConflict, "no day in progress")
		return
	}
	end := game.EndDay(s.state, s.sim)
	s.phase = phaseIdle
	s.log.Info("day ended",
		slog.Int("day", s.state.Day),
		slog.Int("interest", end.Interest))
	writeJSON(w, http.StatusOK, map[string]any{
		"interest":  end.Interest,
		"research":  end.Research,
		"status":    s.state.Status(),
		"game_over": s.state.IsGameOver(),
		"win":       s.state.IsWin(),
	})
}

// withAction runs a player action inside the lock after checking the phase,
// and renders the uniform ok/status envelope.
func (s *Server) withAction(w http.ResponseWriter, run func() (bool, map[string]any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseActing {
		writeError(w, http.StatusConflict, "begin the day before acting")
		return
	}
	ok, extra := run()
	payload := map[string]any{
		"ok":     ok,
		"status": s.state.Status(),
	}
	for k, v := range extra {
		payload[k] = v
	}
	code := http.StatusOK
	if !ok {
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, payload)
}

func (s *Server) handleBuySupplies(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Kind   game.SupplyKind `json:"kind"`
		Amount int             `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withAction(w, func() (bool, map[string]any) {
		return s.state.BuySupplies(in.Kind, in.Amount), nil
	})
}

func (s *Server) handleWork(w http.ResponseWriter, _ *http.Request) {
	s.withAction(w, func() (bool, map[string]any) {
		income := s.state.Work()
		return income > 0, map[string]any{"income": income}
	})
}

func (s *Server) handleRest(w http.ResponseWriter, _ *http.Request) {
	s.withAction(w, func() (bool, map[string]any) {
		gain := s.state.Rest()
		return true, map[string]any{"reputation_gain": gain}
	})
}

func (s *Server) handleHire(w http.ResponseWriter, _ *http.Request) {
	s.withAction(w, func() (bool, map[string]any) {
		return s.state.HireEmployee(), nil
	})
}

func (s *Server) handleFire(w http.ResponseWriter, _ *http.Request) {
	s.withAction(w, func() (bool, map[string]any) {
		return s.state.FireEmployee(), nil
	})
}

func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Kind game.UpgradeKind `json:"kind"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withAction(w, func() (bool, map[string]any) {
		return s.state.PurchaseUpgrade(in.Kind), nil
	})
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withAction(w, func() (bool, map[string]any) {
		ok := s.state.TakeLoan(in.Amount)
		return ok, map[string]any{"safe_amount": s.state.SafeLoanAmount()}
	})
}

func (s *Server) handleRepayLoan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withAction(w, func() (bool, map[string]any) {
		return s.state.RepayLoan(in.Amount), nil
	})
}

func (s *Server) handleStartResearch(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.withAction(w, func() (bool, map[string]any) {
		return game.StartResearch(s.state, s.sim, in.Key), nil
	})
}

func (s *Server) handleSave(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := save.Write(s.savePath, s.state); err != nil {
		s.log.Error("save failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not write save file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "path": s.savePath})
}

func (s *Server) handleLoad(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseIdle {
		writeError(w, http.StatusConflict, "finish the current day before loading")
		return
	}
	if err := save.Load(s.savePath, s.state); err != nil {
		s.log.Error("load failed", slog.String("error", err.Error()))
		writeError(w, http.StatusUnprocessableEntity, "could not load save file")
		return
	}
	s.sim.Trend = s.state.MarketTrend
	// The loaded game replaces the session wholesale, including any project
	// running in the simulator. The save keeps only the project key; a
	// restored project restarts its timer from day zero.
	s.sim.AbandonResearch()
	if key := s.state.ActiveResearch; key != "" {
		s.sim.StartResearch(key)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": s.state.Status()})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
