package main

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TMHSDigital/2D-Tycoon/internal/api"
	"github.com/TMHSDigital/2D-Tycoon/internal/config"
	"github.com/TMHSDigital/2D-Tycoon/internal/game"
	"github.com/TMHSDigital/2D-Tycoon/internal/save"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadAPIFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	savePath := cfg.SavePath
	if savePath == "" {
		var err error
		savePath, err = save.DefaultPath()
		if err != nil {
			logger.Error("resolve save path failed", "err", err)
			os.Exit(1)
		}
	}

	difficulty, ok := game.DifficultyByName(cfg.Difficulty)
	if !ok {
		logger.Error("unknown difficulty", "name", cfg.Difficulty)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	st := game.NewStateWithDifficulty(rng, difficulty)
	sim := game.NewSimulator(rng)
	if save.Exists(savePath) {
		if err := save.Load(savePath, st); err != nil {
			logger.Warn("ignoring unreadable save file", "path", savePath, "err", err)
		} else {
			sim.Trend = st.MarketTrend
			if key := st.ActiveResearch; key != "" {
				sim.StartResearch(key)
			}
		}
	}

	server := api.New(cfg, logger, st, sim, savePath)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("tycoon api listening", "addr", cfg.Addr, "save", savePath)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
