package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/lmercier/giftpool/internal/api"
	"github.com/lmercier/giftpool/internal/auth"
	"github.com/lmercier/giftpool/internal/config"
	"github.com/lmercier/giftpool/internal/storage/sqlite"
	"github.com/lmercier/giftpool/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	server := api.New(store, jwtManager, cfg.CORSOrigins)

	slog.Info("Server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server.Handler()); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
