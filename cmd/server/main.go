package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/tablestakes/ledger/internal/config"
	"github.com/tablestakes/ledger/internal/server"
	"github.com/tablestakes/ledger/internal/service"
	"github.com/tablestakes/ledger/internal/storage/sqlite"
	"github.com/tablestakes/ledger/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	srv := server.New(
		service.NewLedgerService(store),
		service.NewSettlementService(store),
		service.NewGameService(store),
	)

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
