package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"clickarena/internal/api/handler"
	"clickarena/internal/api/middleware"
	"clickarena/internal/model"
	"clickarena/internal/services/presence"
	"clickarena/internal/services/ranking"
	"clickarena/internal/services/score"
	"clickarena/internal/services/token"
	"clickarena/internal/storage"
	"clickarena/internal/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	TokenService    *token.Service
	ScoreLedger     *score.Ledger
	RankingService  *ranking.Service
	PresenceTracker *presence.Tracker
	Storage         storage.Storage
	Hub             *ws.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.ScoreLedger, cfg.RankingService)
	adminHandler := handler.NewAdminHandler(cfg.Storage, cfg.PresenceTracker)
	liveHandler := ws.NewHandler(cfg.Hub, cfg.TokenService, cfg.PresenceTracker, cfg.ScoreLedger, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.TokenService)
	adminMiddleware := middleware.RequireRole(model.RoleAdmin)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game routes (all require auth)
	game := api.PathPrefix("/game").Subrouter()
	game.Use(authMiddleware)
	game.HandleFunc("/click", gameHandler.Click).Methods(http.MethodPost)
	game.HandleFunc("/rankings", gameHandler.Rankings).Methods(http.MethodGet)

	// The live channel authenticates its own handshake (token query
	// parameter, checked before the upgrade)
	api.Handle("/game/live", liveHandler).Methods(http.MethodGet)

	// Admin routes (auth + admin role)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.Use(adminMiddleware)
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
