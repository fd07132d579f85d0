package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Pages, static files and the live feed need the full server
	if h.templates != nil {
		r.Get("/", h.handleIndex)
	}
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Presets and status
	r.Get("/api/themes", h.handleGetThemes)
	r.Get("/api/coin/styles", h.handleGetCoinStyles)
	r.Get("/api/status", h.handleGetStatus)

	// Wheels
	r.Get("/api/wheels", h.handleListWheels)
	r.Post("/api/wheels", h.handleCreateWheel)
	r.Get("/api/wheels/{id}", h.handleGetWheel)
	r.Put("/api/wheels/{id}", h.handleUpdateWheel)
	r.Delete("/api/wheels/{id}", h.handleDeleteWheel)
	r.Post("/api/wheels/{id}/options", h.handleAddOption)
	r.Post("/api/wheels/{id}/options/batch", h.handleBatchAddOptions)
	r.Put("/api/wheels/{id}/options/{optionID}", h.handleUpdateOption)
	r.Delete("/api/wheels/{id}/options/{optionID}", h.handleDeleteOption)
	r.Put("/api/wheels/{id}/settings", h.handleUpdateWheelSettings)
	r.Get("/api/wheels/{id}/segments", h.handleGetSegments)
	r.Get("/api/wheels/{id}/wheel.svg", h.handleWheelSVG)
	r.Post("/api/wheels/{id}/spin", h.handleSpin)
	r.Post("/api/wheels/{id}/reset-drawn", h.handleResetDrawn)
	r.Get("/api/wheels/{id}/history", h.handleWheelHistory)

	// Coin
	r.Get("/api/coin", h.handleGetCoin)
	r.Post("/api/coin/flip", h.handleFlipCoin)
	r.Put("/api/coin/style", h.handleSetCoinStyle)
	r.Delete("/api/coin/stats", h.handleResetCoinStats)
	r.Delete("/api/coin/history", h.handleClearCoinHistory)

	// Numbers
	r.Get("/api/numbers", h.handleGetNumbers)
	r.Put("/api/numbers/config", h.handleUpdateNumberConfig)
	r.Post("/api/numbers/generate", h.handleGenerateNumbers)
	r.Delete("/api/numbers/history", h.handleClearNumberHistory)

	// Finger roulette
	r.Get("/api/finger", h.handleGetFinger)
	r.Post("/api/finger/players", h.handleAddPlayer)
	r.Delete("/api/finger/players", h.handleClearPlayers)
	r.Put("/api/finger/players/{id}", h.handleRenamePlayer)
	r.Delete("/api/finger/players/{id}", h.handleRemovePlayer)
	r.Put("/api/finger/config", h.handleUpdateFingerConfig)
	r.Post("/api/finger/select", h.handleSelectFingers)
	r.Delete("/api/finger/history", h.handleClearFingerHistory)

	// Sharing
	r.Get("/api/share", h.handleGetShareInfo)
	r.Get("/api/share-qr", h.handleShareQR)

	// Auth routes (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		r.Put("/api/admin/share", h.handleUpdateShare)
		r.Get("/api/admin/export", h.handleExport)
		r.Post("/api/admin/import", h.handleImport)
	})

	return r
}
