package handlers

import (
	"net/http"

	"github.com/abrezinsky/tinydecisions/internal/models"
)

// ==================== Coin ====================

func (h *Handlers) handleGetCoin(w http.ResponseWriter, r *http.Request) {
	state, err := h.Coin.State(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleGetCoinStyles(w http.ResponseWriter, r *http.Request) {
	respondOK(w, CoinStylesResponse{Styles: h.Coin.Styles()})
}

func (h *Handlers) handleFlipCoin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Coin.Flip(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondDraw(w, result.State, result)
}

func (h *Handlers) handleSetCoinStyle(w http.ResponseWriter, r *http.Request) {
	var req CoinStyleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	style, err := h.Coin.SetStyle(r.Context(), req.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, style)
}

func (h *Handlers) handleResetCoinStats(w http.ResponseWriter, r *http.Request) {
	if err := h.Coin.ResetStats(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleClearCoinHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Coin.ClearHistory(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Numbers ====================

func (h *Handlers) handleGetNumbers(w http.ResponseWriter, r *http.Request) {
	state, err := h.Numbers.State(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleUpdateNumberConfig(w http.ResponseWriter, r *http.Request) {
	var req models.RandomNumberConfig
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	cfg, err := h.Numbers.UpdateConfig(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, cfg)
}

// handleGenerateNumbers draws with the saved config, or with the config in
// the request body when one is given
func (h *Handlers) handleGenerateNumbers(w http.ResponseWriter, r *http.Request) {
	var req models.RandomNumberConfig
	present, err := decodeOptionalJSON(r, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	var override *models.RandomNumberConfig
	if present {
		override = &req
	}

	item, err := h.Numbers.Generate(r.Context(), override)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, item)
}

func (h *Handlers) handleClearNumberHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Numbers.ClearHistory(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Finger Roulette ====================

func (h *Handlers) handleGetFinger(w http.ResponseWriter, r *http.Request) {
	state, err := h.Finger.State(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, state)
}

func (h *Handlers) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	player, err := h.Finger.AddPlayer(req.Position, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, player)
}

func (h *Handlers) handleRenamePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req PlayerRenameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	player, err := h.Finger.RenamePlayer(id, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, player)
}

func (h *Handlers) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Finger.RemovePlayer(id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleClearPlayers(w http.ResponseWriter, r *http.Request) {
	if err := h.Finger.ClearPlayers(); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleUpdateFingerConfig(w http.ResponseWriter, r *http.Request) {
	var req models.FingerRouletteConfig
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	cfg, err := h.Finger.UpdateConfig(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, cfg)
}

func (h *Handlers) handleSelectFingers(w http.ResponseWriter, r *http.Request) {
	result, err := h.Finger.Select(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondDraw(w, result.State, result)
}

func (h *Handlers) handleClearFingerHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Finger.ClearHistory(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
