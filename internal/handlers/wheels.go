package handlers

import (
	"net/http"

	"github.com/abrezinsky/tinydecisions/internal/services"
)

// ==================== Presets ====================

func (h *Handlers) handleGetThemes(w http.ResponseWriter, r *http.Request) {
	respondOK(w, ThemesResponse{Themes: h.themes})
}

func (h *Handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	respondOK(w, h.Status.Status())
}

// ==================== Wheels ====================

func (h *Handlers) handleListWheels(w http.ResponseWriter, r *http.Request) {
	wheels, err := h.Wheels.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wheels)
}

func (h *Handlers) handleCreateWheel(w http.ResponseWriter, r *http.Request) {
	var req WheelCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	wheel, err := h.Wheels.Create(r.Context(), req.Title)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, wheel)
}

func (h *Handlers) handleGetWheel(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	wheel, err := h.Wheels.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wheel)
}

func (h *Handlers) handleUpdateWheel(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req WheelUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	wheel, err := h.Wheels.Update(r.Context(), id, services.WheelUpdate{
		Title:   req.Title,
		Emoji:   req.Emoji,
		ThemeID: req.ThemeID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wheel)
}

func (h *Handlers) handleDeleteWheel(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Wheels.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Options ====================

func (h *Handlers) handleAddOption(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req OptionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	opt, err := h.Wheels.AddOption(r.Context(), id, req.Label)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, opt)
}

func (h *Handlers) handleBatchAddOptions(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req OptionBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	opts, err := h.Wheels.BatchAddOptions(r.Context(), id, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, OptionsResponse{Options: opts})
}

func (h *Handlers) handleUpdateOption(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	optionID, err := requireParam(r, "optionID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req OptionUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	opt, err := h.Wheels.UpdateOption(r.Context(), id, optionID, services.OptionUpdate{
		Label:  req.Label,
		Weight: req.Weight,
		Color:  req.Color,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, opt)
}

func (h *Handlers) handleDeleteOption(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	optionID, err := requireParam(r, "optionID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Wheels.DeleteOption(r.Context(), id, optionID); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleUpdateWheelSettings(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req WheelSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	wheel, err := h.Wheels.UpdateSettings(r.Context(), id, services.SettingsUpdate{
		AllowDuplicateResults: req.AllowDuplicateResults,
		HideWeights:           req.HideWeights,
		RepeatOptionsToFill:   req.RepeatOptionsToFill,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wheel)
}

// ==================== Spinning ====================

func (h *Handlers) handleGetSegments(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	layout, err := h.Wheels.Segments(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, layout)
}

func (h *Handlers) handleSpin(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Wheels.Spin(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondDraw(w, result.State, result)
}

func (h *Handlers) handleResetDrawn(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	wheel, err := h.Wheels.ResetDrawn(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, wheel)
}

func (h *Handlers) handleWheelHistory(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	limit, err := parseIntQuery(r, "limit", services.DefaultHistoryLimit)
	if err != nil {
		respondError(w, err)
		return
	}

	history, err := h.Wheels.History(r.Context(), id, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, WheelHistoryResponse{WheelID: id, History: history})
}

// respondDraw answers a draw trigger: 202 while the result waits for its
// reveal, 200 once it is resolved or when the tool was busy
func respondDraw(w http.ResponseWriter, state string, data interface{}) {
	if state == services.StatePending {
		respondAccepted(w, data)
		return
	}
	respondOK(w, data)
}
