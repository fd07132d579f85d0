package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/abrezinsky/tinydecisions/internal/backup"
)

// ==================== Public Pages ====================

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.templates.Index.Execute(w, IndexPageData{
		Title:        "Tiny Decisions",
		Themes:       h.themes,
		CoinStyles:   h.Coin.Styles(),
		PlayerColors: h.playerColors,
	})
}

// ==================== Sharing ====================

func (h *Handlers) handleGetShareInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Share.Info(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, info)
}

func (h *Handlers) handleShareQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Share.QRImage(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (h *Handlers) handleUpdateShare(w http.ResponseWriter, r *http.Request) {
	var req ShareUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.BaseURL != nil {
		if err := h.Share.SetBaseURL(r.Context(), *req.BaseURL); err != nil {
			respondError(w, err)
			return
		}
	}
	if req.Enabled != nil {
		if err := h.Share.SetEnabled(r.Context(), *req.Enabled); err != nil {
			respondError(w, err)
			return
		}
	}

	info, err := h.Share.Info(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, info)
}

// ==================== Backup ====================

func (h *Handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Backup.Export(r.Context(), &buf); err != nil {
		respondError(w, err)
		return
	}

	name := fmt.Sprintf("tinydecisions-%s.json.zst", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}

func (h *Handlers) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, backup.MaxDocumentSize)
	result, err := h.Backup.Import(r.Context(), body)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}
