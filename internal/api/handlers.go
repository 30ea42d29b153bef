package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reactor/internal/game"
	"reactor/internal/save"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	writeJSON(w, map[string]interface{}{
		"tickIndex":        snap.TickIndex,
		"paused":           snap.Paused,
		"money":            snap.Resources.Money,
		"power":            snap.Resources.Power,
		"heat":             snap.Resources.Heat,
		"maxPowerCapacity": snap.MaxPowerCapacity,
		"maxHeatCapacity":  snap.MaxHeatCapacity,
		"componentCount":   len(snap.Components),
		"prestigeEP":       snap.PrestigeEP,
		"tickDeltas":       snap.Resources.TickDeltas,
	})
}

func (h *routerHandlers) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.CatalogEntries())
}

type coordRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (h *routerHandlers) handlePlaceComponent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		coordRequest
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		writeError(w, "Component name is required", http.StatusBadRequest)
		return
	}

	coord := game.GridCoord{X: req.X, Y: req.Y, Z: req.Z}
	if err := h.engine.Place(coord, req.Name); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleRemoveComponent(w http.ResponseWriter, r *http.Request) {
	var req coordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	coord := game.GridCoord{X: req.X, Y: req.Y, Z: req.Z}
	if err := h.engine.Remove(coord); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handlePause(w http.ResponseWriter, r *http.Request) {
	h.engine.SetPaused(true)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleResume(w http.ResponseWriter, r *http.Request) {
	h.engine.SetPaused(false)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleSellPower(w http.ResponseWriter, r *http.Request) {
	gained := h.engine.SellAllPower()
	writeJSON(w, map[string]float64{"gained": gained})
}

func (h *routerHandlers) handleVentHeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Amount <= 0 {
		writeError(w, "Amount must be positive", http.StatusBadRequest)
		return
	}

	vented := h.engine.VentHeat(req.Amount)
	writeJSON(w, map[string]float64{"vented": vented})
}

func (h *routerHandlers) uiState() save.UIState {
	h.uiMu.Lock()
	defer h.uiMu.Unlock()
	return h.ui
}

func (h *routerHandlers) setUIState(ui save.UIState) {
	h.uiMu.Lock()
	defer h.uiMu.Unlock()
	h.ui = ui
}

// exportPayload projects the current state into the base64 transport
// form, atomically with respect to the tick loop. The last imported
// presentation fields are carried back out unchanged.
func (h *routerHandlers) exportPayload() (string, error) {
	ui := h.uiState()
	var payload string
	var err error
	h.engine.WithSimulation(func(sim *game.Simulation) {
		payload, err = save.ExportBase64(save.FromSimulationWithUI(sim, ui))
	})
	return payload, err
}

func (h *routerHandlers) handleExportSave(w http.ResponseWriter, r *http.Request) {
	payload, err := h.exportPayload()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"payload": payload})
}

func (h *routerHandlers) handleImportSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Payload string `json:"payload"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	data, err := save.ImportBase64(req.Payload)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var applyErr error
	h.engine.WithSimulation(func(sim *game.Simulation) {
		applyErr = save.Apply(sim, data)
	})
	if applyErr != nil {
		writeError(w, applyErr.Error(), http.StatusInternalServerError)
		return
	}
	h.setUIState(data.UIState())

	log.Printf("💾 Save imported (%d components, tick %d)", len(data.Components), data.TotalTicks)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleListSlots(w http.ResponseWriter, r *http.Request) {
	metas, err := h.slots.List(r.Context())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if metas == nil {
		metas = []save.SlotMeta{}
	}
	writeJSON(w, metas)
}

func (h *routerHandlers) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "Slot name is required", http.StatusBadRequest)
		return
	}

	payload, err := h.exportPayload()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	meta, err := h.slots.Put(r.Context(), req.Name, payload)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("💾 Saved slot %q (%s)", meta.Name, meta.ID)
	writeJSON(w, meta)
}

func (h *routerHandlers) handleGetSlot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	meta, payload, err := h.slots.Get(r.Context(), id)
	if errors.Is(err, save.ErrSlotNotFound) {
		writeError(w, "Slot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"meta":    meta,
		"payload": payload,
	})
}

func (h *routerHandlers) handleLoadSlot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	meta, payload, err := h.slots.Get(r.Context(), id)
	if errors.Is(err, save.ErrSlotNotFound) {
		writeError(w, "Slot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := save.ImportBase64(payload)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var applyErr error
	h.engine.WithSimulation(func(sim *game.Simulation) {
		applyErr = save.Apply(sim, data)
	})
	if applyErr != nil {
		writeError(w, applyErr.Error(), http.StatusInternalServerError)
		return
	}
	h.setUIState(data.UIState())

	log.Printf("💾 Loaded slot %q (%s)", meta.Name, meta.ID)
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.slots.Delete(r.Context(), id)
	if errors.Is(err, save.ErrSlotNotFound) {
		writeError(w, "Slot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
