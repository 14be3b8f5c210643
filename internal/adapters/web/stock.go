package web

import (
	"encoding/json"
	"net/http"

	"radiator-stock/internal/app"
)

type updateStockPayload struct {
	WarehouseCode string `json:"warehouse_code"`
	Quantity      int    `json:"quantity"`
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetStock(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stock": result.Stock})
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var payload updateStockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, "invalid request body: "+err.Error(), "INVALID_BODY", http.StatusBadRequest)
		return
	}
	if payload.Quantity < 0 {
		writeError(w, r, "quantity cannot be negative", "INVALID_QUANTITY", http.StatusBadRequest)
		return
	}

	err := h.svc.UpdateStock(r.Context(), app.UpdateStockRequest{
		RadiatorID:    id,
		WarehouseCode: payload.WarehouseCode,
		Quantity:      payload.Quantity,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	stockUpdatesTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) getStockHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetStockHistory(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Movements)
}
