package web

import (
	"encoding/json"
	"net/http"
	"time"

	"radiator-stock/internal/app"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type saleLinePayload struct {
	RadiatorID  uuid.UUID       `json:"radiator_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createSalePayload struct {
	CustomerID    uuid.UUID         `json:"customer_id"`
	PaymentMethod string            `json:"payment_method"`
	Notes         string            `json:"notes"`
	Items         []saleLinePayload `json:"items"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var payload createSalePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, "invalid request body: "+err.Error(), "INVALID_BODY", http.StatusBadRequest)
		return
	}

	req := app.CreateSaleRequest{
		CustomerID:    payload.CustomerID,
		UserID:        userID,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
	}
	for _, line := range payload.Items {
		req.Items = append(req.Items, app.SaleLineRequest{
			RadiatorID:  line.RadiatorID,
			WarehouseID: line.WarehouseID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	result, err := h.svc.CreateSale(r.Context(), req)
	if err != nil {
		_, code := mapDomainError(err)
		salesFailedTotal.WithLabelValues(code).Inc()
		writeDomainError(w, r, err)
		return
	}
	salesCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, result.Sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sales)
}

func (h *Handler) listSalesByDate(w http.ResponseWriter, r *http.Request) {
	const layout = "2006-01-02"
	from, err := time.Parse(layout, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, r, "invalid or missing from date (YYYY-MM-DD)", "INVALID_DATE", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(layout, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, "invalid or missing to date (YYYY-MM-DD)", "INVALID_DATE", http.StatusBadRequest)
		return
	}
	// Make the range inclusive of the whole `to` day.
	to = to.Add(24*time.Hour - time.Nanosecond)

	result, err := h.svc.ListSalesByDateRange(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sale)
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetReceipt(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Receipt)
}

func (h *Handler) cancelSale(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.CancelSale(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) refundSale(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.RefundSale(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sale)
}
