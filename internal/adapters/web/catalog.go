package web

import (
	"encoding/json"
	"net/http"

	"radiator-stock/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type radiatorPayload struct {
	Code               string              `json:"code"`
	Brand              string              `json:"brand"`
	Name               string              `json:"name"`
	Year               int                 `json:"year"`
	RetailPrice        decimal.Decimal     `json:"retail_price"`
	TradePrice         decimal.NullDecimal `json:"trade_price"`
	CostPrice          decimal.NullDecimal `json:"cost_price"`
	IsPriceOverridable bool                `json:"is_price_overridable"`
	MaxDiscountPercent decimal.NullDecimal `json:"max_discount_percent"`
}

func (p radiatorPayload) toRequest() app.RadiatorRequest {
	return app.RadiatorRequest{
		Code:               p.Code,
		Brand:              p.Brand,
		Name:               p.Name,
		Year:               p.Year,
		RetailPrice:        p.RetailPrice,
		TradePrice:         p.TradePrice,
		CostPrice:          p.CostPrice,
		IsPriceOverridable: p.IsPriceOverridable,
		MaxDiscountPercent: p.MaxDiscountPercent,
	}
}

func (h *Handler) createRadiator(w http.ResponseWriter, r *http.Request) {
	var payload radiatorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, "invalid request body: "+err.Error(), "INVALID_BODY", http.StatusBadRequest)
		return
	}
	result, err := h.svc.CreateRadiator(r.Context(), payload.toRequest())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Radiator)
}

func (h *Handler) getRadiator(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetRadiator(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Radiator)
}

func (h *Handler) listRadiators(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListRadiators(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Radiators)
}

func (h *Handler) updateRadiator(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var payload radiatorPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, "invalid request body: "+err.Error(), "INVALID_BODY", http.StatusBadRequest)
		return
	}
	result, err := h.svc.UpdateRadiator(r.Context(), id, payload.toRequest())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Radiator)
}

func (h *Handler) deleteRadiator(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteRadiator(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListWarehouses(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Warehouses)
}

func (h *Handler) getWarehouse(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetWarehouseByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Warehouse)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Customer)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Customers)
}

type createCustomerPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Address   string `json:"address"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var payload createCustomerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, "invalid request body: "+err.Error(), "INVALID_BODY", http.StatusBadRequest)
		return
	}
	if payload.FirstName == "" || payload.LastName == "" {
		writeError(w, r, "first_name and last_name are required", "INVALID_BODY", http.StatusBadRequest)
		return
	}
	result, err := h.svc.CreateCustomer(r.Context(), app.CreateCustomerRequest{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Company:   payload.Company,
		Address:   payload.Address,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Customer)
}
