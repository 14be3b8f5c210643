package web

import (
	"net/http"

	"radiator-stock/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds the ApplicationService the routes delegate to.
type Handler struct {
	svc app.ApplicationService
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, exposeMetrics bool) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)
	if exposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/sales", func(r chi.Router) {
		r.Post("/", h.createSale)
		r.Get("/", h.listSales)
		r.Get("/by-date", h.listSalesByDate)
		r.Get("/{id}", h.getSale)
		r.Get("/{id}/receipt", h.getReceipt)
		r.Post("/{id}/cancel", h.cancelSale)
		r.Post("/{id}/refund", h.refundSale)
	})

	r.Route("/api/radiators", func(r chi.Router) {
		r.Post("/", h.createRadiator)
		r.Get("/", h.listRadiators)
		r.Get("/{id}", h.getRadiator)
		r.Put("/{id}", h.updateRadiator)
		r.Delete("/{id}", h.deleteRadiator)
		r.Get("/{id}/stock", h.getStock)
		r.Post("/{id}/stock", h.updateStock)
		r.Get("/{id}/stock/history", h.getStockHistory)
	})

	r.Get("/api/warehouses", h.listWarehouses)
	r.Get("/api/warehouses/{code}", h.getWarehouse)
	r.Get("/api/customers", h.listCustomers)
	r.Get("/api/customers/{id}", h.getCustomer)
	r.Post("/api/customers", h.createCustomer)

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// urlID parses the {id} route parameter as a UUID. On failure it writes a 400
// and returns false.
func urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid id: must be a UUID", "INVALID_ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// actingUser reads the acting user from the X-User-ID header. Authentication
// proper lives in front of this service.
func actingUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get("X-User-ID"))
	if err != nil {
		writeError(w, r, "missing or invalid X-User-ID header", "INVALID_USER", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
