package httppresentation

import (
	"net/http"

	appCatalog "github.com/cymelle/backend/internal/application/catalog"
	appOrder "github.com/cymelle/backend/internal/application/order"
	appRide "github.com/cymelle/backend/internal/application/ride"
	domainCatalog "github.com/cymelle/backend/internal/domain/catalog"
	domainOrder "github.com/cymelle/backend/internal/domain/order"
	domainRide "github.com/cymelle/backend/internal/domain/ride"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Handler struct {
	orders   *appOrder.Service
	rides    *appRide.Service
	products *appCatalog.Service
	log      *zap.Logger

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHandler(
	orders *appOrder.Service,
	rides *appRide.Service,
	products *appCatalog.Service,
	logger *zap.Logger,
	requests *prometheus.CounterVec,
	duration *prometheus.HistogramVec,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		orders:   orders,
		rides:    rides,
		products: products,
		log:      logger.With(zap.String("component", "http_server")),
		requests: requests,
		duration: duration,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.handle(mux, "POST /api/v1/orders", capOrderPlace, h.placeOrder)
	h.handle(mux, "GET /api/v1/orders", capOrderRead, h.listOrders)
	h.handle(mux, "GET /api/v1/orders/{id}", capOrderRead, h.getOrder)
	h.handle(mux, "PATCH /api/v1/orders/{id}/status", capOrderSetStatus, h.updateOrderStatus)

	h.handle(mux, "POST /api/v1/rides", capRideRequest, h.requestRide)
	h.handle(mux, "GET /api/v1/rides", capRideRead, h.listRides)
	h.handle(mux, "GET /api/v1/rides/{id}", capRideRead, h.getRide)
	h.handle(mux, "PATCH /api/v1/rides/{id}/status", capRideSetStatus, h.updateRideStatus)

	h.handle(mux, "GET /api/v1/products", capProductRead, h.listProducts)
	h.handle(mux, "GET /api/v1/products/{id}", capProductRead, h.getProduct)
	h.handle(mux, "POST /api/v1/products", capProductWrite, h.createProduct)
	h.handle(mux, "PUT /api/v1/products/{id}", capProductWrite, h.updateProduct)
	h.handle(mux, "DELETE /api/v1/products/{id}", capProductWrite, h.deleteProduct)

	h.handle(mux, "GET /health", capHealth, h.health)

	return mux
}

// handle wires one route with the standard middleware chain:
// trace -> request logger -> metrics -> access log -> authorization -> handler.
func (h *Handler) handle(mux *http.ServeMux, pattern string, cap capability, handler http.HandlerFunc) {
	authorized := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, actorErr := actorFromRequest(r)

		if err := authorize(cap, actor); err != nil {
			switch {
			case actorErr != nil:
				writeError(w, http.StatusUnauthorized, actorErr)
			default:
				writeError(w, http.StatusForbidden, err)
			}
			return
		}

		handler.ServeHTTP(w, r.WithContext(contextWithActor(r.Context(), actor)))
	})

	chain := h.withTrace(pattern,
		h.withRequestLog(
			h.withHTTPMetrics(
				h.withAccessLog(authorized),
			),
		),
	)

	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := contextWithRoute(r.Context(), pattern)
		chain.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input := appOrder.PlaceOrderInput{}
	for _, item := range req.Items {
		input.Items = append(input.Items, appOrder.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.orders.PlaceOrder(r.Context(), actorFromContext(r.Context()), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(result))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	q := r.URL.Query()

	var filter domainOrder.Filter
	if statusParam := q.Get("status"); statusParam != "" {
		status, err := domainOrder.ParseStatus(statusParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Status = status
	}

	// Admins may query across users, optionally narrowed by email; everyone
	// else only sees their own orders.
	if actor.IsAdmin() {
		filter.UserEmail = q.Get("email")
	} else {
		filter.UserID = actor.ID
	}

	page, err := h.orders.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toOrderResponse))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(result))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	status, err := domainOrder.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(result))
}

func (h *Handler) requestRide(w http.ResponseWriter, r *http.Request) {
	var req requestRidePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.rides.Request(r.Context(), actorFromContext(r.Context()), appRide.RequestRideInput{
		Pickup:  req.Pickup,
		Dropoff: req.Dropoff,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRideResponse(result))
}

func (h *Handler) listRides(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	q := r.URL.Query()

	var filter domainRide.Filter
	if statusParam := q.Get("status"); statusParam != "" {
		status, err := domainRide.ParseStatus(statusParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Status = status
	}

	if actor.IsAdmin() {
		filter.CustomerEmail = q.Get("email")
	} else {
		filter.CustomerID = actor.ID
	}

	page, err := h.rides.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toRideResponse))
}

func (h *Handler) getRide(w http.ResponseWriter, r *http.Request) {
	result, err := h.rides.Get(r.Context(), r.PathValue("id"), actorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRideResponse(result))
}

func (h *Handler) updateRideStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	status, err := domainRide.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.rides.UpdateStatus(r.Context(), r.PathValue("id"), status, actorFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRideResponse(result))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := domainCatalog.Filter{Search: r.URL.Query().Get("search")}

	page, err := h.products.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toProductResponse))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	result, err := h.products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(result))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.products.Create(r.Context(), appCatalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(result))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.products.Update(r.Context(), r.PathValue("id"), appCatalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(result))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
