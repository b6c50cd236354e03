package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cymelle/backend/internal/application/ride"
	"github.com/cymelle/backend/internal/domain/catalog"
	domainOrder "github.com/cymelle/backend/internal/domain/order"
	domainRide "github.com/cymelle/backend/internal/domain/ride"
	"github.com/cymelle/backend/internal/pkg/logging"
	"github.com/cymelle/backend/internal/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type placeOrderRequest struct {
	Items []orderItemPayload `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type requestRidePayload struct {
	Pickup  string `json:"pickup_location"`
	Dropoff string `json:"dropoff_location"`
}

type productPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	Category    string          `json:"category"`
}

type orderItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Items         []orderItemResponse `json:"items"`
	TotalCost     decimal.Decimal     `json:"total_cost"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	OrderedAt     time.Time           `json:"ordered_at"`
}

func toOrderResponse(o *domainOrder.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         items,
		TotalCost:     o.TotalCost,
		Status:        string(o.Status),
		PaymentStatus: o.PaymentStatus,
		OrderedAt:     o.OrderedAt,
	}
}

type rideResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	DriverID    string          `json:"driver_id,omitempty"`
	Pickup      string          `json:"pickup_location"`
	Dropoff     string          `json:"dropoff_location"`
	Fare        decimal.Decimal `json:"fare"`
	Status      string          `json:"status"`
	RequestedAt time.Time       `json:"requested_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func toRideResponse(rd *domainRide.Ride) rideResponse {
	return rideResponse{
		ID:          rd.ID,
		CustomerID:  rd.CustomerID,
		DriverID:    rd.DriverID,
		Pickup:      rd.Pickup,
		Dropoff:     rd.Dropoff,
		Fare:        rd.Fare,
		Status:      string(rd.Status),
		RequestedAt: rd.RequestedAt,
		CompletedAt: rd.CompletedAt,
	}
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	Category    string          `json:"category"`
}

func toProductResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
	}
}

type pageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
}

func toPageResponse[D, T any](page pagination.Page[D], convert func(D) T) pageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}
	return pageResponse[T]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages(),
	}
}

func pageRequest(r *http.Request) pagination.Request {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return pagination.Request{Page: page, Size: size}.Normalize()
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeDomainError maps core failures onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *catalog.InsufficientStockError
	var transitionErr *domainRide.TransitionError

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, domainOrder.ErrNotFound),
		errors.Is(err, domainRide.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &stockErr),
		errors.As(err, &transitionErr),
		errors.Is(err, catalog.ErrConflict),
		errors.Is(err, domainOrder.ErrConflict),
		errors.Is(err, domainRide.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ride.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domainOrder.ErrNoItems),
		errors.Is(err, domainOrder.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrNegativeStock),
		errors.Is(err, domainRide.ErrPickupRequired),
		errors.Is(err, domainRide.ErrDropoffRequired):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		logging.FromContext(r.Context()).Error("request_failed", zap.Error(err))
	}

	writeError(w, status, err)
}
