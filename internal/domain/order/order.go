package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("order: not found")
	ErrConflict        = errors.New("order: modified concurrently")
	ErrNoItems         = errors.New("order: at least one item is required")
	ErrInvalidQuantity = errors.New("order: quantity must be greater than zero")
	ErrUserRequired    = errors.New("order: user is required")
)

type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a wire value onto a known order status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPlaced, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("order: unknown status %q", s)
	}
}

// PaymentStatusPaid is the only payment status this system produces; the
// payment gateway is simulated and always succeeds.
const PaymentStatusPaid = "PAID"

// Item is one product line within an order. UnitPrice is the catalog price
// captured at purchase time and is never revised afterwards.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID            string
	UserID        string
	UserEmail     string
	Items         []Item
	TotalCost     decimal.Decimal
	Status        Status
	PaymentStatus string
	OrderedAt     time.Time
}

// New builds a placed order from price-snapshotted items. The total is the
// sum of item subtotals.
func New(id, userID, userEmail string, items []Item) (*Order, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total = total.Add(item.Subtotal())
	}

	return &Order{
		ID:            id,
		UserID:        userID,
		UserEmail:     userEmail,
		Items:         items,
		TotalCost:     total,
		Status:        StatusPlaced,
		PaymentStatus: PaymentStatusPaid,
		OrderedAt:     time.Now().UTC(),
	}, nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	return &clone
}
