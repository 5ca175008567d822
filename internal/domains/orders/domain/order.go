package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// PaymentCompleted marks a successful simulated payment.
const PaymentCompleted = "COMPLETED"

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrEmptyUser       = errors.New("order owner is required")
	ErrEmptyProduct    = errors.New("line item product is required")
	ErrInvalidQuantity = errors.New("line item quantity must be at least 1")
	ErrNegativePrice   = errors.New("line item price must be greater or equal to zero")
	ErrInvalidStatus   = errors.New("order status is invalid")
)

// LineItem is frozen at purchase time; later catalog edits never reach it.
type LineItem struct {
	ProductID string
	Name      string
	Quantity  int
	Price     decimal.Decimal
	StoreID   string
}

// Subtotal is price × quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) validate() error {
	if strings.TrimSpace(l.ProductID) == "" {
		return ErrEmptyProduct
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if l.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

type ShippingAddress struct {
	Address    string
	City       string
	PostalCode string
	Country    string
}

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status    Status
	At        time.Time
	UpdatedBy string
}

type PaymentResult struct {
	ID        string
	Status    string
	UpdatedAt time.Time
}

// Order is the purchase aggregate. Items and Total never change after creation.
type Order struct {
	ID              string
	UserID          string
	Items           []LineItem
	Total           decimal.Decimal
	ShippingAddress ShippingAddress
	Status          Status
	StatusHistory   []StatusChange
	Payment         *PaymentResult
	CreatedAt       time.Time
	// Version increments on every persisted status change.
	Version int64

	events []Event
}

// NewOrder validates the line items, computes the total and starts the order as PENDING.
func NewOrder(id, userID string, items []LineItem, address ShippingAddress, createdAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUser
	}
	total := decimal.Zero
	for _, item := range items {
		if err := item.validate(); err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal())
	}
	return &Order{
		ID:              id,
		UserID:          userID,
		Items:           append([]LineItem(nil), items...),
		Total:           total,
		ShippingAddress: address,
		Status:          StatusPending,
		StatusHistory:   []StatusChange{},
		CreatedAt:       createdAt,
	}, nil
}

// MarkPaid records a completed payment and moves the order to PAID.
func (o *Order) MarkPaid(paymentID string, at time.Time) {
	o.Payment = &PaymentResult{ID: paymentID, Status: PaymentCompleted, UpdatedAt: at}
	o.Status = StatusPaid
	o.StatusHistory = append(o.StatusHistory, StatusChange{Status: StatusPaid, At: at, UpdatedBy: o.UserID})
	o.record(OrderPlaced{
		BaseEvent: BaseEvent{Timestamp: at},
		OrderID:   o.ID,
		UserID:    o.UserID,
		Total:     o.Total,
		StoreIDs:  o.StoreIDs(),
		ItemCount: len(o.Items),
	})
}

// ChangeStatus sets any known status and appends a history entry. Transitions are
// not restricted and repeating a status appends another entry.
func (o *Order) ChangeStatus(status Status, actorID string, at time.Time) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	previous := o.Status
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusChange{Status: status, At: at, UpdatedBy: actorID})
	o.record(OrderStatusChanged{
		BaseEvent:  BaseEvent{Timestamp: at},
		OrderID:    o.ID,
		FromStatus: previous,
		ToStatus:   status,
		UpdatedBy:  actorID,
	})
	return nil
}

// StoreIDs lists the distinct selling stores in item order.
func (o *Order) StoreIDs() []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.StoreID]; ok {
			continue
		}
		seen[item.StoreID] = struct{}{}
		ids = append(ids, item.StoreID)
	}
	return ids
}

// SoldBy reports whether storeID sells at least one line item.
func (o *Order) SoldBy(storeID string) bool {
	if storeID == "" {
		return false
	}
	for _, item := range o.Items {
		if item.StoreID == storeID {
			return true
		}
	}
	return false
}

// Events returns events raised since the last ClearEvents.
func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) record(e Event) {
	o.events = append(o.events, e)
}

// Clone returns a deep copy without pending events.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	clone.StatusHistory = append([]StatusChange(nil), o.StatusHistory...)
	if o.Payment != nil {
		payment := *o.Payment
		clone.Payment = &payment
	}
	clone.events = nil
	return &clone
}

func IsValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}
