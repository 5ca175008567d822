package mapper

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	orderdomain "github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
)

type OrderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PlaceOrderRequest is the checkout payload. The idempotency key arrives as a header.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItem struct {
	Product  string      `json:"product"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price"`
	Store    string      `json:"store"`
}

type StatusChange struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updatedBy"`
}

type PaymentResult struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	UpdateTime time.Time `json:"updateTime"`
}

// Order is the transport representation of an order.
type Order struct {
	ID              string          `json:"id"`
	User            string          `json:"user"`
	Items           []OrderItem     `json:"items"`
	Total           json.Number     `json:"total"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Status          string          `json:"status"`
	StatusHistory   []StatusChange  `json:"statusHistory"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func ToPlaceOrderInput(userID, idempotencyKey string, req PlaceOrderRequest) orderports.PlaceOrderInput {
	items := make([]orderports.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orderports.ItemInput{ProductID: item.Product, Quantity: item.Quantity})
	}
	return orderports.PlaceOrderInput{
		UserID:          userID,
		Items:           items,
		ShippingAddress: orderdomain.ShippingAddress(req.ShippingAddress),
		IdempotencyKey:  idempotencyKey,
	}
}

func ToUpdateStatusInput(orderID, actorID string, req UpdateStatusRequest) orderports.UpdateStatusInput {
	return orderports.UpdateStatusInput{OrderID: orderID, Status: orderdomain.Status(req.Status), ActorID: actorID}
}

func FromDomainOrder(order *orderdomain.Order) Order {
	if order == nil {
		return Order{Items: []OrderItem{}, StatusHistory: []StatusChange{}}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			Product:  item.ProductID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    money(item.Price),
			Store:    item.StoreID,
		})
	}
	history := make([]StatusChange, 0, len(order.StatusHistory))
	for _, change := range order.StatusHistory {
		history = append(history, StatusChange{Status: string(change.Status), Timestamp: change.At, UpdatedBy: change.UpdatedBy})
	}
	out := Order{
		ID:              order.ID,
		User:            order.UserID,
		Items:           items,
		Total:           money(order.Total),
		ShippingAddress: ShippingAddress(order.ShippingAddress),
		Status:          string(order.Status),
		StatusHistory:   history,
		CreatedAt:       order.CreatedAt,
	}
	if order.Payment != nil {
		out.PaymentResult = &PaymentResult{ID: order.Payment.ID, Status: order.Payment.Status, UpdateTime: order.Payment.UpdatedAt}
	}
	return out
}

// money renders an exact decimal as a JSON number.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func FromDomainOrders(orders []*orderdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
