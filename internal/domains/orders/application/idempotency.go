package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
)

type normalizedPlaceOrderInput struct {
	UserID  string           `json:"user"`
	Items   []normalizedItem `json:"items"`
	Address normalizedAddr   `json:"shippingAddress"`
}

type normalizedItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type normalizedAddr struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// FingerprintPlaceOrder builds a deterministic hash of the request payload, excluding the idempotency key.
// Item order is significant because it drives line item order.
func FingerprintPlaceOrder(input ports.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		UserID: input.UserID,
		Items:  make([]normalizedItem, 0, len(input.Items)),
		Address: normalizedAddr{
			Address:    input.ShippingAddress.Address,
			City:       input.ShippingAddress.City,
			PostalCode: input.ShippingAddress.PostalCode,
			Country:    input.ShippingAddress.Country,
		},
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// IdempotencyStoreKey scopes a client key to its user so different buyers never share a record.
func IdempotencyStoreKey(userID, key string) string {
	sum := sha256.Sum256([]byte(userID + ":" + key))
	return hex.EncodeToString(sum[:])
}
