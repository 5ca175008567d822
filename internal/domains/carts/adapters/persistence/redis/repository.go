package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// DefaultKeyPrefix namespaces cart keys.
const DefaultKeyPrefix = "marketplace:cart:"

// Repository stores each user's cart as one JSON document.
type Repository struct {
	client goredis.Cmdable
	prefix string
	// ttl of zero keeps carts until they are cleared.
	ttl time.Duration
}

type Option func(*Repository)

// WithTTL expires idle carts.
func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func NewRepository(client goredis.Cmdable, opts ...Option) *Repository {
	r := &Repository{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

type cartDocument struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user"`
	Items     []itemDocument `json:"items"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type itemDocument struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
	StoreID   string `json:"store"`
}

func (r *Repository) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	raw, err := r.client.Get(ctx, r.key(userID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var doc cartDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	payload, err := encode(cart)
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, r.key(cart.UserID), payload, r.ttl).Err(); err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

func (r *Repository) DeleteByUser(ctx context.Context, userID string) error {
	n, err := r.client.Del(ctx, r.key(userID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) key(userID string) string {
	return r.prefix + userID
}

func encode(cart *domain.Cart) (string, error) {
	doc := cartDocument{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]itemDocument, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt.UTC(),
	}
	for _, item := range cart.Items {
		doc.Items = append(doc.Items, itemDocument(item))
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (d cartDocument) toDomain() *domain.Cart {
	cart := &domain.Cart{
		ID:        d.ID,
		UserID:    d.UserID,
		Items:     make([]domain.Item, 0, len(d.Items)),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	for _, item := range d.Items {
		cart.Items = append(cart.Items, domain.Item(item))
	}
	return cart
}
