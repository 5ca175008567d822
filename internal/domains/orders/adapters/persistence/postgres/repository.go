package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-marketplace-api/internal/domains/orders/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL. Line items and history are embedded JSON documents.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID            string               `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID        string               `gorm:"column:user_id;type:varchar(64);index"`
	Items         []lineItemRecord     `gorm:"column:items;type:jsonb;serializer:json"`
	StoreIDs      pq.StringArray       `gorm:"column:store_ids;type:text[]"`
	Total         decimal.Decimal      `gorm:"column:total;type:numeric(14,2)"`
	Shipping      addressRecord        `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Status        string               `gorm:"column:status;type:varchar(16);index"`
	StatusHistory []statusChangeRecord `gorm:"column:status_history;type:jsonb;serializer:json"`
	Payment       *paymentRecord       `gorm:"column:payment_result;type:jsonb;serializer:json"`
	Version       int64                `gorm:"column:version"`
	CreatedAt     time.Time            `gorm:"column:created_at;index"`
	UpdatedAt     time.Time            `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type lineItemRecord struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	StoreID   string          `json:"store"`
}

type addressRecord struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type statusChangeRecord struct {
	Status    string    `json:"status"`
	At        time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updatedBy"`
}

type paymentRecord struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updateTime"`
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateStatus writes status and history with a compare-and-set on version.
func (r *Repository) UpdateStatus(ctx context.Context, order *domain.Order, expectedVersion int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&orderRecord{ID: record.ID}).
		Where("version = ?", expectedVersion).
		Select("status", "status_history", "version", "updated_at").
		Updates(&record)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *Repository) ListByStore(ctx context.Context, storeID string) ([]*domain.Order, error) {
	return r.list(ctx, "? = ANY(store_ids)", storeID)
}

func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, "")
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if query != "" {
		tx = tx.Where(query, args...)
	}
	var records []orderRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := make([]lineItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemRecord(item))
	}
	history := make([]statusChangeRecord, 0, len(order.StatusHistory))
	for _, change := range order.StatusHistory {
		history = append(history, statusChangeRecord{Status: string(change.Status), At: change.At, UpdatedBy: change.UpdatedBy})
	}
	rec := orderRecord{
		ID:            order.ID,
		UserID:        order.UserID,
		Items:         items,
		StoreIDs:      pq.StringArray(order.StoreIDs()),
		Total:         order.Total,
		Shipping:      addressRecord(order.ShippingAddress),
		Status:        string(order.Status),
		StatusHistory: history,
		Version:       order.Version,
		CreatedAt:     order.CreatedAt,
	}
	if order.Payment != nil {
		payment := paymentRecord(*order.Payment)
		rec.Payment = &payment
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem(item))
	}
	history := make([]domain.StatusChange, 0, len(r.StatusHistory))
	for _, change := range r.StatusHistory {
		history = append(history, domain.StatusChange{Status: domain.Status(change.Status), At: change.At.UTC(), UpdatedBy: change.UpdatedBy})
	}
	order := &domain.Order{
		ID:              r.ID,
		UserID:          r.UserID,
		Items:           items,
		Total:           r.Total,
		ShippingAddress: domain.ShippingAddress(r.Shipping),
		Status:          domain.Status(r.Status),
		StatusHistory:   history,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt.UTC(),
	}
	if r.Payment != nil {
		payment := domain.PaymentResult(*r.Payment)
		payment.UpdatedAt = payment.UpdatedAt.UTC()
		order.Payment = &payment
	}
	return order
}
