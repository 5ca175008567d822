package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-marketplace-api/internal/domains/carts/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists carts in PostgreSQL with items as a JSON column.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type cartRecord struct {
	ID        string           `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID    string           `gorm:"column:user_id;type:varchar(64);uniqueIndex"`
	Items     []cartItemRecord `gorm:"column:items;type:jsonb;serializer:json"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

type cartItemRecord struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
	StoreID   string `json:"store"`
}

func (cartRecord) TableName() string { return "carts" }

func (r *Repository) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts on the owning user so a user never has two carts.
func (r *Repository) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	record := toRecord(cart)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByUser(ctx, cart.UserID)
}

func (r *Repository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&cartRecord{}, "user_id = ?", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres cart repository not configured")
	}
	return nil
}

func toRecord(cart *domain.Cart) cartRecord {
	items := make([]cartItemRecord, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemRecord(item))
	}
	return cartRecord{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		UpdatedAt: cart.UpdatedAt,
	}
}

func (r cartRecord) toDomain() *domain.Cart {
	items := make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.Item(item))
	}
	return &domain.Cart{
		ID:        r.ID,
		UserID:    r.UserID,
		Items:     items,
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}
