package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists stores in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type storeRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name        string    `gorm:"column:name;uniqueIndex"`
	Description string    `gorm:"column:description"`
	OwnerID     string    `gorm:"column:owner_id;type:varchar(64);uniqueIndex"`
	Status      string    `gorm:"column:status;type:varchar(16);index"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (storeRecord) TableName() string { return "stores" }

// Save inserts or updates a store.
func (r *Repository) Save(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}
	clone := *store
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(&clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"description": record.Description,
				"status":      record.Status,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a store by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByOwner fetches the store owned by ownerID.
func (r *Repository) GetByOwner(ctx context.Context, ownerID string) (*domain.Store, error) {
	return r.first(ctx, "owner_id = ?", ownerID)
}

// GetByName fetches a store by case-insensitive name.
func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Store, error) {
	return r.first(ctx, "LOWER(name) = LOWER(?)", strings.TrimSpace(name))
}

// List returns stores, optionally narrowed by status.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Store, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at")
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	var records []storeRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	stores := make([]*domain.Store, 0, len(records))
	for i := range records {
		stores = append(stores, records[i].toDomain())
	}
	return stores, nil
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (*domain.Store, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record storeRecord
	if err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres store repository not configured")
	}
	return nil
}

func toRecord(store *domain.Store) storeRecord {
	return storeRecord{
		ID:          store.ID,
		Name:        store.Name,
		Description: store.Description,
		OwnerID:     store.OwnerID,
		Status:      string(store.Status),
		CreatedAt:   store.CreatedAt,
	}
}

func (r storeRecord) toDomain() *domain.Store {
	return &domain.Store{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		Status:      domain.Status(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
	}
}
