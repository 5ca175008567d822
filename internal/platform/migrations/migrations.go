package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&sessionRecord{},
		&storeRecord{},
		&categoryRecord{},
		&productRecord{},
		&cartRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(16)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	UserID    string     `gorm:"column:user_id;type:varchar(64);index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Store schema mirrors the stores Postgres adapter. One store per owner.
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

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name        string    `gorm:"column:name;uniqueIndex"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock       int             `gorm:"column:stock;check:chk_products_stock,stock >= 0"`
	StoreID     string          `gorm:"column:store_id;type:varchar(64);index"`
	CategoryID  *string         `gorm:"column:category_id;type:varchar(64);index"`
	ImageURLs   pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	CreatedAt   time.Time       `gorm:"column:created_at;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Cart schema mirrors the carts Postgres adapter.
type cartRecord struct {
	ID        string           `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID    string           `gorm:"column:user_id;type:varchar(64);uniqueIndex"`
	Items     []map[string]any `gorm:"column:items;type:jsonb;serializer:json"`
	CreatedAt time.Time        `gorm:"column:created_at"`
	UpdatedAt time.Time        `gorm:"column:updated_at"`
}

func (cartRecord) TableName() string { return "carts" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID            string           `gorm:"primaryKey;column:id;type:varchar(64)"`
	UserID        string           `gorm:"column:user_id;type:varchar(64);index"`
	Items         []map[string]any `gorm:"column:items;type:jsonb;serializer:json"`
	StoreIDs      pq.StringArray   `gorm:"column:store_ids;type:text[]"`
	Total         decimal.Decimal  `gorm:"column:total;type:numeric(14,2)"`
	Shipping      map[string]any   `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	Status        string           `gorm:"column:status;type:varchar(16);index"`
	StatusHistory []map[string]any `gorm:"column:status_history;type:jsonb;serializer:json"`
	Payment       map[string]any   `gorm:"column:payment_result;type:jsonb;serializer:json"`
	Version       int64            `gorm:"column:version"`
	CreatedAt     time.Time        `gorm:"column:created_at;index"`
	UpdatedAt     time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order idempotency schema mirrors the orders idempotency store.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:varchar(64)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }
