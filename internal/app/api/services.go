package api

import (
	"context"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	cartcatalog "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/catalog"
	cartmemory "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/memory"
	cartobs "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/observability"
	cartpostgres "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/persistence/postgres"
	cartredis "github.com/Apurer/go-marketplace-api/internal/domains/carts/adapters/persistence/redis"
	cartapp "github.com/Apurer/go-marketplace-api/internal/domains/carts/application"
	cartports "github.com/Apurer/go-marketplace-api/internal/domains/carts/ports"
	catalogmemory "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/go-marketplace-api/internal/domains/catalog/adapters/storeaccess"
	catalogapp "github.com/Apurer/go-marketplace-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-marketplace-api/internal/domains/catalog/ports"
	ordercatalog "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/catalog"
	orderevents "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/events"
	ordermemory "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-marketplace-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/Apurer/go-marketplace-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-marketplace-api/internal/domains/orders/ports"
	storememory "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/memory"
	storeobs "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/observability"
	storepostgres "github.com/Apurer/go-marketplace-api/internal/domains/stores/adapters/persistence/postgres"
	storeapp "github.com/Apurer/go-marketplace-api/internal/domains/stores/application"
	storeports "github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
	usermemory "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/persistence/postgres"
	userredis "github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/persistence/redis"
	"github.com/Apurer/go-marketplace-api/internal/domains/users/adapters/security"
	userapp "github.com/Apurer/go-marketplace-api/internal/domains/users/application"
	userports "github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
	"github.com/Apurer/go-marketplace-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-marketplace-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-marketplace-api/internal/platform/postgres"
	platformredis "github.com/Apurer/go-marketplace-api/internal/platform/redis"
)

// SessionPurger removes expired sessions from durable storage.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Services holds the decorated use cases shared by the API and the worker.
type Services struct {
	Users   userports.Service
	Stores  storeports.Service
	Catalog catalogports.Service
	Carts   cartports.Service
	Orders  orderports.Service
	// SessionPurger is nil unless sessions live in PostgreSQL.
	SessionPurger SessionPurger
	// Durable reports whether repositories live in PostgreSQL and are shared across processes.
	Durable bool

	closers []func() error
}

// Close releases every backend opened by BuildServices.
func (s *Services) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

type backends struct {
	db    *gorm.DB
	redis *goredis.Client
}

// BuildServices wires repositories, adapters, and observability decorators.
// PostgreSQL, Redis, and Kafka are optional; missing backends fall back to memory or no-op.
func BuildServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Services, error) {
	logger := effectiveLogger(instruments)
	services := &Services{}
	b := services.connect(ctx, cfg, logger)
	services.Durable = b.db != nil

	userService, purger := buildUsers(cfg, b)
	services.SessionPurger = purger

	var storeRepo storeports.Repository = storememory.NewRepository()
	if b.db != nil {
		storeRepo = storepostgres.NewRepository(b.db)
	}
	guard := storeapp.NewGuard(storeRepo)
	storeService := storeapp.NewService(storeRepo, guard)

	var products catalogports.ProductRepository = catalogmemory.NewProductRepository()
	var categories catalogports.CategoryRepository = catalogmemory.NewCategoryRepository()
	if b.db != nil {
		products = catalogpostgres.NewProductRepository(b.db)
		categories = catalogpostgres.NewCategoryRepository(b.db)
	}
	catalogService := catalogapp.NewService(products, categories, storeaccess.New(guard))

	var cartRepo cartports.Repository = cartmemory.NewRepository()
	switch {
	case b.redis != nil:
		cartRepo = cartredis.NewRepository(b.redis, cartredis.WithTTL(cfg.CartTTL))
	case b.db != nil:
		cartRepo = cartpostgres.NewRepository(b.db)
	}
	cartService := cartapp.NewService(cartRepo, cartcatalog.NewLookup(products))

	orderService := services.buildOrders(cfg, b, products, logger)

	services.Users = userobs.New(userService,
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	services.Stores = storeobs.New(storeService,
		storeobs.WithLogger(logger),
		storeobs.WithTracer(instruments.Tracer("internal.stores.application")),
		storeobs.WithMeter(instruments.Meter("internal.stores.application")),
	)
	services.Catalog = catalogobs.New(catalogService,
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	services.Carts = cartobs.New(cartService,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.carts.application")),
		cartobs.WithMeter(instruments.Meter("internal.carts.application")),
	)
	services.Orders = orderobs.New(orderService,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	if err := bootstrapAdmin(ctx, cfg, services.Users, logger); err != nil {
		return nil, errors.Join(err, services.Close())
	}
	return services, nil
}

func (s *Services) connect(ctx context.Context, cfg Config, logger *slog.Logger) backends {
	var b backends
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
	} else if db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN); err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
	} else if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		closeGorm(db)
	} else {
		b.db = db
		s.closers = append(s.closers, func() error { closeGorm(db); return nil })
		logger.Info("repositories configured with postgres")
	}

	if cfg.RedisAddr == "" {
		return b
	}
	client, err := platformredis.Connect(ctx, platformredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Warn("failed to connect to redis, sessions and carts stay on the primary store", slog.String("error", err.Error()))
		return b
	}
	b.redis = client
	s.closers = append(s.closers, client.Close)
	logger.Info("sessions and carts configured with redis", slog.String("addr", cfg.RedisAddr))
	return b
}

func buildUsers(cfg Config, b backends) (*userapp.Service, SessionPurger) {
	var repo userports.Repository = usermemory.NewRepository()
	var sessions userports.SessionStore = usermemory.NewSessionStore(cfg.SessionTTL)
	var purger SessionPurger
	if b.db != nil {
		repo = userpostgres.NewRepository(b.db)
		pgSessions := userpostgres.NewSessionStore(b.db, cfg.SessionTTL)
		sessions, purger = pgSessions, pgSessions
	}
	if b.redis != nil {
		sessions, purger = userredis.NewSessionStore(b.redis, cfg.SessionTTL), nil
	}
	return userapp.NewService(repo, sessions, security.NewBcryptHasher(0)), purger
}

func (s *Services) buildOrders(cfg Config, b backends, products catalogports.ProductRepository, logger *slog.Logger) *orderapp.Service {
	var repo orderports.Repository = ordermemory.NewRepository()
	var idempotency orderports.IdempotencyStore = ordermemory.NewIdempotencyStore()
	if b.db != nil {
		repo = orderpostgres.NewRepository(b.db)
		idempotency = orderpostgres.NewIdempotencyStore(b.db)
	}
	opts := []orderapp.Option{orderapp.WithIdempotencyStore(idempotency)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := orderevents.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		s.closers = append(s.closers, publisher.Close)
		opts = append(opts,
			orderapp.WithEventPublisher(publisher),
			orderapp.WithPublishErrorHandler(func(ctx context.Context, err error) {
				logger.ErrorContext(ctx, "failed to publish order events", slog.String("error", err.Error()))
			}),
		)
		logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrderTopic))
	}
	return orderapp.NewService(repo, ordercatalog.New(products), opts...)
}

func bootstrapAdmin(ctx context.Context, cfg Config, users userports.Service, logger *slog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	admin, err := users.EnsureAdmin(ctx, userports.RegisterInput{Name: cfg.AdminName, Email: cfg.AdminEmail, Password: cfg.AdminPassword})
	if err != nil {
		return err
	}
	logger.Info("administrator account ready", slog.String("userId", admin.ID))
	return nil
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
