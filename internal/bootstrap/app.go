package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/api"
	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/cache"
	"github.com/Domenick1991/carrental/internal/email"
	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/Domenick1991/carrental/internal/repository"
	"github.com/Domenick1991/carrental/internal/service/auth"
	"github.com/Domenick1991/carrental/internal/service/billing"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/Domenick1991/carrental/internal/service/catalog"
	"github.com/Domenick1991/carrental/internal/service/importer"
	"github.com/Domenick1991/carrental/internal/service/invoice"
	"github.com/Domenick1991/carrental/internal/service/rates"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/Domenick1991/carrental/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// App owns the infrastructure clients and the services built on them.
type App struct {
	Pool     *pgxpool.Pool
	Cache    *cache.RedisCache
	Producer *kafka.Producer
	Mongo    *mongo.Client
	Metrics  *metrics.Metrics

	Auth     *auth.AuthService
	Bookings *booking.BookingService
	Catalog  *catalog.CatalogService
	Rates    *rates.RatesService
	Importer *importer.Importer
	Invoices *invoice.InvoiceService

	log logger.Logger
}

// Build connects to Postgres (required), Redis, Kafka and MongoDB (optional)
// and wires every service.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{log: log, Metrics: metrics.NewMetrics(cfg.Metrics.Namespace, nil)}

	pool, db, err := repository.OpenPostgres(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	app.Pool = pool
	if err := repository.AutoMigrate(db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	app.Cache = cache.NewRedisCache(cfg.Redis, cfg.Booking.CarTypesCacheTTL())
	if err := app.Cache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, falling back to database locks and uncached reads", "error", err)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		app.Producer = kafka.NewProducer(cfg.Kafka.Brokers, log)
	}

	var deliveryLog repository.DeliveryLogRepository
	if cfg.Mongo.URI != "" {
		client, err := repository.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			log.Warn("mongo unavailable, invoice deliveries will not be recorded", "error", err)
		} else {
			app.Mongo = client
			deliveryLog = repository.NewDeliveryLogRepository(ctx, client.Database(cfg.Mongo.Database), cfg.Mongo.Collection)
		}
	}

	calculator, err := billing.NewCalculator(billing.Policy(cfg.Billing.Policy), billing.AddonStrategy(cfg.Billing.AddonStrategy))
	if err != nil {
		app.Close()
		return nil, err
	}

	bookingRepo := repository.NewBookingRepository(db)
	carRepo := repository.NewCarRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	hubRepo := repository.NewHubRepository(db)
	addOnRepo := repository.NewAddOnRepository(db)
	carTypeRepo := repository.NewCarTypeRepository(db)

	app.Rates = rates.NewRatesService(carTypeRepo, addOnRepo, app.Cache, log)
	app.Importer = importer.NewImporter(carTypeRepo, app.Rates, log, app.Metrics)
	app.Catalog = catalog.NewCatalogService(hubRepo, carRepo, customerRepo, log)
	app.Auth = auth.NewAuthService(repository.NewUserRepository(db), cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, log)
	if cfg.Auth.AdminUsername != "" {
		if err := app.Auth.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	bookingOpts := []booking.BookingServiceOption{
		booking.WithLocker(app.Cache, cfg.Booking.LockTTL()),
		booking.WithConfirmationPrefix(cfg.Booking.ConfirmationPrefix),
		booking.WithMetrics(app.Metrics),
	}
	invoiceOpts := []invoice.InvoiceServiceOption{
		invoice.WithMetrics(app.Metrics),
		invoice.WithNumberPrefix(cfg.Invoice.NumberPrefix),
	}
	if app.Producer != nil {
		bookingOpts = append(bookingOpts,
			booking.WithProducer(app.Producer, cfg.Kafka.BookingEventsTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
		invoiceOpts = append(invoiceOpts, invoice.WithQueue(app.Producer, cfg.Kafka.NotificationsTopic))
	}
	if deliveryLog != nil {
		invoiceOpts = append(invoiceOpts, invoice.WithDeliveryLog(deliveryLog))
	}

	app.Bookings = booking.NewBookingService(
		bookingRepo,
		carRepo,
		customerRepo,
		hubRepo,
		repository.NewInvoiceRepository(db),
		addOnRepo,
		repository.NewTransactor(db),
		log,
		bookingOpts...,
	)

	app.Invoices = invoice.NewInvoiceService(
		bookingRepo,
		app.Rates,
		calculator,
		email.NewSender(cfg.SMTP, log),
		invoice.Issuer{Name: cfg.Invoice.IssuerName, Address: cfg.Invoice.IssuerAddress, Email: cfg.Invoice.IssuerEmail},
		cfg.Invoice.Brand,
		log,
		invoiceOpts...,
	)

	return app, nil
}

func (a *App) Handlers() Handlers {
	return Handlers{
		Auth:     api.NewAuthHandler(a.Auth),
		Bookings: api.NewBookingHandler(a.Bookings),
		Invoices: api.NewInvoiceHandler(a.Invoices),
		Rates:    api.NewRatesHandler(a.Rates, a.Importer),
		Catalog:  api.NewCatalogHandler(a.Catalog),
	}
}

func (a *App) HealthChecks() []HealthCheck {
	checks := []HealthCheck{
		{Name: "postgres", Check: a.Pool.Ping},
		{Name: "redis", Check: a.Cache.Ping},
	}
	if a.Producer != nil {
		checks = append(checks, HealthCheck{Name: "kafka", Check: a.Producer.CheckConnection})
	}
	if a.Mongo != nil {
		checks = append(checks, HealthCheck{Name: "mongo", Check: func(ctx context.Context) error {
			return a.Mongo.Ping(ctx, nil)
		}})
	}
	return checks
}

// Close waits for in-flight invoice emails, then releases every client.
func (a *App) Close() {
	if a.Invoices != nil {
		a.Invoices.Wait()
	}
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			a.log.Warn("close kafka producer", "error", err)
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.log.Warn("close redis", "error", err)
		}
	}
	if a.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Mongo.Disconnect(ctx); err != nil {
			a.log.Warn("disconnect mongo", "error", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
