package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/carrental/api"
	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/pkg/logger"
	"github.com/Domenick1991/carrental/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerDocPath = "/docs/swagger.json"

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth     *api.AuthHandler
	Bookings *api.BookingHandler
	Invoices *api.InvoiceHandler
	Rates    *api.RatesHandler
	Catalog  *api.CatalogHandler
}

// HealthCheck is one dependency probed by /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter builds the gin engine. gatherer backs /metrics; nil means the default registry.
func NewRouter(cfg *config.Config, log logger.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer, h Handlers, checks ...HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(log, m))

	allowCredentials := true
	for _, origin := range cfg.HTTP.CORSOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", healthHandler(checks))

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if cfg.HTTP.SwaggerFile != "" {
		r.StaticFile(swaggerDocPath, cfg.HTTP.SwaggerFile)
		r.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerDocPath))))
	}

	h.Auth.Register(&r.RouterGroup)

	protected := r.Group("/api", api.Authenticate(cfg.Auth.JWTSecret))
	h.Bookings.Register(protected.Group("/bookings"))
	h.Invoices.Register(protected.Group("/invoice"))
	h.Rates.Register(protected)
	h.Catalog.Register(protected)
	h.Auth.RegisterAdmin(protected)

	return r
}

func healthHandler(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				results[hc.Name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[hc.Name] = "ok"
		}

		body := gin.H{"status": "ok", "checks": results}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}

// Run serves handler until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http %s: %w", cfg.HTTP.Address, err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
