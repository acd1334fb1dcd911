package app

import (
	"context"
	"fmt"
	"fxhistory/internal/platform/db"
	httpserver "fxhistory/internal/platform/http"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxhistory/internal/adapters"
	"fxhistory/internal/adapters/cache"
	"fxhistory/internal/adapters/httpclient"
	"fxhistory/internal/adapters/mockprovider"
	"fxhistory/internal/adapters/postgres"
	"fxhistory/internal/api"
	"fxhistory/internal/backfill"
	"fxhistory/internal/config"
	"fxhistory/internal/metrics"
	"fxhistory/internal/provider"
	"fxhistory/internal/rate"
	"fxhistory/internal/rate/handler"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Components are the wired parts shared by the server and the backfill command.
type Components struct {
	Pool     *pgxpool.Pool
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Resolver *provider.Resolver
	Backfill *backfill.Scheduler
	Service  *rate.Service
	Cache    *cache.RistrettoRateCache
}

func (c *Components) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// SetupLogger configures logrus from the config level, falling back to Info.
func SetupLogger(level string) {
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
}

// Build connects to Postgres, applies migrations and wires the rate acquisition engine.
func Build(ctx context.Context, appCfg *config.AppConfig) (*Components, error) {
	c := &Components{}

	pool, err := db.CreatePoolAndPing(ctx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return nil, err
	}
	c.Pool = pool
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(ctx, pool); err != nil {
		c.Close()
		return nil, err
	}
	logrus.Info("✅ Migrations applied")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// Provider adapters, by the names used in exchange_rate_providers
	providers := map[string]adapters.RateProvider{
		mockprovider.Name: mockprovider.New(),
	}
	if appCfg.CurrencyBeacon.APIKey != "" {
		providers[httpclient.CurrencyBeaconName] = httpclient.NewCurrencyBeaconClient(
			baseHTTPClient,
			strings.TrimSuffix(appCfg.CurrencyBeacon.BaseURL, "/"),
			appCfg.CurrencyBeacon.APIKey,
		)
	} else {
		logrus.Warnf("Currency beacon api key is not set, provider '%s' will be skipped", httpclient.CurrencyBeaconName)
	}
	registry := provider.NewRegistry(providers)
	logrus.Infof("✅ Registered providers: %s", strings.Join(registry.Names(), ", "))

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.New(c.Registry)

	// Repositories
	rateRepo := postgres.NewRateRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)
	providerRepo := postgres.NewProviderConfigRepository(pool)

	c.Cache, err = cache.NewRateCache(appCfg.Cache.MaxItems)
	if err != nil {
		c.Close()
		return nil, err
	}

	// Services
	c.Resolver = provider.NewResolver(providerRepo, registry, c.Metrics)
	c.Backfill = backfill.NewScheduler(currencyRepo, rateRepo, c.Resolver, c.Metrics, appCfg.Backfill.Concurrency)
	c.Service = rate.NewService(currencyRepo, rateRepo, c.Resolver, c.Cache)
	return c, nil
}

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	SetupLogger(appCfg.Logging.Level)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	components, err := Build(startupCtx, appCfg)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer components.Close()

	scheduler := rate.NewScheduler(components.Backfill, time.Duration(appCfg.Scheduler.JobDurationSec)*time.Second)
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	rateHandler := handler.NewRateHandler(rate.NewValidator(), components.Service, components.Backfill)
	router := api.NewRouter(rateHandler, promhttp.HandlerFor(components.Registry, promhttp.HandlerOpts{}))

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
