package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appCatalog "github.com/cymelle/backend/internal/application/catalog"
	appOrder "github.com/cymelle/backend/internal/application/order"
	appRide "github.com/cymelle/backend/internal/application/ride"
	"github.com/cymelle/backend/internal/config"
	domainCatalog "github.com/cymelle/backend/internal/domain/catalog"
	domainOrder "github.com/cymelle/backend/internal/domain/order"
	domainRide "github.com/cymelle/backend/internal/domain/ride"
	"github.com/cymelle/backend/internal/infrastructure/id"
	"github.com/cymelle/backend/internal/infrastructure/memory"
	"github.com/cymelle/backend/internal/infrastructure/postgres"
	"github.com/cymelle/backend/internal/pkg/logging"
	httppresentation "github.com/cymelle/backend/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	var (
		productRepo domainCatalog.Repository
		orderRepo   domainOrder.Repository
		placement   appOrder.PlacementStore
		rideRepo    domainRide.Repository
	)

	if cfg.Database.URL != "" {
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			baseLogger.Fatal("database_connect_failed", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			baseLogger.Fatal("database_schema_failed", zap.Error(err))
		}

		productRepo = postgres.NewProductStore(db)
		orderStore := postgres.NewOrderStore(db)
		orderRepo = orderStore
		placement = orderStore
		rideRepo = postgres.NewRideStore(db)
		baseLogger.Info("store_selected", zap.String("store", "postgres"))
	} else {
		products := memory.NewProductRepository()
		orders := memory.NewOrderRepository()
		productRepo = products
		orderRepo = orders
		placement = memory.NewPlacementStore(products, orders)
		rideRepo = memory.NewRideRepository()
		baseLogger.Info("store_selected", zap.String("store", "memory"))
	}

	idGenerator := id.NewUUIDGenerator()
	orderService := appOrder.NewService(productRepo, orderRepo, placement, idGenerator)
	rideService := appRide.NewService(rideRepo, idGenerator, cfg.Ride.FlatFare)
	catalogService := appCatalog.NewService(productRepo, idGenerator)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	prometheus.MustRegister(httpRequests, httpDurations)

	handler := httppresentation.NewHandler(orderService, rideService, catalogService, baseLogger, httpRequests, httpDurations)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		baseLogger.Info("http_server_stopped")
	}
}
