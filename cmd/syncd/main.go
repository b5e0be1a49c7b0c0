package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gestaolabs/sankhya-sync/internal/client"
	"github.com/gestaolabs/sankhya-sync/internal/config"
	"github.com/gestaolabs/sankhya-sync/internal/health"
	"github.com/gestaolabs/sankhya-sync/internal/metrics"
	"github.com/gestaolabs/sankhya-sync/internal/service"
	"github.com/gestaolabs/sankhya-sync/internal/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting Sankhya sync daemon")

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.String("sankhya_base_url", cfg.Sankhya.BaseURL))

	// Initialize metrics
	m := metrics.NewMetrics()
	logger.Info("Metrics initialized")

	// Initialize tenant store (PostgreSQL); its pool is shared by the
	// local store and the run log store
	tenantStore, err := store.NewPostgresTenantStore(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tenant store", zap.Error(err))
	}

	localStore := store.NewPostgresLocalStore(tenantStore.GetPool(), logger)
	runLogStore := store.NewPostgresRunLogStore(tenantStore.GetPool())
	logger.Info("Stores initialized")

	// Initialize run locker (Redis)
	locker, err := store.NewRedisRunLocker(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Sync.LockTTL,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize run locker", zap.Error(err))
	}
	logger.Info("Run locker initialized")

	// Initialize Sankhya client
	sankhyaClient := client.NewSankhyaClient(
		cfg.Sankhya.BaseURL,
		cfg.Sankhya.Token,
		cfg.Sankhya.FetchTimeout,
		logger,
	)
	logger.Info("Sankhya client initialized")

	// Initialize services
	cache := store.NewMemoryCache()
	tenantService := service.NewTenantService(tenantStore, cache, cfg.Cache.TenantTTL, logger)
	runLogService := service.NewRunLogService(runLogStore, m, logger)
	syncService := service.NewSyncService(tenantService, sankhyaClient, localStore, runLogService, locker, m, logger)
	scheduler := service.NewSchedulerService(syncService, m, logger)
	scheduler.Start()

	logger.Info("All services initialized")

	// Start metrics server
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			logger.Info("Starting metrics server", zap.String("address", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Start health check server
	healthChecker := health.NewHealthChecker(tenantStore, locker, logger)
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health/live", healthChecker.LivenessHandler)
		mux.HandleFunc("/health/ready", healthChecker.ReadinessHandler)
		addr := fmt.Sprintf(":%d", cfg.Server.HealthPort)
		logger.Info("Starting health check server", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("Health check server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Received signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	logger.Info("Shutting down gracefully")

	scheduler.Shutdown()

	if err := locker.Close(); err != nil {
		logger.Warn("Failed to close run locker", zap.Error(err))
	}
	tenantStore.Close()

	logger.Info("Sync daemon stopped")
}
