package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"property-desk/internal/config"
	"property-desk/internal/events"
	"property-desk/internal/handlers"
	"property-desk/internal/metrics"
	"property-desk/internal/migration"
	"property-desk/internal/repository"
	"property-desk/internal/services"
	"property-desk/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")
			return serve(cmd.Context(), migrate)
		},
	}

	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")

	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := config.NewLogger(cfg)
	logger.Info("Starting property-desk...")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	logger.WithField("driver", cfg.DBDriver).Info("Connected to database")

	if migrate {
		applied, err := migration.NewSchemaMigrator(db).Up(ctx)
		if err != nil {
			return err
		}
		for _, mr := range applied {
			logger.WithFields(logrus.Fields{"version": mr.Version, "name": mr.Name}).Info("Applied migration")
		}
	}

	photos, err := storage.New(ctx, cfg.PhotoStorage(), logger)
	if err != nil {
		return err
	}
	logger.WithField("backend", cfg.PhotoStore).Info("Photo store ready")

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to NATS (events won't be published)")
		} else {
			publisher = natsPublisher
			logger.Info("NATS events publisher initialized")
		}
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.DBDriver),
	)
	m := metrics.New(registry)

	tenantRepo := repository.NewTenantRepository(db)
	requestRepo := repository.NewMaintenanceRepository(db)
	tenantService := services.NewTenantService(tenantRepo, publisher, m, logger)
	maintenanceService := services.NewMaintenanceService(requestRepo, tenantRepo, photos, publisher, m, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		DB:                 db,
		Tenants:            tenantService,
		Requests:           maintenanceService,
		Metrics:            m,
		Gatherer:           registry,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxUploadBytes:     cfg.MaxUploadBytes,
	})

	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("address", server.Addr).Info("property-desk listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
