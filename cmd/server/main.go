package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightops-service/internal/infrastructure/config"
	"flightops-service/internal/infrastructure/persistence"
	"flightops-service/internal/interface/httpapi"
	"flightops-service/internal/interface/repository"
	"flightops-service/internal/usecase"
	"flightops-service/pkg/logger"
	"flightops-service/pkg/metrics"
	"flightops-service/pkg/timeutil"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flightops Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL for the airport reference table
	gormDB, err := persistence.NewPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Redis is optional; the resolver runs without a cache when absent
	redisClient := persistence.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient == nil {
		log.Warn("Redis unavailable, airport lookup cache disabled")
	}

	// Set up repositories
	flightRepo := repository.NewMongoFlightRepository(db)
	subscriptionRepo := repository.NewMongoSubscriptionRepository(db)
	airlineRepo := repository.NewMongoAirlineRepository(db)
	airportRepo, err := repository.NewGormAirportRepository(gormDB)
	if err != nil {
		log.Fatal("Failed to migrate airport table", "error", err)
	}
	notifier := repository.NewDiscordNotifier(cfg.DiscordAPIBase, cfg.DiscordToken, log)

	// Set up metrics
	m := metrics.NewMetrics("flightops")

	// Set up usecases
	resolver := usecase.NewAirportResolver(
		airportRepo,
		redisClient,
		cfg.AirportLookupURL,
		cfg.AirportCacheTTL,
		cfg.AirportRequestSpacing,
		log,
	)
	flightService := usecase.NewFlightService(flightRepo, airlineRepo, subscriptionRepo, resolver, log)

	advancer := usecase.NewStatusAdvancer(flightRepo, airlineRepo, log, m)
	scheduler := usecase.NewNotificationScheduler(
		subscriptionRepo,
		flightRepo,
		notifier,
		timeutil.DefaultLeadTimes(),
		log,
		m,
	)

	// Start the status advancer loop in a goroutine
	go func() {
		ticker := time.NewTicker(cfg.AdvancerInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Status advancer stopped")
				return
			case <-ticker.C:
				if err := advancer.AdvanceAll(ctx); err != nil {
					log.Error("Status advancer pass failed", "error", err)
				}
			}
		}
	}()

	// Start the notification scheduler loop in a goroutine
	go func() {
		ticker := time.NewTicker(cfg.NotifierInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Notification scheduler stopped")
				return
			case <-ticker.C:
				if err := scheduler.Tick(ctx); err != nil {
					log.Error("Notification scheduler tick failed", "error", err)
				}
			}
		}
	}()

	// Set up HTTP server for the internal API and metrics
	mux := http.NewServeMux()
	httpapi.NewHandler(flightService, resolver, log).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop both loops

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Flightops Service stopped")
}
