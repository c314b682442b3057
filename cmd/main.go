package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-system/internal/config"
	"storefront-system/internal/database"
	"storefront-system/internal/fulfillment"
	"storefront-system/internal/logger"
	"storefront-system/internal/menu"
	"storefront-system/internal/messaging"
	"storefront-system/internal/notification"
	"storefront-system/internal/orders"
	"storefront-system/internal/storefront"
	"storefront-system/internal/tracking"
)

func main() {
	var (
		mode              = flag.String("mode", "", "Service mode (storefront-service, fulfillment-worker, notification-subscriber)")
		port              = flag.Int("port", 3000, "HTTP port")
		workerName        = flag.String("worker-name", "", "Worker name (required for fulfillment-worker mode)")
		heartbeatInterval = flag.Int("heartbeat-interval", 30, "Heartbeat interval in seconds")
		prefetch          = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "storefront-service":
		err = runStorefrontService(ctx, cfg, log, *port)
	case "fulfillment-worker":
		if *workerName == "" {
			log.Error("validation_failed", "worker-name is required for fulfillment-worker mode", requestID, nil, nil)
			os.Exit(1)
		}
		err = runFulfillmentWorker(ctx, cfg, log, *workerName, *heartbeatInterval, *prefetch)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil && err != context.Canceled {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runStorefrontService runs the HTTP storefront
func runStorefrontService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	menuStore := menu.NewPostgresStore(db, log)
	if err := menuStore.SeedIfEmpty(ctx); err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)
	catalog := menu.NewCatalog(menuStore, log)
	store := orders.NewStore(db, log)

	service := storefront.NewService(store, catalog, publisher, log)
	handler := storefront.NewHandler(service, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Storefront service started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runFulfillmentWorker runs the simulated order fulfillment side
func runFulfillmentWorker(ctx context.Context, cfg *config.Config, log *logger.Logger, workerName string, heartbeatInterval, prefetch int) error {
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.FulfillmentQueue, workerName, prefetch)
	publisher := messaging.NewPublisher(conn, log)
	store := orders.NewStore(db, log)

	worker := fulfillment.NewWorker(workerName, time.Duration(heartbeatInterval)*time.Second,
		db, store, consumer, publisher, log)

	return worker.Start(ctx)
}

// runNotificationSubscriber runs the console notification subscriber
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-subscriber", prefetch)
	feed := tracking.NewStatusFeed(consumer, log)
	subscriber := notification.NewSubscriber(feed, log)

	return subscriber.Start(ctx)
}
