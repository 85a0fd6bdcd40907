package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fsanano/shop-api/internal/auth"
	"fsanano/shop-api/internal/config"
	"fsanano/shop-api/internal/db"
	"fsanano/shop-api/internal/handler"
	"fsanano/shop-api/internal/notify"
	"fsanano/shop-api/internal/repository"
	"fsanano/shop-api/internal/service"

	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	logger := log.New(os.Stdout, "[shop-api] ", log.LstdFlags|log.Lmsgprefix)

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Database
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	ctx := context.Background()
	dbPool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()
	logger.Println("Connected to database")

	store := repository.NewDB(dbPool)
	userRepo := repository.NewUserRepository(store)
	productRepo := repository.NewProductRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	cartRepo := repository.NewCartRepository(store)
	couponRepo := repository.NewCouponRepository(store)
	webhookRepo := repository.NewWebhookRepository(store)

	// 3. Setup notifications
	sinks := []notify.Sink{
		notify.NewWebhookSink(notify.WebhookConfig{Timeout: cfg.Notify.WebhookTimeout}, webhookRepo),
	}
	if cfg.Notify.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.Notify.RabbitMQURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer conn.Close()

		amqpSink, err := notify.NewAMQPSink(conn)
		if err != nil {
			log.Fatalf("Failed to set up AMQP sink: %v", err)
		}
		defer amqpSink.Close()
		sinks = append(sinks, amqpSink)
		logger.Println("Publishing checkout events to RabbitMQ")
	}

	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Workers:   cfg.Notify.Workers,
		QueueSize: cfg.Notify.QueueSize,
	}, logger, sinks...)

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		if err := dispatcher.Run(context.Background()); err != nil {
			logger.Printf("Dispatcher stopped: %v", err)
		}
	}()

	// 4. Setup Logic
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	h := handler.NewHandler(handler.Services{
		Users:      service.NewUserService(userRepo, tokens, cfg.SignupBalance),
		Cart:       service.NewCartService(store, userRepo, productRepo, orderRepo, dispatcher),
		Products:   service.NewProductService(productRepo),
		Coupons:    service.NewCouponService(couponRepo),
		Orders:     service.NewOrderService(orderRepo, productRepo),
		SavedCarts: service.NewSavedCartService(store, userRepo, cartRepo, productRepo),
		Webhooks:   service.NewWebhookService(webhookRepo),
	}, tokens, handler.Options{AllowedOrigins: cfg.CORSAllowOrigins}, logger)

	// 5. Setup Server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Run Server with Graceful Shutdown
	go func() {
		logger.Printf("Starting server on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Shutting down server...")

	// Create a deadline to wait for.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Server forced to shutdown: %v", err)
	}

	// Deliver what is already queued, within the same deadline
	dispatcher.Close()
	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		logger.Println("Gave up waiting for pending notifications")
	}

	logger.Println("Server exiting")
}
