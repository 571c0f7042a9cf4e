package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/auth"
	"storefront/broker"
	"storefront/config"
	"storefront/controllers"
	"storefront/database"
	"storefront/lock"
	"storefront/middleware"
	"storefront/routes"
	"storefront/services"
	"storefront/util"
)

func main() {

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := util.InitLogger(util.LoggerConfig{
		Service: cfg.Observ.ServiceName,
		Env:     cfg.Server.Env,
		Level:   cfg.Server.LogLevel,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront", zap.String("env", cfg.Server.Env))

	tp, err := util.InitTracer(cfg.Observ.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	store, err := openStore(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			logger.Error("Error closing store", zap.Error(err))
		}
	}()

	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		rdb, err := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb, cfg.Redis.LockTTL)
		logger.Info("Redis cart locks enabled", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher broker.Publisher = broker.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.Auth.SecretKey,
		TTL:    cfg.Auth.TokenTTL,
	})
	resolver := auth.NewResolver(tokens, store)

	ctl := controllers.NewController(controllers.Deps{
		Resolver: resolver,
		Accounts: services.NewAccountService(store, cfg.Store.Timeout),
		Products: services.NewProductService(store, cfg.Store.Timeout),
		Carts:    services.NewCartService(store, locker, cfg.Store.Timeout),
		Orders:   services.NewOrderService(store, locker, publisher, cfg.Store.Timeout),
		Store:    store,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.RequestLogger(logger))
	r.SetTrustedProxies(nil)
	routes.RegisterRoutes(r, ctl, resolver)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func openStore(cfg config.StoreConfig) (database.Store, error) {
	if cfg.Driver == "memory" {
		util.GetLogger().Warn("Using in-memory store; data is lost on restart")
		return database.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBName, cfg.Transactions)
	if err != nil {
		return nil, err
	}
	return store, nil
}
