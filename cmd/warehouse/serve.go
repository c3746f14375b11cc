package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-warehouse-service/internal/auth"
	empH "github.com/fekuna/omnipos-warehouse-service/internal/employee/handler"
	empRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/employee/repository"
	empUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/employee/usecase"
	"github.com/fekuna/omnipos-warehouse-service/internal/health"
	"github.com/fekuna/omnipos-warehouse-service/internal/inventory"
	invH "github.com/fekuna/omnipos-warehouse-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-warehouse-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/inventory/usecase"
	taskH "github.com/fekuna/omnipos-warehouse-service/internal/task/handler"
	taskRepoPkg "github.com/fekuna/omnipos-warehouse-service/internal/task/repository"
	taskUCPkg "github.com/fekuna/omnipos-warehouse-service/internal/task/usecase"
	"github.com/fekuna/omnipos-warehouse-service/pkg/broker"
	"github.com/fekuna/omnipos-warehouse-service/pkg/cache"
	"github.com/fekuna/omnipos-warehouse-service/pkg/database/transactor"
	"github.com/fekuna/omnipos-warehouse-service/pkg/ginx"
	"github.com/fekuna/omnipos-warehouse-service/pkg/search"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the gRPC health endpoint and the stock count listener",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := connectDB(cfg)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// Repositories
	itemRepo := invRepoPkg.NewPGItemRepository(db)
	itemLogRepo := invRepoPkg.NewPGItemLogRepository(db)
	batchLogRepo := invRepoPkg.NewPGBatchLogRepository(db)
	taskRepo := taskRepoPkg.NewPGRepository(db)
	employeeRepo := empRepoPkg.NewPGRepository(db)

	// Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// Kafka
	var (
		events   inventory.EventPublisher = broker.NopPublisher{}
		consumer *broker.KafkaConsumer
	)
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.EventsTopic})
		defer producer.Close()
		events = producer

		consumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.StockCountTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		appLogger.Info("Connected to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("events_topic", cfg.Kafka.EventsTopic),
			zap.String("stock_count_topic", cfg.Kafka.StockCountTopic),
		)
	}

	// Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to the database", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// Use cases
	invUC := invUCPkg.NewInventoryUseCase(itemRepo, itemLogRepo, batchLogRepo, transactor.New(db), redisClient, esClient, events, appLogger)
	taskUC := taskUCPkg.NewTaskUseCase(taskRepo, appLogger)
	employeeUC := empUCPkg.NewEmployeeUseCase(employeeRepo, appLogger)

	if consumer != nil {
		go invListenerPkg.NewInventoryListener(consumer, invUC, appLogger).Start(ctx)
	}

	// Health
	checker := health.NewChecker(appLogger).
		Require("database", db.PingContext).
		Require("redis", redisClient.Ping)
	if esClient != nil {
		checker.Optional("elasticsearch", esClient.Ping)
	}

	// HTTP
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginx.Recovery(appLogger), ginx.RequestLogger(appLogger))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", checker.Handler)

	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, time.Duration(cfg.JWT.TTL)*time.Minute)
	limiter := ginx.RateLimit(ginx.RateLimitConfig{
		Requests: cfg.Limit.Requests,
		Window:   time.Duration(cfg.Limit.WindowSeconds) * time.Second,
	}, appLogger)
	api := router.Group("/api/resources", limiter, auth.Middleware(tokens, appLogger))
	invH.NewInventoryHandler(invUC, &invH.Uploads{Dir: cfg.Upload.Dir, MaxBytes: cfg.Upload.MaxBytes}, appLogger).
		Register(api.Group("/inventory"))
	taskH.NewTaskHandler(taskUC, appLogger).Register(api.Group("/tasks"))
	empH.NewEmployeeHandler(employeeUC, appLogger).Register(api.Group("/employees"))

	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// gRPC health
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	go checker.Watch(ctx, healthServer, 15*time.Second)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
	return nil
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
