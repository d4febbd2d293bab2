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

	"admin-console/config"
	"admin-console/internal/api"
	"admin-console/internal/broker"
	"admin-console/internal/catalog"
	"admin-console/internal/composer"
	"admin-console/internal/notify"
	"admin-console/internal/orderstore"
	"admin-console/internal/redisclient"
	"admin-console/internal/session"
	"admin-console/internal/util"
	"admin-console/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting admin console")

	tp, err := util.InitTracer("admin-console", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	orderClient := orderstore.NewClient(cfg.OrderStore.BaseURL, cfg.OrderStore.Timeout)
	log.Printf("Collaborators configured: catalog=%s, orders=%s",
		cfg.Catalog.BaseURL, cfg.OrderStore.BaseURL)

	// preference persistence is optional; the console runs without Redis
	prefs, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Console.SessionTTL)
	if err != nil {
		log.Printf("Redis unavailable, console preferences will not persist: %v", err)
		prefs = nil
	} else {
		defer prefs.Close()
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicAudit)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	auditPublisher := broker.NewAuditPublisher(producer)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	auditConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicAudit, cfg.Kafka.ConsumerGroup)
	auditWorker := worker.NewAuditWorker(auditConsumer)
	go func() {
		if err := auditWorker.Start(workerCtx); err != nil {
			log.Printf("Audit worker error: %v", err)
		}
	}()

	sink := notify.NewSink(cfg.Console.ToastTTL)
	sessions := session.NewManager(catalogClient, orderClient, sink, prefs,
		cfg.Console.SelectorPageSize, cfg.Console.DashboardPageSize)
	orderComposer := composer.New(catalogClient, orderClient, sink)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(sessions, catalogClient, orderComposer, auditPublisher, sink,
		cfg.Console.CatalogPageSize)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	auditWorker.Stop()

	log.Println("Server exited")
}
