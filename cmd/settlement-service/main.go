package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ondc-labs/rsf-settlement-service/internal/config"
	"github.com/ondc-labs/rsf-settlement-service/internal/delivery/http/handlers"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/gateway"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/kafka"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/metrics"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/migrate"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres"
	"github.com/ondc-labs/rsf-settlement-service/internal/infrastructure/postgres/repository"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase/recon"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase/settlement"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.Migrations.Path != "" {
		if err := migrate.RunMigrations(db, cfg.Migrations.Path); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := kafka.NewDefaultKafkaPublisher(brokers)
	sub := kafka.NewDefaultKafkaSubscriber(brokers)

	// Init repositories
	settlementRepo := repository.NewDefaultSettlementRepository(db)
	orderRepo := repository.NewDefaultOrderRepository(db)
	participantRepo := repository.NewDefaultParticipantRepository(db)

	// Init signed-message gateway
	protocolGateway, err := gateway.NewDefaultGateway(cfg.Gateway)
	if err != nil {
		log.Fatalf("failed to init protocol gateway: %v", err)
	}

	settlementMetrics := metrics.NewSettlementMetrics()

	// Init usecases
	settlementUc := settlement.NewDefaultSettlementUsecase(
		settlementRepo,
		orderRepo,
		participantRepo,
		protocolGateway,
		pub,
		settlementMetrics,
	)
	reconUc := recon.NewDefaultReconUsecase(
		settlementRepo,
		participantRepo,
		protocolGateway,
		pub,
		settlementMetrics,
	)
	orderUc := usecase.NewDefaultOrderUsecase(orderRepo)

	// Order lifecycle feed
	go func() {
		topic := cfg.KafkaService.OrderTopic
		if topic == "" {
			topic = "order-events"
		}
		if err := orderUc.Run(context.Background(), sub, topic, cfg.Gateway.SubscriberID); err != nil {
			slog.Error("order event consumer stopped", "error", err.Error())
		}
	}()

	// HTTP surface: protocol actions + admin + metrics
	router := mux.NewRouter()
	protocolHandler := handlers.NewProtocolHandler(settlementUc, reconUc, participantRepo, protocolGateway, cfg.Gateway.SubscriberID)
	protocolHandler.Register(router)
	adminHandler := handlers.NewAdminHandler(settlementUc, reconUc, participantRepo)
	adminHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("settlement service listening on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
