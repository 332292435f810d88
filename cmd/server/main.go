package main

import (
	"medical-record-service/internal/adapters"
	"medical-record-service/internal/api"
	"medical-record-service/internal/app"
	"medical-record-service/internal/config"
	"medical-record-service/internal/logging"
	"medical-record-service/internal/storage"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New()

	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	if err := storage.Migrate(db); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}

	schema := storage.DefaultSchema()
	store := storage.NewGormStore(db, schema, logger)

	var audit adapters.AuditPublisher
	if cfg.KafkaBroker != "" {
		audit = adapters.NewKafkaAuditPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger)
	} else {
		logger.Warn("KAFKA_BROKER not set, audit events stay in memory")
		audit = adapters.NewMemoryAuditPublisher()
	}
	defer audit.Close()

	a := app.Wire(store, schema, audit, logger)
	srv := api.NewServer(a)

	logger.WithField("port", cfg.ServerPort).Info("medical record service listening")
	if err := srv.Listen(":" + cfg.ServerPort); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
