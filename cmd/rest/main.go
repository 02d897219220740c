package main

import (
	"context"
	"log"

	"ai-qa-agent-be/internal/bootstrap"
	"ai-qa-agent-be/internal/config"
	"ai-qa-agent-be/internal/model"
	"ai-qa-agent-be/internal/server"
	"ai-qa-agent-be/internal/tracer"
	"ai-qa-agent-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.Migrate(gormDB, &model.DocumentVector{}); err != nil {
		log.Panicf("Unable to migrate database: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Panicf("Unable to start consumer: %v", err)
	}
	if err := container.DeadLetterService.Consume(context.Background()); err != nil {
		log.Panicf("Unable to start dead-letter consumer: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
