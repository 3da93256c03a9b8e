package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"crucible-api/config"
	"crucible-api/handlers"
	"crucible-api/middleware"
	"crucible-api/services"
	"crucible-api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreBackend, err)
	}
	docs := store.NewDocuments(backend)

	submissionService := services.NewSubmissionService(docs)
	rewardService := services.NewRewardService(docs)
	tournamentService := services.NewTournamentService(docs)

	app := fiber.New(fiber.Config{
		AppName:      handlers.ServiceName,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.AdminKeyHeader,
		MaxAge:       86400,
	}))

	api := app.Group("/api/v1")
	admin := api.Group("/admin", middleware.AdminKeyMiddleware(cfg.AdminKey))

	handlers.SetupHealthRoutes(api)
	handlers.SetupSubmissionRoutes(api, admin, submissionService, rewardService)
	handlers.SetupTournamentRoutes(api, admin, tournamentService)

	if cfg.SweepInterval > 0 {
		sched, err := tournamentService.StartVotingSweep(cfg.SweepInterval)
		if err != nil {
			log.Fatal("failed to start voting sweep: ", err)
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				log.Printf("[Scheduler] Shutdown error: %v", err)
			}
		}()
		log.Printf("✅ Voting sweep running (every %s)", cfg.SweepInterval)
	}

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	log.Printf("🔮 Crucible API running on port %d (%s store)", cfg.Port, cfg.StoreBackend)
	log.Printf("   Health: http://localhost:%d/api/v1/health", cfg.Port)
	log.Printf("✅ CORS configured for origins: %s", cfg.AllowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func openBackend(ctx context.Context, cfg config.Config) (store.Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Println("⚠️  Using in-memory store, data will not survive a restart")
		return store.NewMemoryBackend(), nil
	case config.BackendS3:
		return store.NewS3Backend(ctx, store.S3Options{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			AccessKeySecret: cfg.R2.AccessKeySecret,
			Bucket:          cfg.R2.Bucket,
			Endpoint:        cfg.R2.Endpoint,
			Prefix:          cfg.R2.Prefix,
		})
	case config.BackendPostgres:
		return store.OpenPostgres(cfg.DatabaseURL)
	case config.BackendRedis:
		return store.OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	default:
		return store.NewFileBackend(cfg.DataDir)
	}
}
