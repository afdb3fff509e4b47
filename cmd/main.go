package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"swap-service/internal/achievement"
	"swap-service/internal/config"
	"swap-service/internal/database/mongo"
	"swap-service/internal/database/redis"
	"swap-service/internal/event"
	"swap-service/internal/handlers"
	"swap-service/internal/repository"
	"swap-service/internal/service"
	"swap-service/pkg/discovery"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/evolvia", "log", "swap_service")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.ServiceConfig

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"*"},
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Swap Service is healthy")
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongo.Mongo_Database)
	swapRepo := repository.NewSwapRepository(mongo.Mongo_Database)
	badgeRepo := repository.NewBadgeRepository(mongo.Mongo_Database)
	ratingRepo := repository.NewRatingRepository(mongo.Mongo_Database)
	matchCache := repository.NewMatchCache(redis.Redis_Client, cfg.Matching.CacheTTL)

	// Create database indexes
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := userRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create user indexes: %v", err)
	}
	if err := swapRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create swap indexes: %v", err)
	}
	if err := badgeRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create badge indexes: %v", err)
	}
	if err := ratingRepo.CreateIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create rating indexes: %v", err)
	}
	cancel()
	log.Println("Database index setup finished")

	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI)
	if err != nil {
		log.Printf("Warning: Failed to initialize event publisher: %v", err)
		eventPublisher, _ = event.NewEventPublisher("")
	}

	// Initialize services
	badgeEngine := achievement.NewEngine(userRepo, badgeRepo)
	userService := service.NewUserService(userRepo, badgeEngine, matchCache)
	swapService := service.NewSwapService(swapRepo, userRepo, badgeEngine, eventPublisher)
	ratingService := service.NewRatingService(ratingRepo, userRepo, swapRepo, badgeEngine)
	badgeService := service.NewBadgeService(badgeRepo, badgeEngine)
	matchService := service.NewMatchService(userRepo, matchCache)

	eventConsumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, userService)
	if err != nil {
		log.Printf("Warning: Failed to initialize event consumer: %v", err)
	} else {
		if err := eventConsumer.Start(); err != nil {
			log.Printf("Warning: Failed to start event consumer: %v", err)
			eventConsumer.Close()
		} else {
			log.Println("Successfully started event consumer")
			defer eventConsumer.Close()
		}
	}

	// Initialize and register handlers
	handlers.NewUserHandler(userService).RegisterRoutes(app)
	handlers.NewSwapHandler(swapService).RegisterRoutes(app)
	handlers.NewRatingHandler(ratingService).RegisterRoutes(app)
	handlers.NewBadgeHandler(badgeService).RegisterRoutes(app)
	handlers.NewMatchHandler(matchService).RegisterRoutes(app)

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	// Close event publisher
	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Printf("Error closing event publisher: %v", err)
		}
	}

	redis.CloseRedis()

	// Disconnect from MongoDB
	mongo.DisconnectMongo()

	// Deregister from service discovery
	if discovery.ServiceDiscovery != nil {
		if err := discovery.ServiceDiscovery.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	<-doneChan
	log.Println("Server shutdown complete")
}
