package main

import (
	"context"
	"log"
	"time"

	"kanji-service/internal/cache"
	"kanji-service/internal/config"
	"kanji-service/internal/db"
	"kanji-service/internal/event"
	"kanji-service/internal/generation"
	"kanji-service/internal/handlers"
	"kanji-service/internal/middleware"
	"kanji-service/internal/repository"
	"kanji-service/internal/service"
	"kanji-service/internal/srs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db.InitMongo(cfg.MongoURI)
	database := db.Client.Database(cfg.MongoDatabase)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.EventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.EventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	var statsCache handlers.StatsCache
	if cfg.RedisAddr != "" {
		statsCache = cache.NewStatsCache(cfg.RedisAddr, cfg.RedisPassword)
	} else {
		log.Println("Redis not configured, stats are recomputed per request")
	}

	// Repositories
	progressRepo := repository.NewProgressRepository(database)
	userRepo := repository.NewUserRepository(database)
	contentRepo := repository.NewContentRepository(database)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := progressRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// Services
	policy := srs.NewPolicy(cfg.SRSIntervalUnit)
	txn := &db.TxnRunner{Client: db.Client}
	reviewService := service.NewReviewService(progressRepo, userRepo, contentRepo, policy, txn)
	selectorService := service.NewSelectorService(progressRepo, contentRepo)

	var generator service.Generator
	if cfg.LLMBaseURL != "" {
		generator = generation.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	}
	contentService := service.NewContentService(userRepo, contentRepo, selectorService, generator)

	// Handlers
	var events handlers.EventSink
	if publisher != nil {
		events = publisher
	}
	progressHandler := handlers.NewProgressHandler(reviewService, events, statsCache)
	contentHandler := handlers.NewContentHandler(contentService, contentRepo, events)
	convertHandler := handlers.NewConvertHandler()

	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.Auth(cfg.JWTSecret))
	{
		progress := api.Group("/progress")
		{
			progress.GET("/lessons", progressHandler.GetLessons)
			progress.GET("/reviews", progressHandler.GetReviews)
			progress.POST("/answer", progressHandler.SubmitAnswer)
			progress.GET("/stats", progressHandler.GetStats)
		}

		content := api.Group("/content")
		{
			content.GET("/recommendations", contentHandler.GetRecommendations)
			content.GET("/radicals", contentHandler.GetRadicals)
			content.GET("/kanji", contentHandler.GetKanji)
			content.GET("/kanji/:id", contentHandler.GetKanjiByID)
			content.GET("/vocabulary", contentHandler.GetVocabulary)
		}

		api.POST("/convert/romaji", convertHandler.ConvertRomaji)
	}

	log.Printf("Starting kanji service on port %s", cfg.Port)
	r.Run(":" + cfg.Port)
}
