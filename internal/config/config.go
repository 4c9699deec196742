package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GinMode       string
	MongoURI      string
	MongoDatabase string
	RabbitMQURI   string
	EventExchange string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string

	// SRSIntervalUnit is the duration of one step in the SRS interval
	// table: time.Hour in production, time.Minute when reviewing the
	// schedule in a test environment.
	SRSIntervalUnit time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:        getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnvOrDefault("MONGO_DATABASE", "kanji_service"),
		RabbitMQURI:     os.Getenv("RABBITMQ_URI"),
		EventExchange:   os.Getenv("RABBITMQ_EXCHANGE"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PWD"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		LLMBaseURL:      getEnvOrDefault("LLM_BASE_URL", "http://localhost:11434/v1"),
		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMModel:        getEnvOrDefault("LLM_MODEL", "gemini-2.5-flash-lite"),
		SRSIntervalUnit: intervalUnit(getEnvOrDefault("SRS_INTERVAL_UNIT", "hours")),
	}
}

func intervalUnit(name string) time.Duration {
	switch name {
	case "minutes":
		return time.Minute
	case "hours":
		return time.Hour
	default:
		log.Printf("Unknown SRS_INTERVAL_UNIT %q, falling back to hours", name)
		return time.Hour
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
