// Package config loads the application configuration from the environment.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Repository backend names accepted by CARD_REPOSITORY
const (
	RepositoryInMemory = "memory"
	RepositoryPostgres = "postgres"
	RepositoryMongoDB  = "mongo"
)

// Config holds the application configuration
type Config struct {
	HTTPAddr   string
	Repository string

	PostgresDSN string

	MongoURI      string
	MongoDatabase string

	AMQPDSN   string
	AMQPQueue string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() Config {
	// A missing .env file is fine, the environment takes over
	_ = godotenv.Load()

	return Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		Repository:    strings.ToLower(getEnv("CARD_REPOSITORY", RepositoryInMemory)),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "debitcard"),
		AMQPDSN:       os.Getenv("AMQP_DSN"),
		AMQPQueue:     getEnv("AMQP_QUEUE", "debit-card-events"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return fallback
}
