package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	SkipAuth    bool
	Environment string
	AppId       string

	PostgresURI string // system of record
	MongoURI    string // document store
	DBName      string

	IdentityAPIURL string // external identity provider base URL
	IdentityAPIKey string

	SyncCron        string // cron expression for scheduled bidirectional sync, empty disables
	SyncPullUndated bool   // pull documents that carry no updated/synced timestamp
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "signalement"),

		PostgresURI: getEnv("POSTGRES_URI", "host=localhost port=5432 user=postgres password=postgres dbname=signalement sslmode=disable"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "signalement"),

		IdentityAPIURL: getEnv("IDENTITY_API_URL", "http://localhost:9099/v1"),
		IdentityAPIKey: getEnv("IDENTITY_API_KEY", ""),

		SyncCron:        getEnv("SYNC_CRON", ""),
		SyncPullUndated: getEnv("SYNC_PULL_UNDATED", "true") == "true",
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
