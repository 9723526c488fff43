package config

import (
	"os"

	"github.com/joho/godotenv"
)

// AuthMode selects how bearer tokens are verified.
const (
	AuthModeFirebase = "firebase"
	AuthModeInsecure = "insecure" // static token table, local development only
)

type Config struct {
	Port                string
	GinMode             string
	DBPath              string
	AuthMode            string
	FirebaseCredentials string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	// Missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	return Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", ""),
		DBPath:              getEnv("DB_PATH", "restaurant_ordering.db"),
		AuthMode:            getEnv("AUTH_MODE", AuthModeFirebase),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
