package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"restaurant-ordering-api/auth"
	"restaurant-ordering-api/config"
	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/routes"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := config.OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	var verifier auth.Verifier
	switch cfg.AuthMode {
	case config.AuthModeInsecure:
		log.Warn().Msg("running with insecure auth mode; do not use in production")
		verifier = auth.PassthroughVerifier{}
	default:
		if cfg.FirebaseCredentials == "" {
			log.Fatal().Msg("FIREBASE_CREDENTIALS_PATH is not set")
		}
		verifier, err = auth.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentials)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Firebase")
		}
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	// CORS for the storefront
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Restaurant Ordering API",
		})
	})

	routes.SetupRoutes(r, db, verifier)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
