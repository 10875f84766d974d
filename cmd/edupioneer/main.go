package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/sahuajaykumar2004-dot/EP/internal/app"
	"github.com/sahuajaykumar2004-dot/EP/internal/config"
)

func main() {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
