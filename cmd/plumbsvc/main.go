package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/internal/app"
	"github.com/you/plumbsvc/internal/config"
)

func main() {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	if err := app.Run(cfg); err != nil {
		log.Fatal().Err(err).Msg("app")
	}
}
