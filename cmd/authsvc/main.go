package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/caresync/authsvc/internal/app"
	"github.com/caresync/authsvc/internal/config"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	if err := app.Run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
