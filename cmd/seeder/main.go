package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/victorydiv/fojournapp-sub001/internal/config"
	"github.com/victorydiv/fojournapp-sub001/internal/db"
)

// Applies the schema and seed files in order. Safe to run on an empty
// database.
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on OS environment variables")
	}

	database, err := db.Open(config.Load())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	files := []string{
		"migrations/001_init.sql",
		"seed/users.sql",
		"seed/templates.sql",
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("failed to read file")
		}
		if _, err := database.Exec(string(content)); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("failed to execute file")
		}
		log.Info().Str("file", file).Msg("applied")
	}

	log.Info().Msg("database seeding completed")
}
