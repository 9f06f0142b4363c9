package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/victorydiv/fojournapp-sub001/internal/config"
	"github.com/victorydiv/fojournapp-sub001/internal/db"
	"github.com/victorydiv/fojournapp-sub001/internal/mailer"
	"github.com/victorydiv/fojournapp-sub001/internal/queue"
	"github.com/victorydiv/fojournapp-sub001/internal/repository"
	"github.com/victorydiv/fojournapp-sub001/internal/service"
)

// Standalone dispatch worker: consumes dispatch jobs from AMQP and runs
// the campaign state machine. Deploy alongside cmd/server when AMQP_URL
// is set.
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()
	if cfg.AMQPURL == "" {
		log.Fatal().Msg("AMQP_URL is required for the standalone worker")
	}

	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	q, err := queue.NewAMQPQueue(cfg.AMQPURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to AMQP")
	}
	defer q.Close()

	dispatcher := &service.Dispatcher{
		CampaignRepo:  &repository.CampaignRepository{DB: database},
		RecipientRepo: &repository.RecipientRepository{DB: database},
		Mailer:        buildMailer(cfg, log),
		Log:           log,
	}

	if err := service.StartDispatchSubscriber(q, dispatcher, log); err != nil {
		log.Fatal().Err(err).Msg("failed to start dispatch subscriber")
	}

	log.Info().Msg("worker running, waiting for dispatch jobs")
	select {}
}

func buildMailer(cfg *config.Config, log zerolog.Logger) mailer.Mailer {
	if cfg.MailerDriver == "smtp" {
		return mailer.NewSMTP(cfg)
	}
	return &mailer.MockMailer{Log: log}
}
