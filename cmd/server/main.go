package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/victorydiv/fojournapp-sub001/internal/config"
	"github.com/victorydiv/fojournapp-sub001/internal/db"
	"github.com/victorydiv/fojournapp-sub001/internal/handler"
	"github.com/victorydiv/fojournapp-sub001/internal/mailer"
	"github.com/victorydiv/fojournapp-sub001/internal/queue"
	"github.com/victorydiv/fojournapp-sub001/internal/repository"
	"github.com/victorydiv/fojournapp-sub001/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()
	log.Info().Str("host", cfg.DBHost).Str("name", cfg.DBName).Msg("connected to database")

	campaignRepo := &repository.CampaignRepository{DB: database}
	recipientRepo := &repository.RecipientRepository{DB: database}
	userRepo := &repository.UserRepository{DB: database}
	templateRepo := &repository.TemplateRepository{DB: database}

	var q queue.Queue
	if cfg.AMQPURL != "" {
		amqpQueue, err := queue.NewAMQPQueue(cfg.AMQPURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to AMQP")
		}
		defer amqpQueue.Close()
		q = amqpQueue
		log.Info().Msg("dispatch via AMQP, expecting a standalone worker")
	} else {
		q = queue.NewInMemoryQueue()
	}

	dispatcher := &service.Dispatcher{
		CampaignRepo:  campaignRepo,
		RecipientRepo: recipientRepo,
		Mailer:        buildMailer(cfg, log),
		Log:           log,
	}
	if cfg.AMQPURL == "" {
		// In-process mode: the server itself runs the dispatcher.
		if err := service.StartDispatchSubscriber(q, dispatcher, log); err != nil {
			log.Fatal().Err(err).Msg("failed to start dispatch subscriber")
		}
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		UserRepo:     userRepo,
		TemplateRepo: templateRepo,
		Queue:        q,
		Log:          log,
	}
	campaignHandler := &handler.CampaignHandler{
		Service: campaignService,
		Log:     log,
	}

	r := chi.NewRouter()
	r.Use(handler.SenderIdentity)

	r.Post("/campaigns", campaignHandler.CreateCampaign)
	r.Get("/campaigns", campaignHandler.ListCampaigns)
	r.Get("/campaigns/{id}", campaignHandler.GetCampaign)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func buildMailer(cfg *config.Config, log zerolog.Logger) mailer.Mailer {
	if cfg.MailerDriver == "smtp" {
		return mailer.NewSMTP(cfg)
	}
	return &mailer.MockMailer{Log: log}
}
