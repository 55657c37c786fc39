package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/config"
	"github.com/shelfline/bookmarket/internal/db"
	"github.com/shelfline/bookmarket/internal/pricedrop"
)

// One-shot batch job. Meant to run from cron or a scheduler, not as a daemon.
func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "pricedrop").Logger()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	producer := pricedrop.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.PriceDropTopic)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Kafka producer")
		}
	}()

	notifier := pricedrop.NewNotifier(pg.Pool, producer)
	published, err := notifier.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Price drop pass failed")
	}

	log.Info().Int("published", published).Msg("Price drop pass finished")
}
