package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/shelfline/bookmarket/internal/auth"
	"github.com/shelfline/bookmarket/internal/book"
	"github.com/shelfline/bookmarket/internal/config"
	"github.com/shelfline/bookmarket/internal/db"
	handler "github.com/shelfline/bookmarket/internal/handler/http"
	"github.com/shelfline/bookmarket/internal/order"
	"github.com/shelfline/bookmarket/internal/user"
	"github.com/shelfline/bookmarket/internal/wishlist"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "bookmarket").Logger()

	log.Info().Msg("Bookmarket starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := db.Migrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx := context.Background()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}()

	userRepo := user.NewRepository(pg.Pool)
	bookRepo := book.NewRepository(pg.Pool)
	orderRepo := order.NewRepository(pg.Pool)
	wishlistRepo := wishlist.NewRepository(pg.Pool)

	tokenStore := auth.NewRedisTokenStore(rdb)
	authService := auth.NewService(userRepo, tokenStore, cfg.Auth.TokenTTL)
	bookService := book.NewService(bookRepo)
	orderService := order.NewService(orderRepo)
	wishlistService := wishlist.NewService(wishlistRepo, bookRepo)

	router := handler.NewRouter(authService, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Book:     handler.NewBookHandler(bookService),
		Order:    handler.NewOrderHandler(orderService),
		Wishlist: handler.NewWishlistHandler(wishlistService),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
