package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/charleshuang3/teamjoin/internal/config"
	"github.com/charleshuang3/teamjoin/internal/gormw"
	"github.com/charleshuang3/teamjoin/internal/handlers/firewall"
	"github.com/charleshuang3/teamjoin/internal/handlers/session"
	"github.com/charleshuang3/teamjoin/internal/handlers/statisfiles"
	"github.com/charleshuang3/teamjoin/internal/handlers/teamapi"
	"github.com/charleshuang3/teamjoin/internal/invitations"
	"github.com/charleshuang3/teamjoin/internal/storage"
)

var (
	configPath = flag.String("c", os.Getenv("CONFIG_PATH"), "Path to configuration file")
)

func main() {
	flag.Parse()
	if *configPath == "" {
		log.Fatal().Msg("Config path must be provided via CONFIG_PATH env var or -c flag")
	}

	// Load configuration
	cfg := config.LoadConfig(*configPath)

	// cron schedule
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	scheduler.Start()

	// Initialize database
	db, err := gormw.Open(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	storage.RegisterInvitationStatsReporter(scheduler, db)

	// Set up Gin router
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// firewall goes on the engine so unknown urls are counted too
	if cfg.Firewall.Enabled() {
		fw := firewall.New(cfg.Firewall)
		router.Use(fw.Middleware())
	}

	inv := invitations.NewService(db, cfg.Invitations.Options()...)

	sessions := session.New(&cfg.Auth, db, inv, cfg.Invitations.DashboardURL)
	sessions.RegisterHandlers(router.Group("/"))

	teamapi.New(inv, sessions, &cfg.Invitations).RegisterHandlers(router.Group("/"))

	statisfiles.RegisterHandlers(router.Group("/"))

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	go func() {
		log.Info().Msgf("start server at %q", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	c := make(chan os.Signal, 1)
	// graceful shutdown on SIGINT (Ctrl+C) only
	signal.Notify(c, os.Interrupt)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Scheduler shutdown")
	}

	log.Info().Msg("shutting down")
}
