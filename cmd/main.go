package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gamevault/config"
	"gamevault/db"
	"gamevault/events"
	"gamevault/handlers"
	"gamevault/monitoring"
	"gamevault/service"
	"gamevault/store"
	"gamevault/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:          "serve",
		Short:        "Run the game API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:          "gamevault",
		Short:        "Game record API",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional config file (yaml, json or toml); environment overrides it")
	root.AddCommand(serve)
	return root
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := utils.NewLogger(utils.LoggerConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		File:        cfg.LogFile,
	})

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to open database")
		return err
	}
	defer db.Close(gdb)

	publisher, err := events.New(cfg.Events)
	if err != nil {
		log.WithError(err).Error("Failed to start event publisher")
		return err
	}
	defer closePublisher(publisher, log)

	if err := monitoring.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	}

	gameStore := store.NewGormGameStore(gdb)
	games := service.NewGameService(gameStore, publisher, log)
	router := handlers.NewRouter(handlers.RouterConfig{
		Games: games,
		Log:   log,
		CORS:  cfg.CORS,
		Health: func(ctx context.Context) error {
			return db.Ping(ctx, gdb)
		},
		Metrics: prometheus.DefaultGatherer,
	})

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{
			MinVersion:       tls.VersionTLS12,
			CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP384, tls.CurveP256},
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(server, cfg, log)
	}()

	warmGauge(ctx, gameStore, log)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		return err
	}
	return nil
}

func listen(server *http.Server, cfg *config.AppConfig, log *logrus.Logger) error {
	var err error
	if cfg.TLS.Enabled {
		log.WithFields(logrus.Fields{
			"addr": server.Addr,
			"cert": cfg.TLS.CertFile,
		}).Info("Starting server with HTTPS")
		err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	} else {
		log.WithField("addr", server.Addr).Info("Starting server with HTTP")
		if cfg.Release() {
			log.Warn("Running without HTTPS. Set USE_HTTPS=true for production")
		}
		err = server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to start server")
	}
	return err
}

func closePublisher(publisher events.Publisher, log *logrus.Logger) {
	if err := publisher.Close(); err != nil {
		log.WithError(err).Warn("Failed to close event publisher")
	}
}

// warmGauge seeds games_stored so it is right before the first list call.
func warmGauge(ctx context.Context, games store.GameStore, log *logrus.Logger) {
	n, err := games.Count(ctx)
	if err != nil {
		log.WithError(err).Warn("Could not count games")
		return
	}
	monitoring.GamesStored.Set(float64(n))
}
