package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	log := logrus.New()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	db, err := openDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := NewTweetCache(cfg.RedisAddr, cfg.RedisPassword, log)
	if cache != nil {
		if err := cache.Connect(ctx); err != nil {
			log.WithError(err).Warn("redis unreachable, tweet cache disabled")
			cache = nil
		} else {
			defer cache.Close()
			log.WithField("addr", cfg.RedisAddr).Info("tweet cache connected")
		}
	}

	app := NewApp(NewStorage(db), newStore(cfg.SessionSecret), bcryptHasher{}, cache, log)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: app.setupRouter(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("forced shutdown")
		}
	}()

	log.WithField("addr", cfg.Addr).Info("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server failed")
	}
	log.Info("server stopped")
}
