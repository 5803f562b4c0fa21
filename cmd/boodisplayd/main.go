package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boo-display-backend/config"
	"boo-display-backend/internal/api"
	"boo-display-backend/internal/db"
	"boo-display-backend/internal/device"
	"boo-display-backend/internal/logger"
	"boo-display-backend/internal/mqtt"
	"boo-display-backend/internal/notification"
	"boo-display-backend/internal/poller"
	"boo-display-backend/internal/push"
	"boo-display-backend/internal/store"
	"boo-display-backend/internal/stream"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
	mqttQuiesceMs     = 250
)

func main() {
	startedAt := time.Now()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()
	log.Infow("configuration loaded", "path", configPath)
	for _, w := range cfg.Warnings() {
		log.Warnw(w,
			"device_timeout", cfg.Device.Timeout.String(),
			"poll_interval", cfg.Poller.Interval.String(),
		)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, log)
	if err != nil {
		log.Fatalw("failed to initialize database", "err", err)
	}
	appStore := store.NewGormStore(gormDB)

	deviceClient := device.NewClient(cfg.Device.Host, cfg.Device.Timeout)

	dispatcher := notification.NewDispatcher(appStore, notification.NewRestySender(cfg.Webhooks.Timeout), log)
	hub := stream.NewHub(log)
	notifiers := notification.Multi{dispatcher, hub}

	var mqttPublisher *mqtt.Publisher
	if cfg.MQTT.URL != "" {
		client, err := mqtt.Connect(&cfg.MQTT)
		if err != nil {
			log.Errorw("mqtt mirror disabled", "err", err)
		} else {
			defer client.Disconnect(mqttQuiesceMs)
			mqttPublisher = mqtt.NewPublisher(client, cfg.MQTT.TopicPrefix, log)
			notifiers = append(notifiers, mqttPublisher)
			log.Infow("mqtt mirror enabled", "topic", mqttPublisher.Topic())
		}
	}

	sink := push.New(&cfg.Push, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pollerSvc := poller.NewService(&cfg.Poller, deviceClient, notifiers, log)
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		pollerSvc.Run(ctx)
	}()

	handler := api.NewHandler(api.Deps{
		Device:         deviceClient,
		Store:          appStore,
		Notifier:       notifiers,
		Sink:           sink,
		VAPIDPublicKey: cfg.Push.VAPIDPublicKey,
		GitSHA:         cfg.Build.GitSHA,
		StartedAt:      startedAt,
		Log:            log,
	})
	router := api.NewRouter(handler, &cfg.Server, hub)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		log.Infow("boo display server listening",
			"port", cfg.Server.Port,
			"device_host", cfg.Device.Host,
			"poll_interval", cfg.Poller.Interval.String(),
			"database", cfg.Database.Path,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("HTTP server ListenAndServe", "err", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Infow("shutdown signal received, stopping services")

	cancel()
	<-pollerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown", "err", err)
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warnw("webhook deliveries still in flight at shutdown", "err", err)
	}
	if err := sink.Wait(shutdownCtx); err != nil {
		log.Warnw("push notification still in flight at shutdown", "err", err)
	}
	if mqttPublisher != nil {
		if err := mqttPublisher.Wait(shutdownCtx); err != nil {
			log.Warnw("mqtt publishes still in flight at shutdown", "err", err)
		}
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Infow("server gracefully stopped")
}
