package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gen2brain/beeep"
	"golang.org/x/sync/errgroup"

	"github.com/Video-AI-Midias/farmaeasy-notify/internal/api"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/auth"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/bus"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/config"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/connection"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/dispatch"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/model"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/store"
	"github.com/Video-AI-Midias/farmaeasy-notify/internal/version"
)

type watchOptions struct {
	configPath string
	token      string
	desktop    bool
	debug      bool
}

func runWatch(ctx context.Context, opts watchOptions) error {
	// Set up structured logging
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting notifywatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", opts.configPath,
	)

	cfg, err := loadWatchConfig(opts.configPath, logger)
	if err != nil {
		return err
	}
	if opts.token != "" {
		cfg.Auth.Token = opts.token
	}
	if cfg.Auth.Token == "" {
		return fmt.Errorf("no bearer token: set auth.token in %s or pass --token", opts.configPath)
	}

	logger.Info("configuration loaded",
		"host", cfg.Server.Host,
		"tls", cfg.Server.TLS,
	)

	watcher := auth.NewWatcher(cfg.Auth.Token)
	defer watcher.Close()

	eventBus := bus.New(logger)
	defer eventBus.Close()

	apiClient := api.NewClient(
		cfg.RESTBase(),
		watcher,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	st := store.New(apiClient, logger)
	applier := store.NewApplier(st, eventBus, logger)
	dispatcher := dispatch.New(eventBus, logger)

	mgr := connection.NewManager(cfg, watcher, dispatcher, st, eventBus, logger)
	binder := connection.NewBinder(mgr, watcher, logger)

	printer := newPrinter(opts.desktop, logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return applier.Run(gCtx)
	})

	g.Go(func() error {
		return printer.run(gCtx, eventBus)
	})

	g.Go(func() error {
		return binder.Run(gCtx)
	})

	// Everything is wired; flip the authenticated switch so the binder
	// opens the connection.
	watcher.SetAuthenticated(true)

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("notifywatch stopped")
	return nil
}

// loadWatchConfig loads the config file, tolerating a missing file only for
// the default path so `notifywatch watch --token ...` works out of the box
// against the local development server.
func loadWatchConfig(path string, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadAndValidate(path)
	if err == nil {
		return cfg, nil
	}
	if configMissing(err) && path == defaultConfigPath {
		logger.Debug("config file not found, using defaults", "path", path)
		return config.Default(), nil
	}
	return nil, err
}

// printer renders bus events to the terminal and, optionally, to desktop
// notifications.
type printer struct {
	desktop bool
	logger  *slog.Logger
}

func newPrinter(desktop bool, logger *slog.Logger) *printer {
	return &printer{
		desktop: desktop,
		logger:  logger,
	}
}

func (p *printer) run(ctx context.Context, b bus.MessageBus) error {
	notifications := b.Subscribe(bus.TopicNotifications)
	status := b.Subscribe(bus.TopicStatus)
	defer b.Unsubscribe(notifications)
	defer b.Unsubscribe(status)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-notifications:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case ev, ok := <-status:
			if !ok {
				return nil
			}
			if change, isChange := ev.(connection.StatusChange); isChange {
				p.logger.Info("connection status",
					"from", change.Old,
					"to", change.New,
				)
			}
		}
	}
}

func (p *printer) handleEvent(ev any) {
	switch e := ev.(type) {
	case model.NotificationReceived:
		p.printNotification(e.Record)
	case model.UnreadCountChanged:
		fmt.Printf("--- unread: %d ---\n", e.Count)
	case model.ConnectedAck:
		p.logger.Info("server acknowledged connection", "message", e.Message)
	}
}

func (p *printer) printNotification(rec model.NotificationRecord) {
	ts := rec.CreatedAt.Local().Format("15:04:05")

	if rec.Actor != nil {
		fmt.Printf("[%s] %s: %s (%s) from %s\n", ts, rec.Title, rec.Message, rec.Type, rec.Actor.Name)
	} else {
		fmt.Printf("[%s] %s: %s (%s)\n", ts, rec.Title, rec.Message, rec.Type)
	}
	if rec.ReferenceURL != nil {
		fmt.Printf("         -> %s\n", *rec.ReferenceURL)
	}

	if p.desktop {
		if err := beeep.Notify(rec.Title, rec.Message, ""); err != nil {
			p.logger.Warn("desktop notification failed", "error", err)
		}
	}
}
