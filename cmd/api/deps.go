package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"superlists/internal/domain/list"
	"superlists/internal/infrastructure/pulsar"
	"superlists/internal/infrastructure/store"
	"superlists/internal/interfaces/dispatch"
	httphandlers "superlists/internal/interfaces/http"
	"superlists/internal/shared/config"
	"superlists/internal/web"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Store     *store.Store
	Publisher *pulsar.Publisher
	Pool      *dispatch.WorkerPool

	ListService *list.Service
	ListHandler *httphandlers.ListHandler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Dependencies, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to store", "driver", st.Driver)

	deps := &Dependencies{Store: st}

	if cfg.Store.AutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			deps.Close()
			return nil, err
		}
		logger.Info("schema migrated")
	}

	var sinks list.MultiPublisher
	if cfg.Events.PulsarURL != "" {
		p, err := pulsar.NewPublisher(pulsar.Options{
			URL:   cfg.Events.PulsarURL,
			Topic: cfg.Events.Topic,
			Name:  cfg.Telemetry.ServiceName,
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Publisher = p
		sinks = append(sinks, p)
		logger.Info("publishing list events to pulsar", "topic", cfg.Events.Topic)
	}
	if cfg.Events.PGNotify {
		n, err := st.Notifier(cfg.Events.PGChannel)
		if err != nil {
			deps.Close()
			return nil, err
		}
		sinks = append(sinks, n)
		logger.Info("publishing list events with pg_notify", "channel", cfg.Events.PGChannel)
	}

	var publisher list.Publisher = list.NopPublisher{}
	if len(sinks) > 0 {
		deps.Pool = dispatch.NewWorkerPool(cfg.Events.Workers, cfg.Events.QueueSize, logger)
		deps.Pool.Start()
		publisher = dispatch.NewAsyncPublisher(deps.Pool, sinks)
	}

	templates, err := web.ParseTemplates()
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.ListService = list.NewService(st.Repo, publisher, logger)
	deps.ListHandler = httphandlers.NewListHandler(deps.ListService, templates, logger)

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Pool != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		d.Pool.Shutdown(ctx)
		cancel()
	}
	if d.Publisher != nil {
		d.Publisher.Close()
	}
	if d.Store != nil {
		d.Store.Close()
	}
}
