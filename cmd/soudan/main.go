package main

import (
	"context"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/soudan/internal/events"
	"github.com/example/soudan/internal/handlers"
	"github.com/example/soudan/internal/pagedata"
	"github.com/example/soudan/internal/platform/config"
	"github.com/example/soudan/internal/platform/db"
	"github.com/example/soudan/internal/platform/httpserver"
	"github.com/example/soudan/internal/platform/logging"
	"github.com/example/soudan/internal/platform/natsconn"
	"github.com/example/soudan/internal/platform/run"
	"github.com/example/soudan/internal/registry"
	"github.com/example/soudan/internal/sanitize"
	"github.com/example/soudan/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	factory, closeStores := initStores(cfg, log)
	if closeStores != nil {
		defer closeStores()
	}

	reg, err := registry.New(cfg.Domains, factory)
	if err != nil {
		log.Error("build tenant registry", zap.Error(err))
		_ = log.Sync()
		run.Exit(1)
	}
	defer reg.Close()
	log.Info("tenants registered", zap.Strings("domains", reg.Domains()))

	pub, closeEvents := initEvents(log)
	if closeEvents != nil {
		defer closeEvents()
	}

	san := sanitize.NewHTML()
	ver := pagedata.NewHTTPVerifier()

	r := chi.NewRouter()
	httpserver.SetupRouter(r)
	r.Post("/", handlers.PostComment(reg, san, ver, pub, log))
	r.Get("/{content_id}", handlers.GetComments(reg, log))

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the per-tenant store backend: in-memory under the
// testing flag, Postgres when DATABASE_URL is set, sqlite files otherwise.
func initStores(cfg config.AppConfig, log *zap.Logger) (registry.StoreFactory, func()) {
	if cfg.Testing {
		log.Warn("testing mode: comment stores are in-memory and not durable")
		return func(string) (store.CommentStore, error) {
			return store.NewMemoryCommentStore(), nil
		}, nil
	}

	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		pool, err := db.Open(context.Background())
		if err != nil {
			log.Error("postgres is required when DATABASE_URL is set", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Info("comment stores: postgres, one table per tenant")
		return func(domain string) (store.CommentStore, error) {
			return store.NewPostgresCommentStore(context.Background(), pool, domain)
		}, pool.Close
	}

	log.Info("comment stores: sqlite, one database file per tenant")
	return func(domain string) (store.CommentStore, error) {
		return store.NewSQLiteCommentStore(domain, false)
	}, nil
}

// initEvents wires the optional comment-event publisher. Without NATS_URL
// (or with the broker down) events are disabled and the service runs on.
func initEvents(log *zap.Logger) (*events.Publisher, func()) {
	if strings.TrimSpace(os.Getenv("NATS_URL")) == "" {
		return nil, nil
	}
	nc, err := natsconn.Connect(natsconn.Options{})
	if err != nil {
		log.Warn("nats unavailable, comment events disabled", zap.Error(err))
		return nil, nil
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("jetstream unavailable, comment events disabled", zap.Error(err))
		nc.Close()
		return nil, nil
	}
	log.Info("comment events: nats jetstream")
	return events.New(js, log), nc.Close
}
