package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/internal/config"
	"github.com/aretw0/travspan/pkg/adapters/file"
	httpadapter "github.com/aretw0/travspan/pkg/adapters/http"
	"github.com/aretw0/travspan/pkg/adapters/memory"
	"github.com/aretw0/travspan/pkg/adapters/redis"
	"github.com/aretw0/travspan/pkg/observability"
	"github.com/aretw0/travspan/pkg/ports"
	"github.com/aretw0/travspan/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr       string
	GraphPaths []string

	// RedisAddr switches snapshots and run locks to a shared redis.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	SnapshotTTL   time.Duration
	// StoreDir keeps snapshots as JSON files when RedisAddr is empty.
	StoreDir string

	Logger *slog.Logger
	// Listener overrides Addr, e.g. to bind an ephemeral port in tests.
	Listener net.Listener
}

// backend bundles what both servers need: graphs, a session manager and metrics.
type backend struct {
	graphs   *memory.Catalog
	runs     *session.Manager
	streams  *httpadapter.StreamManager
	registry *prometheus.Registry
	close    func() error
}

func newBackend(paths []string, opts ServeOptions, logger *slog.Logger) (*backend, error) {
	graphs, err := LoadCatalog(paths...)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)
	streams := httpadapter.NewStreamManager()

	hooks := metrics.Hooks().Merge(streams.Hooks()).Merge(observability.AuditHooks(logger))
	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithEngineOptions(travspan.WithLifecycleHooks(hooks)),
	}

	var store ports.SnapshotStore = memory.NewStore()
	closeFn := func() error { return nil }
	switch {
	case opts.RedisAddr != "":
		rs := openRedis(config.Redis{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
			TTL:      opts.SnapshotTTL,
		})
		prefix := opts.RedisPrefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(rs.Client(), prefix)))
		store = rs
		closeFn = rs.Close
		logger.Info("using redis snapshot store", "addr", opts.RedisAddr, "prefix", prefix)
	case opts.StoreDir != "":
		store = file.New(opts.StoreDir)
		logger.Info("using file snapshot store", "dir", opts.StoreDir)
	}

	return &backend{
		graphs:   graphs,
		runs:     session.NewManager(store, sessionOpts...),
		streams:  streams,
		registry: registry,
		close:    closeFn,
	}, nil
}

// router mounts the run API next to /metrics.
func (b *backend) router(logger *slog.Logger) http.Handler {
	api := httpadapter.NewHandler(b.runs, b.graphs,
		httpadapter.WithStreams(b.streams),
		httpadapter.WithLogger(logger),
	)
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{Registry: b.registry}))
	r.Mount("/", api)
	return r
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b, err := newBackend(opts.GraphPaths, opts, logger)
	if err != nil {
		return err
	}
	defer b.close()

	ln := opts.Listener
	if ln == nil {
		if ln, err = net.Listen("tcp", opts.Addr); err != nil {
			return err
		}
	}
	srv := &http.Server{
		Handler:           b.router(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", "address", ln.Addr().String(), "graphs", b.graphs.Names())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		logger.Info("server stopped gracefully")
		return nil
	})
	return group.Wait()
}
