package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/varigrid/varigrid/internal/api"
	"github.com/varigrid/varigrid/pkg/cache"
	"github.com/varigrid/varigrid/pkg/pipeline"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command exposing the layout run over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		redisAddr string
		mongoURI  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  GET  /healthz     liveness probe
  POST /v1/plan     compute plans for a posted document (no mutation)
  POST /v1/arrange  arrange a posted document and return it

By default plans are cached on the local filesystem. For multi-instance
deployments point --redis or --mongo at a shared backend instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, redisAddr, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable plan caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the shared plan cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the shared plan cache")

	return cmd
}

// runServe starts the HTTP server and shuts it down on context cancellation.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, redisAddr, mongoURI string) error {
	store, err := c.serveCache(ctx, noCache, redisAddr, mongoURI)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	server := &http.Server{
		Addr:    addr,
		Handler: api.NewServer(runner, c.Logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving layout API", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// serveCache picks the cache backend for server mode.
func (c *CLI) serveCache(ctx context.Context, noCache bool, redisAddr, mongoURI string) (cache.Cache, error) {
	switch {
	case noCache:
		return cache.NewNullCache(), nil
	case redisAddr != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	case mongoURI != "":
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        mongoURI,
			Database:   appName,
			Collection: "plans",
		})
	default:
		return newCache(false)
	}
}
