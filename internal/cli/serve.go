package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/densitywalk/internal/server"
	"github.com/matzehuels/densitywalk/pkg/cache"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// redisURLEnv names the environment variable read when --redis-url is unset.
const redisURLEnv = "DENSITYWALK_REDIS_URL"

// serveCommand creates the serve command for running the HTTP host.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		redisURL    string
		cachePrefix string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve plots, densities and draws over HTTP",
		Long: `Serve plots, densities and draws over HTTP.

Rendered plots are cached in Redis when --redis-url (or ` + redisURLEnv + `)
is set, and in the local file cache otherwise. The server shuts down
gracefully on interrupt.`,
		Example: `  densitywalk serve --addr :8080
  densitywalk serve --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL == "" {
				redisURL = os.Getenv(redisURLEnv)
			}
			return c.runServe(cmd.Context(), addr, redisURL, cachePrefix, noCache)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&addr, "addr", ":8080", "listen address")
	fs.StringVar(&redisURL, "redis-url", "", "Redis URL for the artifact cache")
	fs.StringVar(&cachePrefix, "cache-prefix", appName+":", "key prefix for cache entries")
	fs.BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL, prefix string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := serveRunner(ctx, redisURL, prefix, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	printInfo("Listening on %s", StyleValue.Render(addr))
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	printNextStep("Try", "curl 'http://"+host+"/plot.svg?dist=gamma&p.alpha=2'")

	return server.New(runner, logger).ListenAndServe(ctx, addr)
}

// serveRunner picks the cache for the HTTP host. A non-empty prefix scopes
// every key, so deployments sharing one Redis or cache directory stay apart.
func serveRunner(ctx context.Context, redisURL, prefix string, noCache bool) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)

	var (
		cc  cache.Cache
		err error
	)
	switch {
	case noCache:
		cc = cache.NewNullCache()
	case redisURL != "":
		cc, err = cache.NewRedisCache(ctx, cache.RedisConfig{URL: redisURL})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("using redis cache", "prefix", prefix)
	default:
		cc, err = newCache(ctx, false)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	keyer := cache.NewDefaultKeyer()
	if prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, prefix)
	}
	return pipeline.NewRunner(cc, keyer, logger), nil
}
