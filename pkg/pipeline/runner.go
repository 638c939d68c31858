package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/densitywalk/pkg/cache"
	"github.com/matzehuels/densitywalk/pkg/curve"
	"github.com/matzehuels/densitywalk/pkg/dist"
	"github.com/matzehuels/densitywalk/pkg/observability"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Spec is the normalized distribution that was plotted.
	Spec dist.Spec

	// SpecHash is the content hash of Spec, used in cache keys.
	SpecHash string

	// Lo and Hi bound the plotted domain.
	Lo, Hi float64

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains curve and timing information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points      int
	PeakX       float64
	PeakDensity float64
	RenderTime  time.Duration
}

// Runner executes plots with caching. It holds no per-run state, so one
// Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means the DefaultKeyer, a nil cache
// disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute validates opts, evaluates the curve once to fail fast on a bad
// domain, then renders every requested format concurrently. Each format gets
// its own surface. Cached artifacts are reused unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	d, err := dist.New(opts.Dist, nil)
	if err != nil {
		return nil, err
	}
	c, err := curve.Evaluate(d, opts.CurveOptions()...)
	if err != nil {
		return nil, err
	}

	specData, err := json.Marshal(opts.Dist)
	if err != nil {
		return nil, fmt.Errorf("serialize spec for cache key: %w", err)
	}
	result := &Result{
		Spec:      opts.Dist,
		SpecHash:  cache.Hash(specData),
		Lo:        c.Lo(),
		Hi:        c.Hi(),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats.Points = c.Len()
	if i := c.Peak(); i >= 0 {
		result.Stats.PeakX, result.Stats.PeakDensity = c.Xs[i], c.Ys[i]
	}

	spec := opts.Dist.String()
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, spec, opts.Backend, opts.Formats)
	start := time.Now()

	var (
		mu   sync.Mutex
		hits int
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			key := r.Keyer.ArtifactKey(result.SpecHash, opts.artifactKeyOpts(format))
			data, hit := r.lookup(gctx, key, opts.Refresh)
			if !hit {
				if err := gctx.Err(); err != nil {
					return err
				}
				var err error
				data, err = RenderFormat(d, opts, format)
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}
				r.store(gctx, key, data)
			}

			mu.Lock()
			defer mu.Unlock()
			result.Artifacts[format] = data
			if hit {
				hits++
			}
			return nil
		})
	}
	err = g.Wait()
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, spec, opts.Backend, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.CacheHit = hits == len(opts.Formats)

	logger.Info("rendered plot",
		"dist", spec,
		"backend", opts.Backend,
		"formats", opts.Formats,
		"domain", fmt.Sprintf("[%.4g, %.4g]", result.Lo, result.Hi),
		"cached", result.CacheHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// lookup reads an artifact from the cache. Cache errors are logged and
// treated as misses.
func (r *Runner) lookup(ctx context.Context, key string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")
	return nil, false
}

func (r *Runner) store(ctx context.Context, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (o *Options) artifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Backend:   o.Backend,
		LowerTail: o.LowerTail,
		UpperTail: o.UpperTail,
		Points:    o.Points,
		Width:     o.Width,
		Height:    o.Height,
		Title:     o.Title,
		Color:     o.Color,
		LineWidth: o.LineWidth,
		Grid:      o.Grid,
		Marks:     o.Marks,
	}
}
