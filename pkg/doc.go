// Package pkg provides the core libraries for densitywalk.
//
// # Overview
//
// densitywalk plots the density curve of a continuous distribution over a
// domain chosen from its quantiles, reads off densities at single points, and
// draws and scores i.i.d. samples. The pkg directory is organized into three
// areas:
//
//  1. Domain logic: [curve] and [dist]
//  2. Rendering: [render] and its subpackages
//  3. Orchestration and infrastructure: [pipeline], [cache], [config],
//     [errors], [observability] and [buildinfo]
//
// # Architecture
//
// The data flow for a plot:
//
//	dist.Spec (family + parameters)
//	         ↓
//	    [dist] package (build a distuv-backed distribution)
//	         ↓
//	    [curve] package (quantile domain, evenly spaced densities)
//	         ↓
//	    drawing surface (figure, gonum/plot or go-chart)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Render the standard Gaussian to SVG:
//
//	import (
//	    "github.com/matzehuels/densitywalk/pkg/curve"
//	    "github.com/matzehuels/densitywalk/pkg/dist"
//	    "github.com/matzehuels/densitywalk/pkg/render/figure"
//	    "github.com/matzehuels/densitywalk/pkg/render/sink"
//	)
//
//	d, _ := dist.New(dist.Spec{Family: "normal"}, nil)
//	fig, err := curve.Render(d, figure.New(800, 600))
//	if err != nil {
//	    return err // INVALID_DOMAIN for a point mass
//	}
//	fig.SetTitle("A Gaussian PDF")
//	svg := sink.RenderSVG(fig)
//
// Or let the pipeline validate, cache and render several formats at once:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Dist:    dist.Spec{Family: "gamma", Params: map[string]float64{"alpha": 2}},
//	    Formats: []string{"svg", "png"},
//	})
//
// # Main Packages
//
// [curve] - The distribution plotter. [curve.Render] computes the domain
// from the 0.0001 and 0.9999 quantiles, evaluates 1000 evenly spaced
// densities, labels the axes and plots one line. It validates before it
// mutates, so a failed render leaves the surface untouched.
//
// [dist] - Distribution families backed by gonum's distuv, plus sampling,
// joint density and log-likelihood over i.i.d. draws.
//
// [render/figure], [render/sink] - The native surface and its encoders.
// [render/gonumplot] and [render/gochart] adapt third-party plotting
// libraries to the same surface contract.
//
// [pipeline] - Validation, defaults, concurrent rendering and caching, used
// by both the CLI and the HTTP host.
//
// [cache] - File, Redis and null artifact caches.
//
// # Testing
//
//	go test ./...                       # All tests
//	go test ./pkg/curve/...             # Specific package
//	go test -run Example ./pkg/...      # Examples only
//	DENSITYWALK_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//
// [curve]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/curve
// [curve.Render]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/curve#Render
// [dist]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/dist
// [render]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/render
// [render/figure]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/render/figure
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/render/sink
// [render/gonumplot]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/render/gonumplot
// [render/gochart]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/render/gochart
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/densitywalk/pkg/buildinfo
package pkg
