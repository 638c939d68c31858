// Package cache stores rendered artifacts keyed by what produced them.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for several HTTP hosts
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// # Keys
//
// A [Keyer] builds keys from a hash of the normalized distribution and the
// render options. Wrap it in a [ScopedKeyer] to namespace keys when several
// deployments share one Redis.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(specJSON), cache.ArtifactKeyOpts{
//	    Format: "svg", Backend: "native", Points: 1000,
//	})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept. Renders are pure
// functions of their key, so the TTL only bounds disk and memory use.
const TTLArtifact = 7 * 24 * time.Hour

// TTLDraw is how long the HTTP host remembers a draw id.
const TTLDraw = 24 * time.Hour

// Cache is a byte store with per-entry expiry. A miss is (nil, false, nil);
// errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl <= 0 keeps the entry until it is deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies one encoded plot of the distribution whose
	// normalized spec hashes to specHash.
	ArtifactKey(specHash string, opts ArtifactKeyOpts) string

	// DrawKey identifies a recorded draw by its id.
	DrawKey(id string) string
}

// ArtifactKeyOpts holds every render option that changes artifact bytes.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Backend   string  `json:"backend"`
	LowerTail float64 `json:"lower_tail"`
	UpperTail float64 `json:"upper_tail"`
	Points    int     `json:"points"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Title     string  `json:"title,omitempty"`

	Color     string    `json:"color,omitempty"`
	LineWidth float64   `json:"line_width,omitempty"`
	Grid      bool      `json:"grid,omitempty"`
	Marks     []float64 `json:"marks,omitempty"`
}

// DefaultKeyer produces unprefixed keys of the form "artifact:<sha256>" and
// "draw:<id>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", specHash, opts)
}

// DrawKey implements Keyer.
func (DefaultKeyer) DrawKey(id string) string {
	return "draw:" + id
}
