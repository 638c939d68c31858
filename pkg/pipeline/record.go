package pipeline

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/matzehuels/densitywalk/pkg/cache"
	"github.com/matzehuels/densitywalk/pkg/dist"
	"github.com/matzehuels/densitywalk/pkg/errors"
)

// DrawRecord is everything needed to reproduce a draw: the values
// themselves are regenerated from the seed.
type DrawRecord struct {
	Spec dist.Spec `json:"spec"`
	N    int       `json:"n"`
	Seed uint64    `json:"seed"`
}

// Draws regenerates the recorded values.
func (r DrawRecord) Draws() (Draws, error) {
	return Sample(r.Spec, r.N, r.Seed)
}

// Likelihood scores the recorded values.
func (r DrawRecord) Likelihood() (LikelihoodReport, error) {
	return Likelihood(r.Spec, r.N, r.Seed)
}

// RecordDraw stores rec in the runner's cache under a fresh id. rec.Seed
// must already be resolved; a zero seed would not reproduce the draws.
func (r *Runner) RecordDraw(ctx context.Context, rec DrawRecord) (string, error) {
	if rec.Seed == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot record a draw without a seed")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode draw")
	}
	id := uuid.NewString()
	if err := r.Cache.Set(ctx, r.Keyer.DrawKey(id), data, cache.TTLDraw); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store draw")
	}
	r.Logger.Debug("recorded draw", "id", id, "dist", rec.Spec, "n", rec.N)
	return id, nil
}

// LoadDraw returns the draw recorded under id. Unknown, expired and
// malformed ids are NOT_FOUND.
func (r *Runner) LoadDraw(ctx context.Context, id string) (DrawRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DrawRecord{}, errors.New(errors.ErrCodeNotFound, "draw %q not found", id)
	}
	data, ok, err := r.Cache.Get(ctx, r.Keyer.DrawKey(id))
	if err != nil {
		return DrawRecord{}, errors.Wrap(errors.ErrCodeInternal, err, "load draw")
	}
	if !ok {
		return DrawRecord{}, errors.New(errors.ErrCodeNotFound, "draw %q not found", id)
	}
	var rec DrawRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return DrawRecord{}, errors.Wrap(errors.ErrCodeInternal, err, "decode draw %s", id)
	}
	return rec, nil
}
