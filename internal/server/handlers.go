package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/densitywalk/pkg/buildinfo"
	"github.com/matzehuels/densitywalk/pkg/dist"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// drawResponse is a draw with the id it was recorded under.
type drawResponse struct {
	ID string `json:"id"`
	pipeline.Draws
}

// likelihoodResponse is a scored draw with the id it was recorded under.
type likelihoodResponse struct {
	ID string `json:"id"`
	pipeline.LikelihoodReport
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	q := newQuery(r.URL.Query())
	opts := q.plotOptions(format)
	if q.err != nil {
		writeError(w, q.err)
		return
	}

	opts.Logger = s.logger
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Domain", strconv.FormatFloat(result.Lo, 'g', -1, 64)+","+strconv.FormatFloat(result.Hi, 'g', -1, 64))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleDensity(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	spec := q.spec()
	x := q.requiredFloat("x")
	if q.err != nil {
		writeError(w, q.err)
		return
	}
	report, err := pipeline.Density(spec, x)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())
	spec := q.spec()
	n := q.int("n", defaultDraws)
	seed := q.uint64("seed")
	if q.err != nil {
		writeError(w, q.err)
		return
	}

	draws, err := pipeline.Sample(spec, n, seed)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := s.record(r, spec, n, draws.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drawResponse{ID: id, Draws: draws})
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.runner.LoadDraw(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	draws, err := rec.Draws()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drawResponse{ID: id, Draws: draws})
}

// handleLikelihood scores a recorded draw when ?draw= is given and a fresh
// one otherwise.
func (s *Server) handleLikelihood(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r.URL.Query())

	if id := q.str("draw"); id != "" {
		rec, err := s.runner.LoadDraw(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		report, err := rec.Likelihood()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, likelihoodResponse{ID: id, LikelihoodReport: report})
		return
	}

	spec := q.spec()
	n := q.int("n", defaultDraws)
	seed := q.uint64("seed")
	if q.err != nil {
		writeError(w, q.err)
		return
	}
	report, err := pipeline.Likelihood(spec, n, seed)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := s.record(r, spec, n, report.Seed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likelihoodResponse{ID: id, LikelihoodReport: report})
}

// record stores a draw so it can be fetched or scored again by id.
func (s *Server) record(r *http.Request, spec dist.Spec, n int, seed uint64) (string, error) {
	return s.runner.RecordDraw(r.Context(), pipeline.DrawRecord{Spec: spec, N: n, Seed: seed})
}
