package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/goleak"

	"github.com/matzehuels/densitywalk/pkg/cache"
	"github.com/matzehuels/densitywalk/pkg/observability"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(c, nil, logger), logger)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestPlot(t *testing.T) {
	s := newTestServer(t)

	first := get(t, s, "/plot.svg?dist=gamma&p.alpha=2&points=200")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", first.Code, first.Body)
	}
	if ct := first.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(first.Body.Bytes(), []byte("<svg")) {
		t.Error("body is not SVG")
	}
	if first.Header().Get("X-Cache") != "miss" {
		t.Errorf("first X-Cache = %q, want miss", first.Header().Get("X-Cache"))
	}
	if !strings.Contains(first.Header().Get("X-Domain"), ",") {
		t.Errorf("X-Domain = %q", first.Header().Get("X-Domain"))
	}

	second := get(t, s, "/plot.svg?dist=gamma&p.alpha=2&points=200")
	if second.Header().Get("X-Cache") != "hit" {
		t.Errorf("second X-Cache = %q, want hit", second.Header().Get("X-Cache"))
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached plot differs")
	}
}

func TestPlotMarks(t *testing.T) {
	rec := get(t, newTestServer(t), "/plot.json?points=11&mark=0&mark=1.5&grid=true&color=%23d62728")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	fig := decode[struct {
		Markers []struct {
			X     float64 `json:"x"`
			Label string  `json:"label"`
		} `json:"markers"`
	}](t, rec)
	if len(fig.Markers) != 2 || fig.Markers[1].X != 1.5 {
		t.Fatalf("markers = %+v", fig.Markers)
	}
	if fig.Markers[0].Label != "p(0) = 0.3989" {
		t.Errorf("label = %q, want the density at 0", fig.Markers[0].Label)
	}
}

func TestPlotJSON(t *testing.T) {
	rec := get(t, newTestServer(t), "/plot.json?points=11")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	fig := decode[struct {
		XLabel string `json:"x_label"`
		Lines  []struct {
			Xs []float64 `json:"xs"`
		} `json:"lines"`
	}](t, rec)
	if fig.XLabel != "x value" {
		t.Errorf("x_label = %q", fig.XLabel)
	}
	if len(fig.Lines) != 1 || len(fig.Lines[0].Xs) != 11 {
		t.Errorf("lines = %+v", fig.Lines)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/plot.gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/plot.pdf?backend=gochart", http.StatusBadRequest, "INVALID_FORMAT"},
		{"/plot.svg?backend=matplotlib", http.StatusBadRequest, "INVALID_BACKEND"},
		{"/plot.svg?dist=point", http.StatusBadRequest, "INVALID_DOMAIN"},
		{"/plot.svg?dist=cauchy", http.StatusBadRequest, "INVALID_DISTRIBUTION"},
		{"/plot.svg?points=many", http.StatusBadRequest, "INVALID_INPUT"},
		{"/plot.png?backend=gonum&width=NaN", http.StatusBadRequest, "INVALID_INPUT"},
		{"/plot.svg?height=nan", http.StatusBadRequest, "INVALID_INPUT"},
		{"/plot.png?backend=gochart&width=Inf", http.StatusBadRequest, "INVALID_INPUT"},
		{"/plot.svg?width=0.25", http.StatusBadRequest, "INVALID_INPUT"},
		{"/plot.svg?mark=NaN", http.StatusBadRequest, "INVALID_INPUT"},
		{"/plot.svg?mark=left", http.StatusBadRequest, "INVALID_INPUT"},
		{"/plot.svg?color=red", http.StatusBadRequest, "INVALID_INPUT"},
		{"/density", http.StatusBadRequest, "INVALID_INPUT"},
		{"/density?x=abc", http.StatusBadRequest, "INVALID_INPUT"},
		{"/density?p.scale=wide", http.StatusBadRequest, "INVALID_DISTRIBUTION"},
		{"/sample?n=-1", http.StatusBadRequest, "INVALID_INPUT"},
		{"/sample?seed=-3", http.StatusBadRequest, "INVALID_INPUT"},
		{"/draws/" + uuid.NewString(), http.StatusNotFound, "NOT_FOUND"},
		{"/likelihood?draw=nope", http.StatusNotFound, "NOT_FOUND"},
		{"/nowhere", http.StatusNotFound, "NOT_FOUND"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decode[errorBody](t, rec)
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/density", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestDensity(t *testing.T) {
	rec := get(t, newTestServer(t), "/density?x=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	report := decode[struct {
		Dist    string  `json:"dist"`
		Density float64 `json:"density"`
	}](t, rec)
	if math.Abs(report.Density-0.398942) > 1e-6 {
		t.Errorf("density = %v, want ≈ 0.398942", report.Density)
	}
	if report.Dist != "normal(loc=0, scale=1)" {
		t.Errorf("dist = %q", report.Dist)
	}
}

type drawBody struct {
	ID     string    `json:"id"`
	Seed   uint64    `json:"seed"`
	Values []float64 `json:"values"`
}

func TestSampleRecordsDraw(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/sample?dist=uniform&n=5&seed=42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	sampled := decode[drawBody](t, rec)
	if _, err := uuid.Parse(sampled.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", sampled.ID, err)
	}
	if sampled.Seed != 42 || len(sampled.Values) != 5 {
		t.Errorf("sample = %+v", sampled)
	}

	fetched := decode[drawBody](t, get(t, s, "/draws/"+sampled.ID))
	if diff := cmp.Diff(sampled, fetched); diff != "" {
		t.Errorf("recorded draw mismatch (-sampled +fetched):\n%s", diff)
	}

	scored := decode[struct {
		drawBody
		LogLikelihood float64 `json:"log_likelihood"`
	}](t, get(t, s, "/likelihood?draw="+sampled.ID))
	if diff := cmp.Diff(sampled.Values, scored.Values); diff != "" {
		t.Errorf("scored draw mismatch (-sampled +scored):\n%s", diff)
	}
	if scored.LogLikelihood != 0 {
		t.Errorf("uniform(0, 1) log-likelihood = %v, want 0", scored.LogLikelihood)
	}
}

func TestLikelihoodFresh(t *testing.T) {
	rec := get(t, newTestServer(t), "/likelihood?n=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	body := decode[struct {
		drawBody
		Densities    []float64 `json:"densities"`
		JointDensity float64   `json:"joint_density"`
	}](t, rec)
	if body.Seed == 0 || body.ID == "" {
		t.Errorf("seed %d and id %q should be set", body.Seed, body.ID)
	}
	if len(body.Densities) != 3 {
		t.Fatalf("densities = %v", body.Densities)
	}
	want := body.Densities[0] * body.Densities[1] * body.Densities[2]
	if math.Abs(body.JointDensity-want) > 1e-12 {
		t.Errorf("joint density = %v, want %v", body.JointDensity, want)
	}
}

type routeRecorder struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (r *routeRecorder) OnRequest(context.Context, string, string) {}

func (r *routeRecorder) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	r.status = append(r.status, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &routeRecorder{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	get(t, s, "/plot.svg?points=10")
	get(t, s, "/density?x=oops")

	if diff := cmp.Diff([]string{"/plot.{format}", "/density"}, hooks.routes); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{http.StatusOK, http.StatusBadRequest}, hooks.status); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestServeShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	tr := &http.Transport{DisableKeepAlives: true}
	defer tr.CloseIdleConnections()
	resp, err := (&http.Client{Transport: tr}).Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
