package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/edgebundle/pkg/bundle/force"
	"github.com/matzehuels/edgebundle/pkg/bundle/table"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/geom"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Cycles = 3
	cfg.Iterations = 10
	return cfg
}

func randomEdges(seed int64, n int) []Edge {
	rng := rand.New(rand.NewSource(seed))
	edges := make([]Edge, n)
	for i := range edges {
		x, y := rng.Float64()*20, rng.Float64()*20
		edges[i] = NewEdge(x, y, x+10+rng.Float64()*10, y+rng.Float64()*6-3)
	}
	return edges
}

func TestBundleShape(t *testing.T) {
	edges := []Edge{
		NewEdge(0, 0, 10, 0),
		NewEdge(0, 1, 10, 1),
		NewEdge(5, -5, 5, 5),
	}
	res, err := Bundle(context.Background(), edges, fastConfig())
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}

	// P: 1 → 2 → 4, so each edge ends with 6 points.
	const points = 6
	if got, want := res.Table.Len(), len(edges)*points; got != want {
		t.Fatalf("rows = %d, want %d", got, want)
	}
	if res.Table.Groups() != len(edges) {
		t.Errorf("Groups() = %d, want %d", res.Table.Groups(), len(edges))
	}
	for g, e := range edges {
		line := res.Table.Polyline(g)
		s := e.Segment()
		if line[0] != s.Source || line[len(line)-1] != s.Target {
			t.Errorf("edge %d endpoints = %v..%v, want %v..%v", g, line[0], line[len(line)-1], s.Source, s.Target)
		}
	}
	for i, r := range res.Table.Rows {
		k := i % points
		if want := float64(k) / (points - 1); math.Abs(r.Index-want) > 1e-15 {
			t.Errorf("row %d Index = %g, want %g", i, r.Index, want)
		}
		if r.Group != i/points {
			t.Errorf("row %d Group = %d, want %d", i, r.Group, i/points)
		}
	}
	if len(res.Cycles) != 3 {
		t.Errorf("cycles = %d, want 3", len(res.Cycles))
	}
	if res.Compat.Pairs != 3 {
		t.Errorf("Compat.Pairs = %d, want 3", res.Compat.Pairs)
	}
}

func TestBundleEmpty(t *testing.T) {
	res, err := Bundle(context.Background(), nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if res.Table.Len() != 0 {
		t.Errorf("rows = %d, want 0", res.Table.Len())
	}
}

func TestBundleSingleEdgeStraight(t *testing.T) {
	res, err := Bundle(context.Background(), []Edge{NewEdge(0, 0, 3, 4)}, fastConfig())
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	for _, r := range res.Table.Rows {
		wantX, wantY := 3*r.Index, 4*r.Index
		if math.Hypot(r.X-wantX, r.Y-wantY) > 1e-9 {
			t.Errorf("point (%g, %g) at index %g is off the chord", r.X, r.Y, r.Index)
		}
	}
}

func TestBundleZeroCycles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cycles = 0
	res, err := Bundle(context.Background(), []Edge{NewEdge(0, 0, 2, 0), NewEdge(0, 0.1, 2, 0.1)}, cfg)
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	// One interior point per edge, left at the midpoint.
	if res.Table.Len() != 6 {
		t.Fatalf("rows = %d, want 6", res.Table.Len())
	}
	if mid := res.Table.Rows[1]; mid.X != 1 || mid.Y != 0 {
		t.Errorf("midpoint = (%g, %g), want (1, 0)", mid.X, mid.Y)
	}
}

func TestBundleInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CompatibilityThreshold = 2

	called := false
	_, err := Bundle(context.Background(), randomEdges(1, 5), cfg, WithProgress(func(force.Cycle) { called = true }))
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("Bundle() error = %v, want %s", err, errs.ErrCodeInvalidConfig)
	}
	if called {
		t.Error("simulation ran despite invalid config")
	}
}

func TestBundleInvalidWeights(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
	}{
		{"negative", -1},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := []Edge{NewEdge(0, 0, 1, 0), NewEdge(0, 1, 1, 1)}
			edges[1].Weight = tt.weight
			_, err := Bundle(context.Background(), edges, fastConfig())
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("Bundle() error = %v, want %s", err, errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestBundleDegenerateEdges(t *testing.T) {
	edges := []Edge{
		NewEdge(0, 0, 10, 0),
		NewEdge(4, 4, 4, 4),
		NewEdge(math.NaN(), 0, 10, 1),
		NewEdge(0, 1, 10, 1),
	}
	res, err := Bundle(context.Background(), edges, fastConfig())
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if res.Table.Groups() != 4 {
		t.Errorf("Groups() = %d, want 4", res.Table.Groups())
	}
	for _, pt := range res.Table.Polyline(1) {
		if pt.X != 4 || pt.Y != 4 {
			t.Errorf("zero-length edge point = %v, want (4, 4)", pt)
		}
	}
	for _, g := range []int{0, 3} {
		for _, pt := range res.Table.Polyline(g) {
			if !geom.Finite(pt) {
				t.Errorf("edge %d has non-finite point %v", g, pt)
			}
		}
	}
}

func TestBundleWorkerIndependence(t *testing.T) {
	edges := randomEdges(3, 30)
	base, err := Bundle(context.Background(), edges, fastConfig(), WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []int{2, 4, 16} {
		got, err := Bundle(context.Background(), edges, fastConfig(), WithWorkers(w))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(base.Table, got.Table); diff != "" {
			t.Errorf("workers=%d differs (-sequential +parallel):\n%s", w, diff)
		}
	}
}

func TestBundlePrefilterEquivalence(t *testing.T) {
	edges := randomEdges(5, 30)
	filtered, err := Bundle(context.Background(), edges, fastConfig())
	if err != nil {
		t.Fatal(err)
	}
	full, err := Bundle(context.Background(), edges, fastConfig(), WithoutPrefilter())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(full.Table, filtered.Table); diff != "" {
		t.Errorf("prefilter changed output (-full +filtered):\n%s", diff)
	}
	if filtered.Compat.Compatible != full.Compat.Compatible {
		t.Errorf("Compatible = %d, want %d", filtered.Compat.Compatible, full.Compat.Compatible)
	}
	if full.Compat.Candidates != full.Compat.Pairs {
		t.Errorf("unfiltered Candidates = %d, want %d", full.Compat.Candidates, full.Compat.Pairs)
	}
}

func TestBundleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Bundle(ctx, randomEdges(2, 10), fastConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("errors.Is(err, context.Canceled) = false, err = %v", err)
	}
	if !errs.Is(err, errs.ErrCodeCanceled) {
		t.Errorf("code = %q, want %q", errs.GetCode(err), errs.ErrCodeCanceled)
	}
}

func TestBundleLogsDebug(t *testing.T) {
	var buf strings.Builder
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	if _, err := Bundle(context.Background(), randomEdges(4, 4), fastConfig(), WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "compatibility computed") {
		t.Errorf("log output missing compatibility line:\n%s", buf.String())
	}
}

func TestNormalizeWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		want    []float64
	}{
		{"uniform", []float64{3, 3, 3}, []float64{1, 1, 1}},
		{"near uniform", []float64{2, 2 + 1e-9}, []float64{1, 1}},
		{"spread", []float64{0, 5, 10}, []float64{0.5, 1, 1.5}},
		{"zero allowed", []float64{0, 1}, []float64{0.5, 1.5}},
		{"single", []float64{7}, []float64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := make([]Edge, len(tt.weights))
			for i, w := range tt.weights {
				edges[i] = Edge{XEnd: 1, Weight: w}
			}
			got, err := NormalizeWeights(edges)
			if err != nil {
				t.Fatalf("NormalizeWeights: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEdgeUnmarshalDefaultsWeight(t *testing.T) {
	var got []Edge
	data := `[{"x":0,"y":0,"xend":1,"yend":1},{"x":0,"y":0,"xend":1,"yend":1,"weight":0}]`
	if err := json.Unmarshal([]byte(data), &got); err != nil {
		t.Fatal(err)
	}
	if got[0].Weight != 1 {
		t.Errorf("missing weight = %g, want 1", got[0].Weight)
	}
	if got[1].Weight != 0 {
		t.Errorf("explicit weight = %g, want 0", got[1].Weight)
	}
}

func TestEdgeLiteralWeightIsLightest(t *testing.T) {
	if got := NewEdge(0, 0, 1, 0).Weight; got != 1 {
		t.Fatalf("NewEdge weight = %g, want 1", got)
	}
	edges := []Edge{
		NewEdge(0, 0, 10, 0),
		{X: 0, Y: 1, XEnd: 10, YEnd: 1},
		NewEdge(0, 2, 10, 2),
	}
	got, err := NormalizeWeights(edges)
	if err != nil {
		t.Fatalf("NormalizeWeights: %v", err)
	}
	if diff := cmp.Diff([]float64{1.5, 0.5, 1.5}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// pointAt interpolates group g of tb at relative position t along its rows.
func pointAt(tb *table.Table, g int, t float64) geom.Point {
	var rows []table.Row
	for _, r := range tb.Rows {
		if r.Group == g {
			rows = append(rows, r)
		}
	}
	for k := 1; k < len(rows); k++ {
		a, b := rows[k-1], rows[k]
		if t > b.Index {
			continue
		}
		f := (t - a.Index) / (b.Index - a.Index)
		return geom.Pt(a.X+f*(b.X-a.X), a.Y+f*(b.Y-a.Y))
	}
	last := rows[len(rows)-1]
	return geom.Pt(last.X, last.Y)
}

func TestBundleDefaultConfigPullsParallelEdges(t *testing.T) {
	edges := []Edge{NewEdge(0, 0, 10, 0), NewEdge(0, 1, 10, 1)}
	const spread = 1.0
	for cycles := 1; cycles <= DefaultCycles; cycles++ {
		cfg := DefaultConfig()
		cfg.Cycles = cycles
		res, err := Bundle(context.Background(), edges, cfg)
		if err != nil {
			t.Fatalf("cycles=%d: Bundle: %v", cycles, err)
		}
		for g, e := range edges {
			line := res.Table.Polyline(g)
			s := e.Segment()
			if line[0] != s.Source || line[len(line)-1] != s.Target {
				t.Errorf("cycles=%d: edge %d endpoints moved", cycles, g)
			}
		}
		var sum float64
		for _, pos := range []float64{0.25, 0.5, 0.75} {
			a, b := pointAt(res.Table, 0, pos), pointAt(res.Table, 1, pos)
			gap := a.Distance(b)
			if gap >= spread {
				t.Errorf("cycles=%d: gap at %g = %g, want < %g", cycles, pos, gap, spread)
			}
			sum += gap
		}
		if mean := sum / 3; mean >= spread/2 {
			t.Errorf("cycles=%d: mean gap = %g, want < %g", cycles, mean, spread/2)
		}
	}
}
