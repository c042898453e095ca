package main

import "testing"

func syntheticView(n int) channelView {
	times := make([]int64, n)
	values := make([]float64, n)
	for i := range times {
		times[i] = int64(i) * 1000
		values[i] = float64(i % 97)
	}
	return channelView{Name: "synthetic", Times: times, Values: values}
}

func TestNeedsDecimation(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		expected bool
	}{
		{"empty", 0, false},
		{"small", 500, false},
		{"exactly at threshold", 8000, false},
		{"just over threshold", 8001, true},
		{"huge", 1_000_000, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := needsDecimation(tc.n, defaultPointBudget, defaultZoomStep); got != tc.expected {
				t.Errorf("needsDecimation(%d) = %v, expected %v", tc.n, got, tc.expected)
			}
		})
	}
}

func TestDecimate(t *testing.T) {
	view := syntheticView(10001)
	out := decimate(view, 800)
	if out.Len() != 800 {
		t.Fatalf("expected 800 points, got %d", out.Len())
	}
	if out.Times[0] != view.Times[0] {
		t.Errorf("decimation must keep the first sample")
	}
	if out.Times[out.Len()-1] != view.Times[view.Len()-1] {
		t.Errorf("decimation must keep the last sample")
	}
	for i := 1; i < out.Len(); i++ {
		if out.Times[i] <= out.Times[i-1] {
			t.Fatalf("decimated times must stay strictly increasing, violated at %d", i)
		}
	}
	again := decimate(view, 800)
	for i := range out.Times {
		if out.Times[i] != again.Times[i] || out.Values[i] != again.Values[i] {
			t.Fatalf("decimation must be deterministic, differs at %d", i)
		}
	}
}

func TestDecimateSmallSeries(t *testing.T) {
	view := syntheticView(100)
	out := decimate(view, 800)
	if out.Len() != 100 {
		t.Fatalf("series under the target should pass through, got %d points", out.Len())
	}
	if &out.Times[0] != &view.Times[0] {
		t.Errorf("series under the target should not be copied")
	}
}

func TestBuildBuckets(t *testing.T) {
	buckets := buildBuckets(1000, 10)
	if len(buckets) != 10 {
		t.Fatalf("expected 10 buckets, got %d", len(buckets))
	}
	if buckets[0].lo != 0 || buckets[0].hi != 200 {
		t.Errorf("bucket 0 = [%d,%d), expected [0,200)", buckets[0].lo, buckets[0].hi)
	}
	if buckets[8].lo != 800 || buckets[8].hi != 1000 {
		t.Errorf("bucket 8 = [%d,%d), expected [800,1000)", buckets[8].lo, buckets[8].hi)
	}
	last := buckets[9]
	if last.lo != 900 || last.hi != 1000 {
		t.Errorf("bucket 9 = [%d,%d), expected [900,1000)", last.lo, last.hi)
	}
	for k := 1; k < len(buckets); k++ {
		if buckets[k].lo >= buckets[k-1].hi {
			t.Errorf("buckets %d and %d must overlap", k-1, k)
		}
	}
	if got := buildBuckets(0, 10); got != nil {
		t.Errorf("empty series should produce no buckets")
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name      string
		edge      float32
		fullStart float32
		fullWidth float32
		expected  int
	}{
		{"left edge at origin", 0, 0, 1000, 0},
		{"interior edge", 450, 0, 1000, 4},
		{"right edge just inside", 999, 0, 1000, 9},
		{"edge past the extent clamps", 2000, 0, 1000, 9},
		{"edge before the extent clamps", -50, 0, 1000, 0},
		{"panned extent shifts the origin", 0, -500, 1000, 5},
		{"zoomed extent widens buckets", 900, -7000, 8000, 9},
		{"degenerate extent", 100, 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := bucketFor(tc.edge, tc.fullStart, tc.fullWidth, 10); got != tc.expected {
				t.Errorf("bucketFor(%f, %f, %f) = %d, expected %d", tc.edge, tc.fullStart, tc.fullWidth, got, tc.expected)
			}
		})
	}
}

func TestLodChannelCaching(t *testing.T) {
	view := syntheticView(10001)
	var lc lodChannel
	if !lc.update(view, 800, 10) {
		t.Fatalf("first update should rebuild the cache")
	}
	overviewBacking := &lc.overview.Times[0]
	if lc.update(view, 800, 10) {
		t.Errorf("update without growth should leave the cache alone")
	}
	if &lc.overview.Times[0] != overviewBacking {
		t.Errorf("overview arrays must be reused while the source is unchanged")
	}

	slice1, rebound := lc.detail(view, 2, 3)
	if !rebound {
		t.Fatalf("first detail selection should rebind")
	}
	if slice1.Len() == 0 || slice1.Len() == view.Len() {
		t.Fatalf("detail slice should be a proper sub-series, got %d points", slice1.Len())
	}
	if _, rebound := lc.detail(view, 2, 3); rebound {
		t.Errorf("re-selecting the same buckets must not rebind")
	}
	if _, rebound := lc.detail(view, 3, 4); !rebound {
		t.Errorf("selecting different buckets must rebind")
	}
	if lc.rebinds != 2 {
		t.Errorf("expected 2 rebinds, got %d", lc.rebinds)
	}

	grown := syntheticView(20000)
	if !lc.update(grown, 800, 10) {
		t.Errorf("growth should rebuild the cache")
	}
}
