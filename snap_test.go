package main

import "testing"

func TestStick(t *testing.T) {
	ch := channelView{
		Times:  []int64{0, 100, 200, 300, 1000},
		Values: []float64{5, 6, 7, 8, 9},
	}
	proj := newProjection(AxisTemporal, 0, 1000, 0, 1000)
	tests := []struct {
		name     string
		px       float32
		expected int64
	}{
		{"exactly on a sample", 100, 100},
		{"nearest is left", 140, 100},
		{"nearest is right", 160, 200},
		{"tie breaks toward the later sample", 150, 200},
		{"tie between later samples", 250, 300},
		{"before the first sample", -50, 0},
		{"after the last sample", 2000, 1000},
		{"sparse gap resolves to closer side", 600, 300},
		{"sparse gap resolves to far sample", 700, 1000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, v, ok := stick(ch, proj, tc.px)
			if !ok {
				t.Fatalf("expected stick to resolve")
			}
			if got != tc.expected {
				t.Errorf("stick(%f) = %d, expected %d", tc.px, got, tc.expected)
			}
			for i, ts := range ch.Times {
				if ts == got && ch.Values[i] != v {
					t.Errorf("stick returned value %f for time %d, expected %f", v, got, ch.Values[i])
				}
			}
		})
	}
}

func TestStickAlwaysReturnsASample(t *testing.T) {
	ch := channelView{
		Times:  []int64{10, 20, 40, 80, 160, 320},
		Values: []float64{0, 1, 2, 3, 4, 5},
	}
	proj := newProjection(AxisTemporal, 10, 320, 0, 620)
	for px := float32(-100); px <= 720; px += 7 {
		got, _, ok := stick(ch, proj, px)
		if !ok {
			t.Fatalf("stick(%f) failed to resolve", px)
		}
		found := false
		for _, ts := range ch.Times {
			if ts == got {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("stick(%f) = %d, which is not a recorded sample", px, got)
		}
	}
}

func TestStickNearestProperty(t *testing.T) {
	ch := channelView{
		Times:  []int64{0, 130, 270, 400, 555, 710, 980},
		Values: []float64{1, 2, 3, 4, 5, 6, 7},
	}
	proj := newProjection(AxisTemporal, 0, 980, 0, 980)
	for px := float32(0); px <= 980; px++ {
		got, _, _ := stick(ch, proj, px)
		x := proj.invertF(px)
		gotDist := x - float64(got)
		if gotDist < 0 {
			gotDist = -gotDist
		}
		for _, ts := range ch.Times {
			dist := x - float64(ts)
			if dist < 0 {
				dist = -dist
			}
			if dist < gotDist {
				t.Fatalf("stick(%f) = %d at distance %f, but %d is closer at %f", px, got, gotDist, ts, dist)
			}
			if dist == gotDist && ts > got {
				t.Fatalf("stick(%f) = %d, but tie should break toward later sample %d", px, got, ts)
			}
		}
	}
}

func TestStickEmptyChannel(t *testing.T) {
	proj := newProjection(AxisTemporal, 0, 1000, 0, 800)
	if _, _, ok := stick(channelView{}, proj, 400); ok {
		t.Errorf("stick over an empty channel must report failure")
	}
}

func TestStickSingleSample(t *testing.T) {
	ch := channelView{Times: []int64{500}, Values: []float64{42}}
	proj := newProjection(AxisTemporal, 0, 1000, 0, 800)
	for _, px := range []float32{0, 400, 800} {
		got, v, ok := stick(ch, proj, px)
		if !ok || got != 500 || v != 42 {
			t.Errorf("stick(%f) = (%d,%f,%v), expected (500,42,true)", px, got, v, ok)
		}
	}
}

func TestStickReversedLinear(t *testing.T) {
	ch := channelView{
		Times:  []int64{0, 25, 50, 75, 100},
		Values: []float64{0, 1, 2, 3, 4},
	}
	proj := newProjection(AxisLinear, 100, 0, 0, 800)
	got, _, ok := stick(ch, proj, 0)
	if !ok || got != 100 {
		t.Errorf("left edge of a descending axis should stick to the largest ordinate, got %d", got)
	}
	got, _, ok = stick(ch, proj, 800)
	if !ok || got != 0 {
		t.Errorf("right edge of a descending axis should stick to the smallest ordinate, got %d", got)
	}
}
