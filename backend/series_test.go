package backend

import "testing"

func TestSeriesInsert(t *testing.T) {
	s := NewSeries("load1", "")
	if s.Initialized() {
		t.Errorf("series should not report initialized before first insert")
	}
	samples := []Sample{
		{TimestampNS: 100, Value: 2},
		{TimestampNS: 200, Value: 8},
		{TimestampNS: 200, Value: 4},
		{TimestampNS: 350, Value: 1},
	}
	for _, sample := range samples {
		if !s.Insert(sample) {
			t.Errorf("expected insert of %v to succeed", sample)
		}
	}
	if s.Insert(Sample{TimestampNS: 300, Value: 9}) {
		t.Errorf("expected insert of out-of-order sample to fail")
	}
	if !s.Initialized() {
		t.Errorf("series should report initialized after inserts")
	}
	if s.Len() != len(samples) {
		t.Errorf("expected %d samples, got %d", len(samples), s.Len())
	}
	if dMin, dMax := s.Domain(); dMin != 100 || dMax != 350 {
		t.Errorf("expected domain [100,350], got [%d,%d]", dMin, dMax)
	}
	if vMin, vMax := s.ValueRange(); vMin != 1 || vMax != 8 {
		t.Errorf("expected value range [1,8], got [%f,%f]", vMin, vMax)
	}
}

func TestSeriesSnapshotStability(t *testing.T) {
	s := NewSeries("watts", "W")
	for i := int64(0); i < 4; i++ {
		s.Insert(Sample{TimestampNS: i * 10, Value: float64(i)})
	}
	snap := s.Snapshot()
	for i := int64(4); i < 1000; i++ {
		s.Insert(Sample{TimestampNS: i * 10, Value: float64(i)})
	}
	if got := snap.Len(); got != 4 {
		t.Fatalf("snapshot grew after later inserts: len %d", got)
	}
	for i := range snap.Times {
		if snap.Times[i] != int64(i*10) || snap.Values[i] != float64(i) {
			t.Errorf("snapshot[%d] = (%d,%f), expected (%d,%d)", i, snap.Times[i], snap.Values[i], i*10, i)
		}
	}
	if snap.Name != "watts" || snap.Unit != "W" {
		t.Errorf("snapshot metadata = (%q,%q), expected (watts,W)", snap.Name, snap.Unit)
	}
}

func TestSeriesStatsBetween(t *testing.T) {
	s := NewSeries("temp", "C")
	for i, v := range []float64{10, 20, 30, 40, 50} {
		s.Insert(Sample{TimestampNS: int64(i * 100), Value: v})
	}
	tests := []struct {
		name           string
		a, b           int64
		max, mean, min float64
		ok             bool
	}{
		{
			name: "full interval",
			a:    0, b: 500,
			max: 50, mean: 30, min: 10, ok: true,
		},
		{
			name: "interior interval",
			a:    100, b: 300,
			max: 30, mean: 25, min: 20, ok: true,
		},
		{
			name: "reversed bounds",
			a:    300, b: 100,
			max: 30, mean: 25, min: 20, ok: true,
		},
		{
			name: "interval after data",
			a:    1000, b: 2000,
			ok: false,
		},
		{
			name: "empty interval",
			a:    150, b: 150,
			ok: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			maximum, mean, minimum, ok := s.StatsBetween(tc.a, tc.b)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if !ok {
				return
			}
			if maximum != tc.max || mean != tc.mean || minimum != tc.min {
				t.Errorf("expected (max,mean,min)=(%f,%f,%f), got (%f,%f,%f)",
					tc.max, tc.mean, tc.min, maximum, mean, minimum)
			}
		})
	}
}

func TestDatasetDomain(t *testing.T) {
	d := &Dataset{}
	d.SetHeadings([]string{"a", "b"}, []string{"", "MB"}, []int{7, 9})
	if d.Initialized() {
		t.Errorf("dataset should not report initialized before data arrives")
	}
	d.Insert(7, Sample{TimestampNS: 500, Value: 1})
	if d.Initialized() {
		t.Errorf("dataset should not report initialized while a channel is empty")
	}
	d.Insert(9, Sample{TimestampNS: 100, Value: 2})
	d.Insert(9, Sample{TimestampNS: 900, Value: 3})
	if !d.Initialized() {
		t.Errorf("dataset should report initialized once every channel has data")
	}
	if dMin, dMax := d.Domain(); dMin != 100 || dMax != 900 {
		t.Errorf("expected domain [100,900], got [%d,%d]", dMin, dMax)
	}
	snaps := d.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[1].Name != "b" || snaps[1].Unit != "MB" {
		t.Errorf("snapshot metadata = (%q,%q), expected (b,MB)", snaps[1].Name, snaps[1].Unit)
	}
}
