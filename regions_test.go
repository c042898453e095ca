package main

import (
	"image/color"
	"testing"

	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

// brushTestEnv maps a 0..1000ns domain onto 0..1000px with samples
// every 100ns, so pixel and time coordinates coincide.
func brushTestEnv(activeLabel string) brushEnv {
	times := make([]int64, 11)
	for i := range times {
		times[i] = int64(i) * 100
	}
	return brushEnv{
		proj:        newProjection(AxisTemporal, 0, 1000, 0, 1000),
		snap:        channelView{Times: times, Values: make([]float64, len(times))},
		handlePx:    12,
		markerPx:    6,
		activeLabel: activeLabel,
	}
}

func plainColor(string) color.NRGBA {
	return color.NRGBA{R: 0xff, A: 0xff}
}

func TestCreationGestures(t *testing.T) {
	t.Run("drag creates interval", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		rc.press(150, 1, env)
		rc.drag(450, 1)
		ops := rc.release(450, 1, env)
		if len(ops) != 1 {
			t.Fatalf("got %d ops, want 1", len(ops))
		}
		want := backend.OpCreateRegion{Label: "run", Start: 200, End: 500}
		if ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want %#v", ops[0], want)
		}
	})
	t.Run("click creates instant", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		rc.press(325, 1, env)
		ops := rc.release(325, 1, env)
		if len(ops) != 1 {
			t.Fatalf("got %d ops, want 1", len(ops))
		}
		want := backend.OpCreateRegion{Label: "run", Start: 300, End: 300, Instant: true}
		if ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want %#v", ops[0], want)
		}
	})
	t.Run("drag collapsing to one sample stays interval", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		rc.press(240, 1, env)
		rc.drag(244, 1)
		ops := rc.release(244, 1, env)
		want := backend.OpCreateRegion{Label: "run", Start: 200, End: 200}
		if len(ops) != 1 || ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want [%#v]", ops, want)
		}
	})
	t.Run("click without label clears selection", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("")
		rc.press(500, 1, env)
		ops := rc.release(500, 1, env)
		if len(ops) != 1 || ops[0] != backend.AnnotationOp(backend.OpUnselectAll{}) {
			t.Errorf("got %#v, want unselect-all", ops)
		}
	})
	t.Run("drag without label does nothing", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("")
		rc.press(100, 1, env)
		rc.drag(400, 1)
		if ops := rc.release(400, 1, env); len(ops) != 0 {
			t.Errorf("got %#v, want none", ops)
		}
	})
}

func reconcileOne(rc *regionController, r backend.Region) {
	rc.reconcile([]backend.Region{r}, plainColor)
}

func TestRegionDragGestures(t *testing.T) {
	base := backend.Region{ID: "region-0", Label: "run", Start: 200, End: 500, Selected: true}

	t.Run("body drag moves both bounds", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		reconcileOne(rc, base)
		rc.press(350, 1, env)
		rc.drag(550, 1)
		ops := rc.release(550, 1, env)
		want := backend.OpMoveRegion{Index: 0, ID: "region-0", Start: 400, End: 700}
		if len(ops) != 1 || ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want [%#v]", ops, want)
		}
	})
	t.Run("left handle resizes start", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		reconcileOne(rc, base)
		rc.press(205, 1, env)
		rc.drag(95, 1)
		ops := rc.release(95, 1, env)
		want := backend.OpMoveRegion{Index: 0, ID: "region-0", Start: 100, End: 500}
		if len(ops) != 1 || ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want [%#v]", ops, want)
		}
	})
	t.Run("crossing resize normalizes bounds", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		reconcileOne(rc, base)
		rc.press(495, 1, env)
		rc.drag(45, 1)
		ops := rc.release(45, 1, env)
		want := backend.OpMoveRegion{Index: 0, ID: "region-0", Start: 100, End: 200}
		if len(ops) != 1 || ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want [%#v]", ops, want)
		}
	})
	t.Run("unmoved release selects instead of moving", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		reconcileOne(rc, backend.Region{ID: "region-0", Label: "run", Start: 200, End: 500})
		rc.press(350, 1, env)
		ops := rc.release(350, 1, env)
		if len(ops) != 2 {
			t.Fatalf("got %d ops, want 2", len(ops))
		}
		if ops[0] != backend.AnnotationOp(backend.OpSelectRegion{ID: "region-0"}) {
			t.Errorf("first op %#v, want select", ops[0])
		}
		if ops[1] != backend.AnnotationOp(backend.OpRefresh{}) {
			t.Errorf("second op %#v, want refresh", ops[1])
		}
	})
	t.Run("sub-sample wiggle still counts as click", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		reconcileOne(rc, base)
		rc.press(350, 1, env)
		rc.drag(350.3, 1)
		ops := rc.release(350.3, 1, env)
		if len(ops) != 2 || ops[0] != backend.AnnotationOp(backend.OpSelectRegion{ID: "region-0"}) {
			t.Errorf("got %#v, want select+refresh", ops)
		}
	})
	t.Run("instant region moves as a point", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		reconcileOne(rc, backend.Region{ID: "region-0", Label: "run", Start: 300, End: 300, Instant: true})
		rc.press(300, 1, env)
		rc.drag(455, 1)
		ops := rc.release(455, 1, env)
		want := backend.OpMoveRegion{Index: 0, ID: "region-0", Start: 500, End: 500}
		if len(ops) != 1 || ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want [%#v]", ops, want)
		}
	})
	t.Run("second pointer is ignored mid-gesture", func(t *testing.T) {
		rc := newRegionController()
		env := brushTestEnv("run")
		reconcileOne(rc, base)
		rc.press(350, 1, env)
		rc.press(600, 2, env)
		rc.drag(650, 2)
		if ops := rc.release(650, 2, env); len(ops) != 0 {
			t.Fatalf("second pointer produced ops: %#v", ops)
		}
		rc.drag(550, 1)
		ops := rc.release(550, 1, env)
		want := backend.OpMoveRegion{Index: 0, ID: "region-0", Start: 400, End: 700}
		if len(ops) != 1 || ops[0] != backend.AnnotationOp(want) {
			t.Errorf("got %#v, want [%#v]", ops, want)
		}
	})
}

func TestBrushHitZones(t *testing.T) {
	rc := newRegionController()
	env := brushTestEnv("")
	rc.reconcile([]backend.Region{
		{ID: "region-0", Label: "run", Start: 200, End: 500},
		{ID: "region-1", Label: "walk", Start: 300, End: 300, Instant: true},
	}, plainColor)

	cases := []struct {
		px   float32
		id   string
		zone brushZone
	}{
		{190, "", zoneBody},
		{200, "region-0", zoneLeft},
		{212, "region-0", zoneLeft},
		{213, "region-0", zoneBody},
		{350, "region-0", zoneBody},
		{488, "region-0", zoneRight},
		{500, "region-0", zoneRight},
		{510, "", zoneBody},
		// The instant marker draws above region-0 and hits first.
		{296, "region-1", zoneBody},
		{304, "region-1", zoneBody},
		{310, "region-0", zoneBody},
	}
	for _, c := range cases {
		b, zone := rc.hit(c.px, env)
		switch {
		case c.id == "" && b != nil:
			t.Errorf("hit(%v) = %s, want none", c.px, b.id)
		case c.id != "" && b == nil:
			t.Errorf("hit(%v) = none, want %s/%d", c.px, c.id, c.zone)
		case b != nil && (b.id != c.id || zone != c.zone):
			t.Errorf("hit(%v) = %s/%d, want %s/%d", c.px, b.id, zone, c.id, c.zone)
		}
	}

	t.Run("narrow region exposes only handles", func(t *testing.T) {
		rc := newRegionController()
		reconcileOne(rc, backend.Region{ID: "region-0", Label: "run", Start: 300, End: 310})
		for _, c := range []struct {
			px   float32
			hit  bool
			zone brushZone
		}{
			{290, false, zoneBody},
			{300, true, zoneLeft},
			{308, true, zoneRight},
			{316, true, zoneRight},
			{317, false, zoneBody},
		} {
			b, zone := rc.hit(c.px, env)
			if (b != nil) != c.hit {
				t.Errorf("hit(%v) presence = %v, want %v", c.px, b != nil, c.hit)
			} else if b != nil && zone != c.zone {
				t.Errorf("hit(%v) zone = %d, want %d", c.px, zone, c.zone)
			}
		}
	})
}

func TestReconcileKeepsGestureState(t *testing.T) {
	rc := newRegionController()
	env := brushTestEnv("run")
	reconcileOne(rc, backend.Region{ID: "region-0", Label: "run", Start: 200, End: 500})
	rc.press(350, 1, env)
	rc.drag(550, 1)

	// A store update mid-drag rebinds the brush without disturbing the
	// gesture's frozen pixel anchors.
	rc.reconcile([]backend.Region{
		{ID: "region-9", Label: "walk", Start: 0, End: 100},
		{ID: "region-0", Label: "run", Start: 0, End: 1000},
	}, plainColor)
	if rc.dragging == nil || rc.dragging.id != "region-0" {
		t.Fatal("drag did not survive reconcile")
	}
	ops := rc.release(550, 1, env)
	want := backend.OpMoveRegion{Index: 1, ID: "region-0", Start: 400, End: 700}
	if len(ops) != 1 || ops[0] != backend.AnnotationOp(want) {
		t.Errorf("got %#v, want [%#v]", ops, want)
	}

	t.Run("removed region cancels its drag", func(t *testing.T) {
		rc := newRegionController()
		reconcileOne(rc, backend.Region{ID: "region-0", Label: "run", Start: 200, End: 500})
		rc.press(350, 1, env)
		rc.reconcile(nil, plainColor)
		if rc.dragging != nil {
			t.Error("drag outlived its region")
		}
		if ops := rc.release(550, 1, env); len(ops) != 0 {
			t.Errorf("stale release produced ops: %#v", ops)
		}
	})
}

func TestGenerationChangeCancelsGestures(t *testing.T) {
	rc := newRegionController()
	env := brushTestEnv("run")
	reconcileOne(rc, backend.Region{ID: "region-0", Label: "run", Start: 200, End: 500})
	rc.adoptGeneration(0)
	rc.press(350, 1, env)
	rc.adoptGeneration(1)
	if rc.dragging != nil {
		t.Error("resize did not cancel region drag")
	}
	rc.press(700, 1, env)
	rc.adoptGeneration(1)
	if !rc.creating {
		t.Error("same generation cancelled a live sketch")
	}
}

func TestOpQueueOrder(t *testing.T) {
	var q opQueue
	q.enqueue(backend.OpSelectRegion{ID: "region-0"})
	q.enqueue(backend.OpRefresh{}, backend.OpUnselectAll{})
	if q.len() != 3 {
		t.Fatalf("queue length %d, want 3", q.len())
	}
	var got []backend.AnnotationOp
	n := q.flush(func(op backend.AnnotationOp) {
		got = append(got, op)
	})
	if n != 3 || q.len() != 0 {
		t.Fatalf("flush returned %d, queue left %d", n, q.len())
	}
	wantOrder := []backend.AnnotationOp{
		backend.OpSelectRegion{ID: "region-0"},
		backend.OpRefresh{},
		backend.OpUnselectAll{},
	}
	for i, op := range wantOrder {
		if got[i] != op {
			t.Errorf("op %d = %#v, want %#v", i, got[i], op)
		}
	}
	if q.flush(func(backend.AnnotationOp) {}) != 0 {
		t.Error("second flush delivered ops")
	}
}
