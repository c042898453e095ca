package main

import (
	"image"
	"image/color"

	"gioui.org/io/pointer"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

const (
	// regionHandleWidth is the grab width of a region's resize handles
	// in dp.
	regionHandleWidth = 6
	// instantMarkerWidth is the drawn width of an instant region's
	// marker in dp.
	instantMarkerWidth = 3
)

const (
	regionBaseAlpha      = 60
	regionHighlightAlpha = 100
	regionSelectedAlpha  = 140
)

// regionAlpha returns the fill opacity for a region band. Emphasized
// states are always at least as opaque as the resting state.
func regionAlpha(selected, highlighted bool) uint8 {
	switch {
	case selected:
		return regionSelectedAlpha
	case highlighted:
		return regionHighlightAlpha
	default:
		return regionBaseAlpha
	}
}

// brushZone identifies which part of a region brush a pointer gesture
// grabbed.
type brushZone uint8

const (
	zoneBody brushZone = iota
	zoneLeft
	zoneRight
)

// brushDrag tracks one in-flight pointer gesture. startPx and endPx
// freeze the region's pixel bounds at press time so that the drag
// preview is unaffected by store updates arriving mid-gesture.
type brushDrag struct {
	active         bool
	zone           brushZone
	pointerID      pointer.ID
	originPx       float32
	lastPx         float32
	startPx, endPx float32
}

// regionBrush is the interactive pixel-space handle set for one region.
// Authoritative bounds live in the annotation store; the brush only
// carries the latest snapshot plus transient gesture state.
type regionBrush struct {
	id          string
	index       int
	start, end  int64
	instant     bool
	selected    bool
	highlighted bool
	label       string
	color       color.NRGBA

	drag brushDrag
}

// previewBounds returns the pixel bounds of the in-flight drag, with
// the grabbed zone displaced by the pointer's travel.
func (b *regionBrush) previewBounds() (float32, float32) {
	delta := b.drag.lastPx - b.drag.originPx
	s, e := b.drag.startPx, b.drag.endPx
	switch b.drag.zone {
	case zoneLeft:
		s += delta
	case zoneRight:
		e += delta
	default:
		s += delta
		e += delta
	}
	if e < s {
		s, e = e, s
	}
	return s, e
}

// brushEnv carries the per-frame context a gesture needs to resolve
// pixels into trace times.
type brushEnv struct {
	proj        projection
	snap        channelView
	handlePx    float32
	markerPx    float32
	activeLabel string
}

// regionController mirrors the store's region list as interactive
// brushes and translates completed gestures back into store operations.
// It never mutates regions itself: every change round-trips through the
// annotation store.
type regionController struct {
	brushes  []*regionBrush
	byID     map[string]*regionBrush
	dragging *regionBrush
	creating bool
	creation brushDrag
	gen      int
}

func newRegionController() *regionController {
	return &regionController{byID: make(map[string]*regionBrush)}
}

// reconcile rebuilds the brush list to mirror the latest region
// snapshot, preserving gesture state on brushes whose regions survive.
func (rc *regionController) reconcile(regions []backend.Region, colorFor func(label string) color.NRGBA) {
	next := make([]*regionBrush, 0, len(regions))
	live := make(map[string]bool, len(regions))
	for i, r := range regions {
		b := rc.byID[r.ID]
		if b == nil {
			b = &regionBrush{id: r.ID}
			rc.byID[r.ID] = b
		}
		b.index = i
		b.start, b.end = r.Start, r.End
		b.instant = r.Instant
		b.selected = r.Selected
		b.highlighted = r.Highlighted
		b.label = r.Label
		b.color = colorFor(r.Label)
		next = append(next, b)
		live[r.ID] = true
	}
	for id, b := range rc.byID {
		if !live[id] {
			if rc.dragging == b {
				rc.dragging = nil
			}
			delete(rc.byID, id)
		}
	}
	rc.brushes = next
}

// adoptGeneration cancels in-flight gestures when the widget's pixel
// geometry has been invalidated, since their frozen pixel anchors no
// longer correspond to trace times.
func (rc *regionController) adoptGeneration(gen int) {
	if gen == rc.gen {
		return
	}
	rc.gen = gen
	rc.cancel()
}

// hit locates the topmost brush zone under an X coordinate. Regions
// later in the list draw on top, so they hit first.
func (rc *regionController) hit(px float32, env brushEnv) (*regionBrush, brushZone) {
	for i := len(rc.brushes) - 1; i >= 0; i-- {
		b := rc.brushes[i]
		s := env.proj.pixel(b.start)
		e := env.proj.pixel(b.end)
		if e < s {
			s, e = e, s
		}
		if b.instant {
			half := env.handlePx / 2
			if px >= s-half && px <= s+half {
				return b, zoneBody
			}
			continue
		}
		if e-s <= 2*env.handlePx {
			// Narrow regions expose only their handles.
			half := env.handlePx / 2
			if px < s-half || px > e+half {
				continue
			}
			if px < (s+e)/2 {
				return b, zoneLeft
			}
			return b, zoneRight
		}
		if px < s || px > e {
			continue
		}
		if px <= s+env.handlePx {
			return b, zoneLeft
		}
		if px >= e-env.handlePx {
			return b, zoneRight
		}
		return b, zoneBody
	}
	return nil, zoneBody
}

// press begins a gesture. Presses on a brush start a move or resize;
// presses on empty plot space start a creation sketch. A second pointer
// is ignored while a gesture is in flight.
func (rc *regionController) press(px float32, pid pointer.ID, env brushEnv) {
	if rc.dragging != nil || rc.creating {
		return
	}
	if b, zone := rc.hit(px, env); b != nil {
		if b.instant {
			zone = zoneBody
		}
		b.drag = brushDrag{
			active:    true,
			zone:      zone,
			pointerID: pid,
			originPx:  px,
			lastPx:    px,
			startPx:   env.proj.pixel(b.start),
			endPx:     env.proj.pixel(b.end),
		}
		rc.dragging = b
		return
	}
	rc.creating = true
	rc.creation = brushDrag{active: true, pointerID: pid, originPx: px, lastPx: px}
}

func (rc *regionController) drag(px float32, pid pointer.ID) {
	if rc.dragging != nil && rc.dragging.drag.pointerID == pid {
		rc.dragging.drag.lastPx = px
	} else if rc.creating && rc.creation.pointerID == pid {
		rc.creation.lastPx = px
	}
}

// release completes a gesture, returning the store operations it
// resolved to. Only genuine pointer releases reach here, so programmatic
// region changes can never masquerade as gestures.
func (rc *regionController) release(px float32, pid pointer.ID, env brushEnv) []backend.AnnotationOp {
	if rc.dragging != nil && rc.dragging.drag.pointerID == pid {
		b := rc.dragging
		b.drag.lastPx = px
		ops := rc.finishRegionDrag(b, env)
		b.drag = brushDrag{}
		rc.dragging = nil
		return ops
	}
	if rc.creating && rc.creation.pointerID == pid {
		rc.creation.lastPx = px
		ops := rc.finishCreation(env)
		rc.creating = false
		rc.creation = brushDrag{}
		return ops
	}
	return nil
}

// cancel abandons any in-flight gesture without emitting operations.
func (rc *regionController) cancel() {
	if rc.dragging != nil {
		rc.dragging.drag = brushDrag{}
		rc.dragging = nil
	}
	rc.creating = false
	rc.creation = brushDrag{}
}

// finishRegionDrag resolves a completed move or resize. The dragged
// bounds snap to recorded samples; a gesture whose snapped bounds equal
// the region's current bounds is a click and selects the region
// instead of moving it.
func (rc *regionController) finishRegionDrag(b *regionBrush, env brushEnv) []backend.AnnotationOp {
	sPx, ePx := b.previewBounds()
	t0, ok0 := stickTime(env.snap, env.proj, sPx)
	t1, ok1 := stickTime(env.snap, env.proj, ePx)
	if !ok0 || !ok1 {
		return nil
	}
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	if b.instant {
		t1 = t0
	}
	if t0 == b.start && t1 == b.end {
		return []backend.AnnotationOp{
			backend.OpSelectRegion{ID: b.id},
			backend.OpRefresh{},
		}
	}
	return []backend.AnnotationOp{
		backend.OpMoveRegion{Index: b.index, ID: b.id, Start: t0, End: t1},
	}
}

// finishCreation resolves a completed sketch on empty plot space. A
// click with an active label creates an instant region, a drag creates
// an interval region, and a click without an active label clears the
// selection.
func (rc *regionController) finishCreation(env brushEnv) []backend.AnnotationOp {
	aPx, bPx := rc.creation.originPx, rc.creation.lastPx
	if bPx < aPx {
		aPx, bPx = bPx, aPx
	}
	if env.activeLabel == "" {
		if aPx == bPx {
			return []backend.AnnotationOp{backend.OpUnselectAll{}}
		}
		return nil
	}
	t0, ok0 := stickTime(env.snap, env.proj, aPx)
	t1, ok1 := stickTime(env.snap, env.proj, bPx)
	if !ok0 || !ok1 {
		return nil
	}
	if aPx == bPx {
		return []backend.AnnotationOp{
			backend.OpCreateRegion{Label: env.activeLabel, Start: t0, End: t0, Instant: true},
		}
	}
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	return []backend.AnnotationOp{
		backend.OpCreateRegion{Label: env.activeLabel, Start: t0, End: t1},
	}
}

// draw paints the region bands, their handles, and any in-flight
// creation sketch across the plot's height.
func (rc *regionController) draw(gtx C, env brushEnv, height int) {
	for _, b := range rc.brushes {
		var sPx, ePx float32
		if b.drag.active {
			sPx, ePx = b.previewBounds()
		} else {
			sPx = env.proj.pixel(b.start)
			ePx = env.proj.pixel(b.end)
			if ePx < sPx {
				sPx, ePx = ePx, sPx
			}
		}
		alpha := regionAlpha(b.selected, b.highlighted)
		if b.instant {
			half := env.markerPx / 2
			fillRect(gtx, withAlpha(b.color, max(alpha, regionHighlightAlpha)), sPx-half, sPx+half, 0, height)
			continue
		}
		fillRect(gtx, withAlpha(b.color, alpha), sPx, ePx, 0, height)
		// Edge strips make the resize handles discoverable.
		handleAlpha := uint8(min(int(alpha)+60, 255))
		fillRect(gtx, withAlpha(b.color, handleAlpha), sPx, sPx+env.handlePx/2, 0, height)
		fillRect(gtx, withAlpha(b.color, handleAlpha), ePx-env.handlePx/2, ePx, 0, height)
	}
	if rc.creating {
		aPx, bPx := rc.creation.originPx, rc.creation.lastPx
		if bPx < aPx {
			aPx, bPx = bPx, aPx
		}
		sketch := color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: regionBaseAlpha}
		fillRect(gtx, sketch, aPx, bPx+1, 0, height)
	}
}

func fillRect(gtx C, c color.NRGBA, x0, x1 float32, y0, y1 int) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	paint.FillShape(gtx.Ops, c, clip.Rect{
		Min: image.Point{X: int(floor(x0)), Y: y0},
		Max: image.Point{X: int(ceil(x1)), Y: y1},
	}.Op())
}

// opQueue defers store operations generated during event handling until
// the frame's handlers have all run, preserving submission order.
type opQueue struct {
	pending []backend.AnnotationOp
}

func (q *opQueue) enqueue(ops ...backend.AnnotationOp) {
	q.pending = append(q.pending, ops...)
}

func (q *opQueue) len() int {
	return len(q.pending)
}

// flush delivers the queued operations in order and empties the queue.
func (q *opQueue) flush(apply func(backend.AnnotationOp)) int {
	n := len(q.pending)
	for _, op := range q.pending {
		apply(op)
	}
	q.pending = q.pending[:0]
	return n
}
