package main

import (
	"gioui.org/f32"
	"gioui.org/io/pointer"
)

// trackerFlipMargin is how close to the plot's right edge the pointer
// may get, in dp, before the hover readout flips to the left side of
// the crosshair.
const trackerFlipMargin = 100

// tracker mirrors the pointer's position over the plot so the chart can
// draw a crosshair locked to the nearest recorded sample.
type tracker struct {
	hovered bool
	pos     f32.Point
}

// update feeds one pointer event into the tracker. Any event carrying a
// position keeps the crosshair live; leaving the plot hides it.
func (tr *tracker) update(kind pointer.Kind, pos f32.Point) {
	switch kind {
	case pointer.Leave, pointer.Cancel:
		tr.hovered = false
	default:
		tr.hovered = true
		tr.pos = pos
	}
}

// crosshair resolves the tracked position against the snapping channel,
// returning the snapped sample's index, trace time, and pixel column.
// Positions at or beyond the plot's right edge resolve to nothing.
func (tr *tracker) crosshair(snap channelView, proj projection) (idx int, t int64, px float32, ok bool) {
	if !tr.hovered {
		return 0, 0, 0, false
	}
	lo, hi := proj.pixelRange()
	if hi < lo {
		lo, hi = hi, lo
	}
	if tr.pos.X < lo || tr.pos.X >= hi {
		return 0, 0, 0, false
	}
	idx, ok = stickIndex(snap, proj, tr.pos.X)
	if !ok {
		return 0, 0, 0, false
	}
	t = snap.Times[idx]
	px = proj.pixel(t)
	return idx, t, px, true
}

// nearestSample finds the index of the channel sample closest in time
// to t. Ties between two equally distant samples break toward the later
// one, matching pixel snapping.
func nearestSample(ch channelView, t int64) (int, bool) {
	if ch.Len() == 0 {
		return 0, false
	}
	i := bisectLeft(ch.Times, float64(t))
	if i == ch.Len() {
		return i - 1, true
	}
	if i > 0 && t-ch.Times[i-1] < ch.Times[i]-t {
		i--
	}
	return i, true
}

// readoutOnLeft reports whether the hover readout should draw on the
// left side of the crosshair to stay clear of the plot's right edge.
func readoutOnLeft(px, width, margin float32) bool {
	return px > width-margin
}
