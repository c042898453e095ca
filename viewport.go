package main

import "math"

type lodMode uint8

const (
	// modeDirect draws the raw samples. Small channels never leave it.
	modeDirect lodMode = iota
	// modeOverview draws the cached decimated copy of each channel.
	modeOverview
	// modeDetail draws raw sub-series selected by bucket.
	modeDetail
)

func (m lodMode) String() string {
	switch m {
	case modeOverview:
		return "overview"
	case modeDetail:
		return "detail"
	default:
		return "direct"
	}
}

// viewport owns the visible-range state of one chart and decides which
// level of detail serves it. All changes funnel through apply, which
// runs synchronously so that a frame never observes a half-updated
// viewport.
type viewport struct {
	kind     AxisKind
	zoomStep int
	budget   int

	initialized          bool
	domainMin, domainMax int64
	rangeStart, rangeEnd int64
	width                float32
	seriesLen            int

	// full maps the whole data extent across the widget width and
	// serves as the fixed reference for bucket arithmetic. live maps
	// the visible range across the same width.
	full projection
	live projection

	mode      lodMode
	decimated bool
	// scale and translate place the full extent in live pixel space:
	// live.pixel(t) == scale*full.pixel(t) + translate.
	scale     float64
	translate float32

	transitions int
	brushGen    int
}

func newViewport(kind AxisKind, zoomStep, budget int) *viewport {
	if zoomStep < 2 {
		zoomStep = defaultZoomStep
	}
	if budget < 16 {
		budget = defaultPointBudget
	}
	return &viewport{kind: kind, zoomStep: zoomStep, budget: budget}
}

// apply reconciles the viewport against the latest domain, visible
// range, widget width, and longest channel length. Reapplying identical
// inputs is a no-op, so repeated delivery of the same range cannot
// restart transitions or invalidate pixel-anchored widgets.
func (v *viewport) apply(domainMin, domainMax, rangeStart, rangeEnd int64, width float32, seriesLen int) {
	if v.kind == AxisTemporal {
		if domainMax < domainMin {
			domainMin, domainMax = domainMax, domainMin
		}
		if rangeEnd < rangeStart {
			rangeStart, rangeEnd = rangeEnd, rangeStart
		}
	}
	if v.initialized &&
		v.domainMin == domainMin && v.domainMax == domainMax &&
		v.rangeStart == rangeStart && v.rangeEnd == rangeEnd &&
		v.width == width && v.seriesLen == seriesLen {
		return
	}
	widthChanged := !v.initialized || v.width != width
	v.initialized = true
	v.domainMin, v.domainMax = domainMin, domainMax
	v.rangeStart, v.rangeEnd = rangeStart, rangeEnd
	v.width = width
	v.seriesLen = seriesLen

	v.full = newProjection(v.kind, domainMin, domainMax, 0, width)
	v.live = newProjection(v.kind, rangeStart, rangeEnd, 0, width)

	fullInterval := absInt64(domainMax - domainMin)
	viewInterval := absInt64(rangeEnd - rangeStart)
	if viewInterval == 0 {
		v.scale = 1
	} else {
		v.scale = float64(fullInterval) / float64(viewInterval)
	}
	v.translate = -float32(v.scale * float64(v.full.pixel(rangeStart)))

	v.decimated = needsDecimation(seriesLen, v.budget, v.zoomStep)
	newMode := modeDirect
	if v.decimated {
		newMode = modeOverview
		if v.scale > float64(v.zoomStep) {
			newMode = modeDetail
		}
	}
	if newMode != v.mode {
		v.mode = newMode
		v.transitions++
	}
	if widthChanged {
		v.brushGen++
	}
}

// visibleBuckets returns the bucket indices covering the live range.
func (v *viewport) visibleBuckets() (kL, kR int) {
	fullStart := v.translate
	fullWidth := float32(v.scale * float64(v.width))
	kL = bucketFor(0, fullStart, fullWidth, v.zoomStep)
	kR = bucketFor(v.width, fullStart, fullWidth, v.zoomStep)
	if kR < kL {
		kL, kR = kR, kL
	}
	return kL, kR
}

// zoomedRange derives a new visible range from a scroll distance,
// holding the end of the range fixed. Growth past the data domain
// spills onto the opposite side so that zooming out always converges on
// the full extent.
func (v *viewport) zoomedRange(distPx, heightPx float32) (start, end int64, ok bool) {
	if !v.initialized || heightPx <= 0 || distPx == 0 {
		return 0, 0, false
	}
	proportion := 1 + float64(distPx)/float64(heightPx)
	if proportion <= 0 {
		return 0, 0, false
	}
	interval := v.rangeEnd - v.rangeStart
	newInterval := int64(math.Round(float64(interval) * proportion))
	newInterval = clampMagnitude(newInterval, 1, absInt64(v.domainMax-v.domainMin), interval)
	start, end = v.rangeEnd-newInterval, v.rangeEnd
	return v.clampShifted(start, end)
}

// pannedRange derives a new visible range from a horizontal pixel
// offset, preserving the range's length.
func (v *viewport) pannedRange(distPx float32) (start, end int64, ok bool) {
	if !v.initialized || distPx == 0 || v.live.scale == 0 {
		return 0, 0, false
	}
	dt := int64(math.Round(float64(distPx) / v.live.scale))
	if dt == 0 {
		return 0, 0, false
	}
	return v.clampShifted(v.rangeStart+dt, v.rangeEnd+dt)
}

// scrolledRange derives a new visible range from a scrollbar movement
// expressed as a proportion of the whole domain.
func (v *viewport) scrolledRange(proportion float32) (start, end int64, ok bool) {
	if !v.initialized || proportion == 0 {
		return 0, 0, false
	}
	dt := int64(math.Round(float64(proportion) * float64(v.domainMax-v.domainMin)))
	if dt == 0 {
		return 0, 0, false
	}
	return v.clampShifted(v.rangeStart+dt, v.rangeEnd+dt)
}

// scrollPosition reports where the live range sits inside the domain as
// start and end proportions, for driving a scrollbar indicator.
func (v *viewport) scrollPosition() (lo, hi float32) {
	fullInterval := v.domainMax - v.domainMin
	if fullInterval == 0 {
		return 0, 1
	}
	lo = float32(float64(v.rangeStart-v.domainMin) / float64(fullInterval))
	hi = float32(float64(v.rangeEnd-v.domainMin) / float64(fullInterval))
	return lo, hi
}

// clampShifted slides a candidate range back inside the domain without
// changing its length, then reports whether it differs from the current
// range.
func (v *viewport) clampShifted(start, end int64) (int64, int64, bool) {
	lo, hi := start, end
	reversed := hi < lo
	if reversed {
		lo, hi = hi, lo
	}
	dMin, dMax := v.domainMin, v.domainMax
	if dMax < dMin {
		dMin, dMax = dMax, dMin
	}
	if span := hi - lo; span >= dMax-dMin {
		lo, hi = dMin, dMax
	} else if lo < dMin {
		hi += dMin - lo
		lo = dMin
	} else if hi > dMax {
		lo -= hi - dMax
		hi = dMax
	}
	if reversed {
		lo, hi = hi, lo
	}
	if lo == v.rangeStart && hi == v.rangeEnd {
		return 0, 0, false
	}
	return lo, hi, true
}

func absInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// clampMagnitude bounds x's absolute value to [lo,hi], preserving the
// sign of ref when x collapses to zero.
func clampMagnitude(x, lo, hi, ref int64) int64 {
	neg := x < 0 || (x == 0 && ref < 0)
	mag := absInt64(x)
	mag = min(max(mag, lo), hi)
	if neg {
		return -mag
	}
	return mag
}
