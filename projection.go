package main

import "math"

// AxisKind selects how a chart interprets the time column of a trace.
type AxisKind uint8

const (
	// AxisTemporal treats times as nanosecond timestamps. Temporal
	// axes always run ascending.
	AxisTemporal AxisKind = iota
	// AxisLinear treats times as unitless ordinates and permits
	// descending domains.
	AxisLinear
)

// projection is an affine mapping between sample times and pixel X
// coordinates. A projection is immutable once built, so holders of a
// copy are unaffected when the chart rebuilds its own. Arithmetic is
// performed on offsets from the domain start because nanosecond
// timestamps exceed the integers representable in a float64.
type projection struct {
	kind   AxisKind
	d0, d1 int64
	r0, r1 float32
	// scale is pixels per time unit, zero when the domain is a single
	// point. It is negative for descending linear domains.
	scale float64
}

func newProjection(kind AxisKind, d0, d1 int64, r0, r1 float32) projection {
	if kind == AxisTemporal && d1 < d0 {
		d0, d1 = d1, d0
	}
	p := projection{kind: kind, d0: d0, d1: d1, r0: r0, r1: r1}
	if d1 != d0 {
		p.scale = float64(r1-r0) / float64(d1-d0)
	}
	return p
}

// pixel maps a time to its X coordinate. Times outside the domain
// extrapolate along the same line. A degenerate domain maps every time
// to the start of the pixel range rather than producing NaN.
func (p projection) pixel(t int64) float32 {
	return p.r0 + float32(float64(t-p.d0)*p.scale)
}

// invert maps an X coordinate back to the nearest representable time.
func (p projection) invert(px float32) int64 {
	if p.scale == 0 {
		return p.d0
	}
	return p.d0 + int64(math.Round(float64(px-p.r0)/p.scale))
}

// invertF is invert without quantization to integer times.
func (p projection) invertF(px float32) float64 {
	if p.scale == 0 {
		return float64(p.d0)
	}
	return float64(p.d0) + float64(px-p.r0)/p.scale
}

func (p projection) domain() (int64, int64) {
	return p.d0, p.d1
}

func (p projection) pixelRange() (float32, float32) {
	return p.r0, p.r1
}

func (p projection) width() float32 {
	return p.r1 - p.r0
}

// clampPixel restricts an X coordinate to the projection's pixel range.
func (p projection) clampPixel(px float32) float32 {
	lo, hi := p.r0, p.r1
	if hi < lo {
		lo, hi = hi, lo
	}
	return min(max(px, lo), hi)
}

// copy returns a frozen duplicate of the projection.
func (p projection) copy() projection {
	return p
}

// valueProjection maps channel values to pixel Y coordinates with
// larger values higher on screen. yTop and yBottom already account for
// any vertical margins the caller reserves.
type valueProjection struct {
	v0, vSpan     float64
	yTop, yBottom float32
}

func newValueProjection(vMin, vMax float64, yTop, yBottom float32) valueProjection {
	return valueProjection{
		v0:      vMin,
		vSpan:   vMax - vMin,
		yTop:    yTop,
		yBottom: yBottom,
	}
}

// pixel maps a value to its Y coordinate. A degenerate value range maps
// every value to the vertical midline.
func (vp valueProjection) pixel(v float64) float32 {
	if vp.vSpan == 0 {
		return (vp.yTop + vp.yBottom) / 2
	}
	return vp.yBottom + float32((v-vp.v0)/vp.vSpan)*(vp.yTop-vp.yBottom)
}
