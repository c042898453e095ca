package main

import "math"

// Level-of-detail support for large traces. A chart drawing a trace
// with vastly more samples than pixels wastes most of its path
// building, so channels beyond a size threshold are decimated once into
// an overview copy, and the raw samples are pre-sliced into overlapping
// buckets that serve zoomed-in drawing.

const (
	defaultZoomStep    = 10
	defaultPointBudget = 800
)

// needsDecimation reports whether a channel is large enough to warrant
// the two-level drawing strategy. The threshold uses the configured
// point budget rather than the live widget width so that the decision
// is stable before the first layout.
func needsDecimation(seriesLen, pointBudget, zoomStep int) bool {
	return seriesLen > pointBudget*zoomStep
}

// decimate returns a copy of the view reduced to roughly target points
// by even index selection, always retaining the first and last sample.
// The selection is deterministic, so repeated calls over the same data
// yield identical copies.
func decimate(view channelView, target int) channelView {
	n := view.Len()
	if target < 2 || n <= target {
		return view
	}
	times := make([]int64, target)
	values := make([]float64, target)
	for k := 0; k < target; k++ {
		idx := k * (n - 1) / (target - 1)
		times[k] = view.Times[idx]
		values[k] = view.Values[idx]
	}
	out := view
	out.Times = times
	out.Values = values
	return out
}

// lodBucket is one pre-sliced index interval of the raw series. Each
// bucket spans two adjacent chunks of the series so that drawing near a
// bucket edge still has samples on both sides.
type lodBucket struct {
	lo, hi int
}

func buildBuckets(n, zoomStep int) []lodBucket {
	if n == 0 || zoomStep < 1 {
		return nil
	}
	chunk := (n + zoomStep - 1) / zoomStep
	buckets := make([]lodBucket, zoomStep)
	for k := range buckets {
		buckets[k] = lodBucket{
			lo: min(k*chunk, n),
			hi: min((k+2)*chunk, n),
		}
	}
	return buckets
}

// bucketFor maps a viewport edge at edgePx to the index of the bucket
// covering it. fullStartPx and fullWidthPx describe where the full
// extent of the series currently sits in pixel space, which may extend
// far beyond the widget when zoomed in. Out-of-range edges clamp to the
// nearest bucket.
func bucketFor(edgePx, fullStartPx, fullWidthPx float32, zoomStep int) int {
	if fullWidthPx <= 0 {
		return 0
	}
	k := int(math.Floor(float64(zoomStep) * float64(edgePx-fullStartPx) / float64(fullWidthPx)))
	return min(max(k, 0), zoomStep-1)
}

// lodChannel caches the decimation products for one channel. The cache
// is invalidated by growth of the source series, never by view changes,
// so zooming and panning reuse the same arrays frame after frame.
type lodChannel struct {
	srcLen             int
	overview           channelView
	buckets            []lodBucket
	detailLo, detailHi int
	rebinds            int
}

// update refreshes the cache when the channel has grown and reports
// whether a rebuild happened.
func (l *lodChannel) update(view channelView, target, zoomStep int) bool {
	if view.Len() == l.srcLen {
		return false
	}
	l.srcLen = view.Len()
	l.overview = decimate(view, target)
	l.buckets = buildBuckets(view.Len(), zoomStep)
	l.detailLo = -1
	l.detailHi = -1
	return true
}

// detail returns the raw sub-series covering buckets kL through kR
// inclusive. The bool reports whether a different slice was selected
// than on the previous call.
func (l *lodChannel) detail(view channelView, kL, kR int) (channelView, bool) {
	if len(l.buckets) == 0 {
		return view, false
	}
	kL = min(max(kL, 0), len(l.buckets)-1)
	kR = min(max(kR, kL), len(l.buckets)-1)
	lo, hi := l.buckets[kL].lo, l.buckets[kR].hi
	rebound := lo != l.detailLo || hi != l.detailHi
	if rebound {
		l.detailLo = lo
		l.detailHi = hi
		l.rebinds++
	}
	return view.slice(lo, hi), rebound
}
