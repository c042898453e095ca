package main

import (
	"sort"

	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

// channelView is the chart's per-frame view of one channel. Its slices
// alias the append-only storage captured by the backend snapshot, so a
// view stays coherent even while the trace keeps growing.
type channelView struct {
	Name, Unit string
	Times      []int64
	Values     []float64
	ValueMin   float64
	ValueMax   float64
}

func viewOf(snap backend.ChannelSnapshot) channelView {
	return channelView{
		Name:     snap.Name,
		Unit:     snap.Unit,
		Times:    snap.Times,
		Values:   snap.Values,
		ValueMin: snap.ValueMin,
		ValueMax: snap.ValueMax,
	}
}

func (c channelView) Len() int {
	return len(c.Times)
}

// slice returns the sub-view covering the index interval [lo,hi).
func (c channelView) slice(lo, hi int) channelView {
	out := c
	out.Times = c.Times[lo:hi]
	out.Values = c.Values[lo:hi]
	return out
}

// bisectLeft returns the smallest index whose time is >= x, len(times)
// when every time is smaller.
func bisectLeft(times []int64, x float64) int {
	return sort.Search(len(times), func(i int) bool {
		return float64(times[i]) >= x
	})
}

// indexRange returns the index interval [lo,hi) of samples inside the
// time interval [a,b], widened by one sample on each side when possible
// so that lines entering and leaving the interval still reach the
// viewport edges.
func (c channelView) indexRange(a, b int64) (lo, hi int) {
	if b < a {
		a, b = b, a
	}
	lo = sort.Search(len(c.Times), func(i int) bool {
		return c.Times[i] >= a
	})
	hi = sort.Search(len(c.Times), func(i int) bool {
		return c.Times[i] > b
	})
	if lo > 0 {
		lo--
	}
	if hi < len(c.Times) {
		hi++
	}
	return lo, hi
}
