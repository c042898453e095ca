package main

// stick resolves a pixel X coordinate to the recorded sample nearest to
// it on one channel. Coordinates outside the projection's pixel range
// resolve to the boundary sample on that side. Ties between two equally
// distant samples break toward the later one.
func stick(ch channelView, proj projection, px float32) (t int64, v float64, ok bool) {
	i, ok := stickIndex(ch, proj, px)
	if !ok {
		return 0, 0, false
	}
	return ch.Times[i], ch.Values[i], true
}

// stickTime is stick for callers that only need the snapped time.
func stickTime(ch channelView, proj projection, px float32) (int64, bool) {
	t, _, ok := stick(ch, proj, px)
	return t, ok
}

func stickIndex(ch channelView, proj projection, px float32) (int, bool) {
	if ch.Len() == 0 {
		return 0, false
	}
	x := proj.invertF(proj.clampPixel(px))
	i := bisectLeft(ch.Times, x)
	if i == ch.Len() {
		return i - 1, true
	}
	if i > 0 && x-float64(ch.Times[i-1]) < float64(ch.Times[i])-x {
		i--
	}
	return i, true
}
