package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

var pauseIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPause)
	return icon
}()

var playIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.AVPlayArrow)
	return icon
}()

// ChartData is the interactive trace plot. It projects the visible
// range of every enabled channel onto the widget, snaps pointer work to
// recorded samples, and forwards completed annotation gestures to the
// annotation store. The store remains the single owner of region and
// range state: the chart only proposes operations and redraws whatever
// snapshot comes back.
type ChartData struct {
	opts  *DisplayOptions
	store *backend.Annotations

	sessionID string
	channels  []channelView
	lods      []lodChannel
	Enabled   []*widget.Bool

	vp        *viewport
	regions   *regionController
	track     tracker
	queue     opQueue
	regionSet backend.RegionSet
	// env is the pixel-to-time context of the last drawn frame. Pointer
	// events always describe that frame, not the one being built.
	env brushEnv

	zoom      gesture.Scroll
	pan       gesture.Scroll
	panBar    widget.Scrollbar
	followBtn widget.Clickable
	keyTable  component.GridState

	// returnPath is a scratch slice used to build each channel's path.
	returnPath []f32.Point
}

func NewChart(opts *DisplayOptions, store *backend.Annotations) *ChartData {
	return &ChartData{
		opts:    opts,
		store:   store,
		vp:      newViewport(opts.Axis, opts.ZoomStep, opts.PointBudget),
		regions: newRegionController(),
	}
}

// SetData replaces the chart's view of the trace. A change of session
// identifier resets all annotation state, since regions refer to sample
// times that no longer exist.
func (c *ChartData) SetData(sessionID string, snaps []backend.ChannelSnapshot) {
	if sessionID != c.sessionID {
		if c.sessionID != "" {
			c.queue.enqueue(backend.OpClear{})
		}
		c.sessionID = sessionID
		c.channels = nil
		c.lods = nil
		c.Enabled = nil
	}
	c.channels = c.channels[:0]
	for _, s := range snaps {
		c.channels = append(c.channels, viewOf(s))
	}
}

// SetRegions adopts the latest annotation snapshot.
func (c *ChartData) SetRegions(rs backend.RegionSet) {
	c.regionSet = rs
	c.regions.reconcile(rs.Regions, c.labelColor)
}

func (c *ChartData) labelColor(name string) color.NRGBA {
	for i, l := range c.regionSet.Labels {
		if l.Name == name {
			return resolveColor(l.Color, i)
		}
	}
	return paletteColor(len(c.regionSet.Labels))
}

func (c *ChartData) channelColor(i int) color.NRGBA {
	co, _ := c.opts.Channel(c.channels[i].Name)
	return resolveColor(co.Color, i)
}

func (c *ChartData) channelCaption(i int) string {
	if co, ok := c.opts.Channel(c.channels[i].Name); ok && co.Caption != "" {
		return co.Caption
	}
	return c.channels[i].Name
}

// snapChannel returns the channel pointer gestures snap against, which
// is the first enabled one.
func (c *ChartData) snapChannel() channelView {
	for i := range c.channels {
		if i < len(c.Enabled) && c.Enabled[i].Value {
			return c.channels[i]
		}
	}
	if len(c.channels) > 0 {
		return c.channels[0]
	}
	return channelView{}
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

// Update grows per-channel widget state and drains pointer events. All
// gesture resolution uses the previous frame's projection, because that
// is the geometry the events actually happened against.
func (c *ChartData) Update(gtx C) {
	if c.followBtn.Clicked(gtx) {
		if c.regionSet.HasRange {
			c.queue.enqueue(backend.OpResetRange{})
		} else if c.vp.initialized {
			c.queue.enqueue(backend.OpSetRange{Start: c.vp.rangeStart, End: c.vp.rangeEnd})
		}
	}
	for len(c.Enabled) < len(c.channels) {
		i := len(c.Enabled)
		co, _ := c.opts.Channel(c.channels[i].Name)
		c.Enabled = append(c.Enabled, &widget.Bool{Value: !co.Hidden})
	}
	for len(c.lods) < len(c.channels) {
		c.lods = append(c.lods, lodChannel{})
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: c,
			Kinds: pointer.Enter | pointer.Leave | pointer.Move |
				pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		c.track.update(pe.Kind, pe.Position)
		switch pe.Kind {
		case pointer.Press:
			c.regions.press(pe.Position.X, pe.PointerID, c.env)
		case pointer.Drag:
			c.regions.drag(pe.Position.X, pe.PointerID)
		case pointer.Release:
			c.queue.enqueue(c.regions.release(pe.Position.X, pe.PointerID, c.env)...)
		case pointer.Cancel:
			c.regions.cancel()
		}
	}
}

func (c *ChartData) Layout(gtx C, th *material.Theme) D {
	c.Update(gtx)
	defer c.queue.flush(c.store.Apply)
	if len(c.channels) == 0 {
		return D{Size: gtx.Constraints.Max}
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}

	// Determine the amount of space to reserve for axis labels.
	macro := op.Record(gtx.Ops)
	axisLabelDims := material.Body1(th, c.opts.TimeFormat.Format(0)).Layout(gtx)
	_ = macro.Stop()

	// Determine the space occupied by the key.
	macro = op.Record(gtx.Ops)
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	keyDims := c.layoutKey(gtx, th)
	keyCall := macro.Stop()

	// Lay out the plot in the remaining space after accounting for axis
	// labels and the key.
	gtx.Constraints = origConstraints.SubMax(image.Point{
		X: axisLabelDims.Size.Y * 2,
		Y: axisLabelDims.Size.Y,
	}.Add(image.Pt(0, keyDims.Size.Y)))
	macro = op.Record(gtx.Ops)
	dims, rangeStart, rangeEnd := c.layoutPlot(gtx, th)
	plotCall := macro.Stop()
	gtx.Constraints = origConstraints

	minDomainLabel := material.Body1(th, c.opts.TimeFormat.Format(rangeStart))
	maxDomainLabel := material.Body1(th, c.opts.TimeFormat.Format(rangeEnd))
	xAxisLabel := material.Body2(th, fmt.Sprintf("Time (spans %s, %s)",
		c.opts.TimeFormat.FormatDuration(absInt64(rangeEnd-rangeStart)), c.vp.mode))
	xAxisLabel.MaxLines = 1
	xAxisLabel.Alignment = text.Middle
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceBetween}.Layout(gtx,
						layout.Flexed(1, func(gtx C) D {
							gtx.Constraints.Min = image.Point{}
							gtx.Constraints.Max.X = axisLabelDims.Size.Y * 2
							return c.layoutAxisCaption(gtx, th)
						}),
						layout.Rigid(func(gtx C) D {
							gtx.Constraints = layout.Exact(image.Point{
								X: axisLabelDims.Size.Y * 2,
								Y: axisLabelDims.Size.Y,
							})
							// A pinned range stops tracking new data, so
							// offer play to release it.
							icon := pauseIcon
							if c.regionSet.HasRange {
								icon = playIcon
							}
							return material.Clickable(gtx, &c.followBtn, func(gtx layout.Context) layout.Dimensions {
								return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
									return icon.Layout(gtx, th.Fg)
								})
							})
						}),
					)
				}),
				layout.Flexed(1, func(gtx C) D {
					return layout.Flex{Axis: layout.Vertical, Spacing: layout.SpaceBetween}.Layout(gtx,
						layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
							plotCall.Add(gtx.Ops)
							return dims
						}),
						layout.Rigid(func(gtx C) D {
							return layout.Flex{
								Axis:      layout.Horizontal,
								Alignment: layout.Baseline,
							}.Layout(gtx,
								layout.Rigid(minDomainLabel.Layout),
								layout.Flexed(1, xAxisLabel.Layout),
								layout.Rigid(maxDomainLabel.Layout),
							)
						}),
					)
				}),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			keyCall.Add(gtx.Ops)
			return keyDims
		}),
	)
}

// layoutAxisCaption draws the vertical axis description rotated along
// the left edge of the plot. Channels draw against their own value
// ranges, so the caption names the snapping channel's scale rather than
// numbering a shared one.
func (c *ChartData) layoutAxisCaption(gtx C, th *material.Theme) D {
	origConstraints := gtx.Constraints
	// Flip X and Y to draw the caption horizontally before rotating.
	gtx.Constraints.Max.X, gtx.Constraints.Max.Y = gtx.Constraints.Max.Y, gtx.Constraints.Max.X
	gtx.Constraints.Min = image.Point{}

	snap := c.snapChannel()
	caption := fmt.Sprintf("%s (%.3g to %.3g), per-channel scales",
		snap.Name, snap.ValueMin, snap.ValueMax)
	if snap.Unit != "" {
		caption = fmt.Sprintf("%s in %s (%.3g to %.3g), per-channel scales",
			snap.Name, snap.Unit, snap.ValueMin, snap.ValueMax)
	}
	label := material.Body2(th, caption)
	label.MaxLines = 1
	axisDims, axisCall := rec(gtx, label.Layout)

	halfAxisHeight := float32(axisDims.Size.Y) * .5
	defer op.Affine(
		f32.Affine2D{}.
			Rotate(f32.Pt(halfAxisHeight, halfAxisHeight), -math.Pi/2).
			Offset(f32.Point{Y: float32(origConstraints.Max.Y - axisDims.Size.Y)}),
	).Push(gtx.Ops).Pop()
	axisCall.Add(gtx.Ops)

	return D{Size: origConstraints.Max}
}

func (c *ChartData) layoutPlot(gtx C, th *material.Theme) (dims D, rangeStart, rangeEnd int64) {
	dist := c.zoom.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Vertical, image.Rect(0, -1e6, 0, 1e6))
	if dist != 0 {
		if s, e, ok := c.vp.zoomedRange(float32(dist), float32(gtx.Constraints.Max.Y)); ok {
			c.queue.enqueue(backend.OpSetRange{Start: s, End: e})
		}
	}
	dist = c.pan.Update(gtx.Metric, gtx.Source, gtx.Now, gesture.Horizontal, image.Rect(-1e6, 0, 1e6, 0))
	if dist != 0 {
		if s, e, ok := c.vp.pannedRange(float32(dist)); ok {
			c.queue.enqueue(backend.OpSetRange{Start: s, End: e})
		}
	}
	if prop := c.panBar.ScrollDistance(); prop != 0 {
		if s, e, ok := c.vp.scrolledRange(prop); ok {
			c.queue.enqueue(backend.OpSetRange{Start: s, End: e})
		}
	}

	domainMin, domainMax, longest := c.dataExtent()
	rangeStart, rangeEnd = domainMin, domainMax
	if c.regionSet.HasRange {
		rangeStart, rangeEnd = c.regionSet.RangeStart, c.regionSet.RangeEnd
	}
	c.vp.apply(domainMin, domainMax, rangeStart, rangeEnd, float32(gtx.Constraints.Max.X), longest)
	rangeStart, rangeEnd = c.vp.rangeStart, c.vp.rangeEnd
	c.regions.adoptGeneration(c.vp.brushGen)
	env := brushEnv{
		proj:        c.vp.live.copy(),
		snap:        c.snapChannel(),
		handlePx:    float32(gtx.Dp(regionHandleWidth)),
		markerPx:    float32(gtx.Dp(instantMarkerWidth)),
		activeLabel: c.regionSet.ActiveLabel,
	}

	vpStart, vpEnd := c.vp.scrollPosition()
	dims = layout.Stack{Alignment: layout.S}.Layout(gtx,
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
			macro := op.Record(gtx.Ops)
			c.pan.Add(gtx.Ops)
			c.zoom.Add(gtx.Ops)
			event.Op(gtx.Ops, c)
			// Draw grid and region bands underneath the data lines.
			c.layoutValueGrid(gtx)
			c.regions.draw(gtx, env, gtx.Constraints.Max.Y)
			c.layoutLinePlots(gtx)
			call := macro.Stop()
			if _, at, px, ok := c.track.crosshair(env.snap, env.proj); ok {
				c.layoutCrosshair(gtx, th, call, at, px)
			} else {
				call.Add(gtx.Ops)
			}
			return D{Size: gtx.Constraints.Max}
		}),
		layout.Expanded(func(gtx C) D {
			scrollbar := material.Scrollbar(th, &c.panBar)
			scrollbar.Track.MajorPadding = 0
			scrollbar.Track.MinorPadding = 0
			scrollbar.Indicator.CornerRadius = 0
			scrollbar.Indicator.Color.A = 100
			return scrollbar.Layout(gtx, layout.Horizontal, vpStart, vpEnd)
		}),
	)
	// Gestures arriving next frame resolve against what this frame drew.
	c.env = env
	return dims, rangeStart, rangeEnd
}

// dataExtent aggregates the time domain and longest channel length
// across all channels.
func (c *ChartData) dataExtent() (domainMin, domainMax int64, longest int) {
	first := true
	for _, ch := range c.channels {
		if ch.Len() == 0 {
			continue
		}
		lo, hi := ch.Times[0], ch.Times[ch.Len()-1]
		if first {
			domainMin, domainMax = lo, hi
			first = false
		} else {
			domainMin = min(domainMin, lo)
			domainMax = max(domainMax, hi)
		}
		longest = max(longest, ch.Len())
	}
	return domainMin, domainMax, longest
}

func (c *ChartData) layoutValueGrid(gtx C) {
	oneDp := gtx.Dp(1)
	maxY := gtx.Constraints.Max.Y
	for line := 0; line <= 4; line++ {
		y := maxY - line*maxY/4
		a := uint8(50)
		if line == 0 || line == 4 {
			a = 100
		}
		paint.FillShape(gtx.Ops, color.NRGBA{A: a}, clip.Rect{
			Min: image.Point{Y: max(y-oneDp, 0)},
			Max: image.Point{Y: max(y, oneDp), X: gtx.Constraints.Max.X},
		}.Op())
	}
}

// layoutLinePlots draws every enabled channel at the level of detail
// the viewport selected. Each channel normalizes to its own full value
// range, so vertical position stays stable while zooming.
func (c *ChartData) layoutLinePlots(gtx C) {
	oneDp := float32(gtx.Dp(1))
	h := float32(gtx.Constraints.Max.Y)
	kL, kR := c.vp.visibleBuckets()
	for i := range c.channels {
		if !c.Enabled[i].Value {
			continue
		}
		view := c.channels[i]
		lod := &c.lods[i]
		lod.update(view, c.vp.budget, c.vp.zoomStep)
		switch c.vp.mode {
		case modeOverview:
			view = lod.overview
		case modeDetail:
			view, _ = lod.detail(view, kL, kR)
		}
		lo, hi := view.indexRange(c.vp.rangeStart, c.vp.rangeEnd)
		view = view.slice(lo, hi)
		if view.Len() == 0 {
			continue
		}
		vproj := newValueProjection(view.ValueMin, view.ValueMax, oneDp, h-oneDp)
		c.drawChannelLine(gtx, view, vproj, c.channelColor(i), oneDp)
	}
}

// drawChannelLine fills a one-dp-thick polyline through the view's
// samples. The outline runs along the top of each segment and doubles
// back one dp lower, forming a closed region that renders as a line.
func (c *ChartData) drawChannelLine(gtx C, view channelView, vproj valueProjection, col color.NRGBA, oneDp float32) {
	n := view.Len()
	if n == 0 {
		return
	}
	c.returnPath = c.returnPath[:0]
	var p clip.Path
	p.Begin(gtx.Ops)
	var prev f32.Point
	for i := 0; i < n; i++ {
		pt := f32.Pt(c.vp.live.pixel(view.Times[i]), vproj.pixel(view.Values[i]))
		if i == 0 {
			p.MoveTo(pt)
		} else {
			if corner, ok := c.opts.Interpolation.corner(prev, pt); ok {
				p.LineTo(corner)
				c.returnPath = append(c.returnPath, corner.Add(f32.Pt(0, oneDp)))
			}
			p.LineTo(pt)
		}
		c.returnPath = append(c.returnPath, pt.Add(f32.Pt(0, oneDp)))
		prev = pt
	}
	for i := range c.returnPath {
		p.LineTo(c.returnPath[len(c.returnPath)-1-i])
	}
	p.Close()
	stack := clip.Outline{
		Path: p.End(),
	}.Op().Push(gtx.Ops)
	paint.Fill(gtx.Ops, col)
	stack.Pop()
}

// layoutCrosshair draws the snapped hover line and a readout of every
// enabled channel's value nearest the snapped time. The readout slides
// to the left of the line near the plot's right edge.
func (c *ChartData) layoutCrosshair(gtx C, th *material.Theme, plot op.CallOp, at int64, px float32) {
	xL := floor(px)
	xR := xL + float32(gtx.Dp(1))
	children := []layout.FlexChild{
		layout.Rigid(material.Body2(th, c.opts.TimeFormat.Format(at)).Layout),
	}
	for i := range c.channels {
		if !c.Enabled[i].Value {
			continue
		}
		ch := c.channels[i]
		j, ok := nearestSample(ch, at)
		if !ok {
			continue
		}
		value := strconv.FormatFloat(ch.Values[j], 'f', 3, 64)
		if ch.Unit != "" {
			value += " " + ch.Unit
		}
		swatch := c.channelColor(i)
		children = append(children, layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(material.Body2(th, value).Layout),
				layout.Rigid(layout.Spacer{Width: 8}.Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					size := image.Pt(gtx.Dp(8), gtx.Dp(8))
					paint.FillShape(gtx.Ops, swatch, clip.Ellipse{Max: size}.Op(gtx.Ops))
					return D{Size: size}
				}),
			)
		}))
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	readoutMacro := op.Record(gtx.Ops)
	readoutDims := layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 150}, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return D{Size: gtx.Constraints.Min}
		},
		func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(10).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{
					Axis:      layout.Vertical,
					Alignment: layout.End,
				}.Layout(gtx, children...)
			})
		},
	)
	readoutCall := readoutMacro.Stop()
	gtx.Constraints = origConstraints

	pos := image.Point{}
	margin := float32(gtx.Dp(trackerFlipMargin))
	if readoutOnLeft(px, float32(gtx.Constraints.Max.X), margin) {
		pos.X = max(int(xL)-readoutDims.Size.X, 0)
	} else {
		pos.X = min(int(xR), gtx.Constraints.Max.X-readoutDims.Size.X)
	}
	if offscreenY := gtx.Constraints.Max.Y - (int(c.track.pos.Y) + readoutDims.Size.Y); offscreenY < 0 {
		pos.Y = int(c.track.pos.Y) + offscreenY
	} else {
		pos.Y = int(c.track.pos.Y)
	}
	plot.Add(gtx.Ops)
	paint.FillShape(gtx.Ops, color.NRGBA{A: 255}, clip.Rect{
		Min: image.Point{
			X: int(xL),
		},
		Max: image.Point{
			X: int(xR),
			Y: gtx.Constraints.Max.Y,
		},
	}.Op())
	transform := op.Offset(pos).Push(gtx.Ops)
	readoutCall.Add(gtx.Ops)
	transform.Pop()
}

// layoutKey draws the channel legend table with per-channel visibility
// toggles.
func (c *ChartData) layoutKey(gtx C, th *material.Theme) D {
	table := component.Table(th, &c.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	colorColWidth := gtx.Dp(50)
	statColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - 3*statColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		channelNameCol
		unitCol
		lastValueCol
		rangeCol
		numCols
	)
	return table.Layout(gtx, len(c.channels), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case channelNameCol:
				size = nameColWidth
			default:
				size = statColWidth
			}
			return min(size, constraint)
		},
		func(gtx layout.Context, index int) layout.Dimensions {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Show")
			case channelNameCol:
				l = material.Body1(th, "Channel")
				l.Alignment = text.Middle
			case unitCol:
				l = material.Body1(th, "Unit")
			case lastValueCol:
				l = material.Body1(th, "Last")
				l.Alignment = text.End
			case rangeCol:
				l = material.Body1(th, "Range")
				l.Alignment = text.End
			default:
				l = material.Body1(th, "???")
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx layout.Context) layout.Dimensions {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, func(gtx layout.Context) layout.Dimensions {
					return l.Layout(gtx)
				},
			)
		},
		func(gtx layout.Context, row, col int) (dims layout.Dimensions) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			ch := c.channels[row]
			dims = layout.UniformInset(2).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				c.Enabled[row].Update(gtx)
				enabled := c.Enabled[row].Value
				disabledAlpha := uint8(100)
				switch col {
				case colorCol:
					return c.Enabled[row].Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := c.channelColor(row)
							if !enabled {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.Rect{Max: sz}.Op())
							return D{Size: sz}
						})
					})
				case channelNameCol:
					l := material.Body2(th, c.channelCaption(row))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case unitCol:
					l := material.Body2(th, ch.Unit)
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case lastValueCol:
					last := ""
					if ch.Len() > 0 {
						last = strconv.FormatFloat(ch.Values[ch.Len()-1], 'f', 3, 64)
					}
					l := material.Body2(th, last)
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				case rangeCol:
					l := material.Body2(th, fmt.Sprintf("%.3g to %.3g", ch.ValueMin, ch.ValueMax))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
			if row&1 != 0 {
				bg := c.channelColor(row)
				bg.A = 50
				paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
