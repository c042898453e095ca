package main

import (
	"errors"
	"image/color"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

const (
	defaultExportWidth  = 1280
	defaultExportHeight = 720
)

// exportSpec describes one headless PNG render of a trace.
type exportSpec struct {
	Width, Height        int
	RangeStart, RangeEnd int64
	HasRange             bool
}

func (s exportSpec) normalized() exportSpec {
	if s.Width <= 0 {
		s.Width = defaultExportWidth
	}
	if s.Height <= 0 {
		s.Height = defaultExportHeight
	}
	if s.HasRange && s.RangeEnd < s.RangeStart {
		s.RangeStart, s.RangeEnd = s.RangeEnd, s.RangeStart
	}
	return s
}

// exportChannel is one channel prepared for rendering: clipped to the
// requested range, decimated to the output width, and normalized to the
// channel's own full value range.
type exportChannel struct {
	name   string
	color  color.NRGBA
	xs, ys []float64
}

// exportXOf returns the mapping from trace times to export X values.
// Temporal axes plot seconds from the domain start so the axis labels
// stay readable, linear axes plot the raw ordinates.
func exportXOf(kind AxisKind, domainStart int64) func(int64) float64 {
	if kind == AxisTemporal {
		return func(t int64) float64 {
			return float64(t-domainStart) / 1e9
		}
	}
	return func(t int64) float64 {
		return float64(t)
	}
}

// buildExportChannels prepares every visible channel for rendering and
// reports the X extent of the plot.
func buildExportChannels(snaps []backend.ChannelSnapshot, opts *DisplayOptions, spec exportSpec) (channels []exportChannel, xOf func(int64) float64, xMin, xMax float64, err error) {
	var (
		domainMin, domainMax int64
		first                = true
	)
	for _, s := range snaps {
		if s.Len() == 0 {
			continue
		}
		if first {
			domainMin, domainMax = s.Times[0], s.Times[s.Len()-1]
			first = false
		} else {
			domainMin = min(domainMin, s.Times[0])
			domainMax = max(domainMax, s.Times[s.Len()-1])
		}
	}
	if first {
		return nil, nil, 0, 0, errors.New("trace has no samples")
	}
	rangeStart, rangeEnd := domainMin, domainMax
	if spec.HasRange {
		rangeStart, rangeEnd = spec.RangeStart, spec.RangeEnd
	}
	xOf = exportXOf(opts.Axis, domainMin)
	xMin, xMax = xOf(rangeStart), xOf(rangeEnd)
	if xMax < xMin {
		xMin, xMax = xMax, xMin
	}

	for i, s := range snaps {
		co, _ := opts.Channel(s.Name)
		if co.Hidden || s.Len() == 0 {
			continue
		}
		view := viewOf(s)
		lo, hi := view.indexRange(rangeStart, rangeEnd)
		view = view.slice(lo, hi)
		view = decimate(view, spec.Width)
		if view.Len() == 0 {
			continue
		}
		span := view.ValueMax - view.ValueMin
		ch := exportChannel{
			name:  s.Name,
			color: resolveColor(co.Color, i),
			xs:    make([]float64, view.Len()),
			ys:    make([]float64, view.Len()),
		}
		if co.Caption != "" {
			ch.name = co.Caption
		}
		for j := 0; j < view.Len(); j++ {
			ch.xs[j] = xOf(view.Times[j])
			if span == 0 {
				ch.ys[j] = 0.5
			} else {
				ch.ys[j] = (view.Values[j] - view.ValueMin) / span
			}
		}
		channels = append(channels, ch)
	}
	if len(channels) == 0 {
		return nil, nil, 0, 0, errors.New("trace has no visible channels")
	}
	return channels, xOf, xMin, xMax, nil
}

// bandPixels maps a region's time bounds into canvas X coordinates.
// Regions entirely outside the plotted range report ok false; instant
// or sub-pixel regions widen to a two pixel marker.
func bandPixels(start, end int64, xOf func(int64) float64, xMin, xMax float64, boxLeft, boxWidth int) (x0, x1 int, ok bool) {
	span := xMax - xMin
	if span <= 0 || boxWidth <= 0 {
		return 0, 0, false
	}
	f0 := (xOf(start) - xMin) / span
	f1 := (xOf(end) - xMin) / span
	if f1 < f0 {
		f0, f1 = f1, f0
	}
	if f1 < 0 || f0 > 1 {
		return 0, 0, false
	}
	f0 = max(f0, 0)
	f1 = min(f1, 1)
	x0 = boxLeft + int(f0*float64(boxWidth))
	x1 = boxLeft + int(f1*float64(boxWidth))
	if x1-x0 < 2 {
		x1 = x0 + 2
	}
	return x0, x1, true
}

func toDrawingColor(c color.NRGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// regionBandElement renders the annotated regions as translucent
// vertical bands across the plot canvas.
func regionBandElement(rs backend.RegionSet, xOf func(int64) float64, xMin, xMax float64) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		for i, reg := range rs.Regions {
			x0, x1, ok := bandPixels(reg.Start, reg.End, xOf, xMin, xMax, canvasBox.Left, canvasBox.Width())
			if !ok {
				continue
			}
			labelIdx := i
			for j, def := range rs.Labels {
				if def.Name == reg.Label {
					labelIdx = j
					break
				}
			}
			col := resolveColor(rs.LabelColor(reg.Label), labelIdx)
			col.A = regionAlpha(reg.Selected, reg.Highlighted)
			r.SetFillColor(toDrawingColor(col))
			r.MoveTo(x0, canvasBox.Top)
			r.LineTo(x1, canvasBox.Top)
			r.LineTo(x1, canvasBox.Bottom)
			r.LineTo(x0, canvasBox.Bottom)
			r.Close()
			r.Fill()
		}
	}
}

// renderTracePNG renders the trace's channels and region bands to a PNG
// stream without any window. Channels normalize to their own full value
// ranges, matching the interactive chart.
func renderTracePNG(w io.Writer, snaps []backend.ChannelSnapshot, rs backend.RegionSet, opts *DisplayOptions, spec exportSpec) error {
	spec = spec.normalized()
	channels, xOf, xMin, xMax, err := buildExportChannels(snaps, opts, spec)
	if err != nil {
		return err
	}
	series := make([]chart.Series, 0, len(channels))
	for _, ch := range channels {
		series = append(series, chart.ContinuousSeries{
			Name:    ch.name,
			XValues: ch.xs,
			YValues: ch.ys,
			Style: chart.Style{
				StrokeColor: toDrawingColor(ch.color),
				StrokeWidth: 1.5,
			},
		})
	}
	xName := "time"
	if opts.Axis == AxisTemporal {
		xName = "seconds from start"
	}
	ch := chart.Chart{
		Title:  opts.Title,
		Width:  spec.Width,
		Height: spec.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28},
		},
		XAxis: chart.XAxis{
			Name:  xName,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  "normalized",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{
		chart.Legend(&ch),
		regionBandElement(rs, xOf, xMin, xMax),
	}
	return ch.Render(chart.PNG, w)
}
