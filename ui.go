package main

import (
	"image"
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const (
	tabChart   = "chart"
	tabRegions = "regions"
)

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	opts *DisplayOptions

	chart       *ChartData
	panel       *RegionPanel
	tab         widget.Enum
	launchBtn   widget.Clickable
	explorerBtn widget.Clickable
	launching   bool
	loadErr     string

	th        *material.Theme
	sessions  *stream.Stream[backend.Session]
	session   backend.Session
	regions   *stream.Stream[backend.RegionSet]
	regionSet backend.RegionSet
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, opts *DisplayOptions) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ws:       ws,
		th:       th,
		expl:     expl,
		opts:     opts,
		tab:      widget.Enum{Value: tabChart},
		sessions: stream.New(ws.Controller, ws.Bundle.Datasource.CurrentSessionStream),
		regions:  stream.New(ws.Controller, ws.Bundle.Annotations.Stream),
	}
	ui.chart = NewChart(opts, ws.Bundle.Annotations)
	ui.panel = NewRegionPanel(opts, ws.Bundle.Annotations)
	return ui
}

// Update the state of the UI and generate events. Must be called once
// per frame before Layout.
func (ui *UI) Update(gtx C) {
	ui.sessions.ReadInto(gtx, &ui.session, backend.Session{})
	ui.regions.ReadInto(gtx, &ui.regionSet, backend.RegionSet{})
	if ui.session.Err != nil {
		ui.loadErr = ui.session.Err.Error()
	}
	if ui.session.Data != nil {
		ui.chart.SetData(ui.session.ID, ui.session.Data.Snapshots())
		ui.panel.SetDataset(ui.session.Data)
	}
	ui.chart.SetRegions(ui.regionSet)
	ui.panel.SetRegions(ui.regionSet)
	ui.tab.Update(gtx)
	if !ui.launching && ui.launchBtn.Clicked(gtx) {
		ui.launching = true
		if _, err := ui.ws.Bundle.Datasource.LaunchMonitor(); err != nil {
			ui.loadErr = err.Error()
			ui.launching = false
		}
	}
	if ui.explorerBtn.Clicked(gtx) {
		if _, err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl); err != nil {
			ui.loadErr = err.Error()
		}
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return t.border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return t.inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return t.state.Layout(gtx, t.value, func(gtx layout.Context) layout.Dimensions {
					return layout.Background{}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{}.Layout(gtx,
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabChart, "Chart").Layout),
				layout.Flexed(1, Tab(ui.th, &ui.tab, tabRegions, "Regions").Layout),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if len(ui.loadErr) == 0 {
				return D{}
			}
			l := material.Body1(ui.th, ui.loadErr)
			l.Color = color.NRGBA{R: 150, A: 255}
			return l.Layout(gtx)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if ui.tab.Value == tabChart {
				return ui.chart.Layout(gtx, ui.th)
			} else {
				return ui.panel.Layout(gtx, ui.th)
			}
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	l := material.Body1(ui.th, "No data yet.")
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			if ui.launching {
				gtx = gtx.Disabled()
			}
			return material.Button(ui.th, &ui.launchBtn, "Launch System Monitor").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Button(ui.th, &ui.explorerBtn, "Open Existing Trace").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body2(ui.th, ui.loadErr).Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	if ui.session.Data != nil && ui.session.Data.Initialized() {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
