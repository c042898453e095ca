package main

import (
	"strconv"
	"strings"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"

	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

// RegionPanel lists and edits annotation state: the label vocabulary,
// the active label, and every tagged region. Like the chart, it only
// proposes operations and draws whatever snapshot the store publishes.
type RegionPanel struct {
	opts  *DisplayOptions
	store *backend.Annotations

	set   backend.RegionSet
	data  *backend.Dataset
	queue opQueue

	labelList  widget.List
	labelBtns  []widget.Clickable
	nameEditor component.TextField
	addBtn     widget.Clickable

	table      component.GridState
	rowBtns    []widget.Clickable
	deleteBtns []widget.Clickable
	hoveredID  string
}

func NewRegionPanel(opts *DisplayOptions, store *backend.Annotations) *RegionPanel {
	return &RegionPanel{
		opts:      opts,
		store:     store,
		labelList: widget.List{List: layout.List{Axis: layout.Horizontal}},
	}
}

// SetRegions adopts the latest annotation snapshot.
func (p *RegionPanel) SetRegions(rs backend.RegionSet) {
	p.set = rs
}

// SetDataset provides the trace the regions annotate, for per-region
// statistics.
func (p *RegionPanel) SetDataset(d *backend.Dataset) {
	p.data = d
}

// statsSeries returns the channel the table's statistics column reports
// on, which is the first channel not hidden by configuration.
func (p *RegionPanel) statsSeries() *backend.Series {
	if p.data == nil {
		return nil
	}
	for _, s := range p.data.Series {
		if co, ok := p.opts.Channel(s.Name()); ok && co.Hidden {
			continue
		}
		return s
	}
	return nil
}

func (p *RegionPanel) Update(gtx C, th *material.Theme) {
	p.nameEditor.Update(gtx, th, "New label")
	for len(p.labelBtns) < len(p.set.Labels) {
		p.labelBtns = append(p.labelBtns, widget.Clickable{})
	}
	for len(p.rowBtns) < len(p.set.Regions) {
		p.rowBtns = append(p.rowBtns, widget.Clickable{})
		p.deleteBtns = append(p.deleteBtns, widget.Clickable{})
	}
	for i := range p.set.Labels {
		if p.labelBtns[i].Clicked(gtx) {
			name := p.set.Labels[i].Name
			if p.set.ActiveLabel == name {
				// Clicking the active label deactivates creation.
				p.queue.enqueue(backend.OpSetActiveLabel{})
			} else {
				p.queue.enqueue(backend.OpSetActiveLabel{Name: name})
			}
		}
	}
	if p.addBtn.Clicked(gtx) {
		if name := strings.TrimSpace(p.nameEditor.Text()); name != "" {
			p.queue.enqueue(
				backend.OpAddLabel{Name: name},
				backend.OpSetActiveLabel{Name: name},
			)
			p.nameEditor.SetText("")
		}
	}
	hovered := ""
	for i := range p.set.Regions {
		if i >= len(p.rowBtns) {
			break
		}
		if p.rowBtns[i].Hovered() {
			hovered = p.set.Regions[i].ID
		}
		if p.rowBtns[i].Clicked(gtx) {
			p.queue.enqueue(backend.OpSelectRegion{ID: p.set.Regions[i].ID})
		}
		if p.deleteBtns[i].Clicked(gtx) {
			p.queue.enqueue(backend.OpRemoveRegion{ID: p.set.Regions[i].ID})
		}
	}
	if hovered != p.hoveredID {
		if p.hoveredID != "" {
			p.queue.enqueue(backend.OpHighlightRegion{ID: p.hoveredID})
		}
		if hovered != "" {
			p.queue.enqueue(backend.OpHighlightRegion{ID: hovered, Highlighted: true})
		}
		p.hoveredID = hovered
	}
}

func (p *RegionPanel) Layout(gtx C, th *material.Theme) D {
	p.Update(gtx, th)
	defer p.queue.flush(p.store.Apply)
	inset := layout.UniformInset(2)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return p.layoutLabelChips(gtx, th)
			})
		}),
		layout.Rigid(func(gtx C) D {
			return layout.Flex{
				Alignment: layout.Baseline,
			}.Layout(gtx,
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return p.nameEditor.Layout(gtx, th, "New label")
					})
				}),
				layout.Rigid(func(gtx C) D {
					return inset.Layout(gtx, material.Button(th, &p.addBtn, "Add Label").Layout)
				}),
			)
		}),
		layout.Flexed(1, func(gtx C) D {
			if len(p.set.Regions) == 0 {
				return layout.Center.Layout(gtx, material.Body2(th, "No regions tagged yet. Pick a label and drag on the chart.").Layout)
			}
			return p.layoutRegionTable(gtx, th)
		}),
	)
}

// layoutLabelChips draws one clickable chip per label. The active label
// fills solid, the rest stay muted.
func (p *RegionPanel) layoutLabelChips(gtx C, th *material.Theme) D {
	if len(p.set.Labels) == 0 {
		return material.Body2(th, "No labels defined. Add one below to begin tagging.").Layout(gtx)
	}
	return material.List(th, &p.labelList).Layout(gtx, len(p.set.Labels), func(gtx C, i int) D {
		def := p.set.Labels[i]
		active := p.set.ActiveLabel == def.Name
		fill := resolveColor(def.Color, i)
		if !active {
			fill = withAlpha(fill, 90)
		}
		return layout.UniformInset(2).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return material.Clickable(gtx, &p.labelBtns[i], func(gtx layout.Context) layout.Dimensions {
				return layout.Background{}.Layout(gtx,
					func(gtx layout.Context) layout.Dimensions {
						paint.FillShape(gtx.Ops, fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					},
					func(gtx layout.Context) layout.Dimensions {
						return layout.UniformInset(6).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
							l := material.Body2(th, def.Name)
							if active {
								l.Color = th.ContrastFg
							}
							return l.Layout(gtx)
						})
					},
				)
			})
		})
	})
}

func (p *RegionPanel) layoutRegionTable(gtx C, th *material.Theme) D {
	table := component.Table(th, &p.table)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	timeColWidth := gtx.Dp(150)
	deleteColWidth := gtx.Dp(70)
	labelColWidth := gtx.Constraints.Max.X - 4*timeColWidth - deleteColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(22)
	const (
		labelCol = iota
		startCol
		endCol
		durationCol
		meanCol
		deleteCol
		numCols
	)
	return table.Layout(gtx, len(p.set.Regions), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			var size int
			switch index {
			case labelCol:
				size = labelColWidth
			case deleteCol:
				size = deleteColWidth
			default:
				size = timeColWidth
			}
			return min(size, constraint)
		},
		func(gtx layout.Context, index int) layout.Dimensions {
			l := material.Body1(th, "")
			switch index {
			case labelCol:
				l.Text = "Label"
			case startCol:
				l.Text = "Start"
			case endCol:
				l.Text = "End"
			case durationCol:
				l.Text = "Duration"
			case meanCol:
				l.Text = "Mean"
			}
			l.MaxLines = 1
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx layout.Context) layout.Dimensions {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				func(gtx layout.Context) layout.Dimensions {
					return l.Layout(gtx)
				},
			)
		},
		func(gtx layout.Context, row, col int) (dims layout.Dimensions) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			r := p.set.Regions[row]
			labelIdx := 0
			for i, def := range p.set.Labels {
				if def.Name == r.Label {
					labelIdx = i
					break
				}
			}
			bg := resolveColor(p.set.LabelColor(r.Label), labelIdx)
			bg.A = regionAlpha(r.Selected, r.Highlighted)
			if !r.Selected && !r.Highlighted && row&1 == 0 {
				bg.A = 25
			}
			cell := func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(2).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					if col == deleteCol {
						return material.Clickable(gtx, &p.deleteBtns[row], func(gtx layout.Context) layout.Dimensions {
							l := material.Body2(th, "remove")
							l.Alignment = text.Middle
							return l.Layout(gtx)
						})
					}
					l := material.Body2(th, "")
					switch col {
					case labelCol:
						l.Text = r.Label
						if r.Instant {
							l.Text += " (instant)"
						}
					case startCol:
						l.Text = p.opts.TimeFormat.Format(r.Start)
					case endCol:
						l.Text = p.opts.TimeFormat.Format(r.End)
					case durationCol:
						if r.Instant {
							l.Text = "instant"
						} else {
							l.Text = p.opts.TimeFormat.FormatDuration(r.Duration())
						}
						l.Alignment = text.End
					case meanCol:
						if s := p.statsSeries(); s != nil && !r.Instant {
							if _, mean, _, ok := s.StatsBetween(r.Start, r.End); ok {
								l.Text = strconv.FormatFloat(mean, 'f', 3, 64)
								if unit := s.Unit(); unit != "" {
									l.Text += " " + unit
								}
							}
						}
						l.Alignment = text.End
					}
					l.MaxLines = 1
					return material.Clickable(gtx, &p.rowBtns[row], l.Layout)
				})
			}
			return layout.Background{}.Layout(gtx,
				func(gtx layout.Context) layout.Dimensions {
					paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Min}.Op())
					return D{Size: gtx.Constraints.Min}
				},
				cell,
			)
		},
	)
}
