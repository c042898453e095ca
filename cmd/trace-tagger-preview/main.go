package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// Rows reserved around the chart for the title, legend and help
	// lines.
	chromeRows = 3
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	linePalette = []lipgloss.Color{"12", "10", "9", "11", "13", "14"}
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: preview a csv trace in the terminal
Usage:

 %[1]s file

OR

 trace-tagger-sysmon > file; %[1]s < file

`, os.Args[0])
	flag.PrintDefaults()
}

// zoomedViewRange halves or doubles the viewport span about its center,
// clamped to the trace domain. Spans never collapse below one second.
func zoomedViewRange(start, end, dMin, dMax int64, in bool) (int64, int64) {
	minSpan := int64(time.Second)
	span := end - start
	var next int64
	if in {
		next = span / 2
		if next < minSpan {
			next = minSpan
		}
		if next > span {
			next = span
		}
	} else {
		next = span * 2
	}
	if next >= dMax-dMin {
		return dMin, dMax
	}
	center := start + span/2
	ns := center - next/2
	ne := ns + next
	if ns < dMin {
		ne += dMin - ns
		ns = dMin
	}
	if ne > dMax {
		ns -= ne - dMax
		ne = dMax
	}
	if ns < dMin {
		ns = dMin
	}
	return ns, ne
}

// pannedViewRange shifts the viewport by a quarter of its span, sliding
// no further than the domain edges.
func pannedViewRange(start, end, dMin, dMax int64, forward bool) (int64, int64) {
	span := end - start
	step := span / 4
	if step < 1 {
		step = 1
	}
	if !forward {
		step = -step
	}
	ns, ne := start+step, end+step
	if ns < dMin {
		ns, ne = dMin, dMin+span
	}
	if ne > dMax {
		ns, ne = dMax-span, dMax
	}
	return ns, ne
}

// viewTimes converts a nanosecond viewport into the chart's time range.
// The chart's X axis has whole second resolution, so sub second views
// widen to keep a nonzero span.
func viewTimes(startNS, endNS int64) (time.Time, time.Time) {
	start := time.Unix(0, startNS)
	end := time.Unix(0, endNS)
	if end.Before(start.Add(time.Second)) {
		end = start.Add(time.Second)
	}
	return start, end
}

type model struct {
	snaps                []backend.ChannelSnapshot
	chart                tslc.Model
	width, height        int
	domainMin, domainMax int64
	viewStart, viewEnd   int64
	legend               string
}

func newModel(snaps []backend.ChannelSnapshot) model {
	m := model{snaps: snaps}
	first := true
	for _, s := range snaps {
		if s.Len() == 0 {
			continue
		}
		if first {
			m.domainMin, m.domainMax = s.Times[0], s.Times[s.Len()-1]
			first = false
		} else {
			m.domainMin = min(m.domainMin, s.Times[0])
			m.domainMax = max(m.domainMax, s.Times[s.Len()-1])
		}
	}
	m.viewStart, m.viewEnd = m.domainMin, m.domainMax
	m.chart = m.buildChart(defaultWidth, defaultHeight-chromeRows)
	names := make([]string, 0, len(snaps))
	for i, s := range snaps {
		st := lipgloss.NewStyle().Foreground(linePalette[i%len(linePalette)])
		names = append(names, st.Render(s.Name))
	}
	m.legend = strings.Join(names, "  ")
	return m
}

func (m *model) buildChart(w, h int) tslc.Model {
	minTime, maxTime := viewTimes(m.domainMin, m.domainMax)
	chart := tslc.New(w, h,
		tslc.WithTimeRange(minTime, maxTime),
		tslc.WithYRange(0, 1),
		tslc.WithXYSteps(4, 2),
		tslc.WithAxesStyles(axisStyle, labelStyle),
		tslc.WithXLabelFormatter(func(i int, v float64) string {
			return time.Unix(int64(v), 0).UTC().Format("15:04:05")
		}),
		tslc.WithYLabelFormatter(func(i int, v float64) string {
			return fmt.Sprintf("%.1f", v)
		}),
	)
	for i, s := range m.snaps {
		span := s.ValueMax - s.ValueMin
		st := lipgloss.NewStyle().Foreground(linePalette[i%len(linePalette)])
		chart.SetDataSetStyle(s.Name, st)
		for j := 0; j < s.Len(); j++ {
			v := 0.5
			if span != 0 {
				v = (s.Values[j] - s.ValueMin) / span
			}
			chart.PushDataSet(s.Name, tslc.TimePoint{
				Time:  time.Unix(0, s.Times[j]),
				Value: v,
			})
		}
	}
	return chart
}

func (m *model) redraw() {
	start, end := viewTimes(m.viewStart, m.viewEnd)
	m.chart.SetViewTimeRange(start, end)
	m.chart.Clear()
	m.chart.DrawXYAxisAndLabel()
	m.chart.DrawBrailleAll()
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(msg.Height-chromeRows, 4)
		m.chart.Resize(msg.Width, h)
		m.redraw()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.viewStart, m.viewEnd = pannedViewRange(m.viewStart, m.viewEnd, m.domainMin, m.domainMax, false)
			m.redraw()
		case "right", "l":
			m.viewStart, m.viewEnd = pannedViewRange(m.viewStart, m.viewEnd, m.domainMin, m.domainMax, true)
			m.redraw()
		case "+", "=", "up", "k":
			m.viewStart, m.viewEnd = zoomedViewRange(m.viewStart, m.viewEnd, m.domainMin, m.domainMax, true)
			m.redraw()
		case "-", "down", "j":
			m.viewStart, m.viewEnd = zoomedViewRange(m.viewStart, m.viewEnd, m.domainMin, m.domainMax, false)
			m.redraw()
		case "r":
			m.viewStart, m.viewEnd = m.domainMin, m.domainMax
			m.redraw()
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}
	start, end := viewTimes(m.viewStart, m.viewEnd)
	title := titleStyle.Render(fmt.Sprintf("trace preview  %s to %s",
		start.UTC().Format("15:04:05"), end.UTC().Format("15:04:05")))
	help := helpStyle.Render("arrows pan and zoom, r reset, q quit")
	return strings.Join([]string{title, m.legend, m.chart.View(), help}, "\n")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	var source io.ReadCloser = os.Stdin
	if path := flag.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		source = f
	} else if stat, err := os.Stdin.Stat(); err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		flag.Usage()
		os.Exit(1)
	}
	data, err := backend.LoadTrace(source)
	source.Close()
	if err != nil {
		log.Fatal(err)
	}
	m := newModel(data.Snapshots())
	// The trace may arrive on stdin, so read keys from the tty instead.
	p := tea.NewProgram(m, tea.WithInputTTY(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}
