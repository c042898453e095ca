package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gioui.org/f32"
	"gopkg.in/yaml.v3"
)

// DisplayOptions configures how a trace is titled, how channels and
// labels are presented, and how times and line segments render. Options
// load from a YAML document:
//
//	title: Overnight Soak
//	timeFormat: clock
//	interpolation: step-after
//	axis: temporal
//	zoomStep: 10
//	pointBudget: 800
//	channels:
//	  - name: load1
//	    caption: CPU load (1m)
//	    color: "#2a8d46"
//	labels:
//	  - name: anomaly
//	    color: "#c3572f"
//
// Unknown document fields are ignored. Enum fields reject values
// outside their closed sets so that typos fail at startup instead of
// misrendering silently.
type DisplayOptions struct {
	Title         string
	TimeFormat    TimeFormat
	Interpolation Interpolation
	Axis          AxisKind
	ZoomStep      int
	PointBudget   int
	Channels      []ChannelOptions
	Labels        []LabelOptions
}

type ChannelOptions struct {
	Name    string `yaml:"name"`
	Caption string `yaml:"caption"`
	Color   string `yaml:"color"`
	Hidden  bool   `yaml:"hidden"`
}

type LabelOptions struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type displaySchema struct {
	Title         string           `yaml:"title"`
	TimeFormat    string           `yaml:"timeFormat"`
	Interpolation string           `yaml:"interpolation"`
	Axis          string           `yaml:"axis"`
	ZoomStep      int              `yaml:"zoomStep"`
	PointBudget   int              `yaml:"pointBudget"`
	Channels      []ChannelOptions `yaml:"channels"`
	Labels        []LabelOptions   `yaml:"labels"`
}

func DefaultDisplayOptions() *DisplayOptions {
	return &DisplayOptions{
		Title:       "Trace Tagger",
		ZoomStep:    defaultZoomStep,
		PointBudget: defaultPointBudget,
	}
}

// LoadDisplayOptions reads and validates a YAML options document.
func LoadDisplayOptions(path string) (*DisplayOptions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading display options: %w", err)
	}
	return parseDisplayOptions(raw)
}

func parseDisplayOptions(raw []byte) (*DisplayOptions, error) {
	var schema displaySchema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed parsing display options: %w", err)
	}
	opts := DefaultDisplayOptions()
	var err error
	if schema.Title != "" {
		opts.Title = schema.Title
	}
	if opts.TimeFormat, err = parseTimeFormat(schema.TimeFormat); err != nil {
		return nil, err
	}
	if opts.Interpolation, err = parseInterpolation(schema.Interpolation); err != nil {
		return nil, err
	}
	if opts.Axis, err = parseAxisKind(schema.Axis); err != nil {
		return nil, err
	}
	if schema.ZoomStep >= 2 {
		opts.ZoomStep = schema.ZoomStep
	}
	if schema.PointBudget >= 16 {
		opts.PointBudget = schema.PointBudget
	}
	opts.Channels = schema.Channels
	opts.Labels = schema.Labels
	return opts, nil
}

// Channel returns the configured presentation for a channel name.
func (o *DisplayOptions) Channel(name string) (ChannelOptions, bool) {
	for _, c := range o.Channels {
		if c.Name == name {
			return c, true
		}
	}
	return ChannelOptions{}, false
}

// TimeFormat selects how the tracker and region table render times.
type TimeFormat uint8

const (
	// FormatClock renders a UTC wall-clock time with milliseconds.
	FormatClock TimeFormat = iota
	// FormatRFC3339 renders a full RFC 3339 timestamp.
	FormatRFC3339
	// FormatSeconds renders fractional seconds.
	FormatSeconds
	// FormatRaw renders the integer time unchanged, which suits linear
	// axes whose ordinates are not timestamps.
	FormatRaw
)

func parseTimeFormat(s string) (TimeFormat, error) {
	switch s {
	case "", "clock":
		return FormatClock, nil
	case "rfc3339":
		return FormatRFC3339, nil
	case "seconds":
		return FormatSeconds, nil
	case "raw":
		return FormatRaw, nil
	default:
		return 0, fmt.Errorf("unknown timeFormat %q (valid: clock, rfc3339, seconds, raw)", s)
	}
}

// Format renders a trace time for display.
func (f TimeFormat) Format(tNS int64) string {
	switch f {
	case FormatRFC3339:
		return time.Unix(0, tNS).UTC().Format(time.RFC3339)
	case FormatSeconds:
		return strconv.FormatFloat(float64(tNS)/1e9, 'f', 3, 64) + "s"
	case FormatRaw:
		return strconv.FormatInt(tNS, 10)
	default:
		return time.Unix(0, tNS).UTC().Format("15:04:05.000")
	}
}

// FormatDuration renders a span of trace time for display.
func (f TimeFormat) FormatDuration(dNS int64) string {
	if f == FormatRaw {
		return strconv.FormatInt(dNS, 10)
	}
	return time.Duration(dNS).Round(time.Millisecond).String()
}

// Interpolation selects how line segments connect successive samples.
type Interpolation uint8

const (
	// InterpLinear connects samples directly.
	InterpLinear Interpolation = iota
	// InterpStepBefore holds each new value from the previous sample's
	// time onward.
	InterpStepBefore
	// InterpStepAfter holds each value until the next sample's time.
	InterpStepAfter
)

func parseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "linear":
		return InterpLinear, nil
	case "step-before":
		return InterpStepBefore, nil
	case "step-after":
		return InterpStepAfter, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q (valid: linear, step-before, step-after)", s)
	}
}

// corner returns the intermediate corner point, if any, that this
// interpolation inserts between two successive samples.
func (ip Interpolation) corner(prev, next f32.Point) (f32.Point, bool) {
	switch ip {
	case InterpStepBefore:
		return f32.Pt(prev.X, next.Y), true
	case InterpStepAfter:
		return f32.Pt(next.X, prev.Y), true
	default:
		return f32.Point{}, false
	}
}

func parseAxisKind(s string) (AxisKind, error) {
	switch s {
	case "", "temporal":
		return AxisTemporal, nil
	case "linear":
		return AxisLinear, nil
	default:
		return 0, fmt.Errorf("unknown axis %q (valid: temporal, linear)", s)
	}
}
