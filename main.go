package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"git.sr.ht/~whereswaldon/trace-tagger/backend"
)

func loadOptions(path string) *DisplayOptions {
	if path == "" {
		return DefaultDisplayOptions()
	}
	opts, err := LoadDisplayOptions(path)
	if err != nil {
		log.Fatal(err)
	}
	return opts
}

// parseExportRange reads "start:end" time bounds in trace nanoseconds.
func parseExportRange(s string) (start, end int64, err error) {
	lhs, rhs, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, fmt.Errorf("range %q must have the form start:end", s)
	}
	start, err = strconv.ParseInt(strings.TrimSpace(lhs), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad range start: %w", err)
	}
	end, err = strconv.ParseInt(strings.TrimSpace(rhs), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad range end: %w", err)
	}
	return start, end, nil
}

func parseExportSize(s string) (w, h int, err error) {
	lhs, rhs, found := strings.Cut(s, "x")
	if !found {
		return 0, 0, fmt.Errorf("size %q must have the form WIDTHxHEIGHT", s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(lhs))
	if err != nil {
		return 0, 0, fmt.Errorf("bad width: %w", err)
	}
	h, err = strconv.Atoi(strings.TrimSpace(rhs))
	if err != nil {
		return 0, 0, fmt.Errorf("bad height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}

// exportMain renders a trace straight to a PNG file without opening a
// window.
func exportMain(opts *DisplayOptions, tracePath, outPath, rangeSpec, sizeSpec string) error {
	var source io.ReadCloser = os.Stdin
	if tracePath != "" && tracePath != "-" {
		f, err := os.Open(tracePath)
		if err != nil {
			return err
		}
		source = f
	}
	defer source.Close()
	data, err := backend.LoadTrace(source)
	if err != nil {
		return err
	}
	var spec exportSpec
	if sizeSpec != "" {
		if spec.Width, spec.Height, err = parseExportSize(sizeSpec); err != nil {
			return err
		}
	}
	if rangeSpec != "" {
		if spec.RangeStart, spec.RangeEnd, err = parseExportRange(rangeSpec); err != nil {
			return err
		}
		spec.HasRange = true
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := renderTracePNG(out, data.Snapshots(), backend.RegionSet{}, opts, spec); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func main() {
	configPath := flag.String("config", "", "path to a display options YAML file")
	exportPath := flag.String("export", "", "render the trace to this PNG file and exit")
	exportRange := flag.String("export-range", "", "limit the export to start:end trace nanoseconds")
	exportSize := flag.String("export-size", "", "export image size as WIDTHxHEIGHT")
	flag.Parse()
	opts := loadOptions(*configPath)
	tracePath := flag.Arg(0)
	if *exportPath != "" {
		if err := exportMain(opts, tracePath, *exportPath, *exportRange, *exportSize); err != nil {
			log.Fatal(err)
		}
		return
	}

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	mutator := stream.NewMutator(appCtx, time.Second)
	bundle, err := backend.NewBundle(appCtx, mutator)
	if err != nil {
		log.Fatal(err)
	}
	if len(opts.Labels) > 0 {
		defs := make([]backend.LabelDef, len(opts.Labels))
		for i, l := range opts.Labels {
			defs[i] = backend.LabelDef{Name: l.Name, Color: l.Color}
		}
		bundle.Annotations.Apply(backend.OpSeedLabels{Labels: defs})
	}
	if tracePath != "" {
		f, err := os.Open(tracePath)
		if err != nil {
			log.Fatal(err)
		}
		bundle.Datasource.LoadFromStream(backend.ModeReplaying, f)
	} else if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		// A piped trace may still be growing, so record it like a live
		// monitor session.
		bundle.Datasource.LoadFromStream(backend.ModeMonitoring, os.Stdin)
	}
	go func() {
		w := app.NewWindow(app.Title(opts.Title))
		ws := backend.NewWindowState(appCtx, bundle, w)
		expl := explorer.NewExplorer(w)
		ui := NewUI(ws, expl, opts)
		err := loop(w, expl, ui)
		cancel()
		if err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, expl *explorer.Explorer, ui *UI) error {
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case system.DestroyEvent:
			return ev.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
