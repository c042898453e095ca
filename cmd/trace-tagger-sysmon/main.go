package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"
)

// telemetry is one sample of whole-system state.
type telemetry struct {
	Load1     float64
	Load5     float64
	MemUsedMB float64
	Procs     float64
}

type column struct {
	heading string
	value   func(telemetry) float64
}

var columns = []column{
	{"load1", func(t telemetry) float64 { return t.Load1 }},
	{"load5", func(t telemetry) float64 { return t.Load5 }},
	{"mem_used (MB)", func(t telemetry) float64 { return t.MemUsedMB }},
	{"procs", func(t telemetry) float64 { return t.Procs }},
}

func headerRow() string {
	var sb strings.Builder
	sb.WriteString("time (ns)")
	for _, col := range columns {
		sb.WriteString(", ")
		sb.WriteString(col.heading)
	}
	return sb.String()
}

func sampleRow(ns int64, t telemetry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", ns)
	for _, col := range columns {
		fmt.Fprintf(&sb, ", %f", col.value(t))
	}
	return sb.String()
}

func linuxUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: collect a csv system telemetry trace
Usage:

 %[1]s > file

OR

 %[1]s | trace-tagger

`, os.Args[0])
	flag.PrintDefaults()
}

func unsupportedUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: collect a csv system telemetry trace

This platform is unsupported; no telemetry is available.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	switch runtime.GOOS {
	case "linux":
		flag.Usage = linuxUsage
	default:
		flag.Usage = unsupportedUsage
	}
	dur := flag.Duration("sample-interval", 500*time.Millisecond, "Interval between telemetry samples")
	outputName := flag.String("output", "-", "Output file for CSV telemetry data")
	flag.Parse()

	// Probe once up front so unsupported platforms fail before emitting
	// a partial trace.
	if _, err := readTelemetry(); err != nil {
		log.Fatalf("no telemetry available: %v", err)
	}
	var output io.WriteCloser = os.Stdout
	if *outputName != "-" {
		f, err := os.Create(*outputName)
		if err != nil {
			log.Fatalf("failed opening output file %q: %v", *outputName, err)
		}
		output = f
	}
	fmt.Fprintln(output, headerRow())
	ticker := time.NewTicker(*dur)
	defer ticker.Stop()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	for {
		select {
		case <-sigChan:
			if err := output.Close(); err != nil {
				log.Printf("failed closing output: %v", err)
			}
			return
		case now := <-ticker.C:
			sample, err := readTelemetry()
			if err != nil {
				log.Fatalf("failed reading telemetry: %v", err)
			}
			fmt.Fprintln(output, sampleRow(now.UnixNano(), sample))
		}
	}
}
