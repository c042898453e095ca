package backend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

// A trace is CSV data of the form:
//
//	time (ns), load1, mem_used (MB), ...
//
// The first column is the sample timestamp and every other column is a
// channel. A channel heading may carry a parenthesized unit suffix.

// parseHeading splits a column heading into its channel name and
// optional unit.
func parseHeading(heading string) (name, unit string) {
	heading = strings.TrimSpace(heading)
	open := strings.LastIndex(heading, "(")
	if open > 0 && strings.HasSuffix(heading, ")") {
		return strings.TrimSpace(heading[:open]), heading[open+1 : len(heading)-1]
	}
	return heading, ""
}

// formatHeading reverses [parseHeading] when writing session files.
func formatHeading(name, unit string) string {
	if unit == "" {
		return name
	}
	return name + " (" + unit + ")"
}

// traceHeader describes the channels discovered in a trace's heading
// row.
type traceHeader struct {
	names   []string
	units   []string
	columns []int
}

func parseTraceHeader(record []string) (traceHeader, error) {
	if len(record) < 2 {
		return traceHeader{}, fmt.Errorf("trace heading row has %d columns, need a time column and at least one channel", len(record))
	}
	var header traceHeader
	for i, heading := range record {
		if i == 0 {
			continue
		}
		name, unit := parseHeading(heading)
		if name == "" {
			continue
		}
		header.names = append(header.names, name)
		header.units = append(header.units, unit)
		header.columns = append(header.columns, i)
	}
	if len(header.columns) == 0 {
		return traceHeader{}, errors.New("trace heading row declares no channels")
	}
	return header, nil
}

// parseTraceRow extracts the timestamp and per-channel values from one
// record. Channels with empty cells are skipped, so the values callback
// receives only populated cells.
func parseTraceRow(record []string, header traceHeader, values func(channel int, sample Sample)) error {
	if len(record) == 0 {
		return errors.New("empty trace record")
	}
	timestampNS, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return fmt.Errorf("failed parsing timestamp: %w", err)
	}
	for channel, column := range header.columns {
		if column >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[column])
		if len(cell) < 1 {
			// Skip null cells.
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			log.Printf("failed parsing data[%d]=%q: %v", column, cell, err)
			continue
		}
		values(channel, Sample{TimestampNS: timestampNS, Value: value})
	}
	return nil
}

// LoadTrace synchronously reads an entire trace into a Dataset. It is
// used by headless consumers of trace data; the interactive application
// streams traces through [Datasource] instead.
func LoadTrace(source io.Reader) (*Dataset, error) {
	csvReader := csv.NewReader(source)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	headings, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed reading trace headings: %w", err)
	}
	header, err := parseTraceHeader(headings)
	if err != nil {
		return nil, err
	}
	dataset := &Dataset{}
	ids := make([]int, len(header.names))
	for i := range ids {
		ids[i] = i
	}
	dataset.SetHeadings(header.names, header.units, ids)
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed reading trace record: %w", err)
		}
		if err := parseTraceRow(rec, header, func(channel int, sample Sample) {
			dataset.Insert(channel, sample)
		}); err != nil {
			log.Printf("skipping trace record: %v", err)
		}
	}
	if !dataset.Initialized() {
		return nil, errors.New("trace contains no samples")
	}
	return dataset, nil
}
