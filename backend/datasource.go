package backend

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/fsnotify/fsnotify"
)

// Session is one loaded or live trace.
type Session struct {
	ID   string
	Data *Dataset
	Mode Mode
	Err  error
}

type InputKind uint8

const (
	KindSample InputKind = iota
	KindHeadings
)

// InputData is one parsed element of a trace stream, either a heading
// row registering channels or a single channel sample.
type InputData struct {
	Kind InputKind
	Sample
	Series        int
	Headings      []string
	HeadingUnits  []string
	HeadingSeries []int
}

type Mode uint8

const (
	ModeNone Mode = iota
	// ModeMonitoring follows a live stream and records a copy to disk.
	ModeMonitoring
	// ModeReplaying follows an existing trace without recording.
	ModeReplaying
)

// Datasource ingests trace data and publishes per-session snapshots as
// the data grows.
type Datasource struct {
	pool          *stream.MutationPool[string, Session]
	watcher       *fsnotify.Watcher
	appCtx        context.Context
	seriesCounter atomic.Int32
}

func NewDatasource(appCtx context.Context, mutator *stream.Mutator) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	ds := &Datasource{
		pool:    stream.NewMutationPool[string, Session](mutator),
		watcher: watcher,
		appCtx:  appCtx,
	}
	return ds, nil
}

func (d *Datasource) SessionStream(ctx context.Context) <-chan map[string]*stream.Mutation[Session] {
	return d.pool.Stream(ctx)
}

func (d *Datasource) getMutation(ctx context.Context, sessionID string) *stream.Mutation[Session] {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return (<-d.SessionStream(ctx))[sessionID]
}

func (d *Datasource) StreamSession(ctx context.Context, sessionID string) <-chan Session {
	return d.getMutation(ctx, sessionID).Stream(ctx)
}

// CurrentSessionStream follows the most recently started session,
// switching to newer sessions as they appear. Session IDs are generated
// from start timestamps, so the lexicographic maximum is the newest.
func (d *Datasource) CurrentSessionStream(ctx context.Context) <-chan Session {
	return stream.Multiplex(d.pool.Stream(ctx), func(ctx context.Context, state string, mutations map[string]*stream.Mutation[Session]) (<-chan Session, string) {
		newest := ""
		for id := range mutations {
			if id > newest {
				newest = id
			}
		}
		if newest == "" || newest == state {
			return nil, state
		}
		state = newest
		return mutations[newest].Stream(ctx), state
	})
}

func generateSessionID() string {
	return strings.Replace(time.Now().UTC().Format("20060102150405.000000000"), ".", "", 1)
}

func sessionFileFor(sessionID string) string {
	return "trace-tagger-" + sessionID + ".csv"
}

func (d *Datasource) recordSession(sessionID string, mode Mode, files ...io.ReadCloser) *stream.Mutation[Session] {
	box, _ := stream.Mutate(d.pool, sessionID, func(ctx context.Context) (values <-chan Session) {
		out := make(chan Session, 1)
		go func() {
			defer close(out)
			session := Session{
				ID:   sessionID,
				Data: &Dataset{},
				Mode: mode,
				Err:  nil,
			}
			// Emit our boxed dataset immediately.
			out <- session

			rawSamples := make(chan InputData, 1024)
			for _, file := range files {
				if f, ok := file.(interface{ Name() string }); ok {
					d.watcher.Add(f.Name())
				}
				go d.readSource(file, rawSamples)
			}

			var sessionFile *os.File
			var sessionWriter *bufio.Writer
			var csvWriter *csv.Writer
			var err error
			if mode == ModeMonitoring {
				sessionFile, err = os.Create(sessionFileFor(sessionID))
				if err != nil {
					session.Err = err
					out <- session
					return
				}
				sessionWriter = bufio.NewWriter(sessionFile)
				csvWriter = csv.NewWriter(sessionWriter)
			}
			flushAll := func() {
				if mode == ModeMonitoring {
					csvWriter.Flush()
					err := sessionWriter.Flush()
					err = errors.Join(err, sessionFile.Close())
					if err != nil {
						session.Err = err
						out <- session
					}
				}
			}
			headings := []string{"time (ns)"}
			seriesIDToHeading := map[int]int{}
			for {
				select {
				case <-ctx.Done():
					flushAll()
					return
				case sample := <-rawSamples:
					if sample.Kind == KindHeadings {
						for sampleHeadingIdx, heading := range sample.Headings {
							seriesID := sample.HeadingSeries[sampleHeadingIdx]
							seriesIDToHeading[seriesID] = len(headings)
							headings = append(headings, formatHeading(heading, sample.HeadingUnits[sampleHeadingIdx]))
						}
						session.Data.SetHeadings(sample.Headings, sample.HeadingUnits, sample.HeadingSeries)
						if mode == ModeMonitoring {
							if err := csvWriter.Write(headings); err != nil {
								session.Err = err
								out <- session
								return
							}
						}
					} else {
						session.Data.Insert(sample.Series, sample.Sample)
						if mode == ModeMonitoring {
							position := seriesIDToHeading[sample.Series]
							record := make([]string, len(headings))
							record[0] = strconv.FormatInt(sample.TimestampNS, 10)
							record[position] = strconv.FormatFloat(sample.Value, 'f', -1, 64)
							if err := csvWriter.Write(record); err != nil {
								session.Err = err
								out <- session
								return
							}
						}
					}
					out <- session
				}
			}
		}()
		return out
	})
	return box
}

// LoadFromFile prompts the user for a trace file and replays it.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) (string, error) {
	file, err := expl.ChooseFile()
	if err != nil {
		return "", err
	}
	return d.LoadFromStream(ModeReplaying, file), nil
}

func (d *Datasource) LoadFromStream(mode Mode, files ...io.ReadCloser) string {
	id := generateSessionID()
	return d.LoadFromStreamWithID(id, mode, files...)
}

func (d *Datasource) LoadFromStreamWithID(sessionID string, mode Mode, files ...io.ReadCloser) string {
	d.recordSession(sessionID, mode, files...)
	return sessionID
}

// LaunchMonitor starts the bundled system monitor and follows its
// output as a recorded session.
func (d *Datasource) LaunchMonitor() (string, error) {
	traceReader, err := launchMonitor(d.appCtx)
	if err != nil {
		return "", err
	}
	id := generateSessionID()
	d.recordSession(id, ModeMonitoring, traceReader)
	return id, nil
}

func runMonitorWithName(ctx context.Context, exeName string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, exeName)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed acquiring stdout pipe: %w", err)
	}
	return out, cmd.Start()
}

func launchMonitor(ctx context.Context) (io.ReadCloser, error) {
	const monitorExeName = "trace-tagger-sysmon"
	execPath, err := os.Executable()
	if err == nil {
		monitorExe := filepath.Join(filepath.Dir(execPath), monitorExeName)
		if runtime.GOOS == "windows" {
			monitorExe += ".exe"
		}
		log.Printf("Looking for %q", monitorExe)
		output, err := runMonitorWithName(ctx, monitorExe)
		if err == nil {
			return output, nil
		}
	}

	log.Printf("Searching path for monitor")
	monitorExe, err := exec.LookPath(monitorExeName)
	if err != nil {
		return nil, fmt.Errorf("unable to locate %q in $PATH: %w", monitorExeName, err)
	}

	output, err := runMonitorWithName(ctx, monitorExe)
	if err != nil {
		return nil, fmt.Errorf("failed launching %q: %w", monitorExe, err)
	}

	return output, nil
}

func (d *Datasource) readSource(source io.Reader, samplesChan chan InputData) {
	bufRead := NewLineReader(source)
	csvReader := csv.NewReader(bufRead)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	headings, err := csvReader.Read()
	if err != nil {
		log.Printf("failed reading trace headings: %v", err)
		return
	}
	header, err := parseTraceHeader(headings)
	if err != nil {
		log.Printf("failed parsing trace headings: %v", err)
		return
	}
	headingSeries := make([]int, len(header.names))
	for i := range header.names {
		headingSeries[i] = int(d.seriesCounter.Add(1))
	}
	samplesChan <- InputData{
		Kind:          KindHeadings,
		Headings:      header.names,
		HeadingUnits:  header.units,
		HeadingSeries: headingSeries,
	}
	// Continuously parse the CSV data and send it on the channel.
readLoop:
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				for ev := range d.watcher.Events {
					if ev.Op == fsnotify.Write {
						continue readLoop
					}
				}
			}
			log.Printf("could not read trace data: %v", err)
			return
		}
		if err := parseTraceRow(rec, header, func(channel int, sample Sample) {
			samplesChan <- InputData{
				Kind:   KindSample,
				Sample: sample,
				Series: headingSeries[channel],
			}
		}); err != nil {
			log.Printf("skipping trace record: %v", err)
		}
	}
}

// lineReader is a specialized reader that ensures only entire newline-delimited lines are
// read at a time. This is useful when attempting to parse a file that is being actively
// written to as a CSV, as you don't actually attempt to parse any partial lines.
type lineReader struct {
	r       *bufio.Reader
	partial []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r: bufio.NewReader(r),
	}
}

func (l *lineReader) Read(b []byte) (int, error) {
	data, err := l.r.ReadBytes(byte('\n'))
	if err != nil {
		l.partial = append(l.partial, data...)
		return 0, io.EOF
	}
	var n int
	if len(l.partial) > 0 {
		n = copy(b, l.partial)
		l.partial = l.partial[:copy(l.partial, l.partial[n:])]
		b = b[n:]
	}
	return n + copy(b, data), nil
}
